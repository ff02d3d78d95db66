package indexsync

import (
	"context"

	"github.com/google/uuid"
)

// Indexer is one search backend. Upsert is idempotent by document id.
type Indexer interface {
	Name() string
	Upsert(ctx context.Context, doc Document) error
	Delete(ctx context.Context, id uuid.UUID) error
}
