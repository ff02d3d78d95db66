package testutil

import (
	"sync"

	"github.com/google/uuid"

	"github.com/javajoker/campaign-wizard/internal/models"
)

// RecordingQueue remembers every index request it receives.
type RecordingQueue struct {
	mu      sync.Mutex
	upserts []uuid.UUID
	deletes []uuid.UUID
}

func (q *RecordingQueue) Enqueue(draft *models.CampaignDraft) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.upserts = append(q.upserts, draft.ID)
}

func (q *RecordingQueue) EnqueueDelete(draftID uuid.UUID, _ *string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.deletes = append(q.deletes, draftID)
}

func (q *RecordingQueue) Upserts() []uuid.UUID {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]uuid.UUID(nil), q.upserts...)
}

func (q *RecordingQueue) Deletes() []uuid.UUID {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]uuid.UUID(nil), q.deletes...)
}
