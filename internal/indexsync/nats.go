package indexsync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSConfig points the indexer at a JetStream stream. Published subjects are
// "<SubjectPrefix>.upsert.<id>" and "<SubjectPrefix>.delete.<id>".
type NATSConfig struct {
	URL           string
	Stream        string
	SubjectPrefix string
}

// Event is the message an external indexer consumes.
type Event struct {
	Operation string    `json:"operation"`
	ID        uuid.UUID `json:"id"`
	Document  *Document `json:"document,omitempty"`
	SentAt    time.Time `json:"sentAt"`
}

// NATSIndexer hands documents to an external indexer through JetStream.
type NATSIndexer struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	prefix string
}

func NewNATSIndexer(ctx context.Context, cfg NATSConfig) (*NATSIndexer, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.Name("campaign-wizard-indexsync"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.Stream,
		Subjects: []string{cfg.SubjectPrefix + ".>"},
		MaxAge:   7 * 24 * time.Hour,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create stream %s: %w", cfg.Stream, err)
	}

	return &NATSIndexer{conn: conn, js: js, prefix: cfg.SubjectPrefix}, nil
}

func (n *NATSIndexer) Name() string { return "nats" }

func (n *NATSIndexer) Upsert(ctx context.Context, doc Document) error {
	return n.publish(ctx, Event{Operation: "upsert", ID: doc.ID, Document: &doc, SentAt: time.Now()})
}

func (n *NATSIndexer) Delete(ctx context.Context, id uuid.UUID) error {
	return n.publish(ctx, Event{Operation: "delete", ID: id, SentAt: time.Now()})
}

func (n *NATSIndexer) publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode index event: %w", err)
	}
	subject := fmt.Sprintf("%s.%s.%s", n.prefix, event.Operation, event.ID)
	if _, err := n.js.Publish(ctx, subject, data, jetstream.WithMsgID(subject+"."+event.SentAt.Format(time.RFC3339Nano))); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	return nil
}

func (n *NATSIndexer) Close() {
	n.conn.Close()
}
