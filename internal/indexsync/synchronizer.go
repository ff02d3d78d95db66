package indexsync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/campaign-wizard/internal/metrics"
	"github.com/javajoker/campaign-wizard/internal/models"
)

var ErrSynchronizerStopped = errors.New("index synchronizer stopped")

const (
	opUpsert = "upsert"
	opDelete = "delete"
)

type Options struct {
	Workers         int
	QueueSize       int
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// AttemptTimeout bounds a single push to one backend.
	AttemptTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 1000
	}
	if o.MaxAttempts == 0 {
		o.MaxAttempts = 5
	}
	if o.InitialInterval <= 0 {
		o.InitialInterval = 200 * time.Millisecond
	}
	if o.MaxInterval <= 0 {
		o.MaxInterval = 10 * time.Second
	}
	if o.AttemptTimeout <= 0 {
		o.AttemptTimeout = 5 * time.Second
	}
	return o
}

type task struct {
	op             string
	id             uuid.UUID
	organizationID *string
	doc            Document
}

// Synchronizer owns a bounded queue of index tasks and the workers that drain
// it. Callers never wait on an index backend.
type Synchronizer struct {
	indexers []Indexer
	opts     Options
	queue    chan task
	wg       sync.WaitGroup

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
}

func NewSynchronizer(opts Options, indexers ...Indexer) *Synchronizer {
	opts = opts.withDefaults()
	return &Synchronizer{
		indexers: indexers,
		opts:     opts,
		queue:    make(chan task, opts.QueueSize),
	}
}

// Enqueue schedules an upsert of draft. It never blocks; a full queue drops
// the task.
func (s *Synchronizer) Enqueue(draft *models.CampaignDraft) {
	s.submit(task{
		op:             opUpsert,
		id:             draft.ID,
		organizationID: draft.OrganizationID,
		doc:            BuildDocument(draft),
	})
}

// EnqueueDelete schedules removal of a draft from every index.
func (s *Synchronizer) EnqueueDelete(draftID uuid.UUID, organizationID *string) {
	s.submit(task{op: opDelete, id: draftID, organizationID: organizationID})
}

func (s *Synchronizer) submit(t task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		s.logger(t).Warn("Index synchronizer stopped, dropping task")
		metrics.RecordIndexSync("queue", t.op, "dropped")
		return
	}

	select {
	case s.queue <- t:
		metrics.IndexQueueDepth.Set(float64(len(s.queue)))
	default:
		s.logger(t).Warn("Index sync queue full, dropping task")
		metrics.RecordIndexSync("queue", t.op, "dropped")
	}
}

// Start launches the workers. They run until Stop is called or ctx ends.
func (s *Synchronizer) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	for i := 0; i < s.opts.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}
}

// Stop refuses new tasks, lets the workers drain the queue and waits up to
// timeout for them.
func (s *Synchronizer) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrSynchronizerStopped
	}
	s.stopped = true
	close(s.queue)
	started := s.started
	s.mu.Unlock()

	if !started {
		return nil
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		return nil
	case <-time.After(timeout):
		s.cancel()
		<-done
		return context.DeadlineExceeded
	}
}

func (s *Synchronizer) worker(ctx context.Context) {
	defer s.wg.Done()
	for t := range s.queue {
		metrics.IndexQueueDepth.Set(float64(len(s.queue)))
		s.process(ctx, t)
	}
}

func (s *Synchronizer) process(ctx context.Context, t task) {
	for _, indexer := range s.indexers {
		err := s.push(ctx, indexer, t)
		if err != nil {
			s.logger(t).WithError(err).WithField("backend", indexer.Name()).Error("Failed to sync search index")
			metrics.RecordIndexSync(indexer.Name(), t.op, "failure")
			continue
		}
		metrics.RecordIndexSync(indexer.Name(), t.op, "success")
	}
}

func (s *Synchronizer) push(ctx context.Context, indexer Indexer, t task) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.opts.InitialInterval
	policy.MaxInterval = s.opts.MaxInterval

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, s.opts.AttemptTimeout)
		defer cancel()

		if t.op == opDelete {
			return struct{}{}, indexer.Delete(attemptCtx, t.id)
		}
		return struct{}{}, indexer.Upsert(attemptCtx, t.doc)
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(s.opts.MaxAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			s.logger(t).WithError(err).WithField("backend", indexer.Name()).
				WithField("retry_in", next.String()).Debug("Retrying index sync")
		}),
	)
	return err
}

func (s *Synchronizer) logger(t task) *logrus.Entry {
	fields := logrus.Fields{
		"draft_id":  t.id.String(),
		"operation": t.op,
	}
	if t.organizationID != nil {
		fields["org_id"] = *t.organizationID
	}
	return logrus.WithFields(fields)
}
