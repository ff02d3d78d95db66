package indexsync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/campaign-wizard/internal/models"
)

type mockIndexer struct {
	mock.Mock
}

func (m *mockIndexer) Name() string { return "mock" }

func (m *mockIndexer) Upsert(ctx context.Context, doc Document) error {
	return m.Called(doc.ID).Error(0)
}

func (m *mockIndexer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func fastOptions() Options {
	return Options{
		Workers:         2,
		QueueSize:       10,
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		AttemptTimeout:  time.Second,
	}
}

func testDraft() *models.CampaignDraft {
	name := "Spring launch"
	org := "org_1"
	draft := &models.CampaignDraft{Name: &name, OrganizationID: &org, Status: models.CampaignStatusDraft}
	draft.ID = uuid.New()
	return draft
}

func TestSynchronizerPushesToEveryIndexer(t *testing.T) {
	draft := testDraft()
	first, second := &mockIndexer{}, &mockIndexer{}
	first.On("Upsert", draft.ID).Return(nil).Once()
	second.On("Upsert", draft.ID).Return(nil).Once()

	sync := NewSynchronizer(fastOptions(), first, second)
	sync.Start(context.Background())
	sync.Enqueue(draft)
	require.NoError(t, sync.Stop(time.Second))

	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestSynchronizerRetriesThenGivesUp(t *testing.T) {
	draft := testDraft()
	failing := &mockIndexer{}
	failing.On("Upsert", draft.ID).Return(errors.New("index unavailable"))

	sync := NewSynchronizer(fastOptions(), failing)
	sync.Start(context.Background())
	sync.Enqueue(draft)
	require.NoError(t, sync.Stop(time.Second))

	failing.AssertNumberOfCalls(t, "Upsert", 3)
}

func TestSynchronizerRecoversAfterTransientFailure(t *testing.T) {
	draft := testDraft()
	flaky := &mockIndexer{}
	flaky.On("Upsert", draft.ID).Return(errors.New("timeout")).Once()
	flaky.On("Upsert", draft.ID).Return(nil).Once()

	sync := NewSynchronizer(fastOptions(), flaky)
	sync.Start(context.Background())
	sync.Enqueue(draft)
	require.NoError(t, sync.Stop(time.Second))

	flaky.AssertNumberOfCalls(t, "Upsert", 2)
}

func TestSynchronizerDropsWhenQueueFull(t *testing.T) {
	opts := fastOptions()
	opts.QueueSize = 1
	first, second := testDraft(), testDraft()

	idx := &mockIndexer{}
	idx.On("Upsert", first.ID).Return(nil).Once()

	sync := NewSynchronizer(opts, idx)
	sync.Enqueue(first)
	sync.Enqueue(second)
	assert.Len(t, sync.queue, 1)

	sync.Start(context.Background())
	require.NoError(t, sync.Stop(time.Second))

	idx.AssertExpectations(t)
	idx.AssertNotCalled(t, "Upsert", second.ID)
}

func TestSynchronizerDelete(t *testing.T) {
	id := uuid.New()
	idx := &mockIndexer{}
	idx.On("Delete", id).Return(nil).Once()

	sync := NewSynchronizer(fastOptions(), idx)
	sync.Start(context.Background())
	sync.EnqueueDelete(id, nil)
	require.NoError(t, sync.Stop(time.Second))

	idx.AssertExpectations(t)
}

func TestSynchronizerIgnoresTasksAfterStop(t *testing.T) {
	idx := &mockIndexer{}
	sync := NewSynchronizer(fastOptions(), idx)
	sync.Start(context.Background())
	require.NoError(t, sync.Stop(time.Second))

	assert.NotPanics(t, func() { sync.Enqueue(testDraft()) })
	assert.ErrorIs(t, sync.Stop(time.Second), ErrSynchronizerStopped)
	idx.AssertNotCalled(t, "Upsert", mock.Anything)
}
