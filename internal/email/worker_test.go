package email

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakySender fails a configurable number of times before succeeding.
type flakySender struct {
	mu       sync.Mutex
	failures int
	calls    int
}

func (s *flakySender) Send(_ context.Context, _ Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failures {
		return errors.New("transient smtp failure")
	}
	return nil
}

func (s *flakySender) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// recordingRecorder captures RecordDelivery calls.
type recordingRecorder struct {
	mu      sync.Mutex
	records []deliveryRecord
}

type deliveryRecord struct {
	notificationID uuid.UUID
	succeeded      bool
	errMsg         string
}

func (r *recordingRecorder) RecordDelivery(_ context.Context, nid uuid.UUID, succeeded bool, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, deliveryRecord{nid, succeeded, errMsg})
	return nil
}

func (r *recordingRecorder) all() []deliveryRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]deliveryRecord, len(r.records))
	copy(out, r.records)
	return out
}

func testJob(t *testing.T, nid uuid.UUID, batchSize int) Job {
	t.Helper()
	job, err := NewJob("user@example.com", "Task assigned to you: fix the pump", "<p>hi</p>", "hi",
		JobContext{NotificationID: nid, UserID: uuid.New(), BatchSize: batchSize})
	require.NoError(t, err)
	return job
}

func fastConfig() WorkerConfig {
	return WorkerConfig{RetryAttempts: 3, RetryDelay: time.Millisecond}
}

func TestWorker_RetriesThenSucceeds(t *testing.T) {
	queue := NewQueue(4, nil)
	sender := &flakySender{failures: 2}
	recorder := &recordingRecorder{}
	worker := NewWorker(queue, sender, recorder, fastConfig(), nil)

	nid := uuid.New()
	require.NoError(t, queue.Enqueue(testJob(t, nid, 1)))

	worker.Start()
	defer worker.Stop()

	require.Eventually(t, func() bool {
		return len(recorder.all()) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 3, sender.callCount(), "two failures then one success")
	rec := recorder.all()[0]
	assert.Equal(t, nid, rec.notificationID)
	assert.True(t, rec.succeeded)
	assert.Empty(t, rec.errMsg)
}

func TestWorker_DropsAfterRetriesExhausted(t *testing.T) {
	queue := NewQueue(4, nil)
	sender := &flakySender{failures: 100}
	recorder := &recordingRecorder{}
	worker := NewWorker(queue, sender, recorder, fastConfig(), nil)

	nid := uuid.New()
	require.NoError(t, queue.Enqueue(testJob(t, nid, 1)))

	worker.Start()
	defer worker.Stop()

	require.Eventually(t, func() bool {
		return len(recorder.all()) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 3, sender.callCount(), "retry policy caps total tries")
	rec := recorder.all()[0]
	assert.False(t, rec.succeeded)
	assert.Contains(t, rec.errMsg, "transient smtp failure")
}

func TestWorker_RecordsOncePerNotificationBatch(t *testing.T) {
	queue := NewQueue(4, nil)
	sender := &flakySender{}
	recorder := &recordingRecorder{}
	worker := NewWorker(queue, sender, recorder, fastConfig(), nil)

	nid := uuid.New()
	require.NoError(t, queue.Enqueue(testJob(t, nid, 3)))
	require.NoError(t, queue.Enqueue(testJob(t, nid, 3)))
	require.NoError(t, queue.Enqueue(testJob(t, nid, 3)))

	worker.Start()
	defer worker.Stop()

	require.Eventually(t, func() bool {
		return sender.callCount() == 3
	}, time.Second, 5*time.Millisecond)

	// The outcome is recorded after the whole batch, not per job.
	require.Eventually(t, func() bool {
		return len(recorder.all()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.True(t, recorder.all()[0].succeeded)
}

func TestWorker_StartIsIdempotent(t *testing.T) {
	queue := NewQueue(8, nil)
	sender := &flakySender{}
	worker := NewWorker(queue, sender, nil, fastConfig(), nil)

	worker.Start()
	worker.Start()
	defer worker.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, queue.Enqueue(testJob(t, uuid.New(), 1)))
	}

	require.Eventually(t, func() bool {
		return sender.callCount() == 5
	}, time.Second, 5*time.Millisecond)
	// A second Start must not have spawned a competing consumer that
	// double-sends; exactly one send per job.
	assert.Equal(t, 5, sender.callCount())
}

func TestQueue_FullAndClosed(t *testing.T) {
	queue := NewQueue(1, nil)

	require.NoError(t, queue.Enqueue(testJob(t, uuid.New(), 1)))
	err := queue.Enqueue(testJob(t, uuid.New(), 1))
	assert.ErrorIs(t, err, ErrQueueFull)

	queue.Close()
	err = queue.Enqueue(testJob(t, uuid.New(), 1))
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestNewJobValidation(t *testing.T) {
	_, err := NewJob("", "subject", "", "", JobContext{})
	assert.ErrorIs(t, err, ErrEmptyRecipient)

	_, err = NewJob("user@example.com", "", "", "", JobContext{})
	assert.ErrorIs(t, err, ErrEmptySubject)
}
