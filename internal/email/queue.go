package email

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Common errors returned by the queue.
var (
	ErrQueueClosed = errors.New("email queue is closed")
	ErrQueueFull   = errors.New("email queue is full")
)

// Queue is a bounded in-memory job queue. Enqueue never blocks: when the
// buffer is full the job is rejected so request handling stays fast; the
// caller decides whether that is worth more than a log line.
type Queue struct {
	jobs   chan Job
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewQueue creates a queue with the given buffer size.
func NewQueue(size int, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		jobs:   make(chan Job, size),
		logger: logger.With("component", "email_queue"),
	}
}

// Enqueue adds a job for delivery. Returns ErrQueueFull when the buffer is
// at capacity and ErrQueueClosed after Close.
func (q *Queue) Enqueue(job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.jobs <- job:
		q.logger.Debug("email job enqueued",
			"job_id", job.ID,
			"notification_id", job.Context.NotificationID,
			"queue_len", len(q.jobs),
			"queue_cap", cap(q.jobs))
		return nil
	default:
		return fmt.Errorf("%w: capacity %d reached", ErrQueueFull, cap(q.jobs))
	}
}

// Close stops accepting jobs. Jobs already queued are still drained.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
		q.logger.Info("email queue closed")
	}
}

// Channel returns the read side of the queue for the worker.
func (q *Queue) Channel() <-chan Job {
	return q.jobs
}
