package email

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

// DeliveryRecorder persists the outcome of one delivery cycle on the
// notification the jobs belong to. The worker calls it once per
// notification, after every job in the batch has been attempted.
type DeliveryRecorder interface {
	RecordDelivery(ctx context.Context, notificationID uuid.UUID, succeeded bool, errMsg string) error
}

// WorkerConfig holds the retry policy for the drain loop.
type WorkerConfig struct {
	// RetryAttempts is the total number of tries per job before it is
	// dropped.
	RetryAttempts int
	// RetryDelay is the fixed wait between tries.
	RetryDelay time.Duration
}

// DefaultWorkerConfig returns the standard retry policy.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{RetryAttempts: 3, RetryDelay: 5 * time.Second}
}

// batchState tracks progress of one notification's delivery cycle.
type batchState struct {
	remaining int
	failures  int
	lastErr   string
}

// Worker is the single consumer of the queue. One goroutine drains jobs in
// order; starting an already running worker is a no-op, so there is never
// more than one drain loop and no job is sent twice.
type Worker struct {
	queue    *Queue
	sender   Sender
	recorder DeliveryRecorder
	config   WorkerConfig
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	// batches is only touched from the drain goroutine.
	batches map[uuid.UUID]*batchState
}

// NewWorker creates a worker over the queue. The recorder may be nil when
// no delivery status needs persisting (welcome and password reset mail).
func NewWorker(queue *Queue, sender Sender, recorder DeliveryRecorder, config WorkerConfig, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = DefaultWorkerConfig().RetryAttempts
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultWorkerConfig().RetryDelay
	}
	return &Worker{
		queue:    queue,
		sender:   sender,
		recorder: recorder,
		config:   config,
		logger:   logger.With("component", "email_worker"),
		batches:  make(map[uuid.UUID]*batchState),
	}
}

// Start launches the drain loop. Calling Start while the loop is already
// running does nothing.
func (w *Worker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.running = true
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.run(ctx)
	w.logger.Info("email worker started",
		"retry_attempts", w.config.RetryAttempts,
		"retry_delay", w.config.RetryDelay)
}

// Stop cancels the drain loop and waits for the in-flight job to finish.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel := w.cancel
	done := w.done
	w.running = false
	w.mu.Unlock()

	cancel()
	<-done
	w.logger.Info("email worker stopped")
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-w.queue.Channel():
			if !ok {
				return
			}
			w.process(ctx, job)
		}
	}
}

// process delivers one job with retries and folds the outcome into the
// notification's batch state.
func (w *Worker) process(ctx context.Context, job Job) {
	backoff := retry.WithMaxRetries(uint64(w.config.RetryAttempts-1), retry.NewConstant(w.config.RetryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if sendErr := w.sender.Send(ctx, job); sendErr != nil {
			w.logger.Warn("email send failed, will retry",
				"job_id", job.ID,
				"to", job.To,
				"error", sendErr)
			return retry.RetryableError(sendErr)
		}
		return nil
	})
	if err != nil {
		w.logger.Error("email dropped after retries exhausted",
			"job_id", job.ID,
			"to", job.To,
			"notification_id", job.Context.NotificationID,
			"attempts", w.config.RetryAttempts,
			"error", err)
	}
	w.finish(ctx, job, err)
}

// finish updates batch accounting and, when the last job of a notification
// has been attempted, records the cycle outcome.
func (w *Worker) finish(ctx context.Context, job Job, sendErr error) {
	nid := job.Context.NotificationID
	if nid == uuid.Nil || w.recorder == nil {
		return
	}

	state, ok := w.batches[nid]
	if !ok {
		size := job.Context.BatchSize
		if size <= 0 {
			size = 1
		}
		state = &batchState{remaining: size}
		w.batches[nid] = state
	}
	state.remaining--
	if sendErr != nil {
		state.failures++
		state.lastErr = sendErr.Error()
	}
	if state.remaining > 0 {
		return
	}
	delete(w.batches, nid)

	succeeded := state.failures == 0
	if err := w.recorder.RecordDelivery(ctx, nid, succeeded, state.lastErr); err != nil {
		w.logger.Error("failed to record email delivery outcome",
			"notification_id", nid,
			"error", err)
	}
}
