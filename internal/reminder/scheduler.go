// Package reminder runs the background sweep that fans out TASK_REMINDER
// notifications for routine tasks approaching their scheduled date.
package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/girmesh03/task-manager-api/internal/domain"
	"github.com/girmesh03/task-manager-api/internal/service"
)

// TaskSource lists the tasks a sweep should remind about.
type TaskSource interface {
	ListDueReminders(ctx context.Context, from, until time.Time) ([]*domain.Task, error)
}

// Dispatcher hands one reminder to the notification pipeline.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd service.Command) (*domain.Notification, error)
}

// Config holds the sweep cadence.
type Config struct {
	// Interval is how often the scheduler sweeps.
	Interval time.Duration
	// LeadTime is how far before its scheduled date a task is reminded.
	LeadTime time.Duration
}

// DefaultConfig returns the standard cadence: an hourly sweep reminding a
// day ahead.
func DefaultConfig() Config {
	return Config{Interval: time.Hour, LeadTime: 24 * time.Hour}
}

// Scheduler periodically sweeps for due routine tasks and dispatches a
// reminder for each. Consecutive sweeps cover adjacent half-open windows so
// a task is reminded exactly once.
type Scheduler struct {
	tasks      TaskSource
	dispatcher Dispatcher
	config     Config
	now        func() time.Time
	logger     *slog.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(tasks TaskSource, dispatcher Dispatcher, cfg Config, log *slog.Logger) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	if cfg.LeadTime <= 0 {
		cfg.LeadTime = DefaultConfig().LeadTime
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		tasks:      tasks,
		dispatcher: dispatcher,
		config:     cfg,
		now:        time.Now,
		logger:     log.With(slog.String("component", "reminder_scheduler")),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (s *Scheduler) Start() {
	go s.run()
}

// Stop halts the loop and waits for an in-flight sweep to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

func (s *Scheduler) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	cursor := s.now().Add(s.config.LeadTime)
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			until := s.now().Add(s.config.LeadTime)
			if !until.After(cursor) {
				continue
			}
			s.Sweep(context.Background(), cursor, until)
			cursor = until
		}
	}
}

// Sweep dispatches a reminder for every routine task scheduled within
// [from, until) and returns the number dispatched. Dispatch failures are
// logged and skipped; the sweep continues with the remaining tasks.
func (s *Scheduler) Sweep(ctx context.Context, from, until time.Time) int {
	due, err := s.tasks.ListDueReminders(ctx, from, until)
	if err != nil {
		s.logger.Error("failed to list due tasks",
			slog.Time("from", from),
			slog.Time("until", until),
			slog.String("error", err.Error()))
		return 0
	}

	dispatched := 0
	for _, task := range due {
		// Reminders are attributed to the task creator.
		actor := domain.Actor{
			UserID:         task.CreatedBy,
			OrganizationID: task.TenantScope.OrganizationID,
			DepartmentID:   task.TenantScope.DepartmentID,
		}
		_, err := s.dispatcher.Dispatch(ctx, service.Command{
			Action:   domain.ActionTaskReminder,
			Resource: task,
			Actor:    actor,
			Options:  service.CommandOptions{WithRealtime: true, WithEmail: true},
		})
		if err != nil {
			s.logger.Error("failed to dispatch reminder",
				slog.String("task_id", task.ID.String()),
				slog.String("error", err.Error()))
			continue
		}
		dispatched++
	}
	if dispatched > 0 {
		s.logger.Info("reminder sweep complete",
			slog.Int("dispatched", dispatched),
			slog.Time("until", until))
	}
	return dispatched
}
