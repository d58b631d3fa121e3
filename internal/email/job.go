package email

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Common validation errors for jobs.
var (
	ErrEmptyRecipient = errors.New("job recipient cannot be empty")
	ErrEmptySubject   = errors.New("job subject cannot be empty")
)

// Job is one independent email delivery unit: a single recipient with
// rendered subject and bodies. Context carries identifiers the worker logs
// and, when set, the notification whose delivery status is updated after
// the whole batch for that notification has been attempted.
type Job struct {
	ID      uuid.UUID
	To      string
	Subject string
	HTML    string
	Text    string
	Context JobContext
}

// JobContext ties a job back to the notification and batch it belongs to.
type JobContext struct {
	NotificationID uuid.UUID
	UserID         uuid.UUID
	// BatchSize is the number of jobs queued for the same notification;
	// the worker updates the notification's delivery status after the
	// last one.
	BatchSize int
}

// NewJob builds a job and validates the fields delivery cannot do without.
func NewJob(to, subject, html, text string, jctx JobContext) (Job, error) {
	job := Job{
		ID:      uuid.New(),
		To:      to,
		Subject: subject,
		HTML:    html,
		Text:    text,
		Context: jctx,
	}
	if job.To == "" {
		return Job{}, ErrEmptyRecipient
	}
	if job.Subject == "" {
		return Job{}, ErrEmptySubject
	}
	return job, nil
}

// Sender delivers one email. Implementations must be safe for use from the
// worker goroutine.
type Sender interface {
	Send(ctx context.Context, job Job) error
}
