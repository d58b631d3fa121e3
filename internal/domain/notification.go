package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ActionType identifies the mutating action a notification fans out.
type ActionType string

// Known action types.
const (
	ActionTaskCreated     ActionType = "TASK_CREATED"
	ActionTaskAssigned    ActionType = "TASK_ASSIGNED"
	ActionTaskUpdated     ActionType = "TASK_UPDATED"
	ActionTaskCompleted   ActionType = "TASK_COMPLETED"
	ActionTaskDeleted     ActionType = "TASK_DELETED"
	ActionTaskRestored    ActionType = "TASK_RESTORED"
	ActionTaskReminder    ActionType = "TASK_REMINDER"
	ActionActivityCreated ActionType = "ACTIVITY_CREATED"
	ActionActivityUpdated ActionType = "ACTIVITY_UPDATED"
	ActionActivityDeleted ActionType = "ACTIVITY_DELETED"
	ActionCommentAdded    ActionType = "COMMENT_ADDED"
	ActionCommentUpdated  ActionType = "COMMENT_UPDATED"
	ActionMention         ActionType = "MENTION"
	ActionAnnouncement    ActionType = "ANNOUNCEMENT"
)

// MaxRecipientsPerNotification caps the recipient list of one notification.
// Exceeding the cap is a validation failure that aborts the enclosing
// transaction.
const MaxRecipientsPerNotification = 100

// Common validation errors for Notification.
var (
	ErrEmptyNotificationID    = errors.New("notification ID cannot be empty")
	ErrEmptyNotificationTitle = errors.New("notification title cannot be empty")
	ErrNoRecipients           = errors.New("notification must have at least one recipient")
	ErrTooManyRecipients      = fmt.Errorf("%w: recipient count exceeds %d", ErrValidation, MaxRecipientsPerNotification)
)

// ReadReceipt records that one recipient read the notification.
type ReadReceipt struct {
	UserID uuid.UUID `json:"user_id"`
	ReadAt time.Time `json:"read_at"`
}

// EmailDelivery tracks the outcome of the email channel for one
// notification. Attempts counts delivery cycles over the whole recipient
// set, not per-job retries.
type EmailDelivery struct {
	Sent     bool       `json:"sent"`
	Attempts int        `json:"attempts"`
	SentAt   *time.Time `json:"sent_at,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// Notification is the durable record of one fan-out event: who was told
// what, when, and whether email delivery succeeded. Once persisted it is
// immutable except for ReadBy appends and EmailDelivery status updates.
type Notification struct {
	ID             uuid.UUID     `json:"id"`
	OrganizationID uuid.UUID     `json:"organization_id"`
	DepartmentID   *uuid.UUID    `json:"department_id,omitempty"`
	Type           ActionType    `json:"type"`
	Title          string        `json:"title"`
	Message        string        `json:"message"`
	EntityID       *uuid.UUID    `json:"entity_id,omitempty"`
	EntityModel    *EntityModel  `json:"entity_model,omitempty"`
	Recipients     []uuid.UUID   `json:"recipients"`
	ReadBy         []ReadReceipt `json:"read_by,omitempty"`
	EmailDelivery  EmailDelivery `json:"email_delivery"`
	Lifecycle
}

// NewNotification creates a new Notification for the given action and
// recipient set. The caller has already resolved and validated recipients;
// this constructor only enforces structural invariants, including the
// recipient cap.
func NewNotification(
	action ActionType,
	title, message string,
	entity *Ref,
	recipients []uuid.UUID,
	tenant Tenant,
	actor uuid.UUID,
) (*Notification, error) {
	n := &Notification{
		ID:             uuid.New(),
		OrganizationID: tenant.OrganizationID,
		DepartmentID:   tenant.DepartmentID,
		Type:           action,
		Title:          title,
		Message:        message,
		Recipients:     recipients,
		Lifecycle:      NewLifecycle(actor),
	}
	if entity != nil {
		id := entity.ID
		model := entity.Model
		n.EntityID = &id
		n.EntityModel = &model
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Validate checks if the Notification has valid data.
func (n *Notification) Validate() error {
	if n.ID == uuid.Nil {
		return ErrEmptyNotificationID
	}
	if n.OrganizationID == uuid.Nil {
		return ErrEmptyOrganizationID
	}
	if n.Title == "" {
		return ErrEmptyNotificationTitle
	}
	if len(n.Recipients) == 0 {
		return ErrNoRecipients
	}
	if len(n.Recipients) > MaxRecipientsPerNotification {
		return ErrTooManyRecipients
	}
	return nil
}

// MarkRead appends a read receipt for the given user. Appending is
// idempotent: a user who already read the notification is not recorded
// twice. Reports whether a new receipt was added.
func (n *Notification) MarkRead(userID uuid.UUID, at time.Time) bool {
	for _, r := range n.ReadBy {
		if r.UserID == userID {
			return false
		}
	}
	n.ReadBy = append(n.ReadBy, ReadReceipt{UserID: userID, ReadAt: at})
	return true
}

// IsReadBy reports whether the given user has read the notification.
func (n *Notification) IsReadBy(userID uuid.UUID) bool {
	for _, r := range n.ReadBy {
		if r.UserID == userID {
			return true
		}
	}
	return false
}
