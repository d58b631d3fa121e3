package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/domain"
)

// NotificationStore defines the interface for notification persistence.
// Notifications are the durable fan-out audit trail: immutable after Create
// except for read-receipt appends and email delivery status updates.
type NotificationStore interface {
	// Create saves a new notification to the store. It must be called inside
	// the same transaction as the business mutation the notification
	// describes.
	Create(ctx context.Context, n *domain.Notification) error

	// GetByID retrieves a notification by its unique ID.
	// Returns ErrNotificationNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)

	// ListByRecipient returns active notifications addressed to the given
	// user, newest first, paginated.
	ListByRecipient(ctx context.Context, userID uuid.UUID, page Page) ([]*domain.Notification, error)

	// CountUnread returns the number of active notifications addressed to
	// the user whose read receipts do not contain them.
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)

	// AppendReadReceipt records that the user read the notification.
	// Appending is idempotent; a duplicate read is a no-op.
	AppendReadReceipt(ctx context.Context, id, userID uuid.UUID, readAt time.Time) error

	// UpdateEmailDelivery replaces the email delivery status fields of the
	// notification. This is the only mutation allowed after Create besides
	// read receipts.
	UpdateEmailDelivery(ctx context.Context, id uuid.UUID, delivery domain.EmailDelivery) error

	// ListIDsByEntities returns the IDs of notifications referencing any of
	// the given entities, matching the state filter. Organization cascades
	// use this to carry notifications along with the entities they describe.
	ListIDsByEntities(ctx context.Context, entities []domain.Ref, state StateFilter) ([]uuid.UUID, error)

	// MarkDeleted soft-deletes the currently active notifications among ids.
	// Returns the IDs actually transitioned.
	MarkDeleted(ctx context.Context, ids []uuid.UUID, deletedAt time.Time, deletedBy uuid.UUID) ([]uuid.UUID, error)

	// Restore reactivates the currently deleted notifications among ids.
	// Returns the IDs actually transitioned.
	Restore(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	// WithTx returns a new NotificationStore bound to the provided transaction.
	WithTx(tx *sql.Tx) NotificationStore
}
