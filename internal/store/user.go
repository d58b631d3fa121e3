package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/domain"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrEmailExists if the email is already in use.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by its unique ID regardless of soft-delete
	// state. Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves an active user by email.
	// Returns ErrUserNotFound if no active user has that email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateEmailPreferences replaces the stored email preferences of a user.
	UpdateEmailPreferences(ctx context.Context, id uuid.UUID, prefs domain.EmailPreferences) error

	// UpdatePassword replaces the stored password hash of an active user.
	// Returns ErrUserNotFound if the user does not exist or is deleted.
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error

	// ListIDsByOrganization returns the IDs of users in the given
	// organization matching the state filter.
	ListIDsByOrganization(ctx context.Context, orgID uuid.UUID, state StateFilter) ([]uuid.UUID, error)

	// ListIDsByDepartment returns the IDs of users in the given department
	// matching the state filter.
	ListIDsByDepartment(ctx context.Context, depID uuid.UUID, state StateFilter) ([]uuid.UUID, error)

	// FilterValidRecipients narrows candidate IDs to users that exist, are
	// not soft-deleted, and belong to the given organization. Order of the
	// input is preserved; duplicates are dropped.
	FilterValidRecipients(ctx context.Context, candidates []uuid.UUID, orgID uuid.UUID) ([]uuid.UUID, error)

	// MarkDeleted soft-deletes the currently active users among ids.
	// Returns the IDs actually transitioned.
	MarkDeleted(ctx context.Context, ids []uuid.UUID, deletedAt time.Time, deletedBy uuid.UUID) ([]uuid.UUID, error)

	// Restore reactivates the currently deleted users among ids.
	// Returns the IDs actually transitioned.
	Restore(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	// WithTx returns a new UserStore bound to the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
