package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/domain"
)

// OrganizationStore defines the interface for organization persistence.
type OrganizationStore interface {
	// Create saves a new organization to the store.
	Create(ctx context.Context, org *domain.Organization) error

	// GetByID retrieves an organization by its unique ID regardless of
	// soft-delete state. Returns ErrOrganizationNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error)

	// MarkDeleted soft-deletes the organizations with the given IDs that are
	// currently active, stamping them with deletedAt/deletedBy. Returns the
	// IDs actually transitioned.
	MarkDeleted(ctx context.Context, ids []uuid.UUID, deletedAt time.Time, deletedBy uuid.UUID) ([]uuid.UUID, error)

	// Restore reactivates the organizations with the given IDs that are
	// currently soft-deleted. Returns the IDs actually transitioned.
	Restore(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	// WithTx returns a new OrganizationStore bound to the provided transaction.
	WithTx(tx *sql.Tx) OrganizationStore
}

// DepartmentStore defines the interface for department persistence.
type DepartmentStore interface {
	// Create saves a new department to the store.
	Create(ctx context.Context, dep *domain.Department) error

	// GetByID retrieves a department by its unique ID regardless of
	// soft-delete state. Returns ErrDepartmentNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Department, error)

	// ListIDsByOrganization returns the IDs of departments in the given
	// organization matching the state filter.
	ListIDsByOrganization(ctx context.Context, orgID uuid.UUID, state StateFilter) ([]uuid.UUID, error)

	// MarkDeleted soft-deletes the currently active departments among ids.
	// Returns the IDs actually transitioned.
	MarkDeleted(ctx context.Context, ids []uuid.UUID, deletedAt time.Time, deletedBy uuid.UUID) ([]uuid.UUID, error)

	// Restore reactivates the currently deleted departments among ids.
	// Returns the IDs actually transitioned.
	Restore(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	// WithTx returns a new DepartmentStore bound to the provided transaction.
	WithTx(tx *sql.Tx) DepartmentStore
}
