package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/domain"
)

// MaterialStore defines the interface for material persistence.
type MaterialStore interface {
	// Create saves a new material to the store.
	Create(ctx context.Context, material *domain.Material) error

	// GetByID retrieves a material by its unique ID regardless of
	// soft-delete state. Returns ErrMaterialNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Material, error)

	// MarkDeleted soft-deletes the currently active materials among ids.
	// Returns the IDs actually transitioned.
	MarkDeleted(ctx context.Context, ids []uuid.UUID, deletedAt time.Time, deletedBy uuid.UUID) ([]uuid.UUID, error)

	// Restore reactivates the currently deleted materials among ids.
	// Returns the IDs actually transitioned.
	Restore(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	// WithTx returns a new MaterialStore bound to the provided transaction.
	WithTx(tx *sql.Tx) MaterialStore
}

// VendorStore defines the interface for vendor persistence.
type VendorStore interface {
	// Create saves a new vendor to the store.
	Create(ctx context.Context, vendor *domain.Vendor) error

	// GetByID retrieves a vendor by its unique ID regardless of soft-delete
	// state. Returns ErrVendorNotFound if the vendor does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vendor, error)

	// MarkDeleted soft-deletes the currently active vendors among ids.
	// Returns the IDs actually transitioned.
	MarkDeleted(ctx context.Context, ids []uuid.UUID, deletedAt time.Time, deletedBy uuid.UUID) ([]uuid.UUID, error)

	// Restore reactivates the currently deleted vendors among ids.
	// Returns the IDs actually transitioned.
	Restore(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	// WithTx returns a new VendorStore bound to the provided transaction.
	WithTx(tx *sql.Tx) VendorStore
}
