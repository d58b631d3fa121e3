package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/domain"
	"github.com/girmesh03/task-manager-api/internal/platform/logger"
	"github.com/girmesh03/task-manager-api/internal/store"
)

// MaterialStore implements store.MaterialStore on PostgreSQL.
type MaterialStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewMaterialStore creates a PostgreSQL material store.
func NewMaterialStore(db store.DBTX, log *slog.Logger) *MaterialStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &MaterialStore{
		db:     db,
		logger: log.With(slog.String("component", "material_store")),
	}
}

var _ store.MaterialStore = (*MaterialStore)(nil)

// Create saves a new material.
func (s *MaterialStore) Create(ctx context.Context, material *domain.Material) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := material.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO materials (id, organization_id, name, unit, is_deleted, created_at, created_by)
		VALUES ($1, $2, $3, $4, FALSE, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		material.ID, material.OrganizationID, material.Name, material.Unit,
		material.CreatedAt, material.CreatedBy)
	if err != nil {
		log.Error("failed to create material",
			slog.String("material_id", material.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	log.Info("material created", slog.String("material_id", material.ID.String()))
	return nil
}

// GetByID retrieves a material regardless of lifecycle state.
// Returns store.ErrMaterialNotFound if no row exists.
func (s *MaterialStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Material, error) {
	query := `
		SELECT id, organization_id, name, unit, is_deleted, deleted_at, deleted_by, created_at, created_by
		FROM materials
		WHERE id = $1
	`
	var (
		material  domain.Material
		isDeleted bool
		deletedAt sql.NullTime
		deletedBy uuid.NullUUID
		createdAt time.Time
		createdBy uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&material.ID, &material.OrganizationID, &material.Name, &material.Unit,
		&isDeleted, &deletedAt, &deletedBy, &createdAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrMaterialNotFound
		}
		return nil, MapError(err)
	}
	material.Lifecycle = lifecycleFrom(isDeleted, deletedAt, deletedBy, createdAt, createdBy)
	return &material, nil
}

// MarkDeleted soft-deletes materials, returning the IDs transitioned.
func (s *MaterialStore) MarkDeleted(ctx context.Context, ids []uuid.UUID, deletedAt time.Time, deletedBy uuid.UUID) ([]uuid.UUID, error) {
	return markDeletedIDs(ctx, s.db, "materials", ids, deletedAt, deletedBy)
}

// Restore restores soft-deleted materials, returning the IDs transitioned.
func (s *MaterialStore) Restore(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return restoreIDs(ctx, s.db, "materials", ids)
}

// WithTx returns a copy bound to the transaction.
func (s *MaterialStore) WithTx(tx *sql.Tx) store.MaterialStore {
	return &MaterialStore{db: tx, logger: s.logger}
}

// VendorStore implements store.VendorStore on PostgreSQL.
type VendorStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewVendorStore creates a PostgreSQL vendor store.
func NewVendorStore(db store.DBTX, log *slog.Logger) *VendorStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &VendorStore{
		db:     db,
		logger: log.With(slog.String("component", "vendor_store")),
	}
}

var _ store.VendorStore = (*VendorStore)(nil)

// Create saves a new vendor.
func (s *VendorStore) Create(ctx context.Context, vendor *domain.Vendor) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := vendor.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO vendors (id, organization_id, name, contact_email, is_deleted, created_at, created_by)
		VALUES ($1, $2, $3, $4, FALSE, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		vendor.ID, vendor.OrganizationID, vendor.Name, vendor.ContactEmail,
		vendor.CreatedAt, vendor.CreatedBy)
	if err != nil {
		log.Error("failed to create vendor",
			slog.String("vendor_id", vendor.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	log.Info("vendor created", slog.String("vendor_id", vendor.ID.String()))
	return nil
}

// GetByID retrieves a vendor regardless of lifecycle state.
// Returns store.ErrVendorNotFound if no row exists.
func (s *VendorStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vendor, error) {
	query := `
		SELECT id, organization_id, name, contact_email, is_deleted, deleted_at, deleted_by, created_at, created_by
		FROM vendors
		WHERE id = $1
	`
	var (
		vendor    domain.Vendor
		isDeleted bool
		deletedAt sql.NullTime
		deletedBy uuid.NullUUID
		createdAt time.Time
		createdBy uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&vendor.ID, &vendor.OrganizationID, &vendor.Name, &vendor.ContactEmail,
		&isDeleted, &deletedAt, &deletedBy, &createdAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrVendorNotFound
		}
		return nil, MapError(err)
	}
	vendor.Lifecycle = lifecycleFrom(isDeleted, deletedAt, deletedBy, createdAt, createdBy)
	return &vendor, nil
}

// MarkDeleted soft-deletes vendors, returning the IDs transitioned.
func (s *VendorStore) MarkDeleted(ctx context.Context, ids []uuid.UUID, deletedAt time.Time, deletedBy uuid.UUID) ([]uuid.UUID, error) {
	return markDeletedIDs(ctx, s.db, "vendors", ids, deletedAt, deletedBy)
}

// Restore restores soft-deleted vendors, returning the IDs transitioned.
func (s *VendorStore) Restore(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return restoreIDs(ctx, s.db, "vendors", ids)
}

// WithTx returns a copy bound to the transaction.
func (s *VendorStore) WithTx(tx *sql.Tx) store.VendorStore {
	return &VendorStore{db: tx, logger: s.logger}
}
