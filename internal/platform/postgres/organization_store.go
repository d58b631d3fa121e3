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

// OrganizationStore implements store.OrganizationStore on PostgreSQL.
type OrganizationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewOrganizationStore creates a PostgreSQL organization store. It accepts a
// database connection or transaction managed by the caller.
func NewOrganizationStore(db store.DBTX, log *slog.Logger) *OrganizationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &OrganizationStore{
		db:     db,
		logger: log.With(slog.String("component", "organization_store")),
	}
}

var _ store.OrganizationStore = (*OrganizationStore)(nil)

// Create saves a new organization.
func (s *OrganizationStore) Create(ctx context.Context, org *domain.Organization) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := org.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO organizations (id, name, is_deleted, created_at, created_by)
		VALUES ($1, $2, FALSE, $3, $4)
	`
	if _, err := s.db.ExecContext(ctx, query, org.ID, org.Name, org.CreatedAt, org.CreatedBy); err != nil {
		log.Error("failed to create organization",
			slog.String("organization_id", org.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	log.Info("organization created", slog.String("organization_id", org.ID.String()))
	return nil
}

// GetByID retrieves an organization regardless of lifecycle state.
// Returns store.ErrOrganizationNotFound if no row exists.
func (s *OrganizationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	query := `
		SELECT id, name, is_deleted, deleted_at, deleted_by, created_at, created_by
		FROM organizations
		WHERE id = $1
	`
	var (
		org       domain.Organization
		isDeleted bool
		deletedAt sql.NullTime
		deletedBy uuid.NullUUID
		createdAt time.Time
		createdBy uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&org.ID, &org.Name, &isDeleted, &deletedAt, &deletedBy, &createdAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrOrganizationNotFound
		}
		return nil, MapError(err)
	}
	org.Lifecycle = lifecycleFrom(isDeleted, deletedAt, deletedBy, createdAt, createdBy)
	return &org, nil
}

// MarkDeleted soft-deletes organizations, returning the IDs transitioned.
func (s *OrganizationStore) MarkDeleted(ctx context.Context, ids []uuid.UUID, deletedAt time.Time, deletedBy uuid.UUID) ([]uuid.UUID, error) {
	return markDeletedIDs(ctx, s.db, "organizations", ids, deletedAt, deletedBy)
}

// Restore restores soft-deleted organizations, returning the IDs
// transitioned.
func (s *OrganizationStore) Restore(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return restoreIDs(ctx, s.db, "organizations", ids)
}

// WithTx returns a copy bound to the transaction.
func (s *OrganizationStore) WithTx(tx *sql.Tx) store.OrganizationStore {
	return &OrganizationStore{db: tx, logger: s.logger}
}

// DepartmentStore implements store.DepartmentStore on PostgreSQL.
type DepartmentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewDepartmentStore creates a PostgreSQL department store.
func NewDepartmentStore(db store.DBTX, log *slog.Logger) *DepartmentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &DepartmentStore{
		db:     db,
		logger: log.With(slog.String("component", "department_store")),
	}
}

var _ store.DepartmentStore = (*DepartmentStore)(nil)

// Create saves a new department. Returns store.ErrInvalidEntity when the
// organization does not exist.
func (s *DepartmentStore) Create(ctx context.Context, dep *domain.Department) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := dep.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO departments (id, organization_id, name, head_id, is_deleted, created_at, created_by)
		VALUES ($1, $2, $3, $4, FALSE, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		dep.ID, dep.OrganizationID, dep.Name, nullUUID(dep.HeadID), dep.CreatedAt, dep.CreatedBy)
	if err != nil {
		log.Error("failed to create department",
			slog.String("department_id", dep.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	log.Info("department created",
		slog.String("department_id", dep.ID.String()),
		slog.String("organization_id", dep.OrganizationID.String()))
	return nil
}

// GetByID retrieves a department regardless of lifecycle state.
// Returns store.ErrDepartmentNotFound if no row exists.
func (s *DepartmentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Department, error) {
	query := `
		SELECT id, organization_id, name, head_id, is_deleted, deleted_at, deleted_by, created_at, created_by
		FROM departments
		WHERE id = $1
	`
	var (
		dep       domain.Department
		headID    uuid.NullUUID
		isDeleted bool
		deletedAt sql.NullTime
		deletedBy uuid.NullUUID
		createdAt time.Time
		createdBy uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&dep.ID, &dep.OrganizationID, &dep.Name, &headID,
		&isDeleted, &deletedAt, &deletedBy, &createdAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDepartmentNotFound
		}
		return nil, MapError(err)
	}
	if headID.Valid {
		h := headID.UUID
		dep.HeadID = &h
	}
	dep.Lifecycle = lifecycleFrom(isDeleted, deletedAt, deletedBy, createdAt, createdBy)
	return &dep, nil
}

// ListIDsByOrganization lists department IDs in an organization, filtered by
// lifecycle state.
func (s *DepartmentStore) ListIDsByOrganization(ctx context.Context, orgID uuid.UUID, state store.StateFilter) ([]uuid.UUID, error) {
	query := `SELECT id FROM departments WHERE organization_id = $1` + stateClause(state)
	rows, err := s.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, MapError(err)
	}
	return collectIDs(rows)
}

// MarkDeleted soft-deletes departments, returning the IDs transitioned.
func (s *DepartmentStore) MarkDeleted(ctx context.Context, ids []uuid.UUID, deletedAt time.Time, deletedBy uuid.UUID) ([]uuid.UUID, error) {
	return markDeletedIDs(ctx, s.db, "departments", ids, deletedAt, deletedBy)
}

// Restore restores soft-deleted departments, returning the IDs transitioned.
func (s *DepartmentStore) Restore(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return restoreIDs(ctx, s.db, "departments", ids)
}

// WithTx returns a copy bound to the transaction.
func (s *DepartmentStore) WithTx(tx *sql.Tx) store.DepartmentStore {
	return &DepartmentStore{db: tx, logger: s.logger}
}
