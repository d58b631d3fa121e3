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

// ActivityStore implements store.ActivityStore on PostgreSQL.
type ActivityStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewActivityStore creates a PostgreSQL activity store.
func NewActivityStore(db store.DBTX, log *slog.Logger) *ActivityStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ActivityStore{
		db:     db,
		logger: log.With(slog.String("component", "activity_store")),
	}
}

var _ store.ActivityStore = (*ActivityStore)(nil)

// Create saves a new activity. Returns store.ErrInvalidEntity when the
// parent task does not exist.
func (s *ActivityStore) Create(ctx context.Context, activity *domain.TaskActivity) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := activity.Validate(); err != nil {
		return err
	}
	materials, err := marshalJSONB(activity.Materials)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO task_activities (id, task_id, organization_id, department_id, title, description,
			materials, is_deleted, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8, $9)
	`
	_, err = s.db.ExecContext(ctx, query,
		activity.ID, activity.TaskID,
		activity.TenantScope.OrganizationID, nullUUID(activity.TenantScope.DepartmentID),
		activity.Title, activity.Description, materials,
		activity.CreatedAt, activity.CreatedBy)
	if err != nil {
		log.Error("failed to create activity",
			slog.String("activity_id", activity.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	log.Info("activity created",
		slog.String("activity_id", activity.ID.String()),
		slog.String("task_id", activity.TaskID.String()))
	return nil
}

// GetByID retrieves an activity regardless of lifecycle state.
// Returns store.ErrActivityNotFound if no row exists.
func (s *ActivityStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskActivity, error) {
	query := `
		SELECT id, task_id, organization_id, department_id, title, description, materials,
			is_deleted, deleted_at, deleted_by, created_at, created_by
		FROM task_activities
		WHERE id = $1
	`
	var (
		activity  domain.TaskActivity
		depID     uuid.NullUUID
		materials []byte
		isDeleted bool
		deletedAt sql.NullTime
		deletedBy uuid.NullUUID
		createdAt time.Time
		createdBy uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&activity.ID, &activity.TaskID, &activity.TenantScope.OrganizationID, &depID,
		&activity.Title, &activity.Description, &materials,
		&isDeleted, &deletedAt, &deletedBy, &createdAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrActivityNotFound
		}
		return nil, MapError(err)
	}
	if depID.Valid {
		d := depID.UUID
		activity.TenantScope.DepartmentID = &d
	}
	if err := unmarshalJSONB(materials, &activity.Materials); err != nil {
		return nil, err
	}
	activity.Lifecycle = lifecycleFrom(isDeleted, deletedAt, deletedBy, createdAt, createdBy)
	return &activity, nil
}

// ListIDsByTasks lists activity IDs under any of the given tasks, filtered
// by lifecycle state.
func (s *ActivityStore) ListIDsByTasks(ctx context.Context, taskIDs []uuid.UUID, state store.StateFilter) ([]uuid.UUID, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	query := `SELECT id FROM task_activities WHERE task_id IN (` + placeholders(1, len(taskIDs)) + `)` + stateClause(state)
	rows, err := s.db.QueryContext(ctx, query, idArgs(taskIDs)...)
	if err != nil {
		return nil, MapError(err)
	}
	return collectIDs(rows)
}

// UnlinkMaterial flags the material's line items on all activities and
// returns the number of activities changed.
func (s *ActivityStore) UnlinkMaterial(ctx context.Context, materialID uuid.UUID) (int64, error) {
	return setMaterialUnlinked(ctx, s.db, "task_activities", materialID, true)
}

// RelinkMaterial clears the unlinked flag on the material's line items and
// returns the number of activities changed.
func (s *ActivityStore) RelinkMaterial(ctx context.Context, materialID uuid.UUID) (int64, error) {
	return setMaterialUnlinked(ctx, s.db, "task_activities", materialID, false)
}

// MarkDeleted soft-deletes activities, returning the IDs transitioned.
func (s *ActivityStore) MarkDeleted(ctx context.Context, ids []uuid.UUID, deletedAt time.Time, deletedBy uuid.UUID) ([]uuid.UUID, error) {
	return markDeletedIDs(ctx, s.db, "task_activities", ids, deletedAt, deletedBy)
}

// Restore restores soft-deleted activities, returning the IDs transitioned.
func (s *ActivityStore) Restore(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return restoreIDs(ctx, s.db, "task_activities", ids)
}

// WithTx returns a copy bound to the transaction.
func (s *ActivityStore) WithTx(tx *sql.Tx) store.ActivityStore {
	return &ActivityStore{db: tx, logger: s.logger}
}
