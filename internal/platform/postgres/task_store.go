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

// TaskStore implements store.TaskStore on PostgreSQL. Watchers, assignees,
// tags, cost history, and material lines are jsonb documents; kind-specific
// columns are NULL or empty for the kinds that do not use them.
type TaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTaskStore creates a PostgreSQL task store.
func NewTaskStore(db store.DBTX, log *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &TaskStore{
		db:     db,
		logger: log.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*TaskStore)(nil)

const taskColumns = `id, organization_id, department_id, kind, title, description, status, priority,
	watchers, tags, assignees, vendor_id, cost, currency, cost_history, date, materials,
	is_deleted, deleted_at, deleted_by, created_at, created_by`

// Create saves a new task after domain validation.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}
	docs, err := taskDocs(task)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (id, organization_id, department_id, kind, title, description, status, priority,
			watchers, tags, assignees, vendor_id, cost, currency, cost_history, date, materials,
			is_deleted, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, FALSE, $18, $19)
	`
	_, err = s.db.ExecContext(ctx, query,
		task.ID, task.TenantScope.OrganizationID, nullUUID(task.TenantScope.DepartmentID),
		string(task.Kind), task.Title, task.Description, string(task.Status), string(task.Priority),
		docs.watchers, docs.tags, docs.assignees, nullUUID(task.VendorID),
		task.Cost, task.Currency, docs.costHistory, task.Date, docs.materials,
		task.CreatedAt, task.CreatedBy)
	if err != nil {
		log.Error("failed to create task",
			slog.String("task_id", task.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("kind", string(task.Kind)))
	return nil
}

// GetByID retrieves a task regardless of lifecycle state.
// Returns store.ErrTaskNotFound if no row exists.
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}
	return task, nil
}

// Update replaces the mutable fields of a task.
// Returns store.ErrTaskNotFound when the task does not exist or is deleted.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}
	docs, err := taskDocs(task)
	if err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, priority = $5,
			watchers = $6, tags = $7, assignees = $8, vendor_id = $9,
			cost = $10, currency = $11, cost_history = $12, date = $13, materials = $14
		WHERE id = $1 AND is_deleted = FALSE
	`
	result, err := s.db.ExecContext(ctx, query,
		task.ID, task.Title, task.Description, string(task.Status), string(task.Priority),
		docs.watchers, docs.tags, docs.assignees, nullUUID(task.VendorID),
		task.Cost, task.Currency, docs.costHistory, task.Date, docs.materials)
	if err != nil {
		return MapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrTaskNotFound
	}
	log.Info("task updated", slog.String("task_id", task.ID.String()))
	return nil
}

// ListIDsByOrganization lists task IDs in an organization, filtered by
// lifecycle state.
func (s *TaskStore) ListIDsByOrganization(ctx context.Context, orgID uuid.UUID, state store.StateFilter) ([]uuid.UUID, error) {
	query := `SELECT id FROM tasks WHERE organization_id = $1` + stateClause(state)
	rows, err := s.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, MapError(err)
	}
	return collectIDs(rows)
}

// ListIDsByCreators lists task IDs created by any of the given users,
// filtered by lifecycle state.
func (s *TaskStore) ListIDsByCreators(ctx context.Context, creators []uuid.UUID, state store.StateFilter) ([]uuid.UUID, error) {
	if len(creators) == 0 {
		return nil, nil
	}
	query := `SELECT id FROM tasks WHERE created_by IN (` + placeholders(1, len(creators)) + `)` + stateClause(state)
	rows, err := s.db.QueryContext(ctx, query, idArgs(creators)...)
	if err != nil {
		return nil, MapError(err)
	}
	return collectIDs(rows)
}

// ListActiveIDsByVendor lists active project tasks referencing the vendor.
func (s *TaskStore) ListActiveIDsByVendor(ctx context.Context, vendorID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM tasks WHERE vendor_id = $1 AND is_deleted = FALSE`, vendorID)
	if err != nil {
		return nil, MapError(err)
	}
	return collectIDs(rows)
}

// ListDueReminders returns active routine tasks scheduled within
// [from, until).
func (s *TaskStore) ListDueReminders(ctx context.Context, from, until time.Time) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE kind = $1 AND is_deleted = FALSE AND date >= $2 AND date < $3
		ORDER BY date`
	rows, err := s.db.QueryContext(ctx, query, string(domain.TaskKindRoutine), from, until)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return tasks, nil
}

// ReassignVendor rebinds every active task referencing one vendor to
// another and returns the number of tasks moved. Soft-deleted tasks keep
// their original reference.
func (s *TaskStore) ReassignVendor(ctx context.Context, from, to uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET vendor_id = $2 WHERE vendor_id = $1 AND is_deleted = FALSE`, from, to)
	if err != nil {
		return 0, MapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, MapError(err)
	}
	log.Info("vendor reassigned on tasks",
		slog.String("from", from.String()),
		slog.String("to", to.String()),
		slog.Int64("tasks", affected))
	return affected, nil
}

// UnlinkMaterial flags the material's line items on all tasks and returns
// the number of tasks changed. The line items themselves are kept so a
// later restore can relink them.
func (s *TaskStore) UnlinkMaterial(ctx context.Context, materialID uuid.UUID) (int64, error) {
	return setMaterialUnlinked(ctx, s.db, "tasks", materialID, true)
}

// RelinkMaterial clears the unlinked flag on the material's line items and
// returns the number of tasks changed.
func (s *TaskStore) RelinkMaterial(ctx context.Context, materialID uuid.UUID) (int64, error) {
	return setMaterialUnlinked(ctx, s.db, "tasks", materialID, false)
}

// MarkDeleted soft-deletes tasks, returning the IDs transitioned.
func (s *TaskStore) MarkDeleted(ctx context.Context, ids []uuid.UUID, deletedAt time.Time, deletedBy uuid.UUID) ([]uuid.UUID, error) {
	return markDeletedIDs(ctx, s.db, "tasks", ids, deletedAt, deletedBy)
}

// Restore restores soft-deleted tasks, returning the IDs transitioned.
func (s *TaskStore) Restore(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return restoreIDs(ctx, s.db, "tasks", ids)
}

// WithTx returns a copy bound to the transaction.
func (s *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &TaskStore{db: tx, logger: s.logger}
}

// taskJSONDocs holds the serialized jsonb columns of one task row.
type taskJSONDocs struct {
	watchers    []byte
	tags        []byte
	assignees   []byte
	costHistory []byte
	materials   []byte
}

func taskDocs(task *domain.Task) (taskJSONDocs, error) {
	var docs taskJSONDocs
	var err error
	if docs.watchers, err = marshalJSONB(task.Watchers); err != nil {
		return docs, err
	}
	if docs.tags, err = marshalJSONB(task.Tags); err != nil {
		return docs, err
	}
	if docs.assignees, err = marshalJSONB(task.Assignees); err != nil {
		return docs, err
	}
	if docs.costHistory, err = marshalJSONB(task.CostHistory); err != nil {
		return docs, err
	}
	if docs.materials, err = marshalJSONB(task.Materials); err != nil {
		return docs, err
	}
	return docs, nil
}

// scanTask reads one task row.
func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		depID       uuid.NullUUID
		kind        string
		status      string
		priority    string
		watchers    []byte
		tags        []byte
		assignees   []byte
		vendorID    uuid.NullUUID
		costHistory []byte
		date        sql.NullTime
		materials   []byte
		isDeleted   bool
		deletedAt   sql.NullTime
		deletedBy   uuid.NullUUID
		createdAt   time.Time
		createdBy   uuid.UUID
	)
	err := row.Scan(
		&task.ID, &task.TenantScope.OrganizationID, &depID, &kind, &task.Title, &task.Description,
		&status, &priority, &watchers, &tags, &assignees, &vendorID,
		&task.Cost, &task.Currency, &costHistory, &date, &materials,
		&isDeleted, &deletedAt, &deletedBy, &createdAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if depID.Valid {
		d := depID.UUID
		task.TenantScope.DepartmentID = &d
	}
	task.Kind = domain.TaskKind(kind)
	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)
	if vendorID.Valid {
		v := vendorID.UUID
		task.VendorID = &v
	}
	if date.Valid {
		t := date.Time
		task.Date = &t
	}
	if err := unmarshalJSONB(watchers, &task.Watchers); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(tags, &task.Tags); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(assignees, &task.Assignees); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(costHistory, &task.CostHistory); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(materials, &task.Materials); err != nil {
		return nil, err
	}
	task.Lifecycle = lifecycleFrom(isDeleted, deletedAt, deletedBy, createdAt, createdBy)
	return &task, nil
}

// setMaterialUnlinked rewrites the materials document on every row holding
// a line item for the material, setting or clearing its unlinked flag.
// The predicate excludes rows whose line already carries the target state
// so the returned count only covers rows that changed.
func setMaterialUnlinked(ctx context.Context, db store.DBTX, table string, materialID uuid.UUID, unlinked bool) (int64, error) {
	var query string
	if unlinked {
		query = `
		UPDATE ` + table + `
		SET materials = (
			SELECT jsonb_agg(
				CASE WHEN line->>'material_id' = $1
					THEN line || '{"unlinked": true}'::jsonb
					ELSE line
				END)
			FROM jsonb_array_elements(materials) AS line)
		WHERE materials @> jsonb_build_array(jsonb_build_object('material_id', $1::text))
			AND NOT materials @> jsonb_build_array(jsonb_build_object('material_id', $1::text, 'unlinked', true))`
	} else {
		query = `
		UPDATE ` + table + `
		SET materials = (
			SELECT jsonb_agg(
				CASE WHEN line->>'material_id' = $1
					THEN line - 'unlinked'
					ELSE line
				END)
			FROM jsonb_array_elements(materials) AS line)
		WHERE materials @> jsonb_build_array(jsonb_build_object('material_id', $1::text, 'unlinked', true))`
	}

	result, err := db.ExecContext(ctx, query, materialID.String())
	if err != nil {
		return 0, MapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, MapError(err)
	}
	return affected, nil
}
