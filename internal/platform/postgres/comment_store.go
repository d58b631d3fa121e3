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

// CommentStore implements store.CommentStore on PostgreSQL. The comment
// tree is adjacency-listed through (parent_id, parent_model); walks happen
// level by level in the cascade executor, not in SQL.
type CommentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCommentStore creates a PostgreSQL comment store.
func NewCommentStore(db store.DBTX, log *slog.Logger) *CommentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &CommentStore{
		db:     db,
		logger: log.With(slog.String("component", "comment_store")),
	}
}

var _ store.CommentStore = (*CommentStore)(nil)

// Create saves a new comment.
func (s *CommentStore) Create(ctx context.Context, comment *domain.TaskComment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := comment.Validate(); err != nil {
		return err
	}
	mentions, err := marshalJSONB(comment.Mentions)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO task_comments (id, parent_id, parent_model, organization_id, department_id,
			body, mentions, is_deleted, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8, $9)
	`
	_, err = s.db.ExecContext(ctx, query,
		comment.ID, comment.ParentID, string(comment.ParentModel),
		comment.TenantScope.OrganizationID, nullUUID(comment.TenantScope.DepartmentID),
		comment.Body, mentions,
		comment.CreatedAt, comment.CreatedBy)
	if err != nil {
		log.Error("failed to create comment",
			slog.String("comment_id", comment.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	log.Info("comment created",
		slog.String("comment_id", comment.ID.String()),
		slog.String("parent_model", string(comment.ParentModel)))
	return nil
}

// GetByID retrieves a comment regardless of lifecycle state.
// Returns store.ErrCommentNotFound if no row exists.
func (s *CommentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskComment, error) {
	query := `
		SELECT id, parent_id, parent_model, organization_id, department_id, body, mentions,
			is_deleted, deleted_at, deleted_by, created_at, created_by
		FROM task_comments
		WHERE id = $1
	`
	var (
		comment     domain.TaskComment
		parentModel string
		depID       uuid.NullUUID
		mentions    []byte
		isDeleted   bool
		deletedAt   sql.NullTime
		deletedBy   uuid.NullUUID
		createdAt   time.Time
		createdBy   uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID, &comment.ParentID, &parentModel,
		&comment.TenantScope.OrganizationID, &depID, &comment.Body, &mentions,
		&isDeleted, &deletedAt, &deletedBy, &createdAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCommentNotFound
		}
		return nil, MapError(err)
	}
	comment.ParentModel = domain.EntityModel(parentModel)
	if depID.Valid {
		d := depID.UUID
		comment.TenantScope.DepartmentID = &d
	}
	if err := unmarshalJSONB(mentions, &comment.Mentions); err != nil {
		return nil, err
	}
	comment.Lifecycle = lifecycleFrom(isDeleted, deletedAt, deletedBy, createdAt, createdBy)
	return &comment, nil
}

// ListIDsByParents lists comment IDs attached to any of the given parents,
// filtered by lifecycle state.
func (s *CommentStore) ListIDsByParents(ctx context.Context, parents []domain.Ref, state store.StateFilter) ([]uuid.UUID, error) {
	if len(parents) == 0 {
		return nil, nil
	}
	predicate, args := refsPredicate("parent_id", "parent_model", parents, 1)
	query := `SELECT id FROM task_comments WHERE ` + predicate + stateClause(state)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	return collectIDs(rows)
}

// MarkDeleted soft-deletes comments, returning the IDs transitioned.
func (s *CommentStore) MarkDeleted(ctx context.Context, ids []uuid.UUID, deletedAt time.Time, deletedBy uuid.UUID) ([]uuid.UUID, error) {
	return markDeletedIDs(ctx, s.db, "task_comments", ids, deletedAt, deletedBy)
}

// Restore restores soft-deleted comments, returning the IDs transitioned.
func (s *CommentStore) Restore(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return restoreIDs(ctx, s.db, "task_comments", ids)
}

// WithTx returns a copy bound to the transaction.
func (s *CommentStore) WithTx(tx *sql.Tx) store.CommentStore {
	return &CommentStore{db: tx, logger: s.logger}
}
