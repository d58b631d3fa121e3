package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/domain"
	"github.com/girmesh03/task-manager-api/internal/platform/logger"
	"github.com/girmesh03/task-manager-api/internal/store"
)

// AttachmentStore implements store.AttachmentStore on PostgreSQL.
type AttachmentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewAttachmentStore creates a PostgreSQL attachment store.
func NewAttachmentStore(db store.DBTX, log *slog.Logger) *AttachmentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &AttachmentStore{
		db:     db,
		logger: log.With(slog.String("component", "attachment_store")),
	}
}

var _ store.AttachmentStore = (*AttachmentStore)(nil)

// Create saves a new attachment.
func (s *AttachmentStore) Create(ctx context.Context, attachment *domain.Attachment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := attachment.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO attachments (id, parent_id, parent_model, organization_id, department_id,
			file_name, content_type, size_bytes, storage_key, is_deleted, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		attachment.ID, attachment.ParentID, string(attachment.ParentModel),
		attachment.TenantScope.OrganizationID, nullUUID(attachment.TenantScope.DepartmentID),
		attachment.FileName, attachment.ContentType, attachment.SizeBytes, attachment.StorageKey,
		attachment.CreatedAt, attachment.CreatedBy)
	if err != nil {
		log.Error("failed to create attachment",
			slog.String("attachment_id", attachment.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	log.Info("attachment created",
		slog.String("attachment_id", attachment.ID.String()),
		slog.String("parent_model", string(attachment.ParentModel)))
	return nil
}

// ListIDsByParents lists attachment IDs under any of the given parents,
// filtered by lifecycle state.
func (s *AttachmentStore) ListIDsByParents(ctx context.Context, parents []domain.Ref, state store.StateFilter) ([]uuid.UUID, error) {
	if len(parents) == 0 {
		return nil, nil
	}
	predicate, args := refsPredicate("parent_id", "parent_model", parents, 1)
	query := `SELECT id FROM attachments WHERE ` + predicate + stateClause(state)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	return collectIDs(rows)
}

// MarkDeleted soft-deletes attachments, returning the IDs transitioned.
func (s *AttachmentStore) MarkDeleted(ctx context.Context, ids []uuid.UUID, deletedAt time.Time, deletedBy uuid.UUID) ([]uuid.UUID, error) {
	return markDeletedIDs(ctx, s.db, "attachments", ids, deletedAt, deletedBy)
}

// Restore restores soft-deleted attachments, returning the IDs transitioned.
func (s *AttachmentStore) Restore(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return restoreIDs(ctx, s.db, "attachments", ids)
}

// WithTx returns a copy bound to the transaction.
func (s *AttachmentStore) WithTx(tx *sql.Tx) store.AttachmentStore {
	return &AttachmentStore{db: tx, logger: s.logger}
}
