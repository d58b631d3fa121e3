package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/store"
)

// markDeletedIDs soft-deletes the given rows and returns the IDs actually
// transitioned. Rows already deleted are skipped so their deletion metadata
// survives an overlapping cascade.
func markDeletedIDs(ctx context.Context, db store.DBTX, table string, ids []uuid.UUID, deletedAt time.Time, deletedBy uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = TRUE, deleted_at = $1, deleted_by = $2
		WHERE id IN (%s) AND is_deleted = FALSE
		RETURNING id`,
		table, placeholders(3, len(ids)))
	args := append([]any{deletedAt, deletedBy}, idArgs(ids)...)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	return collectIDs(rows)
}

// restoreIDs restores the given rows and returns the IDs actually
// transitioned. Only rows currently soft-deleted are touched.
func restoreIDs(ctx context.Context, db store.DBTX, table string, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = FALSE, deleted_at = NULL, deleted_by = NULL
		WHERE id IN (%s) AND is_deleted = TRUE
		RETURNING id`,
		table, placeholders(1, len(ids)))

	rows, err := db.QueryContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return nil, MapError(err)
	}
	return collectIDs(rows)
}
