package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/domain"
	"github.com/girmesh03/task-manager-api/internal/store"
)

// placeholders renders "$start, $start+1, ..." for n parameters.
func placeholders(start, n int) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ", ")
}

// idArgs converts a UUID slice to query arguments.
func idArgs(ids []uuid.UUID) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// stateClause returns the lifecycle predicate for a state filter, with a
// leading AND, or the empty string for StateAny.
func stateClause(state store.StateFilter) string {
	switch state {
	case store.StateActive:
		return " AND is_deleted = FALSE"
	case store.StateDeleted:
		return " AND is_deleted = TRUE"
	default:
		return ""
	}
}

// refsPredicate builds "(id_col = $i AND model_col = $i+1) OR ..." for a set
// of polymorphic parent references, starting at parameter index start.
func refsPredicate(idCol, modelCol string, refs []domain.Ref, start int) (string, []any) {
	parts := make([]string, len(refs))
	args := make([]any, 0, len(refs)*2)
	for i, ref := range refs {
		parts[i] = fmt.Sprintf("(%s = $%d AND %s = $%d)", idCol, start+i*2, modelCol, start+i*2+1)
		args = append(args, ref.ID, string(ref.Model))
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// collectIDs drains a query result of single-UUID rows.
func collectIDs(rows *sql.Rows) ([]uuid.UUID, error) {
	defer func() { _ = rows.Close() }()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// marshalJSONB serializes a value for a jsonb column. Nil slices become
// empty arrays so containment queries behave uniformly.
func marshalJSONB(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb: %w", err)
	}
	if string(data) == "null" {
		return []byte("[]"), nil
	}
	return data, nil
}

// unmarshalJSONB deserializes a jsonb column into v, treating NULL and
// empty as no data.
func unmarshalJSONB(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal jsonb: %w", err)
	}
	return nil
}

// containsUUID renders a jsonb array containing exactly one UUID string,
// for @> membership tests against uuid list columns.
func containsUUID(id uuid.UUID) ([]byte, error) {
	return json.Marshal([]string{id.String()})
}

// lifecycleFrom assembles a domain.Lifecycle from nullable scan targets.
func lifecycleFrom(isDeleted bool, deletedAt sql.NullTime, deletedBy uuid.NullUUID, createdAt time.Time, createdBy uuid.UUID) domain.Lifecycle {
	lc := domain.Lifecycle{
		IsDeleted: isDeleted,
		CreatedAt: createdAt,
		CreatedBy: createdBy,
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		lc.DeletedAt = &t
	}
	if deletedBy.Valid {
		id := deletedBy.UUID
		lc.DeletedBy = &id
	}
	return lc
}

// nullUUID converts an optional UUID for insertion.
func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
