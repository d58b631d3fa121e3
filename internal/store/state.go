package store

// StateFilter selects entities by soft-delete state in list queries.
// Cascade traversal lists with StateAny so already-deleted nodes still
// expand the frontier, then marks only the rows the direction applies to.
type StateFilter int

// StateFilter values.
const (
	// StateActive matches entities with is_deleted = false.
	StateActive StateFilter = iota
	// StateDeleted matches entities with is_deleted = true.
	StateDeleted
	// StateAny matches entities regardless of soft-delete state.
	StateAny
)

// Page describes offset pagination for list queries.
type Page struct {
	Limit  int
	Offset int
}
