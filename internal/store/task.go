package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/domain"
)

// TaskStore defines the interface for task persistence across all three task
// kinds. A single store serves the discriminated union; kind-specific fields
// round-trip through the variant columns.
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID regardless of soft-delete
	// state. Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update saves changes to an existing task.
	Update(ctx context.Context, task *domain.Task) error

	// ListIDsByOrganization returns the IDs of tasks in the given
	// organization matching the state filter.
	ListIDsByOrganization(ctx context.Context, orgID uuid.UUID, state StateFilter) ([]uuid.UUID, error)

	// ListIDsByCreators returns the IDs of tasks created by any of the given
	// users, matching the state filter.
	ListIDsByCreators(ctx context.Context, creators []uuid.UUID, state StateFilter) ([]uuid.UUID, error)

	// ListActiveIDsByVendor returns the IDs of active project tasks
	// referencing the given vendor.
	ListActiveIDsByVendor(ctx context.Context, vendorID uuid.UUID) ([]uuid.UUID, error)

	// ListDueReminders returns active routine tasks whose scheduled date
	// falls within [from, until).
	ListDueReminders(ctx context.Context, from, until time.Time) ([]*domain.Task, error)

	// ReassignVendor rebinds every active project task referencing
	// fromVendor to toVendor. Returns the number of tasks rebound.
	ReassignVendor(ctx context.Context, fromVendor, toVendor uuid.UUID) (int64, error)

	// UnlinkMaterial marks material line items referencing the given
	// material as unlinked on every task that carries one. The tasks
	// themselves are left intact. Returns the number of tasks touched.
	UnlinkMaterial(ctx context.Context, materialID uuid.UUID) (int64, error)

	// RelinkMaterial clears the unlinked mark set by UnlinkMaterial.
	// Returns the number of tasks touched.
	RelinkMaterial(ctx context.Context, materialID uuid.UUID) (int64, error)

	// MarkDeleted soft-deletes the currently active tasks among ids.
	// Returns the IDs actually transitioned.
	MarkDeleted(ctx context.Context, ids []uuid.UUID, deletedAt time.Time, deletedBy uuid.UUID) ([]uuid.UUID, error)

	// Restore reactivates the currently deleted tasks among ids.
	// Returns the IDs actually transitioned.
	Restore(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	// WithTx returns a new TaskStore bound to the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}

// ActivityStore defines the interface for task activity persistence.
type ActivityStore interface {
	// Create saves a new activity to the store.
	Create(ctx context.Context, activity *domain.TaskActivity) error

	// GetByID retrieves an activity by its unique ID regardless of
	// soft-delete state. Returns ErrActivityNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskActivity, error)

	// ListIDsByTasks returns the IDs of activities under any of the given
	// tasks, matching the state filter.
	ListIDsByTasks(ctx context.Context, taskIDs []uuid.UUID, state StateFilter) ([]uuid.UUID, error)

	// UnlinkMaterial marks material line items referencing the given
	// material as unlinked on every activity that carries one.
	// Returns the number of activities touched.
	UnlinkMaterial(ctx context.Context, materialID uuid.UUID) (int64, error)

	// RelinkMaterial clears the unlinked mark set by UnlinkMaterial.
	// Returns the number of activities touched.
	RelinkMaterial(ctx context.Context, materialID uuid.UUID) (int64, error)

	// MarkDeleted soft-deletes the currently active activities among ids.
	// Returns the IDs actually transitioned.
	MarkDeleted(ctx context.Context, ids []uuid.UUID, deletedAt time.Time, deletedBy uuid.UUID) ([]uuid.UUID, error)

	// Restore reactivates the currently deleted activities among ids.
	// Returns the IDs actually transitioned.
	Restore(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	// WithTx returns a new ActivityStore bound to the provided transaction.
	WithTx(tx *sql.Tx) ActivityStore
}

// CommentStore defines the interface for threaded comment persistence.
type CommentStore interface {
	// Create saves a new comment to the store.
	// Returns ErrInvalidEntity if the parent reference is unknown.
	Create(ctx context.Context, comment *domain.TaskComment) error

	// GetByID retrieves a comment by its unique ID regardless of soft-delete
	// state. Returns ErrCommentNotFound if the comment does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskComment, error)

	// ListIDsByParents returns the IDs of comments whose parent is any of
	// the given (id, model) references, matching the state filter. Cascade
	// traversal calls this once per frontier level.
	ListIDsByParents(ctx context.Context, parents []domain.Ref, state StateFilter) ([]uuid.UUID, error)

	// MarkDeleted soft-deletes the currently active comments among ids.
	// Returns the IDs actually transitioned.
	MarkDeleted(ctx context.Context, ids []uuid.UUID, deletedAt time.Time, deletedBy uuid.UUID) ([]uuid.UUID, error)

	// Restore reactivates the currently deleted comments among ids.
	// Returns the IDs actually transitioned.
	Restore(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	// WithTx returns a new CommentStore bound to the provided transaction.
	WithTx(tx *sql.Tx) CommentStore
}

// AttachmentStore defines the interface for attachment persistence.
type AttachmentStore interface {
	// Create saves a new attachment to the store.
	Create(ctx context.Context, attachment *domain.Attachment) error

	// ListIDsByParents returns the IDs of attachments whose parent is any of
	// the given (id, model) references, matching the state filter.
	ListIDsByParents(ctx context.Context, parents []domain.Ref, state StateFilter) ([]uuid.UUID, error)

	// MarkDeleted soft-deletes the currently active attachments among ids.
	// Returns the IDs actually transitioned.
	MarkDeleted(ctx context.Context, ids []uuid.UUID, deletedAt time.Time, deletedBy uuid.UUID) ([]uuid.UUID, error)

	// Restore reactivates the currently deleted attachments among ids.
	// Returns the IDs actually transitioned.
	Restore(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	// WithTx returns a new AttachmentStore bound to the provided transaction.
	WithTx(tx *sql.Tx) AttachmentStore
}
