package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Common validation errors for TaskActivity.
var (
	ErrEmptyActivityID    = errors.New("activity ID cannot be empty")
	ErrEmptyActivityTask  = errors.New("activity task ID cannot be empty")
	ErrEmptyActivityTitle = errors.New("activity title cannot be empty")
)

// TaskActivity is a unit of work logged under an assigned or project task.
// It owns its own comments and attachments (parent = activity).
type TaskActivity struct {
	ID          uuid.UUID      `json:"id"`
	TaskID      uuid.UUID      `json:"task_id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Materials   []MaterialLine `json:"materials,omitempty"`
	TenantScope Tenant         `json:"tenant"`
	Lifecycle
}

// NewTaskActivity creates a new TaskActivity under the given task. The tenant
// scope must equal the parent task's scope; the cascade invariant depends on
// it.
func NewTaskActivity(taskID uuid.UUID, title string, tenant Tenant, createdBy uuid.UUID) (*TaskActivity, error) {
	activity := &TaskActivity{
		ID:          uuid.New(),
		TaskID:      taskID,
		Title:       title,
		TenantScope: tenant,
		Lifecycle:   NewLifecycle(createdBy),
	}
	if err := activity.Validate(); err != nil {
		return nil, err
	}
	return activity, nil
}

// Validate checks if the TaskActivity has valid data.
func (a *TaskActivity) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyActivityID
	}
	if a.TaskID == uuid.Nil {
		return ErrEmptyActivityTask
	}
	if a.Title == "" {
		return ErrEmptyActivityTitle
	}
	return a.TenantScope.Validate()
}
