package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Common validation errors for TaskComment.
var (
	ErrEmptyCommentID     = errors.New("comment ID cannot be empty")
	ErrEmptyCommentBody   = errors.New("comment body cannot be empty")
	ErrInvalidCommentHost = errors.New("comment parent must be a task, activity or comment")
)

// TaskComment is a node in the self-referential comment tree. Its parent may
// be a task, a task activity, or another comment (a reply). Replies nest to
// arbitrary depth; tree walks over comments must therefore use an explicit
// frontier queue rather than recursion.
type TaskComment struct {
	ID          uuid.UUID   `json:"id"`
	ParentID    uuid.UUID   `json:"parent_id"`
	ParentModel EntityModel `json:"parent_model"`
	Body        string      `json:"body"`
	Mentions    []uuid.UUID `json:"mentions,omitempty"`
	TenantScope Tenant      `json:"tenant"`
	Lifecycle
}

// NewTaskComment creates a new comment under the given parent.
func NewTaskComment(parentID uuid.UUID, parentModel EntityModel, body string, tenant Tenant, createdBy uuid.UUID) (*TaskComment, error) {
	comment := &TaskComment{
		ID:          uuid.New(),
		ParentID:    parentID,
		ParentModel: parentModel,
		Body:        body,
		TenantScope: tenant,
		Lifecycle:   NewLifecycle(createdBy),
	}
	if err := comment.Validate(); err != nil {
		return nil, err
	}
	return comment, nil
}

// Validate checks if the TaskComment has valid data.
func (c *TaskComment) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCommentID
	}
	if c.ParentID == uuid.Nil {
		return ErrEmptyRefID
	}
	switch c.ParentModel {
	case ModelTask, ModelTaskActivity, ModelTaskComment:
	default:
		return ErrInvalidCommentHost
	}
	if c.Body == "" {
		return ErrEmptyCommentBody
	}
	return c.TenantScope.Validate()
}
