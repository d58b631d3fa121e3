package domain

import (
	"errors"

	"github.com/google/uuid"
)

// EntityModel discriminates which entity kind a polymorphic reference points
// at. It is stored alongside parent pointers (attachments, comments) and on
// notifications that reference a mutated resource.
type EntityModel string

// Entity model discriminator values.
const (
	ModelOrganization EntityModel = "organization"
	ModelDepartment   EntityModel = "department"
	ModelUser         EntityModel = "user"
	ModelTask         EntityModel = "task"
	ModelTaskActivity EntityModel = "task_activity"
	ModelTaskComment  EntityModel = "task_comment"
	ModelAttachment   EntityModel = "attachment"
	ModelMaterial     EntityModel = "material"
	ModelVendor       EntityModel = "vendor"
	ModelNotification EntityModel = "notification"
)

// Common validation errors for polymorphic references.
var (
	ErrEmptyRefID       = errors.New("entity reference ID cannot be empty")
	ErrInvalidRefModel  = errors.New("invalid entity model")
	ErrEmptyActorID     = errors.New("actor ID cannot be empty")
	ErrEmptyActorTenant = errors.New("actor organization cannot be empty")
)

// Ref is a typed pointer to one entity in the graph.
type Ref struct {
	ID    uuid.UUID   `json:"id"`
	Model EntityModel `json:"model"`
}

// Validate checks if the Ref has valid data.
func (r Ref) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyRefID
	}
	if !isValidEntityModel(r.Model) {
		return ErrInvalidRefModel
	}
	return nil
}

// Actor identifies the authenticated user performing a mutation, together
// with the tenant scope the mutation runs under.
type Actor struct {
	UserID         uuid.UUID  `json:"user_id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	DepartmentID   *uuid.UUID `json:"department_id,omitempty"`
}

// Validate checks if the Actor has valid data.
func (a Actor) Validate() error {
	if a.UserID == uuid.Nil {
		return ErrEmptyActorID
	}
	if a.OrganizationID == uuid.Nil {
		return ErrEmptyActorTenant
	}
	return nil
}

// isValidEntityModel checks if the given model is a known EntityModel.
func isValidEntityModel(m EntityModel) bool {
	switch m {
	case ModelOrganization, ModelDepartment, ModelUser, ModelTask,
		ModelTaskActivity, ModelTaskComment, ModelAttachment,
		ModelMaterial, ModelVendor, ModelNotification:
		return true
	default:
		return false
	}
}
