package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Common validation errors for Attachment.
var (
	ErrEmptyAttachmentID     = errors.New("attachment ID cannot be empty")
	ErrEmptyAttachmentName   = errors.New("attachment file name cannot be empty")
	ErrInvalidAttachmentHost = errors.New("attachment parent must be a task, activity or comment")
)

// Attachment is a leaf of the cascade graph: it always has exactly one
// parent (task, activity or comment) and never owns children of its own.
type Attachment struct {
	ID          uuid.UUID   `json:"id"`
	ParentID    uuid.UUID   `json:"parent_id"`
	ParentModel EntityModel `json:"parent_model"`
	FileName    string      `json:"file_name"`
	ContentType string      `json:"content_type,omitempty"`
	SizeBytes   int64       `json:"size_bytes,omitempty"`
	StorageKey  string      `json:"storage_key,omitempty"`
	TenantScope Tenant      `json:"tenant"`
	Lifecycle
}

// NewAttachment creates a new Attachment under the given parent.
func NewAttachment(parentID uuid.UUID, parentModel EntityModel, fileName string, tenant Tenant, createdBy uuid.UUID) (*Attachment, error) {
	attachment := &Attachment{
		ID:          uuid.New(),
		ParentID:    parentID,
		ParentModel: parentModel,
		FileName:    fileName,
		TenantScope: tenant,
		Lifecycle:   NewLifecycle(createdBy),
	}
	if err := attachment.Validate(); err != nil {
		return nil, err
	}
	return attachment, nil
}

// Validate checks if the Attachment has valid data.
func (a *Attachment) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyAttachmentID
	}
	if a.ParentID == uuid.Nil {
		return ErrEmptyRefID
	}
	switch a.ParentModel {
	case ModelTask, ModelTaskActivity, ModelTaskComment:
	default:
		return ErrInvalidAttachmentHost
	}
	if a.FileName == "" {
		return ErrEmptyAttachmentName
	}
	return a.TenantScope.Validate()
}
