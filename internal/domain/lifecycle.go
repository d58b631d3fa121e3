package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lifecycle holds the shared soft-delete state carried by every entity in the
// graph. The transition is reversible: restoring clears the deletion metadata
// without touching the storage record itself.
type Lifecycle struct {
	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *uuid.UUID `json:"deleted_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	CreatedBy uuid.UUID  `json:"created_by"`
}

// NewLifecycle returns the lifecycle state of a freshly created entity.
func NewLifecycle(createdBy uuid.UUID) Lifecycle {
	return Lifecycle{
		IsDeleted: false,
		CreatedAt: time.Now().UTC(),
		CreatedBy: createdBy,
	}
}

// MarkDeleted applies the Active -> Deleted transition, recording who deleted
// the entity and when. Returns ErrAlreadyDeleted if the entity is already in
// the deleted state; callers cascading over a subtree are expected to skip
// already-deleted dependents so their original deletion metadata survives.
func (l *Lifecycle) MarkDeleted(deletedAt time.Time, deletedBy uuid.UUID) error {
	if l.IsDeleted {
		return ErrAlreadyDeleted
	}
	l.IsDeleted = true
	l.DeletedAt = &deletedAt
	l.DeletedBy = &deletedBy
	return nil
}

// Restore applies the Deleted -> Active transition and clears the deletion
// metadata. Returns ErrNotDeleted if the entity is not currently deleted.
func (l *Lifecycle) Restore() error {
	if !l.IsDeleted {
		return ErrNotDeleted
	}
	l.IsDeleted = false
	l.DeletedAt = nil
	l.DeletedBy = nil
	return nil
}

// Tenant is the scope an entity belongs to. DepartmentID is nil for
// organization-level entities.
type Tenant struct {
	OrganizationID uuid.UUID  `json:"organization_id"`
	DepartmentID   *uuid.UUID `json:"department_id,omitempty"`
}

// SameOrganization reports whether two tenant scopes share an organization.
func (t Tenant) SameOrganization(other Tenant) bool {
	return t.OrganizationID == other.OrganizationID
}

// Validate checks if the Tenant has valid data.
func (t Tenant) Validate() error {
	if t.OrganizationID == uuid.Nil {
		return ErrTenantMismatch
	}
	return nil
}
