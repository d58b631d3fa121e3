package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Common validation errors for Organization and Department.
var (
	ErrEmptyOrganizationID   = errors.New("organization ID cannot be empty")
	ErrEmptyOrganizationName = errors.New("organization name cannot be empty")
	ErrEmptyDepartmentID     = errors.New("department ID cannot be empty")
	ErrEmptyDepartmentName   = errors.New("department name cannot be empty")
)

// Organization is the root tenant entity. Deleting an organization cascades
// through its departments, users, tasks and every dependent below them.
type Organization struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Lifecycle
}

// NewOrganization creates a new Organization with the given name.
func NewOrganization(name string, createdBy uuid.UUID) (*Organization, error) {
	org := &Organization{
		ID:        uuid.New(),
		Name:      name,
		Lifecycle: NewLifecycle(createdBy),
	}
	if err := org.Validate(); err != nil {
		return nil, err
	}
	return org, nil
}

// Validate checks if the Organization has valid data.
func (o *Organization) Validate() error {
	if o.ID == uuid.Nil {
		return ErrEmptyOrganizationID
	}
	if o.Name == "" {
		return ErrEmptyOrganizationName
	}
	return nil
}

// Department is a sub-tenant scope inside an organization. Deleting a
// department cascades through its users and the tasks they created.
type Department struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	// HeadID is the department head, included among notification candidates
	// for department-scoped announcements.
	HeadID *uuid.UUID `json:"head_id,omitempty"`
	Lifecycle
}

// NewDepartment creates a new Department under the given organization.
func NewDepartment(organizationID uuid.UUID, name string, createdBy uuid.UUID) (*Department, error) {
	dep := &Department{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		Name:           name,
		Lifecycle:      NewLifecycle(createdBy),
	}
	if err := dep.Validate(); err != nil {
		return nil, err
	}
	return dep, nil
}

// Validate checks if the Department has valid data.
func (d *Department) Validate() error {
	if d.ID == uuid.Nil {
		return ErrEmptyDepartmentID
	}
	if d.OrganizationID == uuid.Nil {
		return ErrEmptyOrganizationID
	}
	if d.Name == "" {
		return ErrEmptyDepartmentName
	}
	return nil
}

// Tenant returns the department's tenant scope.
func (d *Department) Tenant() Tenant {
	id := d.ID
	return Tenant{OrganizationID: d.OrganizationID, DepartmentID: &id}
}
