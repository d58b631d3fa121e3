package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Common validation errors for Material and Vendor.
var (
	ErrEmptyMaterialID   = errors.New("material ID cannot be empty")
	ErrEmptyMaterialName = errors.New("material name cannot be empty")
	ErrEmptyVendorID     = errors.New("vendor ID cannot be empty")
	ErrEmptyVendorName   = errors.New("vendor name cannot be empty")
)

// Material is a consumable referenced by task and activity line items.
// Deleting a material does not cascade into tasks: the cascade variant for
// materials unlinks the reference from line items and leaves the tasks
// intact; restore relinks where the material still exists.
type Material struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Unit           string    `json:"unit,omitempty"`
	Lifecycle
}

// NewMaterial creates a new Material under the given organization.
func NewMaterial(organizationID uuid.UUID, name string, createdBy uuid.UUID) (*Material, error) {
	material := &Material{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		Name:           name,
		Lifecycle:      NewLifecycle(createdBy),
	}
	if err := material.Validate(); err != nil {
		return nil, err
	}
	return material, nil
}

// Validate checks if the Material has valid data.
func (m *Material) Validate() error {
	if m.ID == uuid.Nil {
		return ErrEmptyMaterialID
	}
	if m.OrganizationID == uuid.Nil {
		return ErrEmptyOrganizationID
	}
	if m.Name == "" {
		return ErrEmptyMaterialName
	}
	return nil
}

// Vendor is an external party project tasks can reference. Deleting a vendor
// never cascades into its tasks: active project tasks are either rebound to a
// replacement vendor or keep the dangling reference.
type Vendor struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	ContactEmail   string    `json:"contact_email,omitempty"`
	Lifecycle
}

// NewVendor creates a new Vendor under the given organization.
func NewVendor(organizationID uuid.UUID, name string, createdBy uuid.UUID) (*Vendor, error) {
	vendor := &Vendor{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		Name:           name,
		Lifecycle:      NewLifecycle(createdBy),
	}
	if err := vendor.Validate(); err != nil {
		return nil, err
	}
	return vendor, nil
}

// Validate checks if the Vendor has valid data.
func (v *Vendor) Validate() error {
	if v.ID == uuid.Nil {
		return ErrEmptyVendorID
	}
	if v.OrganizationID == uuid.Nil {
		return ErrEmptyOrganizationID
	}
	if v.Name == "" {
		return ErrEmptyVendorName
	}
	return nil
}
