package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or missing.
	ErrInvalidID = errors.New("invalid ID")

	// ErrTenantMismatch is returned when a child entity's tenant scope does
	// not equal its parent's tenant scope.
	ErrTenantMismatch = errors.New("tenant scope mismatch")

	// ErrAlreadyDeleted is returned when a delete transition is applied to an
	// entity that is already soft-deleted.
	ErrAlreadyDeleted = errors.New("entity is already deleted")

	// ErrNotDeleted is returned when a restore transition is applied to an
	// entity that is not soft-deleted.
	ErrNotDeleted = errors.New("entity is not deleted")

	// ErrImmutableNotification is returned when a persisted notification is
	// mutated outside of read-receipt appends and email delivery updates.
	ErrImmutableNotification = errors.New("notification is immutable once persisted")
)
