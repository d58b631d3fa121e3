package service

import "errors"

// Common service errors. Service methods return these sentinels for
// expected conditions so callers can branch with errors.Is; the API layer
// maps them to HTTP status codes.
var (
	// ErrInvalidCredentials indicates a failed email/password authentication
	// attempt. Deliberately indistinguishable between unknown email and
	// wrong password. Maps to HTTP 401.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrForbidden indicates the actor's tenant scope does not cover the
	// resource. Maps to HTTP 403.
	ErrForbidden = errors.New("actor may not access this resource")
)
