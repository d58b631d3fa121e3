package api

import (
	"errors"
	"net/http"

	"github.com/girmesh03/task-manager-api/internal/domain"
	"github.com/girmesh03/task-manager-api/internal/service"
	"github.com/girmesh03/task-manager-api/internal/service/auth"
	"github.com/girmesh03/task-manager-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, domain.ErrAlreadyDeleted),
		errors.Is(err, domain.ErrNotDeleted):
		return http.StatusConflict

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrTenantMismatch),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the client-facing message for an error.
// Internal errors collapse to a generic message.
func GetSafeErrorMessage(err error) string {
	switch MapErrorToStatusCode(err) {
	case http.StatusUnauthorized:
		if errors.Is(err, auth.ErrExpiredToken) {
			return "Token expired"
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			return "Invalid email or password"
		}
		return "Authentication required"
	case http.StatusForbidden:
		return "You do not have access to this resource"
	case http.StatusNotFound:
		return "Resource not found"
	case http.StatusConflict:
		if errors.Is(err, store.ErrEmailExists) {
			return "Email already exists"
		}
		return "Resource is in a conflicting state"
	case http.StatusBadRequest:
		return "Invalid request: " + err.Error()
	default:
		return "An internal error occurred"
	}
}

// respondWithServiceError maps err and writes the response, logging the
// original error.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	respondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}
