package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/api/shared"
	"github.com/girmesh03/task-manager-api/internal/domain"
)

// Re-exported shared helpers so handlers read without the package hop.
var (
	RespondWithJSON        = shared.RespondWithJSON
	RespondWithError       = shared.RespondWithError
	respondWithErrorAndLog = shared.RespondWithErrorAndLog
	DecodeJSON             = shared.DecodeJSON
	ValidateRequest        = shared.ValidateRequest
)

// actorFromRequest extracts the authenticated actor, writing a 401 when the
// middleware did not run or the context was lost.
func actorFromRequest(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok || actor.UserID == uuid.Nil {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return domain.Actor{}, false
	}
	return actor, true
}

// pathUUID parses a UUID path parameter, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		RespondWithError(w, r, http.StatusBadRequest, param+" is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, param+" is not a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
