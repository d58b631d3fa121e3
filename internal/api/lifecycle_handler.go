package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/api/shared"
	"github.com/girmesh03/task-manager-api/internal/cascade"
	"github.com/girmesh03/task-manager-api/internal/domain"
	"github.com/girmesh03/task-manager-api/internal/service"
)

// LifecycleHandler exposes cascading delete and restore over the entity
// graph plus manual announcements.
type LifecycleHandler struct {
	lifecycle *service.LifecycleService
}

// NewLifecycleHandler creates a LifecycleHandler.
func NewLifecycleHandler(lifecycle *service.LifecycleService) *LifecycleHandler {
	return &LifecycleHandler{lifecycle: lifecycle}
}

// cascadeFn runs one lifecycle operation for the extracted ID and actor.
type cascadeFn func(r *http.Request, id uuid.UUID, actor domain.Actor) (cascade.Result, error)

// handleCascade factors the shared shape of every cascade endpoint.
func (h *LifecycleHandler) handleCascade(param string, fn cascadeFn) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := pathUUID(w, r, param)
		if !ok {
			return
		}

		result, err := fn(r, id, actor)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		RespondWithJSON(w, r, http.StatusOK, NewCascadeResponse(result))
	}
}

// DeleteTask handles DELETE /tasks/{id}. Query flags no_email and
// no_realtime suppress the matching fan-out channel.
func (h *LifecycleHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	h.handleCascade("id", func(r *http.Request, id uuid.UUID, actor domain.Actor) (cascade.Result, error) {
		return h.lifecycle.DeleteTask(r.Context(), id, actor, commandOptions(r))
	})(w, r)
}

// RestoreTask handles POST /tasks/{id}/restore.
func (h *LifecycleHandler) RestoreTask(w http.ResponseWriter, r *http.Request) {
	h.handleCascade("id", func(r *http.Request, id uuid.UUID, actor domain.Actor) (cascade.Result, error) {
		return h.lifecycle.RestoreTask(r.Context(), id, actor, commandOptions(r))
	})(w, r)
}

// DeleteOrganization handles DELETE /organizations/{id}.
func (h *LifecycleHandler) DeleteOrganization(w http.ResponseWriter, r *http.Request) {
	h.handleCascade("id", func(r *http.Request, id uuid.UUID, actor domain.Actor) (cascade.Result, error) {
		return h.lifecycle.DeleteOrganization(r.Context(), id, actor)
	})(w, r)
}

// RestoreOrganization handles POST /organizations/{id}/restore.
func (h *LifecycleHandler) RestoreOrganization(w http.ResponseWriter, r *http.Request) {
	h.handleCascade("id", func(r *http.Request, id uuid.UUID, actor domain.Actor) (cascade.Result, error) {
		return h.lifecycle.RestoreOrganization(r.Context(), id, actor)
	})(w, r)
}

// DeleteDepartment handles DELETE /departments/{id}.
func (h *LifecycleHandler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	h.handleCascade("id", func(r *http.Request, id uuid.UUID, actor domain.Actor) (cascade.Result, error) {
		return h.lifecycle.DeleteDepartment(r.Context(), id, actor)
	})(w, r)
}

// RestoreDepartment handles POST /departments/{id}/restore.
func (h *LifecycleHandler) RestoreDepartment(w http.ResponseWriter, r *http.Request) {
	h.handleCascade("id", func(r *http.Request, id uuid.UUID, actor domain.Actor) (cascade.Result, error) {
		return h.lifecycle.RestoreDepartment(r.Context(), id, actor)
	})(w, r)
}

// DeleteMaterial handles DELETE /materials/{id}.
func (h *LifecycleHandler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	h.handleCascade("id", func(r *http.Request, id uuid.UUID, actor domain.Actor) (cascade.Result, error) {
		return h.lifecycle.DeleteMaterial(r.Context(), id, actor)
	})(w, r)
}

// RestoreMaterial handles POST /materials/{id}/restore.
func (h *LifecycleHandler) RestoreMaterial(w http.ResponseWriter, r *http.Request) {
	h.handleCascade("id", func(r *http.Request, id uuid.UUID, actor domain.Actor) (cascade.Result, error) {
		return h.lifecycle.RestoreMaterial(r.Context(), id, actor)
	})(w, r)
}

// DeleteVendor handles DELETE /vendors/{id}. The optional body names a
// replacement vendor that open tasks are rebound to before the delete.
func (h *LifecycleHandler) DeleteVendor(w http.ResponseWriter, r *http.Request) {
	h.handleCascade("id", func(r *http.Request, id uuid.UUID, actor domain.Actor) (cascade.Result, error) {
		var req DeleteVendorRequest
		if err := DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, shared.ErrEmptyBody) {
			return cascade.Result{}, domain.ErrValidation
		}
		return h.lifecycle.DeleteVendor(r.Context(), id, req.ReplacementVendorID, actor)
	})(w, r)
}

// RestoreVendor handles POST /vendors/{id}/restore.
func (h *LifecycleHandler) RestoreVendor(w http.ResponseWriter, r *http.Request) {
	h.handleCascade("id", func(r *http.Request, id uuid.UUID, actor domain.Actor) (cascade.Result, error) {
		return h.lifecycle.RestoreVendor(r.Context(), id, actor)
	})(w, r)
}

// Announce handles POST /announcements: a manual fan-out to an explicit
// recipient list.
func (h *LifecycleHandler) Announce(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req AnnouncementRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := ValidateRequest(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	n, err := h.lifecycle.Dispatch(r.Context(), service.Command{
		Action: domain.ActionAnnouncement,
		Actor:  actor,
		Options: service.CommandOptions{
			WithRealtime:       true,
			WithEmail:          req.WithEmail,
			ExplicitRecipients: req.Recipients,
		},
	})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	if n == nil {
		// Every candidate was filtered out; nothing was persisted.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	RespondWithJSON(w, r, http.StatusCreated, NewNotificationResponse(n, actor.UserID))
}

// commandOptions reads the fan-out suppression flags for task cascades.
func commandOptions(r *http.Request) service.CommandOptions {
	q := r.URL.Query()
	return service.CommandOptions{
		WithRealtime: q.Get("no_realtime") == "",
		WithEmail:    q.Get("no_email") == "",
	}
}
