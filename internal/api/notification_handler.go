package api

import (
	"net/http"
	"strconv"

	"github.com/girmesh03/task-manager-api/internal/service"
	"github.com/girmesh03/task-manager-api/internal/store"
)

// NotificationHandler serves the actor's notification audit trail.
type NotificationHandler struct {
	notifications *service.NotificationService
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /notifications?limit=&offset=.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	page := store.Page{
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}
	notifications, err := h.notifications.ListForActor(r.Context(), actor, page)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	items := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, NewNotificationResponse(n, actor.UserID))
	}
	RespondWithJSON(w, r, http.StatusOK, NotificationListResponse{
		Notifications: items,
		Limit:         page.Limit,
		Offset:        page.Offset,
	})
}

// UnreadCount handles GET /notifications/unread-count.
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	count, err := h.notifications.UnreadCount(r.Context(), actor)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, UnreadCountResponse{Count: count})
}

// MarkRead handles POST /notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(r.Context(), id, actor); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// queryInt parses a query parameter as an int, 0 when absent or malformed.
func queryInt(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
