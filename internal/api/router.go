package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/girmesh03/task-manager-api/internal/api/middleware"
	"github.com/girmesh03/task-manager-api/internal/realtime"
	"github.com/girmesh03/task-manager-api/internal/redact"
	"github.com/girmesh03/task-manager-api/internal/service"
	"github.com/girmesh03/task-manager-api/internal/service/auth"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Users         *service.UserService
	Notifications *service.NotificationService
	Lifecycle     *service.LifecycleService
	Tokens        auth.TokenService
	Hub           *realtime.Hub
	Logger        *slog.Logger
}

// NewRouter builds the HTTP API. Everything except the auth endpoints and
// the health check sits behind bearer authentication.
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(chimiddleware.Recoverer)

	authHandler := NewAuthHandler(deps.Users)
	notificationHandler := NewNotificationHandler(deps.Notifications)
	lifecycleHandler := NewLifecycleHandler(deps.Lifecycle)
	authMiddleware := middleware.NewAuthMiddleware(deps.Tokens)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/reset-password", authHandler.ResetPassword)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Put("/users/me/email-preferences", authHandler.UpdateEmailPreferences)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", notificationHandler.List)
			r.Get("/unread-count", notificationHandler.UnreadCount)
			r.Post("/{id}/read", notificationHandler.MarkRead)
		})

		r.Delete("/tasks/{id}", lifecycleHandler.DeleteTask)
		r.Post("/tasks/{id}/restore", lifecycleHandler.RestoreTask)
		r.Delete("/organizations/{id}", lifecycleHandler.DeleteOrganization)
		r.Post("/organizations/{id}/restore", lifecycleHandler.RestoreOrganization)
		r.Delete("/departments/{id}", lifecycleHandler.DeleteDepartment)
		r.Post("/departments/{id}/restore", lifecycleHandler.RestoreDepartment)
		r.Delete("/materials/{id}", lifecycleHandler.DeleteMaterial)
		r.Post("/materials/{id}/restore", lifecycleHandler.RestoreMaterial)
		r.Delete("/vendors/{id}", lifecycleHandler.DeleteVendor)
		r.Post("/vendors/{id}/restore", lifecycleHandler.RestoreVendor)

		r.Post("/announcements", lifecycleHandler.Announce)

		if deps.Hub != nil {
			r.Get("/ws", serveWS(deps.Hub, deps.Logger))
		}
	})

	return r
}

// serveWS upgrades the request and registers the connection under the
// actor's identity so audience-scoped events reach it.
func serveWS(hub *realtime.Hub, log *slog.Logger) http.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(w, r)
		if !ok {
			return
		}
		err := hub.ServeWS(w, r, realtime.Identity{
			UserID:         actor.UserID,
			OrganizationID: actor.OrganizationID,
			DepartmentID:   actor.DepartmentID,
		})
		if err != nil {
			// The upgrader has already written its own error response.
			log.Warn("websocket upgrade failed", slog.String("error", redact.Error(err)))
		}
	}
}
