package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/cascade"
	"github.com/girmesh03/task-manager-api/internal/domain"
)

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	OrganizationID uuid.UUID  `json:"organization_id" validate:"required"`
	DepartmentID   *uuid.UUID `json:"department_id,omitempty"`
	Email          string     `json:"email"            validate:"required,email"`
	Name           string     `json:"name"             validate:"required,max=100"`
	Password       string     `json:"password"         validate:"required,min=12,max=72"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
}

// ForgotPasswordRequest is the body for POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the body for POST /auth/reset-password.
type ResetPasswordRequest struct {
	Token       string `json:"token"        validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=12,max=72"`
}

// EmailPreferencesRequest is the body for PUT /users/me/email-preferences.
type EmailPreferencesRequest struct {
	Preferences domain.EmailPreferences `json:"preferences"`
}

// AnnouncementRequest is the body for POST /announcements.
type AnnouncementRequest struct {
	Recipients []uuid.UUID `json:"recipients" validate:"required,min=1"`
	WithEmail  bool        `json:"with_email"`
}

// DeleteVendorRequest is the optional body for DELETE /vendors/{id}.
type DeleteVendorRequest struct {
	ReplacementVendorID *uuid.UUID `json:"replacement_vendor_id,omitempty"`
}

// CascadeResponse reports what one lifecycle cascade touched.
type CascadeResponse struct {
	Organizations int   `json:"organizations,omitempty"`
	Departments   int   `json:"departments,omitempty"`
	Users         int   `json:"users,omitempty"`
	Tasks         int   `json:"tasks,omitempty"`
	Activities    int   `json:"activities,omitempty"`
	Comments      int   `json:"comments,omitempty"`
	Attachments   int   `json:"attachments,omitempty"`
	Notifications int   `json:"notifications,omitempty"`
	Materials     int   `json:"materials,omitempty"`
	Vendors       int   `json:"vendors,omitempty"`
	TasksRebound  int64 `json:"tasks_rebound,omitempty"`
	LinksChanged  int64 `json:"links_changed,omitempty"`
	Total         int   `json:"total"`
}

// NewCascadeResponse converts an executor result into the API shape.
func NewCascadeResponse(result cascade.Result) CascadeResponse {
	return CascadeResponse{
		Organizations: result.Organizations,
		Departments:   result.Departments,
		Users:         result.Users,
		Tasks:         result.Tasks,
		Activities:    result.Activities,
		Comments:      result.Comments,
		Attachments:   result.Attachments,
		Notifications: result.Notifications,
		Materials:     result.Materials,
		Vendors:       result.Vendors,
		TasksRebound:  result.TasksRebound,
		LinksChanged:  result.LinksChanged,
		Total:         result.Total(),
	}
}

// NotificationResponse is one notification in the audit trail.
type NotificationResponse struct {
	ID             uuid.UUID          `json:"id"`
	OrganizationID uuid.UUID          `json:"organization_id"`
	DepartmentID   *uuid.UUID         `json:"department_id,omitempty"`
	Type           domain.ActionType  `json:"type"`
	Title          string             `json:"title"`
	Message        string             `json:"message"`
	EntityID       *uuid.UUID         `json:"entity_id,omitempty"`
	EntityModel    *string            `json:"entity_model,omitempty"`
	Read           bool               `json:"read"`
	ReadAt         *time.Time         `json:"read_at,omitempty"`
	EmailSent      bool               `json:"email_sent"`
	CreatedAt      time.Time          `json:"created_at"`
}

// NewNotificationResponse projects a notification for the given viewer. Read
// state is personal to the viewer, not the whole recipient set.
func NewNotificationResponse(n *domain.Notification, viewer uuid.UUID) NotificationResponse {
	resp := NotificationResponse{
		ID:             n.ID,
		OrganizationID: n.OrganizationID,
		DepartmentID:   n.DepartmentID,
		Type:           n.Type,
		Title:          n.Title,
		Message:        n.Message,
		EntityID:       n.EntityID,
		EmailSent:      n.EmailDelivery.Sent,
		CreatedAt:      n.CreatedAt,
	}
	if n.EntityModel != nil {
		model := string(*n.EntityModel)
		resp.EntityModel = &model
	}
	for _, receipt := range n.ReadBy {
		if receipt.UserID == viewer {
			resp.Read = true
			at := receipt.ReadAt
			resp.ReadAt = &at
			break
		}
	}
	return resp
}

// NotificationListResponse is a page of notifications.
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Limit         int                    `json:"limit"`
	Offset        int                    `json:"offset"`
}

// UnreadCountResponse is the body of GET /notifications/unread-count.
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
