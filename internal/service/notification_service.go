package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/domain"
	"github.com/girmesh03/task-manager-api/internal/platform/logger"
	"github.com/girmesh03/task-manager-api/internal/store"
)

// DefaultPageLimit bounds notification list pages when the caller passes no
// limit.
const DefaultPageLimit = 20

// MaxPageLimit is the largest page a single list call returns.
const MaxPageLimit = 100

// NotificationService is the read side of the notification audit trail.
type NotificationService struct {
	notifications store.NotificationStore
	logger        *slog.Logger
}

// NewNotificationService creates the notification read service.
func NewNotificationService(notifications store.NotificationStore, log *slog.Logger) *NotificationService {
	if log == nil {
		log = slog.Default()
	}
	return &NotificationService{
		notifications: notifications,
		logger:        log.With(slog.String("component", "notification_read_service")),
	}
}

// ListForActor pages through the actor's notifications, newest first.
func (s *NotificationService) ListForActor(ctx context.Context, actor domain.Actor, page store.Page) ([]*domain.Notification, error) {
	if page.Limit <= 0 {
		page.Limit = DefaultPageLimit
	}
	if page.Limit > MaxPageLimit {
		page.Limit = MaxPageLimit
	}
	if page.Offset < 0 {
		page.Offset = 0
	}
	return s.notifications.ListByRecipient(ctx, actor.UserID, page)
}

// UnreadCount returns how many of the actor's notifications carry no read
// receipt from them.
func (s *NotificationService) UnreadCount(ctx context.Context, actor domain.Actor) (int64, error) {
	return s.notifications.CountUnread(ctx, actor.UserID)
}

// MarkRead appends the actor's read receipt to a notification addressed to
// them. Reading twice is a no-op. Returns ErrForbidden when the
// notification is not addressed to the actor.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID uuid.UUID, actor domain.Actor) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	n, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if !isRecipient(n, actor.UserID) {
		return ErrForbidden
	}

	if err := s.notifications.AppendReadReceipt(ctx, notificationID, actor.UserID, time.Now().UTC()); err != nil {
		return err
	}
	log.Debug("notification marked read",
		slog.String("notification_id", notificationID.String()),
		slog.String("user_id", actor.UserID.String()))
	return nil
}

func isRecipient(n *domain.Notification, userID uuid.UUID) bool {
	for _, id := range n.Recipients {
		if id == userID {
			return true
		}
	}
	return false
}
