package notify

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/domain"
	"github.com/girmesh03/task-manager-api/internal/platform/logger"
	"github.com/girmesh03/task-manager-api/internal/store"
)

// PersistInput carries everything needed to persist one notification.
type PersistInput struct {
	Action     domain.ActionType
	Title      string
	Message    string
	Entity     *domain.Ref
	Candidates []uuid.UUID
	Tenant     domain.Tenant
	Actor      domain.Actor
}

// Service persists notifications inside the business transaction. It
// revalidates candidates right before the write: only active members of the
// same organization remain, and the actor never notifies themself.
type Service struct {
	users         store.UserStore
	notifications store.NotificationStore
	logger        *slog.Logger
}

// NewService creates a notification persistence service.
func NewService(users store.UserStore, notifications store.NotificationStore, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		users:         users,
		notifications: notifications,
		logger:        log.With("component", "notification_service"),
	}
}

// WithTx returns a copy bound to the transaction.
func (s *Service) WithTx(tx *sql.Tx) *Service {
	return &Service{
		users:         s.users.WithTx(tx),
		notifications: s.notifications.WithTx(tx),
		logger:        s.logger,
	}
}

// Persist validates the candidate set and writes the notification. An empty
// valid set is not an error: nothing is written and (nil, nil) is returned.
// Exceeding the recipient cap is a validation failure that must abort the
// enclosing transaction.
func (s *Service) Persist(ctx context.Context, input PersistInput) (*domain.Notification, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	candidates := dedupe(input.Candidates, input.Actor.UserID)
	if len(candidates) == 0 {
		log.Debug("no candidate recipients, skipping notification",
			"action", input.Action)
		return nil, nil
	}

	valid, err := s.users.FilterValidRecipients(ctx, candidates, input.Tenant.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("validate recipients: %w", err)
	}
	if len(valid) == 0 {
		log.Debug("no valid recipients after filtering, skipping notification",
			"action", input.Action,
			"candidates", len(candidates))
		return nil, nil
	}

	notification, err := domain.NewNotification(
		input.Action,
		input.Title,
		input.Message,
		input.Entity,
		valid,
		input.Tenant,
		input.Actor.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("build notification: %w", err)
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("persist notification: %w", err)
	}

	log.Info("notification persisted",
		"notification_id", notification.ID,
		"action", input.Action,
		"recipients", len(valid))
	return notification, nil
}
