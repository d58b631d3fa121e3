package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/domain"
	"github.com/girmesh03/task-manager-api/internal/platform/logger"
	"github.com/girmesh03/task-manager-api/internal/store"
)

// Channel is a delivery channel the preference filter gates.
type Channel string

// Delivery channels.
const (
	ChannelRealtime Channel = "realtime"
	ChannelEmail    Channel = "email"
)

// PreferenceFilter decides whether one user receives one action over one
// channel. Realtime is never gated: the UI can ignore events locally, so no
// preference suppresses them. Email is gated by the user's master switch
// plus the per-category flag the action maps to.
type PreferenceFilter struct {
	users  store.UserStore
	logger *slog.Logger
}

// NewPreferenceFilter creates a filter over the user store.
func NewPreferenceFilter(users store.UserStore, log *slog.Logger) *PreferenceFilter {
	if log == nil {
		log = slog.Default()
	}
	return &PreferenceFilter{users: users, logger: log.With("component", "preference_filter")}
}

// Allowed reports whether the user accepts the action on the channel. A
// failed user lookup fails open for realtime and closed for email, so a
// vanished account never gets mail.
func (f *PreferenceFilter) Allowed(ctx context.Context, userID uuid.UUID, action domain.ActionType, channel Channel) bool {
	if channel == ChannelRealtime {
		return true
	}

	user, err := f.users.GetByID(ctx, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, f.logger).Warn("preference lookup failed, suppressing email",
			"user_id", userID,
			"action", action,
			"error", err)
		return false
	}

	prefs := user.EmailPreferences
	if !prefs.Enabled {
		return false
	}
	return categoryFlag(prefs, action)
}

// categoryFlag maps an action to the preference flag that gates its email.
// Unknown action types default to the task notifications flag.
func categoryFlag(prefs domain.EmailPreferences, action domain.ActionType) bool {
	switch action {
	case domain.ActionTaskReminder:
		return prefs.TaskReminders
	case domain.ActionCommentAdded, domain.ActionCommentUpdated, domain.ActionMention:
		return prefs.Mentions
	case domain.ActionAnnouncement:
		return prefs.Announcements
	default:
		return prefs.TaskNotifications
	}
}
