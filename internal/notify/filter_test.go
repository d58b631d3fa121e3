package notify

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/girmesh03/task-manager-api/internal/domain"
)

func TestAllowed_RealtimeNeverGated(t *testing.T) {
	orgID := uuid.New()
	user := makeUser(orgID, "meron")
	user.EmailPreferences.Enabled = false
	filter := NewPreferenceFilter(newFakeUsers(user), nil)
	ctx := context.Background()

	assert.True(t, filter.Allowed(ctx, user.ID, domain.ActionTaskAssigned, ChannelRealtime))
	// Even for a user that does not exist: fail open for realtime.
	assert.True(t, filter.Allowed(ctx, uuid.New(), domain.ActionTaskAssigned, ChannelRealtime))
}

func TestAllowed_EmailMasterSwitch(t *testing.T) {
	orgID := uuid.New()
	user := makeUser(orgID, "meron")
	user.EmailPreferences.Enabled = false
	filter := NewPreferenceFilter(newFakeUsers(user), nil)

	assert.False(t, filter.Allowed(context.Background(), user.ID, domain.ActionTaskAssigned, ChannelEmail))
}

func TestAllowed_EmailCategoryFlags(t *testing.T) {
	orgID := uuid.New()
	user := makeUser(orgID, "meron")
	user.EmailPreferences = domain.EmailPreferences{
		Enabled:           true,
		TaskNotifications: false,
		TaskReminders:     true,
		Mentions:          true,
		Announcements:     false,
	}
	filter := NewPreferenceFilter(newFakeUsers(user), nil)
	ctx := context.Background()

	tests := []struct {
		action domain.ActionType
		want   bool
	}{
		{domain.ActionTaskCreated, false},
		{domain.ActionTaskUpdated, false},
		{domain.ActionActivityCreated, false},
		{domain.ActionTaskReminder, true},
		{domain.ActionMention, true},
		{domain.ActionCommentAdded, true},
		{domain.ActionAnnouncement, false},
		// Unknown actions default to the task notifications flag.
		{domain.ActionType("SURPRISE"), false},
	}
	for _, tc := range tests {
		t.Run(string(tc.action), func(t *testing.T) {
			assert.Equal(t, tc.want, filter.Allowed(ctx, user.ID, tc.action, ChannelEmail))
		})
	}
}

func TestAllowed_EmailLookupFailureFailsClosed(t *testing.T) {
	filter := NewPreferenceFilter(newFakeUsers(), nil)

	assert.False(t, filter.Allowed(context.Background(), uuid.New(), domain.ActionTaskAssigned, ChannelEmail))
}
