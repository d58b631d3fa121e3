package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/girmesh03/task-manager-api/internal/domain"
	"github.com/girmesh03/task-manager-api/internal/store"
)

func newAuditNotification(t *testing.T, recipients []uuid.UUID, tenant domain.Tenant) *domain.Notification {
	t.Helper()
	n, err := domain.NewNotification(
		domain.ActionAnnouncement,
		"Maintenance window",
		"The system goes down at 22:00.",
		nil,
		recipients,
		tenant,
		uuid.New(),
	)
	require.NoError(t, err)
	return n
}

func TestListForActor_ClampsPage(t *testing.T) {
	notifications := newFakeNotificationStore()
	svc := NewNotificationService(notifications, quietLogger())
	actor := domain.Actor{UserID: uuid.New(), OrganizationID: uuid.New()}

	tests := []struct {
		name string
		page store.Page
		want store.Page
	}{
		{"zero limit gets default", store.Page{}, store.Page{Limit: DefaultPageLimit}},
		{"oversized limit capped", store.Page{Limit: 500, Offset: 40}, store.Page{Limit: MaxPageLimit, Offset: 40}},
		{"negative offset zeroed", store.Page{Limit: 10, Offset: -3}, store.Page{Limit: 10}},
		{"in range passes through", store.Page{Limit: 25, Offset: 50}, store.Page{Limit: 25, Offset: 50}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ListForActor(context.Background(), actor, tc.page)
			require.NoError(t, err)
			assert.Equal(t, tc.want, notifications.lastPage)
		})
	}
}

func TestUnreadCount(t *testing.T) {
	notifications := newFakeNotificationStore()
	svc := NewNotificationService(notifications, quietLogger())

	actor := domain.Actor{UserID: uuid.New(), OrganizationID: uuid.New()}
	tenant := domain.Tenant{OrganizationID: actor.OrganizationID}

	unread := newAuditNotification(t, []uuid.UUID{actor.UserID}, tenant)
	read := newAuditNotification(t, []uuid.UUID{actor.UserID}, tenant)
	read.MarkRead(actor.UserID, testTimestamp)
	other := newAuditNotification(t, []uuid.UUID{uuid.New()}, tenant)
	for _, n := range []*domain.Notification{unread, read, other} {
		require.NoError(t, notifications.Create(context.Background(), n))
	}

	count, err := svc.UnreadCount(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMarkRead(t *testing.T) {
	actor := domain.Actor{UserID: uuid.New(), OrganizationID: uuid.New()}
	tenant := domain.Tenant{OrganizationID: actor.OrganizationID}

	t.Run("appends receipt for a recipient", func(t *testing.T) {
		notifications := newFakeNotificationStore()
		svc := NewNotificationService(notifications, quietLogger())
		n := newAuditNotification(t, []uuid.UUID{actor.UserID}, tenant)
		require.NoError(t, notifications.Create(context.Background(), n))

		require.NoError(t, svc.MarkRead(context.Background(), n.ID, actor))
		assert.True(t, n.IsReadBy(actor.UserID))
	})

	t.Run("second read is a no-op", func(t *testing.T) {
		notifications := newFakeNotificationStore()
		svc := NewNotificationService(notifications, quietLogger())
		n := newAuditNotification(t, []uuid.UUID{actor.UserID}, tenant)
		require.NoError(t, notifications.Create(context.Background(), n))

		require.NoError(t, svc.MarkRead(context.Background(), n.ID, actor))
		require.NoError(t, svc.MarkRead(context.Background(), n.ID, actor))
		assert.Len(t, n.ReadBy, 1)
	})

	t.Run("non-recipient is forbidden", func(t *testing.T) {
		notifications := newFakeNotificationStore()
		svc := NewNotificationService(notifications, quietLogger())
		n := newAuditNotification(t, []uuid.UUID{uuid.New()}, tenant)
		require.NoError(t, notifications.Create(context.Background(), n))

		err := svc.MarkRead(context.Background(), n.ID, actor)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Empty(t, n.ReadBy)
	})

	t.Run("missing notification", func(t *testing.T) {
		notifications := newFakeNotificationStore()
		svc := NewNotificationService(notifications, quietLogger())

		err := svc.MarkRead(context.Background(), uuid.New(), actor)
		assert.ErrorIs(t, err, store.ErrNotificationNotFound)
	})
}
