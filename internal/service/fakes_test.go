package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/domain"
	"github.com/girmesh03/task-manager-api/internal/service/auth"
	"github.com/girmesh03/task-manager-api/internal/store"
)

// fakeUserStore is a map-backed store.UserStore for service tests.
type fakeUserStore struct {
	users   map[uuid.UUID]*domain.User
	byEmail map[string]uuid.UUID
	failOn  map[string]error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:   make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]uuid.UUID),
		failOn:  make(map[string]error),
	}
}

func (f *fakeUserStore) add(u *domain.User) {
	f.users[u.ID] = u
	f.byEmail[u.Email] = u.ID
}

var _ store.UserStore = (*fakeUserStore)(nil)

func (f *fakeUserStore) Create(_ context.Context, u *domain.User) error {
	if err := f.failOn["create"]; err != nil {
		return err
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return store.ErrEmailExists
	}
	clone := *u
	f.add(&clone)
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	id, ok := f.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	u := f.users[id]
	if u.IsDeleted {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) UpdateEmailPreferences(_ context.Context, id uuid.UUID, prefs domain.EmailPreferences) error {
	u, ok := f.users[id]
	if !ok || u.IsDeleted {
		return store.ErrUserNotFound
	}
	u.EmailPreferences = prefs
	return nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id uuid.UUID, hashed string) error {
	u, ok := f.users[id]
	if !ok || u.IsDeleted {
		return store.ErrUserNotFound
	}
	u.HashedPassword = hashed
	return nil
}

func (f *fakeUserStore) ListIDsByOrganization(context.Context, uuid.UUID, store.StateFilter) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeUserStore) ListIDsByDepartment(context.Context, uuid.UUID, store.StateFilter) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeUserStore) FilterValidRecipients(_ context.Context, candidates []uuid.UUID, orgID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, id := range candidates {
		if u, ok := f.users[id]; ok && !u.IsDeleted && u.OrganizationID == orgID {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeUserStore) MarkDeleted(context.Context, []uuid.UUID, time.Time, uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeUserStore) Restore(context.Context, []uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeUserStore) WithTx(*sql.Tx) store.UserStore { return f }

// fakeNotificationStore is a map-backed store.NotificationStore.
type fakeNotificationStore struct {
	notifications map[uuid.UUID]*domain.Notification
	lastPage      store.Page
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{notifications: make(map[uuid.UUID]*domain.Notification)}
}

var _ store.NotificationStore = (*fakeNotificationStore)(nil)

func (f *fakeNotificationStore) Create(_ context.Context, n *domain.Notification) error {
	f.notifications[n.ID] = n
	return nil
}

func (f *fakeNotificationStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Notification, error) {
	n, ok := f.notifications[id]
	if !ok {
		return nil, store.ErrNotificationNotFound
	}
	return n, nil
}

func (f *fakeNotificationStore) ListByRecipient(_ context.Context, userID uuid.UUID, page store.Page) ([]*domain.Notification, error) {
	f.lastPage = page
	var out []*domain.Notification
	for _, n := range f.notifications {
		if !n.IsDeleted && isRecipient(n, userID) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if !n.IsDeleted && isRecipient(n, userID) && !n.IsReadBy(userID) {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationStore) AppendReadReceipt(_ context.Context, id, userID uuid.UUID, readAt time.Time) error {
	n, ok := f.notifications[id]
	if !ok {
		return store.ErrNotificationNotFound
	}
	n.MarkRead(userID, readAt)
	return nil
}

func (f *fakeNotificationStore) UpdateEmailDelivery(_ context.Context, id uuid.UUID, delivery domain.EmailDelivery) error {
	n, ok := f.notifications[id]
	if !ok {
		return store.ErrNotificationNotFound
	}
	n.EmailDelivery = delivery
	return nil
}

func (f *fakeNotificationStore) ListIDsByEntities(context.Context, []domain.Ref, store.StateFilter) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeNotificationStore) MarkDeleted(context.Context, []uuid.UUID, time.Time, uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeNotificationStore) Restore(context.Context, []uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeNotificationStore) WithTx(*sql.Tx) store.NotificationStore { return f }

// fakeTokenService issues predictable tokens keyed by user ID.
type fakeTokenService struct {
	resetActor *domain.Actor
}

var _ auth.TokenService = (*fakeTokenService)(nil)

func (f *fakeTokenService) GenerateToken(_ context.Context, actor domain.Actor) (string, error) {
	return "access-" + actor.UserID.String(), nil
}

func (f *fakeTokenService) ValidateToken(context.Context, string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}

func (f *fakeTokenService) GenerateResetToken(_ context.Context, actor domain.Actor) (string, error) {
	f.resetActor = &actor
	return "reset-" + actor.UserID.String(), nil
}

func (f *fakeTokenService) ValidateResetToken(_ context.Context, token string) (*auth.Claims, error) {
	if f.resetActor == nil || token != "reset-"+f.resetActor.UserID.String() {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{
		UserID:         f.resetActor.UserID,
		OrganizationID: f.resetActor.OrganizationID,
		DepartmentID:   f.resetActor.DepartmentID,
		TokenType:      auth.TokenTypeReset,
	}, nil
}
