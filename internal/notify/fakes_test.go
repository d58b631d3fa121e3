package notify

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/domain"
	"github.com/girmesh03/task-manager-api/internal/store"
)

// fakeUsers is an in-memory UserStore covering what the pipeline calls.
type fakeUsers struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUsers(users ...*domain.User) *fakeUsers {
	f := &fakeUsers{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUsers) UpdateEmailPreferences(_ context.Context, id uuid.UUID, prefs domain.EmailPreferences) error {
	u, ok := f.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.EmailPreferences = prefs
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id uuid.UUID, hashed string) error {
	u, ok := f.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.HashedPassword = hashed
	return nil
}

func (f *fakeUsers) ListIDsByOrganization(context.Context, uuid.UUID, store.StateFilter) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeUsers) ListIDsByDepartment(context.Context, uuid.UUID, store.StateFilter) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeUsers) FilterValidRecipients(_ context.Context, candidates []uuid.UUID, orgID uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var out []uuid.UUID
	for _, id := range candidates {
		if seen[id] {
			continue
		}
		seen[id] = true
		u, ok := f.users[id]
		if ok && !u.IsDeleted && u.OrganizationID == orgID {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeUsers) MarkDeleted(context.Context, []uuid.UUID, time.Time, uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeUsers) Restore(context.Context, []uuid.UUID) ([]uuid.UUID, error) { return nil, nil }

func (f *fakeUsers) WithTx(*sql.Tx) store.UserStore { return f }

// fakeTasks only serves GetByID for activity recipient lookups.
type fakeTasks struct {
	tasks map[uuid.UUID]*domain.Task
}

func newFakeTasks(tasks ...*domain.Task) *fakeTasks {
	f := &fakeTasks{tasks: make(map[uuid.UUID]*domain.Task)}
	for _, t := range tasks {
		f.tasks[t.ID] = t
	}
	return f
}

func (f *fakeTasks) Create(_ context.Context, t *domain.Task) error {
	f.tasks[t.ID] = t
	return nil
}

func (f *fakeTasks) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return t, nil
}

func (f *fakeTasks) Update(context.Context, *domain.Task) error { return nil }

func (f *fakeTasks) ListIDsByOrganization(context.Context, uuid.UUID, store.StateFilter) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeTasks) ListIDsByCreators(context.Context, []uuid.UUID, store.StateFilter) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeTasks) ListActiveIDsByVendor(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeTasks) ListDueReminders(context.Context, time.Time, time.Time) ([]*domain.Task, error) {
	return nil, nil
}

func (f *fakeTasks) ReassignVendor(context.Context, uuid.UUID, uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeTasks) UnlinkMaterial(context.Context, uuid.UUID) (int64, error) { return 0, nil }
func (f *fakeTasks) RelinkMaterial(context.Context, uuid.UUID) (int64, error) { return 0, nil }

func (f *fakeTasks) MarkDeleted(context.Context, []uuid.UUID, time.Time, uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeTasks) Restore(context.Context, []uuid.UUID) ([]uuid.UUID, error) { return nil, nil }

func (f *fakeTasks) WithTx(*sql.Tx) store.TaskStore { return f }

// fakeNotifications records creates and delivery updates.
type fakeNotifications struct {
	created map[uuid.UUID]*domain.Notification
}

func newFakeNotifications() *fakeNotifications {
	return &fakeNotifications{created: make(map[uuid.UUID]*domain.Notification)}
}

func (f *fakeNotifications) Create(_ context.Context, n *domain.Notification) error {
	f.created[n.ID] = n
	return nil
}

func (f *fakeNotifications) GetByID(_ context.Context, id uuid.UUID) (*domain.Notification, error) {
	n, ok := f.created[id]
	if !ok {
		return nil, store.ErrNotificationNotFound
	}
	return n, nil
}

func (f *fakeNotifications) ListByRecipient(context.Context, uuid.UUID, store.Page) ([]*domain.Notification, error) {
	return nil, nil
}

func (f *fakeNotifications) CountUnread(context.Context, uuid.UUID) (int64, error) { return 0, nil }

func (f *fakeNotifications) AppendReadReceipt(_ context.Context, id uuid.UUID, userID uuid.UUID, readAt time.Time) error {
	n, ok := f.created[id]
	if !ok {
		return store.ErrNotificationNotFound
	}
	n.MarkRead(userID, readAt)
	return nil
}

func (f *fakeNotifications) UpdateEmailDelivery(_ context.Context, id uuid.UUID, delivery domain.EmailDelivery) error {
	n, ok := f.created[id]
	if !ok {
		return store.ErrNotificationNotFound
	}
	n.EmailDelivery = delivery
	return nil
}

func (f *fakeNotifications) ListIDsByEntities(context.Context, []domain.Ref, store.StateFilter) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeNotifications) MarkDeleted(context.Context, []uuid.UUID, time.Time, uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeNotifications) Restore(context.Context, []uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeNotifications) WithTx(*sql.Tx) store.NotificationStore { return f }

// makeUser builds an active user in the organization with default
// preferences.
func makeUser(orgID uuid.UUID, name string) *domain.User {
	return &domain.User{
		ID:               uuid.New(),
		OrganizationID:   orgID,
		Email:            name + "@example.com",
		Name:             name,
		EmailPreferences: domain.DefaultEmailPreferences(),
	}
}
