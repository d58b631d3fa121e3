package cascade

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/domain"
	"github.com/girmesh03/task-manager-api/internal/store"
)

// node is one entity in the in-memory graph used by executor tests.
type node struct {
	id        uuid.UUID
	model     domain.EntityModel
	deleted   bool
	deletedAt time.Time
	deletedBy uuid.UUID

	orgID     uuid.UUID
	depID     uuid.UUID
	createdBy uuid.UUID
	taskID    uuid.UUID   // activities
	parent    domain.Ref  // comments, attachments
	entity    *domain.Ref // notifications
	vendorID  uuid.UUID   // project tasks
	materials []uuid.UUID // material line refs; unlinked tracked separately
	unlinked  map[uuid.UUID]bool
}

// graph is a shared in-memory entity graph; the fake stores below are views
// over it. failOn lets a test inject an error on a named operation.
type graph struct {
	nodes  map[uuid.UUID]*node
	failOn map[string]error
}

func newGraph() *graph {
	return &graph{nodes: make(map[uuid.UUID]*node), failOn: make(map[string]error)}
}

func (g *graph) add(n *node) uuid.UUID {
	if n.id == uuid.Nil {
		n.id = uuid.New()
	}
	if n.unlinked == nil {
		n.unlinked = make(map[uuid.UUID]bool)
	}
	g.nodes[n.id] = n
	return n.id
}

func (g *graph) fail(op string) error {
	return g.failOn[op]
}

// deletedIDs returns the IDs of all currently soft-deleted nodes.
func (g *graph) deletedIDs() map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool)
	for id, n := range g.nodes {
		if n.deleted {
			out[id] = true
		}
	}
	return out
}

func (g *graph) markDeleted(model domain.EntityModel, ids []uuid.UUID, at time.Time, by uuid.UUID) []uuid.UUID {
	var marked []uuid.UUID
	for _, id := range ids {
		n, ok := g.nodes[id]
		if !ok || n.model != model || n.deleted {
			continue
		}
		n.deleted = true
		n.deletedAt = at
		n.deletedBy = by
		marked = append(marked, id)
	}
	return marked
}

func (g *graph) restore(model domain.EntityModel, ids []uuid.UUID) []uuid.UUID {
	var restored []uuid.UUID
	for _, id := range ids {
		n, ok := g.nodes[id]
		if !ok || n.model != model || !n.deleted {
			continue
		}
		n.deleted = false
		restored = append(restored, id)
	}
	return restored
}

func matchState(n *node, state store.StateFilter) bool {
	switch state {
	case store.StateActive:
		return !n.deleted
	case store.StateDeleted:
		return n.deleted
	default:
		return true
	}
}

// fakeStore carries the graph plus the model it serves; concrete fakes embed
// it for the shared lifecycle methods.
type fakeStore struct {
	g     *graph
	model domain.EntityModel
}

func (f fakeStore) MarkDeleted(_ context.Context, ids []uuid.UUID, at time.Time, by uuid.UUID) ([]uuid.UUID, error) {
	if err := f.g.fail("mark:" + string(f.model)); err != nil {
		return nil, err
	}
	return f.g.markDeleted(f.model, ids, at, by), nil
}

func (f fakeStore) Restore(_ context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if err := f.g.fail("restore:" + string(f.model)); err != nil {
		return nil, err
	}
	return f.g.restore(f.model, ids), nil
}

type fakeOrgStore struct{ fakeStore }

func (f fakeOrgStore) Create(context.Context, *domain.Organization) error { return nil }
func (f fakeOrgStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Organization, error) {
	n, ok := f.g.nodes[id]
	if !ok || n.model != domain.ModelOrganization {
		return nil, store.ErrOrganizationNotFound
	}
	return &domain.Organization{ID: id}, nil
}
func (f fakeOrgStore) WithTx(*sql.Tx) store.OrganizationStore { return f }

type fakeDepStore struct{ fakeStore }

func (f fakeDepStore) Create(context.Context, *domain.Department) error { return nil }
func (f fakeDepStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Department, error) {
	n, ok := f.g.nodes[id]
	if !ok || n.model != domain.ModelDepartment {
		return nil, store.ErrDepartmentNotFound
	}
	return &domain.Department{ID: id, OrganizationID: n.orgID}, nil
}
func (f fakeDepStore) ListIDsByOrganization(_ context.Context, orgID uuid.UUID, state store.StateFilter) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for id, n := range f.g.nodes {
		if n.model == domain.ModelDepartment && n.orgID == orgID && matchState(n, state) {
			out = append(out, id)
		}
	}
	return out, nil
}
func (f fakeDepStore) WithTx(*sql.Tx) store.DepartmentStore { return f }

type fakeUserStore struct{ fakeStore }

func (f fakeUserStore) Create(context.Context, *domain.User) error { return nil }
func (f fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	n, ok := f.g.nodes[id]
	if !ok || n.model != domain.ModelUser {
		return nil, store.ErrUserNotFound
	}
	return &domain.User{ID: id, OrganizationID: n.orgID}, nil
}
func (f fakeUserStore) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, store.ErrUserNotFound
}
func (f fakeUserStore) UpdateEmailPreferences(context.Context, uuid.UUID, domain.EmailPreferences) error {
	return nil
}
func (f fakeUserStore) UpdatePassword(context.Context, uuid.UUID, string) error {
	return nil
}
func (f fakeUserStore) ListIDsByOrganization(_ context.Context, orgID uuid.UUID, state store.StateFilter) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for id, n := range f.g.nodes {
		if n.model == domain.ModelUser && n.orgID == orgID && matchState(n, state) {
			out = append(out, id)
		}
	}
	return out, nil
}
func (f fakeUserStore) ListIDsByDepartment(_ context.Context, depID uuid.UUID, state store.StateFilter) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for id, n := range f.g.nodes {
		if n.model == domain.ModelUser && n.depID == depID && matchState(n, state) {
			out = append(out, id)
		}
	}
	return out, nil
}
func (f fakeUserStore) FilterValidRecipients(_ context.Context, candidates []uuid.UUID, orgID uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var out []uuid.UUID
	for _, id := range candidates {
		if seen[id] {
			continue
		}
		seen[id] = true
		n, ok := f.g.nodes[id]
		if ok && n.model == domain.ModelUser && !n.deleted && n.orgID == orgID {
			out = append(out, id)
		}
	}
	return out, nil
}
func (f fakeUserStore) WithTx(*sql.Tx) store.UserStore { return f }

type fakeTaskStore struct{ fakeStore }

func (f fakeTaskStore) Create(context.Context, *domain.Task) error { return nil }
func (f fakeTaskStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	n, ok := f.g.nodes[id]
	if !ok || n.model != domain.ModelTask {
		return nil, store.ErrTaskNotFound
	}
	return &domain.Task{ID: id, Kind: domain.TaskKindAssigned, Title: "t",
		TenantScope: domain.Tenant{OrganizationID: n.orgID}}, nil
}
func (f fakeTaskStore) Update(context.Context, *domain.Task) error { return nil }
func (f fakeTaskStore) ListIDsByOrganization(_ context.Context, orgID uuid.UUID, state store.StateFilter) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for id, n := range f.g.nodes {
		if n.model == domain.ModelTask && n.orgID == orgID && matchState(n, state) {
			out = append(out, id)
		}
	}
	return out, nil
}
func (f fakeTaskStore) ListIDsByCreators(_ context.Context, creators []uuid.UUID, state store.StateFilter) ([]uuid.UUID, error) {
	creatorSet := make(map[uuid.UUID]bool, len(creators))
	for _, c := range creators {
		creatorSet[c] = true
	}
	var out []uuid.UUID
	for id, n := range f.g.nodes {
		if n.model == domain.ModelTask && creatorSet[n.createdBy] && matchState(n, state) {
			out = append(out, id)
		}
	}
	return out, nil
}
func (f fakeTaskStore) ListActiveIDsByVendor(_ context.Context, vendorID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for id, n := range f.g.nodes {
		if n.model == domain.ModelTask && n.vendorID == vendorID && !n.deleted {
			out = append(out, id)
		}
	}
	return out, nil
}
func (f fakeTaskStore) ListDueReminders(context.Context, time.Time, time.Time) ([]*domain.Task, error) {
	return nil, nil
}

func (f fakeTaskStore) ReassignVendor(_ context.Context, from, to uuid.UUID) (int64, error) {
	var count int64
	for _, n := range f.g.nodes {
		if n.model == domain.ModelTask && n.vendorID == from && !n.deleted {
			n.vendorID = to
			count++
		}
	}
	return count, nil
}
func (f fakeTaskStore) UnlinkMaterial(_ context.Context, materialID uuid.UUID) (int64, error) {
	return f.g.setUnlinked(domain.ModelTask, materialID, true), nil
}
func (f fakeTaskStore) RelinkMaterial(_ context.Context, materialID uuid.UUID) (int64, error) {
	return f.g.setUnlinked(domain.ModelTask, materialID, false), nil
}
func (f fakeTaskStore) WithTx(*sql.Tx) store.TaskStore { return f }

func (g *graph) setUnlinked(model domain.EntityModel, materialID uuid.UUID, unlinked bool) int64 {
	var count int64
	for _, n := range g.nodes {
		if n.model != model {
			continue
		}
		for _, m := range n.materials {
			if m == materialID && n.unlinked[materialID] != unlinked {
				n.unlinked[materialID] = unlinked
				count++
			}
		}
	}
	return count
}

type fakeActivityStore struct{ fakeStore }

func (f fakeActivityStore) Create(context.Context, *domain.TaskActivity) error { return nil }
func (f fakeActivityStore) GetByID(_ context.Context, id uuid.UUID) (*domain.TaskActivity, error) {
	n, ok := f.g.nodes[id]
	if !ok || n.model != domain.ModelTaskActivity {
		return nil, store.ErrActivityNotFound
	}
	return &domain.TaskActivity{ID: id, TaskID: n.taskID}, nil
}
func (f fakeActivityStore) ListIDsByTasks(_ context.Context, taskIDs []uuid.UUID, state store.StateFilter) ([]uuid.UUID, error) {
	taskSet := make(map[uuid.UUID]bool, len(taskIDs))
	for _, id := range taskIDs {
		taskSet[id] = true
	}
	var out []uuid.UUID
	for id, n := range f.g.nodes {
		if n.model == domain.ModelTaskActivity && taskSet[n.taskID] && matchState(n, state) {
			out = append(out, id)
		}
	}
	return out, nil
}
func (f fakeActivityStore) UnlinkMaterial(_ context.Context, materialID uuid.UUID) (int64, error) {
	return f.g.setUnlinked(domain.ModelTaskActivity, materialID, true), nil
}
func (f fakeActivityStore) RelinkMaterial(_ context.Context, materialID uuid.UUID) (int64, error) {
	return f.g.setUnlinked(domain.ModelTaskActivity, materialID, false), nil
}
func (f fakeActivityStore) WithTx(*sql.Tx) store.ActivityStore { return f }

type fakeCommentStore struct{ fakeStore }

func (f fakeCommentStore) Create(context.Context, *domain.TaskComment) error { return nil }
func (f fakeCommentStore) GetByID(_ context.Context, id uuid.UUID) (*domain.TaskComment, error) {
	n, ok := f.g.nodes[id]
	if !ok || n.model != domain.ModelTaskComment {
		return nil, store.ErrCommentNotFound
	}
	return &domain.TaskComment{ID: id, ParentID: n.parent.ID, ParentModel: n.parent.Model}, nil
}
func (f fakeCommentStore) ListIDsByParents(_ context.Context, parents []domain.Ref, state store.StateFilter) ([]uuid.UUID, error) {
	if err := f.g.fail("list:comments"); err != nil {
		return nil, err
	}
	return f.g.listByParents(domain.ModelTaskComment, parents, state), nil
}
func (f fakeCommentStore) WithTx(*sql.Tx) store.CommentStore { return f }

type fakeAttachmentStore struct{ fakeStore }

func (f fakeAttachmentStore) Create(context.Context, *domain.Attachment) error { return nil }
func (f fakeAttachmentStore) ListIDsByParents(_ context.Context, parents []domain.Ref, state store.StateFilter) ([]uuid.UUID, error) {
	return f.g.listByParents(domain.ModelAttachment, parents, state), nil
}
func (f fakeAttachmentStore) WithTx(*sql.Tx) store.AttachmentStore { return f }

func (g *graph) listByParents(model domain.EntityModel, parents []domain.Ref, state store.StateFilter) []uuid.UUID {
	parentSet := make(map[domain.Ref]bool, len(parents))
	for _, p := range parents {
		parentSet[p] = true
	}
	var out []uuid.UUID
	for id, n := range g.nodes {
		if n.model == model && parentSet[n.parent] && matchState(n, state) {
			out = append(out, id)
		}
	}
	return out
}

type fakeNotificationStore struct{ fakeStore }

func (f fakeNotificationStore) Create(context.Context, *domain.Notification) error { return nil }
func (f fakeNotificationStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Notification, error) {
	return nil, store.ErrNotificationNotFound
}
func (f fakeNotificationStore) ListByRecipient(context.Context, uuid.UUID, store.Page) ([]*domain.Notification, error) {
	return nil, nil
}
func (f fakeNotificationStore) CountUnread(context.Context, uuid.UUID) (int64, error) { return 0, nil }
func (f fakeNotificationStore) AppendReadReceipt(context.Context, uuid.UUID, uuid.UUID, time.Time) error {
	return nil
}
func (f fakeNotificationStore) UpdateEmailDelivery(context.Context, uuid.UUID, domain.EmailDelivery) error {
	return nil
}
func (f fakeNotificationStore) ListIDsByEntities(_ context.Context, entities []domain.Ref, state store.StateFilter) ([]uuid.UUID, error) {
	entitySet := make(map[domain.Ref]bool, len(entities))
	for _, e := range entities {
		entitySet[e] = true
	}
	var out []uuid.UUID
	for id, n := range f.g.nodes {
		if n.model == domain.ModelNotification && n.entity != nil && entitySet[*n.entity] && matchState(n, state) {
			out = append(out, id)
		}
	}
	return out, nil
}
func (f fakeNotificationStore) WithTx(*sql.Tx) store.NotificationStore { return f }

type fakeMaterialStore struct{ fakeStore }

func (f fakeMaterialStore) Create(context.Context, *domain.Material) error { return nil }
func (f fakeMaterialStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Material, error) {
	n, ok := f.g.nodes[id]
	if !ok || n.model != domain.ModelMaterial {
		return nil, store.ErrMaterialNotFound
	}
	return &domain.Material{ID: id, OrganizationID: n.orgID}, nil
}
func (f fakeMaterialStore) WithTx(*sql.Tx) store.MaterialStore { return f }

type fakeVendorStore struct{ fakeStore }

func (f fakeVendorStore) Create(context.Context, *domain.Vendor) error { return nil }
func (f fakeVendorStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Vendor, error) {
	n, ok := f.g.nodes[id]
	if !ok || n.model != domain.ModelVendor {
		return nil, store.ErrVendorNotFound
	}
	return &domain.Vendor{ID: id, OrganizationID: n.orgID}, nil
}
func (f fakeVendorStore) WithTx(*sql.Tx) store.VendorStore { return f }

// fakeStores builds a full store bundle over one graph.
func fakeStores(g *graph) Stores {
	return Stores{
		Organizations: fakeOrgStore{fakeStore{g, domain.ModelOrganization}},
		Departments:   fakeDepStore{fakeStore{g, domain.ModelDepartment}},
		Users:         fakeUserStore{fakeStore{g, domain.ModelUser}},
		Tasks:         fakeTaskStore{fakeStore{g, domain.ModelTask}},
		Activities:    fakeActivityStore{fakeStore{g, domain.ModelTaskActivity}},
		Comments:      fakeCommentStore{fakeStore{g, domain.ModelTaskComment}},
		Attachments:   fakeAttachmentStore{fakeStore{g, domain.ModelAttachment}},
		Notifications: fakeNotificationStore{fakeStore{g, domain.ModelNotification}},
		Materials:     fakeMaterialStore{fakeStore{g, domain.ModelMaterial}},
		Vendors:       fakeVendorStore{fakeStore{g, domain.ModelVendor}},
	}
}

var errInjected = errors.New("injected store failure")
