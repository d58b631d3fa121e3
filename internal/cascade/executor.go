package cascade

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/domain"
	"github.com/girmesh03/task-manager-api/internal/platform/logger"
	"github.com/girmesh03/task-manager-api/internal/store"
)

// Direction selects which lifecycle transition a cascade applies.
type Direction int

// Cascade directions.
const (
	Delete Direction = iota
	Restore
)

// String returns the direction name for logging.
func (d Direction) String() string {
	if d == Delete {
		return "delete"
	}
	return "restore"
}

// Errors returned by the executor.
var (
	// ErrUnsupportedRoot is returned when the root entity model has no
	// cascade defined.
	ErrUnsupportedRoot = errors.New("no cascade defined for this entity model")
)

// Options carries per-call cascade variants.
type Options struct {
	// ReplacementVendor, when set on a vendor delete, rebinds all active
	// project tasks referencing the deleted vendor to this vendor instead
	// of leaving a dangling reference.
	ReplacementVendor *uuid.UUID
}

// Result reports how many entities of each kind the cascade transitioned.
// Only entities whose state actually changed are counted; dependents already
// in the target state are skipped and keep their metadata.
type Result struct {
	Organizations int
	Departments   int
	Users         int
	Tasks         int
	Activities    int
	Comments      int
	Attachments   int
	Notifications int
	Materials     int
	Vendors       int

	// TasksRebound counts project tasks moved to a replacement vendor
	// during a vendor delete.
	TasksRebound int64
	// LinksChanged counts tasks and activities whose material line items
	// were unlinked or relinked during a material cascade.
	LinksChanged int64
}

// Total returns the number of entities transitioned, the root included.
func (r Result) Total() int {
	return r.Organizations + r.Departments + r.Users + r.Tasks +
		r.Activities + r.Comments + r.Attachments + r.Notifications +
		r.Materials + r.Vendors
}

// Stores bundles every store the executor traverses.
type Stores struct {
	Organizations store.OrganizationStore
	Departments   store.DepartmentStore
	Users         store.UserStore
	Tasks         store.TaskStore
	Activities    store.ActivityStore
	Comments      store.CommentStore
	Attachments   store.AttachmentStore
	Notifications store.NotificationStore
	Materials     store.MaterialStore
	Vendors       store.VendorStore
}

// WithTx returns a copy of the bundle with every store bound to the
// transaction.
func (s Stores) WithTx(tx *sql.Tx) Stores {
	return Stores{
		Organizations: s.Organizations.WithTx(tx),
		Departments:   s.Departments.WithTx(tx),
		Users:         s.Users.WithTx(tx),
		Tasks:         s.Tasks.WithTx(tx),
		Activities:    s.Activities.WithTx(tx),
		Comments:      s.Comments.WithTx(tx),
		Attachments:   s.Attachments.WithTx(tx),
		Notifications: s.Notifications.WithTx(tx),
		Materials:     s.Materials.WithTx(tx),
		Vendors:       s.Vendors.WithTx(tx),
	}
}

// applier is the slice of a store the executor needs to flip lifecycle
// state on a set of IDs. Every entity store satisfies it.
type applier interface {
	MarkDeleted(ctx context.Context, ids []uuid.UUID, deletedAt time.Time, deletedBy uuid.UUID) ([]uuid.UUID, error)
	Restore(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

// Executor walks the ownership graph and applies lifecycle transitions.
// It holds no transaction of its own: callers bind it with WithTx inside
// store.RunInTransaction so the whole cascade shares one transaction.
type Executor struct {
	stores Stores
	logger *slog.Logger
}

// NewExecutor creates a cascade executor over the given store bundle.
func NewExecutor(stores Stores, log *slog.Logger) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{
		stores: stores,
		logger: log.With("component", "cascade_executor"),
	}
}

// WithTx returns an executor whose stores are bound to the transaction.
func (e *Executor) WithTx(tx *sql.Tx) *Executor {
	return &Executor{stores: e.stores.WithTx(tx), logger: e.logger}
}

// Execute runs the cascade for the given root in the given direction. The
// actor is stamped as deletedBy on every entity a delete transitions; the
// shared timestamp is taken once so the whole subtree carries the same
// deletedAt. Any error aborts the cascade; nothing is committed here, the
// caller owns the transaction.
func (e *Executor) Execute(ctx context.Context, root domain.Ref, direction Direction, actor domain.Actor, opts Options) (Result, error) {
	if err := root.Validate(); err != nil {
		return Result{}, err
	}
	if err := actor.Validate(); err != nil {
		return Result{}, err
	}

	log := logger.FromContextOrDefault(ctx, e.logger)
	now := time.Now().UTC()

	var (
		result Result
		err    error
	)
	switch root.Model {
	case domain.ModelTask:
		result, err = e.cascadeTaskRoot(ctx, root.ID, direction, now, actor.UserID)
	case domain.ModelOrganization:
		result, err = e.cascadeOrganization(ctx, root.ID, direction, now, actor.UserID)
	case domain.ModelDepartment:
		result, err = e.cascadeDepartment(ctx, root.ID, direction, now, actor.UserID)
	case domain.ModelMaterial:
		result, err = e.cascadeMaterial(ctx, root.ID, direction, now, actor.UserID)
	case domain.ModelVendor:
		result, err = e.cascadeVendor(ctx, root.ID, direction, now, actor.UserID, opts)
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedRoot, root.Model)
	}
	if err != nil {
		return Result{}, err
	}

	log.Info("cascade completed",
		"root_id", root.ID,
		"root_model", root.Model,
		"direction", direction.String(),
		"affected", result.Total())
	return result, nil
}

// apply flips lifecycle state on ids through the applier and returns the IDs
// actually transitioned. Dependents already in the target state are left
// untouched by the stores themselves.
func (e *Executor) apply(ctx context.Context, a applier, ids []uuid.UUID, direction Direction, at time.Time, by uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if direction == Delete {
		return a.MarkDeleted(ctx, ids, at, by)
	}
	return a.Restore(ctx, ids)
}

// cascadeTaskRoot cascades a single task and its subtree.
func (e *Executor) cascadeTaskRoot(ctx context.Context, taskID uuid.UUID, direction Direction, at time.Time, by uuid.UUID) (Result, error) {
	// The root must exist; a cascade on a missing task is a caller error.
	if _, err := e.stores.Tasks.GetByID(ctx, taskID); err != nil {
		return Result{}, err
	}
	return e.cascadeTaskSubtrees(ctx, []uuid.UUID{taskID}, direction, at, by)
}

// cascadeTaskSubtrees transitions the given tasks and everything they own:
// activities, the comment trees hanging off tasks and activities, and every
// attachment below. Roots go first on delete; on restore a dependent is only
// transitioned if it is currently soft-deleted.
func (e *Executor) cascadeTaskSubtrees(ctx context.Context, taskIDs []uuid.UUID, direction Direction, at time.Time, by uuid.UUID) (Result, error) {
	var result Result
	if len(taskIDs) == 0 {
		return result, nil
	}

	// Roots first: parent-before-child on delete, and on restore the root
	// must be active again before its dependents are.
	marked, err := e.apply(ctx, e.stores.Tasks, taskIDs, direction, at, by)
	if err != nil {
		return Result{}, fmt.Errorf("cascade tasks: %w", err)
	}
	result.Tasks = len(marked)

	// Activities. Traversal lists regardless of state so the frontier still
	// expands through dependents already in the target state; the stores
	// only transition rows the direction applies to.
	activityIDs, err := e.stores.Activities.ListIDsByTasks(ctx, taskIDs, store.StateAny)
	if err != nil {
		return Result{}, fmt.Errorf("cascade activities: list: %w", err)
	}
	marked, err = e.apply(ctx, e.stores.Activities, activityIDs, direction, at, by)
	if err != nil {
		return Result{}, fmt.Errorf("cascade activities: %w", err)
	}
	result.Activities = len(marked)

	// Comment trees under tasks and activities, walked level by level with
	// an explicit frontier. Reply depth is user-controlled; recursion here
	// would make hostile input a stack hazard.
	hosts := make([]domain.Ref, 0, len(taskIDs)+len(activityIDs))
	hosts = appendRefs(hosts, taskIDs, domain.ModelTask)
	hosts = appendRefs(hosts, activityIDs, domain.ModelTaskActivity)

	commentIDs, err := e.walkCommentTree(ctx, hosts)
	if err != nil {
		return Result{}, err
	}
	marked, err = e.apply(ctx, e.stores.Comments, commentIDs, direction, at, by)
	if err != nil {
		return Result{}, fmt.Errorf("cascade comments: %w", err)
	}
	result.Comments = len(marked)

	// Attachments are leaves: one batch over every host found above.
	attachmentHosts := appendRefs(hosts, commentIDs, domain.ModelTaskComment)
	attachmentIDs, err := e.stores.Attachments.ListIDsByParents(ctx, attachmentHosts, store.StateAny)
	if err != nil {
		return Result{}, fmt.Errorf("cascade attachments: list: %w", err)
	}
	marked, err = e.apply(ctx, e.stores.Attachments, attachmentIDs, direction, at, by)
	if err != nil {
		return Result{}, fmt.Errorf("cascade attachments: %w", err)
	}
	result.Attachments = len(marked)

	return result, nil
}

// walkCommentTree collects every comment reachable from the given hosts,
// breadth-first over the reply tree.
func (e *Executor) walkCommentTree(ctx context.Context, hosts []domain.Ref) ([]uuid.UUID, error) {
	var all []uuid.UUID
	frontier := hosts
	for len(frontier) > 0 {
		ids, err := e.stores.Comments.ListIDsByParents(ctx, frontier, store.StateAny)
		if err != nil {
			return nil, fmt.Errorf("cascade comments: walk: %w", err)
		}
		if len(ids) == 0 {
			break
		}
		all = append(all, ids...)
		frontier = appendRefs(nil, ids, domain.ModelTaskComment)
	}
	return all, nil
}

// cascadeOrganization transitions the organization and everything in it:
// departments, users, all tasks with their subtrees, and the notifications
// referencing any of the affected entities.
func (e *Executor) cascadeOrganization(ctx context.Context, orgID uuid.UUID, direction Direction, at time.Time, by uuid.UUID) (Result, error) {
	if _, err := e.stores.Organizations.GetByID(ctx, orgID); err != nil {
		return Result{}, err
	}

	var result Result
	marked, err := e.apply(ctx, e.stores.Organizations, []uuid.UUID{orgID}, direction, at, by)
	if err != nil {
		return Result{}, fmt.Errorf("cascade organization: %w", err)
	}
	result.Organizations = len(marked)

	depIDs, err := e.stores.Departments.ListIDsByOrganization(ctx, orgID, store.StateAny)
	if err != nil {
		return Result{}, fmt.Errorf("cascade departments: list: %w", err)
	}
	marked, err = e.apply(ctx, e.stores.Departments, depIDs, direction, at, by)
	if err != nil {
		return Result{}, fmt.Errorf("cascade departments: %w", err)
	}
	result.Departments = len(marked)

	userIDs, err := e.stores.Users.ListIDsByOrganization(ctx, orgID, store.StateAny)
	if err != nil {
		return Result{}, fmt.Errorf("cascade users: list: %w", err)
	}
	marked, err = e.apply(ctx, e.stores.Users, userIDs, direction, at, by)
	if err != nil {
		return Result{}, fmt.Errorf("cascade users: %w", err)
	}
	result.Users = len(marked)

	taskIDs, err := e.stores.Tasks.ListIDsByOrganization(ctx, orgID, store.StateAny)
	if err != nil {
		return Result{}, fmt.Errorf("cascade tasks: list: %w", err)
	}
	sub, err := e.cascadeTaskSubtrees(ctx, taskIDs, direction, at, by)
	if err != nil {
		return Result{}, err
	}
	result.Tasks += sub.Tasks
	result.Activities += sub.Activities
	result.Comments += sub.Comments
	result.Attachments += sub.Attachments

	// Notifications referencing anything transitioned above travel with the
	// organization.
	entityRefs := appendRefs(nil, []uuid.UUID{orgID}, domain.ModelOrganization)
	entityRefs = appendRefs(entityRefs, depIDs, domain.ModelDepartment)
	entityRefs = appendRefs(entityRefs, userIDs, domain.ModelUser)
	entityRefs = appendRefs(entityRefs, taskIDs, domain.ModelTask)

	notificationIDs, err := e.stores.Notifications.ListIDsByEntities(ctx, entityRefs, store.StateAny)
	if err != nil {
		return Result{}, fmt.Errorf("cascade notifications: list: %w", err)
	}
	marked, err = e.apply(ctx, e.stores.Notifications, notificationIDs, direction, at, by)
	if err != nil {
		return Result{}, fmt.Errorf("cascade notifications: %w", err)
	}
	result.Notifications = len(marked)

	return result, nil
}

// cascadeDepartment transitions the department, its users, and the tasks
// those users created, each with its full subtree.
func (e *Executor) cascadeDepartment(ctx context.Context, depID uuid.UUID, direction Direction, at time.Time, by uuid.UUID) (Result, error) {
	if _, err := e.stores.Departments.GetByID(ctx, depID); err != nil {
		return Result{}, err
	}

	var result Result
	marked, err := e.apply(ctx, e.stores.Departments, []uuid.UUID{depID}, direction, at, by)
	if err != nil {
		return Result{}, fmt.Errorf("cascade department: %w", err)
	}
	result.Departments = len(marked)

	userIDs, err := e.stores.Users.ListIDsByDepartment(ctx, depID, store.StateAny)
	if err != nil {
		return Result{}, fmt.Errorf("cascade users: list: %w", err)
	}
	marked, err = e.apply(ctx, e.stores.Users, userIDs, direction, at, by)
	if err != nil {
		return Result{}, fmt.Errorf("cascade users: %w", err)
	}
	result.Users = len(marked)

	if len(userIDs) > 0 {
		taskIDs, err := e.stores.Tasks.ListIDsByCreators(ctx, userIDs, store.StateAny)
		if err != nil {
			return Result{}, fmt.Errorf("cascade tasks: list: %w", err)
		}
		sub, err := e.cascadeTaskSubtrees(ctx, taskIDs, direction, at, by)
		if err != nil {
			return Result{}, err
		}
		result.Tasks += sub.Tasks
		result.Activities += sub.Activities
		result.Comments += sub.Comments
		result.Attachments += sub.Attachments
	}

	return result, nil
}

// cascadeMaterial applies the narrow material variant: the material itself
// is transitioned, and line items referencing it are unlinked on delete and
// relinked on restore. Tasks and activities are never transitioned here.
func (e *Executor) cascadeMaterial(ctx context.Context, materialID uuid.UUID, direction Direction, at time.Time, by uuid.UUID) (Result, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	var result Result
	marked, err := e.apply(ctx, e.stores.Materials, []uuid.UUID{materialID}, direction, at, by)
	if err != nil {
		return Result{}, fmt.Errorf("cascade material: %w", err)
	}
	result.Materials = len(marked)

	if direction == Delete {
		if result.Materials == 0 {
			// Nothing transitioned, nothing to unlink.
			return result, nil
		}
		taskLines, err := e.stores.Tasks.UnlinkMaterial(ctx, materialID)
		if err != nil {
			return Result{}, fmt.Errorf("unlink material from tasks: %w", err)
		}
		activityLines, err := e.stores.Activities.UnlinkMaterial(ctx, materialID)
		if err != nil {
			return Result{}, fmt.Errorf("unlink material from activities: %w", err)
		}
		result.LinksChanged = taskLines + activityLines
		return result, nil
	}

	if result.Materials == 0 {
		// Material gone or never deleted. Relink has nothing to point line
		// items at; skipping them is non-fatal per the material contract.
		log.Warn("material not found during relink, skipping line items",
			"material_id", materialID)
		return result, nil
	}
	taskLines, err := e.stores.Tasks.RelinkMaterial(ctx, materialID)
	if err != nil {
		return Result{}, fmt.Errorf("relink material on tasks: %w", err)
	}
	activityLines, err := e.stores.Activities.RelinkMaterial(ctx, materialID)
	if err != nil {
		return Result{}, fmt.Errorf("relink material on activities: %w", err)
	}
	result.LinksChanged = taskLines + activityLines
	return result, nil
}

// cascadeVendor transitions the vendor only. Project tasks referencing it
// are either rebound to a replacement vendor or keep the dangling reference;
// they are never cascaded.
func (e *Executor) cascadeVendor(ctx context.Context, vendorID uuid.UUID, direction Direction, at time.Time, by uuid.UUID, opts Options) (Result, error) {
	if _, err := e.stores.Vendors.GetByID(ctx, vendorID); err != nil {
		return Result{}, err
	}

	var result Result
	if direction == Delete && opts.ReplacementVendor != nil {
		rebound, err := e.stores.Tasks.ReassignVendor(ctx, vendorID, *opts.ReplacementVendor)
		if err != nil {
			return Result{}, fmt.Errorf("reassign vendor: %w", err)
		}
		result.TasksRebound = rebound
	}

	marked, err := e.apply(ctx, e.stores.Vendors, []uuid.UUID{vendorID}, direction, at, by)
	if err != nil {
		return Result{}, fmt.Errorf("cascade vendor: %w", err)
	}
	result.Vendors = len(marked)
	return result, nil
}

// appendRefs appends (id, model) refs for every id to dst.
func appendRefs(dst []domain.Ref, ids []uuid.UUID, model domain.EntityModel) []domain.Ref {
	for _, id := range ids {
		dst = append(dst, domain.Ref{ID: id, Model: model})
	}
	return dst
}
