package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/cascade"
	"github.com/girmesh03/task-manager-api/internal/domain"
	"github.com/girmesh03/task-manager-api/internal/notify"
	"github.com/girmesh03/task-manager-api/internal/platform/logger"
	"github.com/girmesh03/task-manager-api/internal/store"
)

// CommandOptions controls which channels a command fans out over and lets
// the caller force an explicit recipient list past the resolver rules.
type CommandOptions struct {
	WithEmail          bool
	WithRealtime       bool
	ExplicitRecipients []uuid.UUID
}

// Command describes one business event to fan out: what happened, to which
// resource, by whom.
type Command struct {
	Action   domain.ActionType
	Resource any
	Actor    domain.Actor
	Options  CommandOptions
}

// LifecycleService runs soft-delete and restore cascades and the
// notification fan-out they produce. Every cascade operation opens one
// transaction covering the cascade and the notification write; channel
// delivery happens only after the transaction commits.
type LifecycleService struct {
	db            *sql.DB
	executor      *cascade.Executor
	resolver      *notify.Resolver
	notifications *notify.Service
	dispatcher    *notify.Dispatcher
	stores        cascade.Stores
	logger        *slog.Logger
}

// NewLifecycleService creates the cascade orchestration service.
func NewLifecycleService(
	db *sql.DB,
	executor *cascade.Executor,
	resolver *notify.Resolver,
	notifications *notify.Service,
	dispatcher *notify.Dispatcher,
	stores cascade.Stores,
	log *slog.Logger,
) *LifecycleService {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &LifecycleService{
		db:            db,
		executor:      executor,
		resolver:      resolver,
		notifications: notifications,
		dispatcher:    dispatcher,
		stores:        stores,
		logger:        log.With(slog.String("component", "lifecycle_service")),
	}
}

// Dispatch runs the notification pipeline for one business event: resolve
// recipients, persist the notification in its own transaction, then fan out
// over the channels the options select. A zero valid recipient set commits
// nothing and returns (nil, nil).
func (s *LifecycleService) Dispatch(ctx context.Context, cmd Command) (*domain.Notification, error) {
	if err := cmd.Actor.Validate(); err != nil {
		return nil, err
	}

	candidates, err := s.resolver.Resolve(ctx, cmd.Action, cmd.Resource, cmd.Actor.UserID, cmd.Options.ExplicitRecipients)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		logger.FromContextOrDefault(ctx, s.logger).Debug("no candidates resolved, skipping notification",
			slog.String("action", string(cmd.Action)))
		return nil, nil
	}

	title, message := describeAction(cmd.Action, cmd.Resource)
	input := notify.PersistInput{
		Action:     cmd.Action,
		Title:      title,
		Message:    message,
		Entity:     resourceRef(cmd.Resource),
		Candidates: candidates,
		Tenant:     resourceTenant(cmd.Resource, cmd.Actor),
		Actor:      cmd.Actor,
	}

	var n *domain.Notification
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var txErr error
		n, txErr = s.notifications.WithTx(tx).Persist(ctx, input)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(ctx, n, notify.DispatchOptions{
		WithRealtime: cmd.Options.WithRealtime,
		WithEmail:    cmd.Options.WithEmail,
	})
	return n, nil
}

// DeleteTask soft-deletes a task and everything under it, notifying the
// task's assignees and watchers.
func (s *LifecycleService) DeleteTask(ctx context.Context, taskID uuid.UUID, actor domain.Actor, opts CommandOptions) (cascade.Result, error) {
	return s.taskCascade(ctx, taskID, cascade.Delete, domain.ActionTaskDeleted, actor, opts)
}

// RestoreTask restores a soft-deleted task and everything currently
// soft-deleted under it.
func (s *LifecycleService) RestoreTask(ctx context.Context, taskID uuid.UUID, actor domain.Actor, opts CommandOptions) (cascade.Result, error) {
	return s.taskCascade(ctx, taskID, cascade.Restore, domain.ActionTaskRestored, actor, opts)
}

func (s *LifecycleService) taskCascade(
	ctx context.Context,
	taskID uuid.UUID,
	direction cascade.Direction,
	action domain.ActionType,
	actor domain.Actor,
	opts CommandOptions,
) (cascade.Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.stores.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return cascade.Result{}, err
	}
	if task.TenantScope.OrganizationID != actor.OrganizationID {
		return cascade.Result{}, ErrForbidden
	}

	candidates, err := s.resolver.Resolve(ctx, action, task, actor.UserID, opts.ExplicitRecipients)
	if err != nil {
		return cascade.Result{}, err
	}
	title, message := describeAction(action, task)

	var (
		result cascade.Result
		n      *domain.Notification
	)
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		result, err = s.executor.WithTx(tx).Execute(ctx,
			domain.Ref{ID: taskID, Model: domain.ModelTask}, direction, actor, cascade.Options{})
		if err != nil {
			return err
		}
		n, err = s.notifications.WithTx(tx).Persist(ctx, notify.PersistInput{
			Action:     action,
			Title:      title,
			Message:    message,
			Entity:     &domain.Ref{ID: taskID, Model: domain.ModelTask},
			Candidates: candidates,
			Tenant:     task.TenantScope,
			Actor:      actor,
		})
		return err
	})
	if err != nil {
		return cascade.Result{}, err
	}

	log.Info("task cascade committed",
		slog.String("task_id", taskID.String()),
		slog.String("direction", direction.String()),
		slog.Int("entities", result.Total()))

	s.dispatcher.Dispatch(ctx, n, notify.DispatchOptions{
		WithRealtime: opts.WithRealtime,
		WithEmail:    opts.WithEmail,
	})
	return result, nil
}

// DeleteOrganization soft-deletes an organization and its whole subtree.
// No notification is produced: the recipients it would address are being
// deleted in the same cascade.
func (s *LifecycleService) DeleteOrganization(ctx context.Context, orgID uuid.UUID, actor domain.Actor) (cascade.Result, error) {
	return s.plainCascade(ctx, domain.Ref{ID: orgID, Model: domain.ModelOrganization}, cascade.Delete, actor, cascade.Options{},
		func() error { return s.authorizeOrg(orgID, actor) })
}

// RestoreOrganization restores an organization and everything currently
// soft-deleted under it.
func (s *LifecycleService) RestoreOrganization(ctx context.Context, orgID uuid.UUID, actor domain.Actor) (cascade.Result, error) {
	return s.plainCascade(ctx, domain.Ref{ID: orgID, Model: domain.ModelOrganization}, cascade.Restore, actor, cascade.Options{},
		func() error { return s.authorizeOrg(orgID, actor) })
}

// DeleteDepartment soft-deletes a department, its members and the tasks its
// members created.
func (s *LifecycleService) DeleteDepartment(ctx context.Context, depID uuid.UUID, actor domain.Actor) (cascade.Result, error) {
	return s.plainCascade(ctx, domain.Ref{ID: depID, Model: domain.ModelDepartment}, cascade.Delete, actor, cascade.Options{},
		func() error { return s.authorizeDepartment(ctx, depID, actor) })
}

// RestoreDepartment restores a soft-deleted department subtree.
func (s *LifecycleService) RestoreDepartment(ctx context.Context, depID uuid.UUID, actor domain.Actor) (cascade.Result, error) {
	return s.plainCascade(ctx, domain.Ref{ID: depID, Model: domain.ModelDepartment}, cascade.Restore, actor, cascade.Options{},
		func() error { return s.authorizeDepartment(ctx, depID, actor) })
}

// DeleteMaterial soft-deletes a material and unlinks its line items from
// tasks and activities without deleting them.
func (s *LifecycleService) DeleteMaterial(ctx context.Context, materialID uuid.UUID, actor domain.Actor) (cascade.Result, error) {
	return s.plainCascade(ctx, domain.Ref{ID: materialID, Model: domain.ModelMaterial}, cascade.Delete, actor, cascade.Options{},
		func() error { return s.authorizeMaterial(ctx, materialID, actor) })
}

// RestoreMaterial restores a material and relinks its line items.
func (s *LifecycleService) RestoreMaterial(ctx context.Context, materialID uuid.UUID, actor domain.Actor) (cascade.Result, error) {
	return s.plainCascade(ctx, domain.Ref{ID: materialID, Model: domain.ModelMaterial}, cascade.Restore, actor, cascade.Options{},
		func() error { return s.authorizeMaterial(ctx, materialID, actor) })
}

// DeleteVendor soft-deletes a vendor. When replacement is non-nil, active
// project tasks referencing the vendor are rebound to the replacement
// inside the same transaction.
func (s *LifecycleService) DeleteVendor(ctx context.Context, vendorID uuid.UUID, replacement *uuid.UUID, actor domain.Actor) (cascade.Result, error) {
	return s.plainCascade(ctx, domain.Ref{ID: vendorID, Model: domain.ModelVendor}, cascade.Delete, actor,
		cascade.Options{ReplacementVendor: replacement},
		func() error { return s.authorizeVendor(ctx, vendorID, actor) })
}

// RestoreVendor restores a soft-deleted vendor. Tasks rebound during the
// delete keep their replacement vendor.
func (s *LifecycleService) RestoreVendor(ctx context.Context, vendorID uuid.UUID, actor domain.Actor) (cascade.Result, error) {
	return s.plainCascade(ctx, domain.Ref{ID: vendorID, Model: domain.ModelVendor}, cascade.Restore, actor, cascade.Options{},
		func() error { return s.authorizeVendor(ctx, vendorID, actor) })
}

func (s *LifecycleService) plainCascade(
	ctx context.Context,
	root domain.Ref,
	direction cascade.Direction,
	actor domain.Actor,
	opts cascade.Options,
	authorize func() error,
) (cascade.Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := actor.Validate(); err != nil {
		return cascade.Result{}, err
	}
	if err := authorize(); err != nil {
		return cascade.Result{}, err
	}

	var result cascade.Result
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var txErr error
		result, txErr = s.executor.WithTx(tx).Execute(ctx, root, direction, actor, opts)
		return txErr
	})
	if err != nil {
		return cascade.Result{}, err
	}

	log.Info("cascade committed",
		slog.String("root_id", root.ID.String()),
		slog.String("root_model", string(root.Model)),
		slog.String("direction", direction.String()),
		slog.Int("entities", result.Total()))
	return result, nil
}

func (s *LifecycleService) authorizeOrg(orgID uuid.UUID, actor domain.Actor) error {
	if actor.OrganizationID != orgID {
		return ErrForbidden
	}
	return nil
}

func (s *LifecycleService) authorizeDepartment(ctx context.Context, depID uuid.UUID, actor domain.Actor) error {
	dep, err := s.stores.Departments.GetByID(ctx, depID)
	if err != nil {
		return err
	}
	if dep.OrganizationID != actor.OrganizationID {
		return ErrForbidden
	}
	return nil
}

func (s *LifecycleService) authorizeMaterial(ctx context.Context, materialID uuid.UUID, actor domain.Actor) error {
	material, err := s.stores.Materials.GetByID(ctx, materialID)
	if err != nil {
		return err
	}
	if material.OrganizationID != actor.OrganizationID {
		return ErrForbidden
	}
	return nil
}

func (s *LifecycleService) authorizeVendor(ctx context.Context, vendorID uuid.UUID, actor domain.Actor) error {
	vendor, err := s.stores.Vendors.GetByID(ctx, vendorID)
	if err != nil {
		return err
	}
	if vendor.OrganizationID != actor.OrganizationID {
		return ErrForbidden
	}
	return nil
}

// describeAction builds the persisted title and message for an action.
func describeAction(action domain.ActionType, resource any) (string, string) {
	subject := "item"
	switch r := resource.(type) {
	case *domain.Task:
		subject = fmt.Sprintf("task %q", r.Title)
	case *domain.TaskActivity:
		subject = fmt.Sprintf("activity %q", r.Title)
	case *domain.TaskComment:
		subject = "a comment"
	}

	switch action {
	case domain.ActionTaskCreated:
		return "Task created", fmt.Sprintf("A new %s was created", subject)
	case domain.ActionTaskAssigned:
		return "Task assigned", fmt.Sprintf("You were assigned to %s", subject)
	case domain.ActionTaskUpdated:
		return "Task updated", fmt.Sprintf("%s was updated", subject)
	case domain.ActionTaskCompleted:
		return "Task completed", fmt.Sprintf("%s was completed", subject)
	case domain.ActionTaskDeleted:
		return "Task deleted", fmt.Sprintf("%s was deleted", subject)
	case domain.ActionTaskRestored:
		return "Task restored", fmt.Sprintf("%s was restored", subject)
	case domain.ActionTaskReminder:
		return "Task reminder", fmt.Sprintf("Reminder: %s is due", subject)
	case domain.ActionActivityCreated:
		return "Activity added", fmt.Sprintf("%s was added", subject)
	case domain.ActionActivityUpdated:
		return "Activity updated", fmt.Sprintf("%s was updated", subject)
	case domain.ActionActivityDeleted:
		return "Activity removed", fmt.Sprintf("%s was removed", subject)
	case domain.ActionCommentAdded:
		return "New comment", "You were mentioned in a new comment"
	case domain.ActionCommentUpdated:
		return "Comment updated", "A comment mentioning you was updated"
	case domain.ActionMention:
		return "You were mentioned", "Someone mentioned you"
	case domain.ActionAnnouncement:
		return "Announcement", "A new announcement was published"
	default:
		return string(action), ""
	}
}

// resourceRef extracts the entity reference a notification points back to.
func resourceRef(resource any) *domain.Ref {
	switch r := resource.(type) {
	case *domain.Task:
		return &domain.Ref{ID: r.ID, Model: domain.ModelTask}
	case *domain.TaskActivity:
		return &domain.Ref{ID: r.ID, Model: domain.ModelTaskActivity}
	case *domain.TaskComment:
		return &domain.Ref{ID: r.ID, Model: domain.ModelTaskComment}
	default:
		return nil
	}
}

// resourceTenant prefers the resource's tenant scope over the actor's so
// recipient validation runs against the organization that owns the
// resource.
func resourceTenant(resource any, actor domain.Actor) domain.Tenant {
	switch r := resource.(type) {
	case *domain.Task:
		return r.TenantScope
	case *domain.TaskActivity:
		return r.TenantScope
	case *domain.TaskComment:
		return r.TenantScope
	default:
		return domain.Tenant{OrganizationID: actor.OrganizationID, DepartmentID: actor.DepartmentID}
	}
}
