package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/domain"
	"github.com/girmesh03/task-manager-api/internal/platform/logger"
	"github.com/girmesh03/task-manager-api/internal/store"
)

// ErrResourceMismatch is returned when the resource passed to Resolve does
// not carry the fields the action's recipient rule reads.
var ErrResourceMismatch = errors.New("resource type does not match action")

// Resolver computes the candidate recipient set for one action. The actor
// is always excluded; the result is deduplicated but NOT yet validated
// against tenant membership or lifecycle state, that is the persistence
// step's job.
type Resolver struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

// NewResolver creates a resolver. The task store is needed for activity
// actions, whose recipients live on the parent task.
func NewResolver(tasks store.TaskStore, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{tasks: tasks, logger: log.With("component", "recipient_resolver")}
}

// Resolve applies the per-action recipient rule. Explicit recipients are
// only consulted for announcements, where they replace the rule table
// entirely. Unknown action types resolve to an empty set and are logged.
func (r *Resolver) Resolve(ctx context.Context, action domain.ActionType, resource any, actorID uuid.UUID, explicit []uuid.UUID) ([]uuid.UUID, error) {
	var candidates []uuid.UUID

	switch action {
	case domain.ActionTaskCreated, domain.ActionTaskAssigned:
		task, err := asTask(resource)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", action, err)
		}
		candidates = task.Assignees

	case domain.ActionTaskUpdated:
		task, err := asTask(resource)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", action, err)
		}
		candidates = task.Watchers

	case domain.ActionTaskCompleted:
		task, err := asTask(resource)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", action, err)
		}
		candidates = append([]uuid.UUID{task.CreatedBy}, task.Watchers...)

	case domain.ActionTaskDeleted, domain.ActionTaskRestored, domain.ActionTaskReminder:
		task, err := asTask(resource)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", action, err)
		}
		candidates = append(append([]uuid.UUID{}, task.Assignees...), task.Watchers...)

	case domain.ActionActivityCreated, domain.ActionActivityUpdated, domain.ActionActivityDeleted:
		activity, ok := resource.(*domain.TaskActivity)
		if !ok {
			return nil, fmt.Errorf("%s: %w", action, ErrResourceMismatch)
		}
		// Recipients live on the parent task, never embedded on the
		// activity.
		task, err := r.tasks.GetByID(ctx, activity.TaskID)
		if err != nil {
			return nil, fmt.Errorf("%s: load parent task: %w", action, err)
		}
		candidates = task.Assignees

	case domain.ActionCommentAdded, domain.ActionCommentUpdated, domain.ActionMention:
		comment, ok := resource.(*domain.TaskComment)
		if !ok {
			return nil, fmt.Errorf("%s: %w", action, ErrResourceMismatch)
		}
		candidates = comment.Mentions

	case domain.ActionAnnouncement:
		candidates = explicit

	default:
		logger.FromContextOrDefault(ctx, r.logger).Warn("unknown action type, resolving to empty recipient set",
			"action", action)
		return nil, nil
	}

	return dedupe(candidates, actorID), nil
}

func asTask(resource any) (*domain.Task, error) {
	task, ok := resource.(*domain.Task)
	if !ok {
		return nil, ErrResourceMismatch
	}
	return task, nil
}

// dedupe removes duplicates and the actor, preserving first-seen order.
func dedupe(ids []uuid.UUID, actorID uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	var out []uuid.UUID
	for _, id := range ids {
		if id == uuid.Nil || id == actorID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
