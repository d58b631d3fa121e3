package notify

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/girmesh03/task-manager-api/internal/domain"
	"github.com/girmesh03/task-manager-api/internal/store"
)

func TestResolve_TaskActions(t *testing.T) {
	actor := uuid.New()
	assignee := uuid.New()
	watcher := uuid.New()
	creator := uuid.New()

	task := &domain.Task{
		ID:        uuid.New(),
		Kind:      domain.TaskKindAssigned,
		Assignees: []uuid.UUID{assignee, actor},
		Watchers:  []uuid.UUID{watcher},
		Lifecycle: domain.Lifecycle{CreatedBy: creator},
	}

	resolver := NewResolver(newFakeTasks(), nil)
	ctx := context.Background()

	tests := []struct {
		action domain.ActionType
		want   []uuid.UUID
	}{
		{domain.ActionTaskCreated, []uuid.UUID{assignee}},
		{domain.ActionTaskAssigned, []uuid.UUID{assignee}},
		{domain.ActionTaskUpdated, []uuid.UUID{watcher}},
		{domain.ActionTaskCompleted, []uuid.UUID{creator, watcher}},
		{domain.ActionTaskDeleted, []uuid.UUID{assignee, watcher}},
		{domain.ActionTaskRestored, []uuid.UUID{assignee, watcher}},
	}
	for _, tc := range tests {
		t.Run(string(tc.action), func(t *testing.T) {
			got, err := resolver.Resolve(ctx, tc.action, task, actor, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got, "actor must be excluded")
		})
	}
}

func TestResolve_ActivityLooksUpParentTask(t *testing.T) {
	actor := uuid.New()
	assignee := uuid.New()

	task := &domain.Task{
		ID:        uuid.New(),
		Kind:      domain.TaskKindAssigned,
		Assignees: []uuid.UUID{assignee},
	}
	activity := &domain.TaskActivity{ID: uuid.New(), TaskID: task.ID}

	resolver := NewResolver(newFakeTasks(task), nil)

	got, err := resolver.Resolve(context.Background(), domain.ActionActivityCreated, activity, actor, nil)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{assignee}, got)
}

func TestResolve_ActivityParentMissing(t *testing.T) {
	activity := &domain.TaskActivity{ID: uuid.New(), TaskID: uuid.New()}
	resolver := NewResolver(newFakeTasks(), nil)

	_, err := resolver.Resolve(context.Background(), domain.ActionActivityUpdated, activity, uuid.New(), nil)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestResolve_CommentMentions(t *testing.T) {
	actor := uuid.New()
	mentioned := uuid.New()
	comment := &domain.TaskComment{
		ID:       uuid.New(),
		Mentions: []uuid.UUID{mentioned, actor, mentioned},
	}

	resolver := NewResolver(newFakeTasks(), nil)

	for _, action := range []domain.ActionType{domain.ActionCommentAdded, domain.ActionCommentUpdated, domain.ActionMention} {
		got, err := resolver.Resolve(context.Background(), action, comment, actor, nil)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{mentioned}, got, "deduplicated, actor excluded")
	}
}

func TestResolve_AnnouncementUsesExplicitList(t *testing.T) {
	actor := uuid.New()
	a, b := uuid.New(), uuid.New()

	resolver := NewResolver(newFakeTasks(), nil)

	got, err := resolver.Resolve(context.Background(), domain.ActionAnnouncement, nil, actor, []uuid.UUID{a, actor, b, a})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, got)
}

func TestResolve_UnknownActionIsEmptyNotFatal(t *testing.T) {
	resolver := NewResolver(newFakeTasks(), nil)

	got, err := resolver.Resolve(context.Background(), domain.ActionType("SURPRISE"), nil, uuid.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolve_ResourceMismatch(t *testing.T) {
	resolver := NewResolver(newFakeTasks(), nil)

	_, err := resolver.Resolve(context.Background(), domain.ActionTaskCreated, "not a task", uuid.New(), nil)
	assert.ErrorIs(t, err, ErrResourceMismatch)

	_, err = resolver.Resolve(context.Background(), domain.ActionActivityCreated, &domain.Task{}, uuid.New(), nil)
	assert.ErrorIs(t, err, ErrResourceMismatch)
}
