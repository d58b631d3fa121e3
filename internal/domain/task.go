package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskKind discriminates the three task variants. Shared fields live on Task
// itself; kind-specific fields are only meaningful for the matching kind.
type TaskKind string

// Task kind discriminator values.
const (
	TaskKindAssigned TaskKind = "assigned"
	TaskKindProject  TaskKind = "project"
	TaskKindRoutine  TaskKind = "routine"
)

// TaskStatus represents the workflow state of a task.
type TaskStatus string

// Possible task status values.
const (
	TaskStatusToDo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusPending    TaskStatus = "pending"
)

// TaskPriority represents the urgency of a task.
type TaskPriority string

// Possible task priority values.
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// MaxCostHistoryEntries caps the append-only cost history of a project task.
// Once the cap is reached the oldest entries are dropped.
const MaxCostHistoryEntries = 50

// Common validation errors for Task.
var (
	ErrEmptyTaskID       = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle    = errors.New("task title cannot be empty")
	ErrInvalidTaskKind   = errors.New("invalid task kind")
	ErrInvalidTaskStatus = errors.New("invalid task status")
	ErrKindFieldMismatch = errors.New("field not valid for this task kind")
)

// CostEntry is one append-only record in a project task's cost history.
// Every cost or currency mutation appends exactly one entry per changed
// field, attributed to the actor who made the change.
type CostEntry struct {
	Field     string    `json:"field"` // "cost" or "currency"
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	ChangedBy uuid.UUID `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

// MaterialLine is one material usage line item on a routine task or activity.
// Unlinked marks lines whose material has been soft-deleted; restoring the
// material clears the flag, so the line survives the round trip intact.
type MaterialLine struct {
	MaterialID uuid.UUID `json:"material_id"`
	Quantity   float64   `json:"quantity"`
	Unit       string    `json:"unit"`
	Unlinked   bool      `json:"unlinked,omitempty"`
}

// Task is the polymorphic root of the cascade graph. It owns attachments and
// task-level comments directly, and activities for the assigned and project
// kinds.
type Task struct {
	ID           uuid.UUID    `json:"id"`
	Kind         TaskKind     `json:"kind"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Status       TaskStatus   `json:"status"`
	Priority     TaskPriority `json:"priority"`
	Watchers     []uuid.UUID  `json:"watchers,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	TenantScope  Tenant       `json:"tenant"`

	// Assigned kind only.
	Assignees []uuid.UUID `json:"assignees,omitempty"`

	// Project kind only.
	VendorID    *uuid.UUID  `json:"vendor_id,omitempty"`
	Cost        string      `json:"cost,omitempty"`
	Currency    string      `json:"currency,omitempty"`
	CostHistory []CostEntry `json:"cost_history,omitempty"`

	// Routine kind only.
	Date      *time.Time     `json:"date,omitempty"`
	Materials []MaterialLine `json:"materials,omitempty"`

	Lifecycle
}

// NewTask creates a new Task of the given kind with sensible defaults.
func NewTask(kind TaskKind, title string, tenant Tenant, createdBy uuid.UUID) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		Kind:        kind,
		Title:       title,
		Status:      TaskStatusToDo,
		Priority:    TaskPriorityMedium,
		TenantScope: tenant,
		Lifecycle:   NewLifecycle(createdBy),
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Validate checks if the Task has valid data, including that kind-specific
// fields are only set on the matching kind.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.Title == "" {
		return ErrEmptyTaskTitle
	}
	if !isValidTaskKind(t.Kind) {
		return ErrInvalidTaskKind
	}
	if !isValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}
	if err := t.TenantScope.Validate(); err != nil {
		return err
	}
	if t.Kind != TaskKindAssigned && len(t.Assignees) > 0 {
		return ErrKindFieldMismatch
	}
	if t.Kind != TaskKindProject && (t.VendorID != nil || len(t.CostHistory) > 0) {
		return ErrKindFieldMismatch
	}
	if t.Kind != TaskKindRoutine && (t.Date != nil || len(t.Materials) > 0) {
		return ErrKindFieldMismatch
	}
	return nil
}

// SupportsActivities reports whether this task kind owns activities.
// Routine tasks do not.
func (t *Task) SupportsActivities() bool {
	return t.Kind == TaskKindAssigned || t.Kind == TaskKindProject
}

// SetCost updates a project task's cost, appending one attributed entry to
// the cost history. Returns ErrKindFieldMismatch for non-project tasks.
func (t *Task) SetCost(cost string, actor uuid.UUID) error {
	if t.Kind != TaskKindProject {
		return ErrKindFieldMismatch
	}
	if cost == t.Cost {
		return nil
	}
	t.appendCostEntry(CostEntry{
		Field:     "cost",
		OldValue:  t.Cost,
		NewValue:  cost,
		ChangedBy: actor,
		ChangedAt: time.Now().UTC(),
	})
	t.Cost = cost
	return nil
}

// SetCurrency updates a project task's currency, appending one attributed
// entry to the cost history. Returns ErrKindFieldMismatch for non-project
// tasks.
func (t *Task) SetCurrency(currency string, actor uuid.UUID) error {
	if t.Kind != TaskKindProject {
		return ErrKindFieldMismatch
	}
	if currency == t.Currency {
		return nil
	}
	t.appendCostEntry(CostEntry{
		Field:     "currency",
		OldValue:  t.Currency,
		NewValue:  currency,
		ChangedBy: actor,
		ChangedAt: time.Now().UTC(),
	})
	t.Currency = currency
	return nil
}

// appendCostEntry appends an entry, dropping the oldest beyond the cap.
func (t *Task) appendCostEntry(entry CostEntry) {
	t.CostHistory = append(t.CostHistory, entry)
	if len(t.CostHistory) > MaxCostHistoryEntries {
		t.CostHistory = t.CostHistory[len(t.CostHistory)-MaxCostHistoryEntries:]
	}
}

// isValidTaskKind checks if the given kind is a valid TaskKind.
func isValidTaskKind(kind TaskKind) bool {
	switch kind {
	case TaskKindAssigned, TaskKindProject, TaskKindRoutine:
		return true
	default:
		return false
	}
}

// isValidTaskStatus checks if the given status is a valid TaskStatus.
func isValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusToDo, TaskStatusInProgress, TaskStatusCompleted, TaskStatusPending:
		return true
	default:
		return false
	}
}
