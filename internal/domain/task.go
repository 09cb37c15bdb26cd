package domain

import (
	"fmt"
	"strings"
	"time"
)

// TaskStatus represents the workflow state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusInReview   TaskStatus = "in-review"
	TaskStatusBlocked    TaskStatus = "blocked"
	TaskStatusCompleted  TaskStatus = "completed"

	// TaskStatusDone is a legacy value still present in older records.
	// It is never written by new code but counts as completed.
	TaskStatusDone TaskStatus = "done"
)

// IsCompleted reports whether the status counts as completed,
// including the legacy "done" value.
func (s TaskStatus) IsCompleted() bool {
	return s == TaskStatusCompleted || s == TaskStatusDone
}

// TaskPriority represents the urgency of a task.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Order returns the sort rank of the priority: high=1, medium=2, low=3.
// Unknown priorities sort after everything else.
func (p TaskPriority) Order() int {
	switch p {
	case TaskPriorityHigh:
		return 1
	case TaskPriorityMedium:
		return 2
	case TaskPriorityLow:
		return 3
	default:
		return 4
	}
}

// DefaultTaskCategory is assigned when a task is created without one.
const DefaultTaskCategory = "General"

// Task is an owner-scoped work item.
type Task struct {
	Record
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	Category    string       `json:"category"`
	OwnerID     string       `json:"ownerId"`
	ProjectID   string       `json:"projectId,omitempty"`
	WorkspaceID string       `json:"workspaceId,omitempty"`

	// PriorityNumber is the 1-based position within the owner's tasks of the
	// same priority at creation time. It is assigned once and never reflows
	// when other tasks are deleted.
	PriorityNumber int `json:"priorityNumber"`
	// PriorityOrder is the derived rank of Priority (high=1, medium=2, low=3).
	PriorityOrder int `json:"priorityOrder"`
	// DisplayName is a derived label like "HIGH #3: Ship the release".
	DisplayName string `json:"displayName"`
}

// Derive fills in PriorityOrder and DisplayName from the current
// Priority, PriorityNumber and Title.
func (t *Task) Derive() {
	t.PriorityOrder = t.Priority.Order()
	t.DisplayName = fmt.Sprintf("%s #%d: %s", strings.ToUpper(string(t.Priority)), t.PriorityNumber, t.Title)
}

// TaskStats summarizes an owner's tasks by status and priority.
type TaskStats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"byStatus"`
	ByPriority map[string]int `json:"byPriority"`
}
