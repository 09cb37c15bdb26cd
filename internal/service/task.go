package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/daydeskapp/daydesk-server/internal/domain"
	domainerrors "github.com/daydeskapp/daydesk-server/internal/errors"
	"github.com/daydeskapp/daydesk-server/internal/id"
	"github.com/daydeskapp/daydesk-server/internal/normalize"
	"github.com/daydeskapp/daydesk-server/internal/store"
)

// TaskService manages owner-scoped tasks.
type TaskService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewTaskService creates a new task service.
func NewTaskService(store *store.Store, logger *slog.Logger) *TaskService {
	return &TaskService{
		store:  store,
		logger: logger,
	}
}

// CreateTaskRequest contains new task data.
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	Status      string     `json:"status" validate:"omitempty,oneof=todo in-progress in-review blocked completed"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Category    string     `json:"category" validate:"max=100"`
	ProjectID   string     `json:"projectId" validate:"omitempty,max=100"`
	WorkspaceID string     `json:"workspaceId" validate:"omitempty,max=100"`
}

// UpdateTaskRequest contains partial task updates. Nil fields are left
// untouched.
type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Status      *string    `json:"status,omitempty" validate:"omitempty,oneof=todo in-progress in-review blocked completed"`
	Priority    *string    `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Category    *string    `json:"category,omitempty" validate:"omitempty,max=100"`
	ProjectID   *string    `json:"projectId,omitempty" validate:"omitempty,max=100"`
	WorkspaceID *string    `json:"workspaceId,omitempty" validate:"omitempty,max=100"`
}

// TaskListQuery narrows and orders a task listing. Zero values mean "no
// filter". ProjectID accepts the literal string "null" to select tasks
// that belong to no project at all.
type TaskListQuery struct {
	Status      string `json:"status" validate:"omitempty,oneof=todo in-progress in-review blocked completed"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Category    string `json:"category" validate:"omitempty,max=100"`
	ProjectID   string `json:"projectId" validate:"omitempty,max=100"`
	WorkspaceID string `json:"workspaceId" validate:"omitempty,max=100"`
	Search      string `json:"search" validate:"omitempty,max=100"`
	SortBy      string `json:"sortBy" validate:"omitempty,oneof=title dueDate createdAt priority status category"`
	SortOrder   string `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// ListTasks returns the owner's tasks after filtering and sorting.
func (s *TaskService) ListTasks(ctx context.Context, ownerID string, query TaskListQuery) ([]*domain.Task, error) {
	if err := validate.Validate(query); err != nil {
		return nil, err
	}

	tasks := make([]*domain.Task, 0)
	for task, err := range s.store.Tasks.ListScoped(ctx, "owner", ownerID) {
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		if !matchesTaskQuery(task, query) {
			continue
		}
		tasks = append(tasks, task)
	}

	sortTasks(tasks, query.SortBy, query.SortOrder)
	return tasks, nil
}

func matchesTaskQuery(task *domain.Task, query TaskListQuery) bool {
	if query.Status != "" && string(task.Status) != query.Status {
		return false
	}
	if query.Priority != "" && string(task.Priority) != query.Priority {
		return false
	}
	if query.Category != "" && task.Category != query.Category {
		return false
	}
	if query.WorkspaceID != "" && task.WorkspaceID != query.WorkspaceID {
		return false
	}
	switch query.ProjectID {
	case "":
	case "null":
		// The client sends the literal string "null" to request tasks
		// that are not assigned to any project.
		if task.ProjectID != "" {
			return false
		}
	default:
		if task.ProjectID != query.ProjectID {
			return false
		}
	}
	if query.Search != "" {
		if !normalize.ContainsFold(task.Title, query.Search) &&
			!normalize.ContainsFold(task.Description, query.Search) {
			return false
		}
	}
	return true
}

// sortTasks orders tasks in place. Without an explicit sortBy the list
// is ranked by priority (high first) and then by the stable per-priority
// number. Missing due dates sort last regardless of direction.
func sortTasks(tasks []*domain.Task, sortBy, sortOrder string) {
	desc := strings.EqualFold(sortOrder, "desc")

	less := func(a, b *domain.Task) bool {
		if a.PriorityOrder != b.PriorityOrder {
			return a.PriorityOrder < b.PriorityOrder
		}
		return a.PriorityNumber < b.PriorityNumber
	}

	switch sortBy {
	case "title":
		less = func(a, b *domain.Task) bool {
			return compareOrdered(normalize.Fold(a.Title) < normalize.Fold(b.Title), desc)
		}
	case "dueDate":
		sort.SliceStable(tasks, func(i, j int) bool {
			a, b := tasks[i].DueDate, tasks[j].DueDate
			switch {
			case a == nil && b == nil:
				return false
			case a == nil:
				return false
			case b == nil:
				return true
			}
			return compareOrdered(a.Before(*b), desc)
		})
		return
	case "createdAt":
		less = func(a, b *domain.Task) bool {
			return compareOrdered(a.CreatedAt.Before(b.CreatedAt), desc)
		}
	case "priority":
		less = func(a, b *domain.Task) bool {
			return compareOrdered(a.PriorityOrder < b.PriorityOrder, desc)
		}
	case "status":
		less = func(a, b *domain.Task) bool {
			return compareOrdered(string(a.Status) < string(b.Status), desc)
		}
	case "category":
		less = func(a, b *domain.Task) bool {
			return compareOrdered(normalize.Fold(a.Category) < normalize.Fold(b.Category), desc)
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return less(tasks[i], tasks[j])
	})
}

// compareOrdered flips an ascending comparison when descending order is
// requested.
func compareOrdered(ascLess, desc bool) bool {
	if desc {
		return !ascLess
	}
	return ascLess
}

// GetTask returns one of the owner's tasks.
func (s *TaskService) GetTask(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	task, err := s.store.Tasks.Get(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("task not found")
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task.OwnerID != ownerID {
		return nil, domainerrors.Forbidden("you do not have access to this task")
	}
	return task, nil
}

// CreateTask creates a task for the owner. The per-priority number is
// one past the count of the owner's existing tasks at the same
// priority, giving labels like "HIGH #3: Ship the release".
func (s *TaskService) CreateTask(ctx context.Context, ownerID string, req CreateTaskRequest) (*domain.Task, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	status := domain.TaskStatus(req.Status)
	if status == "" {
		status = domain.TaskStatusTodo
	}
	priority := domain.TaskPriority(req.Priority)
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}
	category := req.Category
	if category == "" {
		category = domain.DefaultTaskCategory
	}

	samePriority, err := s.countTasksAtPriority(ctx, ownerID, priority)
	if err != nil {
		return nil, err
	}

	taskID, err := id.Generate("task")
	if err != nil {
		return nil, fmt.Errorf("generate task ID: %w", err)
	}

	task := &domain.Task{
		Record: domain.Record{
			ID: taskID,
		},
		Title:          req.Title,
		Description:    req.Description,
		Status:         status,
		Priority:       priority,
		DueDate:        req.DueDate,
		Category:       category,
		OwnerID:        ownerID,
		ProjectID:      req.ProjectID,
		WorkspaceID:    req.WorkspaceID,
		PriorityNumber: samePriority + 1,
	}
	task.Derive()
	task.InitTimestamps()

	if err := s.store.Tasks.Create(ctx, task.ID, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.logger.Info("Task created",
		"task_id", task.ID,
		"owner_id", ownerID,
		"priority", task.Priority,
	)
	return task, nil
}

func (s *TaskService) countTasksAtPriority(ctx context.Context, ownerID string, priority domain.TaskPriority) (int, error) {
	count := 0
	for task, err := range s.store.Tasks.ListScoped(ctx, "owner", ownerID) {
		if err != nil {
			return 0, fmt.Errorf("count tasks: %w", err)
		}
		if task.Priority == priority {
			count++
		}
	}
	return count, nil
}

// UpdateTask applies partial updates to one of the owner's tasks.
// Changing the priority re-derives the display label but keeps the
// original per-priority number.
func (s *TaskService) UpdateTask(ctx context.Context, ownerID, taskID string, req UpdateTaskRequest) (*domain.Task, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	task, err := s.GetTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = domain.TaskStatus(*req.Status)
	}
	if req.Priority != nil {
		task.Priority = domain.TaskPriority(*req.Priority)
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Category != nil {
		task.Category = *req.Category
	}
	if req.ProjectID != nil {
		task.ProjectID = *req.ProjectID
	}
	if req.WorkspaceID != nil {
		task.WorkspaceID = *req.WorkspaceID
	}

	task.Derive()
	task.Touch()

	if err := s.store.Tasks.Update(ctx, taskID, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// DeleteTask removes one of the owner's tasks.
func (s *TaskService) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	if _, err := s.GetTask(ctx, ownerID, taskID); err != nil {
		return err
	}
	if err := s.store.Tasks.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	s.logger.Info("Task deleted", "task_id", taskID, "owner_id", ownerID)
	return nil
}

// TaskStats summarizes the owner's tasks. Records still carrying the
// legacy "done" status count toward completed.
func (s *TaskService) TaskStats(ctx context.Context, ownerID string) (*domain.TaskStats, error) {
	stats := &domain.TaskStats{
		ByStatus: map[string]int{
			string(domain.TaskStatusTodo):       0,
			string(domain.TaskStatusInProgress): 0,
			string(domain.TaskStatusInReview):   0,
			string(domain.TaskStatusBlocked):    0,
			string(domain.TaskStatusCompleted):  0,
		},
		ByPriority: map[string]int{
			string(domain.TaskPriorityLow):    0,
			string(domain.TaskPriorityMedium): 0,
			string(domain.TaskPriorityHigh):   0,
		},
	}

	for task, err := range s.store.Tasks.ListScoped(ctx, "owner", ownerID) {
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		stats.Total++
		if task.Status.IsCompleted() {
			stats.ByStatus[string(domain.TaskStatusCompleted)]++
		} else {
			stats.ByStatus[string(task.Status)]++
		}
		stats.ByPriority[string(task.Priority)]++
	}

	return stats, nil
}
