package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daydeskapp/daydesk-server/internal/domain"
	domainerrors "github.com/daydeskapp/daydesk-server/internal/errors"
)

func setupTaskTest(t *testing.T) *TaskService {
	t.Helper()
	return NewTaskService(newTestStore(t), testLogger())
}

func mustCreateTask(t *testing.T, svc *TaskService, ownerID string, req CreateTaskRequest) *domain.Task {
	t.Helper()

	task, err := svc.CreateTask(context.Background(), ownerID, req)
	require.NoError(t, err)
	return task
}

func TestTaskService_Create_Defaults(t *testing.T) {
	svc := setupTaskTest(t)

	task := mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "Write report"})

	assert.Equal(t, domain.TaskStatusTodo, task.Status)
	assert.Equal(t, domain.TaskPriorityMedium, task.Priority)
	assert.Equal(t, "General", task.Category)
	assert.Equal(t, 1, task.PriorityNumber)
	assert.Equal(t, 2, task.PriorityOrder)
	assert.Equal(t, "MEDIUM #1: Write report", task.DisplayName)
}

func TestTaskService_Create_PriorityNumbering(t *testing.T) {
	svc := setupTaskTest(t)

	first := mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "a", Priority: "high"})
	second := mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "b", Priority: "high"})
	other := mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "c", Priority: "low"})

	assert.Equal(t, 1, first.PriorityNumber)
	assert.Equal(t, 2, second.PriorityNumber)
	// The low queue numbers independently of the high queue.
	assert.Equal(t, 1, other.PriorityNumber)
	assert.Equal(t, "HIGH #2: b", second.DisplayName)

	// Another owner's tasks never affect the count.
	foreign := mustCreateTask(t, svc, "user-2", CreateTaskRequest{Title: "d", Priority: "high"})
	assert.Equal(t, 1, foreign.PriorityNumber)
}

func TestTaskService_Create_Validation(t *testing.T) {
	svc := setupTaskTest(t)

	_, err := svc.CreateTask(context.Background(), "user-1", CreateTaskRequest{})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.CreateTask(context.Background(), "user-1", CreateTaskRequest{
		Title:  "x",
		Status: "someday",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestTaskService_Get_OwnerIsolation(t *testing.T) {
	svc := setupTaskTest(t)
	task := mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "private"})

	_, err := svc.GetTask(context.Background(), "user-2", task.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = svc.GetTask(context.Background(), "user-1", "task-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestTaskService_List_Filters(t *testing.T) {
	svc := setupTaskTest(t)
	ctx := context.Background()

	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "alpha", Status: "todo", Priority: "high", Category: "Work"})
	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "beta", Status: "completed", Priority: "low"})
	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "gamma", Status: "todo", ProjectID: "proj-1"})
	mustCreateTask(t, svc, "user-2", CreateTaskRequest{Title: "other owner"})

	tasks, err := svc.ListTasks(ctx, "user-1", TaskListQuery{})
	require.NoError(t, err)
	assert.Len(t, tasks, 3)

	tasks, err = svc.ListTasks(ctx, "user-1", TaskListQuery{Status: "todo"})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	tasks, err = svc.ListTasks(ctx, "user-1", TaskListQuery{Priority: "high"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "alpha", tasks[0].Title)

	tasks, err = svc.ListTasks(ctx, "user-1", TaskListQuery{Category: "Work"})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	tasks, err = svc.ListTasks(ctx, "user-1", TaskListQuery{ProjectID: "proj-1"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "gamma", tasks[0].Title)

	// The literal string "null" selects tasks without any project.
	tasks, err = svc.ListTasks(ctx, "user-1", TaskListQuery{ProjectID: "null"})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestTaskService_List_FilterByWorkspace(t *testing.T) {
	svc := setupTaskTest(t)
	ctx := context.Background()

	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "deploy", WorkspaceID: "ws-a"})
	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "review", WorkspaceID: "ws-a"})
	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "invoice", WorkspaceID: "ws-b"})
	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "no workspace"})

	tasks, err := svc.ListTasks(ctx, "user-1", TaskListQuery{WorkspaceID: "ws-a"})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.Equal(t, "ws-a", task.WorkspaceID)
	}

	// Without the filter everything comes back.
	tasks, err = svc.ListTasks(ctx, "user-1", TaskListQuery{})
	require.NoError(t, err)
	assert.Len(t, tasks, 4)
}

func TestTaskService_List_RejectsUnknownSortField(t *testing.T) {
	svc := setupTaskTest(t)
	ctx := context.Background()

	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "a"})

	_, err := svc.ListTasks(ctx, "user-1", TaskListQuery{SortBy: "ownerId"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.ListTasks(ctx, "user-1", TaskListQuery{SortOrder: "sideways"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.ListTasks(ctx, "user-1", TaskListQuery{Status: "someday"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestTaskService_List_Search(t *testing.T) {
	svc := setupTaskTest(t)
	ctx := context.Background()

	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "Quarterly Report"})
	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "Standup", Description: "discuss the report draft"})
	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "Groceries"})

	tasks, err := svc.ListTasks(ctx, "user-1", TaskListQuery{Search: "REPORT"})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestTaskService_List_DefaultSort(t *testing.T) {
	svc := setupTaskTest(t)
	ctx := context.Background()

	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "low", Priority: "low"})
	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "high-2", Priority: "high"})
	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "medium", Priority: "medium"})

	// high-2 was created first, so it holds the lower number within
	// the high bucket and sorts ahead of high-1.
	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "high-1", Priority: "high"})

	tasks, err := svc.ListTasks(ctx, "user-1", TaskListQuery{})
	require.NoError(t, err)
	require.Len(t, tasks, 4)
	assert.Equal(t, "high-2", tasks[0].Title)
	assert.Equal(t, "high-1", tasks[1].Title)
	assert.Equal(t, "medium", tasks[2].Title)
	assert.Equal(t, "low", tasks[3].Title)
}

func TestTaskService_List_SortByDueDateNullsLast(t *testing.T) {
	svc := setupTaskTest(t)
	ctx := context.Background()

	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "no due date"})
	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "late", DueDate: &late})
	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "early", DueDate: &early})

	tasks, err := svc.ListTasks(ctx, "user-1", TaskListQuery{SortBy: "dueDate"})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "early", tasks[0].Title)
	assert.Equal(t, "late", tasks[1].Title)
	assert.Equal(t, "no due date", tasks[2].Title)

	// Descending flips the dated tasks but still leaves the undated one last.
	tasks, err = svc.ListTasks(ctx, "user-1", TaskListQuery{SortBy: "dueDate", SortOrder: "desc"})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "late", tasks[0].Title)
	assert.Equal(t, "early", tasks[1].Title)
	assert.Equal(t, "no due date", tasks[2].Title)
}

func TestTaskService_List_SortByTitle(t *testing.T) {
	svc := setupTaskTest(t)
	ctx := context.Background()

	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "banana"})
	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "Apple"})
	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "cherry"})

	tasks, err := svc.ListTasks(ctx, "user-1", TaskListQuery{SortBy: "title"})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "Apple", tasks[0].Title)
	assert.Equal(t, "banana", tasks[1].Title)
	assert.Equal(t, "cherry", tasks[2].Title)
}

func TestTaskService_Update_Partial(t *testing.T) {
	svc := setupTaskTest(t)
	task := mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "draft", Priority: "low"})

	status := "in-progress"
	updated, err := svc.UpdateTask(context.Background(), "user-1", task.ID, UpdateTaskRequest{
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, updated.Status)
	// Everything not named in the request is untouched.
	assert.Equal(t, "draft", updated.Title)
	assert.Equal(t, domain.TaskPriorityLow, updated.Priority)
}

func TestTaskService_Update_PriorityRederivesLabel(t *testing.T) {
	svc := setupTaskTest(t)
	task := mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "draft", Priority: "low"})

	priority := "high"
	updated, err := svc.UpdateTask(context.Background(), "user-1", task.ID, UpdateTaskRequest{
		Priority: &priority,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.PriorityOrder)
	assert.Equal(t, "HIGH #1: draft", updated.DisplayName)
}

func TestTaskService_Update_WrongOwner(t *testing.T) {
	svc := setupTaskTest(t)
	task := mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "private"})

	title := "stolen"
	_, err := svc.UpdateTask(context.Background(), "user-2", task.ID, UpdateTaskRequest{Title: &title})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestTaskService_Delete(t *testing.T) {
	svc := setupTaskTest(t)
	task := mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "done with this"})

	require.NoError(t, svc.DeleteTask(context.Background(), "user-1", task.ID))

	_, err := svc.GetTask(context.Background(), "user-1", task.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestTaskService_Stats(t *testing.T) {
	svc := setupTaskTest(t)
	ctx := context.Background()

	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "a", Status: "todo", Priority: "high"})
	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "b", Status: "completed", Priority: "low"})
	mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "c", Status: "in-progress"})
	mustCreateTask(t, svc, "user-2", CreateTaskRequest{Title: "someone else's"})

	stats, err := svc.TaskStats(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.ByStatus["todo"])
	assert.Equal(t, 1, stats.ByStatus["completed"])
	assert.Equal(t, 1, stats.ByStatus["in-progress"])
	assert.Equal(t, 0, stats.ByStatus["blocked"])
	assert.Equal(t, 1, stats.ByPriority["high"])
	assert.Equal(t, 1, stats.ByPriority["medium"])
	assert.Equal(t, 1, stats.ByPriority["low"])
}

func TestTaskService_Stats_LegacyDoneCountsAsCompleted(t *testing.T) {
	svc := setupTaskTest(t)
	ctx := context.Background()

	task := mustCreateTask(t, svc, "user-1", CreateTaskRequest{Title: "old record"})
	// Simulate a record written before "done" was renamed.
	task.Status = domain.TaskStatusDone
	require.NoError(t, svc.store.Tasks.Update(ctx, task.ID, task))

	stats, err := svc.TaskStats(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ByStatus["completed"])
	assert.NotContains(t, stats.ByStatus, "done")
}
