package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskPriority_Order(t *testing.T) {
	assert.Equal(t, 1, TaskPriorityHigh.Order())
	assert.Equal(t, 2, TaskPriorityMedium.Order())
	assert.Equal(t, 3, TaskPriorityLow.Order())
	assert.Equal(t, 4, TaskPriority("urgent").Order())
}

func TestTaskStatus_IsCompleted(t *testing.T) {
	assert.True(t, TaskStatusCompleted.IsCompleted())
	assert.True(t, TaskStatusDone.IsCompleted(), "legacy done records count as completed")
	assert.False(t, TaskStatusTodo.IsCompleted())
	assert.False(t, TaskStatusInProgress.IsCompleted())
	assert.False(t, TaskStatusBlocked.IsCompleted())
}

func TestTask_Derive(t *testing.T) {
	task := &Task{
		Title:          "Ship the release",
		Priority:       TaskPriorityHigh,
		PriorityNumber: 3,
	}
	task.Derive()

	assert.Equal(t, 1, task.PriorityOrder)
	assert.Equal(t, "HIGH #3: Ship the release", task.DisplayName)
}

func TestRecord_Timestamps(t *testing.T) {
	var r Record
	r.InitTimestamps()

	assert.False(t, r.CreatedAt.IsZero())
	assert.Equal(t, r.CreatedAt, r.UpdatedAt)

	time.Sleep(time.Millisecond)
	r.Touch()
	assert.True(t, r.UpdatedAt.After(r.CreatedAt))
}
