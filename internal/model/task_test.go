package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTask() TaskItem {
	return NewTaskItem("Test Task", "list-1", "Test Notes", false, PriorityLow, nil, nil)
}

func TestNewTaskItem_StartsPending(t *testing.T) {
	task := newTestTask()

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "list-1", task.ListID)
	assert.False(t, task.IsCompleted)
	assert.Nil(t, task.CompletionDate)
	assert.NotEqual(t, task.ID, newTestTask().ID)
}

func TestTaskItem_Edit(t *testing.T) {
	task := newTestTask()
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)

	task.Edit("Updated Task", "Updated Notes", &date, nil, true, "medium")

	assert.Equal(t, "Updated Task", task.Title)
	assert.Equal(t, "Updated Notes", task.Notes)
	assert.True(t, task.HasFlag)
	assert.Equal(t, PriorityMedium, task.Priority)
	require.NotNil(t, task.Date)
	assert.True(t, task.Date.Equal(date))
	assert.Nil(t, task.Time)
}

func TestTaskItem_EditUnknownPriorityFallsBack(t *testing.T) {
	task := newTestTask()

	task.Edit("t", "", nil, nil, false, "urgent")

	assert.Equal(t, PriorityWhenever, task.Priority)
}

func TestTaskItem_ToggleCompletionIsItsOwnInverse(t *testing.T) {
	task := newTestTask()

	task.ToggleCompletion()
	assert.True(t, task.IsCompleted)
	assert.Nil(t, task.CompletionDate, "toggling to completed does not stamp a date")

	task.ToggleCompletion()
	assert.False(t, task.IsCompleted)
	assert.Nil(t, task.CompletionDate)
}

func TestTaskItem_ToggleCompletionClearsDate(t *testing.T) {
	task := newTestTask()
	task.SetCompletionDate(time.Now())
	require.NotNil(t, task.CompletionDate)

	task.ToggleCompletion()

	assert.False(t, task.IsCompleted)
	assert.Nil(t, task.CompletionDate)
}

func TestTaskItem_SetCompletionDate(t *testing.T) {
	for _, completed := range []bool{false, true} {
		task := newTestTask()
		task.IsCompleted = completed
		now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

		task.SetCompletionDate(now)

		assert.True(t, task.IsCompleted)
		require.NotNil(t, task.CompletionDate)
		assert.True(t, task.CompletionDate.Equal(now))
	}
}

func TestTaskItem_ToggleFlag(t *testing.T) {
	task := newTestTask()

	task.ToggleFlag()
	assert.True(t, task.HasFlag)

	task.ToggleFlag()
	assert.False(t, task.HasFlag)
}

func TestTaskItem_ScheduledAt(t *testing.T) {
	day := time.Date(2026, 5, 7, 0, 0, 0, 0, time.Local)
	tod := time.Date(0, 1, 1, 17, 45, 0, 0, time.Local)

	tests := []struct {
		name   string
		date   *time.Time
		tod    *time.Time
		want   time.Time
		wantOK bool
	}{
		{name: "no date", wantOK: false},
		{name: "date only", date: &day, want: time.Date(2026, 5, 7, 9, 0, 0, 0, time.Local), wantOK: true},
		{name: "date and time", date: &day, tod: &tod, want: time.Date(2026, 5, 7, 17, 45, 0, 0, time.Local), wantOK: true},
		{name: "time without date", tod: &tod, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := newTestTask()
			task.Date, task.Time = tt.date, tt.tod

			got, ok := task.ScheduledAt()

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
			}
		})
	}
}

func TestTaskItem_IsOverdue(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.Local)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	task := newTestTask()
	assert.False(t, task.IsOverdue(now), "undated tasks are never overdue")

	task.Date = &yesterday
	assert.True(t, task.IsOverdue(now))

	task.IsCompleted = true
	assert.False(t, task.IsOverdue(now))

	task.IsCompleted = false
	task.Date = &tomorrow
	assert.False(t, task.IsOverdue(now))
}
