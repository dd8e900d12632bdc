package taskform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskmate/internal/model"
	"github.com/nhle/taskmate/internal/viewstate"
)

func TestParseValues(t *testing.T) {
	v := ParseValues("  Call mom ", "note", "2026-10-20", "18:45", true, model.PriorityHigh)

	assert.Equal(t, "Call mom", v.Title)
	assert.Equal(t, "note", v.Notes)
	assert.True(t, v.Flag)
	assert.Equal(t, model.PriorityHigh, v.Priority)

	require.NotNil(t, v.Date)
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, time.Local), *v.Date)
	require.NotNil(t, v.Time)
	assert.Equal(t, 18, v.Time.Hour())
	assert.Equal(t, 45, v.Time.Minute())
}

func TestParseValuesDropsTimeWithoutDate(t *testing.T) {
	v := ParseValues("x", "", "", "09:00", false, model.PriorityWhenever)

	assert.Nil(t, v.Date)
	assert.Nil(t, v.Time)
}

func TestParseValuesInvalidFields(t *testing.T) {
	v := ParseValues("x", "", "20-10-2026", "late", false, "urgent")

	assert.Nil(t, v.Date)
	assert.Nil(t, v.Time)
	assert.Equal(t, model.PriorityWhenever, v.Priority)
}

func TestBindingsFor(t *testing.T) {
	date := time.Date(2026, 10, 20, 0, 0, 0, 0, time.Local)
	tod := time.Date(0, 1, 1, 7, 5, 0, 0, time.Local)
	task := model.NewTaskItem("Run", "l", "5k", true, model.PriorityMedium, &date, &tod)

	fb := bindingsFor(task)

	assert.Equal(t, "Run", fb.title)
	assert.Equal(t, "5k", fb.notes)
	assert.Equal(t, "2026-10-20", fb.date)
	assert.Equal(t, "07:05", fb.time)
	assert.True(t, fb.flag)
	assert.Equal(t, model.PriorityMedium, fb.priority)
}

func TestSubmitEmitsMessages(t *testing.T) {
	m := New(80, 24)
	list := viewstate.NewListState(model.NewListItem("Home", model.DefaultColor, ""), viewstate.Env{})
	t.Cleanup(list.Close)

	m.StartCreate(list)
	m.fb.title = "Water plants"
	created, ok := m.handleSubmit()().(TaskCreatedMsg)
	require.True(t, ok)
	assert.Same(t, list, created.List)
	assert.Equal(t, "Water plants", created.Values.Title)

	task := viewstate.NewTaskState(model.NewTaskItem("Old", list.List.ID, "", false, "", nil, nil), viewstate.Env{})
	m.StartEdit(task)
	assert.Equal(t, "Old", m.fb.title)
	assert.Equal(t, model.PriorityWhenever, m.fb.priority)

	m.fb.title = "New"
	updated, ok := m.handleSubmit()().(TaskUpdatedMsg)
	require.True(t, ok)
	assert.Same(t, task, updated.Task)
	assert.Equal(t, "New", updated.Values.Title)
	assert.Contains(t, m.View(), "Edit Task")
}

func TestValidators(t *testing.T) {
	assert.Error(t, validateRequired("Title")("  "))
	assert.NoError(t, validateRequired("Title")("ok"))

	date := validateOptional(DateLayout, "YYYY-MM-DD")
	assert.NoError(t, date(""))
	assert.NoError(t, date("2026-01-31"))
	assert.EqualError(t, date("31/01/2026"), "invalid format, use YYYY-MM-DD")
}
