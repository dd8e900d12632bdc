package store

import (
	"strings"
	"time"

	"github.com/nhle/taskmate/internal/model"
)

type assignment struct {
	column string
	value  any
}

// ListUpdate changes one or more list columns. Build values with the
// SetList* constructors.
type ListUpdate struct {
	set []assignment
}

// TaskUpdate changes one or more task columns. Build values with the
// SetTask* constructors.
type TaskUpdate struct {
	set []assignment
}

// SetListTitle renames the list.
func SetListTitle(title string) ListUpdate {
	return ListUpdate{set: []assignment{{"title", title}}}
}

// SetListColor stores c as #RRGGBBAA.
func SetListColor(c model.Color) ListUpdate {
	return ListUpdate{set: []assignment{{"color", c.Hex()}}}
}

// SetListImage sets the list icon.
func SetListImage(image string) ListUpdate {
	return ListUpdate{set: []assignment{{"image", image}}}
}

// SetTaskTitle renames the task.
func SetTaskTitle(title string) TaskUpdate {
	return TaskUpdate{set: []assignment{{"title", title}}}
}

// SetTaskNotes replaces the notes.
func SetTaskNotes(notes string) TaskUpdate {
	return TaskUpdate{set: []assignment{{"notes", notes}}}
}

// SetTaskDate sets or, with nil, clears the scheduled day.
func SetTaskDate(date *time.Time) TaskUpdate {
	return TaskUpdate{set: []assignment{{"due_date", nullableTime(date)}}}
}

// SetTaskTime sets or, with nil, clears the scheduled time of day.
func SetTaskTime(tod *time.Time) TaskUpdate {
	return TaskUpdate{set: []assignment{{"due_time", nullableTime(tod)}}}
}

// SetTaskFlag sets or clears the flag.
func SetTaskFlag(flag bool) TaskUpdate {
	return TaskUpdate{set: []assignment{{"has_flag", flag}}}
}

// SetTaskPriority stores p, with unknown values written as whenever.
func SetTaskPriority(p model.Priority) TaskUpdate {
	return TaskUpdate{set: []assignment{{"priority", string(model.PriorityOrDefault(string(p)))}}}
}

// SetTaskCompletion writes the completion flag together with its date.
// A pending task always gets a NULL completion date.
func SetTaskCompletion(completed bool, at *time.Time) TaskUpdate {
	if !completed {
		at = nil
	}
	return TaskUpdate{set: []assignment{
		{"is_completed", completed},
		{"completion_date", nullableTime(at)},
	}}
}

// buildUpdate renders "UPDATE table SET a = ?, b = ? WHERE id = ?".
// Later assignments to the same column replace earlier ones.
func buildUpdate(table string, groups [][]assignment, id string) (string, []any) {
	var (
		order  []string
		values = map[string]any{}
	)
	for _, g := range groups {
		for _, a := range g {
			if _, seen := values[a.column]; !seen {
				order = append(order, a.column)
			}
			values[a.column] = a.value
		}
	}
	if len(order) == 0 {
		return "", nil
	}

	sets := make([]string, 0, len(order))
	args := make([]any, 0, len(order)+1)
	for _, col := range order {
		sets = append(sets, col+" = ?")
		args = append(args, values[col])
	}
	args = append(args, id)

	return "UPDATE " + table + " SET " + strings.Join(sets, ", ") + " WHERE id = ?", args
}

// nullableTime maps nil to SQL NULL and normalizes to UTC.
func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
