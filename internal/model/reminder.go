package model

import "time"

// Reminder is a persisted local alert for a task.
type Reminder struct {
	TaskID    string    `json:"task_id" db:"task_id"`
	Title     string    `json:"title" db:"title"`
	Notes     string    `json:"notes" db:"notes"`
	FireAt    time.Time `json:"fire_at" db:"fire_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
