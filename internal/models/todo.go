package models

import (
	"time"

	"github.com/google/uuid"
)

// TodoStatus represents the status of a todo
type TodoStatus string

const (
	TodoStatusTodo       TodoStatus = "todo"
	TodoStatusInProgress TodoStatus = "in_progress"
	TodoStatusCompleted  TodoStatus = "completed"
)

// Todo represents a plain todo item. A todo with status "todo" and a start
// time on the current date is eligible for promotion into a matter.
type Todo struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Status    TodoStatus `json:"status"`
	StartTime *time.Time `json:"start_time,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// DueOn reports whether the todo is open and scheduled to start on the
// given calendar date
func (t *Todo) DueOn(date time.Time) bool {
	if t.Status != TodoStatusTodo || t.StartTime == nil {
		return false
	}
	y1, m1, d1 := t.StartTime.Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
