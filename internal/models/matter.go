package models

import (
	"time"

	"github.com/google/uuid"
)

// Priority represents how important a matter or repeat task is
type Priority int

const (
	PriorityLow    Priority = -1
	PriorityMedium Priority = 0
	PriorityHigh   Priority = 1
)

// ColorHint returns the calendar color conventionally attached to a priority
func (p Priority) ColorHint() string {
	switch p {
	case PriorityHigh:
		return "red"
	case PriorityMedium:
		return "blue"
	default:
		return "green"
	}
}

// MatterKind distinguishes how a matter was created
type MatterKind int

const (
	// KindPlain is a matter the user created directly
	KindPlain MatterKind = 0
	// KindRepeat is a matter materialized from a repeat task
	KindRepeat MatterKind = 1
	// KindTodo is a matter materialized from a due todo
	KindTodo MatterKind = 2
)

// Matter is a concrete, time-bounded entry on the user's schedule
type Matter struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Tags        string     `json:"tags,omitempty"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     time.Time  `json:"end_time"`
	Priority    Priority   `json:"priority"`
	Kind        MatterKind `json:"kind"`
	ColorHint   string     `json:"color_hint,omitempty"`
	SourceRefID *uuid.UUID `json:"source_ref_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// InProgressAt reports whether the matter is running at the given instant
func (m *Matter) InProgressAt(now time.Time) bool {
	return !now.Before(m.StartTime) && !now.After(m.EndTime)
}
