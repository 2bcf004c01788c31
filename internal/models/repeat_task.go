package models

import (
	"time"

	"github.com/google/uuid"
)

// RepeatTaskStatus represents whether a repeat task generates matters
type RepeatTaskStatus string

const (
	RepeatTaskStatusActive   RepeatTaskStatus = "active"
	RepeatTaskStatusInactive RepeatTaskStatus = "inactive"
)

// RepeatTask is a template for generating one matter per scheduled day.
// RepeatTime is a compact spec string "bits|HH:MM|HH:MM": bits 0-6 select
// Sunday..Saturday, bit 7 excludes holidays, and the two times bound the
// generated matter within the day.
type RepeatTask struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Tags        string           `json:"tags,omitempty"`
	Description string           `json:"description,omitempty"`
	Priority    Priority         `json:"priority"`
	Status      RepeatTaskStatus `json:"status"`
	RepeatTime  string           `json:"repeat_time"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
