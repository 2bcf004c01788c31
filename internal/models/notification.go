package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind classifies a notification intent
type NotificationKind string

const (
	// NotificationTaskStart fires shortly before a matter starts
	NotificationTaskStart NotificationKind = "task_start"
	// NotificationTaskEnd fires shortly before a matter ends
	NotificationTaskEnd NotificationKind = "task_end"
	// NotificationNoTask fires when nothing is planned or running
	NotificationNoTask NotificationKind = "no_task"
	// NotificationNewTask fires after repeat tasks were materialized
	NotificationNewTask NotificationKind = "new_task"
	// NotificationAIReminder carries an AI-composed reminder
	NotificationAIReminder NotificationKind = "ai_reminder"
)

// Notification is a transient notification intent. The engine produces
// intents; persistence and rendering belong to the delivery side.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Kind      NotificationKind `json:"kind"`
}

// NewNotification builds an intent stamped with the given time
func NewNotification(title, message string, kind NotificationKind, now time.Time) Notification {
	return Notification{
		ID:        uuid.New(),
		Title:     title,
		Message:   message,
		Timestamp: now,
		Kind:      kind,
	}
}
