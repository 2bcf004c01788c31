// Package notify delivers notification intents and data-change events to
// the out-of-process delivery side (tray UI, desktop notifier) over a
// message broker.
package notify

import (
	"context"
	"time"

	"github.com/benvon/dayflow/internal/models"
)

// Event names published alongside notifications
const (
	// EventScheduleChanged signals that matters were created outside a
	// direct user action and views should reload
	EventScheduleChanged = "schedule_changed"
)

// Event is a lightweight data-change signal
type Event struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher is the interface for notification transports
type Publisher interface {
	// PublishNotification delivers one notification intent
	PublishNotification(ctx context.Context, notification models.Notification) error

	// PublishEvent delivers a data-change event
	PublishEvent(ctx context.Context, name string) error

	// Close closes the transport connection
	Close() error

	// HealthCheck verifies the transport connection is healthy
	HealthCheck(ctx context.Context) error
}
