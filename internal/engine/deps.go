// Package engine decides, tick by tick, whether repeat tasks and due
// todos must be materialized into today's schedule and whether the user
// should receive a notification.
package engine

import (
	"context"
	"time"

	"github.com/benvon/dayflow/internal/database"
	"github.com/benvon/dayflow/internal/models"
	"github.com/benvon/dayflow/internal/services/ai"
)

// MatterStore is the matter storage surface the engine consumes
type MatterStore interface {
	Create(ctx context.Context, matter *models.Matter) error
	GetByRange(ctx context.Context, start, end time.Time) ([]*models.Matter, error)
}

// RepeatTaskStore is the repeat task storage surface the engine consumes
type RepeatTaskStore interface {
	ListActive(ctx context.Context) ([]*models.RepeatTask, error)
}

// TodoStore is the todo storage surface the engine consumes
type TodoStore interface {
	List(ctx context.Context) ([]*models.Todo, error)
}

// KV is the key-value surface backing idempotency markers and debounce
// timestamps. Get returns "" for absent keys.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// HolidayOracle answers whether a calendar date is a public holiday
type HolidayOracle interface {
	IsHoliday(date time.Time) bool
}

// ReminderComposer produces one AI-composed reminder from a schedule digest
type ReminderComposer interface {
	Compose(ctx context.Context, basePrompt string, rc ai.ReminderContext) (*ai.Reminder, error)
}

// EventSink receives data-change events when materialization alters the schedule
type EventSink interface {
	PublishEvent(ctx context.Context, name string) error
}

// The database repositories satisfy the storage surfaces
var (
	_ MatterStore     = (*database.MatterRepository)(nil)
	_ RepeatTaskStore = (*database.RepeatTaskRepository)(nil)
	_ TodoStore       = (*database.TodoRepository)(nil)
)

// dayBounds returns the start of the date's calendar day and its last second
func dayBounds(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 0, date.Location())
	return start, end
}
