package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/benvon/dayflow/internal/models"
	"github.com/benvon/dayflow/internal/notify"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// todoMatterDuration is the fixed length of a matter promoted from a todo
const todoMatterDuration = 2 * time.Hour

// todoMarkerKey encodes one (calendar date, todo) pair
func todoMarkerKey(date time.Time, todoID uuid.UUID) string {
	return fmt.Sprintf("%s_todo_%s", date.Format("20060102"), todoID)
}

// TodoMaterializer promotes due todos into concrete matters, exactly once
// per todo per day, and garbage-collects stale repeat task markers
type TodoMaterializer struct {
	todos   TodoStore
	matters MatterStore
	kv      KV
	events  EventSink
	logger  *zap.Logger
}

// NewTodoMaterializer creates a todo materializer
func NewTodoMaterializer(todos TodoStore, matters MatterStore, kv KV, events EventSink, logger *zap.Logger) *TodoMaterializer {
	return &TodoMaterializer{
		todos:   todos,
		matters: matters,
		kv:      kv,
		events:  events,
		logger:  logger,
	}
}

// MaterializeDue promotes every open todo whose start time falls on
// today's date. Returns how many matters were created. Failures are
// per-todo: one bad todo never blocks the rest.
func (m *TodoMaterializer) MaterializeDue(ctx context.Context, now time.Time) (int, error) {
	todos, err := m.todos.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list todos: %w", err)
	}

	created := 0
	for _, todo := range todos {
		if !todo.DueOn(now) {
			continue
		}

		markerKey := todoMarkerKey(now, todo.ID)
		marked, err := m.kv.Get(ctx, markerKey)
		if err != nil {
			m.logger.Warn("failed to read todo marker, skipping this tick",
				zap.String("todo_id", todo.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if marked != "" {
			continue
		}

		start := *todo.StartTime
		sourceRef := todo.ID
		matter := &models.Matter{
			ID:          uuid.New(),
			Title:       todo.Title,
			StartTime:   start,
			EndTime:     start.Add(todoMatterDuration),
			Priority:    models.PriorityMedium,
			Kind:        models.KindTodo,
			ColorHint:   models.PriorityMedium.ColorHint(),
			SourceRefID: &sourceRef,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := m.matters.Create(ctx, matter); err != nil {
			m.logger.Warn("failed to create matter for todo",
				zap.String("todo_id", todo.ID.String()),
				zap.Error(err),
			)
			continue
		}

		if err := m.kv.Set(ctx, markerKey, "created"); err != nil {
			m.logger.Warn("failed to set todo marker",
				zap.String("todo_id", todo.ID.String()),
				zap.Error(err),
			)
		}

		if m.events != nil {
			if err := m.events.PublishEvent(ctx, notify.EventScheduleChanged); err != nil {
				m.logger.Warn("failed to publish schedule change event", zap.Error(err))
			}
		}

		created++
		m.logger.Info("materialized todo",
			zap.String("todo_id", todo.ID.String()),
			zap.String("matter_id", matter.ID.String()),
		)
	}

	return created, nil
}

// PruneMarkers deletes repeat task markers whose encoded date precedes
// today. Garbage collection only: a leftover marker is harmless for
// correctness but grows the store without bound.
func (m *TodoMaterializer) PruneMarkers(ctx context.Context, now time.Time) (int, error) {
	keys, err := m.kv.Keys(ctx, repeatTaskMarkerPrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to scan markers: %w", err)
	}

	today, _ := dayBounds(now)
	pruned := 0
	for _, key := range keys {
		idx := strings.LastIndex(key, "_")
		if idx == -1 {
			continue
		}
		markerDate, err := time.ParseInLocation("2006-01-02", key[idx+1:], now.Location())
		if err != nil {
			continue
		}
		if !markerDate.Before(today) {
			continue
		}
		if err := m.kv.Delete(ctx, key); err != nil {
			m.logger.Warn("failed to delete stale marker",
				zap.String("key", key),
				zap.Error(err),
			)
			continue
		}
		pruned++
	}

	if pruned > 0 {
		m.logger.Info("pruned stale repeat task markers", zap.Int("count", pruned))
	}
	return pruned, nil
}
