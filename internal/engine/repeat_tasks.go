package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/benvon/dayflow/internal/models"
	"github.com/benvon/dayflow/internal/repeattime"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const repeatTaskMarkerPrefix = "repeat_task_"

// repeatTaskMarkerKey encodes one (repeat task, calendar date) pair
func repeatTaskMarkerKey(taskID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("%s%s_%s", repeatTaskMarkerPrefix, taskID, date.Format("2006-01-02"))
}

// RepeatTaskMaterializer creates today's matter for each repeat task that
// is scheduled for today and has not been materialized yet
type RepeatTaskMaterializer struct {
	repeatTasks RepeatTaskStore
	matters     MatterStore
	kv          KV
	holidays    HolidayOracle
	logger      *zap.Logger
}

// NewRepeatTaskMaterializer creates a repeat task materializer
func NewRepeatTaskMaterializer(
	repeatTasks RepeatTaskStore,
	matters MatterStore,
	kv KV,
	holidays HolidayOracle,
	logger *zap.Logger,
) *RepeatTaskMaterializer {
	return &RepeatTaskMaterializer{
		repeatTasks: repeatTasks,
		matters:     matters,
		kv:          kv,
		holidays:    holidays,
		logger:      logger,
	}
}

// MaterializeDue walks the active repeat tasks and creates today's matter
// for each one that is due. existing is today's matter list, used as the
// first duplicate defense; the KV marker is the second, covering races
// where a created matter is not yet readable. A malformed spec or a
// failing store skips that one task and never aborts the loop.
func (m *RepeatTaskMaterializer) MaterializeDue(ctx context.Context, now time.Time, existing []*models.Matter) ([]*models.Matter, error) {
	tasks, err := m.repeatTasks.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active repeat tasks: %w", err)
	}
	if len(tasks) == 0 {
		return nil, nil
	}

	var created []*models.Matter
	for _, task := range tasks {
		value, err := repeattime.Parse(task.RepeatTime)
		if err != nil {
			m.logger.Warn("skipping repeat task with malformed spec",
				zap.String("task_id", task.ID.String()),
				zap.String("repeat_time", task.RepeatTime),
				zap.Error(err),
			)
			continue
		}

		if !value.ScheduledFor(now, m.holidays.IsHoliday) {
			continue
		}

		if matterExistsForTask(existing, task.ID) {
			continue
		}

		markerKey := repeatTaskMarkerKey(task.ID, now)
		marked, err := m.kv.Get(ctx, markerKey)
		if err != nil {
			m.logger.Warn("failed to read idempotency marker, skipping task this tick",
				zap.String("task_id", task.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if marked == "1" {
			continue
		}

		start, end, err := value.TimeRange(now)
		if err != nil {
			m.logger.Warn("skipping repeat task with malformed time range",
				zap.String("task_id", task.ID.String()),
				zap.Error(err),
			)
			continue
		}

		matter := buildMatterFromRepeatTask(task, start, end, now)
		if err := m.matters.Create(ctx, matter); err != nil {
			m.logger.Warn("failed to create matter for repeat task",
				zap.String("task_id", task.ID.String()),
				zap.Error(err),
			)
			continue
		}

		if err := m.kv.Set(ctx, markerKey, "1"); err != nil {
			// The matter exists, so the existing-matter check still
			// prevents duplicates; log and move on.
			m.logger.Warn("failed to set idempotency marker",
				zap.String("task_id", task.ID.String()),
				zap.Error(err),
			)
		}

		created = append(created, matter)
		m.logger.Info("materialized repeat task",
			zap.String("task_id", task.ID.String()),
			zap.String("matter_id", matter.ID.String()),
			zap.Time("start", start),
			zap.Time("end", end),
		)
	}

	return created, nil
}

func matterExistsForTask(matters []*models.Matter, taskID uuid.UUID) bool {
	for _, matter := range matters {
		if matter.SourceRefID != nil && *matter.SourceRefID == taskID {
			return true
		}
	}
	return false
}

func buildMatterFromRepeatTask(task *models.RepeatTask, start, end, now time.Time) *models.Matter {
	sourceRef := task.ID
	return &models.Matter{
		ID:          uuid.New(),
		Title:       task.Title,
		Description: task.Description,
		Tags:        task.Tags,
		StartTime:   start,
		EndTime:     end,
		Priority:    task.Priority,
		Kind:        models.KindRepeat,
		ColorHint:   task.Priority.ColorHint(),
		SourceRefID: &sourceRef,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
