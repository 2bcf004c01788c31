package database

import (
	"context"
	"fmt"

	"github.com/benvon/dayflow/internal/models"
)

// RepeatTaskRepository handles repeat task database operations
type RepeatTaskRepository struct {
	db *DB
}

// NewRepeatTaskRepository creates a new repeat task repository
func NewRepeatTaskRepository(db *DB) *RepeatTaskRepository {
	return &RepeatTaskRepository{db: db}
}

// Create inserts a new repeat task
func (r *RepeatTaskRepository) Create(ctx context.Context, task *models.RepeatTask) error {
	query := `
		INSERT INTO repeat_tasks (id, title, tags, description, priority, status, repeat_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Tags,
		task.Description,
		task.Priority,
		task.Status,
		task.RepeatTime,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create repeat task: %w", err)
	}

	return nil
}

// ListActive retrieves all repeat tasks with active status
func (r *RepeatTaskRepository) ListActive(ctx context.Context) ([]*models.RepeatTask, error) {
	query := `
		SELECT id, title, tags, description, priority, status, repeat_time, created_at, updated_at
		FROM repeat_tasks
		WHERE status = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, models.RepeatTaskStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query repeat tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*models.RepeatTask
	for rows.Next() {
		task := &models.RepeatTask{}
		err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Tags,
			&task.Description,
			&task.Priority,
			&task.Status,
			&task.RepeatTime,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan repeat task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate repeat tasks: %w", err)
	}

	return tasks, nil
}
