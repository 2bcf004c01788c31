package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/benvon/dayflow/internal/models"
)

// TodoRepository handles todo database operations
type TodoRepository struct {
	db *DB
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// Create inserts a new todo
func (r *TodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	query := `
		INSERT INTO todos (id, title, status, start_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	var startTime any
	if todo.StartTime != nil {
		startTime = *todo.StartTime
	}

	_, err := r.db.ExecContext(ctx, query,
		todo.ID,
		todo.Title,
		todo.Status,
		startTime,
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}

	return nil
}

// List retrieves all todos ordered by creation time
func (r *TodoRepository) List(ctx context.Context) ([]*models.Todo, error) {
	query := `
		SELECT id, title, status, start_time, created_at, updated_at
		FROM todos
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var todos []*models.Todo
	for rows.Next() {
		todo := &models.Todo{}
		var startTime sql.NullTime
		err := rows.Scan(
			&todo.ID,
			&todo.Title,
			&todo.Status,
			&startTime,
			&todo.CreatedAt,
			&todo.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		if startTime.Valid {
			t := startTime.Time
			todo.StartTime = &t
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return todos, nil
}
