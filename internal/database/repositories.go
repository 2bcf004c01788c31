package database

import (
	"context"
	"time"

	"github.com/benvon/dayflow/internal/models"
)

// MatterRepositoryInterface defines the matter repository operations the
// engine consumes. The interface enables fake implementations in tests.
type MatterRepositoryInterface interface {
	Create(ctx context.Context, matter *models.Matter) error
	GetByRange(ctx context.Context, start, end time.Time) ([]*models.Matter, error)
}

// RepeatTaskRepositoryInterface defines the repeat task repository operations
type RepeatTaskRepositoryInterface interface {
	ListActive(ctx context.Context) ([]*models.RepeatTask, error)
}

// TodoRepositoryInterface defines the todo repository operations
type TodoRepositoryInterface interface {
	List(ctx context.Context) ([]*models.Todo, error)
}

// Ensure concrete types implement the interfaces
var (
	_ MatterRepositoryInterface     = (*MatterRepository)(nil)
	_ RepeatTaskRepositoryInterface = (*RepeatTaskRepository)(nil)
	_ TodoRepositoryInterface       = (*TodoRepository)(nil)
)
