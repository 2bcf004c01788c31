package database

import (
	"context"
	"fmt"
	"time"

	"github.com/benvon/dayflow/internal/models"
	"github.com/google/uuid"
)

// MatterRepository handles matter database operations
type MatterRepository struct {
	db *DB
}

// NewMatterRepository creates a new matter repository
func NewMatterRepository(db *DB) *MatterRepository {
	return &MatterRepository{db: db}
}

// Create inserts a new matter. The row is written in a single statement;
// a matter is either fully persisted or not persisted at all.
func (r *MatterRepository) Create(ctx context.Context, matter *models.Matter) error {
	query := `
		INSERT INTO matters (id, title, description, tags, start_time, end_time, priority, kind, color_hint, source_ref_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	var sourceRef any
	if matter.SourceRefID != nil {
		sourceRef = *matter.SourceRefID
	}

	_, err := r.db.ExecContext(ctx, query,
		matter.ID,
		matter.Title,
		matter.Description,
		matter.Tags,
		matter.StartTime,
		matter.EndTime,
		matter.Priority,
		matter.Kind,
		matter.ColorHint,
		sourceRef,
		matter.CreatedAt,
		matter.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create matter: %w", err)
	}

	return nil
}

// GetByRange retrieves matters whose start time falls inside [start, end],
// ordered by start time
func (r *MatterRepository) GetByRange(ctx context.Context, start, end time.Time) ([]*models.Matter, error) {
	query := `
		SELECT id, title, description, tags, start_time, end_time, priority, kind, color_hint, source_ref_id, created_at, updated_at
		FROM matters
		WHERE start_time >= $1 AND start_time <= $2
		ORDER BY start_time ASC
	`

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query matters: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var matters []*models.Matter
	for rows.Next() {
		matter, err := scanMatter(rows)
		if err != nil {
			return nil, err
		}
		matters = append(matters, matter)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matters: %w", err)
	}

	return matters, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatter(row rowScanner) (*models.Matter, error) {
	matter := &models.Matter{}
	var sourceRef uuid.NullUUID

	err := row.Scan(
		&matter.ID,
		&matter.Title,
		&matter.Description,
		&matter.Tags,
		&matter.StartTime,
		&matter.EndTime,
		&matter.Priority,
		&matter.Kind,
		&matter.ColorHint,
		&sourceRef,
		&matter.CreatedAt,
		&matter.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan matter: %w", err)
	}

	if sourceRef.Valid {
		id := sourceRef.UUID
		matter.SourceRefID = &id
	}

	return matter, nil
}
