package engine

import (
	"context"
	"fmt"
	"time"
)

// Debounce timestamp keys. One key per periodic sub-check, so each is
// rate-limited independently.
const (
	upcomingCheckKey = "last_check_upcoming_task_time"
	noTaskCheckKey   = "last_check_no_task_time"
	aiCheckKey       = "last_check_ai_notification_time"
)

// DebounceGuard rate-limits named checks against the KV store. The write
// happens only on the firing path, so a crash between read and write
// cannot double-fire.
type DebounceGuard struct {
	kv  KV
	now func() time.Time
}

// NewDebounceGuard creates a guard over the given store
func NewDebounceGuard(kv KV, now func() time.Time) *DebounceGuard {
	if now == nil {
		now = time.Now
	}
	return &DebounceGuard{kv: kv, now: now}
}

// ShouldRun reports whether at least minMinutes have passed since the key
// was last marked. An absent or unreadable timestamp defaults to the
// start of the current calendar day. When the guard fires, now is stored
// for the key; otherwise nothing is written.
func (g *DebounceGuard) ShouldRun(ctx context.Context, key string, minMinutes int) (bool, error) {
	now := g.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stored, err := g.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to read debounce timestamp for %q: %w", key, err)
	}

	last := dayStart
	if stored != "" {
		if parsed, parseErr := time.Parse(time.RFC3339, stored); parseErr == nil {
			last = parsed
		}
	}

	elapsed := int(now.Sub(last).Minutes())
	if elapsed <= minMinutes {
		return false, nil
	}

	if err := g.kv.Set(ctx, key, now.Format(time.RFC3339)); err != nil {
		return false, fmt.Errorf("failed to store debounce timestamp for %q: %w", key, err)
	}
	return true, nil
}
