package config

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/benvon/dayflow/internal/validation"
	"gopkg.in/yaml.v3"
)

// Settings is the immutable runtime snapshot the engine reads each tick.
// Copies are cheap; mutation happens only through Store.Update.
type Settings struct {
	NotificationsEnabled bool   `json:"notifications_enabled" yaml:"notifications_enabled"`
	WorkStart            string `json:"work_start" yaml:"work_start" validate:"required,time_of_day"`
	WorkEnd              string `json:"work_end" yaml:"work_end" validate:"required,day_end"`
	CheckIntervalMinutes int    `json:"check_interval_minutes" yaml:"check_interval_minutes" validate:"min=1,max=1440"`
	NotifyBeforeMinutes  int    `json:"notify_before_minutes" yaml:"notify_before_minutes" validate:"min=1,max=240"`
	AIEnabled            bool   `json:"ai_enabled" yaml:"ai_enabled"`
	AIReminderPrompt     string `json:"ai_reminder_prompt,omitempty" yaml:"ai_reminder_prompt,omitempty"`
}

// DefaultSettings returns the defaults used before any user configuration
func DefaultSettings() Settings {
	return Settings{
		NotificationsEnabled: true,
		WorkStart:            "09:00",
		WorkEnd:              "18:00",
		CheckIntervalMinutes: 120,
		NotifyBeforeMinutes:  15,
		AIEnabled:            false,
	}
}

// Validate checks the snapshot against the shared validator rules
func (s Settings) Validate() error {
	if err := validation.Validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// Patch is a partial settings update; nil fields are left unchanged
type Patch struct {
	NotificationsEnabled *bool   `json:"notifications_enabled,omitempty"`
	WorkStart            *string `json:"work_start,omitempty"`
	WorkEnd              *string `json:"work_end,omitempty"`
	CheckIntervalMinutes *int    `json:"check_interval_minutes,omitempty"`
	NotifyBeforeMinutes  *int    `json:"notify_before_minutes,omitempty"`
	AIEnabled            *bool   `json:"ai_enabled,omitempty"`
	AIReminderPrompt     *string `json:"ai_reminder_prompt,omitempty"`
}

// Apply returns a new snapshot with the patch folded in
func (s Settings) Apply(p Patch) Settings {
	next := s
	if p.NotificationsEnabled != nil {
		next.NotificationsEnabled = *p.NotificationsEnabled
	}
	if p.WorkStart != nil {
		next.WorkStart = *p.WorkStart
	}
	if p.WorkEnd != nil {
		next.WorkEnd = *p.WorkEnd
	}
	if p.CheckIntervalMinutes != nil {
		next.CheckIntervalMinutes = *p.CheckIntervalMinutes
	}
	if p.NotifyBeforeMinutes != nil {
		next.NotifyBeforeMinutes = *p.NotifyBeforeMinutes
	}
	if p.AIEnabled != nil {
		next.AIEnabled = *p.AIEnabled
	}
	if p.AIReminderPrompt != nil {
		next.AIReminderPrompt = *p.AIReminderPrompt
	}
	return next
}

// LoadSettingsFile reads a YAML settings file, filling gaps with defaults
func LoadSettingsFile(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings file: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// Persister stores settings snapshots between runs
type Persister interface {
	SaveSettings(ctx context.Context, s Settings) error
	LoadSettings(ctx context.Context) (*Settings, error)
}

type subscriber struct {
	id int
	fn func(Settings)
}

// Store holds the current settings snapshot and notifies subscribers on
// every successful update. Reads never block writers for long; the
// snapshot is returned by value.
type Store struct {
	mu      sync.RWMutex
	current Settings
	subs    []subscriber
	nextID  int
	persist Persister
}

// NewStore creates a settings store seeded with an initial snapshot
func NewStore(initial Settings, persist Persister) *Store {
	return &Store{current: initial, persist: persist}
}

// Snapshot returns the current immutable settings
func (s *Store) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update validates and applies a patch, persists the result, and notifies
// subscribers synchronously in registration order. On validation or
// persistence failure the current snapshot is left untouched.
func (s *Store) Update(ctx context.Context, p Patch) (Settings, error) {
	s.mu.Lock()
	next := s.current.Apply(p)
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return s.current, err
	}
	if s.persist != nil {
		if err := s.persist.SaveSettings(ctx, next); err != nil {
			s.mu.Unlock()
			return s.current, fmt.Errorf("failed to persist settings: %w", err)
		}
	}
	s.current = next
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(next)
	}
	return next, nil
}

// Subscribe registers a callback invoked after every update and returns
// a function that removes the subscription
func (s *Store) Subscribe(fn func(Settings)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}
