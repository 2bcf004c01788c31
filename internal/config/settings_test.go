package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type memoryPersister struct {
	saved   *Settings
	failure error
}

func (m *memoryPersister) SaveSettings(_ context.Context, s Settings) error {
	if m.failure != nil {
		return m.failure
	}
	m.saved = &s
	return nil
}

func (m *memoryPersister) LoadSettings(context.Context) (*Settings, error) {
	return m.saved, nil
}

func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func TestDefaultSettingsValidate(t *testing.T) {
	t.Parallel()

	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}

func TestSettingsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Settings) {}},
		{name: "24:00 work end", mutate: func(s *Settings) { s.WorkEnd = "24:00" }},
		{name: "bad work start", mutate: func(s *Settings) { s.WorkStart = "9am" }, wantErr: true},
		{name: "25:00 work end", mutate: func(s *Settings) { s.WorkEnd = "25:00" }, wantErr: true},
		{name: "zero check interval", mutate: func(s *Settings) { s.CheckIntervalMinutes = 0 }, wantErr: true},
		{name: "oversized notify window", mutate: func(s *Settings) { s.NotifyBeforeMinutes = 500 }, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			settings := DefaultSettings()
			tt.mutate(&settings)
			err := settings.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate succeeded, want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate failed: %v", err)
			}
		})
	}
}

func TestApplyPatch(t *testing.T) {
	t.Parallel()

	base := DefaultSettings()
	next := base.Apply(Patch{
		WorkStart: strPtr("08:00"),
		AIEnabled: boolPtr(true),
	})

	if next.WorkStart != "08:00" {
		t.Errorf("WorkStart = %q, want patched value", next.WorkStart)
	}
	if !next.AIEnabled {
		t.Error("AIEnabled not patched")
	}
	if next.WorkEnd != base.WorkEnd || next.CheckIntervalMinutes != base.CheckIntervalMinutes {
		t.Error("unpatched fields changed")
	}
}

func TestStoreUpdate(t *testing.T) {
	t.Parallel()

	persister := &memoryPersister{}
	store := NewStore(DefaultSettings(), persister)

	var notified []Settings
	store.Subscribe(func(s Settings) { notified = append(notified, s) })

	updated, err := store.Update(context.Background(), Patch{NotifyBeforeMinutes: intPtr(30)})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.NotifyBeforeMinutes != 30 {
		t.Errorf("NotifyBeforeMinutes = %d, want 30", updated.NotifyBeforeMinutes)
	}
	if store.Snapshot().NotifyBeforeMinutes != 30 {
		t.Error("snapshot does not reflect the update")
	}
	if persister.saved == nil || persister.saved.NotifyBeforeMinutes != 30 {
		t.Error("update was not persisted")
	}
	if len(notified) != 1 || notified[0].NotifyBeforeMinutes != 30 {
		t.Errorf("subscriber notifications = %+v, want one with the new value", notified)
	}
}

func TestStoreUpdateRejectsInvalidPatch(t *testing.T) {
	t.Parallel()

	store := NewStore(DefaultSettings(), nil)

	if _, err := store.Update(context.Background(), Patch{WorkEnd: strPtr("nonsense")}); err == nil {
		t.Fatal("Update accepted an invalid work end")
	}
	if store.Snapshot().WorkEnd != "18:00" {
		t.Error("failed update mutated the snapshot")
	}
}

func TestStoreUpdatePersistenceFailureKeepsSnapshot(t *testing.T) {
	t.Parallel()

	persister := &memoryPersister{failure: errors.New("store down")}
	store := NewStore(DefaultSettings(), persister)

	var notified int
	store.Subscribe(func(Settings) { notified++ })

	if _, err := store.Update(context.Background(), Patch{AIEnabled: boolPtr(true)}); err == nil {
		t.Fatal("Update succeeded despite persistence failure")
	}
	if store.Snapshot().AIEnabled {
		t.Error("failed update mutated the snapshot")
	}
	if notified != 0 {
		t.Error("subscribers notified for a failed update")
	}
}

func TestStoreUnsubscribe(t *testing.T) {
	t.Parallel()

	store := NewStore(DefaultSettings(), nil)

	var calls int
	unsubscribe := store.Subscribe(func(Settings) { calls++ })
	unsubscribe()

	if _, err := store.Update(context.Background(), Patch{AIEnabled: boolPtr(true)}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if calls != 0 {
		t.Error("unsubscribed callback still invoked")
	}
}

func TestLoadSettingsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := "work_start: \"08:30\"\nai_enabled: true\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	settings, err := LoadSettingsFile(path)
	if err != nil {
		t.Fatalf("LoadSettingsFile failed: %v", err)
	}
	if settings.WorkStart != "08:30" {
		t.Errorf("WorkStart = %q, want the file value", settings.WorkStart)
	}
	if !settings.AIEnabled {
		t.Error("AIEnabled not loaded from file")
	}
	if settings.WorkEnd != "18:00" {
		t.Errorf("WorkEnd = %q, want the default filled in", settings.WorkEnd)
	}
}

func TestLoadSettingsFileMissing(t *testing.T) {
	t.Parallel()

	settings, err := LoadSettingsFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("LoadSettingsFile succeeded on a missing file")
	}
	// Defaults still come back so the caller can fall through.
	if settings.WorkStart != "09:00" {
		t.Errorf("WorkStart = %q, want defaults on failure", settings.WorkStart)
	}
}
