package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/benvon/dayflow/internal/models"
	"github.com/benvon/dayflow/internal/services/ai"
)

// fakeKV is an in-memory KV store for tests
type fakeKV struct {
	mu      sync.Mutex
	data    map[string]string
	failGet bool
	failSet bool
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return "", errors.New("kv get failure")
	}
	return f.data[key], nil
}

func (f *fakeKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet {
		return errors.New("kv set failure")
	}
	f.data[key] = value
	return nil
}

func (f *fakeKV) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeKV) Keys(_ context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for key := range f.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

type fakeMatterStore struct {
	mu      sync.Mutex
	matters []*models.Matter
	failure error
}

func (f *fakeMatterStore) Create(_ context.Context, matter *models.Matter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failure != nil {
		return f.failure
	}
	f.matters = append(f.matters, matter)
	return nil
}

func (f *fakeMatterStore) GetByRange(_ context.Context, start, end time.Time) ([]*models.Matter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failure != nil {
		return nil, f.failure
	}
	var out []*models.Matter
	for _, matter := range f.matters {
		if !matter.StartTime.Before(start) && !matter.StartTime.After(end) {
			out = append(out, matter)
		}
	}
	return out, nil
}

type fakeRepeatTaskStore struct {
	tasks   []*models.RepeatTask
	failure error
}

func (f *fakeRepeatTaskStore) ListActive(context.Context) ([]*models.RepeatTask, error) {
	if f.failure != nil {
		return nil, f.failure
	}
	return f.tasks, nil
}

type fakeTodoStore struct {
	todos   []*models.Todo
	failure error
}

func (f *fakeTodoStore) List(context.Context) ([]*models.Todo, error) {
	if f.failure != nil {
		return nil, f.failure
	}
	return f.todos, nil
}

type fakeHolidays struct {
	holidays map[string]bool
}

func (f *fakeHolidays) IsHoliday(date time.Time) bool {
	return f.holidays[date.Format("2006-01-02")]
}

type fakeEvents struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeEvents) PublishEvent(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, name)
	return nil
}

func (f *fakeEvents) published() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

type fakeComposer struct {
	reminder *ai.Reminder
	err      error
	calls    int
}

func (f *fakeComposer) Compose(_ context.Context, _ string, _ ai.ReminderContext) (*ai.Reminder, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.reminder, nil
}

// fixedClock returns a clock function pinned to the given instant
func fixedClock(instant time.Time) func() time.Time {
	return func() time.Time { return instant }
}
