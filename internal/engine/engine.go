package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benvon/dayflow/internal/config"
	"github.com/benvon/dayflow/internal/models"
	"github.com/benvon/dayflow/internal/services/ai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// DefaultTickInterval is how often the engine evaluates its checks
	DefaultTickInterval = 1 * time.Minute
	// DefaultPruneInterval is how often stale markers are swept
	DefaultPruneInterval = 12 * time.Hour
)

// Deps are the collaborators the engine is constructed with. Composer
// and Events are optional; everything else is required.
type Deps struct {
	Matters     MatterStore
	RepeatTasks RepeatTaskStore
	Todos       TodoStore
	KV          KV
	Settings    *config.Store
	Holidays    HolidayOracle
	Composer    ReminderComposer
	Events      EventSink
	Logger      *zap.Logger
}

// Option adjusts engine construction
type Option func(*Engine)

// WithClock replaces the engine's time source, for tests
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithTickInterval overrides the tick cadence
func WithTickInterval(interval time.Duration) Option {
	return func(e *Engine) { e.tickInterval = interval }
}

// WithPruneInterval overrides the marker sweep cadence
func WithPruneInterval(interval time.Duration) Option {
	return func(e *Engine) { e.pruneInterval = interval }
}

// WithTracerProvider overrides the tracer source, for tests
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) { e.tracer = tp.Tracer("github.com/benvon/dayflow/internal/engine") }
}

type notificationSubscriber struct {
	id int
	fn func(models.Notification)
}

// Engine is the timer-driven orchestrator. One tick materializes due
// repeat tasks and todos, then evaluates at most one notification intent
// and dispatches it to the subscribers.
type Engine struct {
	matters     MatterStore
	repeatTasks RepeatTaskStore
	todos       TodoStore
	settings    *config.Store
	composer    ReminderComposer
	events      EventSink
	logger      *zap.Logger
	tracer      trace.Tracer

	repeatMat *RepeatTaskMaterializer
	todoMat   *TodoMaterializer
	guard     *DebounceGuard

	now           func() time.Time
	tickInterval  time.Duration
	pruneInterval time.Duration
	lastPrune     time.Time

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	cancel  context.CancelFunc

	// tickBusy guarantees at most one tick in flight; a timer fire that
	// lands while the previous tick is still executing is skipped
	tickBusy atomic.Bool

	subMu     sync.Mutex
	subs      []notificationSubscriber
	nextSubID int
}

// New constructs an engine from its collaborators
func New(deps Deps, opts ...Option) *Engine {
	e := &Engine{
		matters:       deps.Matters,
		repeatTasks:   deps.RepeatTasks,
		todos:         deps.Todos,
		settings:      deps.Settings,
		composer:      deps.Composer,
		events:        deps.Events,
		logger:        deps.Logger,
		tracer:        otel.Tracer("github.com/benvon/dayflow/internal/engine"),
		now:           time.Now,
		tickInterval:  DefaultTickInterval,
		pruneInterval: DefaultPruneInterval,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.repeatMat = NewRepeatTaskMaterializer(deps.RepeatTasks, deps.Matters, deps.KV, deps.Holidays, deps.Logger)
	e.todoMat = NewTodoMaterializer(deps.Todos, deps.Matters, deps.KV, deps.Events, deps.Logger)
	e.guard = NewDebounceGuard(deps.KV, e.now)

	return e
}

// Subscribe registers a callback invoked synchronously for every
// dispatched notification, in registration order. The returned function
// removes the subscription.
func (e *Engine) Subscribe(fn func(models.Notification)) func() {
	e.subMu.Lock()
	id := e.nextSubID
	e.nextSubID++
	e.subs = append(e.subs, notificationSubscriber{id: id, fn: fn})
	e.subMu.Unlock()

	return func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		for i, sub := range e.subs {
			if sub.id == id {
				e.subs = append(e.subs[:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

// Start begins the tick loop. Starting a running engine is a no-op. One
// tick runs immediately, before the first timer fire.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.stop = make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	stop := e.stop
	e.mu.Unlock()

	e.logger.Info("starting scheduler engine",
		zap.Duration("tick_interval", e.tickInterval),
	)

	go e.run(ctx, stop)
}

func (e *Engine) run(ctx context.Context, stop <-chan struct{}) {
	e.safeTick(ctx, false)

	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.safeTick(ctx, false)
		}
	}
}

// Stop cancels the timer and prevents new side effects. An in-flight
// tick is not forcibly aborted; its collaborator calls fail against the
// cancelled context, so nothing new is persisted or dispatched after
// Stop returns.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.running = false
	close(e.stop)
	e.cancel()
	e.logger.Info("stopped scheduler engine")
}

// CheckNow runs one tick on demand. With ignoreGates set, the work-hour
// gate and every debounce check are bypassed; idempotency markers still
// apply, so a manual check can never double-materialize. Returns whether
// the tick handled a notification check: either an intent was dispatched
// or an AI compose attempt consumed its debounce slot.
func (e *Engine) CheckNow(ctx context.Context, ignoreGates bool) bool {
	return e.safeTick(ctx, ignoreGates)
}

// SendTestNotification dispatches a fixed test intent, bypassing all
// checks and gates
func (e *Engine) SendTestNotification() {
	e.dispatch(models.NewNotification(testTitle, testMessage, models.NotificationNewTask, e.now()))
}

// safeTick enforces single-flight execution and contains panics; a bad
// tick must never stop the loop
func (e *Engine) safeTick(ctx context.Context, ignoreGates bool) (dispatched bool) {
	if !e.tickBusy.CompareAndSwap(false, true) {
		e.logger.Warn("previous tick still running, skipping")
		return false
	}
	defer e.tickBusy.Store(false)

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("tick panicked", zap.Any("panic", r))
			dispatched = false
		}
	}()

	return e.tick(ctx, ignoreGates)
}

func (e *Engine) tick(ctx context.Context, ignoreGates bool) bool {
	ctx, span := e.tracer.Start(ctx, "engine.tick",
		trace.WithAttributes(attribute.Bool("ignore_gates", ignoreGates)))
	defer span.End()

	now := e.now()
	settings := e.settings.Snapshot()

	// Materialization of due todos is independent of the notification
	// gates; it carries its own idempotency markers.
	if _, err := e.todoMat.MaterializeDue(ctx, now); err != nil {
		e.logger.Warn("todo materialization failed this tick", zap.Error(err))
	}

	if e.lastPrune.IsZero() || now.Sub(e.lastPrune) >= e.pruneInterval {
		e.lastPrune = now
		if _, err := e.todoMat.PruneMarkers(ctx, now); err != nil {
			e.logger.Warn("marker prune failed", zap.Error(err))
		}
	}

	if !settings.NotificationsEnabled && !ignoreGates {
		return false
	}

	if !ignoreGates && !WithinWorkHours(now, settings.WorkStart, settings.WorkEnd) {
		e.logger.Debug("outside work hours, skipping notification checks",
			zap.String("work_start", settings.WorkStart),
			zap.String("work_end", settings.WorkEnd),
		)
		return false
	}

	dayStart, dayEnd := dayBounds(now)
	matters, err := e.matters.GetByRange(ctx, dayStart, dayEnd)
	if err != nil {
		e.logger.Warn("failed to load today's matters, abandoning tick", zap.Error(err))
		return false
	}

	created, err := e.repeatMat.MaterializeDue(ctx, now, matters)
	if err != nil {
		e.logger.Warn("repeat task materialization failed this tick", zap.Error(err))
	}
	if len(created) > 0 {
		// The day's schedule just changed; announce that and skip the
		// remaining evaluators to avoid a notification burst.
		message := fmt.Sprintf("%d recurring task(s) were added to today's schedule.", len(created))
		e.dispatch(models.NewNotification(newTasksTitle, message, models.NotificationNewTask, now))
		return true
	}

	if settings.AIEnabled && e.composer != nil {
		return e.aiReminderCheck(ctx, now, matters, settings, ignoreGates)
	}
	return e.standardChecks(ctx, now, matters, settings, ignoreGates)
}

// aiReminderCheck composes one AI reminder unless a matter is currently
// in progress or the AI debounce has not elapsed
func (e *Engine) aiReminderCheck(ctx context.Context, now time.Time, matters []*models.Matter, settings config.Settings, ignoreGates bool) bool {
	if !ignoreGates {
		for _, matter := range matters {
			if matter.InProgressAt(now) {
				e.logger.Debug("a matter is in progress, skipping AI reminder",
					zap.String("matter_id", matter.ID.String()))
				return false
			}
		}

		due, err := e.guard.ShouldRun(ctx, aiCheckKey, settings.CheckIntervalMinutes)
		if err != nil {
			e.logger.Warn("AI debounce check failed", zap.Error(err))
			return false
		}
		if !due {
			return false
		}
	}

	todos, err := e.todos.List(ctx)
	if err != nil {
		e.logger.Warn("failed to list todos for AI digest", zap.Error(err))
		return false
	}
	var open []*models.Todo
	for _, todo := range todos {
		if todo.Status == models.TodoStatusTodo {
			open = append(open, todo)
		}
	}

	tasks, err := e.repeatTasks.ListActive(ctx)
	if err != nil {
		e.logger.Warn("failed to list repeat tasks for AI digest", zap.Error(err))
		return false
	}

	rc := ai.ReminderContext{
		Now:         now,
		Matters:     matters,
		OpenTodos:   open,
		RepeatTasks: tasks,
	}
	reminder, err := e.composer.Compose(ctx, settings.AIReminderPrompt, rc)
	if err != nil {
		// The attempt consumed this debounce slot; drop the reminder and
		// never surface partial output.
		e.logger.Warn("dropping AI reminder for this tick", zap.Error(err))
		return true
	}

	e.dispatch(models.NewNotification(reminder.Title, reminder.Description, models.NotificationAIReminder, now))
	return true
}

// standardChecks runs the upcoming-task and no-task evaluators
func (e *Engine) standardChecks(ctx context.Context, now time.Time, matters []*models.Matter, settings config.Settings, ignoreGates bool) bool {
	shouldCheckUpcoming := true
	if !ignoreGates {
		var err error
		shouldCheckUpcoming, err = e.guard.ShouldRun(ctx, upcomingCheckKey, settings.NotifyBeforeMinutes)
		if err != nil {
			e.logger.Warn("upcoming debounce check failed", zap.Error(err))
			shouldCheckUpcoming = false
		}
	}
	if shouldCheckUpcoming {
		upcoming := UpcomingTaskNotifications(now, matters, settings.NotifyBeforeMinutes)
		if len(upcoming) > 0 {
			// First match only; dispatching every match at once would
			// flood the user during a busy stretch.
			e.dispatch(upcoming[0])
			return true
		}
	}

	shouldCheckNoTask := true
	if !ignoreGates {
		var err error
		shouldCheckNoTask, err = e.guard.ShouldRun(ctx, noTaskCheckKey, settings.CheckIntervalMinutes)
		if err != nil {
			e.logger.Warn("no-task debounce check failed", zap.Error(err))
			shouldCheckNoTask = false
		}
	}
	if shouldCheckNoTask && HasNoUpcomingOrRunningTasks(now, matters) {
		e.dispatch(models.NewNotification(noTaskTitle, noTaskMessage, models.NotificationNoTask, now))
		return true
	}

	return false
}

// dispatch delivers an intent to every subscriber, synchronously, in
// registration order
func (e *Engine) dispatch(notification models.Notification) {
	e.logger.Info("dispatching notification",
		zap.String("id", notification.ID.String()),
		zap.String("kind", string(notification.Kind)),
		zap.String("title", notification.Title),
	)

	e.subMu.Lock()
	subs := make([]notificationSubscriber, len(e.subs))
	copy(subs, e.subs)
	e.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(notification)
	}
}
