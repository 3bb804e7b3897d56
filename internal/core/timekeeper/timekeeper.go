package timekeeper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"studyclock/internal/core/model"
)

// Config contains runtime options for TimeKeeper.
type Config struct {
	TickInterval time.Duration
	Clock        Clock
	Notifier     Notifier
}

// PersistedState is the part of a TimeKeeper that survives restarts.
type PersistedState struct {
	Phases    []model.Phase `msgpack:"phases"`
	Index     int           `msgpack:"index"`
	Remaining time.Duration `msgpack:"remaining"`
	Sessions  int           `msgpack:"sessions"`
	Studied   time.Duration `msgpack:"studied"`
}

// TimeKeeper is the phase timer state machine.
type TimeKeeper struct {
	mu        sync.Mutex
	options   Config
	phases    []model.Phase
	status    Status
	index     int
	remaining time.Duration
	startedAt time.Time
	sessions  int
	studied   time.Duration
	notified  bool
	completed bool
	events    []chan Event
}

// New creates a stopped TimeKeeper positioned at the first phase.
func New(phases []model.Phase, options Config) (*TimeKeeper, error) {
	if err := model.ValidatePhases(phases); err != nil {
		return nil, fmt.Errorf("new timekeeper: %w", err)
	}
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Clock == nil {
		options.Clock = SystemClock
	}
	if options.Notifier == nil {
		options.Notifier = nopNotifier{}
	}

	keeper := &TimeKeeper{
		options: options,
		phases:  model.ClonePhases(phases),
		status:  StatusStopped,
	}
	keeper.resetLocked()
	return keeper, nil
}

// SetNotifier replaces the notification port.
func (keeper *TimeKeeper) SetNotifier(notifier Notifier) {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	keeper.mu.Lock()
	keeper.options.Notifier = notifier
	keeper.mu.Unlock()
}

// Subscribe registers a new observer channel.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	keeper.events = append(keeper.events, ch)
	keeper.mu.Unlock()
	return ch
}

// Close closes all observer channels.
func (keeper *TimeKeeper) Close() {
	keeper.mu.Lock()
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Start runs the current phase from now. A stopped phase restarts from its
// full duration; the stored remaining is only shown while stopped.
func (keeper *TimeKeeper) Start() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.status == StatusRunning || keeper.index >= len(keeper.phases) {
		return
	}

	now := keeper.options.Clock.Now()
	keeper.startedAt = now
	keeper.status = StatusRunning
	keeper.notified = false
	keeper.completed = false

	keeper.emitLocked(Event{Type: EventStateChange, Snapshot: keeper.snapshotLocked(now), At: now})
}

// Stop pauses the running phase and stores what is left of it.
func (keeper *TimeKeeper) Stop() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.status != StatusRunning {
		return
	}

	now := keeper.options.Clock.Now()
	remaining := keeper.currentDurationLocked() - keeper.elapsedLocked(now)
	if remaining < 0 {
		remaining = 0
	}
	keeper.remaining = remaining
	keeper.startedAt = time.Time{}
	keeper.status = StatusStopped

	keeper.emitLocked(Event{Type: EventStateChange, Snapshot: keeper.snapshotLocked(now), At: now})
}

// Reset rewinds a stopped timer to the first phase.
func (keeper *TimeKeeper) Reset() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.status == StatusRunning {
		return
	}

	keeper.resetLocked()
	now := keeper.options.Clock.Now()
	keeper.emitLocked(Event{Type: EventStateChange, Snapshot: keeper.snapshotLocked(now), At: now})
}

// Reconfigure replaces the phase list and rewinds the timer, stopping it if
// it was running. Invalid lists are rejected and leave the timer unchanged.
func (keeper *TimeKeeper) Reconfigure(phases []model.Phase) error {
	if err := model.ValidatePhases(phases); err != nil {
		return fmt.Errorf("reconfigure: %w", err)
	}

	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.phases = model.ClonePhases(phases)
	keeper.status = StatusStopped
	keeper.resetLocked()

	now := keeper.options.Clock.Now()
	keeper.emitLocked(Event{Type: EventStateChange, Snapshot: keeper.snapshotLocked(now), At: now})
	return nil
}

// Tick evaluates elapsed time against the current phase and advances at most
// one phase. It returns the resulting snapshot.
func (keeper *TimeKeeper) Tick() Snapshot {
	keeper.mu.Lock()
	now := keeper.options.Clock.Now()
	if keeper.status != StatusRunning {
		snapshot := keeper.snapshotLocked(now)
		keeper.mu.Unlock()
		return snapshot
	}

	pending := keeper.tickLocked(now)
	snapshot := keeper.snapshotLocked(now)
	notifier := keeper.options.Notifier
	keeper.mu.Unlock()

	for _, notification := range pending {
		notifier.Notify(notification)
	}
	return snapshot
}

// Snapshot reports the current view without changing state.
func (keeper *TimeKeeper) Snapshot() Snapshot {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.snapshotLocked(keeper.options.Clock.Now())
}

// Export returns the persistable state. A running phase is captured as if
// it had been stopped now.
func (keeper *TimeKeeper) Export() PersistedState {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	remaining := keeper.remaining
	if keeper.status == StatusRunning {
		remaining = keeper.remainingLocked(keeper.options.Clock.Now())
	}
	return PersistedState{
		Phases:    model.ClonePhases(keeper.phases),
		Index:     keeper.index,
		Remaining: remaining,
		Sessions:  keeper.sessions,
		Studied:   keeper.studied,
	}
}

// Restore loads a previously exported state. The timer is left stopped.
func (keeper *TimeKeeper) Restore(state PersistedState) error {
	if err := model.ValidatePhases(state.Phases); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	if state.Index < 0 || state.Index >= len(state.Phases) {
		return fmt.Errorf("restore: %w: index %d out of range", model.ErrInvalidPhase, state.Index)
	}
	if state.Sessions < 0 || state.Studied < 0 {
		return fmt.Errorf("restore: %w: negative counters", model.ErrInvalidPhase)
	}

	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.phases = model.ClonePhases(state.Phases)
	keeper.status = StatusStopped
	keeper.index = state.Index
	keeper.remaining = state.Remaining.Truncate(time.Second)
	if keeper.remaining < 0 || keeper.remaining > keeper.phases[state.Index].Duration {
		keeper.remaining = keeper.phases[state.Index].Duration
	}
	keeper.startedAt = time.Time{}
	keeper.sessions = state.Sessions
	keeper.studied = state.Studied
	keeper.notified = false
	keeper.completed = false

	now := keeper.options.Clock.Now()
	keeper.emitLocked(Event{Type: EventStateChange, Snapshot: keeper.snapshotLocked(now), At: now})
	return nil
}

// Run ticks the timer every TickInterval until ctx is done.
func (keeper *TimeKeeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(keeper.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			keeper.Tick()
		}
	}
}

func (keeper *TimeKeeper) tickLocked(now time.Time) []Notification {
	elapsed := keeper.elapsedLocked(now)
	current := keeper.phases[keeper.index]
	if elapsed < current.Duration {
		keeper.emitLocked(Event{Type: EventProgress, Snapshot: keeper.snapshotLocked(now), At: now})
		return nil
	}

	var pending []Notification
	if !keeper.notified {
		keeper.notified = true
		pending = append(pending, Notification{Kind: NotifyPhaseComplete, Phase: current, Sessions: keeper.sessions, At: now})
	}

	keeper.index++
	if keeper.index >= len(keeper.phases) {
		keeper.status = StatusStopped
		keeper.index = 0
		keeper.sessions++
		keeper.studied += model.TotalDuration(keeper.phases)
		keeper.remaining = keeper.phases[0].Duration
		keeper.startedAt = time.Time{}
		keeper.completed = true

		pending = append(pending, Notification{Kind: NotifySessionComplete, Phase: current, Sessions: keeper.sessions, At: now})
		keeper.emitLocked(Event{Type: EventSessionComplete, Snapshot: keeper.snapshotLocked(now), Finished: current, At: now})
		return pending
	}

	keeper.startedAt = now
	keeper.notified = false
	keeper.remaining = keeper.phases[keeper.index].Duration
	keeper.emitLocked(Event{Type: EventPhaseAdvance, Snapshot: keeper.snapshotLocked(now), Finished: current, At: now})
	return pending
}

func (keeper *TimeKeeper) resetLocked() {
	keeper.index = 0
	keeper.remaining = keeper.phases[0].Duration
	keeper.startedAt = time.Time{}
	keeper.notified = false
	keeper.completed = false
}

func (keeper *TimeKeeper) currentDurationLocked() time.Duration {
	if keeper.index >= len(keeper.phases) {
		return 0
	}
	return keeper.phases[keeper.index].Duration
}

// elapsedLocked truncates to whole seconds so a fresh phase reports its full
// duration until a second has passed.
func (keeper *TimeKeeper) elapsedLocked(now time.Time) time.Duration {
	elapsed := now.Sub(keeper.startedAt)
	if elapsed < 0 {
		return 0
	}
	return elapsed.Truncate(time.Second)
}

func (keeper *TimeKeeper) remainingLocked(now time.Time) time.Duration {
	if keeper.status != StatusRunning {
		return keeper.remaining
	}
	remaining := keeper.currentDurationLocked() - keeper.elapsedLocked(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (keeper *TimeKeeper) stateLocked() State {
	switch {
	case keeper.status == StatusRunning:
		return StateRunning
	case keeper.completed:
		return StateComplete
	case keeper.index == 0 && keeper.remaining == keeper.currentDurationLocked():
		return StateIdle
	default:
		return StatePaused
	}
}

func (keeper *TimeKeeper) snapshotLocked(now time.Time) Snapshot {
	snapshot := Snapshot{
		Status:     keeper.status,
		State:      keeper.stateLocked(),
		Index:      keeper.index,
		PhaseCount: len(keeper.phases),
		Phases:     model.ClonePhases(keeper.phases),
		Remaining:  keeper.remainingLocked(now),
		Sessions:   keeper.sessions,
		Studied:    keeper.studied,
		Complete:   keeper.completed,
	}
	if keeper.index < len(keeper.phases) {
		snapshot.Phase = keeper.phases[keeper.index]
	}
	snapshot.Progress = progress(snapshot.Phase.Duration, snapshot.Remaining)
	return snapshot
}

func progress(total, remaining time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	value := float64(total-remaining) / float64(total)
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

func (keeper *TimeKeeper) emitLocked(event Event) {
	events := append([]chan Event(nil), keeper.events...)
	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}
