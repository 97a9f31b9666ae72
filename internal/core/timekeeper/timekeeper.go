package timekeeper

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pomodoro/internal/core/model"
)

var (
	// ErrNothingToCount indicates Start was requested with no time remaining.
	ErrNothingToCount = errors.New("no time remaining")
	// ErrStopped indicates the TimeKeeper was shut down.
	ErrStopped = errors.New("timekeeper stopped")
)

// WakeLock keeps the display awake while the countdown runs.
// Both calls must be non-blocking and idempotent.
type WakeLock interface {
	Acquire()
	Release()
}

// Notifier plays the end-of-countdown cue.
type Notifier interface {
	Notify()
	PrimeForUserGesture()
}

type noopWakeLock struct{}

func (noopWakeLock) Acquire() {}
func (noopWakeLock) Release() {}

type noopNotifier struct{}

func (noopNotifier) Notify()              {}
func (noopNotifier) PrimeForUserGesture() {}

// Config contains runtime options and collaborators for TimeKeeper.
// Nil collaborators are replaced with no-op implementations.
type Config struct {
	TickInterval time.Duration
	Clock        Clock
	WakeLock     WakeLock
	Notifier     Notifier
	Logger       *slog.Logger
	Now          func() time.Time
}

// TimeKeeper is the countdown state machine. Every input goes through
// Dispatch and is processed under one lock.
type TimeKeeper struct {
	mu         sync.Mutex
	settings   model.Settings
	options    Config
	mode       model.Mode
	remaining  int
	total      int
	active     bool
	generation uint64
	cancelTick func()
	events     []chan Event
	stopped    bool
}

// New creates a TimeKeeper in focus mode, idle, loaded with the focus duration.
func New(settings model.Settings, options Config) *TimeKeeper {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Clock == nil {
		options.Clock = TickerClock{}
	}
	if options.WakeLock == nil {
		options.WakeLock = noopWakeLock{}
	}
	if options.Notifier == nil {
		options.Notifier = noopNotifier{}
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.DiscardHandler)
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	keeper := &TimeKeeper{
		settings: settings,
		options:  options,
		mode:     model.ModeFocus,
	}
	keeper.loadModeLocked()
	return keeper
}

// Subscribe registers a new observer channel.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.stopped {
		close(ch)
		return ch
	}
	keeper.events = append(keeper.events, ch)
	return ch
}

// Snapshot returns the current timer state.
func (keeper *TimeKeeper) Snapshot() Snapshot {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.snapshotLocked()
}

// Settings returns a copy of the configured mode durations.
func (keeper *TimeKeeper) Settings() model.Settings {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.settings
}

// Start begins or resumes the countdown.
func (keeper *TimeKeeper) Start() error {
	return keeper.Dispatch(Start{})
}

// Pause freezes the countdown.
func (keeper *TimeKeeper) Pause() error {
	return keeper.Dispatch(Pause{})
}

// Toggle pauses a running countdown and starts an idle one.
func (keeper *TimeKeeper) Toggle() error {
	if keeper.Snapshot().Active {
		return keeper.Pause()
	}
	return keeper.Start()
}

// Reset restores the configured duration of the current mode.
func (keeper *TimeKeeper) Reset() error {
	return keeper.Dispatch(Reset{})
}

// SetMode switches to mode.
func (keeper *TimeKeeper) SetMode(mode model.Mode) error {
	return keeper.Dispatch(ChangeMode{Mode: mode})
}

// SetMinutes updates the configured duration of mode.
func (keeper *TimeKeeper) SetMinutes(mode model.Mode, minutes int) error {
	return keeper.Dispatch(ChangeSetting{Mode: mode, Minutes: minutes})
}

// Dispatch applies one command to the state machine.
func (keeper *TimeKeeper) Dispatch(cmd Command) error {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.stopped {
		return ErrStopped
	}

	switch cmd := cmd.(type) {
	case Start:
		return keeper.startLocked()
	case Pause:
		keeper.pauseLocked()
	case Reset:
		keeper.haltLocked()
		keeper.loadModeLocked()
		keeper.emitLocked(EventStateChange)
	case ChangeMode:
		if !cmd.Mode.Valid() {
			return fmt.Errorf("change mode: %w: %q", model.ErrUnknownMode, cmd.Mode)
		}
		keeper.haltLocked()
		keeper.mode = cmd.Mode
		keeper.loadModeLocked()
		keeper.emitLocked(EventStateChange)
	case ChangeSetting:
		return keeper.changeSettingLocked(cmd)
	case Tick:
		keeper.tickLocked(cmd)
	default:
		return fmt.Errorf("unsupported command %T", cmd)
	}
	return nil
}

// Stop cancels the clock, releases the wake lock and closes observers.
func (keeper *TimeKeeper) Stop() {
	keeper.mu.Lock()
	if keeper.stopped {
		keeper.mu.Unlock()
		return
	}
	keeper.haltLocked()
	keeper.stopped = true
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (keeper *TimeKeeper) startLocked() error {
	if keeper.active {
		return nil
	}
	if keeper.remaining <= 0 {
		return ErrNothingToCount
	}

	keeper.cancelTicksLocked()
	keeper.generation++
	generation := keeper.generation
	keeper.cancelTick = keeper.options.Clock.Every(keeper.options.TickInterval, func() {
		_ = keeper.Dispatch(Tick{Generation: generation})
	})
	keeper.active = true
	keeper.options.WakeLock.Acquire()
	keeper.options.Notifier.PrimeForUserGesture()

	keeper.options.Logger.Debug("timer started",
		"mode", keeper.mode,
		"remaining", keeper.remaining,
	)
	keeper.emitLocked(EventStateChange)
	return nil
}

func (keeper *TimeKeeper) pauseLocked() {
	if !keeper.active {
		return
	}
	keeper.haltLocked()
	keeper.options.Logger.Debug("timer paused",
		"mode", keeper.mode,
		"remaining", keeper.remaining,
	)
	keeper.emitLocked(EventStateChange)
}

func (keeper *TimeKeeper) changeSettingLocked(cmd ChangeSetting) error {
	if err := keeper.settings.SetMinutes(cmd.Mode, cmd.Minutes); err != nil {
		return fmt.Errorf("change setting: %w", err)
	}
	// A running countdown keeps its length; the new value applies on the
	// next Reset or ChangeMode into this mode.
	if cmd.Mode == keeper.mode && !keeper.active {
		keeper.loadModeLocked()
	}
	keeper.options.Logger.Debug("duration changed",
		"mode", cmd.Mode,
		"minutes", keeper.settings.Get(cmd.Mode).Minutes,
	)
	keeper.emitLocked(EventSettingsChange)
	return nil
}

func (keeper *TimeKeeper) tickLocked(tick Tick) {
	if !keeper.active || tick.Generation != keeper.generation {
		return
	}

	if keeper.remaining > 0 {
		keeper.remaining--
	}
	if keeper.remaining > 0 {
		keeper.emitLocked(EventProgress)
		return
	}

	keeper.haltLocked()
	keeper.options.Logger.Info("countdown finished", "mode", keeper.mode)
	keeper.options.Notifier.Notify()
	keeper.emitLocked(EventExpired)
}

// haltLocked leaves Running: cancels the tick source and releases the wake lock.
func (keeper *TimeKeeper) haltLocked() {
	keeper.cancelTicksLocked()
	keeper.active = false
	keeper.options.WakeLock.Release()
}

func (keeper *TimeKeeper) cancelTicksLocked() {
	if keeper.cancelTick != nil {
		keeper.cancelTick()
		keeper.cancelTick = nil
	}
	keeper.generation++
}

func (keeper *TimeKeeper) loadModeLocked() {
	keeper.remaining = keeper.settings.Get(keeper.mode).Seconds()
	keeper.total = keeper.remaining
}

func (keeper *TimeKeeper) snapshotLocked() Snapshot {
	return Snapshot{
		Mode:             keeper.mode,
		Label:            keeper.settings.Get(keeper.mode).Label,
		RemainingSeconds: keeper.remaining,
		TotalSeconds:     keeper.total,
		Active:           keeper.active,
	}
}

func (keeper *TimeKeeper) emitLocked(eventType EventType) {
	event := Event{
		Type:     eventType,
		Snapshot: keeper.snapshotLocked(),
		At:       keeper.options.Now(),
	}
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}
