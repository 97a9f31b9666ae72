package app

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pomodoro/internal/config"
	"pomodoro/internal/core/model"
	"pomodoro/internal/core/timekeeper"
	"pomodoro/internal/platform"
	"pomodoro/internal/sound"
	"pomodoro/internal/ui/preferences"
	"pomodoro/internal/ui/theme"
	"pomodoro/internal/ui/timerview"
	"pomodoro/internal/ui/tray"
	"pomodoro/resources"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const (
	// Name is the display name, also used for the config dir and instance guard.
	Name = "Pomodoro"
	// ID is the fyne application identifier.
	ID = "com.pomodoro.app"

	eventBuffer = 16
)

// Options holds what New needs besides the fyne app.
// Nil collaborators get production defaults or no-ops.
type Options struct {
	Config   config.Config
	Logger   *slog.Logger
	Output   sound.Output
	WakeLock timekeeper.WakeLock
	Clock    timekeeper.Clock
}

// State owns every collaborator of a running timer.
type State struct {
	fyne        fyne.App
	logger      *slog.Logger
	Keeper      *timekeeper.TimeKeeper
	Notifier    *sound.Notifier
	WakeLock    *WakeLockSwitch
	Theme       *theme.Switcher
	View        *timerview.View
	Preferences *preferences.Window
	Tray        *tray.Manager
	stopOnce    sync.Once
}

// New wires the timer, sound, wake lock and windows onto fyneApp.
func New(fyneApp fyne.App, options Options) *State {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	output := options.Output
	if output == nil {
		output = sound.NewSpeakerOutput(sound.DefaultSampleRate)
	}

	state := &State{
		fyne:     fyneApp,
		logger:   logger,
		Notifier: sound.NewNotifier(output, notificationFallback{app: fyneApp}, logger.With("component", "sound")),
		WakeLock: NewWakeLockSwitch(options.WakeLock, options.Config.WakeLock),
		Theme:    theme.NewSwitcher(fyneApp.Settings(), options.Config.Theme),
	}
	state.applySound(options.Config)

	state.Keeper = timekeeper.New(options.Config.Settings, timekeeper.Config{
		TickInterval: time.Second,
		Clock:        options.Clock,
		WakeLock:     state.WakeLock,
		Notifier:     state.Notifier,
		Logger:       logger.With("component", "timekeeper"),
	})

	state.Preferences = preferences.New(fyneApp, state.Keeper, state.Notifier, preferences.Options{
		WakeLock:          options.Config.WakeLock,
		OnWakeLockChanged: state.WakeLock.SetEnabled,
	}, logger.With("component", "preferences"))

	if desk, ok := fyneApp.(desktop.App); ok {
		state.Tray = tray.New(desk, state.Keeper.Settings(), tray.Callbacks{
			OnShow:   state.ShowTimer,
			OnToggle: func() { state.command("toggle", state.Keeper.Toggle) },
			OnReset:  func() { state.command("reset", state.Keeper.Reset) },
			OnMode: func(mode model.Mode) {
				state.command("change mode", func() error { return state.Keeper.SetMode(mode) })
			},
			OnQuit: state.Quit,
		})
		state.Tray.SetIcons(resources.MustIcon(resources.ActiveIcon), resources.MustIcon(resources.PausedIcon))
		state.Tray.Update(state.Keeper.Snapshot())
	}

	state.View = timerview.New(fyneApp, Name, state.Keeper, timerview.Actions{
		OnSettings:    state.Preferences.Show,
		OnToggleTheme: state.ToggleTheme,
		OnClose:       state.closeTimer,
	}, logger.With("component", "timerview"))

	fyneApp.SetIcon(resources.MustIcon(resources.ActiveIcon))
	return state
}

// Start subscribes the observers and shows the timer window.
func (state *State) Start() {
	go state.View.Watch(state.Keeper.Subscribe(eventBuffer))
	if state.Tray != nil {
		go state.Tray.Watch(state.Keeper.Subscribe(eventBuffer))
	}
	go state.logEvents(state.Keeper.Subscribe(eventBuffer))
	state.View.Show()
}

// ShowTimer raises the timer window.
func (state *State) ShowTimer() {
	state.View.Show()
}

// ToggleTheme flips the app-wide light/dark variant.
func (state *State) ToggleTheme() {
	variant := state.Theme.Toggle()
	state.logger.Debug("theme changed", "variant", variant)
	state.View.Render(state.Keeper.Snapshot())
}

// Stop halts the countdown and closes all observers. It is idempotent.
func (state *State) Stop() {
	state.stopOnce.Do(func() {
		state.Keeper.Stop()
	})
}

// Quit stops the timer and exits the fyne event loop.
func (state *State) Quit() {
	state.Stop()
	state.fyne.Quit()
}

func (state *State) applySound(cfg config.Config) {
	if err := state.Notifier.Select(sound.Selection{Tone: cfg.Tone}); err != nil {
		state.logger.Warn("select tone", "tone", cfg.Tone, "error", err)
	}
	if cfg.SoundFile == "" {
		return
	}
	if err := state.Notifier.UseClipFile(cfg.SoundFile); err != nil {
		state.logger.Warn("load custom sound", "path", cfg.SoundFile, "error", err)
	}
}

func (state *State) closeTimer() {
	if state.Tray != nil {
		state.View.Window().Hide()
		return
	}
	state.Quit()
}

func (state *State) command(action string, command func() error) {
	if err := command(); err != nil && !errors.Is(err, timekeeper.ErrNothingToCount) {
		state.logger.Warn(action, "error", err)
	}
}

func (state *State) logEvents(events <-chan timekeeper.Event) {
	for event := range events {
		if event.Type == timekeeper.EventProgress {
			continue
		}
		state.logger.Info("timer "+string(event.Type),
			"mode", event.Snapshot.Mode,
			"remaining", event.Snapshot.Clock(),
			"active", event.Snapshot.Active)
	}
}

// Run starts the desktop application and blocks until it quits.
func Run(cfg config.Config, logger *slog.Logger) error {
	guard, err := platform.LockInstance(Name)
	if err != nil {
		return fmt.Errorf("another %s is already open: %w", Name, err)
	}
	defer func() {
		_ = guard.Release()
	}()

	wakeLock := platform.NewWakeLock(Name, logger.With("component", "wakelock"))
	defer wakeLock.Close()

	fyneApp := fyneapp.NewWithID(ID)
	state := New(fyneApp, Options{
		Config:   cfg,
		Logger:   logger,
		WakeLock: wakeLock,
	})
	state.Start()

	logger.Info("started", "instance", guard.Address(), "theme", cfg.Theme, "sound", state.Notifier.Selection().String())
	fyneApp.Run()
	state.Stop()
	return nil
}
