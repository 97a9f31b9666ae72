package timerview

import (
	"errors"
	"log/slog"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/timekeeper"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const clockTextSize = 72

// Controller is the part of the TimeKeeper the view drives.
type Controller interface {
	Snapshot() timekeeper.Snapshot
	Settings() model.Settings
	Toggle() error
	Reset() error
	SetMode(mode model.Mode) error
}

// Actions are window-level callbacks owned by the application.
type Actions struct {
	OnSettings    func()
	OnToggleTheme func()
	OnClose       func()
}

// View is the main timer window.
type View struct {
	window      fyne.Window
	timer       Controller
	actions     Actions
	logger      *slog.Logger
	clock       *canvas.Text
	modeLabel   *widget.Label
	progress    *widget.ProgressBar
	modeButtons map[model.Mode]*widget.Button
	toggle      *widget.Button
	reset       *widget.Button
}

// New builds the timer window. It is not shown until Show is called.
func New(app fyne.App, title string, timer Controller, actions Actions, logger *slog.Logger) *View {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	view := &View{
		window:      app.NewWindow(title),
		timer:       timer,
		actions:     actions,
		logger:      logger,
		modeButtons: make(map[model.Mode]*widget.Button, len(model.Modes)),
	}

	view.clock = canvas.NewText("--:--", theme.Color(theme.ColorNameForeground))
	view.clock.TextSize = clockTextSize
	view.clock.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	view.clock.Alignment = fyne.TextAlignCenter

	view.modeLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	view.progress = widget.NewProgressBar()
	view.progress.TextFormatter = func() string { return "" }

	modeRow := container.NewGridWithColumns(len(model.Modes))
	for _, mode := range model.Modes {
		button := widget.NewButton(timer.Settings().Get(mode).Label, func() {
			view.run("change mode", func() error { return view.timer.SetMode(mode) })
		})
		view.modeButtons[mode] = button
		modeRow.Add(button)
	}

	view.toggle = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), func() {
		view.run("toggle", view.timer.Toggle)
	})
	view.toggle.Importance = widget.HighImportance
	view.reset = widget.NewButtonWithIcon("", theme.MediaReplayIcon(), func() {
		view.run("reset", view.timer.Reset)
	})

	header := container.NewHBox(
		widget.NewLabelWithStyle(title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		layout.NewSpacer(),
		widget.NewButtonWithIcon("", theme.ColorPaletteIcon(), func() {
			if view.actions.OnToggleTheme != nil {
				view.actions.OnToggleTheme()
			}
		}),
		widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
			if view.actions.OnSettings != nil {
				view.actions.OnSettings()
			}
		}),
	)

	controls := container.NewHBox(layout.NewSpacer(), view.toggle, view.reset, layout.NewSpacer())
	body := container.NewVBox(
		modeRow,
		container.NewCenter(view.clock),
		view.modeLabel,
		view.progress,
		controls,
	)

	view.window.SetContent(container.NewBorder(header, nil, nil, nil, body))
	view.window.Resize(fyne.NewSize(380, 320))
	view.window.SetCloseIntercept(func() {
		if view.actions.OnClose != nil {
			view.actions.OnClose()
			return
		}
		view.window.Close()
	})

	view.Render(timer.Snapshot())
	return view
}

// Window returns the underlying fyne window.
func (view *View) Window() fyne.Window {
	return view.window
}

// Show displays and focuses the window.
func (view *View) Show() {
	view.window.Show()
	view.window.RequestFocus()
}

// Render draws snapshot. It must run on the fyne goroutine.
func (view *View) Render(snapshot timekeeper.Snapshot) {
	view.clock.Text = snapshot.Clock()
	view.clock.Color = theme.Color(theme.ColorNameForeground)
	view.clock.Refresh()

	view.modeLabel.SetText(snapshot.Label)
	view.progress.SetValue(snapshot.Progress())

	if snapshot.Active {
		view.toggle.SetText("Pause")
		view.toggle.SetIcon(theme.MediaPauseIcon())
	} else {
		view.toggle.SetText("Start")
		view.toggle.SetIcon(theme.MediaPlayIcon())
	}
	if !snapshot.Active && snapshot.RemainingSeconds == 0 {
		view.toggle.Disable()
	} else {
		view.toggle.Enable()
	}

	for mode, button := range view.modeButtons {
		if mode == snapshot.Mode {
			button.Importance = widget.HighImportance
		} else {
			button.Importance = widget.MediumImportance
		}
		button.Refresh()
	}
}

// Watch renders every event until the channel closes. Expiry raises the window.
func (view *View) Watch(events <-chan timekeeper.Event) {
	for event := range events {
		fyne.Do(func() {
			view.Render(event.Snapshot)
			if event.Type == timekeeper.EventExpired {
				view.Show()
			}
		})
	}
}

func (view *View) run(action string, command func() error) {
	if err := command(); err != nil {
		if errors.Is(err, timekeeper.ErrNothingToCount) {
			view.logger.Info(action+" ignored", "reason", err)
		} else {
			view.logger.Warn(action, "error", err)
		}
	}
	view.Render(view.timer.Snapshot())
}
