package preferences

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"pomodoro/internal/core/model"
	"pomodoro/internal/sound"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// CustomSoundOption is the selector entry standing for the loaded clip.
const CustomSoundOption = "Custom file…"

// Controller is the part of the TimeKeeper the settings window edits.
type Controller interface {
	Settings() model.Settings
	SetMinutes(mode model.Mode, minutes int) error
}

// SoundController is the part of the Notifier the settings window edits.
type SoundController interface {
	Selection() sound.Selection
	Select(selection sound.Selection) error
	UseClip(name string, rc io.ReadCloser) error
	Preview(selection sound.Selection) error
}

// Options carries the initial wake lock state and its change callback.
type Options struct {
	WakeLock          bool
	OnWakeLockChanged func(enabled bool)
}

// Window handles the preferences UI.
type Window struct {
	window      fyne.Window
	timer       Controller
	sound       SoundController
	logger      *slog.Logger
	entries     map[model.Mode]*widget.Entry
	soundSelect *widget.Select
	chooseFile  *widget.Button
	preview     *widget.Button
	wakeLock    *widget.Check
	status      *widget.Label
	syncing     bool
}

// New creates a preferences window. Edits apply immediately.
func New(app fyne.App, timer Controller, notifier SoundController, options Options, logger *slog.Logger) *Window {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	prefs := &Window{
		window:  app.NewWindow("Pomodoro Settings"),
		timer:   timer,
		sound:   notifier,
		logger:  logger,
		entries: make(map[model.Mode]*widget.Entry, len(model.Modes)),
		status:  widget.NewLabel(""),
	}

	settings := timer.Settings()
	durations := container.NewVBox(
		widget.NewLabelWithStyle("Durations", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	for _, mode := range model.Modes {
		entry := widget.NewEntry()
		entry.SetText(strconv.Itoa(settings.Get(mode).Minutes))
		entry.OnChanged = func(text string) {
			prefs.setMinutes(mode, text)
		}
		prefs.entries[mode] = entry
		durations.Add(container.NewBorder(nil, nil,
			widget.NewLabel(settings.Get(mode).Label), widget.NewLabel("min"), entry))
	}

	soundOptions := append(sound.ToneNames(), CustomSoundOption)
	prefs.soundSelect = widget.NewSelect(soundOptions, prefs.selectSound)
	prefs.chooseFile = widget.NewButton("Choose file…", prefs.openClipDialog)
	prefs.preview = widget.NewButton("Preview", prefs.previewSound)
	prefs.syncSoundSelect()

	prefs.wakeLock = widget.NewCheck("Keep screen awake while running", nil)
	prefs.wakeLock.SetChecked(options.WakeLock)
	prefs.wakeLock.OnChanged = func(enabled bool) {
		prefs.logger.Debug("wake lock preference", "enabled", enabled)
		if options.OnWakeLockChanged != nil {
			options.OnWakeLockChanged(enabled)
		}
	}

	form := container.NewVBox(
		durations,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Sound", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.soundSelect,
		container.NewHBox(prefs.chooseFile, prefs.preview),
		widget.NewSeparator(),
		prefs.wakeLock,
		prefs.status,
	)

	doneButton := widget.NewButton("Done", prefs.window.Hide)
	buttons := container.NewHBox(layout.NewSpacer(), doneButton)

	prefs.window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	prefs.window.Resize(fyne.NewSize(360, 420))
	prefs.window.SetCloseIntercept(prefs.window.Hide)

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.syncSoundSelect()
	prefs.status.SetText("")
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// Hide closes the window without discarding it.
func (prefs *Window) Hide() {
	prefs.window.Hide()
}

func (prefs *Window) setMinutes(mode model.Mode, text string) {
	if err := prefs.timer.SetMinutes(mode, model.ParseMinutes(text)); err != nil {
		prefs.logger.Warn("set minutes", "mode", mode, "error", err)
	}
}

func (prefs *Window) selectSound(option string) {
	if prefs.syncing {
		return
	}
	selection := sound.Selection{Tone: option}
	if option == CustomSoundOption {
		selection = sound.Selection{Custom: true}
	}

	err := prefs.sound.Select(selection)
	switch {
	case err == nil:
		prefs.status.SetText("")
	case errors.Is(err, sound.ErrNoClip):
		prefs.openClipDialog()
	default:
		prefs.showError("select sound", err)
		prefs.syncSoundSelect()
	}
}

func (prefs *Window) openClipDialog() {
	picker := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			prefs.showError("open sound file", err)
			prefs.syncSoundSelect()
			return
		}
		if reader == nil {
			prefs.syncSoundSelect()
			return
		}
		prefs.loadClip(reader.URI().Name(), reader)
	}, prefs.window)
	picker.SetFilter(storage.NewExtensionFileFilter(sound.ClipExtensions))
	picker.Show()
}

func (prefs *Window) loadClip(name string, rc io.ReadCloser) {
	if err := prefs.sound.UseClip(name, rc); err != nil {
		prefs.showError("load "+name, err)
	} else {
		prefs.status.SetText(fmt.Sprintf("Using %s", name))
	}
	prefs.syncSoundSelect()
}

func (prefs *Window) previewSound() {
	selection := prefs.sound.Selection()
	if err := prefs.sound.Preview(selection); err != nil {
		prefs.showError("preview "+selection.String(), err)
	}
}

func (prefs *Window) syncSoundSelect() {
	selection := prefs.sound.Selection()
	option := selection.Tone
	if selection.Custom {
		option = CustomSoundOption
	}
	prefs.syncing = true
	prefs.soundSelect.SetSelected(option)
	prefs.syncing = false
}

func (prefs *Window) showError(action string, err error) {
	prefs.logger.Warn(action, "error", err)
	prefs.status.SetText(fmt.Sprintf("Could not %s: %v", action, err))
}
