package sound

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/faiface/beep"
)

// ErrNoClip indicates the custom selection was requested before a clip was loaded.
var ErrNoClip = errors.New("no custom clip loaded")

// AlertPattern is the on/off pattern handed to the fallback when playback fails.
var AlertPattern = []time.Duration{200 * time.Millisecond, 100 * time.Millisecond, 200 * time.Millisecond}

// Fallback raises a non-audio alert, such as a vibration or a desktop notification.
type Fallback interface {
	Alert(pattern []time.Duration) error
}

// NoopFallback ignores alerts.
type NoopFallback struct{}

// Alert does nothing.
func (NoopFallback) Alert([]time.Duration) error { return nil }

// Selection names the cue to play: a tone preset, or the custom clip.
type Selection struct {
	Tone   string
	Custom bool
}

// String returns the preset name or the custom marker.
func (selection Selection) String() string {
	if selection.Custom {
		return "custom"
	}
	return selection.Tone
}

// Notifier plays the selected cue at the end of a countdown.
type Notifier struct {
	mu        sync.Mutex
	output    Output
	fallback  Fallback
	logger    *slog.Logger
	selection Selection
	clip      *Clip
}

// NewNotifier creates a Notifier playing DefaultTone on output.
func NewNotifier(output Output, fallback Fallback, logger *slog.Logger) *Notifier {
	if fallback == nil {
		fallback = NoopFallback{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Notifier{
		output:    output,
		fallback:  fallback,
		logger:    logger,
		selection: Selection{Tone: DefaultTone},
	}
}

// Selection returns the current cue selection.
func (notifier *Notifier) Selection() Selection {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return notifier.selection
}

// Select changes the cue. Custom requires a loaded clip.
func (notifier *Notifier) Select(selection Selection) error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if selection.Custom {
		if notifier.clip == nil {
			return ErrNoClip
		}
	} else if _, err := LookupTone(selection.Tone); err != nil {
		return err
	}
	notifier.selection = selection
	return nil
}

// Clip returns the loaded custom clip, if any.
func (notifier *Notifier) Clip() *Clip {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return notifier.clip
}

// UseClip decodes a custom sound and selects it.
func (notifier *Notifier) UseClip(name string, rc io.ReadCloser) error {
	clip, err := DecodeClip(name, rc, notifier.output.SampleRate())
	if err != nil {
		return err
	}
	notifier.setClip(clip)
	return nil
}

// UseClipFile loads the custom sound at path and selects it.
func (notifier *Notifier) UseClipFile(path string) error {
	clip, err := LoadClip(path, notifier.output.SampleRate())
	if err != nil {
		return err
	}
	notifier.setClip(clip)
	return nil
}

func (notifier *Notifier) setClip(clip *Clip) {
	notifier.mu.Lock()
	notifier.clip = clip
	notifier.selection = Selection{Custom: true}
	notifier.mu.Unlock()

	notifier.logger.Info("custom sound loaded", "name", clip.Name, "samples", clip.Len())
}

// PrimeForUserGesture opens the output so the first cue plays promptly.
func (notifier *Notifier) PrimeForUserGesture() {
	if err := notifier.output.Open(); err != nil {
		notifier.logger.Warn("prime audio output", "error", err)
	}
}

// Notify plays the current selection and falls back to an alert if that fails.
func (notifier *Notifier) Notify() {
	selection := notifier.Selection()
	err := notifier.Preview(selection)
	if err == nil {
		return
	}

	notifier.logger.Warn("play notification", "selection", selection.String(), "error", err)
	if alertErr := notifier.fallback.Alert(AlertPattern); alertErr != nil {
		notifier.logger.Warn("fallback alert", "error", alertErr)
	}
}

// Preview plays selection without changing the current selection.
func (notifier *Notifier) Preview(selection Selection) error {
	streamer, err := notifier.streamer(selection)
	if err != nil {
		return err
	}
	if err := notifier.output.Play(streamer); err != nil {
		return fmt.Errorf("play %s: %w", selection, err)
	}
	return nil
}

func (notifier *Notifier) streamer(selection Selection) (beep.Streamer, error) {
	if selection.Custom {
		clip := notifier.Clip()
		if clip == nil {
			return nil, ErrNoClip
		}
		return clip.Streamer(), nil
	}
	tone, err := LookupTone(selection.Tone)
	if err != nil {
		return nil, err
	}
	return tone.Streamer(notifier.output.SampleRate()), nil
}
