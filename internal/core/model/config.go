package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownMode indicates a mode key outside focus, shortBreak and longBreak.
var ErrUnknownMode = errors.New("unknown mode")

// Mode identifies one of the three countdown modes.
type Mode string

const (
	ModeFocus      Mode = "focus"
	ModeShortBreak Mode = "shortBreak"
	ModeLongBreak  Mode = "longBreak"
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeFocus, ModeShortBreak, ModeLongBreak}

// ParseMode converts a mode key to a Mode.
func ParseMode(value string) (Mode, error) {
	for _, mode := range Modes {
		if strings.EqualFold(string(mode), strings.TrimSpace(value)) {
			return mode, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, value)
}

// Valid reports whether mode is one of the known keys.
func (mode Mode) Valid() bool {
	switch mode {
	case ModeFocus, ModeShortBreak, ModeLongBreak:
		return true
	}
	return false
}

// ModeConfig holds the configured length and display label of a mode.
type ModeConfig struct {
	Minutes int
	Label   string
}

// Seconds returns the configured length in whole seconds.
func (config ModeConfig) Seconds() int {
	return config.Minutes * 60
}

// Duration returns the configured length.
func (config ModeConfig) Duration() time.Duration {
	return time.Duration(config.Minutes) * time.Minute
}

// Settings maps every mode to its configuration. The key set is fixed.
type Settings struct {
	Focus      ModeConfig
	ShortBreak ModeConfig
	LongBreak  ModeConfig
}

// DefaultSettings returns the 25/5/10 minute defaults.
func DefaultSettings() Settings {
	return Settings{
		Focus:      ModeConfig{Minutes: 25, Label: "Focus"},
		ShortBreak: ModeConfig{Minutes: 5, Label: "Short Break"},
		LongBreak:  ModeConfig{Minutes: 10, Label: "Long Break"},
	}
}

// Get returns the configuration for mode. Unknown modes yield a zero config.
func (settings Settings) Get(mode Mode) ModeConfig {
	switch mode {
	case ModeFocus:
		return settings.Focus
	case ModeShortBreak:
		return settings.ShortBreak
	case ModeLongBreak:
		return settings.LongBreak
	}
	return ModeConfig{}
}

// SetMinutes updates the duration of mode. Negative values are stored as 0.
func (settings *Settings) SetMinutes(mode Mode, minutes int) error {
	if minutes < 0 {
		minutes = 0
	}
	switch mode {
	case ModeFocus:
		settings.Focus.Minutes = minutes
	case ModeShortBreak:
		settings.ShortBreak.Minutes = minutes
	case ModeLongBreak:
		settings.LongBreak.Minutes = minutes
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	return nil
}

// ParseMinutes reads the leading integer of a number-input value.
// Non-numeric text and negative numbers yield 0.
func ParseMinutes(value string) int {
	value = strings.TrimSpace(value)
	negative := false
	if value != "" && (value[0] == '-' || value[0] == '+') {
		negative = value[0] == '-'
		value = value[1:]
	}

	const limit = 1 << 20
	minutes := 0
	for _, r := range value {
		if r < '0' || r > '9' {
			break
		}
		minutes = minutes*10 + int(r-'0')
		if minutes > limit {
			minutes = limit
		}
	}
	if negative {
		return 0
	}
	return minutes
}
