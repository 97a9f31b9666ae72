package timekeeper

import (
	"fmt"
	"time"

	"pomodoro/internal/core/model"
)

// State represents whether the countdown is advancing.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStateChange    EventType = "state_change"
	EventProgress       EventType = "progress"
	EventExpired        EventType = "expired"
	EventSettingsChange EventType = "settings_change"
)

// Snapshot is a copy of the timer state at one instant.
type Snapshot struct {
	Mode             model.Mode
	Label            string
	RemainingSeconds int
	TotalSeconds     int
	Active           bool
}

// State reports Idle or Running.
func (snapshot Snapshot) State() State {
	if snapshot.Active {
		return StateRunning
	}
	return StateIdle
}

// Remaining returns the remaining time as a duration.
func (snapshot Snapshot) Remaining() time.Duration {
	return time.Duration(snapshot.RemainingSeconds) * time.Second
}

// Progress returns the elapsed fraction of the current countdown.
func (snapshot Snapshot) Progress() float64 {
	if snapshot.TotalSeconds <= 0 {
		return 0
	}
	progress := float64(snapshot.TotalSeconds-snapshot.RemainingSeconds) / float64(snapshot.TotalSeconds)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// Clock formats the remaining time as MM:SS.
func (snapshot Snapshot) Clock() string {
	return FormatClock(snapshot.RemainingSeconds)
}

// FormatClock formats seconds as zero-padded MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type EventType
	Snapshot
	At time.Time
}
