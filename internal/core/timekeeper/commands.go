package timekeeper

import "pomodoro/internal/core/model"

// Command is an input to the TimeKeeper transition function.
type Command interface {
	command()
}

// Start begins counting down from the current remaining time.
type Start struct{}

// Pause stops counting and keeps the remaining time.
type Pause struct{}

// Reset stops counting and restores the configured duration of the current mode.
type Reset struct{}

// ChangeMode switches to Mode and loads its configured duration.
type ChangeMode struct {
	Mode model.Mode
}

// ChangeSetting updates the configured minutes of Mode.
type ChangeSetting struct {
	Mode    model.Mode
	Minutes int
}

// Tick advances the countdown by one second. Generation identifies the
// clock subscription that produced it.
type Tick struct {
	Generation uint64
}

func (Start) command()         {}
func (Pause) command()         {}
func (Reset) command()         {}
func (ChangeMode) command()    {}
func (ChangeSetting) command() {}
func (Tick) command()          {}
