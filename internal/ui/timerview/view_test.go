package timerview

import (
	"testing"
	"time"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/timekeeper"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stillClock never ticks, so the view is driven only by taps.
type stillClock struct{}

func (stillClock) Every(time.Duration, func()) func() { return func() {} }

func newTestView(t *testing.T, actions Actions) (*View, *timekeeper.TimeKeeper) {
	t.Helper()
	app := test.NewTempApp(t)
	keeper := timekeeper.New(model.DefaultSettings(), timekeeper.Config{Clock: stillClock{}})
	t.Cleanup(keeper.Stop)
	return New(app, "Pomodoro", keeper, actions, nil), keeper
}

func TestViewRendersInitialState(t *testing.T) {
	view, _ := newTestView(t, Actions{})

	assert.Equal(t, "25:00", view.clock.Text)
	assert.Equal(t, "Focus", view.modeLabel.Text)
	assert.Equal(t, "Start", view.toggle.Text)
	assert.Equal(t, widget.HighImportance, view.modeButtons[model.ModeFocus].Importance)
	assert.Equal(t, widget.MediumImportance, view.modeButtons[model.ModeLongBreak].Importance)
	assert.Equal(t, "Short Break", view.modeButtons[model.ModeShortBreak].Text)
}

func TestViewToggleStartsAndPauses(t *testing.T) {
	view, keeper := newTestView(t, Actions{})

	test.Tap(view.toggle)
	assert.True(t, keeper.Snapshot().Active)
	assert.Equal(t, "Pause", view.toggle.Text)

	test.Tap(view.toggle)
	assert.False(t, keeper.Snapshot().Active)
	assert.Equal(t, "Start", view.toggle.Text)
}

func TestViewModeButtonSwitchesMode(t *testing.T) {
	view, keeper := newTestView(t, Actions{})
	test.Tap(view.toggle)

	test.Tap(view.modeButtons[model.ModeLongBreak])

	snapshot := keeper.Snapshot()
	assert.Equal(t, model.ModeLongBreak, snapshot.Mode)
	assert.False(t, snapshot.Active)
	assert.Equal(t, "10:00", view.clock.Text)
	assert.Equal(t, "Long Break", view.modeLabel.Text)
	assert.Equal(t, widget.HighImportance, view.modeButtons[model.ModeLongBreak].Importance)
	assert.Equal(t, widget.MediumImportance, view.modeButtons[model.ModeFocus].Importance)
}

func TestViewResetRestoresDuration(t *testing.T) {
	view, keeper := newTestView(t, Actions{})
	require.NoError(t, keeper.SetMinutes(model.ModeFocus, 3))
	test.Tap(view.toggle)

	test.Tap(view.reset)

	assert.Equal(t, "03:00", view.clock.Text)
	assert.Equal(t, "Start", view.toggle.Text)
}

func TestViewDisablesStartWithNothingToCount(t *testing.T) {
	view, keeper := newTestView(t, Actions{})

	require.NoError(t, keeper.SetMinutes(model.ModeFocus, 0))
	view.Render(keeper.Snapshot())

	assert.Equal(t, "00:00", view.clock.Text)
	assert.True(t, view.toggle.Disabled())
}

func TestViewWatchRendersEvents(t *testing.T) {
	view, keeper := newTestView(t, Actions{})
	events := keeper.Subscribe(8)
	done := make(chan struct{})
	go func() {
		view.Watch(events)
		close(done)
	}()

	require.NoError(t, keeper.SetMode(model.ModeShortBreak))
	keeper.Stop()
	<-done

	assert.Eventually(t, func() bool {
		return view.clock.Text == "05:00"
	}, time.Second, 10*time.Millisecond)
}

func TestViewHeaderActions(t *testing.T) {
	var settingsOpened, themeToggled bool
	view, _ := newTestView(t, Actions{
		OnSettings:    func() { settingsOpened = true },
		OnToggleTheme: func() { themeToggled = true },
	})

	view.actions.OnSettings()
	view.actions.OnToggleTheme()

	assert.True(t, settingsOpened)
	assert.True(t, themeToggled)
}
