package config

import (
	"os"
	"path/filepath"
	"testing"

	"pomodoro/internal/core/model"
	"pomodoro/internal/sound"
	"pomodoro/internal/ui/theme"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), config)
	assert.Equal(t, 25, config.Settings.Focus.Minutes)
	assert.Equal(t, sound.DefaultTone, config.Tone)
	assert.Equal(t, theme.Light, config.Theme)
	assert.True(t, config.WakeLock)
}

func TestLoadOverlaysFileValues(t *testing.T) {
	path := writeConfig(t, `
focus_minutes: 50
short_break_minutes: 0
long_break_minutes: -4
tone: digital
sound_file: /tmp/gong.mp3
theme: dark
wake_lock: false
`)

	config, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 50, config.Settings.Get(model.ModeFocus).Minutes)
	assert.Equal(t, 0, config.Settings.Get(model.ModeShortBreak).Minutes)
	assert.Equal(t, 0, config.Settings.Get(model.ModeLongBreak).Minutes, "negative coerced to zero")
	assert.Equal(t, "digital", config.Tone)
	assert.Equal(t, "/tmp/gong.mp3", config.SoundFile)
	assert.Equal(t, theme.Dark, config.Theme)
	assert.False(t, config.WakeLock)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	config, err := Load(writeConfig(t, "long_break_minutes: 15\n"))

	require.NoError(t, err)
	assert.Equal(t, 25, config.Settings.Focus.Minutes)
	assert.Equal(t, 15, config.Settings.LongBreak.Minutes)
	assert.True(t, config.WakeLock)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"bad yaml":  "focus_minutes: [",
		"bad tone":  "tone: klaxon\n",
		"bad theme": "theme: sepia\n",
		"bad type":  "focus_minutes: soon\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}

	_, err := Load(writeConfig(t, "tone: klaxon\n"))
	assert.ErrorIs(t, err, sound.ErrUnknownTone)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AppData", t.TempDir())

	path, err := DefaultPath("Pomodoro")

	require.NoError(t, err)
	assert.Equal(t, "config.yaml", filepath.Base(path))
	assert.Equal(t, "Pomodoro", filepath.Base(filepath.Dir(path)))
}
