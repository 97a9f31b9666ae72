package cli

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"pomodoro/internal/config"
	"pomodoro/internal/sound"
	"pomodoro/internal/ui/theme"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (config.Config, string, error) {
	t.Helper()
	var got config.Config
	var stderr bytes.Buffer
	cmd := NewRootCmd("Pomodoro", func(cfg config.Config, logger *slog.Logger) error {
		got = cfg
		logger.Debug("run called")
		return nil
	})
	cmd.SetErr(&stderr)
	cmd.SetOut(&stderr)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := cmd.Execute()
	return got, stderr.String(), err
}

func TestRootDefaults(t *testing.T) {
	cfg, output, err := execute(t)

	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.NotContains(t, output, "run called")
}

func TestRootFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("focus_minutes: 40\ntone: soft\n"), 0o644))

	cfg, _, err := execute(t,
		"--config", path,
		"--short-break", "7",
		"--long-break=-2",
		"--tone", "digital",
		"--sound", "/tmp/ring.wav",
		"--theme", "dark",
		"--no-wake-lock",
	)

	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Settings.Focus.Minutes, "file value kept when flag absent")
	assert.Equal(t, 7, cfg.Settings.ShortBreak.Minutes)
	assert.Equal(t, 0, cfg.Settings.LongBreak.Minutes)
	assert.Equal(t, "digital", cfg.Tone)
	assert.Equal(t, "/tmp/ring.wav", cfg.SoundFile)
	assert.Equal(t, theme.Dark, cfg.Theme)
	assert.False(t, cfg.WakeLock)
}

func TestRootRejectsInvalidFlags(t *testing.T) {
	_, _, err := execute(t, "--tone", "klaxon")
	assert.ErrorIs(t, err, sound.ErrUnknownTone)

	_, _, err = execute(t, "--theme", "sepia")
	assert.Error(t, err)

	_, _, err = execute(t, "--focus", "soon")
	assert.Error(t, err)

	_, _, err = execute(t, "extra")
	assert.Error(t, err)
}

func TestRootRejectsBadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: [\n"), 0o644))

	_, _, err := execute(t, "--config", path)
	assert.Error(t, err)
}

func TestRootVerboseLogsDebug(t *testing.T) {
	_, output, err := execute(t, "--verbose")

	require.NoError(t, err)
	assert.Contains(t, output, "configuration resolved")
	assert.Contains(t, output, "run called")
}
