package cli

import (
	"fmt"
	"io"
	"log/slog"

	"pomodoro/internal/config"
	"pomodoro/internal/core/model"
	"pomodoro/internal/sound"
	"pomodoro/internal/ui/theme"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// RunFunc starts the timer with the resolved configuration.
type RunFunc func(cfg config.Config, logger *slog.Logger) error

type flagValues struct {
	configPath string
	focus      int
	shortBreak int
	longBreak  int
	tone       string
	soundFile  string
	theme      string
	noWakeLock bool
	verbose    bool
}

// NewRootCmd creates the top-level "pomodoro" command. appName locates the
// default config file.
func NewRootCmd(appName string, run RunFunc) *cobra.Command {
	var values flagValues

	cmd := &cobra.Command{
		Use:           "pomodoro",
		Short:         "Desktop Pomodoro timer",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := NewLogger(cmd.ErrOrStderr(), values.verbose)

			path := values.configPath
			if path == "" {
				defaultPath, err := config.DefaultPath(appName)
				if err != nil {
					return err
				}
				path = defaultPath
			}

			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if err := applyFlags(&cfg, cmd.Flags(), values); err != nil {
				return err
			}

			logger.Debug("configuration resolved",
				"path", path,
				"focus", cfg.Settings.Focus.Minutes,
				"short_break", cfg.Settings.ShortBreak.Minutes,
				"long_break", cfg.Settings.LongBreak.Minutes,
				"tone", cfg.Tone,
				"theme", cfg.Theme,
				"wake_lock", cfg.WakeLock)
			return run(cfg, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&values.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/"+appName+"/config.yaml)")
	flags.IntVar(&values.focus, "focus", 0, "Focus length in minutes")
	flags.IntVar(&values.shortBreak, "short-break", 0, "Short break length in minutes")
	flags.IntVar(&values.longBreak, "long-break", 0, "Long break length in minutes")
	flags.StringVar(&values.tone, "tone", "", fmt.Sprintf("Notification tone %v", sound.ToneNames()))
	flags.StringVar(&values.soundFile, "sound", "", "Custom notification sound (.mp3 or .wav)")
	flags.StringVar(&values.theme, "theme", "", "Color theme (light|dark)")
	flags.BoolVar(&values.noWakeLock, "no-wake-lock", false, "Let the screen sleep while the timer runs")
	flags.BoolVarP(&values.verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

// NewLogger returns the text logger written to w.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func applyFlags(cfg *config.Config, flags *pflag.FlagSet, values flagValues) error {
	minutes := []struct {
		name  string
		mode  model.Mode
		value int
	}{
		{"focus", model.ModeFocus, values.focus},
		{"short-break", model.ModeShortBreak, values.shortBreak},
		{"long-break", model.ModeLongBreak, values.longBreak},
	}
	for _, flag := range minutes {
		if !flags.Changed(flag.name) {
			continue
		}
		if err := cfg.Settings.SetMinutes(flag.mode, flag.value); err != nil {
			return fmt.Errorf("--%s: %w", flag.name, err)
		}
	}

	if flags.Changed("tone") {
		if _, err := sound.LookupTone(values.tone); err != nil {
			return fmt.Errorf("--tone: %w", err)
		}
		cfg.Tone = values.tone
	}
	if flags.Changed("sound") {
		cfg.SoundFile = values.soundFile
	}
	if flags.Changed("theme") {
		variant, err := theme.ParseVariant(values.theme)
		if err != nil {
			return fmt.Errorf("--theme: %w", err)
		}
		cfg.Theme = variant
	}
	if values.noWakeLock {
		cfg.WakeLock = false
	}
	return nil
}
