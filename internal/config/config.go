package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pomodoro/internal/core/model"
	"pomodoro/internal/sound"
	"pomodoro/internal/ui/theme"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

// Config holds the startup options of the timer. It is read once and never written back.
type Config struct {
	Settings  model.Settings
	Tone      string
	SoundFile string
	Theme     theme.Variant
	WakeLock  bool
}

type yamlConfig struct {
	FocusMinutes      *int   `yaml:"focus_minutes"`
	ShortBreakMinutes *int   `yaml:"short_break_minutes"`
	LongBreakMinutes  *int   `yaml:"long_break_minutes"`
	Tone              string `yaml:"tone"`
	SoundFile         string `yaml:"sound_file"`
	Theme             string `yaml:"theme"`
	WakeLock          *bool  `yaml:"wake_lock"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Settings: model.DefaultSettings(),
		Tone:     sound.DefaultTone,
		Theme:    theme.Light,
		WakeLock: true,
	}
}

// DefaultPath returns the config file location under the user config dir.
func DefaultPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, configFileName), nil
}

// Load reads the YAML file at path on top of the defaults.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	config := Default()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return config, fmt.Errorf("read config file: %w", err)
	}

	var fileData yamlConfig
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return config, fmt.Errorf("parse config yaml: %w", err)
	}

	if err := applyYamlConfig(&config, fileData); err != nil {
		return config, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

func applyYamlConfig(config *Config, fileData yamlConfig) error {
	minutes := map[model.Mode]*int{
		model.ModeFocus:      fileData.FocusMinutes,
		model.ModeShortBreak: fileData.ShortBreakMinutes,
		model.ModeLongBreak:  fileData.LongBreakMinutes,
	}
	for mode, value := range minutes {
		if value == nil {
			continue
		}
		if err := config.Settings.SetMinutes(mode, *value); err != nil {
			return err
		}
	}

	if fileData.Tone != "" {
		if _, err := sound.LookupTone(fileData.Tone); err != nil {
			return err
		}
		config.Tone = fileData.Tone
	}
	if fileData.Theme != "" {
		variant, err := theme.ParseVariant(fileData.Theme)
		if err != nil {
			return err
		}
		config.Theme = variant
	}
	if fileData.WakeLock != nil {
		config.WakeLock = *fileData.WakeLock
	}
	config.SoundFile = fileData.SoundFile
	return nil
}
