package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"breathwork/internal/core/model"
	"breathwork/internal/platform"
	"breathwork/internal/ui/preferences"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	settingsFileName = "settings.yaml"
	envPrefix        = "BREATHWORK"
)

type yamlSettings struct {
	Rounds         int     `yaml:"rounds" mapstructure:"rounds"`
	Breaths        int     `yaml:"breaths" mapstructure:"breaths"`
	Speed          string  `yaml:"speed" mapstructure:"speed"`
	CycleSeconds   float64 `yaml:"cycle_seconds,omitempty" mapstructure:"cycle_seconds"`
	HistoryEnabled bool    `yaml:"history_enabled" mapstructure:"history_enabled"`
}

// LoadSettings reads user preferences for appName.
// If the config file does not exist, defaults and environment overrides are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// LoadSettingsFile reads preferences from path. Values are layered as
// defaults, then the YAML file, then BREATHWORK_* environment variables.
func LoadSettingsFile(path string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	v := viper.New()
	v.SetDefault("rounds", settings.Rounds)
	v.SetDefault("breaths", settings.Breaths)
	v.SetDefault("speed", string(settings.Speed))
	v.SetDefault("cycle_seconds", settings.CycleSeconds)
	v.SetDefault("history_enabled", settings.HistoryEnabled)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return settings, fmt.Errorf("parse settings yaml: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := v.Unmarshal(&fileData); err != nil {
		return settings, fmt.Errorf("decode settings: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences for appName.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// SaveSettingsFile writes preferences to path as YAML.
func SaveSettingsFile(path string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		Rounds:         settings.Rounds,
		Breaths:        settings.Breaths,
		Speed:          string(settings.Speed),
		CycleSeconds:   settings.CycleSeconds,
		HistoryEnabled: settings.HistoryEnabled,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// SettingsPath returns the settings file location for appName.
func SettingsPath(appName string) (string, error) {
	configDir, err := platform.ConfigDir(appName)
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.Rounds > 0 {
		settings.Rounds = fileData.Rounds
	}
	if fileData.Breaths > 0 {
		settings.Breaths = fileData.Breaths
	}
	if speed, err := model.ParseSpeed(strings.ToLower(fileData.Speed)); err == nil {
		settings.Speed = speed
	}
	if fileData.CycleSeconds > 0 {
		settings.CycleSeconds = fileData.CycleSeconds
	}
	settings.HistoryEnabled = fileData.HistoryEnabled
}
