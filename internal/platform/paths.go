package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir returns the per-user configuration directory for appName.
func ConfigDir(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return filepath.Join(configDir, appName), nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}
	return filepath.Join(homeDir, ".config", appName), nil
}

// DataDir returns the per-user data directory for appName, honoring XDG_DATA_HOME.
func DataDir(appName string) string {
	if base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); base != "" {
		return filepath.Join(base, appName)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return filepath.Join(".", appName)
	}
	return filepath.Join(homeDir, ".local", "share", appName)
}
