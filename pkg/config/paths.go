package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// SettingsDirName is the per-project settings directory
const SettingsDirName = ".agentflow"

func BaseSettingsDir() string {
	// Check if config.path is explicitly set (for testing)
	if configPath := viper.GetString("config.path"); configPath != "" {
		return configPath
	}

	if currentConfig := viper.ConfigFileUsed(); currentConfig != "" {
		return filepath.Dir(currentConfig)
	}
	return SettingsDirName
}

func BuildSettingsPath(target string) string {
	return filepath.Join(BaseSettingsDir(), target)
}

// ResolvePath keeps absolute paths and paths that already name a
// directory, and places bare file names in the settings directory.
func ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if filepath.Dir(p) != "." {
		return p
	}
	return BuildSettingsPath(p)
}

// WriteDefaultConfig writes the current settings to path, preserving
// anything already loaded and filling in defaults.
func WriteDefaultConfig(path string) error {
	if path == "" {
		return fmt.Errorf("config file path not set")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}

	return nil
}
