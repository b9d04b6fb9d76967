package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user config directory.
const AppName = "claw"

// ConfigFileName is the config file inside the per-user config directory.
const ConfigFileName = "config.toml"

// DefaultConfigPath returns <user config dir>/claw/config.toml, or an
// empty string when no config directory can be determined.
func DefaultConfigPath() string {
	dir := osUserConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, AppName, ConfigFileName)
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	default:
		// Linux and the BSDs follow XDG.
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir
	cfg.Storage = DefaultStorage
	cfg.DataFormat = DefaultDataFormat
	cfg.ShowCompleted = DefaultShowCompleted
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
}

// Fields returns the configurable field names in display order.
func Fields() []string {
	return []string{
		"data_dir",
		"storage",
		"data_format",
		"show_completed",
		"log_level",
		"log_format",
		"log_timestamps",
	}
}
