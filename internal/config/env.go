package config

import (
	"os"
	"strings"
)

// Environment variables read by claw.
const (
	EnvConfig        = "CLAW_CONFIG"
	EnvDataDir       = "CLAW_DATA_DIR"
	EnvStorage       = "CLAW_STORAGE"
	EnvDataFormat    = "CLAW_DATA_FORMAT"
	EnvShowCompleted = "CLAW_SHOW_COMPLETED"
	EnvLogLevel      = "CLAW_LOG_LEVEL"
	EnvLogFormat     = "CLAW_LOG_FORMAT"
)

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
		set("data_dir")
	}
	if v := os.Getenv(EnvStorage); v != "" {
		cfg.Storage = v
		set("storage")
	}
	if v := os.Getenv(EnvDataFormat); v != "" {
		cfg.DataFormat = v
		set("data_format")
	}
	if v := os.Getenv(EnvShowCompleted); v != "" {
		cfg.ShowCompleted = boolFromString(v)
		set("show_completed")
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
		set("log_level")
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
		set("log_format")
	}
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
