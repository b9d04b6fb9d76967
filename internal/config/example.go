package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrConfigExists is returned by WriteExample when the target file exists
// and overwriting was not requested.
var ErrConfigExists = errors.New("config file already exists")

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# claw configuration file
# Values can be overridden by CLAW_* environment variables or CLI flags

# Directory holding task data (supports ~ and $VAR expansion)
data_dir = "~/.taskclaw"

# Storage layout:
#   files     - one JSON file per task under <data_dir>/tasks/
#   aggregate - a single <data_dir>/tasks.<data_format> document
storage = "files"

# Format of the aggregate document: json, yaml or toml
data_format = "json"

# Show completed tasks in "claw list"
show_completed = true

# Logging (written to stderr): debug, info, warn, error
log_level = "warn"
# text, json or logfmt
log_format = "text"
log_timestamps = false
`
}

// WriteExample writes ExampleConfig to path, creating parent directories.
// An existing file is only replaced when force is set.
func WriteExample(path string, force bool) error {
	if path == "" {
		return errors.New("no config path could be determined")
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(ExampleConfig()), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
