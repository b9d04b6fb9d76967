package config

import (
	"fmt"
	"strings"

	"github.com/nibzard/taskclaw/internal/logging"
	"github.com/nibzard/taskclaw/internal/utils"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceFile    ConfigSource = "config file"
	SourceEnv     ConfigSource = "environment"
	SourceFlag    ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with the source of each field
// and any keys in the config file that were not recognised.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	Unknown []string
}

// Storage layouts.
const (
	StorageFiles     = "files"
	StorageAggregate = "aggregate"
)

// Aggregate document formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Default values.
const (
	DefaultDataDir       = "~/.taskclaw"
	DefaultStorage       = StorageFiles
	DefaultDataFormat    = FormatJSON
	DefaultShowCompleted = true
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "text"
)

// Config holds the full configuration for claw.
type Config struct {
	// Where task data lives.
	DataDir string `toml:"data_dir"`

	// "files" keeps one JSON file per task; "aggregate" keeps one document.
	Storage string `toml:"storage"`

	// Encoding of the aggregate document: json, yaml or toml.
	DataFormat string `toml:"data_format"`

	// Whether list shows completed tasks.
	ShowCompleted bool `toml:"show_completed"`

	// Logging
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`

	// Config file in effect (computed)
	ConfigFile string `toml:"-"`
}

// Validate rejects values no component knows how to handle.
func (c *Config) Validate() error {
	var problems []string
	switch c.Storage {
	case StorageFiles, StorageAggregate:
	default:
		problems = append(problems, fmt.Sprintf("storage %q (want files or aggregate)", c.Storage))
	}
	switch c.DataFormat {
	case FormatJSON, FormatYAML, FormatTOML:
	default:
		problems = append(problems, fmt.Sprintf("data_format %q (want json, yaml or toml)", c.DataFormat))
	}
	if !logging.ValidLevel(c.LogLevel) {
		problems = append(problems, fmt.Sprintf("log_level %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json", "logfmt":
	default:
		problems = append(problems, fmt.Sprintf("log_format %q (want text, json or logfmt)", c.LogFormat))
	}
	if strings.TrimSpace(c.DataDir) == "" {
		problems = append(problems, "data_dir is empty")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// normalize lowercases keyword fields so "YAML" and "yaml" are the same.
func (c *Config) normalize() {
	c.Storage = utils.NormalizeName(c.Storage)
	c.DataFormat = utils.NormalizeName(c.DataFormat)
	c.LogLevel = utils.NormalizeName(c.LogLevel)
	c.LogFormat = utils.NormalizeName(c.LogFormat)
}
