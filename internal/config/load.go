package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// LoadWithSources loads configuration from multiple sources in priority
// order and tracks the source of each value:
// 1. Defaults
// 2. Config file (--config, CLAW_CONFIG or <config dir>/claw/config.toml)
// 3. Environment variables
// 4. CLI flags
func LoadWithSources(flags *pflag.FlagSet) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	cfg := &Config{}

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range Fields() {
		sources[field] = SourceDefault
	}

	// 2. Config file; a missing file is fine, a malformed one is not
	path, _, err := configPathFromFlags(flags)
	if err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}
	cfg.ConfigFile = path
	var unknown []string
	if path != "" {
		unknown, err = loadConfigFile(cfg, path, sources)
		if err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// 3. Override from environment
	loadFromEnv(cfg, sources)

	// 4. Flags override everything
	if err := applyFlags(cfg, flags, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 5. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, err
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
		Unknown: unknown,
	}, nil
}

// loadConfigFile decodes TOML from path into cfg, recording which keys the
// file defined. It returns the keys it did not recognise.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource) ([]string, error) {
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for _, field := range Fields() {
		if md.IsDefined(field) {
			sources[field] = SourceFile
		}
	}
	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}
	sort.Strings(unknown)
	return unknown, nil
}

// finalizeConfig normalizes keywords, expands paths and validates.
func finalizeConfig(cfg *Config) error {
	cfg.normalize()
	cfg.DataDir = expandPath(cfg.DataDir)
	return cfg.Validate()
}

// Encode renders cfg as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}
