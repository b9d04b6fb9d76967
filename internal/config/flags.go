package config

import (
	"os"

	"github.com/spf13/pflag"
)

// Flag names shared by every command.
const (
	FlagConfig   = "config"
	FlagDataDir  = "data-dir"
	FlagStorage  = "storage"
	FlagFormat   = "format"
	FlagLogLevel = "log-level"
)

// RegisterFlags adds the global configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "Path to config file (default: <config dir>/claw/config.toml)")
	fs.String(FlagDataDir, "", "Directory holding task data (default: "+DefaultDataDir+")")
	fs.String(FlagStorage, "", "Storage layout: files or aggregate")
	fs.String(FlagFormat, "", "Aggregate document format: json, yaml or toml")
	fs.String(FlagLogLevel, "", "Log level: debug, info, warn, error")
}

// applyFlags overrides cfg with flags the user actually set.
func applyFlags(cfg *Config, fs *pflag.FlagSet, sources map[string]ConfigSource) error {
	if fs == nil {
		return nil
	}
	bindings := []struct {
		flag  string
		field string
		dst   *string
	}{
		{FlagDataDir, "data_dir", &cfg.DataDir},
		{FlagStorage, "storage", &cfg.Storage},
		{FlagFormat, "data_format", &cfg.DataFormat},
		{FlagLogLevel, "log_level", &cfg.LogLevel},
	}
	for _, b := range bindings {
		if fs.Lookup(b.flag) == nil || !fs.Changed(b.flag) {
			continue
		}
		v, err := fs.GetString(b.flag)
		if err != nil {
			return err
		}
		*b.dst = v
		if sources != nil {
			sources[b.field] = SourceFlag
		}
	}
	return nil
}

// Path resolves the config file without reading it: --config, then
// CLAW_CONFIG, then the per-user default.
func Path(fs *pflag.FlagSet) (string, error) {
	p, _, err := configPathFromFlags(fs)
	return p, err
}

// configPathFromFlags also reports whether the path was chosen explicitly.
func configPathFromFlags(fs *pflag.FlagSet) (string, bool, error) {
	if fs != nil && fs.Lookup(FlagConfig) != nil && fs.Changed(FlagConfig) {
		p, err := fs.GetString(FlagConfig)
		if err != nil {
			return "", false, err
		}
		return expandPath(p), true, nil
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return expandPath(p), true, nil
	}
	return DefaultConfigPath(), false, nil
}
