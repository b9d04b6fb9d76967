// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. Config file (--config, CLAW_CONFIG, or the per-user location below)
// 3. Environment variables (CLAW_*)
// 4. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
// A missing config file is not an error; a malformed one is.
//
// Per-user config locations:
// - Windows: %APPDATA%\claw\config.toml
// - macOS: ~/Library/Application Support/claw/config.toml
// - Linux/BSD: $XDG_CONFIG_HOME/claw/config.toml or ~/.config/claw/config.toml
package config
