// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for the
// carewell TUI.
//
// Configuration is read from ~/.carewell/config.toml with built-in defaults
// and CAREWELL_* environment variable overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete carewell client configuration.
type Config struct {
	// Server settings
	Server ServerConfig `toml:"server"`

	// Chat settings
	Chat ChatConfig `toml:"chat"`

	// Admin dashboard settings
	Admin AdminConfig `toml:"admin"`

	// UI settings
	UI UIConfig `toml:"ui"`
}

// ServerConfig holds remote service connection settings.
type ServerConfig struct {
	// URL is the base URL of the Carewell service
	URL string `toml:"url"`
	// TimeoutSeconds is the per-request timeout
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// ChatConfig holds conversation settings.
type ChatConfig struct {
	// HistoryLimit is how many past turns to hydrate on mount
	HistoryLimit int `toml:"history_limit"`
}

// AdminConfig holds admin dashboard settings.
type AdminConfig struct {
	// RefreshSeconds is the auto-refresh period while unlocked
	RefreshSeconds int `toml:"refresh_seconds"`
	// FetchLimit caps how many chat/alert rows each poll requests
	FetchLimit int `toml:"fetch_limit"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// Theme selects the color theme ("dark" or "light")
	Theme string `toml:"theme"`
	// RenderMarkdown enables glamour rendering of AI replies
	RenderMarkdown bool `toml:"render_markdown"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:            "http://localhost:5000",
			TimeoutSeconds: 30,
		},
		Chat: ChatConfig{
			HistoryLimit: 50,
		},
		Admin: AdminConfig{
			RefreshSeconds: 15,
			FetchLimit:     50,
		},
		UI: UIConfig{
			Theme:          "dark",
			RenderMarkdown: true,
		},
	}
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// RefreshInterval returns the admin auto-refresh period as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Admin.RefreshSeconds) * time.Second
}

// =============================================================================
// LOADING
// =============================================================================

// Dir returns the carewell configuration directory (~/.carewell),
// creating it if necessary.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".carewell")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("cannot create config directory: %w", err)
	}
	return dir, nil
}

// Load reads the configuration from ~/.carewell/config.toml. A missing file
// is not an error; defaults are returned. Environment overrides are applied
// last.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(dir, "config.toml"))
}

// LoadFrom reads the configuration from the given path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies CAREWELL_* environment variables on top of the
// file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CAREWELL_SERVER_URL"); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv("CAREWELL_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Server.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("CAREWELL_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Chat.HistoryLimit = n
		}
	}
	if v := os.Getenv("CAREWELL_REFRESH_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Admin.RefreshSeconds = n
		}
	}
	if v := os.Getenv("CAREWELL_THEME"); v != "" {
		cfg.UI.Theme = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for values the client cannot work with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server.url %q is not a valid URL", c.Server.URL)
	}
	if c.Server.TimeoutSeconds <= 0 {
		return fmt.Errorf("server.timeout_seconds must be positive, got %d", c.Server.TimeoutSeconds)
	}
	if c.Chat.HistoryLimit <= 0 {
		return fmt.Errorf("chat.history_limit must be positive, got %d", c.Chat.HistoryLimit)
	}
	if c.Admin.RefreshSeconds <= 0 {
		return fmt.Errorf("admin.refresh_seconds must be positive, got %d", c.Admin.RefreshSeconds)
	}
	if c.Admin.FetchLimit <= 0 {
		return fmt.Errorf("admin.fetch_limit must be positive, got %d", c.Admin.FetchLimit)
	}
	return nil
}

// Save writes the configuration to the given path in TOML format.
func (c *Config) Save(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("cannot encode config: %w", err)
	}
	return nil
}
