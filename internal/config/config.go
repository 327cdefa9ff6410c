// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for helpdesk.
//
// Configuration sources (later sources win):
//   - Built-in defaults
//   - ~/.helpdesk/config.toml (or the path given with --config)
//   - A .env file in the working directory
//   - HELPDESK_* environment variables
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/jeranaias/helpdesk-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HELPDESK_"

// Config represents the complete helpdesk configuration.
type Config struct {
	Backend BackendConfig `toml:"backend" json:"backend" envPrefix:"BACKEND_"`
	UI      UIConfig      `toml:"ui" json:"ui" envPrefix:"UI_"`
	Log     LogConfig     `toml:"log" json:"log" envPrefix:"LOG_"`
}

// BackendConfig configures the chat service connection.
type BackendConfig struct {
	// URL is the chat service root.
	URL string `toml:"url" json:"url" env:"URL"`

	// RequestsPerSecond paces outgoing requests. 0 disables pacing.
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second" env:"REQUESTS_PER_SECOND"`

	// Burst is the number of requests allowed at once when pacing.
	Burst int `toml:"burst" json:"burst" env:"BURST"`
}

// UIConfig configures both views.
type UIConfig struct {
	// Theme is auto, dark or light.
	Theme string `toml:"theme" json:"theme" env:"THEME"`

	// Markdown renders bot replies through glamour.
	Markdown bool `toml:"markdown" json:"markdown" env:"MARKDOWN"`

	// ShowTimestamps prints the send time next to each message.
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps" env:"SHOW_TIMESTAMPS"`

	// HistoryFile stores line-mode input history. Empty uses the default.
	HistoryFile string `toml:"history_file" json:"history_file" env:"HISTORY_FILE"`
}

// LogConfig configures the diagnostic log.
type LogConfig struct {
	// Level is trace, debug, info, warn or error.
	Level string `toml:"level" json:"level" env:"LEVEL"`

	// File receives the log. "-" means stderr; empty uses the default.
	File string `toml:"file" json:"file" env:"FILE"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	DefaultBackendURL = "http://127.0.0.1:5000"
	DefaultTheme      = "auto"
	DefaultLogLevel   = "info"
	DefaultBurst      = 1
)

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:   DefaultBackendURL,
			Burst: DefaultBurst,
		},
		UI: UIConfig{
			Theme:    DefaultTheme,
			Markdown: true,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// SetDefaults fills empty fields with their defaults.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Backend.URL == "" {
		c.Backend.URL = d.Backend.URL
	}
	c.Backend.URL = strings.TrimRight(c.Backend.URL, "/")
	if c.Backend.Burst <= 0 {
		c.Backend.Burst = d.Backend.Burst
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	c.UI.Theme = strings.ToLower(c.UI.Theme)
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns ~/.helpdesk.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".helpdesk"), nil
}

// ConfigPath returns the default config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "helpdesk.log"), nil
}

// DefaultHistoryPath returns the default line-mode history path.
func DefaultHistoryPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the default config file, then applies overrides.
// A missing file is not an error.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config file at path, then applies .env and
// environment overrides, defaults and validation.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadDotEnv loads ./.env if present. Variables already set win.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// ApplyEnvOverrides overlays HELPDESK_* environment variables.
// Unset variables leave the current values alone.
func (c *Config) ApplyEnvOverrides() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes cfg as TOML to path with owner-only permissions.
func Save(cfg *Config, path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// String renders cfg as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var (
	validThemes    = map[string]bool{"auto": true, "dark": true, "light": true}
	validLogLevels = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true, "disabled": true}
)

// Validate checks the configuration and returns ValidateErrors on failure.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "backend.url",
			Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[:port]", c.Backend.URL),
		})
	}
	if c.Backend.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{Field: "backend.requests_per_second", Message: "must not be negative"})
	}
	if c.Backend.Burst < 0 {
		errs = append(errs, ValidationError{Field: "backend.burst", Message: "must not be negative"})
	}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s'", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// GLOBAL INSTANCE
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the process-wide configuration, loading it on first use.
// Load errors fall back to defaults.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal replaces the process-wide configuration. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting clears the process-wide configuration.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
