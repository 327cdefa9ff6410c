// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/jeranaias/helpdesk-tui/internal/backend"
	"github.com/jeranaias/helpdesk-tui/internal/config"
	"github.com/jeranaias/helpdesk-tui/internal/logging"
)

// Flags holds the global command-line flags.
type Flags struct {
	ConfigPath string
	URL        string
	LogLevel   string
	Plain      bool
}

// =============================================================================
// APP
// =============================================================================

// app is what every chat command needs: resolved config, a logger and a
// service client.
type app struct {
	cfg        *config.Config
	configPath string
	logger     zerolog.Logger
	logCloser  io.Closer
	backend    *backend.Client
}

// loadConfig resolves the config file path, loads it and applies flags.
func loadConfig(flags *Flags) (*config.Config, string, error) {
	path := flags.ConfigPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return nil, "", err
		}
		path = p
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, path, err
	}

	if flags.URL != "" {
		cfg.Backend.URL = flags.URL
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, path, nil
}

// newApp loads configuration and opens the log.
func newApp(flags *Flags) (*app, error) {
	cfg, path, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	config.SetGlobal(cfg)

	opts, err := logOptions(cfg.Log)
	if err != nil {
		return nil, err
	}
	logger, closer, err := logging.New(opts)
	if err != nil {
		return nil, err
	}
	logger = logger.With().Str("backend", cfg.Backend.URL).Logger()

	return &app{
		cfg:        cfg,
		configPath: path,
		logger:     logger,
		logCloser:  closer,
		backend:    newBackend(cfg.Backend),
	}, nil
}

// logOptions resolves the log destination. Logs sent to stderr share the
// terminal with line mode, so they use the human-readable console format.
func logOptions(lc config.LogConfig) (logging.Options, error) {
	opts := logging.Options{Level: lc.Level, File: lc.File}
	if opts.File == "" {
		path, err := config.DefaultLogPath()
		if err != nil {
			return opts, err
		}
		opts.File = path
	}
	opts.Console = opts.File == logging.Stderr
	return opts, nil
}

func newBackend(bc config.BackendConfig) *backend.Client {
	return backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL:           bc.URL,
		RequestsPerSecond: bc.RequestsPerSecond,
		Burst:             bc.Burst,
	})
}

func (a *app) Close() {
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}
