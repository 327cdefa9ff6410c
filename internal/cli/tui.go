// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/helpdesk-tui/internal/config"
	"github.com/jeranaias/helpdesk-tui/internal/ui/chat"
	"github.com/jeranaias/helpdesk-tui/internal/ui/styles"
)

// runTUI runs the full-screen chat until the user quits.
func runTUI(a *app) error {
	m := chat.New(chat.Options{
		Backend:    a.backend,
		BackendURL: a.cfg.Backend.URL,
		Theme:      styles.NewTheme(a.cfg.UI.Theme),
		UI:         a.cfg.UI,
		Logger:     &a.logger,
	})
	defer m.Shutdown()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Live reload needs the directory to exist; skip it otherwise.
	if info, err := os.Stat(filepath.Dir(a.configPath)); err == nil && info.IsDir() {
		w, err := config.Watch(a.configPath, onConfigReload(p.Send))
		if err != nil {
			a.logger.Warn().Err(err).Msg("CONFIG_WATCH_FAILED")
		} else {
			defer w.Close()
		}
	}

	a.logger.Info().Msg("TUI_STARTED")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	a.logger.Info().Int("in_flight", m.Client().InFlight()).Msg("TUI_EXITED")
	return nil
}

// onConfigReload publishes a reloaded config and notifies the view.
// A failed reload keeps the current global config.
func onConfigReload(send func(tea.Msg)) func(*config.Config, error) {
	return func(cfg *config.Config, err error) {
		if err == nil {
			config.SetGlobal(cfg)
		}
		send(chat.ConfigReloadedMsg{Err: err})
	}
}
