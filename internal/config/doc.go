// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads, validates and watches the helpdesk configuration.
//
// # Key Types
//
//   - Config: Backend, UI and log settings
//   - ValidateErrors: Every invalid field found by Validate
//   - Watcher: Reloads the file when it changes on disk
//
// # Usage
//
//	cfg, err := config.LoadFrom(path)
//	if err != nil {
//	    return err
//	}
//	w, err := config.Watch(path, func(cfg *config.Config, err error) {
//	    // apply cfg.UI
//	})
//	defer w.Close()
//
// # Environment
//
// Every field can be overridden with HELPDESK_<SECTION>_<FIELD>, for example
// HELPDESK_BACKEND_URL or HELPDESK_LOG_LEVEL. A .env file in the working
// directory is read first; variables already set in the process win.
package config
