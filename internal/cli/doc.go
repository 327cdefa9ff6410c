// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the helpdesk command line.
//
// The root command opens a chat session: the full-screen Bubble Tea view
// when stdin and stdout are terminals, or a line-mode REPL otherwise.
// Both drive the same chatclient.Client.
//
// # Key Types
//
//   - REPL: line-mode session over a LineReader
//   - ChatCLI: liner-backed LineReader with persistent history
//   - Flags: global command-line flags
//
// # Usage
//
//	os.Exit(cli.Execute())
//
// # Commands
//
//   - helpdesk [--plain]: start a chat session (same as chat)
//   - helpdesk config show|path|init: inspect or create the config file
//   - helpdesk version: print build information
package cli
