// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the views and config.
//
// # Key Functions
//
// Text layout (display-width aware, via go-runewidth):
//   - StringWidth, TruncateWidth
//   - Wrap: Word wrap to a column width
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	for _, line := range util.Wrap(reply, 72) {
//	    fmt.Println("   " + line)
//	}
//
//	err := util.AtomicWriteFile(path, data, 0600)
package util
