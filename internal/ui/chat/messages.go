// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

// ContinuationMsg carries work the chat controller posted back after a
// request resolved. Update runs it.
type ContinuationMsg struct {
	Run func()
}

// ConfigReloadedMsg is sent after the config file changed on disk and the
// new values were published with config.SetGlobal. Err is set if the new
// file could not be loaded; the previous configuration stays in effect.
type ConfigReloadedMsg struct {
	Err error
}

// clipboardMsg reports the outcome of a copy.
type clipboardMsg struct {
	err error
}
