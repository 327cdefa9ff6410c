// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdown renders bot replies with glamour, caching by message ID.
// The cache is dropped whenever the width or style changes.
type markdown struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
	cache    map[string]string
}

func newMarkdown(style string) *markdown {
	return &markdown{style: style, cache: make(map[string]string)}
}

// setStyle switches the glamour style ("dark" or "light").
func (md *markdown) setStyle(style string) {
	if style == md.style {
		return
	}
	md.style = style
	md.renderer = nil
	md.cache = make(map[string]string)
}

// render returns text as styled markdown wrapped to width. On renderer
// failure the plain text is returned.
func (md *markdown) render(id, text string, width int) string {
	if width < 10 {
		width = 10
	}
	if width != md.width {
		md.width = width
		md.renderer = nil
		md.cache = make(map[string]string)
	}
	if out, ok := md.cache[id]; ok {
		return out
	}

	if md.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(md.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return text
		}
		md.renderer = r
	}

	out, err := md.renderer.Render(text)
	if err != nil {
		return text
	}
	out = strings.Trim(out, "\n")
	md.cache[id] = out
	return out
}
