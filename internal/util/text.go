// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// StringWidth returns the number of terminal columns s occupies.
// Emoji and CJK characters count as 2.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateWidth cuts s to at most maxWidth columns, ending in "..." when
// something was removed and there is room for it.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// Wrap breaks s into lines no wider than width columns, splitting on
// spaces where possible. Existing newlines are kept. Words wider than the
// line are hard-split.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return strings.Split(s, "\n")
	}

	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		var cur strings.Builder
		curWidth := 0
		flush := func() {
			lines = append(lines, cur.String())
			cur.Reset()
			curWidth = 0
		}

		for _, w := range words {
			ww := StringWidth(w)
			for ww > width {
				if curWidth > 0 {
					flush()
				}
				head := runewidth.Truncate(w, width, "")
				if head == "" {
					// A single rune wider than the line.
					head = string([]rune(w)[:1])
				}
				lines = append(lines, head)
				w = w[len(head):]
				ww = StringWidth(w)
			}
			if ww == 0 {
				continue
			}
			switch {
			case curWidth == 0:
				cur.WriteString(w)
				curWidth = ww
			case curWidth+1+ww <= width:
				cur.WriteByte(' ')
				cur.WriteString(w)
				curWidth += 1 + ww
			default:
				flush()
				cur.WriteString(w)
				curWidth = ww
			}
		}
		if curWidth > 0 {
			flush()
		}
	}
	return lines
}
