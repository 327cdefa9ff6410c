// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewTheme_ExplicitModes(t *testing.T) {
	dark := NewTheme("dark")
	if !dark.IsDark {
		t.Error("NewTheme(dark).IsDark = false, want true")
	}
	if dark.Glamour() != "dark" {
		t.Errorf("Glamour() = %q, want dark", dark.Glamour())
	}

	light := NewTheme("LIGHT")
	if light.IsDark {
		t.Error("NewTheme(LIGHT).IsDark = true, want false")
	}
	if light.Glamour() != "light" {
		t.Errorf("Glamour() = %q, want light", light.Glamour())
	}
}

func TestTheme_RenderHelpers(t *testing.T) {
	theme := NewTheme("dark")

	if got := theme.RenderSuccess("saved"); !strings.Contains(got, "[OK] saved") {
		t.Errorf("RenderSuccess() = %q", got)
	}
	if got := theme.RenderError("failed"); !strings.Contains(got, "[X] failed") {
		t.Errorf("RenderError() = %q", got)
	}
}

func TestTheme_FeedbackStylesKeepText(t *testing.T) {
	theme := NewTheme("dark")
	for name, style := range map[string]func(...string) string{
		"button":   theme.FeedbackButton.Render,
		"marked":   theme.FeedbackMarked.Render,
		"disabled": theme.FeedbackDisabled.Render,
	} {
		if got := style("👍"); !strings.Contains(got, "👍") {
			t.Errorf("%s style dropped the glyph: %q", name, got)
		}
	}
}
