package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestInitTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	tests := []struct {
		name    string
		theme   string
		noColor bool
		noEnv   bool
		want    string
	}{
		{"named theme", "light", false, false, "light"},
		{"unknown falls back to dark", "neon", false, false, "dark"},
		{"flag disables colours", "orange", true, false, "none"},
		{"NO_COLOR disables colours", "orange", false, true, "none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.noEnv {
				t.Setenv("NO_COLOR", "1")
			}
			InitTheme(tt.theme, tt.noColor)
			if got := GetCurrentTheme().Name; got != tt.want {
				t.Errorf("theme = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColorHelpers(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	SetCurrentTheme(DarkTheme)
	if ColorRed() != DarkTheme.Error || ColorReset() != "\033[0m" {
		t.Error("colour helpers should follow the active theme")
	}
	if got := Colorize(ColorGreen(), "ok"); got != DarkTheme.Success+"ok\033[0m" {
		t.Errorf("Colorize() = %q", got)
	}
	if _, ok := GetCurrentTUITheme().Text.(lipgloss.Color); !ok {
		t.Error("dark theme should use lipgloss colours")
	}

	SetCurrentTheme(NoColorTheme)
	if ColorBold() != "" || ColorUnderline() != "" {
		t.Error("no-colour theme should emit no escapes")
	}
	if got := Colorize(ColorGreen(), "ok"); got != "ok" {
		t.Errorf("Colorize() = %q, want plain text", got)
	}
	if _, ok := GetCurrentTUITheme().Text.(lipgloss.NoColor); !ok {
		t.Error("no-colour theme should use lipgloss.NoColor")
	}
}

func TestLookupTheme(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"dark", "light", "orange", "none"} {
		if _, ok := LookupTheme(name); !ok {
			t.Errorf("theme %q missing", name)
		}
	}
	if _, ok := LookupTheme("neon"); ok {
		t.Error("unexpected theme neon")
	}
}
