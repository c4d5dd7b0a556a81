package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines a color scheme for CLI output. Each field holds an ANSI
// escape sequence.
type Theme struct {
	Name      string
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Info      string
	Bold      string
	Underline string
	Reset     string
}

// fg returns the 256-colour foreground escape for code.
func fg(code string) string { return "\033[38;5;" + code + "m" }

func ansiTheme(name, primary, secondary, success, warning, errColor, info string) Theme {
	return Theme{
		Name:      name,
		Primary:   fg(primary),
		Secondary: fg(secondary),
		Success:   fg(success),
		Warning:   fg(warning),
		Error:     fg(errColor),
		Info:      fg(info),
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = ansiTheme("dark", "39", "245", "82", "220", "196", "141")
	// LightTheme uses darker tones for light backgrounds.
	LightTheme = ansiTheme("light", "27", "240", "28", "130", "124", "54")
	// OrangeTheme matches the dashboard palette.
	OrangeTheme = ansiTheme("orange", "208", "245", "82", "214", "196", "69")
	// NoColorTheme disables all escapes.
	NoColorTheme = Theme{Name: "none"}

	themes = map[string]Theme{
		DarkTheme.Name:    DarkTheme,
		LightTheme.Name:   LightTheme,
		OrangeTheme.Name:  OrangeTheme,
		NoColorTheme.Name: NoColorTheme,
	}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// TUITheme defines lipgloss colors for the dashboard.
type TUITheme struct {
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	// BarStart and BarEnd are the gradient ends of the progress bars, as hex
	// strings for bubbles/progress.
	BarStart string
	BarEnd   string
}

var (
	// DarkTUITheme is the orange dashboard palette.
	DarkTUITheme = TUITheme{
		Text:     lipgloss.Color("#E0E0E0"),
		Border:   lipgloss.Color("#FF6600"),
		Accent:   lipgloss.Color("#FF8C00"),
		Success:  lipgloss.Color("#9ece6a"),
		Warning:  lipgloss.Color("#FFB347"),
		Error:    lipgloss.Color("#FF4444"),
		Dim:      lipgloss.Color("#666666"),
		BarStart: "#FF6600",
		BarEnd:   "#FFB347",
	}

	// NoColorTUITheme renders with the terminal's default colours.
	NoColorTUITheme = TUITheme{
		Text:    lipgloss.NoColor{},
		Border:  lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
	}
)

// GetCurrentTUITheme returns the dashboard palette matching the active theme.
func GetCurrentTUITheme() TUITheme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()

	if currentTheme.Name == NoColorTheme.Name {
		return NoColorTUITheme
	}
	return DarkTUITheme
}

// GetCurrentTheme returns the currently active theme in a thread-safe manner.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme sets the currently active theme. Tests use it to restore
// state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// LookupTheme returns the theme registered under name.
func LookupTheme(name string) (Theme, bool) {
	t, ok := themes[name]
	return t, ok
}

// InitTheme selects the active theme. noColor or a set NO_COLOR variable
// (https://no-color.org/) force NoColorTheme; unknown names fall back to
// DarkTheme.
func InitTheme(name string, noColor bool) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		currentTheme = NoColorTheme
		return
	}
	t, ok := themes[name]
	if !ok {
		t = DarkTheme
	}
	currentTheme = t
}
