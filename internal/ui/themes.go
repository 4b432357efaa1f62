package ui

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the ANSI sequences used by the REPL, the benchmark table and
// the banners. Results and durations use Accent; failures use Error.
type Theme struct {
	Name      string
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Info      string
	Accent    string
	Bold      string
	Underline string
	Reset     string

	// tui is the keypad palette paired with this theme.
	tui TUITheme
}

// Theme names accepted by SetTheme and the --theme flag.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeNone  = "none"
)

// ansi256 returns the foreground sequence for a 256-color palette index.
func ansi256(n int) string { return fmt.Sprintf("\033[38;5;%dm", n) }

// palette builds a Theme from 256-color indices, in the order primary,
// secondary, success, warning, error, info, accent.
func palette(name string, tui TUITheme, idx [7]int) Theme {
	return Theme{
		Name:      name,
		Primary:   ansi256(idx[0]),
		Secondary: ansi256(idx[1]),
		Success:   ansi256(idx[2]),
		Warning:   ansi256(idx[3]),
		Error:     ansi256(idx[4]),
		Info:      ansi256(idx[5]),
		Accent:    ansi256(idx[6]),
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
		tui:       tui,
	}
}

// TUITheme colors the keypad by key role so digits, operators and unary
// functions stand apart.
type TUITheme struct {
	Text     lipgloss.TerminalColor
	Border   lipgloss.TerminalColor
	Display  lipgloss.TerminalColor
	Digit    lipgloss.TerminalColor
	Operator lipgloss.TerminalColor
	Function lipgloss.TerminalColor
	Success  lipgloss.TerminalColor
	Error    lipgloss.TerminalColor
	Dim      lipgloss.TerminalColor
}

var (
	DarkTUITheme = TUITheme{
		Text:     lipgloss.Color("#E0E0E0"),
		Border:   lipgloss.Color("#5F87AF"),
		Display:  lipgloss.Color("#FFFFFF"),
		Digit:    lipgloss.Color("#D0D0D0"),
		Operator: lipgloss.Color("#FF8C00"),
		Function: lipgloss.Color("#87AFFF"),
		Success:  lipgloss.Color("#9ECE6A"),
		Error:    lipgloss.Color("#FF4444"),
		Dim:      lipgloss.Color("#666666"),
	}

	LightTUITheme = TUITheme{
		Text:     lipgloss.Color("#303030"),
		Border:   lipgloss.Color("#005F87"),
		Display:  lipgloss.Color("#000000"),
		Digit:    lipgloss.Color("#444444"),
		Operator: lipgloss.Color("#AF5F00"),
		Function: lipgloss.Color("#005FAF"),
		Success:  lipgloss.Color("#008700"),
		Error:    lipgloss.Color("#AF0000"),
		Dim:      lipgloss.Color("#8A8A8A"),
	}

	// NoColorTUITheme renders with the terminal's default colors.
	NoColorTUITheme = TUITheme{
		Text:     lipgloss.NoColor{},
		Border:   lipgloss.NoColor{},
		Display:  lipgloss.NoColor{},
		Digit:    lipgloss.NoColor{},
		Operator: lipgloss.NoColor{},
		Function: lipgloss.NoColor{},
		Success:  lipgloss.NoColor{},
		Error:    lipgloss.NoColor{},
		Dim:      lipgloss.NoColor{},
	}

	DarkTheme  = palette(ThemeDark, DarkTUITheme, [7]int{39, 245, 82, 220, 196, 141, 51})
	LightTheme = palette(ThemeLight, LightTUITheme, [7]int{27, 240, 28, 130, 124, 54, 30})
	// NoColorTheme is selected by --no-color and NO_COLOR.
	NoColorTheme = Theme{Name: ThemeNone, tui: NoColorTUITheme}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// GetCurrentTUITheme returns the keypad palette of the active theme.
func GetCurrentTUITheme() TUITheme {
	return GetCurrentTheme().tui
}

// SetCurrentTheme installs t; tests use it to restore the previous theme.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// ThemeByName maps "dark", "light" or "none" to its theme.
func ThemeByName(name string) (Theme, bool) {
	switch name {
	case ThemeDark:
		return DarkTheme, true
	case ThemeLight:
		return LightTheme, true
	case ThemeNone:
		return NoColorTheme, true
	}
	return Theme{}, false
}

// SetTheme activates the named theme. Unknown names select the dark theme.
func SetTheme(name string) {
	t, ok := ThemeByName(name)
	if !ok {
		t = DarkTheme
	}
	SetCurrentTheme(t)
}

// InitTheme picks the theme at startup. --no-color and the NO_COLOR
// environment variable (https://no-color.org/) override any named theme.
func InitTheme(name string, noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetTheme(name)
}
