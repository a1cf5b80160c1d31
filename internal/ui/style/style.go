// Package style provides semantic terminal styling using lipgloss.
//
// All styling is semantic (Header, Info, Error, ...) rather than visual.
// Styling starts disabled; when disabled every helper returns its input
// unchanged with no ANSI codes.
package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	enabled bool
	colors  ColorConfig

	successStyle lipgloss.Style
	warningStyle lipgloss.Style
	errorStyle   lipgloss.Style
	infoStyle    lipgloss.Style
	headerStyle  lipgloss.Style
	mutedStyle   lipgloss.Style
)

// Init enables or disables styling and loads the named theme ("" picks the
// default for the terminal background). NO_COLOR and ARGUTIL_NO_COLOR
// disable styling regardless of enable.
//
// Call it once from main before any output.
func Init(enable bool, theme string) {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("ARGUTIL_NO_COLOR") != "" {
		enabled = false
		return
	}

	enabled = enable
	if enabled {
		colors = LoadColorConfig(theme)
		initStyles(colors)
	}
}

// GetColors returns the active color configuration.
func GetColors() ColorConfig {
	return colors
}

func initStyles(colors ColorConfig) {
	// ANSI256 regardless of TTY detection; callers decide whether to style.
	lipgloss.SetColorProfile(termenv.ANSI256)

	successStyle = makeStyle(colors.Success)
	warningStyle = makeStyle(colors.Warning)
	errorStyle = makeStyle(colors.Error)
	infoStyle = makeStyle(colors.Info)
	mutedStyle = makeStyle(colors.Muted)
	headerStyle = makeStyle(colors.Header)
}

// makeStyle creates a style from "bold" or an ANSI color number (0-255).
func makeStyle(value string) lipgloss.Style {
	if value == "bold" {
		return lipgloss.NewStyle().Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(value))
}

// Enabled returns whether styling is currently enabled.
func Enabled() bool {
	return enabled
}

func render(s lipgloss.Style, text string) string {
	if !enabled {
		return text
	}
	return s.Render(text)
}

// Success styles text for successful operations.
func Success(text string) string { return render(successStyle, text) }

// Warning styles text for warning messages.
func Warning(text string) string { return render(warningStyle, text) }

// Error styles text for error messages.
func Error(text string) string { return render(errorStyle, text) }

// Info styles option invocations and other highlighted values.
func Info(text string) string { return render(infoStyle, text) }

// Header styles section headings.
func Header(text string) string { return render(headerStyle, text) }

// Muted styles secondary text.
func Muted(text string) string { return render(mutedStyle, text) }
