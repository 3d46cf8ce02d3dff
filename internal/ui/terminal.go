package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ShouldUseColor reports whether styled output should be written to stdout.
// Honors NO_COLOR (https://no-color.org/) and CLICOLOR/CLICOLOR_FORCE
// (https://bixense.com/clicolors/); otherwise requires a TTY.
func ShouldUseColor() bool {
	if termenv.EnvNoColor() {
		return false
	}
	if force := os.Getenv("CLICOLOR_FORCE"); force != "" && force != "0" {
		return true
	}
	return IsTerminal()
}

// ShouldUseEmoji reports whether emoji indicators should be used.
// BRAID_NO_EMOJI disables them for terminals with poor glyph support.
func ShouldUseEmoji() bool {
	if os.Getenv("BRAID_NO_EMOJI") != "" {
		return false
	}
	return IsTerminal()
}

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ApplyColorMode configures lipgloss and fatih/color globally.
// mode is "auto", "always" or "never"; unknown values behave as auto.
func ApplyColorMode(mode string) {
	switch mode {
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
		color.NoColor = false
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
		color.NoColor = true
	default:
		if !ShouldUseColor() {
			lipgloss.SetColorProfile(termenv.Ascii)
			color.NoColor = true
		}
	}
}
