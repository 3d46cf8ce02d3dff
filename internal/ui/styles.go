// Package ui provides terminal styling for braid CLI output.
// Uses the Ayu color theme with adaptive light/dark mode support.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/braidtask/braid/internal/task"
)

// Ayu theme color palette
// Dark: https://terminalcolors.com/themes/ayu/dark/
// Light: https://terminalcolors.com/themes/ayu/light/
var (
	ColorHigh = lipgloss.AdaptiveColor{
		Light: "#f07171", // ayu light bright red
		Dark:  "#f07178", // ayu dark bright red
	}
	ColorMedium = lipgloss.AdaptiveColor{
		Light: "#f2ae49", // ayu light bright yellow
		Dark:  "#ffb454", // ayu dark bright yellow
	}
	ColorLow = lipgloss.AdaptiveColor{
		Light: "#399ee6", // ayu light bright blue
		Dark:  "#59c2ff", // ayu dark bright blue
	}
	ColorDone = lipgloss.AdaptiveColor{
		Light: "#86b300", // ayu light bright green
		Dark:  "#c2d94c", // ayu dark bright green
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99", // ayu light muted
		Dark:  "#6c7680", // ayu dark muted
	}
	ColorAI = lipgloss.AdaptiveColor{
		Light: "#a37acc", // ayu light purple
		Dark:  "#d2a6ff", // ayu dark purple
	}
)

// Styles for task list lines - consistent across all commands
var (
	HighStyle   = lipgloss.NewStyle().Foreground(ColorHigh).Bold(true)
	MediumStyle = lipgloss.NewStyle().Foreground(ColorMedium)
	LowStyle    = lipgloss.NewStyle().Foreground(ColorLow)
	DoneStyle   = lipgloss.NewStyle().Foreground(ColorMuted).Strikethrough(true)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AIStyle     = lipgloss.NewStyle().Foreground(ColorAI)

	// DoneIconStyle colors the check mark; the struck-through DoneStyle is
	// for the task text only.
	DoneIconStyle = lipgloss.NewStyle().Foreground(ColorDone)
)

// HeaderStyle for section headers - bold with the done (green) accent
var HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorDone)

// Status icons
const (
	IconDone      = "✓"
	IconPending   = "○"
	IconCollapsed = "▸"
	IconAI        = "✨"
)

// Tree characters for the two-level list view
const (
	TreeBranch = "├── "
	TreeLast   = "└── "
)

// PriorityStyle returns the line style for a priority level.
func PriorityStyle(p task.Priority) lipgloss.Style {
	switch p {
	case task.PriorityHigh:
		return HighStyle
	case task.PriorityLow:
		return LowStyle
	default:
		return MediumStyle
	}
}

// RenderPriority renders the short priority tag shown on list lines.
func RenderPriority(p task.Priority) string {
	return PriorityStyle(p).Render("[" + string(p) + "]")
}

// RenderDone renders completed task text with muted strikethrough styling.
func RenderDone(s string) string {
	return DoneStyle.Render(s)
}

// RenderDoneIcon renders the green completion check mark.
func RenderDoneIcon() string {
	return DoneIconStyle.Render(IconDone)
}

// RenderMuted renders text with muted (gray) styling.
func RenderMuted(s string) string {
	return MutedStyle.Render(s)
}

// RenderHeader renders a section header.
func RenderHeader(s string) string {
	return HeaderStyle.Render(s)
}

// AIMarker returns the indicator appended to generated tasks. Falls back to
// a plain tag when emoji output is off.
func AIMarker() string {
	if ShouldUseEmoji() {
		return AIStyle.Render(IconAI)
	}
	return AIStyle.Render("[ai]")
}
