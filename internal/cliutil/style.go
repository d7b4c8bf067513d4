package cliutil

import "github.com/charmbracelet/lipgloss"

// Pre-defined styles for consistent `apply`/`ls`/`diff`/`tree` output,
// mirrored from the teacher's pkg/tui style set.
var (
	// HeaderStyle marks a command's summary line.
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	// AddedStyle marks a path that will be written (ls/diff "new").
	AddedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	// ChangedStyle marks a path that will be overwritten (diff "changed").
	ChangedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	// SkippedStyle marks a path left alone (no --force, file exists).
	SkippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	// WarningStyle marks a collected Warning (merge conflict, stale cache).
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	// SubtleStyle is used for footers and secondary detail.
	SubtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)
