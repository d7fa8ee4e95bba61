// Package tui provides a live terminal view of the harness processes.
//
// The view uses Bubble Tea for the application framework and Lipgloss for
// styling. It shows the backend and each node with its tracked status, pid
// and data directory, refreshed once per second.
package tui

import "github.com/charmbracelet/lipgloss"

// Colors based on a modern dark theme
var (
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorSuccess = lipgloss.Color("#10B981") // Green
	colorWarning = lipgloss.Color("#F59E0B") // Amber
	colorError   = lipgloss.Color("#EF4444") // Red

	colorText      = lipgloss.Color("#E5E7EB") // Light gray
	colorTextMuted = lipgloss.Color("#9CA3AF") // Medium gray
	colorBorder    = lipgloss.Color("#374151") // Border gray
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Bold(true)

	rowStyle = lipgloss.NewStyle().
			Foreground(colorText)

	runningStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	staleStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	stoppedStyle = lipgloss.NewStyle().
			Foreground(colorError)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
)
