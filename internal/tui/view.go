package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/randomizedcoder/go-regtest-harness/internal/supervisor"
)

// View renders the process table.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("go-regtest-harness"))
	b.WriteString(footerStyle.Render(fmt.Sprintf("  %s network, data in %s", m.network, m.parentDir)))
	b.WriteString("\n\n")

	b.WriteString(boxStyle.Render(m.renderTable()))
	b.WriteString("\n\n")

	running := 0
	for _, info := range m.infos {
		if info.Status == supervisor.StatusRunning {
			running++
		}
	}
	b.WriteString(footerStyle.Render(fmt.Sprintf("%d/%d running · refreshed every second · q to quit", running, len(m.infos))))
	b.WriteString("\n")

	return b.String()
}

// renderTable renders one row per supervised process.
func (m Model) renderTable() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-10s %-9s %8s  %s", "PROCESS", "STATUS", "PID", "PID FILE")))
	b.WriteString("\n")

	for _, info := range m.infos {
		pid := "-"
		if info.PID > 0 {
			pid = fmt.Sprintf("%d", info.PID)
		}
		line := fmt.Sprintf("%-10s %-9s %8s  %s",
			info.Name,
			info.Status.String(),
			pid,
			info.PIDPath,
		)
		b.WriteString(statusStyle(info.Status).Render(line))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// statusStyle picks the row style for a tracked status.
func statusStyle(s supervisor.TrackedStatus) lipgloss.Style {
	switch s {
	case supervisor.StatusRunning:
		return runningStyle
	case supervisor.StatusStale:
		return staleStyle
	case supervisor.StatusStopped:
		return stoppedStyle
	default:
		return rowStyle
	}
}
