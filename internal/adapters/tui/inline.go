package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/focus"
)

// getTerminalWidth returns the current terminal width, defaulting to 80.
func getTerminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w < 40 {
		return 80
	}
	return w
}

// viewInline renders the compact three-line screen used with --inline.
func (m Model) viewInline() string {
	accent := lipgloss.NewStyle().Foreground(m.phaseColor()).Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	d := m.display

	var b strings.Builder

	switch d.Phase {
	case domain.PhaseActive:
		b.WriteString(accent.Render(fmt.Sprintf("  ▸ %s  %s", intervalLabel(d), focus.FormatRemaining(d.RemainingTimeSeconds))))
		b.WriteString(dim.Render(fmt.Sprintf("  %s", d.TaskName)))
		if d.TaskRange != "" {
			b.WriteString(dim.Render(fmt.Sprintf(" (%s)", d.TaskRange)))
		}
		b.WriteString("\n")
		m.writeInlineProgress(&b, dim)
	case domain.PhaseWaiting:
		b.WriteString(accent.Render(fmt.Sprintf("  ◦ %s  %s", d.TaskName, focus.FormatRemaining(d.RemainingTimeSeconds))))
		b.WriteString("\n")
		m.writeInlineProgress(&b, dim)
	case domain.PhaseAllDone:
		b.WriteString(accent.Render("  ✓ " + d.TaskName))
		if d.Skipped > 0 {
			b.WriteString(dim.Render(fmt.Sprintf("  %d skipped", d.Skipped)))
		}
		b.WriteString("\n")
	default:
		b.WriteString(dim.Render("  No tasks loaded"))
		b.WriteString("\n")
	}

	if m.lastErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorError))
		b.WriteString(errStyle.Render("  Error: " + m.lastErr.Error()))
		b.WriteString("\n")
	}

	b.WriteString(dim.Render("  " + m.helpText()))
	b.WriteString("\n")

	return b.String()
}

func (m Model) writeInlineProgress(b *strings.Builder, dim lipgloss.Style) {
	pbar := m.progressBar(m.width - 16)
	b.WriteString("  " + pbar.ViewAs(m.display.ProgressFraction))
	b.WriteString(dim.Render(fmt.Sprintf("  %d%%", int(m.display.ProgressFraction*100))))
	b.WriteString("\n")
}

// formatMinutesCompact formats d as "1h30m" or "25m".
func formatMinutesCompact(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
