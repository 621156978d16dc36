package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focus-cli/internal/config"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/focus"
)

// viewWaiting shows the countdown to the start of the next task.
func (m Model) viewWaiting(sections []string) []string {
	d := m.display
	waitStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorWaiting))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	sections = append(sections, waitStyle.Render(d.TaskName))
	if d.TaskRange != "" {
		sections = append(sections, helpStyle.Render(d.TaskRange))
	}

	sections = append(sections, "")
	sections = append(sections, renderBigTime(focus.FormatRemaining(d.RemainingTimeSeconds), m.phaseColor(), m.width))
	sections = append(sections, "")
	sections = append(sections, m.progressBar(m.width-4).ViewAs(d.ProgressFraction))

	sections = append(sections, "")
	sections = append(sections, helpStyle.Render(m.helpText()))
	return sections
}

// viewAllDone is shown once no task is left to schedule.
func (m Model) viewAllDone(sections []string) []string {
	d := m.display
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorBreak))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	sections = append(sections, statusStyle.Render(d.TaskName))
	if d.Skipped > 0 {
		label := "tasks"
		if d.Skipped == 1 {
			label = "task"
		}
		sections = append(sections, helpStyle.Render(fmt.Sprintf("%d %s skipped, [r]efresh to bring them back", d.Skipped, label)))
	}

	sections = append(sections, "")
	sections = append(sections, helpStyle.Render(m.helpText()))
	return sections
}

// renderStrip draws one cell per interval: finished intervals dimmed, the
// active one bold, the rest in their kind's color.
func renderStrip(d domain.DisplayState, theme config.ThemeConfig, maxWidth int) string {
	if len(d.Intervals) == 0 {
		return ""
	}

	work := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorWork))
	rest := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorBreak))
	done := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorHelp)).Faint(true)

	cells := make([]string, 0, len(d.Intervals))
	for i, iv := range d.Intervals {
		glyph, style := "█", work
		if iv.IsBreak() {
			glyph, style = "░", rest
		}
		switch {
		case i < d.ActiveIntervalIndex:
			style = done
		case i == d.ActiveIntervalIndex:
			glyph = "▶"
			style = style.Bold(true)
		}
		cells = append(cells, style.Render(glyph))
	}

	// Each cell takes two columns with its separator.
	if maxWidth > 0 && len(cells)*2 > maxWidth {
		keep := maxWidth/2 - 1
		if keep < 1 {
			keep = 1
		}
		cells = append(cells[:keep], done.Render("…"))
	}
	return strings.Join(cells, " ")
}
