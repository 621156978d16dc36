package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/focus"
)

// Run shows the focus screen and blocks until the user quits or ctx is
// cancelled. The session must not be touched by other goroutines while
// the screen runs.
func Run(ctx context.Context, m Model) error {
	opts := []tea.ProgramOption{}
	if !m.inline {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(m, opts...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		program.Quit()
	}()

	_, err := program.Run()

	cancel()
	wg.Wait()

	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// StatusLine renders d on a single line, cut to width when width > 0.
func StatusLine(d domain.DisplayState, width int) string {
	var line string
	switch d.Phase {
	case domain.PhaseActive:
		line = fmt.Sprintf("%s  %s  %s", intervalLabel(d), focus.FormatRemaining(d.RemainingTimeSeconds), d.TaskName)
		if d.TaskRange != "" {
			line += fmt.Sprintf(" (%s)", d.TaskRange)
		}
	case domain.PhaseWaiting:
		line = fmt.Sprintf("%s  starts in %s", d.TaskName, focus.FormatRemaining(d.RemainingTimeSeconds))
		if d.TaskRange != "" {
			line += fmt.Sprintf(" (%s)", d.TaskRange)
		}
	case domain.PhaseAllDone:
		line = d.TaskName
	default:
		line = "No tasks loaded"
	}
	if d.Skipped > 0 {
		line += fmt.Sprintf("  [%d skipped]", d.Skipped)
	}

	if width > 0 {
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}

// RenderStatus describes d over several lines for one-shot output.
func RenderStatus(d domain.DisplayState) string {
	var b strings.Builder

	switch d.Phase {
	case domain.PhaseActive:
		fmt.Fprintf(&b, "Focusing: %s\n", d.TaskName)
		if d.TaskRange != "" {
			fmt.Fprintf(&b, "   Window: %s\n", d.TaskRange)
		}
		fmt.Fprintf(&b, "   Interval: %s\n", intervalLabel(d))
		fmt.Fprintf(&b, "   Remaining: %s\n", focus.FormatRemaining(d.RemainingTimeSeconds))
		fmt.Fprintf(&b, "   Progress: %.0f%%\n", d.ProgressFraction*100)
		fmt.Fprintf(&b, "   Plan: %s\n", planSummary(d.Intervals))
	case domain.PhaseWaiting:
		fmt.Fprintf(&b, "%s\n", d.TaskName)
		if d.TaskRange != "" {
			fmt.Fprintf(&b, "   Window: %s\n", d.TaskRange)
		}
		fmt.Fprintf(&b, "   Starts in: %s\n", focus.FormatRemaining(d.RemainingTimeSeconds))
	case domain.PhaseAllDone:
		fmt.Fprintf(&b, "%s\n", d.TaskName)
	default:
		b.WriteString("No tasks loaded.\n")
	}

	if d.Skipped > 0 {
		fmt.Fprintf(&b, "   Skipped: %d\n", d.Skipped)
	}
	return b.String()
}

// planSummary lists interval lengths, e.g. "25m work, 5m break, 30m work".
func planSummary(intervals []domain.Interval) string {
	parts := make([]string, 0, len(intervals))
	for _, iv := range intervals {
		parts = append(parts, fmt.Sprintf("%s %s", formatMinutesCompact(iv.Duration()), iv.Kind))
	}
	return strings.Join(parts, ", ")
}

// ShowError displays an error message.
func ShowError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
