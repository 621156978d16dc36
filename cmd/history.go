package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/adapters/git"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/services"
)

var (
	historyPeriod string
	historyTask   string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show finished intervals",
	Long:  `Show a dashboard of the work and break intervals focus has counted down, per task.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		since, label, err := periodStart(historyPeriod, time.Now().In(app.loc))
		if err != nil {
			return err
		}

		records, err := loadHistory(ctx, since, historyTask)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeHistoryJSON(out, records)
		}

		fmt.Fprintln(out)
		renderHistory(out, label, records, historyLimit)
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVarP(&historyPeriod, "period", "p", "day", "Time period: day, week, month or all")
	historyCmd.Flags().StringVarP(&historyTask, "task", "t", "", "Only show intervals of this task")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of recent intervals to list")
	rootCmd.AddCommand(historyCmd)
}

// periodStart returns the start of the named period containing now. Weeks
// start on Monday.
func periodStart(period string, now time.Time) (time.Time, string, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch period {
	case "day", "today", "":
		return today, "Today", nil
	case "week":
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start := today.AddDate(0, 0, -(weekday - 1))
		return start, fmt.Sprintf("Week of %s", start.Format("Jan 2")), nil
	case "month":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, now.Format("January 2006"), nil
	case "all":
		return time.Time{}, "All time", nil
	default:
		return time.Time{}, "", fmt.Errorf("unknown period %q (want day, week, month or all)", period)
	}
}

// loadHistory fetches records ended at or after since, optionally for a
// single task.
func loadHistory(ctx context.Context, since time.Time, taskRef string) ([]*domain.IntervalRecord, error) {
	if taskRef == "" {
		records, err := app.history.Recent(ctx, since)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch history: %w", err)
		}
		return records, nil
	}

	task, err := app.tasks.FindTask(ctx, taskRef)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	all, err := app.history.ForTask(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	// Newest first, like Recent.
	records := make([]*domain.IntervalRecord, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if !all[i].EndedAt.Before(since) {
			records = append(records, all[i])
		}
	}
	return records, nil
}

func writeHistoryJSON(out io.Writer, records []*domain.IntervalRecord) error {
	sum := services.Summarize(records)
	list := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		list = append(list, map[string]interface{}{
			"id":               rec.ID,
			"task_id":          rec.TaskID,
			"task_title":       rec.TaskTitle,
			"kind":             string(rec.Kind),
			"duration_seconds": rec.DurationSeconds,
			"started_at":       rec.StartedAt.Format(time.RFC3339),
			"ended_at":         rec.EndedAt.Format(time.RFC3339),
			"git_branch":       rec.GitBranch,
			"git_commit":       rec.GitCommit,
		})
	}
	data := map[string]interface{}{
		"intervals": list,
		"summary": map[string]interface{}{
			"work_intervals":     sum.WorkIntervals,
			"break_intervals":    sum.BreakIntervals,
			"work_time_seconds":  int(sum.WorkTime.Seconds()),
			"break_time_seconds": int(sum.BreakTime.Seconds()),
		},
	}
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	fmt.Fprintln(out, string(jsonData))
	return nil
}

// taskTotal is the work time spent on one task.
type taskTotal struct {
	Title     string
	Intervals int
	WorkTime  time.Duration
}

func renderHistory(out io.Writer, label string, records []*domain.IntervalRecord, limit int) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(app.config.Theme.ColorTitle))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(app.config.Theme.ColorHelp))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(app.config.Theme.ColorWork))
	barColor := lipgloss.NewStyle().Foreground(lipgloss.Color(app.config.Theme.ColorWork))

	fmt.Fprintf(out, "  %s\n", titleStyle.Render(label))
	fmt.Fprintf(out, "  %s\n\n", dimStyle.Render(strings.Repeat("─", 40)))

	sum := services.Summarize(records)
	fmt.Fprintf(out, "  Total: %s work intervals, %s focused, %s on break\n\n",
		valueStyle.Render(fmt.Sprintf("%d", sum.WorkIntervals)),
		valueStyle.Render(formatHours(sum.WorkTime.Hours())),
		valueStyle.Render(formatHours(sum.BreakTime.Hours())),
	)

	if len(records) == 0 {
		fmt.Fprintf(out, "  %s\n\n", dimStyle.Render("No finished intervals in this period."))
		return
	}

	totals := totalsByTask(records)
	if len(totals) > 0 {
		fmt.Fprintf(out, "  %s\n", dimStyle.Render("Work by task"))
		maxTime := totals[0].WorkTime
		maxBarWidth := 30
		for _, t := range totals {
			barWidth := 0
			if maxTime > 0 {
				barWidth = int(math.Round(float64(t.WorkTime) / float64(maxTime) * float64(maxBarWidth)))
			}
			if barWidth < 1 && t.WorkTime > 0 {
				barWidth = 1
			}
			fmt.Fprintf(out, "  %s %s %d (%s)\n",
				dimStyle.Render(fmt.Sprintf("%-20s", truncate(t.Title, 20))),
				barColor.Render(buildBar(barWidth)),
				t.Intervals,
				formatHours(t.WorkTime.Hours()),
			)
		}
		fmt.Fprintln(out)
	}

	if limit <= 0 {
		return
	}
	fmt.Fprintf(out, "  %s\n", dimStyle.Render("Recent intervals"))
	shown := records
	if len(shown) > limit {
		shown = shown[:limit]
	}
	for _, rec := range shown {
		line := fmt.Sprintf("%s  %-5s %-6s %s",
			rec.StartedAt.In(app.loc).Format("Jan 2 15:04"),
			rec.Kind.Label(),
			formatMinutes(time.Duration(rec.DurationSeconds)*time.Second),
			rec.TaskTitle,
		)
		if rec.GitBranch != "" {
			line += dimStyle.Render(fmt.Sprintf("  [%s %s]", rec.GitBranch, git.ShortHash(rec.GitCommit)))
		}
		fmt.Fprintf(out, "  %s\n", line)
	}
	fmt.Fprintln(out)
}

// totalsByTask sums work intervals per task title, most time first.
func totalsByTask(records []*domain.IntervalRecord) []taskTotal {
	index := make(map[string]int)
	var totals []taskTotal
	for _, rec := range records {
		if rec.Kind != domain.IntervalWork {
			continue
		}
		i, ok := index[rec.TaskTitle]
		if !ok {
			i = len(totals)
			index[rec.TaskTitle] = i
			totals = append(totals, taskTotal{Title: rec.TaskTitle})
		}
		totals[i].Intervals++
		totals[i].WorkTime += time.Duration(rec.DurationSeconds) * time.Second
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].WorkTime > totals[j].WorkTime
	})
	return totals
}

// buildBar creates a horizontal bar using block characters.
func buildBar(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("█", width)
}

// formatHours formats a float hours value as "Xh Ym".
func formatHours(h float64) string {
	if h < 0.01 {
		return "0m"
	}
	hours := int(h)
	minutes := int(math.Round((h - float64(hours)) * 60))
	if minutes == 60 {
		hours++
		minutes = 0
	}
	if hours > 0 && minutes > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
