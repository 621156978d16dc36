package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/services"
)

var (
	exportFormat string
	exportPeriod string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export interval history",
	Long:  "Export the finished work and break intervals in markdown or CSV format.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "md", "Output format: md or csv")
	exportCmd.Flags().StringVar(&exportPeriod, "period", "week", "Time period: day, week, month, or all")
}

func runExport(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	since, _, err := periodStart(exportPeriod, time.Now().In(app.loc))
	if err != nil {
		return err
	}

	records, err := app.history.Recent(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	// Oldest first reads better in a report.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	switch exportFormat {
	case "csv":
		return exportCSV(out, records)
	case "md", "markdown":
		return exportMarkdown(out, records)
	default:
		return fmt.Errorf("unknown format %q (want md or csv)", exportFormat)
	}
}

func exportMarkdown(out io.Writer, records []*domain.IntervalRecord) error {
	fmt.Fprintf(out, "# Focus Interval Export\n\n")
	fmt.Fprintf(out, "Generated: %s\n\n", time.Now().In(app.loc).Format("2006-01-02 15:04"))

	sum := services.Summarize(records)
	fmt.Fprintf(out, "- Work: %d intervals, %s\n", sum.WorkIntervals, formatHours(sum.WorkTime.Hours()))
	fmt.Fprintf(out, "- Breaks: %d intervals, %s\n\n", sum.BreakIntervals, formatHours(sum.BreakTime.Hours()))

	day := ""
	for _, rec := range records {
		started := rec.StartedAt.In(app.loc)
		if d := started.Format("2006-01-02"); d != day {
			day = d
			fmt.Fprintf(out, "## %s\n\n", day)
		}
		fmt.Fprintf(out, "- %s - %s %s (%s)",
			started.Format("15:04"),
			rec.EndedAt.In(app.loc).Format("15:04"),
			rec.Kind.Label(),
			formatMinutes(time.Duration(rec.DurationSeconds)*time.Second),
		)
		if rec.TaskTitle != "" {
			fmt.Fprintf(out, ": %s", rec.TaskTitle)
		}
		if rec.GitBranch != "" {
			fmt.Fprintf(out, " `%s`", rec.GitBranch)
		}
		fmt.Fprintln(out)
	}
	return nil
}

func exportCSV(out io.Writer, records []*domain.IntervalRecord) error {
	w := csv.NewWriter(out)

	_ = w.Write([]string{
		"started_at", "ended_at", "kind", "duration_min", "task_id", "task",
		"git_branch", "git_commit",
	})

	for _, rec := range records {
		_ = w.Write([]string{
			rec.StartedAt.Format(time.RFC3339),
			rec.EndedAt.Format(time.RFC3339),
			string(rec.Kind),
			strconv.FormatFloat(float64(rec.DurationSeconds)/60, 'f', 1, 64),
			rec.TaskID,
			rec.TaskTitle,
			rec.GitBranch,
			rec.GitCommit,
		})
	}
	w.Flush()
	return w.Error()
}
