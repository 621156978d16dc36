package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/adapters/tui"
	"github.com/xvierd/focus-cli/internal/schedule"
	"github.com/xvierd/focus-cli/internal/services"
)

var (
	addStart      string
	addDeadline   string
	addBackground bool
	addPriority   int
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task to a task list.

A scheduled task needs both --start and --deadline, given as HH:MM on
today's date. Focus works on a task only between those two times.`,
	Example: `  focus add Write report --start 09:00 --deadline 10:30
  focus add "Review PRs" --start 14:00 --deadline 15:00 --priority 2
  focus add Reply to email`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		title := strings.Join(args, " ")
		if title == "" {
			if jsonOutput {
				return fmt.Errorf("a title is required")
			}
			result := tui.RunTextPrompt("Task:", "What do you want to work on?", &app.config.Theme)
			if result.Aborted || result.Value == "" {
				return nil
			}
			title = result.Value
		}

		req := services.AddTaskRequest{
			Title:        title,
			ListID:       listFlag,
			IsBackground: addBackground,
			Priority:     addPriority,
		}
		if req.ListID == "" {
			req.ListID = app.config.Focus.List
		}

		now := time.Now().In(app.loc)
		if addStart != "" {
			start, err := parseClock(addStart, now)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			req.Start = &start
		}
		if addDeadline != "" {
			deadline, err := parseClock(addDeadline, now)
			if err != nil {
				return fmt.Errorf("invalid --deadline: %w", err)
			}
			req.Deadline = &deadline
		}

		task, err := app.tasks.AddTask(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			jsonData, err := json.MarshalIndent(taskData(task), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal task: %w", err)
			}
			fmt.Fprintln(out, string(jsonData))
			return nil
		}

		fmt.Fprintf(out, "✅ Task added: %s (ID: %s)\n", task.Title, shortID(task.ID))
		if task.HasSchedule() {
			fmt.Fprintf(out, "   Window: %s (%s)\n",
				schedule.FormatRange(task, app.loc),
				formatMinutes(time.Duration(schedule.TaskDurationSeconds(task, app.loc))*time.Second))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addStart, "start", "s", "", "Start time, HH:MM")
	addCmd.Flags().StringVarP(&addDeadline, "deadline", "d", "", "Deadline, HH:MM")
	addCmd.Flags().BoolVarP(&addBackground, "background", "b", false, "Background task (only focused on when focus.include_background_tasks is set)")
	addCmd.Flags().IntVarP(&addPriority, "priority", "p", 0, "Priority, higher first among tasks in the same slot")
}

// parseClock reads "HH:MM" (or "H:MM") as a time on now's date.
func parseClock(value string, now time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("want HH:MM, got %q", value)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location()), nil
}
