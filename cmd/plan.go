package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/adapters/tui"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/schedule"
	"github.com/xvierd/focus-cli/internal/services"
)

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan [task]",
	Short: "Show the intervals a task would be split into",
	Long: `Show how focus would split a task's window into work and break intervals
with the current settings. The task can be an ID, an ID prefix or part of
its title; without one you pick from the open tasks.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		ref, err := taskRefFromArgs(ctx, args, "Plan:")
		if err != nil || ref == "" {
			return err
		}

		task, intervals, err := app.tasks.PlanIntervals(ctx, ref, app.config.ModeSettings(), time.Now())
		if err != nil {
			return fmt.Errorf("failed to plan task: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			list := make([]map[string]interface{}, 0, len(intervals))
			for _, iv := range intervals {
				list = append(list, map[string]interface{}{
					"index":            iv.SequenceIndex,
					"kind":             string(iv.Kind),
					"duration_seconds": iv.DurationSeconds,
					"start":            iv.StartTime.Format(time.RFC3339),
					"end":              iv.EndTime.Format(time.RFC3339),
				})
			}
			data := map[string]interface{}{
				"task":      taskData(task),
				"intervals": list,
			}
			jsonData, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal plan: %w", err)
			}
			fmt.Fprintln(out, string(jsonData))
			return nil
		}

		fmt.Fprintf(out, "🗓  %s", task.Title)
		if task.HasSchedule() {
			fmt.Fprintf(out, " (%s)", schedule.FormatRange(task, app.loc))
		}
		fmt.Fprintln(out)

		if len(intervals) == 0 {
			fmt.Fprintln(out, "   No intervals: the window is too short for a work interval.")
			return nil
		}
		for _, iv := range intervals {
			fmt.Fprintf(out, "   %2d. %s  %-5s %s\n",
				iv.SequenceIndex+1,
				fmt.Sprintf("%s - %s", iv.StartTime.In(app.loc).Format("15:04"), iv.EndTime.In(app.loc).Format("15:04")),
				iv.Kind.Label(),
				formatMinutes(iv.Duration()),
			)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}

// taskRefFromArgs returns args[0], or lets the user pick an open task when
// no argument is given. An empty ref with a nil error means the user backed
// out.
func taskRefFromArgs(ctx context.Context, args []string, title string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if jsonOutput {
		return "", errors.New("a task is required")
	}

	tasks, err := app.tasks.ListTasks(ctx, services.ListTasksRequest{ListID: app.listID})
	if err != nil {
		return "", fmt.Errorf("failed to list tasks: %w", err)
	}
	if len(tasks) == 0 {
		return "", domain.ErrTaskNotFound
	}

	items := make([]tui.PickerItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, tui.PickerItem{Label: task.Title, Desc: schedule.FormatRange(task, app.loc)})
	}
	result := tui.RunPicker(title, items, "", &app.config.Theme)
	if result.Aborted {
		return "", nil
	}
	return tasks[result.Index].ID, nil
}
