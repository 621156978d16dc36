package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/schedule"
	"github.com/xvierd/focus-cli/internal/services"
)

var listAll bool

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List the open tasks of the focus list, in the order focus considers them.
Use --all to include completed and cancelled tasks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		tasks, err := app.tasks.ListTasks(ctx, services.ListTasksRequest{
			ListID:        app.listID,
			IncludeClosed: listAll,
		})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			taskList := make([]map[string]interface{}, 0, len(tasks))
			for _, task := range tasks {
				taskList = append(taskList, taskData(task))
			}
			data := map[string]interface{}{
				"tasks": taskList,
				"count": len(taskList),
			}
			jsonData, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal tasks: %w", err)
			}
			fmt.Fprintln(out, string(jsonData))
			return nil
		}

		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}

		fmt.Fprintf(out, "📋 Tasks (%d):\n\n", len(tasks))
		for _, task := range tasks {
			fmt.Fprintf(out, "%s %s (ID: %s)\n", getStatusIcon(task.Status), task.Title, shortID(task.ID))
			if task.HasSchedule() {
				fmt.Fprintf(out, "   Window: %s\n", schedule.FormatRange(task, app.loc))
			}
			var extras []string
			if task.IsBackground {
				extras = append(extras, "background")
			}
			if task.Priority != 0 {
				extras = append(extras, fmt.Sprintf("priority %d", task.Priority))
			}
			if app.listID == "" {
				extras = append(extras, "list "+task.ListID)
			}
			if len(extras) > 0 {
				fmt.Fprintf(out, "   %v\n", extras)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "List all tasks (default: open only)")
}

func getStatusIcon(status domain.TaskStatus) string {
	switch status {
	case domain.StatusPending:
		return "⏳"
	case domain.StatusInProgress:
		return "▶️"
	case domain.StatusCompleted:
		return "✅"
	case domain.StatusCancelled:
		return "❌"
	default:
		return "❓"
	}
}

// taskData is the JSON shape of a task in command output.
func taskData(task *domain.Task) map[string]interface{} {
	data := map[string]interface{}{
		"id":            task.ID,
		"title":         task.Title,
		"list":          task.ListID,
		"status":        string(task.Status),
		"is_background": task.IsBackground,
		"priority":      task.Priority,
		"start":         nil,
		"deadline":      nil,
		"created_at":    task.CreatedAt.Format(time.RFC3339),
	}
	if task.Start != nil {
		data["start"] = task.Start.Format(time.RFC3339)
	}
	if task.Deadline != nil {
		data["deadline"] = task.Deadline.Format(time.RFC3339)
	}
	return data
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
