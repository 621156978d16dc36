package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:     "done [task]",
	Aliases: []string{"complete"},
	Short:   "Mark a task as completed",
	Long: `Mark a task as completed so focus stops scheduling it. The task can be an
ID, an ID prefix or part of its title; without one you pick from the open
tasks.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		ref, err := taskRefFromArgs(ctx, args, "Done:")
		if err != nil || ref == "" {
			return err
		}

		task, err := app.tasks.FindTask(ctx, ref)
		if err != nil {
			return fmt.Errorf("failed to find task: %w", err)
		}
		if err := app.tasks.CompleteTask(ctx, task.ID); err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			jsonData, err := json.MarshalIndent(map[string]interface{}{
				"completed": true,
				"task_id":   task.ID,
				"title":     task.Title,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal result: %w", err)
			}
			fmt.Fprintln(out, string(jsonData))
			return nil
		}

		fmt.Fprintf(out, "✅ Task completed: %s (ID: %s)\n", task.Title, shortID(task.ID))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
}
