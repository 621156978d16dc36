package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var deleteYes bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete [task]",
	Short: "Delete a task",
	Long:  `Delete a task by ID, ID prefix or title. Use with caution - this cannot be undone.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		ref, err := taskRefFromArgs(ctx, args, "Delete:")
		if err != nil || ref == "" {
			return err
		}

		task, err := app.tasks.FindTask(ctx, ref)
		if err != nil {
			return fmt.Errorf("failed to find task: %w", err)
		}

		out := cmd.OutOrStdout()
		if !jsonOutput && !deleteYes {
			fmt.Fprintf(out, "Are you sure you want to delete task '%s' (%s)? [y/N]: ", task.Title, shortID(task.ID))
			confirm, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			confirm = strings.TrimSpace(confirm)
			if confirm != "y" && confirm != "Y" {
				fmt.Fprintln(out, "Deletion cancelled.")
				return nil
			}
		}

		if err := app.tasks.DeleteTask(ctx, task.ID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		if jsonOutput {
			jsonData, err := json.MarshalIndent(map[string]interface{}{
				"deleted": true,
				"task_id": task.ID,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal result: %w", err)
			}
			fmt.Fprintln(out, string(jsonData))
			return nil
		}

		fmt.Fprintf(out, "🗑  Task '%s' deleted.\n", task.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking")
}
