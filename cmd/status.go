package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/adapters/tui"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/focus"
	"github.com/xvierd/focus-cli/internal/ports"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current status",
	Long:  `Show which task focus would work on right now and where it is in its intervals.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		session := newFocusSession(ports.SystemClock{})
		defer session.ctrl.Close()
		if err := session.ctrl.Refresh(ctx); err != nil {
			return err
		}
		d := session.ctrl.Display()

		out := cmd.OutOrStdout()
		if jsonOutput {
			jsonData, err := json.MarshalIndent(displayData(d), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal status: %w", err)
			}
			fmt.Fprintln(out, string(jsonData))
			return nil
		}

		fmt.Fprint(out, tui.RenderStatus(d))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// displayData is the JSON shape of a display snapshot in command output.
func displayData(d domain.DisplayState) map[string]interface{} {
	data := map[string]interface{}{
		"phase":             string(d.Phase),
		"task_id":           d.TaskID,
		"task_name":         d.TaskName,
		"task_range":        d.TaskRange,
		"remaining_seconds": d.RemainingTimeSeconds,
		"remaining":         focus.FormatRemaining(d.RemainingTimeSeconds),
		"is_on_break":       d.IsOnBreak,
		"progress":          d.ProgressFraction,
		"skipped":           d.Skipped,
		"interval":          nil,
		"interval_count":    len(d.Intervals),
	}
	if iv, ok := d.ActiveInterval(); ok {
		data["interval"] = map[string]interface{}{
			"index":            iv.SequenceIndex,
			"kind":             string(iv.Kind),
			"duration_seconds": iv.DurationSeconds,
		}
	}
	return data
}
