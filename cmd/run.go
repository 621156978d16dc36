package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/adapters/tui"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/focus"
	"github.com/xvierd/focus-cli/internal/ports"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run focus mode without the screen",
	Long: `Run the focus scheduler in the foreground without the fullscreen screen.
A line is printed whenever the task, the interval or the phase changes, and
notifications fire as usual. Stop it with Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		session := newFocusSession(ports.SystemClock{})
		defer session.ctrl.Close()
		if err := session.ctrl.Refresh(ctx); err != nil {
			return err
		}

		width := 0
		if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil {
			width = w
		}
		return runHeadless(ctx, cmd.OutOrStdout(), session, time.Duration(app.config.Focus.Tick), width)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// runHeadless drives session on its own loop until ctx is done, writing a
// line to out on every transition.
func runHeadless(ctx context.Context, out io.Writer, session focusSession, period time.Duration, width int) error {
	var last string
	report := func(d domain.DisplayState) {
		key := transitionKey(d)
		if key == last {
			return
		}
		last = key

		if jsonOutput {
			data, err := json.Marshal(displayData(d))
			if err != nil {
				app.logger.Error("failed to marshal display", "error", err)
				return
			}
			fmt.Fprintln(out, string(data))
			return
		}
		stamp := time.Now().Format("15:04:05")
		lineWidth := 0
		if width > 0 {
			lineWidth = width - len(stamp) - 2
		}
		fmt.Fprintf(out, "%s  %s\n", stamp, tui.StatusLine(d, lineWidth))
	}

	report(session.ctrl.Display())
	session.ctrl.OnDisplay(report)

	loop := focus.NewLoop(session.frames, period)
	loop.Run(ctx)
	return nil
}

// transitionKey changes only when a new line is worth printing.
func transitionKey(d domain.DisplayState) string {
	return fmt.Sprintf("%s|%s|%d|%d", d.Phase, d.TaskID, d.ActiveIntervalIndex, d.Skipped)
}
