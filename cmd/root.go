// Package cmd provides the CLI commands for the Focus application.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/adapters/tui"
	"github.com/xvierd/focus-cli/internal/ports"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	dbPath     string
	jsonOutput bool
	listFlag   string
	inlineMode bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "focus",
	Short: "Focus - work through today's tasks in timed intervals",
	Long: `Focus picks the task whose time window is open right now, splits the
rest of that window into work and break intervals and counts you through
them. When a task runs out of time it moves on to the next one.

Run "focus" with no arguments to open the focus screen.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: runFocusScreen,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (default: ~/.focus/focus.db)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	rootCmd.PersistentFlags().StringVar(&listFlag, "list", "", "Task list to focus on (default: focus.list from config, empty for all lists)")
	rootCmd.Flags().BoolVarP(&inlineMode, "inline", "i", false, "Compact inline screen (no fullscreen)")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("Focus CLI\nVersion: {{.Version}}\n")
}

// runFocusScreen loads the candidate tasks and shows the focus screen until
// the user quits.
func runFocusScreen(cmd *cobra.Command, args []string) error {
	ctx := setupSignalHandler()

	session := newFocusSession(ports.SystemClock{})
	defer session.ctrl.Close()

	if err := session.ctrl.Refresh(ctx); err != nil {
		return err
	}

	model := tui.NewModel(ctx, tui.NewSession(session.frames, session.ctrl), tui.Options{
		Theme:                &app.config.Theme,
		Tick:                 time.Duration(app.config.Focus.Tick),
		Inline:               inlineMode,
		NotificationsEnabled: app.config.Notifications.Enabled,
		NotificationToggle: func(on bool) {
			app.config.Notifications.Enabled = on
			app.logger.Info("notifications toggled", "enabled", on)
		},
	})
	return tui.Run(ctx, model)
}

// formatMinutes formats a duration as "25m", "1h", or "1h30m".
func formatMinutes(d time.Duration) string {
	total := int(d.Minutes())
	h := total / 60
	m := total % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh%dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// getDir returns the directory part of a path.
func getDir(path string) string {
	return filepath.Dir(strings.TrimSuffix(path, string(filepath.Separator)))
}
