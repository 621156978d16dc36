package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/adapters/mcp"
	"github.com/xvierd/focus-cli/internal/focus"
	"github.com/xvierd/focus-cli/internal/ports"
	"github.com/xvierd/focus-cli/internal/services"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server runs focus mode in the background and provides tools to read its
state, list and preview tasks, skip, refresh and complete.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !app.config.MCP.Enabled {
			return errors.New("the MCP server is disabled (focus config set mcp.enabled true)")
		}

		// stdout carries the protocol.
		fmt.Fprintln(os.Stderr, "🚀 Starting MCP server on stdio, press Ctrl+C to stop")

		ctx, cancel := context.WithCancel(setupSignalHandler())
		defer cancel()

		clock := ports.SystemClock{}
		session := newFocusSession(clock)
		defer session.ctrl.Close()
		if err := session.ctrl.Refresh(ctx); err != nil {
			return err
		}

		loop := focus.NewLoop(session.frames, time.Duration(app.config.Focus.Tick))
		go loop.Run(ctx)

		mcp.Version = Version
		svc := services.NewFocusService(loop, session.ctrl, app.tasks, clock, app.listID)
		server := mcp.NewServer(svc)

		app.logger.Info("mcp server starting", "list", app.listID)
		err := server.Start(ctx)

		cancel()
		<-loop.Done()
		app.logger.Info("mcp server stopped")

		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
