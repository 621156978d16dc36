// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/focus"
	"github.com/xvierd/focus-cli/internal/ports"
)

// Version is reported to MCP clients during initialization.
var Version = "dev"

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.FocusStateProvider
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.FocusStateProvider) *Server {
	s := &Server{
		stateProvider: stateProvider,
	}

	s.server = server.NewMCPServer(
		"focus",
		Version,
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_focus_state",
			mcp.WithDescription("Get the current focus state: phase, current task, its intervals and the remaining time of the active one"),
		),
		s.handleGetFocusState,
	)

	listTasksTool := mcp.NewTool(
		"list_tasks",
		mcp.WithDescription("List the tasks of the focus list, highest priority first"),
		mcp.WithBoolean(
			"include_closed",
			mcp.Description("Also list completed and cancelled tasks"),
		),
	)
	s.server.AddTool(listTasksTool, s.handleListTasks)

	previewTool := mcp.NewTool(
		"preview_intervals",
		mcp.WithDescription("Show how a task's window splits into work and break intervals with the current settings"),
		mcp.WithString(
			"task",
			mcp.Required(),
			mcp.Description("Task ID, ID prefix or title"),
		),
	)
	s.server.AddTool(previewTool, s.handlePreviewIntervals)

	skipTool := mcp.NewTool(
		"skip_task",
		mcp.WithDescription("Skip a task for the rest of the session; skips the current task when none is given"),
		mcp.WithString(
			"task",
			mcp.Description("Optional task ID, ID prefix or title"),
		),
	)
	s.server.AddTool(skipTool, s.handleSkipTask)

	s.server.AddTool(
		mcp.NewTool(
			"refresh_tasks",
			mcp.WithDescription("Reload tasks from the store and bring back skipped ones"),
		),
		s.handleRefreshTasks,
	)

	s.server.AddTool(
		mcp.NewTool(
			"complete_current_task",
			mcp.WithDescription("Mark the current task completed and move on to the next one"),
		),
		s.handleCompleteCurrentTask,
	)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

// handleGetFocusState handles the get_focus_state tool.
func (s *Server) handleGetFocusState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.stateProvider.GetFocusState(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get focus state: %v", err)), nil
	}
	return jsonResult(displayJSON(state))
}

// handleListTasks handles the list_tasks tool.
func (s *Server) handleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	includeClosed := request.GetBool("include_closed", false)

	tasks, err := s.stateProvider.ListTasks(ctx, includeClosed)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list tasks: %v", err)), nil
	}

	result := make([]map[string]interface{}, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, taskJSON(task))
	}
	return jsonResult(result)
}

// handlePreviewIntervals handles the preview_intervals tool.
func (s *Server) handlePreviewIntervals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("task")
	if err != nil {
		return mcp.NewToolResultError("task is required: " + err.Error()), nil
	}

	task, intervals, err := s.stateProvider.PreviewIntervals(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to preview intervals: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"task":          taskJSON(task),
		"intervals":     intervalsJSON(intervals),
		"total_seconds": domain.TotalSeconds(intervals),
	})
}

// handleSkipTask handles the skip_task tool.
func (s *Server) handleSkipTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := request.GetString("task", "")

	state, err := s.stateProvider.SkipTask(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to skip task: %v", err)), nil
	}
	return jsonResult(displayJSON(state))
}

// handleRefreshTasks handles the refresh_tasks tool.
func (s *Server) handleRefreshTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.stateProvider.RefreshTasks(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to refresh tasks: %v", err)), nil
	}
	return jsonResult(displayJSON(state))
}

// handleCompleteCurrentTask handles the complete_current_task tool.
func (s *Server) handleCompleteCurrentTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.stateProvider.CompleteCurrentTask(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to complete task: %v", err)), nil
	}
	return jsonResult(displayJSON(state))
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func displayJSON(d domain.DisplayState) map[string]interface{} {
	result := map[string]interface{}{
		"phase":             string(d.Phase),
		"task_id":           d.TaskID,
		"task_name":         d.TaskName,
		"task_range":        d.TaskRange,
		"intervals":         intervalsJSON(d.Intervals),
		"active_interval":   d.ActiveIntervalIndex,
		"remaining_seconds": d.RemainingTimeSeconds,
		"remaining":         focus.FormatRemaining(d.RemainingTimeSeconds),
		"is_on_break":       d.IsOnBreak,
		"progress":          d.ProgressFraction,
		"skipped":           d.Skipped,
	}
	return result
}

func taskJSON(task *domain.Task) map[string]interface{} {
	result := map[string]interface{}{
		"id":            task.ID,
		"title":         task.Title,
		"list":          task.ListID,
		"status":        string(task.Status),
		"is_background": task.IsBackground,
		"priority":      task.Priority,
		"start":         nil,
		"deadline":      nil,
	}
	if task.Start != nil {
		result["start"] = task.Start.Format(time.RFC3339)
	}
	if task.Deadline != nil {
		result["deadline"] = task.Deadline.Format(time.RFC3339)
	}
	return result
}

func intervalsJSON(intervals []domain.Interval) []map[string]interface{} {
	result := make([]map[string]interface{}, 0, len(intervals))
	for _, iv := range intervals {
		result = append(result, map[string]interface{}{
			"index":            iv.SequenceIndex,
			"kind":             string(iv.Kind),
			"duration_seconds": iv.DurationSeconds,
			"start":            iv.StartTime.Format(time.RFC3339),
			"end":              iv.EndTime.Format(time.RFC3339),
		})
	}
	return result
}
