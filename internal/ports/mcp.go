package ports

import (
	"context"

	"github.com/xvierd/focus-cli/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// FocusStateProvider exposes the running focus session to the MCP server.
// This is a driven port (implemented by the services layer).
type FocusStateProvider interface {
	// GetFocusState returns the current display state.
	GetFocusState(ctx context.Context) (domain.DisplayState, error)

	// ListTasks returns the tasks of the focus list.
	ListTasks(ctx context.Context, includeClosed bool) ([]*domain.Task, error)

	// PreviewIntervals partitions a task with the current settings.
	PreviewIntervals(ctx context.Context, taskRef string) (*domain.Task, []domain.Interval, error)

	// SkipTask defers a task for the rest of the session.
	SkipTask(ctx context.Context, taskRef string) (domain.DisplayState, error)

	// RefreshTasks clears skipped tasks and reloads the list.
	RefreshTasks(ctx context.Context) (domain.DisplayState, error)

	// CompleteCurrentTask marks the current task completed.
	CompleteCurrentTask(ctx context.Context) (domain.DisplayState, error)
}
