package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/xvierd/focus-cli/internal/domain"
)

// mockStateProvider is a mock implementation of ports.FocusStateProvider for testing.
type mockStateProvider struct {
	state         domain.DisplayState
	tasks         []*domain.Task
	intervals     []domain.Interval
	err           error
	includeClosed bool
	skipped       []string
	refreshed     int
	completed     int
}

func (m *mockStateProvider) GetFocusState(ctx context.Context) (domain.DisplayState, error) {
	return m.state, m.err
}

func (m *mockStateProvider) ListTasks(ctx context.Context, includeClosed bool) ([]*domain.Task, error) {
	m.includeClosed = includeClosed
	return m.tasks, m.err
}

func (m *mockStateProvider) PreviewIntervals(ctx context.Context, taskRef string) (*domain.Task, []domain.Interval, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	for _, task := range m.tasks {
		if task.ID == taskRef || task.Title == taskRef {
			return task, m.intervals, nil
		}
	}
	return nil, nil, domain.ErrTaskNotFound
}

func (m *mockStateProvider) SkipTask(ctx context.Context, taskRef string) (domain.DisplayState, error) {
	m.skipped = append(m.skipped, taskRef)
	return m.state, m.err
}

func (m *mockStateProvider) RefreshTasks(ctx context.Context) (domain.DisplayState, error) {
	m.refreshed++
	return m.state, m.err
}

func (m *mockStateProvider) CompleteCurrentTask(ctx context.Context) (domain.DisplayState, error) {
	m.completed++
	return m.state, m.err
}

func scheduledTask(t *testing.T, title string) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(title, "")
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	task.Schedule(start, start.Add(time.Hour))
	return task
}

func activeState() domain.DisplayState {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return domain.DisplayState{
		Phase:     domain.PhaseActive,
		TaskID:    "abc",
		TaskName:  "Write report",
		TaskRange: "09:00 - 10:00",
		Intervals: []domain.Interval{
			{SequenceIndex: 0, Kind: domain.IntervalWork, DurationSeconds: 1500, StartTime: start, EndTime: start.Add(25 * time.Minute)},
		},
		ActiveIntervalIndex:  0,
		RemainingTimeSeconds: 1200,
		ProgressFraction:     0.2,
	}
}

// decode unmarshals the text content of a tool result.
func decode(t *testing.T, result *mcp.CallToolResult, v interface{}) {
	t.Helper()
	if result == nil {
		t.Fatal("nil result")
	}
	if len(result.Content) == 0 {
		t.Fatal("empty content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", result.Content[0])
	}
	if err := json.Unmarshal([]byte(text.Text), v); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func TestNewServer(t *testing.T) {
	server := NewServer(&mockStateProvider{})
	if server == nil {
		t.Fatal("NewServer() returned nil")
	}
	if server.server == nil {
		t.Error("NewServer() did not initialize MCP server")
	}
}

func TestServer_IsRunning(t *testing.T) {
	server := NewServer(&mockStateProvider{})

	if server.IsRunning() {
		t.Error("IsRunning() should be false before Start()")
	}
}

func TestServer_Stop(t *testing.T) {
	server := NewServer(&mockStateProvider{})

	// Stop before Start should not panic
	if err := server.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestServer_handleGetFocusState(t *testing.T) {
	server := NewServer(&mockStateProvider{state: activeState()})

	result, err := server.handleGetFocusState(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleGetFocusState() error = %v", err)
	}

	var got map[string]interface{}
	decode(t, result, &got)
	if got["phase"] != "active" {
		t.Errorf("phase = %v, want active", got["phase"])
	}
	if got["remaining"] != "20:00" {
		t.Errorf("remaining = %v, want 20:00", got["remaining"])
	}
	if got["task_range"] != "09:00 - 10:00" {
		t.Errorf("task_range = %v", got["task_range"])
	}
	if intervals, _ := got["intervals"].([]interface{}); len(intervals) != 1 {
		t.Errorf("intervals = %v, want one", got["intervals"])
	}
}

func TestServer_handleGetFocusState_Error(t *testing.T) {
	server := NewServer(&mockStateProvider{err: domain.ErrLoopStopped})

	result, err := server.handleGetFocusState(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleGetFocusState() error = %v", err)
	}
	if !result.IsError {
		t.Error("handleGetFocusState() should return an error result when the loop is stopped")
	}
}

func TestServer_handleListTasks(t *testing.T) {
	unscheduled, _ := domain.NewTask("Someday", "")
	mock := &mockStateProvider{
		tasks: []*domain.Task{scheduledTask(t, "Write report"), unscheduled},
	}
	server := NewServer(mock)

	result, err := server.handleListTasks(context.Background(), callRequest(map[string]interface{}{
		"include_closed": true,
	}))
	if err != nil {
		t.Fatalf("handleListTasks() error = %v", err)
	}
	if !mock.includeClosed {
		t.Error("include_closed was not passed to the provider")
	}

	var got []map[string]interface{}
	decode(t, result, &got)
	if len(got) != 2 {
		t.Fatalf("listed %d tasks, want 2", len(got))
	}
	if got[0]["start"] != "2024-01-01T09:00:00Z" {
		t.Errorf("start = %v", got[0]["start"])
	}
	if got[1]["deadline"] != nil {
		t.Errorf("unscheduled deadline = %v, want null", got[1]["deadline"])
	}
}

func TestServer_handlePreviewIntervals(t *testing.T) {
	task := scheduledTask(t, "Write report")
	mock := &mockStateProvider{
		tasks:     []*domain.Task{task},
		intervals: activeState().Intervals,
	}
	server := NewServer(mock)

	result, err := server.handlePreviewIntervals(context.Background(), callRequest(map[string]interface{}{
		"task": "Write report",
	}))
	if err != nil {
		t.Fatalf("handlePreviewIntervals() error = %v", err)
	}

	var got map[string]interface{}
	decode(t, result, &got)
	if got["total_seconds"] != float64(1500) {
		t.Errorf("total_seconds = %v, want 1500", got["total_seconds"])
	}
}

func TestServer_handlePreviewIntervals_Errors(t *testing.T) {
	server := NewServer(&mockStateProvider{})

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing task", map[string]interface{}{}},
		{"unknown task", map[string]interface{}{"task": "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := server.handlePreviewIntervals(context.Background(), callRequest(tt.args))
			if err != nil {
				t.Fatalf("handlePreviewIntervals() error = %v", err)
			}
			if !result.IsError {
				t.Error("handlePreviewIntervals() should return an error result")
			}
		})
	}
}

func TestServer_handleSkipTask(t *testing.T) {
	mock := &mockStateProvider{state: activeState()}
	server := NewServer(mock)

	if _, err := server.handleSkipTask(context.Background(), callRequest(nil)); err != nil {
		t.Fatalf("handleSkipTask() error = %v", err)
	}
	if _, err := server.handleSkipTask(context.Background(), callRequest(map[string]interface{}{"task": "abc"})); err != nil {
		t.Fatalf("handleSkipTask() error = %v", err)
	}

	if len(mock.skipped) != 2 || mock.skipped[0] != "" || mock.skipped[1] != "abc" {
		t.Errorf("skipped = %q, want [\"\" \"abc\"]", mock.skipped)
	}
}

func TestServer_handleRefreshAndComplete(t *testing.T) {
	mock := &mockStateProvider{state: domain.DisplayState{Phase: domain.PhaseAllDone, ActiveIntervalIndex: -1}}
	server := NewServer(mock)
	ctx := context.Background()

	result, err := server.handleRefreshTasks(ctx, mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleRefreshTasks() error = %v", err)
	}
	var got map[string]interface{}
	decode(t, result, &got)
	if got["phase"] != "all_done" {
		t.Errorf("phase = %v, want all_done", got["phase"])
	}

	if _, err := server.handleCompleteCurrentTask(ctx, mcp.CallToolRequest{}); err != nil {
		t.Fatalf("handleCompleteCurrentTask() error = %v", err)
	}
	if mock.refreshed != 1 || mock.completed != 1 {
		t.Errorf("refreshed = %d, completed = %d, want 1 and 1", mock.refreshed, mock.completed)
	}

	mock.err = errors.New("store is locked")
	result, err = server.handleCompleteCurrentTask(ctx, mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleCompleteCurrentTask() error = %v", err)
	}
	if !result.IsError {
		t.Error("handleCompleteCurrentTask() should surface provider errors as tool errors")
	}
}
