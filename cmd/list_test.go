package cmd

import (
	"testing"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
)

func TestListCmd(t *testing.T) {
	if listCmd.Use != "list" {
		t.Errorf("listCmd.Use = %q, want %q", listCmd.Use, "list")
	}

	flag := listCmd.Flags().Lookup("all")
	if flag == nil {
		t.Fatal("listCmd should have --all flag")
	}
	if flag.Shorthand != "a" {
		t.Errorf("all flag shorthand = %q, want %q", flag.Shorthand, "a")
	}
}

// TestGetStatusIcon tests the status icon helper
func TestGetStatusIcon(t *testing.T) {
	tests := []struct {
		status   domain.TaskStatus
		expected string
	}{
		{domain.StatusPending, "⏳"},
		{domain.StatusInProgress, "▶️"},
		{domain.StatusCompleted, "✅"},
		{domain.StatusCancelled, "❌"},
		{domain.TaskStatus("unknown"), "❓"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			got := getStatusIcon(tt.status)
			if got != tt.expected {
				t.Errorf("getStatusIcon(%q) = %q, want %q", tt.status, got, tt.expected)
			}
		})
	}
}

func TestTaskData(t *testing.T) {
	task, err := domain.NewTask("Write report", "")
	if err != nil {
		t.Fatal(err)
	}

	data := taskData(task)
	if data["start"] != nil || data["deadline"] != nil {
		t.Error("an unscheduled task has null start and deadline")
	}
	if data["list"] != domain.DefaultListID {
		t.Errorf("list = %v, want %s", data["list"], domain.DefaultListID)
	}

	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	task.Schedule(start, start.Add(time.Hour))
	data = taskData(task)
	if data["start"] != "2024-01-01T09:00:00Z" || data["deadline"] != "2024-01-01T10:00:00Z" {
		t.Errorf("window = %v - %v", data["start"], data["deadline"])
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID() = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID(short) = %q", got)
	}
}
