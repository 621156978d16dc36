package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewTask(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		listID      string
		wantTitle   string
		wantList    string
		wantErr     bool
		errExpected error
	}{
		{
			name:      "valid task",
			title:     "Write report",
			listID:    "work",
			wantTitle: "Write report",
			wantList:  "work",
		},
		{
			name:      "default list",
			title:     "Stretch",
			wantTitle: "Stretch",
			wantList:  DefaultListID,
		},
		{
			name:      "title is trimmed",
			title:     "   Valid Title   ",
			wantTitle: "Valid Title",
			wantList:  DefaultListID,
		},
		{
			name:        "empty title",
			title:       "   ",
			wantErr:     true,
			errExpected: ErrEmptyTaskTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := NewTask(tt.title, tt.listID)

			if tt.wantErr {
				if !errors.Is(err, tt.errExpected) {
					t.Errorf("NewTask() error = %v, want %v", err, tt.errExpected)
				}
				return
			}

			if err != nil {
				t.Fatalf("NewTask() unexpected error = %v", err)
			}
			if task.Title != tt.wantTitle {
				t.Errorf("NewTask() title = %q, want %q", task.Title, tt.wantTitle)
			}
			if task.ListID != tt.wantList {
				t.Errorf("NewTask() list = %q, want %q", task.ListID, tt.wantList)
			}
			if task.Status != StatusPending {
				t.Errorf("NewTask() status = %v, want %v", task.Status, StatusPending)
			}
			if task.ID == "" {
				t.Error("NewTask() ID is empty")
			}
			if task.HasSchedule() {
				t.Error("NewTask() should not have a schedule")
			}
		})
	}
}

func TestTask_Schedule(t *testing.T) {
	task, _ := NewTask("Deep work", "")
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	deadline := start.Add(2 * time.Hour)

	task.Schedule(start, deadline)

	if !task.HasSchedule() {
		t.Fatal("HasSchedule() = false after Schedule()")
	}
	if !task.Start.Equal(start) || !task.Deadline.Equal(deadline) {
		t.Errorf("Schedule() window = %v..%v, want %v..%v", task.Start, task.Deadline, start, deadline)
	}
}

func TestTask_Apply(t *testing.T) {
	tests := []struct {
		name     string
		change   TaskStatus
		want     TaskStatus
		wantOpen bool
	}{
		{"complete", StatusCompleted, StatusCompleted, false},
		{"cancel", StatusCancelled, StatusCancelled, false},
		{"begin", StatusInProgress, StatusInProgress, true},
		{"reopen", StatusPending, StatusPending, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, _ := NewTask("Test", "")
			task.Complete()

			task.Apply(TaskStatusChange{Status: tt.change})

			if task.Status != tt.want {
				t.Errorf("Apply() status = %v, want %v", task.Status, tt.want)
			}
			if task.IsOpen() != tt.wantOpen {
				t.Errorf("IsOpen() = %v, want %v", task.IsOpen(), tt.wantOpen)
			}
		})
	}
}

func TestValidateStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    TaskStatus
		wantErr bool
	}{
		{"pending", StatusPending, false},
		{"in_progress", StatusInProgress, false},
		{"completed", StatusCompleted, false},
		{"cancelled", StatusCancelled, false},
		{"done", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidateStatus(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStatus(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ValidateStatus(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestModeSettings_Validate(t *testing.T) {
	valid := DefaultModeSettings()
	if err := valid.Validate(); err != nil {
		t.Fatalf("DefaultModeSettings().Validate() error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*ModeSettings)
	}{
		{"zero work", func(s *ModeSettings) { s.WorkIntervalDuration = 0 }},
		{"negative break", func(s *ModeSettings) { s.BreakDuration = -time.Minute }},
		{"sub-second long break", func(s *ModeSettings) { s.AdditionalBreakDuration = time.Millisecond }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultModeSettings()
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("Validate() error = %v, want ErrInvalidSettings", err)
			}
		})
	}
}

func TestTimerPatch_Apply(t *testing.T) {
	end := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	remaining := 90
	onBreak := true
	state := TimerState{RemainingTimeSeconds: 10, CurrentIntervalIndex: 2, CurrentIntervalDurationSeconds: 300}

	TimerPatch{RemainingTimeSeconds: &remaining, CurrentIntervalEndTime: &end, IsOnBreak: &onBreak}.Apply(&state)

	if state.RemainingTimeSeconds != 90 {
		t.Errorf("RemainingTimeSeconds = %d, want 90", state.RemainingTimeSeconds)
	}
	if state.CurrentIntervalIndex != 2 || state.CurrentIntervalDurationSeconds != 300 {
		t.Error("Apply() should leave unset fields untouched")
	}
	if state.CurrentIntervalEndTime == nil || !state.CurrentIntervalEndTime.Equal(end) {
		t.Errorf("CurrentIntervalEndTime = %v, want %v", state.CurrentIntervalEndTime, end)
	}
	if !state.IsOnBreak {
		t.Error("IsOnBreak = false, want true")
	}
}
