package integration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/xvierd/focus-cli/internal/adapters/storage"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/focus"
	"github.com/xvierd/focus-cli/internal/ports"
	"github.com/xvierd/focus-cli/internal/services"
)

// stepClock is moved by hand between frames.
type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

// countingNotifier remembers every expiry it is told about.
type countingNotifier struct {
	intervals []domain.Interval
}

func (n *countingNotifier) IntervalFinished(iv domain.Interval, title string) error {
	n.intervals = append(n.intervals, iv)
	return nil
}

// setupTestStorage creates a temporary database for integration tests
func setupTestStorage(t *testing.T) ports.Storage {
	t.Helper()

	store, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

type harness struct {
	ctx      context.Context
	clock    *stepClock
	frames   *focus.Frames
	ctrl     *focus.Controller
	tasks    *services.TaskService
	history  *services.HistoryService
	notifier *countingNotifier
}

func newHarness(t *testing.T, start time.Time) *harness {
	t.Helper()

	store := setupTestStorage(t)
	h := &harness{
		ctx:      context.Background(),
		clock:    &stepClock{now: start},
		frames:   focus.NewFrames(),
		tasks:    services.NewTaskService(store, time.UTC),
		history:  services.NewHistoryService(store, nil, ""),
		notifier: &countingNotifier{},
	}
	h.ctrl = focus.NewController(h.frames, h.clock, focus.ControllerOptions{
		ListID:   domain.DefaultListID,
		Location: time.UTC,
		Settings: domain.DefaultModeSettings(),
		Source:   h.tasks,
		Status:   h.tasks,
		Notifier: h.notifier,
		Recorder: h.history,
	})
	t.Cleanup(h.ctrl.Close)
	return h
}

func (h *harness) addTask(t *testing.T, title string, start, deadline time.Time) *domain.Task {
	t.Helper()
	task, err := h.tasks.AddTask(h.ctx, services.AddTaskRequest{
		Title:    title,
		Start:    &start,
		Deadline: &deadline,
	})
	if err != nil {
		t.Fatalf("failed to add %q: %v", title, err)
	}
	return task
}

// stepTo moves the clock and fires one frame.
func (h *harness) stepTo(at time.Time) domain.DisplayState {
	h.clock.now = at
	h.frames.Run()
	return h.ctrl.Display()
}

func at(hour, min int) time.Time {
	return time.Date(2024, 1, 1, hour, min, 0, 0, time.UTC)
}

// TestFocusDay walks two stored tasks from the first work interval to
// completion and checks what ends up in the database.
func TestFocusDay(t *testing.T) {
	h := newHarness(t, at(9, 0))
	report := h.addTask(t, "Write report", at(9, 0), at(10, 0))
	review := h.addTask(t, "Review PRs", at(10, 30), at(11, 0))

	if err := h.ctrl.Refresh(h.ctx); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}

	d := h.ctrl.Display()
	if d.Phase != domain.PhaseActive || d.TaskID != report.ID {
		t.Fatalf("display = %s/%s, want active on the report", d.Phase, d.TaskName)
	}
	if len(d.Intervals) != 3 || d.RemainingTimeSeconds != 1500 {
		t.Fatalf("intervals = %d, remaining = %d", len(d.Intervals), d.RemainingTimeSeconds)
	}

	if d = h.stepTo(at(9, 25)); d.ActiveIntervalIndex != 1 || !d.IsOnBreak {
		t.Fatalf("at 09:25 index = %d, on break = %v, want the break", d.ActiveIntervalIndex, d.IsOnBreak)
	}
	if d = h.stepTo(at(9, 30)); d.ActiveIntervalIndex != 2 || d.RemainingTimeSeconds != 1800 {
		t.Fatalf("at 09:30 index = %d, remaining = %d", d.ActiveIntervalIndex, d.RemainingTimeSeconds)
	}

	d = h.stepTo(at(10, 0))
	if d.Phase != domain.PhaseWaiting || d.TaskID != review.ID {
		t.Fatalf("at 10:00 display = %s/%s, want waiting for the review", d.Phase, d.TaskName)
	}
	if d.TaskName != domain.WaitingText("Review PRs") || d.RemainingTimeSeconds != 1800 {
		t.Errorf("waiting display = %q, %d", d.TaskName, d.RemainingTimeSeconds)
	}

	d = h.stepTo(at(10, 30))
	if d.Phase != domain.PhaseActive || d.TaskID != review.ID {
		t.Fatalf("at 10:30 display = %s/%s, want active on the review", d.Phase, d.TaskName)
	}

	if err := h.ctrl.CompleteCurrent(h.ctx); err != nil {
		t.Fatalf("CompleteCurrent() error: %v", err)
	}
	if d = h.ctrl.Display(); d.Phase != domain.PhaseAllDone {
		t.Fatalf("after completing display = %s, want all_done", d.Phase)
	}

	stored, err := h.tasks.GetTask(h.ctx, review.ID)
	if err != nil {
		t.Fatalf("GetTask() error: %v", err)
	}
	if stored.Status != domain.StatusCompleted {
		t.Errorf("review status = %s, want completed", stored.Status)
	}
	stored, err = h.tasks.GetTask(h.ctx, report.ID)
	if err != nil {
		t.Fatalf("GetTask() error: %v", err)
	}
	if stored.Status != domain.StatusPending {
		t.Errorf("report status = %s, running out of time does not complete a task", stored.Status)
	}

	records, err := h.history.Recent(h.ctx, time.Time{})
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	sum := services.Summarize(records)
	if sum.WorkIntervals != 2 || sum.BreakIntervals != 1 {
		t.Errorf("history = %d work, %d break, want 2 and 1", sum.WorkIntervals, sum.BreakIntervals)
	}
	if sum.WorkTime != 55*time.Minute || sum.BreakTime != 5*time.Minute {
		t.Errorf("history time = %v work, %v break", sum.WorkTime, sum.BreakTime)
	}

	// Three interval ends plus the end of the wait.
	if len(h.notifier.intervals) != 4 {
		t.Errorf("notifications = %d, want 4", len(h.notifier.intervals))
	}
}

// TestSkipAndRefresh checks that a refresh forgets skips but keeps the
// current task, and that tasks completed elsewhere drop out.
func TestSkipAndRefresh(t *testing.T) {
	h := newHarness(t, at(9, 10))
	first := h.addTask(t, "First", at(9, 0), at(10, 0))
	second := h.addTask(t, "Second", at(9, 5), at(11, 0))

	if err := h.ctrl.Refresh(h.ctx); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if id := h.ctrl.Display().TaskID; id != first.ID {
		t.Fatalf("current = %s, want first", id)
	}

	if err := h.ctrl.SkipCurrent(); err != nil {
		t.Fatalf("SkipCurrent() error: %v", err)
	}
	d := h.ctrl.Display()
	if d.TaskID != second.ID || d.Skipped != 1 {
		t.Fatalf("after skip current = %s, skipped = %d", d.TaskName, d.Skipped)
	}

	if err := h.ctrl.Refresh(h.ctx); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if d = h.ctrl.Display(); d.TaskID != second.ID || d.Skipped != 0 {
		t.Fatalf("after refresh current = %s, skipped = %d, want second kept", d.TaskName, d.Skipped)
	}

	if err := h.ctrl.SkipCurrent(); err != nil {
		t.Fatalf("SkipCurrent() error: %v", err)
	}
	if d = h.ctrl.Display(); d.TaskID != first.ID {
		t.Fatalf("after skipping second current = %s, want first back", d.TaskName)
	}

	if err := h.tasks.CompleteTask(h.ctx, first.ID); err != nil {
		t.Fatalf("CompleteTask() error: %v", err)
	}
	if err := h.ctrl.Refresh(h.ctx); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if id := h.ctrl.Display().TaskID; id != second.ID {
		t.Errorf("current = %s, a completed task should not be scheduled", id)
	}
}
