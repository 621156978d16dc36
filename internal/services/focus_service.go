package services

import (
	"context"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/focus"
	"github.com/xvierd/focus-cli/internal/ports"
)

// FocusService exposes a running focus session to callers on other
// goroutines. Every controller call is marshalled onto the session loop.
type FocusService struct {
	loop   *focus.Loop
	ctrl   *focus.Controller
	tasks  *TaskService
	clock  ports.Clock
	listID string
}

// NewFocusService creates a focus service over a controller owned by loop.
func NewFocusService(loop *focus.Loop, ctrl *focus.Controller, tasks *TaskService, clock ports.Clock, listID string) *FocusService {
	return &FocusService{
		loop:   loop,
		ctrl:   ctrl,
		tasks:  tasks,
		clock:  clock,
		listID: listID,
	}
}

var _ ports.FocusStateProvider = (*FocusService)(nil)

// GetFocusState returns the current display state.
func (s *FocusService) GetFocusState(ctx context.Context) (domain.DisplayState, error) {
	var d domain.DisplayState
	err := s.loop.Do(ctx, func() { d = s.ctrl.Display() })
	return d, err
}

// ListTasks returns the tasks of the focus list.
func (s *FocusService) ListTasks(ctx context.Context, includeClosed bool) ([]*domain.Task, error) {
	return s.tasks.ListTasks(ctx, ListTasksRequest{ListID: s.listID, IncludeClosed: includeClosed})
}

// PreviewIntervals partitions a task with the session's settings.
func (s *FocusService) PreviewIntervals(ctx context.Context, taskRef string) (*domain.Task, []domain.Interval, error) {
	var settings domain.ModeSettings
	if err := s.loop.Do(ctx, func() { settings = s.ctrl.Settings() }); err != nil {
		return nil, nil, err
	}
	return s.tasks.PlanIntervals(ctx, taskRef, settings, s.clock.Now())
}

// SkipTask defers a task for the rest of the session. An empty ref skips
// the current task.
func (s *FocusService) SkipTask(ctx context.Context, taskRef string) (domain.DisplayState, error) {
	id := ""
	if taskRef != "" {
		task, err := s.tasks.FindTask(ctx, taskRef)
		if err != nil {
			return domain.DisplayState{}, err
		}
		id = task.ID
	}

	return s.update(ctx, func() error {
		if id == "" {
			return s.ctrl.SkipCurrent()
		}
		s.ctrl.Skip(id)
		return nil
	})
}

// RefreshTasks clears skipped tasks and reloads the list.
func (s *FocusService) RefreshTasks(ctx context.Context) (domain.DisplayState, error) {
	return s.update(ctx, func() error { return s.ctrl.Refresh(ctx) })
}

// CompleteCurrentTask marks the current task completed.
func (s *FocusService) CompleteCurrentTask(ctx context.Context) (domain.DisplayState, error) {
	return s.update(ctx, func() error { return s.ctrl.CompleteCurrent(ctx) })
}

// update runs fn on the loop and returns the display state it leaves behind.
func (s *FocusService) update(ctx context.Context, fn func() error) (domain.DisplayState, error) {
	var d domain.DisplayState
	var fnErr error
	err := s.loop.Do(ctx, func() {
		fnErr = fn()
		d = s.ctrl.Display()
	})
	if err != nil {
		return domain.DisplayState{}, err
	}
	return d, fnErr
}
