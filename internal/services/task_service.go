// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
	"github.com/xvierd/focus-cli/internal/schedule"
)

// TaskService handles task-related use cases. It also serves the focus
// controller as its task source and status changer.
type TaskService struct {
	storage ports.Storage
	loc     *time.Location
}

// NewTaskService creates a new task service. Task windows are checked in loc.
func NewTaskService(storage ports.Storage, loc *time.Location) *TaskService {
	if loc == nil {
		loc = time.Local
	}
	return &TaskService{storage: storage, loc: loc}
}

var (
	_ ports.TaskSource        = (*TaskService)(nil)
	_ ports.TaskStatusChanger = (*TaskService)(nil)
)

// AddTaskRequest contains the data needed to create a new task.
type AddTaskRequest struct {
	Title        string
	ListID       string
	Start        *time.Time
	Deadline     *time.Time
	IsBackground bool
	Priority     int
}

// AddTask creates a new task. A task is either unscheduled or has both a
// start and a deadline with different times of day.
func (s *TaskService) AddTask(ctx context.Context, req AddTaskRequest) (*domain.Task, error) {
	task, err := domain.NewTask(req.Title, req.ListID)
	if err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	switch {
	case req.Start == nil && req.Deadline == nil:
	case req.Start == nil || req.Deadline == nil:
		return nil, fmt.Errorf("invalid task: %w", domain.ErrInvalidSchedule)
	default:
		task.Schedule(*req.Start, *req.Deadline)
		if schedule.TaskDurationSeconds(task, s.loc) == 0 {
			return nil, fmt.Errorf("invalid task: start and deadline are the same time: %w", domain.ErrInvalidSchedule)
		}
	}
	task.IsBackground = req.IsBackground
	task.Priority = req.Priority

	if err := s.storage.Tasks().Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	return task, nil
}

// ListTasksRequest contains filters for listing tasks.
type ListTasksRequest struct {
	// ListID restricts the listing to one list; empty means the open tasks
	// of every list.
	ListID        string
	IncludeClosed bool
}

// ListTasks retrieves tasks based on filters.
func (s *TaskService) ListTasks(ctx context.Context, req ListTasksRequest) ([]*domain.Task, error) {
	if req.ListID == "" {
		return s.storage.Tasks().FindOpen(ctx)
	}
	return s.storage.Tasks().FindByList(ctx, req.ListID, req.IncludeClosed)
}

// GetTask retrieves a single task by ID.
func (s *TaskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.storage.Tasks().FindByID(ctx, id)
}

// FindTask resolves ref to an open task: an exact ID, then a unique ID
// prefix, then the best fuzzy title match. A prefix shared by several tasks
// is an error rather than a title search.
func (s *TaskService) FindTask(ctx context.Context, ref string) (*domain.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domain.ErrInvalidTaskID
	}

	task, err := s.storage.Tasks().FindByID(ctx, ref)
	if err == nil {
		return task, nil
	}
	if !errors.Is(err, domain.ErrTaskNotFound) {
		return nil, fmt.Errorf("failed to look up task: %w", err)
	}

	tasks, err := s.storage.Tasks().FindOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	var byPrefix []*domain.Task
	for _, task := range tasks {
		if strings.HasPrefix(task.ID, ref) {
			byPrefix = append(byPrefix, task)
		}
	}
	switch {
	case len(byPrefix) == 1:
		return byPrefix[0], nil
	case len(byPrefix) > 1:
		return nil, fmt.Errorf("%q matches %d tasks: %w", ref, len(byPrefix), domain.ErrAmbiguousTask)
	}

	titles := make([]string, len(tasks))
	for i, task := range tasks {
		titles[i] = task.Title
	}
	matches := fuzzy.Find(ref, titles)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%q: %w", ref, domain.ErrTaskNotFound)
	}

	return tasks[matches[0].Index], nil
}

// CompleteTask marks a task as completed.
func (s *TaskService) CompleteTask(ctx context.Context, id string) error {
	return s.ChangeTaskStatus(ctx, id, domain.TaskStatusChange{Status: domain.StatusCompleted})
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	return s.storage.Tasks().Delete(ctx, id)
}

// CandidateTasks returns the open tasks of a list in list order. An empty
// listID returns the open tasks of every list.
func (s *TaskService) CandidateTasks(ctx context.Context, listID string) ([]domain.Task, error) {
	tasks, err := s.ListTasks(ctx, ListTasksRequest{ListID: listID})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, *task)
	}
	return out, nil
}

// ChangeTaskStatus applies a status change to a stored task.
func (s *TaskService) ChangeTaskStatus(ctx context.Context, taskID string, change domain.TaskStatusChange) error {
	task, err := s.storage.Tasks().FindByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to find task: %w", err)
	}

	task.Apply(change)
	if err := s.storage.Tasks().Update(ctx, task); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

// PlanIntervals resolves ref and partitions it with settings, anchored on
// now's date.
func (s *TaskService) PlanIntervals(ctx context.Context, ref string, settings domain.ModeSettings, now time.Time) (*domain.Task, []domain.Interval, error) {
	task, err := s.FindTask(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	if !task.HasSchedule() {
		return task, nil, fmt.Errorf("task %q: %w", task.Title, domain.ErrInvalidSchedule)
	}
	return task, schedule.Partition(task, settings, now, s.loc), nil
}

// Location returns the time zone task windows are read in.
func (s *TaskService) Location() *time.Location {
	return s.loc
}
