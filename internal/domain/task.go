// Package domain contains the core business entities for Focus.
// These entities represent the tasks, settings and derived intervals of a
// focus session and are independent of any external frameworks or
// infrastructure.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common domain errors.
var (
	ErrInvalidTaskID   = errors.New("invalid task ID")
	ErrEmptyTaskTitle  = errors.New("task title cannot be empty")
	ErrTaskNotFound    = errors.New("task not found")
	ErrTaskExists      = errors.New("task already exists")
	ErrAmbiguousTask   = errors.New("task reference is ambiguous")
	ErrInvalidSchedule = errors.New("task needs both a start and a deadline")
	ErrInvalidSettings = errors.New("invalid focus settings")
	ErrNoCurrentTask   = errors.New("no current task")
	ErrLoopStopped     = errors.New("focus loop stopped")
)

// DefaultListID is the list tasks belong to when none is given.
const DefaultListID = "inbox"

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

// Task is a scheduled unit of work. The focus core only reads ID, Title,
// Start, Deadline and IsBackground; everything else belongs to the task store.
type Task struct {
	ID           string
	Title        string
	ListID       string
	Start        *time.Time
	Deadline     *time.Time
	IsBackground bool
	Priority     int
	Status       TaskStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

// TaskStatusChange carries the fields the focus core asks the task store to
// change, e.g. when the user marks the current task complete.
type TaskStatusChange struct {
	Status TaskStatus
}

// NewTask creates a new pending task with the given title in the given list.
func NewTask(title, listID string) (*Task, error) {
	title = strings.TrimSpace(title)
	if err := validateTaskTitle(title); err != nil {
		return nil, err
	}
	if listID == "" {
		listID = DefaultListID
	}

	now := time.Now()
	return &Task{
		ID:        generateID(),
		Title:     title,
		ListID:    listID,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// generateID creates a new unique identifier.
func generateID() string {
	return uuid.New().String()
}

// NewID returns a fresh identifier for records owned by adapters.
func NewID() string {
	return generateID()
}

func validateTaskTitle(title string) error {
	if title == "" {
		return ErrEmptyTaskTitle
	}
	return nil
}

// Schedule sets the task's window. Only the time of day of start and
// deadline is meaningful to the scheduler.
func (t *Task) Schedule(start, deadline time.Time) {
	t.Start = &start
	t.Deadline = &deadline
	t.UpdatedAt = time.Now()
}

// HasSchedule reports whether both ends of the task window are set.
func (t *Task) HasSchedule() bool {
	return t != nil && t.Start != nil && t.Deadline != nil
}

// Begin marks the task as in progress.
func (t *Task) Begin() {
	t.Status = StatusInProgress
	t.UpdatedAt = time.Now()
}

// Complete marks the task as completed.
func (t *Task) Complete() {
	now := time.Now()
	t.Status = StatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
}

// Cancel marks the task as cancelled.
func (t *Task) Cancel() {
	t.Status = StatusCancelled
	t.UpdatedAt = time.Now()
}

// Apply applies a status change requested by the focus core.
func (t *Task) Apply(change TaskStatusChange) {
	switch change.Status {
	case StatusCompleted:
		t.Complete()
	case StatusCancelled:
		t.Cancel()
	case StatusInProgress:
		t.Begin()
	case StatusPending:
		t.Status = StatusPending
		t.CompletedAt = nil
		t.UpdatedAt = time.Now()
	}
}

// IsOpen returns true if the task is neither completed nor cancelled.
func (t *Task) IsOpen() bool {
	return t.Status != StatusCompleted && t.Status != StatusCancelled
}

// ValidateStatus checks that s names a known task status.
func ValidateStatus(s string) (TaskStatus, error) {
	switch st := TaskStatus(s); st {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("invalid status %q: must be one of pending, in_progress, completed, cancelled", s)
}
