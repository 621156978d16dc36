package ports

import (
	"context"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
)

// Clock abstracts the current time so the scheduler can be driven by tests.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// SystemClock implements Clock with the standard time package.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// TaskSource supplies snapshots of candidate tasks.
// This is a driven port (implemented by the task service).
type TaskSource interface {
	// CandidateTasks returns the open tasks of a list, in list order.
	CandidateTasks(ctx context.Context, listID string) ([]domain.Task, error)
}

// TaskStatusChanger receives task status change requests from the focus core.
// This is a driven port (implemented by the task service).
type TaskStatusChanger interface {
	// ChangeTaskStatus applies the change to the identified task.
	ChangeTaskStatus(ctx context.Context, taskID string, change domain.TaskStatusChange) error
}

// IntervalNotifier is told when an interval or a waiting period ends.
// This is a driven port (implemented by the notification adapter).
type IntervalNotifier interface {
	// IntervalFinished is invoked once per expiry. Errors are logged by the
	// caller and never change scheduling.
	IntervalFinished(interval domain.Interval, taskTitle string) error
}

// IntervalRecorder keeps a history of finished intervals.
// This is a driven port (implemented by the history service).
type IntervalRecorder interface {
	// RecordInterval persists one finished interval.
	RecordInterval(ctx context.Context, record domain.IntervalRecord) error
}
