// Package ports defines the interfaces (driven and driving ports)
// for the Focus application following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
)

// TaskRepository defines the interface for task persistence.
// This is a driven port (implemented by adapters).
type TaskRepository interface {
	// Save persists a new task.
	Save(ctx context.Context, task *domain.Task) error

	// FindByID retrieves a task by its unique identifier.
	FindByID(ctx context.Context, id string) (*domain.Task, error)

	// FindByList returns the tasks of a list ordered by priority then start
	// time. Closed tasks are included only when includeClosed is set.
	FindByList(ctx context.Context, listID string, includeClosed bool) ([]*domain.Task, error)

	// FindOpen returns every task that is not completed or cancelled.
	FindOpen(ctx context.Context) ([]*domain.Task, error)

	// Update modifies an existing task.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from storage.
	Delete(ctx context.Context, id string) error
}

// HistoryRepository defines the interface for finished-interval persistence.
// This is a driven port (implemented by adapters).
type HistoryRepository interface {
	// Save persists a finished interval.
	Save(ctx context.Context, record *domain.IntervalRecord) error

	// FindRecent returns records that ended at or after since, newest first.
	FindRecent(ctx context.Context, since time.Time) ([]*domain.IntervalRecord, error)

	// FindByTask returns all records of a task, oldest first.
	FindByTask(ctx context.Context, taskID string) ([]*domain.IntervalRecord, error)
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Tasks provides access to task operations.
	Tasks() TaskRepository

	// History provides access to interval history.
	History() HistoryRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
