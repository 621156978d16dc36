package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

const historyColumns = `id, task_id, task_title, kind, duration_seconds, started_at, ended_at, git_branch, git_commit`

// historyRepository implements ports.HistoryRepository using SQLite.
type historyRepository struct {
	db *sql.DB
}

// newHistoryRepository creates a new interval history repository.
func newHistoryRepository(db *sql.DB) ports.HistoryRepository {
	return &historyRepository{db: db}
}

// Save persists a finished interval.
func (r *historyRepository) Save(ctx context.Context, record *domain.IntervalRecord) error {
	query := `INSERT INTO interval_history (` + historyColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		nullableString(record.TaskID),
		record.TaskTitle,
		string(record.Kind),
		record.DurationSeconds,
		record.StartedAt,
		record.EndedAt,
		nullableString(record.GitBranch),
		nullableString(record.GitCommit),
	)
	if err != nil {
		return fmt.Errorf("failed to save interval: %w", err)
	}

	return nil
}

// FindRecent returns records that ended at or after since, newest first.
func (r *historyRepository) FindRecent(ctx context.Context, since time.Time) ([]*domain.IntervalRecord, error) {
	query := `SELECT ` + historyColumns + ` FROM interval_history WHERE ended_at >= ? ORDER BY ended_at DESC`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows)
}

// FindByTask returns all records of a task, oldest first.
func (r *historyRepository) FindByTask(ctx context.Context, taskID string) ([]*domain.IntervalRecord, error) {
	query := `SELECT ` + historyColumns + ` FROM interval_history WHERE task_id = ? ORDER BY started_at`

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query task history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]*domain.IntervalRecord, error) {
	var records []*domain.IntervalRecord

	for rows.Next() {
		var rec domain.IntervalRecord
		var taskID, branch, commit sql.NullString

		err := rows.Scan(
			&rec.ID,
			&taskID,
			&rec.TaskTitle,
			&rec.Kind,
			&rec.DurationSeconds,
			&rec.StartedAt,
			&rec.EndedAt,
			&branch,
			&commit,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interval: %w", err)
		}

		rec.TaskID = taskID.String
		rec.GitBranch = branch.String
		rec.GitCommit = commit.String
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// nullableString maps "" to NULL.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
