package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

// HistoryService records finished intervals, tagged with the git context of
// the working directory when there is one.
type HistoryService struct {
	storage     ports.Storage
	gitDetector ports.GitDetector
	workingDir  string
}

// NewHistoryService creates a new history service. gitDetector may be nil.
func NewHistoryService(storage ports.Storage, gitDetector ports.GitDetector, workingDir string) *HistoryService {
	return &HistoryService{
		storage:     storage,
		gitDetector: gitDetector,
		workingDir:  workingDir,
	}
}

var _ ports.IntervalRecorder = (*HistoryService)(nil)

// RecordInterval implements ports.IntervalRecorder.
func (s *HistoryService) RecordInterval(ctx context.Context, record domain.IntervalRecord) error {
	if record.ID == "" {
		record.ID = domain.NewID()
	}

	if s.gitDetector != nil && s.gitDetector.IsAvailable() {
		info, err := s.gitDetector.Detect(ctx, s.workingDir)
		if err == nil && info != nil {
			record.GitBranch = info.Branch
			record.GitCommit = info.Commit
		}
	}

	if err := s.storage.History().Save(ctx, &record); err != nil {
		return fmt.Errorf("failed to record interval: %w", err)
	}
	return nil
}

// Recent returns intervals that ended at or after since, newest first.
func (s *HistoryService) Recent(ctx context.Context, since time.Time) ([]*domain.IntervalRecord, error) {
	return s.storage.History().FindRecent(ctx, since)
}

// ForTask returns a task's intervals, oldest first.
func (s *HistoryService) ForTask(ctx context.Context, taskID string) ([]*domain.IntervalRecord, error) {
	return s.storage.History().FindByTask(ctx, taskID)
}

// HistorySummary totals a set of interval records.
type HistorySummary struct {
	WorkIntervals  int
	BreakIntervals int
	WorkTime       time.Duration
	BreakTime      time.Duration
}

// Summarize totals records by kind.
func Summarize(records []*domain.IntervalRecord) HistorySummary {
	var sum HistorySummary
	for _, rec := range records {
		d := time.Duration(rec.DurationSeconds) * time.Second
		if rec.Kind == domain.IntervalBreak {
			sum.BreakIntervals++
			sum.BreakTime += d
			continue
		}
		sum.WorkIntervals++
		sum.WorkTime += d
	}
	return sum
}
