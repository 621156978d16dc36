package schedule

import (
	"sort"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
)

// SkippedSet holds the IDs of tasks deferred during the current session.
type SkippedSet map[string]struct{}

// NewSkippedSet returns a set containing ids.
func NewSkippedSet(ids ...string) SkippedSet {
	s := make(SkippedSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add records id as skipped.
func (s SkippedSet) Add(id string) {
	s[id] = struct{}{}
}

// Has reports whether id was skipped.
func (s SkippedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Clear forgets every skipped task.
func (s SkippedSet) Clear() {
	for id := range s {
		delete(s, id)
	}
}

// Len returns the number of skipped tasks.
func (s SkippedSet) Len() int {
	return len(s)
}

// IDs returns the skipped IDs in sorted order.
func (s SkippedSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SelectNext returns the first candidate, in list order, that is not skipped
// and whose deadline has not passed by the clock. It returns nil when no task
// qualifies.
func SelectNext(candidates []domain.Task, skipped SkippedSet, now time.Time, loc *time.Location) *domain.Task {
	for i := range candidates {
		task := candidates[i]
		if skipped.Has(task.ID) {
			continue
		}
		if IsTaskPastByClock(now, &task, loc) {
			continue
		}
		return &task
	}
	return nil
}

// FilterActiveMainTasks returns the tasks of listID, dropping background
// tasks unless the settings include them. An empty listID matches every list.
func FilterActiveMainTasks(all []domain.Task, listID string, settings domain.ModeSettings) []domain.Task {
	var out []domain.Task
	for _, task := range all {
		if listID != "" && task.ListID != listID {
			continue
		}
		if task.IsBackground && !settings.IncludeBackgroundTasks {
			continue
		}
		out = append(out, task)
	}
	return out
}
