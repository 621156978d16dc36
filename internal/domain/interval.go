package domain

import "time"

// IntervalKind distinguishes focus time from rest time.
type IntervalKind string

const (
	IntervalWork  IntervalKind = "work"
	IntervalBreak IntervalKind = "break"
)

// Label returns a human-readable label.
func (k IntervalKind) Label() string {
	switch k {
	case IntervalWork:
		return "Work"
	case IntervalBreak:
		return "Break"
	default:
		return "Unknown"
	}
}

// Interval is one derived slice of a task's window. Sequences are recomputed
// on every scheduling pass and never persisted as such.
type Interval struct {
	SequenceIndex   int
	Kind            IntervalKind
	DurationSeconds int
	StartTime       time.Time
	EndTime         time.Time
}

// IsBreak returns true for break intervals.
func (i Interval) IsBreak() bool {
	return i.Kind == IntervalBreak
}

// Duration returns the interval length as a time.Duration.
func (i Interval) Duration() time.Duration {
	return time.Duration(i.DurationSeconds) * time.Second
}

// Extend lengthens the interval by secs seconds.
func (i *Interval) Extend(secs int) {
	i.DurationSeconds += secs
	i.EndTime = i.EndTime.Add(time.Duration(secs) * time.Second)
}

// TotalSeconds sums the durations of a sequence.
func TotalSeconds(intervals []Interval) int {
	total := 0
	for _, iv := range intervals {
		total += iv.DurationSeconds
	}
	return total
}

// IntervalRecord is a finished interval kept in history.
type IntervalRecord struct {
	ID              string
	TaskID          string
	TaskTitle       string
	Kind            IntervalKind
	DurationSeconds int
	StartedAt       time.Time
	EndedAt         time.Time
	GitBranch       string
	GitCommit       string
}
