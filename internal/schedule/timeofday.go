// Package schedule holds the pure scheduling rules of focus mode: time-of-day
// arithmetic, partitioning a task window into work and break intervals, and
// picking the next task to focus on.
//
// All comparisons use the time of day only. Calendar dates are discarded, so
// a window that crosses midnight is measured correctly but "started" and
// "past" checks near midnight compare clock readings, not instants.
package schedule

import (
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
)

// SecondsPerDay is the length of a day in seconds.
const SecondsPerDay = 24 * 60 * 60

// SecondsOfDay returns hour*3600 + minute*60 + second of t in loc.
func SecondsOfDay(t time.Time, loc *time.Location) int {
	h, m, s := t.In(loc).Clock()
	return h*3600 + m*60 + s
}

// RemainingSecondsUntil returns the distance in seconds between the clock
// readings of now and target, ignoring their dates.
func RemainingSecondsUntil(now, target time.Time, loc *time.Location) int {
	d := SecondsOfDay(now, loc) - SecondsOfDay(target, loc)
	if d < 0 {
		return -d
	}
	return d
}

// HasTaskStartedByClock reports whether the clock has reached the task's
// start time of day.
func HasTaskStartedByClock(now time.Time, task *domain.Task, loc *time.Location) bool {
	if task == nil || task.Start == nil {
		return false
	}
	return SecondsOfDay(now, loc) >= SecondsOfDay(*task.Start, loc)
}

// IsTaskPastByClock reports whether the clock has reached the task's
// deadline time of day. Tasks without a deadline are never past.
func IsTaskPastByClock(now time.Time, task *domain.Task, loc *time.Location) bool {
	if task == nil || task.Deadline == nil {
		return false
	}
	return SecondsOfDay(now, loc) >= SecondsOfDay(*task.Deadline, loc)
}

// TaskDurationSeconds returns the length of the task window in seconds.
// A deadline earlier in the day than the start is read as the next day.
func TaskDurationSeconds(task *domain.Task, loc *time.Location) int {
	if !task.HasSchedule() {
		return 0
	}
	d := SecondsOfDay(*task.Deadline, loc) - SecondsOfDay(*task.Start, loc)
	if d < 0 {
		d += SecondsPerDay
	}
	return d
}

// AnchorAt returns the instant on day's calendar date (in loc) whose clock
// reading equals that of tod.
func AnchorAt(day, tod time.Time, loc *time.Location) time.Time {
	d := day.In(loc)
	h, m, s := tod.In(loc).Clock()
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, s, 0, loc)
}

// FormatRange renders the task window as "15:04 - 16:30".
func FormatRange(task *domain.Task, loc *time.Location) string {
	if !task.HasSchedule() {
		return ""
	}
	return task.Start.In(loc).Format("15:04") + " - " + task.Deadline.In(loc).Format("15:04")
}
