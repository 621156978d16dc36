package schedule

import (
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
)

const (
	// longBreakEvery is the break occurrence that gets upgraded to the
	// additional (long) break.
	longBreakEvery = 3

	// longBreakMargin is the minimum number of seconds that must remain after
	// a long break for the upgrade to happen.
	longBreakMargin = 5
)

// Partition splits the task window into alternating work and break
// intervals, starting with work. Every third break is upgraded to the
// additional break unless fewer than additional+5 seconds of the window
// would remain. The sequence always ends with work and its durations sum to
// TaskDurationSeconds. Start and end times are anchored at the task's start
// time of day on day's date.
//
// Tasks without a complete schedule yield no intervals. Non-positive
// settings never loop: a zero work length puts the whole window in one work
// interval, a zero break length disables breaks and a zero additional break
// falls back to the normal break.
func Partition(task *domain.Task, settings domain.ModeSettings, day time.Time, loc *time.Location) []domain.Interval {
	remaining := TaskDurationSeconds(task, loc)
	if remaining <= 0 {
		return nil
	}

	work := settings.WorkSeconds()
	if work <= 0 {
		work = remaining
	}
	shortBreak := settings.BreakSeconds()
	longBreak := settings.AdditionalBreakSeconds()
	if longBreak <= 0 {
		longBreak = shortBreak
	}

	cursor := AnchorAt(day, *task.Start, loc)
	var intervals []domain.Interval
	emit := func(kind domain.IntervalKind, secs int) {
		end := cursor.Add(time.Duration(secs) * time.Second)
		intervals = append(intervals, domain.Interval{
			Kind:            kind,
			DurationSeconds: secs,
			StartTime:       cursor,
			EndTime:         end,
		})
		cursor = end
	}

	breaks := 0
	onWork := true
	for remaining > 0 {
		if onWork {
			n := min(remaining, work)
			emit(domain.IntervalWork, n)
			remaining -= n
			onWork = false
			continue
		}

		onWork = true
		if shortBreak <= 0 {
			continue
		}

		breaks++
		length := shortBreak
		upgraded := false
		if breaks >= longBreakEvery && remaining >= longBreak+longBreakMargin {
			length = longBreak
			upgraded = true
		}

		if remaining < length {
			// Not enough left for a break: the tail belongs to the last work.
			if last := len(intervals) - 1; last >= 0 && !intervals[last].IsBreak() {
				intervals[last].Extend(remaining)
				cursor = intervals[last].EndTime
			} else {
				emit(domain.IntervalWork, remaining)
			}
			remaining = 0
			continue
		}

		emit(domain.IntervalBreak, length)
		remaining -= length
		if upgraded {
			breaks = 0
		}
	}

	intervals = foldTrailingBreak(intervals, shortBreak)

	for len(intervals) > 0 && intervals[len(intervals)-1].DurationSeconds < 1 {
		intervals = intervals[:len(intervals)-1]
	}
	for i := range intervals {
		intervals[i].SequenceIndex = i
	}
	return intervals
}

// foldTrailingBreak makes sure the sequence ends with work. A normal trailing
// break is merged into the work before it; a longer one keeps a normal break
// and hands the rest back to work.
func foldTrailingBreak(intervals []domain.Interval, shortBreak int) []domain.Interval {
	n := len(intervals)
	if n == 0 || !intervals[n-1].IsBreak() {
		return intervals
	}

	tail := intervals[n-1]
	intervals = intervals[:n-1]

	if tail.DurationSeconds <= shortBreak || n == 1 {
		if n == 1 {
			tail.Kind = domain.IntervalWork
			return append(intervals, tail)
		}
		intervals[n-2].Extend(tail.DurationSeconds)
		return intervals
	}

	split := tail.StartTime.Add(time.Duration(shortBreak) * time.Second)
	return append(intervals,
		domain.Interval{
			Kind:            domain.IntervalBreak,
			DurationSeconds: shortBreak,
			StartTime:       tail.StartTime,
			EndTime:         split,
		},
		domain.Interval{
			Kind:            domain.IntervalWork,
			DurationSeconds: tail.DurationSeconds - shortBreak,
			StartTime:       split,
			EndTime:         tail.EndTime,
		},
	)
}

// FindNextInterval returns the index of the first interval that ends after
// now, or -1 when the whole sequence lies in the past.
func FindNextInterval(intervals []domain.Interval, now time.Time) int {
	for i, iv := range intervals {
		if iv.EndTime.After(now) {
			return i
		}
	}
	return -1
}
