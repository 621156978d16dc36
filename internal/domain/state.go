package domain

import (
	"fmt"
	"time"
)

// TimerState is the countdown owned by the focus timer.
type TimerState struct {
	RemainingTimeSeconds           int
	CurrentIntervalIndex           int
	CurrentIntervalEndTime         *time.Time
	CurrentIntervalDurationSeconds int
	IsOnBreak                      bool
}

// TimerPatch carries the fields to merge into a TimerState. Nil fields are
// left untouched.
type TimerPatch struct {
	RemainingTimeSeconds           *int
	CurrentIntervalIndex           *int
	CurrentIntervalEndTime         *time.Time
	CurrentIntervalDurationSeconds *int
	IsOnBreak                      *bool
}

// Apply merges the patch into s.
func (p TimerPatch) Apply(s *TimerState) {
	if p.RemainingTimeSeconds != nil {
		s.RemainingTimeSeconds = *p.RemainingTimeSeconds
	}
	if p.CurrentIntervalIndex != nil {
		s.CurrentIntervalIndex = *p.CurrentIntervalIndex
	}
	if p.CurrentIntervalEndTime != nil {
		end := *p.CurrentIntervalEndTime
		s.CurrentIntervalEndTime = &end
	}
	if p.CurrentIntervalDurationSeconds != nil {
		s.CurrentIntervalDurationSeconds = *p.CurrentIntervalDurationSeconds
	}
	if p.IsOnBreak != nil {
		s.IsOnBreak = *p.IsOnBreak
	}
}

// Phase is the controller's display sub-state.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseWaiting Phase = "waiting"
	PhaseActive  Phase = "active"
	PhaseAllDone Phase = "all_done"
)

// AllTasksCompleteText is shown when no task is selectable.
const AllTasksCompleteText = "All tasks complete"

// WaitingText returns the label shown before the next task starts.
func WaitingText(title string) string {
	return fmt.Sprintf("On break, next: %s", title)
}

// DisplayState is what the focus core pushes to a rendering layer on every
// tick and transition.
type DisplayState struct {
	Phase                Phase
	TaskID               string
	TaskName             string
	TaskRange            string
	Intervals            []Interval
	ActiveIntervalIndex  int
	RemainingTimeSeconds int
	IsOnBreak            bool
	ProgressFraction     float64
	Skipped              int
}

// ActiveInterval returns the interval being counted down, if any.
func (d DisplayState) ActiveInterval() (Interval, bool) {
	if d.ActiveIntervalIndex < 0 || d.ActiveIntervalIndex >= len(d.Intervals) {
		return Interval{}, false
	}
	return d.Intervals[d.ActiveIntervalIndex], true
}
