package focus

import (
	"fmt"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
	"github.com/xvierd/focus-cli/internal/schedule"
)

// Timer counts down to an end time, one frame at a time. It is either idle
// or running; at most one countdown is registered with the scheduler.
type Timer struct {
	scheduler Scheduler
	clock     ports.Clock
	loc       *time.Location
	state     domain.TimerState
	cancel    func()
	onChange  func(domain.TimerState)
}

// NewTimer creates an idle timer.
func NewTimer(scheduler Scheduler, clock ports.Clock, loc *time.Location) *Timer {
	return &Timer{
		scheduler: scheduler,
		clock:     clock,
		loc:       loc,
	}
}

// OnChange sets a function called whenever the timer state changes.
func (t *Timer) OnChange(fn func(domain.TimerState)) {
	t.onChange = fn
}

// Start cancels any running countdown and counts down to end. On every frame
// the remaining time is recomputed; once the clock reaches end the countdown
// stops and onExpire runs exactly once. An end in the past expires on the
// first frame.
func (t *Timer) Start(end time.Time, onExpire func()) {
	t.Stop()

	t.state.CurrentIntervalEndTime = &end
	t.state.RemainingTimeSeconds = 0
	if now := t.clock.Now(); now.Before(end) {
		t.state.RemainingTimeSeconds = schedule.RemainingSecondsUntil(now, end, t.loc)
	}

	expired := false
	t.cancel = t.scheduler.Request(func() {
		if expired {
			return
		}
		now := t.clock.Now()
		if now.Before(end) {
			t.state.RemainingTimeSeconds = schedule.RemainingSecondsUntil(now, end, t.loc)
			t.publish()
			return
		}

		expired = true
		t.Stop()
		t.state.RemainingTimeSeconds = 0
		t.publish()
		if onExpire != nil {
			onExpire()
		}
	})
	t.publish()
}

// Stop cancels the countdown. It is a no-op on an idle timer and leaves the
// state untouched.
func (t *Timer) Stop() {
	if t.cancel == nil {
		return
	}
	t.cancel()
	t.cancel = nil
}

// Reset stops the timer and zeroes its state.
func (t *Timer) Reset() {
	t.Stop()
	t.state = domain.TimerState{CurrentIntervalIndex: -1}
	t.publish()
}

// UpdateState merges patch into the state without touching the countdown.
func (t *Timer) UpdateState(patch domain.TimerPatch) {
	patch.Apply(&t.state)
	t.publish()
}

// Running reports whether a countdown is registered.
func (t *Timer) Running() bool {
	return t.cancel != nil
}

// State returns a copy of the timer state.
func (t *Timer) State() domain.TimerState {
	return t.state
}

// ProgressFraction returns remaining/duration of the current interval,
// clamped to [0,1]. A zero-length interval reports 0.
func (t *Timer) ProgressFraction() float64 {
	if t.state.CurrentIntervalDurationSeconds <= 0 {
		return 0
	}
	f := float64(t.state.RemainingTimeSeconds) / float64(t.state.CurrentIntervalDurationSeconds)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

func (t *Timer) publish() {
	if t.onChange != nil {
		t.onChange(t.state)
	}
}

// FormatRemaining formats seconds as HH:MM:SS, or MM:SS when under an hour.
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60
	if h == 0 {
		return fmt.Sprintf("%02d:%02d", m, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
