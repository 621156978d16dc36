package focus

import (
	"context"
	"log/slog"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
)

// DefaultFramePeriod is how often a Loop fires a frame.
const DefaultFramePeriod = 250 * time.Millisecond

// Loop owns the focus goroutine for hosts without their own event loop. It
// fires frames on a ticker and runs posted functions between frames, so
// code touching a Controller never races with its timer.
type Loop struct {
	frames *Frames
	period time.Duration
	events chan func()
	done   chan struct{}
	logger *slog.Logger
}

// NewLoop creates a loop that fires frames every period.
func NewLoop(frames *Frames, period time.Duration) *Loop {
	if period <= 0 {
		period = DefaultFramePeriod
	}
	return &Loop{
		frames: frames,
		period: period,
		events: make(chan func()),
		done:   make(chan struct{}),
		logger: slog.Default().With("component", "focus-loop"),
	}
}

// Run processes frames and posted functions until ctx is done. It must be
// called once.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)

	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.guard("frame", l.frames.Run)
		case fn := <-l.events:
			l.guard("event", fn)
		}
	}
}

// guard runs fn and logs a panic instead of letting it end the loop.
func (l *Loop) guard(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("focus loop recovered from panic", "in", what, "panic", r)
		}
	}()
	fn()
}

// Do runs fn on the loop goroutine and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	event := func() {
		defer close(finished)
		fn()
	}

	select {
	case l.events <- event:
	case <-l.done:
		return domain.ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		select {
		case <-finished:
			return nil
		default:
			return domain.ErrLoopStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
