// Package focus drives a focus session: a countdown timer stepped by a
// cooperative per-frame scheduler, and the controller that walks a task's
// work and break intervals and moves on to the next task.
//
// Nothing in this package locks. Every method of Frames, Timer and
// Controller must be called from the single goroutine that owns them: the
// bubbletea update loop, or a Loop for headless hosts.
package focus

import "sort"

// Scheduler runs callbacks once per frame until they are cancelled.
type Scheduler interface {
	// Request registers fn to run on every frame. The returned cancel func
	// is idempotent and may be called from inside fn.
	Request(fn func()) (cancel func())
}

// Frames is a Scheduler whose frames are fired by the host calling Run.
type Frames struct {
	next int
	subs map[int]func()
}

// NewFrames creates an empty frame scheduler.
func NewFrames() *Frames {
	return &Frames{subs: make(map[int]func())}
}

// Request implements Scheduler.
func (f *Frames) Request(fn func()) func() {
	id := f.next
	f.next++
	f.subs[id] = fn
	return func() {
		delete(f.subs, id)
	}
}

// Run fires one frame. Callbacks requested while the frame runs wait for the
// next frame; callbacks cancelled while it runs are not called.
func (f *Frames) Run() {
	ids := make([]int, 0, len(f.subs))
	for id := range f.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		if fn, ok := f.subs[id]; ok {
			fn()
		}
	}
}

// Pending returns the number of registered callbacks.
func (f *Frames) Pending() int {
	return len(f.subs)
}

var _ Scheduler = (*Frames)(nil)
