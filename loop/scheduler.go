// Package loop provides the cooperative scheduler widgets run on.
//
// A Scheduler hands out three kinds of work: one-shot timers, recurring
// timers and per-frame callbacks. Every callback of a given Scheduler runs
// on the same goroutine, so widget state mutated from callbacks needs no
// locking. Two implementations exist:
//
//   - Loop, a real-time event loop with a fixed frame clock.
//   - Manual, a deterministic clock advanced by hand (tests, simulations).
package loop

import (
	"sync/atomic"
	"time"
)

// DefaultFrameInterval is the spacing between frame callbacks (60 FPS).
const DefaultFrameInterval = time.Second / 60

// Handle identifies a scheduled unit of work.
type Handle interface {
	// Cancel stops the work. Once Cancel returns on the scheduler's
	// goroutine the callback is guaranteed not to run again.
	// Calling Cancel more than once is a no-op.
	Cancel()
}

// Scheduler is the clock and task queue a widget runs on.
type Scheduler interface {
	// Now returns the scheduler's current time.
	Now() time.Time

	// After runs fn once, d from now.
	After(d time.Duration, fn func()) Handle

	// Every runs fn every d, starting d from now. d must be positive.
	Every(d time.Duration, fn func()) Handle

	// RequestFrame runs fn once on the next display frame with the frame
	// timestamp. Callbacks that want to keep animating request again.
	RequestFrame(fn func(now time.Time)) Handle
}

// task is the cancellable core shared by every Handle implementation.
type task struct {
	cancelled atomic.Bool
	stop      func() // releases the underlying runtime timer, if any
}

// Cancel implements Handle.
func (t *task) Cancel() {
	if t.cancelled.Swap(true) {
		return
	}
	if t.stop != nil {
		t.stop()
	}
}

// Cancelled reports whether Cancel has been called.
func (t *task) Cancelled() bool {
	return t.cancelled.Load()
}
