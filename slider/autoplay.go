package slider

import (
	"time"

	"github.com/agiangrant/carousel/loop"
)

// AutoplayTimer wraps a single recurring callback. Starting while
// running cancels the previous handle first, so there is never more than
// one live timer.
type AutoplayTimer struct {
	sched    loop.Scheduler
	interval time.Duration
	fire     func()

	handle loop.Handle
	anchor time.Time // last start or firing
}

// NewAutoplayTimer creates a stopped timer that calls fire every interval.
func NewAutoplayTimer(sched loop.Scheduler, interval time.Duration, fire func()) *AutoplayTimer {
	return &AutoplayTimer{sched: sched, interval: interval, fire: fire}
}

// Start (re)starts the timer. The next firing is a full interval away.
func (t *AutoplayTimer) Start() {
	t.Stop()
	t.anchor = t.sched.Now()
	t.handle = t.sched.Every(t.interval, func() {
		t.anchor = t.sched.Now()
		t.fire()
	})
}

// Stop cancels the timer if it is running.
func (t *AutoplayTimer) Stop() {
	if t.handle != nil {
		t.handle.Cancel()
		t.handle = nil
	}
}

// Running reports whether a timer handle is live.
func (t *AutoplayTimer) Running() bool {
	return t.handle != nil
}

// Interval returns the configured interval.
func (t *AutoplayTimer) Interval() time.Duration {
	return t.interval
}

// Remaining returns the time until the next firing. ok is false when the
// timer is stopped.
func (t *AutoplayTimer) Remaining() (d time.Duration, ok bool) {
	if t.handle == nil {
		return 0, false
	}
	d = t.interval - t.sched.Now().Sub(t.anchor)
	if d < 0 {
		d = 0
	}
	return d, true
}
