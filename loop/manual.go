package loop

import (
	"time"
)

// Manual is a deterministic Scheduler whose clock only moves when Advance
// is called. Callbacks run synchronously inside Advance, in time order;
// timers due at the same instant fire before frames, then in scheduling
// order.
//
// Frames fire on a fixed grid of FrameInterval spacing anchored at the
// start time, like a display refreshing at a constant rate.
type Manual struct {
	start         time.Time
	now           time.Time
	frameInterval time.Duration

	seq    uint64
	timers []*manualTimer
	frames []*manualFrame

	frameCount uint64
}

type manualTimer struct {
	task
	due    time.Time
	period time.Duration // zero for one-shot
	seq    uint64
	fn     func()
}

type manualFrame struct {
	task
	due time.Time
	seq uint64
	fn  func(now time.Time)
}

// NewManual creates a manual clock starting at start. A non-positive
// frameInterval selects DefaultFrameInterval.
func NewManual(start time.Time, frameInterval time.Duration) *Manual {
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}
	return &Manual{
		start:         start,
		now:           start,
		frameInterval: frameInterval,
	}
}

// Now implements Scheduler.
func (m *Manual) Now() time.Time {
	return m.now
}

// Elapsed returns the time advanced since the clock was created.
func (m *Manual) Elapsed() time.Duration {
	return m.now.Sub(m.start)
}

// FrameInterval returns the frame grid spacing.
func (m *Manual) FrameInterval() time.Duration {
	return m.frameInterval
}

// After implements Scheduler.
func (m *Manual) After(d time.Duration, fn func()) Handle {
	m.seq++
	t := &manualTimer{due: m.now.Add(d), seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Every implements Scheduler.
func (m *Manual) Every(d time.Duration, fn func()) Handle {
	if d <= 0 {
		panic("loop: non-positive interval for Every")
	}
	m.seq++
	t := &manualTimer{due: m.now.Add(d), period: d, seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// RequestFrame implements Scheduler.
func (m *Manual) RequestFrame(fn func(now time.Time)) Handle {
	m.seq++
	f := &manualFrame{due: m.nextFrameAfter(m.now), seq: m.seq, fn: fn}
	m.frames = append(m.frames, f)
	return f
}

// nextFrameAfter returns the first grid point strictly after t.
func (m *Manual) nextFrameAfter(t time.Time) time.Time {
	n := t.Sub(m.start)/m.frameInterval + 1
	return m.start.Add(n * m.frameInterval)
}

// Advance moves the clock forward by d, firing everything that falls due
// on the way. Callbacks may schedule more work; work that falls within
// the window fires too.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		timer, frame := m.earliest()
		switch {
		case timer != nil && !timer.due.After(target) &&
			(frame == nil || !frame.due.Before(timer.due)):
			m.now = timer.due
			m.fireTimer(timer)
		case frame != nil && !frame.due.After(target):
			m.now = frame.due
			m.fireFrame(frame)
		default:
			m.now = target
			return
		}
	}
}

// AdvanceFrames advances the clock by n frame intervals.
func (m *Manual) AdvanceFrames(n int) {
	m.Advance(time.Duration(n) * m.frameInterval)
}

// earliest returns the next live timer and frame, dropping cancelled ones.
func (m *Manual) earliest() (*manualTimer, *manualFrame) {
	var timer *manualTimer
	live := m.timers[:0]
	for _, t := range m.timers {
		if t.Cancelled() {
			continue
		}
		live = append(live, t)
		if timer == nil || t.due.Before(timer.due) ||
			(t.due.Equal(timer.due) && t.seq < timer.seq) {
			timer = t
		}
	}
	clearTail(m.timers, len(live))
	m.timers = live

	var frame *manualFrame
	liveFrames := m.frames[:0]
	for _, f := range m.frames {
		if f.Cancelled() {
			continue
		}
		liveFrames = append(liveFrames, f)
		if frame == nil || f.due.Before(frame.due) ||
			(f.due.Equal(frame.due) && f.seq < frame.seq) {
			frame = f
		}
	}
	for i := len(liveFrames); i < len(m.frames); i++ {
		m.frames[i] = nil
	}
	m.frames = liveFrames

	return timer, frame
}

func clearTail(s []*manualTimer, from int) {
	for i := from; i < len(s); i++ {
		s[i] = nil
	}
}

func (m *Manual) fireTimer(t *manualTimer) {
	if t.period > 0 {
		t.due = t.due.Add(t.period)
	} else {
		t.cancelled.Store(true)
	}
	t.fn()
}

func (m *Manual) fireFrame(f *manualFrame) {
	f.cancelled.Store(true)
	m.frameCount++
	f.fn(m.now)
}

// ActiveTimers returns the number of live After/Every timers.
func (m *Manual) ActiveTimers() int {
	n := 0
	for _, t := range m.timers {
		if !t.Cancelled() {
			n++
		}
	}
	return n
}

// PendingFrames returns the number of frame callbacks waiting to fire.
func (m *Manual) PendingFrames() int {
	n := 0
	for _, f := range m.frames {
		if !f.Cancelled() {
			n++
		}
	}
	return n
}

// NextTimer returns the due time of the earliest live timer.
func (m *Manual) NextTimer() (time.Time, bool) {
	var next time.Time
	found := false
	for _, t := range m.timers {
		if t.Cancelled() {
			continue
		}
		if !found || t.due.Before(next) {
			next = t.due
			found = true
		}
	}
	return next, found
}

// FramesFired returns how many frame callbacks have run.
func (m *Manual) FramesFired() uint64 {
	return m.frameCount
}
