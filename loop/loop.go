package loop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrRunning is returned by Run when the loop is already running.
var ErrRunning = errors.New("loop: already running")

// Config configures a Loop.
type Config struct {
	// FrameRate is the number of frame callbacks per second while any
	// frame is pending. The frame clock is idle otherwise.
	FrameRate int

	// QueueSize bounds the number of posted tasks waiting to run.
	QueueSize int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		FrameRate: 60,
		QueueSize: 256,
	}
}

// Loop is a real-time Scheduler. All timers, frames and posted tasks run
// on the goroutine that called Run.
type Loop struct {
	cfg   Config
	tasks chan func()

	mu     sync.Mutex
	frames []*frameTask

	running   atomic.Bool
	closed    chan struct{}
	closeOnce sync.Once
	done      chan struct{}

	frameCount atomic.Uint64
	taskCount  atomic.Uint64
}

// frameTask is a pending RequestFrame callback.
type frameTask struct {
	task
	fn func(now time.Time)
}

// New creates a loop with the specified configuration.
func New(cfg Config) *Loop {
	def := DefaultConfig()
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = def.FrameRate
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	return &Loop{
		cfg:    cfg,
		tasks:  make(chan func(), cfg.QueueSize),
		closed: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Run processes tasks until ctx is done or Stop is called. It blocks.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer close(l.done)
	defer l.Stop()

	interval := time.Second / time.Duration(l.cfg.FrameRate)

	// The frame clock only ticks while frames are pending, so an idle
	// widget costs nothing between timer firings.
	var ticker *time.Ticker
	var tick <-chan time.Time
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		pending := l.pendingFrames()
		switch {
		case pending && ticker == nil:
			ticker = time.NewTicker(interval)
			tick = ticker.C
		case !pending && ticker != nil:
			ticker.Stop()
			ticker = nil
			tick = nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-l.closed:
			return nil
		case fn := <-l.tasks:
			l.taskCount.Add(1)
			fn()
		case now := <-tick:
			l.runFrames(now)
		}
	}
}

// Stop ends Run. Pending work is dropped. Safe to call more than once.
func (l *Loop) Stop() {
	l.closeOnce.Do(func() {
		close(l.closed)
	})
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Post queues fn to run on the loop goroutine. It is how host goroutines
// (input readers, UI frameworks) hand events to widgets. Returns false
// once the loop is stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.closed:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.closed:
		return false
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
// Must not be called from the loop goroutine.
func (l *Loop) Do(fn func()) bool {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return false
	}
	select {
	case <-finished:
		return true
	case <-l.done:
		return false
	}
}

// Now implements Scheduler.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// After implements Scheduler.
func (l *Loop) After(d time.Duration, fn func()) Handle {
	t := &task{}
	timer := time.AfterFunc(d, func() {
		l.Post(func() {
			if t.Cancelled() {
				return
			}
			t.cancelled.Store(true)
			fn()
		})
	})
	t.stop = func() { timer.Stop() }
	return t
}

// Every implements Scheduler.
func (l *Loop) Every(d time.Duration, fn func()) Handle {
	t := &task{}
	ticker := time.NewTicker(d)
	quit := make(chan struct{})
	t.stop = func() {
		ticker.Stop()
		close(quit)
	}

	go func() {
		for {
			select {
			case <-ticker.C:
				l.Post(func() {
					if !t.Cancelled() {
						fn()
					}
				})
			case <-quit:
				return
			case <-l.closed:
				ticker.Stop()
				return
			}
		}
	}()
	return t
}

// RequestFrame implements Scheduler.
func (l *Loop) RequestFrame(fn func(now time.Time)) Handle {
	f := &frameTask{fn: fn}
	l.mu.Lock()
	l.frames = append(l.frames, f)
	l.mu.Unlock()

	// Wake Run so it starts the frame clock. Non-blocking: a full queue
	// already guarantees another pass through the select.
	select {
	case l.tasks <- func() {}:
	default:
	}
	return f
}

func (l *Loop) pendingFrames() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.frames) > 0
}

// runFrames invokes every frame requested before this tick. Frames
// requested from inside a callback wait for the next tick.
func (l *Loop) runFrames(now time.Time) {
	l.mu.Lock()
	frames := l.frames
	l.frames = nil
	l.mu.Unlock()

	for _, f := range frames {
		if f.Cancelled() {
			continue
		}
		f.cancelled.Store(true)
		f.fn(now)
	}
	l.frameCount.Add(1)
}

// Stats returns loop statistics.
func (l *Loop) Stats() Stats {
	return Stats{
		Frames: l.frameCount.Load(),
		Tasks:  l.taskCount.Load(),
	}
}

// Stats contains loop counters.
type Stats struct {
	Frames uint64
	Tasks  uint64
}
