package slider

import (
	"time"

	"github.com/agiangrant/carousel/loop"
)

// ProgressAnimator renders how much of the autoplay interval has elapsed
// as a fill ratio in [0, 1]. It runs as a self-rescheduling frame task so
// the fill tracks wall time rather than a nominal tick count.
//
// The animator only follows notices; it never touches the timer. Keeping
// it in sync relies on the Slider restarting both at the same instant.
type ProgressAnimator struct {
	sched    loop.Scheduler
	interval time.Duration
	render   func(ratio float64)

	start time.Time // zero while unset
	ratio float64
	frame loop.Handle
}

// NewProgressAnimator creates an idle animator. render is called with
// every new ratio; it may be nil.
func NewProgressAnimator(sched loop.Scheduler, interval time.Duration, render func(ratio float64)) *ProgressAnimator {
	return &ProgressAnimator{sched: sched, interval: interval, render: render}
}

// Restart drops the fill to zero and starts animating from now.
func (p *ProgressAnimator) Restart() {
	p.cancelFrame()
	p.start = p.sched.Now()
	p.setRatio(0)
	p.schedule()
}

// Reset drops the fill to zero without animating.
func (p *ProgressAnimator) Reset() {
	p.cancelFrame()
	p.start = time.Time{}
	p.setRatio(0)
}

// Freeze stops animating and keeps the current fill on screen.
func (p *ProgressAnimator) Freeze() {
	p.cancelFrame()
	p.start = time.Time{}
}

// Stop cancels the frame loop without rendering anything.
func (p *ProgressAnimator) Stop() {
	p.cancelFrame()
	p.start = time.Time{}
}

// Ratio returns the last rendered fill ratio.
func (p *ProgressAnimator) Ratio() float64 {
	return p.ratio
}

// Elapsed returns the time since the fill last started from zero. While
// frozen it reports the time the frozen fill represents.
func (p *ProgressAnimator) Elapsed() time.Duration {
	if p.start.IsZero() {
		return time.Duration(p.ratio * float64(p.interval))
	}
	elapsed := p.sched.Now().Sub(p.start)
	if elapsed > p.interval {
		elapsed = p.interval
	}
	return elapsed
}

// Animating reports whether a frame is scheduled.
func (p *ProgressAnimator) Animating() bool {
	return p.frame != nil
}

// observe maps slider notices onto animator transitions. running is
// whether autoplay is counting down at the moment of the notice.
func (p *ProgressAnimator) observe(n Notice, running bool) {
	switch n.Kind {
	case NoticeSlideChanged:
		if running {
			p.Restart()
		} else {
			p.Reset()
		}
	case NoticePlay, NoticeResume:
		if running {
			p.Restart()
		}
	case NoticePause, NoticeSuspend:
		p.Freeze()
	case NoticeClose:
		p.Stop()
	}
}

func (p *ProgressAnimator) schedule() {
	p.frame = p.sched.RequestFrame(p.tick)
}

func (p *ProgressAnimator) tick(now time.Time) {
	p.frame = nil
	if p.start.IsZero() {
		return
	}

	t := float64(now.Sub(p.start)) / float64(p.interval)
	p.setRatio(clamp(t, 0, 1))

	if p.ratio < 1 {
		p.schedule()
	}
}

func (p *ProgressAnimator) setRatio(r float64) {
	p.ratio = r
	if p.render != nil {
		p.render(r)
	}
}

func (p *ProgressAnimator) cancelFrame() {
	if p.frame != nil {
		p.frame.Cancel()
		p.frame = nil
	}
}

// clamp restricts a value to a range.
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
