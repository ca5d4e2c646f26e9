package slider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/carousel/loop"
)

func TestProgressFillsOverInterval(t *testing.T) {
	clock := loop.NewManual(epoch, 10*time.Millisecond)
	var rendered []float64
	p := NewProgressAnimator(clock, time.Second, func(r float64) { rendered = append(rendered, r) })

	p.Restart()
	require.True(t, p.Animating())
	assert.Equal(t, []float64{0}, rendered)

	clock.Advance(250 * time.Millisecond)
	assert.InDelta(t, 0.25, p.Ratio(), 1e-9)
	assert.Equal(t, 250*time.Millisecond, p.Elapsed())

	clock.Advance(2 * time.Second)
	assert.Equal(t, 1.0, p.Ratio())
	assert.False(t, p.Animating(), "frame loop stops once full")
	assert.Equal(t, time.Second, p.Elapsed())
	assert.Zero(t, clock.PendingFrames())
}

func TestProgressFreezeKeepsFill(t *testing.T) {
	clock := loop.NewManual(epoch, 10*time.Millisecond)
	p := NewProgressAnimator(clock, time.Second, nil)

	p.Restart()
	clock.Advance(600 * time.Millisecond)
	p.Freeze()
	clock.Advance(time.Second)

	assert.InDelta(t, 0.6, p.Ratio(), 1e-9)
	assert.Equal(t, 600*time.Millisecond, p.Elapsed())
	assert.Zero(t, clock.PendingFrames())
}

func TestProgressReset(t *testing.T) {
	clock := loop.NewManual(epoch, 10*time.Millisecond)
	p := NewProgressAnimator(clock, time.Second, nil)

	p.Restart()
	clock.Advance(400 * time.Millisecond)
	p.Reset()

	assert.Zero(t, p.Ratio())
	assert.Zero(t, p.Elapsed())
	assert.False(t, p.Animating())
}

func TestProgressObserve(t *testing.T) {
	tests := []struct {
		name      string
		kind      NoticeKind
		running   bool
		animating bool
		ratio     float64
	}{
		{"change while running", NoticeSlideChanged, true, true, 0},
		{"change while paused", NoticeSlideChanged, false, false, 0},
		{"play", NoticePlay, true, true, 0},
		{"resume", NoticeResume, true, true, 0},
		{"pause", NoticePause, false, false, 0.5},
		{"suspend", NoticeSuspend, false, false, 0.5},
		{"close", NoticeClose, false, false, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := loop.NewManual(epoch, 10*time.Millisecond)
			p := NewProgressAnimator(clock, time.Second, nil)
			p.Restart()
			clock.Advance(500 * time.Millisecond)

			p.observe(Notice{Kind: tt.kind}, tt.running)

			assert.Equal(t, tt.animating, p.Animating())
			assert.InDelta(t, tt.ratio, p.Ratio(), 1e-9)
		})
	}
}

func TestProgressNeverExceedsOneFrameInFlight(t *testing.T) {
	clock := loop.NewManual(epoch, 10*time.Millisecond)
	p := NewProgressAnimator(clock, time.Second, nil)

	for i := 0; i < 20; i++ {
		p.Restart()
		clock.Advance(5 * time.Millisecond)
		assert.LessOrEqual(t, clock.PendingFrames(), 1)
	}
}
