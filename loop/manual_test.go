package loop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManualEveryFiresOnCadence(t *testing.T) {
	m := NewManual(epoch, 0)
	var fired []time.Duration
	m.Every(5*time.Second, func() {
		fired = append(fired, m.Elapsed())
	})

	m.Advance(16 * time.Second)
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second, 15 * time.Second}, fired)
	assert.Equal(t, 16*time.Second, m.Elapsed())
}

func TestManualCancelStopsTimer(t *testing.T) {
	m := NewManual(epoch, 0)
	count := 0
	h := m.Every(time.Second, func() { count++ })

	m.Advance(2500 * time.Millisecond)
	h.Cancel()
	h.Cancel()
	m.Advance(10 * time.Second)

	assert.Equal(t, 2, count)
	assert.Equal(t, 0, m.ActiveTimers())
}

func TestManualAfterFiresOnce(t *testing.T) {
	m := NewManual(epoch, 0)
	count := 0
	m.After(time.Second, func() { count++ })

	m.Advance(5 * time.Second)
	assert.Equal(t, 1, count)
	assert.Equal(t, 0, m.ActiveTimers())
}

func TestManualFramesFollowGrid(t *testing.T) {
	m := NewManual(epoch, 10*time.Millisecond)
	var stamps []time.Duration

	var step func(now time.Time)
	step = func(now time.Time) {
		stamps = append(stamps, now.Sub(epoch))
		if len(stamps) < 3 {
			m.RequestFrame(step)
		}
	}

	m.Advance(3 * time.Millisecond)
	m.RequestFrame(step)
	m.Advance(100 * time.Millisecond)

	assert.Equal(t, []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		30 * time.Millisecond,
	}, stamps)
	assert.Equal(t, uint64(3), m.FramesFired())
	assert.Zero(t, m.PendingFrames())
}

func TestManualTimersBeforeFramesOnTie(t *testing.T) {
	m := NewManual(epoch, 10*time.Millisecond)
	var order []string
	m.RequestFrame(func(time.Time) { order = append(order, "frame") })
	m.After(10*time.Millisecond, func() { order = append(order, "timer") })

	m.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"timer", "frame"}, order)
}

func TestManualCallbackCanCancelSibling(t *testing.T) {
	m := NewManual(epoch, 0)
	var second Handle
	ran := false
	m.After(time.Second, func() { second.Cancel() })
	second = m.After(time.Second, func() { ran = true })

	m.Advance(2 * time.Second)
	assert.False(t, ran)
}

func TestManualNextTimer(t *testing.T) {
	m := NewManual(epoch, 0)
	_, ok := m.NextTimer()
	require.False(t, ok)

	m.Every(3*time.Second, func() {})
	m.After(time.Second, func() {})

	next, ok := m.NextTimer()
	require.True(t, ok)
	assert.Equal(t, epoch.Add(time.Second), next)
}

func TestManualEveryRejectsZeroInterval(t *testing.T) {
	m := NewManual(epoch, 0)
	assert.Panics(t, func() { m.Every(0, func() {}) })
}
