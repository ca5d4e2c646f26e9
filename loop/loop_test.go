package loop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startLoop(t *testing.T) *Loop {
	t.Helper()
	l := New(DefaultConfig())
	go func() {
		_ = l.Run(context.Background())
	}()
	t.Cleanup(func() {
		l.Stop()
		<-l.Done()
	})
	return l
}

func TestLoopPostRunsOnLoop(t *testing.T) {
	l := startLoop(t)

	var hits atomic.Int32
	for i := 0; i < 10; i++ {
		require.True(t, l.Post(func() { hits.Add(1) }))
	}
	require.True(t, l.Do(func() {}))
	assert.Equal(t, int32(10), hits.Load())
}

func TestLoopEveryAndCancel(t *testing.T) {
	l := startLoop(t)

	fired := make(chan struct{}, 16)
	var h Handle
	l.Do(func() {
		h = l.Every(5*time.Millisecond, func() {
			select {
			case fired <- struct{}{}:
			default:
			}
		})
	})

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}

	l.Do(func() { h.Cancel() })
	// Drain anything queued before the cancel landed.
	l.Do(func() {})
	for len(fired) > 0 {
		<-fired
	}
	time.Sleep(30 * time.Millisecond)
	l.Do(func() {})
	assert.Len(t, fired, 0)
}

func TestLoopAfterCancelled(t *testing.T) {
	l := startLoop(t)

	var ran atomic.Bool
	l.Do(func() {
		h := l.After(5*time.Millisecond, func() { ran.Store(true) })
		h.Cancel()
	})
	time.Sleep(20 * time.Millisecond)
	l.Do(func() {})
	assert.False(t, ran.Load())
}

func TestLoopRequestFrame(t *testing.T) {
	l := startLoop(t)

	got := make(chan time.Time, 1)
	l.Do(func() {
		l.RequestFrame(func(now time.Time) { got <- now })
	})

	select {
	case now := <-got:
		assert.False(t, now.IsZero())
	case <-time.After(time.Second):
		t.Fatal("frame never fired")
	}
	assert.GreaterOrEqual(t, l.Stats().Frames, uint64(1))
}

func TestLoopRunTwice(t *testing.T) {
	l := startLoop(t)
	require.True(t, l.Do(func() {}))
	assert.ErrorIs(t, l.Run(context.Background()), ErrRunning)
}

func TestLoopStopRejectsPost(t *testing.T) {
	l := New(DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = l.Run(ctx) }()
	require.True(t, l.Do(func() {}))

	cancel()
	<-l.Done()
	assert.False(t, l.Post(func() {}))
}

func TestLoopStoppedTimersDoNotLeak(t *testing.T) {
	l := New(DefaultConfig())
	go func() { _ = l.Run(context.Background()) }()
	l.Do(func() {
		l.Every(time.Hour, func() {})
	})
	l.Stop()
	<-l.Done()
	// goleak in TestMain verifies the ticker goroutine exited with the loop.
}
