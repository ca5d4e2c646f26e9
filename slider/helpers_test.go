package slider

import (
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/agiangrant/carousel/loop"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// fakeHost is an in-memory Host with a fixed layout.
type fakeHost struct {
	Listeners
	slides   []SlideData
	bounds   Rect
	viewport Rect
}

func newFakeHost(n int) *fakeHost {
	h := &fakeHost{
		bounds:   Rect{X: 0, Y: 80, Width: 1280, Height: 480},
		viewport: Rect{X: 0, Y: 0, Width: 1280, Height: 720},
	}
	for i := 0; i < n; i++ {
		h.slides = append(h.slides, SlideData{
			ID:      fmt.Sprintf("slide-%d", i),
			Image:   fmt.Sprintf("img/banner-%d.jpg", i),
			Content: Content{Title: fmt.Sprintf("Title %d", i)},
			Classes: []string{"banner-slide"},
		})
	}
	return h
}

func (h *fakeHost) Query(selector string) []SlideData {
	var out []SlideData
	for _, d := range h.slides {
		if MatchSelector(selector, d.Classes) {
			out = append(out, d)
		}
	}
	return out
}

func (h *fakeHost) Bounds() Rect   { return h.bounds }
func (h *fakeHost) Viewport() Rect { return h.viewport }

func (h *fakeHost) touch(startX, endX float64) {
	h.Emit(NewPointerEvent(EventTouchStart, startX, 0))
	h.Emit(NewPointerEvent(EventTouchEnd, endX, 0))
}

func (h *fakeHost) drag(xs ...float64) {
	h.Emit(NewPointerEvent(EventPointerDown, xs[0], 0))
	for _, x := range xs[1 : len(xs)-1] {
		h.Emit(NewPointerEvent(EventPointerMove, x, 0))
	}
	h.Emit(NewPointerEvent(EventPointerUp, xs[len(xs)-1], 0))
}

func (h *fakeHost) key(k string) {
	h.Emit(NewKeyEvent(k))
}

func (h *fakeHost) click(c Control, index int) {
	h.Emit(NewClickEvent(c, index))
}

// fakeDocument resolves exactly one selector.
type fakeDocument struct {
	selector string
	host     *fakeHost
}

func (d fakeDocument) Container(selector string) Host {
	if d.host == nil || selector != d.selector {
		return nil
	}
	return d.host
}

type fixture struct {
	s     *Slider
	host  *fakeHost
	clock *loop.Manual
	logs  *observer.ObservedLogs
}

func newFixture(t *testing.T, n int, mutate ...func(*Options)) *fixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	host := newFakeHost(n)
	clock := loop.NewManual(epoch, 10*time.Millisecond)

	opts := DefaultOptions()
	opts.ID = "test"
	opts.Logger = zap.New(core)
	for _, m := range mutate {
		m(&opts)
	}

	s := New(host, clock, opts)
	t.Cleanup(s.Close)
	return &fixture{s: s, host: host, clock: clock, logs: logs}
}

func activeCount(s *Slider) int {
	n := 0
	for _, sl := range s.Slides() {
		if sl.Active {
			n++
		}
	}
	return n
}
