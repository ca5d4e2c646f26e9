package metrics

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/agiangrant/carousel/loop"
	"github.com/agiangrant/carousel/slider"
)

type host struct {
	slider.Listeners
	n int
}

func (h *host) Query(string) []slider.SlideData {
	out := make([]slider.SlideData, h.n)
	for i := range out {
		out[i] = slider.SlideData{ID: string(rune('a' + i))}
	}
	return out
}

func (h *host) Bounds() slider.Rect   { return slider.Rect{Width: 100, Height: 50} }
func (h *host) Viewport() slider.Rect { return slider.Rect{Width: 100, Height: 50} }

func newSlider(t *testing.T, n int) (*slider.Slider, *host, *loop.Manual) {
	t.Helper()
	h := &host{n: n}
	clock := loop.NewManual(time.Unix(0, 0), 10*time.Millisecond)
	opts := slider.DefaultOptions()
	opts.ID = "hero"
	s := slider.New(h, clock, opts)
	t.Cleanup(s.Close)
	return s, h, clock
}

func TestCollectorRecordsChanges(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	c := New("carousel")
	require.NoError(t, c.Register(reg))

	s, h, clock := newSlider(t, 4)
	detach := c.Attach(s)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.playing.WithLabelValues("hero")))

	clock.Advance(slider.DefaultInterval)
	h.Emit(slider.NewClickEvent(slider.ControlIndicator, 3))
	require.NoError(t, s.Next())

	assert.Equal(t, 1.0, testutil.ToFloat64(c.changes.WithLabelValues("hero", "autoplay")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.changes.WithLabelValues("hero", "indicator")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.changes.WithLabelValues("hero", "api")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.activeSlide.WithLabelValues("hero")))

	h.Emit(slider.NewHoverEvent(slider.EventMouseEnter))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.playing.WithLabelValues("hero")))
	h.Emit(slider.NewClickEvent(slider.ControlNext, 0))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.playing.WithLabelValues("hero")), "navigation restarts the countdown")
	h.Emit(slider.NewHoverEvent(slider.EventMouseLeave))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.playing.WithLabelValues("hero")))

	s.Pause()
	assert.Equal(t, 0.0, testutil.ToFloat64(c.playing.WithLabelValues("hero")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.notices.WithLabelValues("hero", slider.NoticePause.String())))

	detach()
	assert.Equal(t, 0, testutil.CollectAndCount(c.activeSlide))
}

func TestObservePreload(t *testing.T) {
	c := New("carousel")
	c.ObservePreload("a.jpg", 1024, nil)
	c.ObservePreload("b.jpg", 0, errors.New("HTTP 404"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.preloads.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.preloads.WithLabelValues("error")))
	assert.Equal(t, 1024.0, testutil.ToFloat64(c.preloadBytes))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New("carousel")
	require.NoError(t, c.Register(reg))
	c.ObservePreload("a.jpg", 10, nil)

	var ready atomic.Bool
	srv := httptest.NewServer(Handler(reg, ready.Load))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	ready.Store(true)
	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `carousel_image_preloads_total{result="ok"} 1`), string(body))
}

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, addr, Handler(prometheus.NewRegistry(), nil), zaptest.NewLogger(t))
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
