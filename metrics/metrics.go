// Package metrics exports slider activity to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/agiangrant/carousel/slider"
)

// Collector holds the carousel metrics.
type Collector struct {
	changes      *prometheus.CounterVec
	notices      *prometheus.CounterVec
	activeSlide  *prometheus.GaugeVec
	playing      *prometheus.GaugeVec
	preloads     *prometheus.CounterVec
	preloadBytes prometheus.Counter
}

// New creates unregistered metrics under namespace.
func New(namespace string) *Collector {
	return &Collector{
		changes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "slide_changes_total",
				Help:      "Total number of slide changes by cause",
			},
			[]string{"widget", "cause"},
		),
		notices: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notices_total",
				Help:      "Total number of slider notices by kind",
			},
			[]string{"widget", "kind"},
		),
		activeSlide: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_slide",
				Help:      "Index of the active slide",
			},
			[]string{"widget"},
		),
		playing: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "autoplay_running",
				Help:      "1 while autoplay is counting down, 0 while paused, suspended or closed",
			},
			[]string{"widget"},
		),
		preloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "image_preloads_total",
				Help:      "Total number of image fetches by result",
			},
			[]string{"result"},
		),
		preloadBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "image_preload_bytes_total",
				Help:      "Total bytes of successfully fetched images",
			},
		),
	}
}

// Register adds every metric to reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, m := range []prometheus.Collector{c.changes, c.notices, c.activeSlide, c.playing, c.preloads, c.preloadBytes} {
		if err := reg.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// Attach records s's notices. It must be called on the slider's
// scheduler goroutine, like any other subscription. The returned func
// stops recording and drops the widget's series.
func (c *Collector) Attach(s *slider.Slider) (detach func()) {
	widget := s.ID()
	c.activeSlide.WithLabelValues(widget).Set(float64(s.ActiveIndex()))
	c.setPlaying(widget, s.State())

	unsubscribe := s.Subscribe(func(n slider.Notice) {
		c.notices.WithLabelValues(widget, n.Kind.String()).Inc()
		switch n.Kind {
		case slider.NoticeSlideChanged:
			c.changes.WithLabelValues(widget, n.Cause.String()).Inc()
			c.activeSlide.WithLabelValues(widget).Set(float64(n.Index))
			c.setPlaying(widget, s.State())
		case slider.NoticeClose:
			c.playing.WithLabelValues(widget).Set(0)
		default:
			c.setPlaying(widget, s.State())
		}
	})

	return func() {
		unsubscribe()
		c.activeSlide.DeleteLabelValues(widget)
		c.playing.DeleteLabelValues(widget)
	}
}

func (c *Collector) setPlaying(widget string, st slider.State) {
	v := 0.0
	if st == slider.StatePlaying {
		v = 1
	}
	c.playing.WithLabelValues(widget).Set(v)
}

// ObservePreload records one completed image fetch. Its signature matches
// preload.Config.OnResult.
func (c *Collector) ObservePreload(_ string, size int, err error) {
	if err != nil {
		c.preloads.WithLabelValues("error").Inc()
		return
	}
	c.preloads.WithLabelValues("ok").Inc()
	c.preloadBytes.Add(float64(size))
}

// Handler serves /metrics from g and /healthz. ready may be nil.
func Handler(g prometheus.Gatherer, ready func() bool) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if ready != nil && !ready() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok\n"))
	})
	return r
}

// Serve runs h on addr until ctx is done.
func Serve(ctx context.Context, addr string, h http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting metrics server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}
