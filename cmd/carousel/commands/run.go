package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agiangrant/carousel/config"
	"github.com/agiangrant/carousel/deck"
	"github.com/agiangrant/carousel/internal/tui"
	"github.com/agiangrant/carousel/loop"
	"github.com/agiangrant/carousel/metrics"
	"github.com/agiangrant/carousel/preload"
	"github.com/agiangrant/carousel/slider"
)

func newRunCmd(g *globals) *cobra.Command {
	var (
		watch       bool
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "run [deck]",
		Short: "Show a deck in the terminal",
		Long: `Shows the deck as a banner in the terminal.

Keys: ←/h and →/l navigate, space toggles autoplay, q quits. Hovering the
banner with the mouse pauses autoplay; dragging it swipes. Logs go to the
configured log file, or ` + defaultLogFile + `.`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{logFileAnnotation: "required"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.cfg
			if cmd.Flags().Changed("watch") {
				cfg.Deck.Watch = watch
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.Metrics.Addr = metricsAddr
			}
			return runBanner(cmd.Context(), cfg, g.deckPath(args), g.logger)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the deck when the file changes")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics and /healthz on this address")
	return cmd
}

func runBanner(ctx context.Context, cfg config.File, path string, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := tui.ApplyColorMode(cfg.UI.Color); err != nil {
		return err
	}

	d, err := deck.Load(path)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(cfg.Metrics.Namespace)
	if err := m.Register(reg); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	loaderCfg := cfg.LoaderConfig(filepath.Dir(path))
	loaderCfg.OnResult = m.ObservePreload
	loader := preload.New(loaderCfg, logger)
	defer loader.Close()

	lp := loop.New(loop.Config{FrameRate: cfg.UI.FrameRate})
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return lp.Run(ctx) })

	page := deck.NewPage(d, slider.Rect{})
	se := tui.NewSession(tui.SessionConfig{
		Sched:   lp,
		Post:    lp.Post,
		Page:    page,
		Options: cfg.SliderOptions(logger, loader),
		Logger:  logger,
		OnMount: func(s *slider.Slider) func() {
			detach := m.Attach(s)
			unlog := s.OnSlideChange(slider.LogChanges(logger))
			return func() {
				unlog()
				detach()
			}
		},
	})
	if !se.Mount() {
		return errors.New("scheduler stopped before the banner was mounted")
	}

	if addr := cfg.Metrics.Addr; addr != "" {
		ready := func() bool {
			select {
			case <-lp.Done():
				return false
			default:
				return true
			}
		}
		eg.Go(func() error {
			return metrics.Serve(ctx, addr, metrics.Handler(reg, ready), logger)
		})
	}

	if cfg.Deck.Watch {
		eg.Go(func() error {
			return deck.Watch(ctx, path, deck.DefaultDebounce, logger, func(d *deck.Deck) {
				se.Reload(d)
			})
		})
	}

	logger.Info("Showing deck",
		zap.String("path", path),
		zap.Int("slides", len(d.Slides)),
		zap.Bool("watch", cfg.Deck.Watch))

	uiErr := tui.Run(ctx, se, tui.Options{
		MarkdownStyle: cfg.UI.MarkdownStyle,
		FadeDuration:  cfg.UI.FadeDuration.Duration,
		Cached:        loader.Cached,
	})

	// Tasks run in order, so once the no-op is done the slider is closed.
	se.Close()
	lp.Do(func() {})
	cancel()

	if err := eg.Wait(); err != nil {
		return err
	}
	return uiErr
}
