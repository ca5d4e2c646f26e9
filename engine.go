package carousel

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/agiangrant/carousel/loop"
)

// ErrShutdown is returned by Engine methods after Shutdown.
var ErrShutdown = errors.New("carousel: engine shut down")

// Engine runs carousels on a real-time loop.Loop started by NewEngine.
// Slider methods must only be called inside Do.
type Engine struct {
	loop *loop.Loop
	log  *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	// loop goroutine only
	sliders []*Slider
}

// EngineConfig contains configuration for the engine
type EngineConfig struct {
	FrameRate int
	QueueSize int
	Logger    *zap.Logger
}

// DefaultEngineConfig returns the default engine configuration
func DefaultEngineConfig() EngineConfig {
	def := loop.DefaultConfig()
	return EngineConfig{
		FrameRate: def.FrameRate,
		QueueSize: def.QueueSize,
	}
}

// NewEngine starts an engine. Call Shutdown to stop it.
func NewEngine(config EngineConfig) *Engine {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		loop:   loop.New(loop.Config{FrameRate: config.FrameRate, QueueSize: config.QueueSize}),
		log:    logger,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(e.done)
		if err := e.loop.Run(ctx); err != nil {
			e.log.Error("Engine loop failed", zap.Error(err))
		}
	}()
	return e
}

// Scheduler returns the engine's scheduler.
func (e *Engine) Scheduler() loop.Scheduler {
	return e.loop
}

// Mount builds a carousel on the engine. The engine closes it on
// Shutdown. An inert carousel is returned together with its Err. A zero
// opts mounts with DefaultOptions.
func (e *Engine) Mount(doc Document, opts Options) (*Slider, error) {
	if opts.Logger == nil {
		opts.Logger = e.log
	}

	var s *Slider
	if err := e.Do(func() {
		s = Mount(doc, e.loop, opts)
		e.sliders = append(e.sliders, s)
	}); err != nil {
		return nil, err
	}
	return s, s.Err()
}

// Do runs fn on the engine goroutine and waits for it.
func (e *Engine) Do(fn func()) error {
	if !e.loop.Do(fn) {
		return ErrShutdown
	}
	return nil
}

// Post queues fn on the engine goroutine without waiting. Hosts deliver
// input this way.
func (e *Engine) Post(fn func()) error {
	if !e.loop.Post(fn) {
		return ErrShutdown
	}
	return nil
}

// Shutdown closes every mounted carousel and stops the engine. Safe to
// call more than once.
func (e *Engine) Shutdown() {
	e.once.Do(func() {
		e.loop.Do(func() {
			for _, s := range e.sliders {
				s.Close()
			}
			e.sliders = nil
		})
		e.cancel()
		<-e.done
	})
}
