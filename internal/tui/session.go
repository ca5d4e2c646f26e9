package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/agiangrant/carousel/deck"
	"github.com/agiangrant/carousel/loop"
	"github.com/agiangrant/carousel/slider"
)

// SnapshotMsg carries the slider state to the UI.
type SnapshotMsg struct {
	Snapshot slider.Snapshot
	Title    string
	Err      error
}

// NoticeMsg forwards a slider notice.
type NoticeMsg struct {
	Notice slider.Notice
}

// ProgressMsg is the latest progress fill ratio.
type ProgressMsg float64

// SessionConfig wires a Session.
type SessionConfig struct {
	// Sched runs the slider. Post hands work to Sched's goroutine.
	Sched loop.Scheduler
	Post  func(fn func()) bool

	Page    *deck.Page
	Options slider.Options
	Logger  *zap.Logger

	// OnMount, if set, runs for every mounted slider on the scheduler
	// goroutine. The returned func runs before the slider is closed.
	OnMount func(s *slider.Slider) (detach func())
}

// Session owns the slider mounted on a page and relays its state to a
// bubbletea program. Slider access happens on the scheduler goroutine;
// the UI only sees messages.
type Session struct {
	cfg SessionConfig
	log *zap.Logger
	out *outbox

	// scheduler goroutine only
	s      *slider.Slider
	detach []func()
}

// NewSession creates an unmounted session.
func NewSession(cfg SessionConfig) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.Options.Logger = logger
	return &Session{cfg: cfg, log: logger, out: newOutbox()}
}

// Mount builds the slider on the scheduler goroutine.
func (se *Session) Mount() bool {
	return se.cfg.Post(se.mount)
}

// Reload shows a new deck, remounting the slider.
func (se *Session) Reload(d *deck.Deck) bool {
	return se.cfg.Post(func() {
		se.cfg.Page.SetDeck(d)
		se.mount()
	})
}

// Emit delivers an input event to the page.
func (se *Session) Emit(ev slider.Event) {
	se.cfg.Post(func() {
		se.cfg.Page.Emit(ev)
		se.pushSnapshot()
	})
}

// Toggle flips autoplay.
func (se *Session) Toggle() {
	se.cfg.Post(func() {
		if se.s != nil {
			se.s.Toggle()
		}
	})
}

// Resize updates the banner layout. Safe from any goroutine.
func (se *Session) Resize(banner, viewport slider.Rect) {
	se.cfg.Page.SetLayout(banner, viewport)
}

// Close tears the slider down and stops forwarding.
func (se *Session) Close() {
	if !se.cfg.Post(se.unmount) {
		se.log.Debug("Scheduler already stopped, skipping slider teardown")
	}
	se.out.close()
}

// Forward relays messages to send until ctx is done or the session is
// closed. send is usually (*tea.Program).Send.
func (se *Session) Forward(ctx context.Context, send func(tea.Msg)) {
	se.out.run(ctx, send)
}

func (se *Session) mount() {
	se.unmount()

	s := slider.Mount(se.cfg.Page, se.cfg.Sched, se.cfg.Options)
	se.s = s
	if err := s.Err(); err != nil {
		se.pushSnapshot()
		return
	}

	se.detach = append(se.detach,
		s.Subscribe(func(n slider.Notice) {
			se.out.push(NoticeMsg{Notice: n})
			se.pushSnapshot()
		}),
		s.OnProgress(func(ratio float64) {
			se.out.pushProgress(ratio)
		}),
	)
	if se.cfg.OnMount != nil {
		if detach := se.cfg.OnMount(s); detach != nil {
			se.detach = append(se.detach, detach)
		}
	}
	se.pushSnapshot()
}

func (se *Session) unmount() {
	for _, d := range se.detach {
		d()
	}
	se.detach = nil
	if se.s != nil {
		se.s.Close()
		se.s = nil
	}
}

func (se *Session) pushSnapshot() {
	if se.s == nil {
		return
	}
	msg := SnapshotMsg{Snapshot: se.s.Snapshot(), Err: se.s.Err()}
	if d := se.cfg.Page.Deck(); d != nil {
		msg.Title = d.Title
	}
	se.out.push(msg)
}

// outbox decouples the scheduler goroutine from the UI: pushes never
// block, and progress updates coalesce to the latest value.
type outbox struct {
	mu       sync.Mutex
	msgs     []tea.Msg
	progress *ProgressMsg
	wake     chan struct{}
	done     chan struct{}
	once     sync.Once
}

func newOutbox() *outbox {
	return &outbox{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (o *outbox) push(msg tea.Msg) {
	o.mu.Lock()
	o.msgs = append(o.msgs, msg)
	o.mu.Unlock()
	o.signal()
}

func (o *outbox) pushProgress(ratio float64) {
	p := ProgressMsg(ratio)
	o.mu.Lock()
	o.progress = &p
	o.mu.Unlock()
	o.signal()
}

func (o *outbox) signal() {
	select {
	case o.wake <- struct{}{}:
	default:
	}
}

// take drains pending messages, progress last.
func (o *outbox) take() []tea.Msg {
	o.mu.Lock()
	defer o.mu.Unlock()
	msgs := o.msgs
	o.msgs = nil
	if o.progress != nil {
		msgs = append(msgs, *o.progress)
		o.progress = nil
	}
	return msgs
}

func (o *outbox) run(ctx context.Context, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-o.done:
			return
		case <-o.wake:
			for _, msg := range o.take() {
				send(msg)
			}
		}
	}
}

func (o *outbox) close() {
	o.once.Do(func() { close(o.done) })
}
