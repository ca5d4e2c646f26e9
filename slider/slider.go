package slider

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/agiangrant/carousel/loop"
)

// Slide is one entry of the carousel. Index, Image and Content never
// change; Active is owned by the Slider.
type Slide struct {
	Index   int
	ID      string
	Image   string
	Content Content
	Active  bool
}

// Slider is the carousel controller. It owns the active index, drives the
// autoplay timer and progress animator, and translates host input into
// navigation.
//
// A Slider is not safe for concurrent use. Every method, and every event
// handler it registers, must run on the goroutine of its Scheduler.
type Slider struct {
	id    string
	opts  Options
	log   *zap.Logger
	sched loop.Scheduler
	host  Host
	err   error

	slides     []Slide
	indicators *IndicatorSet
	timer      *AutoplayTimer
	progress   *ProgressAnimator
	gesture    *GestureTracker

	activeIndex int
	playing     bool // isPlaying: autoplay wanted
	hovered     bool // autoplay suspended by hover

	bus       noticeBus
	renderers []progressSub
	nextRSub  int
	releases  []func()
	closed    bool
}

type progressSub struct {
	id int
	fn func(ratio float64)
}

// Mount resolves opts.Container through doc and builds a Slider on it.
// A missing container yields an inert Slider whose Err is
// ErrMissingContainer.
func Mount(doc Document, sched loop.Scheduler, opts Options) *Slider {
	opts = opts.withDefaults()
	var host Host
	if doc != nil {
		host = doc.Container(opts.Container)
	}
	return New(host, sched, opts)
}

// New builds a Slider over host. It never fails outright: when host is nil
// or has no matching slides, a warning is logged and the returned Slider
// is inert (StateStopped, no timer, no listeners) with Err describing why.
func New(host Host, sched loop.Scheduler, opts Options) *Slider {
	opts = opts.withDefaults()
	s := &Slider{
		id:    opts.ID,
		opts:  opts,
		sched: sched,
		host:  host,
		log:   opts.Logger.With(zap.String("widget", opts.ID)),
	}

	if host == nil {
		s.err = fmt.Errorf("%w: %q", ErrMissingContainer, opts.Container)
		s.log.Warn("Slider container not found", zap.String("container", opts.Container))
		return s
	}

	data := host.Query(opts.SlideSelector)
	if len(data) == 0 {
		s.err = fmt.Errorf("%w: selector %q", ErrNoSlides, opts.SlideSelector)
		s.log.Warn("No slides found", zap.String("selector", opts.SlideSelector))
		return s
	}

	s.slides = make([]Slide, len(data))
	for i, d := range data {
		s.slides[i] = Slide{Index: i, ID: d.ID, Image: d.Image, Content: d.Content}
	}
	s.slides[0].Active = true

	s.indicators = NewIndicatorSet(len(s.slides), func(i int) {
		s.navigate(i, CauseIndicator)
	})
	s.timer = NewAutoplayTimer(sched, opts.Interval, s.advance)
	s.progress = NewProgressAnimator(sched, opts.Interval, s.renderProgress)
	s.gesture = NewGestureTracker(opts.SwipeThreshold)

	s.bus.subscribe(func(n Notice) {
		s.progress.observe(n, s.running())
	})

	s.attach()

	s.playing = opts.AutoPlay
	if s.playing {
		s.timer.Start()
		s.progress.Restart()
	}

	s.preloadNext()

	s.log.Debug("Slider initialized",
		zap.Int("slides", len(s.slides)),
		zap.Duration("interval", opts.Interval),
		zap.Bool("autoplay", opts.AutoPlay))
	return s
}

// ============================================================================
// Listener Wiring
// ============================================================================

func (s *Slider) listen(t EventType, h Handler) {
	s.releases = append(s.releases, s.host.Listen(t, h))
}

// attach registers input handlers. Each registration is released on Close.
func (s *Slider) attach() {
	s.listen(EventClick, s.handleClick)
	s.listen(EventKeyDown, s.handleKey)

	if s.opts.Swipe {
		s.listen(EventTouchStart, s.handleGestureStart)
		s.listen(EventPointerDown, s.handleGestureStart)
		s.listen(EventPointerMove, s.handlePointerMove)
		s.listen(EventTouchEnd, s.handleGestureEnd)
		s.listen(EventPointerUp, s.handleGestureEnd)
		s.listen(EventPointerCancel, s.handlePointerCancel)
	}

	if s.opts.PauseOnHover {
		s.listen(EventMouseEnter, func(Event) { s.suspend() })
		s.listen(EventMouseLeave, func(Event) { s.resume() })
	}
}

func (s *Slider) handleClick(ev Event) {
	click, ok := ev.(*ClickEvent)
	if !ok {
		return
	}
	switch click.Control {
	case ControlPrev:
		s.navigate(s.prevIndex(), CauseButton)
	case ControlNext:
		s.navigate(s.nextIndex(), CauseButton)
	case ControlIndicator:
		if !s.indicators.Click(click.Index) {
			s.log.Debug("Ignoring click on unknown indicator", zap.Int("index", click.Index))
		}
	}
}

// handleKey polls the containment predicate on every key press; arrows
// only navigate while the whole widget is on screen.
func (s *Slider) handleKey(ev Event) {
	key, ok := ev.(*KeyEvent)
	if !ok {
		return
	}
	if key.Key != KeyArrowLeft && key.Key != KeyArrowRight {
		return
	}
	if !FullyVisible(s.host.Bounds(), s.host.Viewport()) {
		s.log.Debug("Ignoring key, slider not fully visible", zap.String("key", key.Key))
		return
	}
	if key.Key == KeyArrowLeft {
		s.navigate(s.prevIndex(), CauseKeyboard)
	} else {
		s.navigate(s.nextIndex(), CauseKeyboard)
	}
}

func (s *Slider) handleGestureStart(ev Event) {
	p, ok := ev.(*PointerEvent)
	if !ok {
		return
	}
	src := SourcePointer
	if ev.Type() == EventTouchStart {
		src = SourceTouch
	}
	s.gesture.Begin(src, p.X)
}

func (s *Slider) handlePointerMove(ev Event) {
	if p, ok := ev.(*PointerEvent); ok {
		s.gesture.Move(p.X)
	}
}

func (s *Slider) handleGestureEnd(ev Event) {
	p, ok := ev.(*PointerEvent)
	if !ok {
		return
	}
	src := SourcePointer
	if ev.Type() == EventTouchEnd {
		src = SourceTouch
	}
	sample, swipe, ok := s.gesture.End(src, p.X)
	if ok {
		s.applySwipe(sample, swipe)
	}
}

func (s *Slider) handlePointerCancel(Event) {
	sample, swipe, ok := s.gesture.Abandon()
	if ok {
		s.applySwipe(sample, swipe)
	}
}

func (s *Slider) applySwipe(sample GestureSample, swipe Swipe) {
	switch swipe {
	case SwipeNext:
		s.navigate(s.nextIndex(), CauseSwipe)
	case SwipePrev:
		s.navigate(s.prevIndex(), CauseSwipe)
	default:
		s.log.Debug("Gesture below swipe threshold", zap.Float64("diff", sample.Diff()))
	}
}

// ============================================================================
// Transitions
// ============================================================================

// goToSlide moves the active mark to index, which must be in [0, N). It
// does not touch the autoplay timer.
func (s *Slider) goToSlide(index int, cause Cause) {
	prev := s.activeIndex
	s.slides[prev].Active = false
	s.indicators.Set(prev, index)

	s.activeIndex = index
	s.slides[index].Active = true

	s.preloadNext()

	s.log.Debug("Slide changed",
		zap.Int("index", index),
		zap.Int("previous", prev),
		zap.Stringer("cause", cause))

	s.bus.publish(Notice{
		Kind:     NoticeSlideChanged,
		Index:    index,
		Previous: prev,
		Cause:    cause,
		At:       s.sched.Now(),
	})
}

// navigate is every user-initiated transition: reset autoplay so the next
// automatic advance is a full interval away, then change slide. The timer
// is restarted first so the slide-change notice sees it counting.
func (s *Slider) navigate(index int, cause Cause) {
	if s.closed {
		return
	}
	s.resetAutoPlay()
	s.goToSlide(index, cause)
}

// advance is the autoplay timer callback.
func (s *Slider) advance() {
	if s.closed {
		return
	}
	s.goToSlide(s.nextIndex(), CauseAutoplay)
}

// resetAutoPlay restarts the timer whenever autoplay is on, hovered or
// not. Hover only suspends a countdown that is already running.
func (s *Slider) resetAutoPlay() {
	if s.playing && !s.closed {
		s.timer.Start()
	}
}

func (s *Slider) suspend() {
	if s.closed || s.hovered {
		return
	}
	s.hovered = true
	s.timer.Stop()
	s.publish(NoticeSuspend, CauseHover)
}

func (s *Slider) resume() {
	if s.closed || !s.hovered {
		return
	}
	s.hovered = false
	if s.playing {
		s.timer.Start()
		s.publish(NoticeResume, CauseHover)
	}
}

func (s *Slider) publish(kind NoticeKind, cause Cause) {
	s.bus.publish(Notice{
		Kind:     kind,
		Index:    s.activeIndex,
		Previous: s.activeIndex,
		Cause:    cause,
		At:       s.sched.Now(),
	})
}

// running reports whether the autoplay countdown is live.
func (s *Slider) running() bool {
	return s.playing && !s.closed && s.timer.Running()
}

func (s *Slider) nextIndex() int {
	return (s.activeIndex + 1) % len(s.slides)
}

func (s *Slider) prevIndex() int {
	return (s.activeIndex - 1 + len(s.slides)) % len(s.slides)
}

func (s *Slider) preloadNext() {
	if s.opts.Preloader == nil || s.closed {
		return
	}
	next := s.slides[s.nextIndex()]
	if next.Image != "" {
		s.opts.Preloader.Preload(next.Image)
	}
}

func (s *Slider) renderProgress(ratio float64) {
	for _, r := range s.renderers {
		r.fn(ratio)
	}
}

func (s *Slider) usable() error {
	if s.closed {
		return ErrClosed
	}
	if s.err != nil || len(s.slides) == 0 {
		return ErrInert
	}
	return nil
}

// ============================================================================
// Public API
// ============================================================================

// Next navigates to the following slide, wrapping around, and resets
// autoplay. With a single slide this re-activates it and still notifies.
func (s *Slider) Next() error {
	if err := s.usable(); err != nil {
		return err
	}
	s.navigate(s.nextIndex(), CauseAPI)
	return nil
}

// Prev navigates to the preceding slide, wrapping around, and resets
// autoplay.
func (s *Slider) Prev() error {
	if err := s.usable(); err != nil {
		return err
	}
	s.navigate(s.prevIndex(), CauseAPI)
	return nil
}

// GoTo navigates to slide index and resets autoplay.
func (s *Slider) GoTo(index int) error {
	if err := s.usable(); err != nil {
		return err
	}
	if index < 0 || index >= len(s.slides) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(s.slides))
	}
	s.navigate(index, CauseAPI)
	return nil
}

// Play turns autoplay on and starts a fresh interval, also while the
// pointer hovers the widget.
func (s *Slider) Play() {
	if s.usable() != nil {
		return
	}
	s.playing = true
	s.timer.Start()
	s.publish(NoticePlay, CauseAPI)
}

// Pause turns autoplay off.
func (s *Slider) Pause() {
	if s.usable() != nil {
		return
	}
	s.playing = false
	s.timer.Stop()
	s.publish(NoticePause, CauseAPI)
}

// Toggle flips between Play and Pause.
func (s *Slider) Toggle() {
	if s.playing {
		s.Pause()
	} else {
		s.Play()
	}
}

// Subscribe registers fn for every notice. Subscribers run synchronously,
// in subscription order, after the state change is complete.
func (s *Slider) Subscribe(fn func(Notice)) (unsubscribe func()) {
	return s.bus.subscribe(fn)
}

// OnSlideChange registers fn for slide-changed notices only.
func (s *Slider) OnSlideChange(fn func(Change)) (unsubscribe func()) {
	return s.bus.subscribe(func(n Notice) {
		if n.Kind == NoticeSlideChanged {
			fn(Change{Index: n.Index, Previous: n.Previous, Cause: n.Cause, At: n.At})
		}
	})
}

// OnProgress registers fn for every progress fill update.
func (s *Slider) OnProgress(fn func(ratio float64)) (unsubscribe func()) {
	s.nextRSub++
	id := s.nextRSub
	s.renderers = append(s.renderers, progressSub{id: id, fn: fn})
	return func() {
		for i, r := range s.renderers {
			if r.id == id {
				s.renderers = append(s.renderers[:i:i], s.renderers[i+1:]...)
				return
			}
		}
	}
}

// Close tears the widget down: the timer and frame loop are cancelled
// and every listener registration is released. Outstanding preloads are
// left to finish. Close is idempotent.
func (s *Slider) Close() {
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	for _, release := range s.releases {
		release()
	}
	s.releases = nil

	if s.usable() == nil {
		s.publish(NoticeClose, CauseAPI)
	}
	s.closed = true
	if s.progress != nil {
		s.progress.Stop()
	}
	s.bus.clear()
	s.renderers = nil
	s.log.Debug("Slider closed")
}

// ============================================================================
// Accessors
// ============================================================================

// ID returns the widget identifier.
func (s *Slider) ID() string { return s.id }

// Err reports why the slider is inert, or nil.
func (s *Slider) Err() error { return s.err }

// Len returns the number of slides.
func (s *Slider) Len() int { return len(s.slides) }

// ActiveIndex returns the index of the active slide. Zero when inert.
func (s *Slider) ActiveIndex() int { return s.activeIndex }

// IsPlaying reports whether autoplay is wanted (isPlaying). Hover
// suspension does not change it.
func (s *Slider) IsPlaying() bool { return s.playing }

// Suspended reports whether hover has suspended autoplay.
func (s *Slider) Suspended() bool { return s.hovered }

// Closed reports whether Close has been called.
func (s *Slider) Closed() bool { return s.closed }

// Interval returns the autoplay interval.
func (s *Slider) Interval() time.Duration { return s.opts.Interval }

// Options returns the effective options.
func (s *Slider) Options() Options { return s.opts }

// State returns the lifecycle state.
func (s *Slider) State() State {
	switch {
	case s.closed || s.err != nil || len(s.slides) == 0:
		return StateStopped
	case s.running():
		return StatePlaying
	default:
		return StatePaused
	}
}

// Dragging reports whether a pointer drag is in progress, so hosts can
// show a grabbing cursor.
func (s *Slider) Dragging() bool {
	if s.gesture == nil {
		return false
	}
	src, active := s.gesture.ActiveSource()
	return active && src == SourcePointer
}

// Progress returns the current fill ratio of the progress indicator.
func (s *Slider) Progress() float64 {
	if s.progress == nil {
		return 0
	}
	return s.progress.Ratio()
}

// Elapsed returns the progress animator's elapsed counter.
func (s *Slider) Elapsed() time.Duration {
	if s.progress == nil {
		return 0
	}
	return s.progress.Elapsed()
}

// TimeToNextAdvance returns how long until autoplay advances. ok is false
// when no timer is running.
func (s *Slider) TimeToNextAdvance() (d time.Duration, ok bool) {
	if s.timer == nil {
		return 0, false
	}
	return s.timer.Remaining()
}

// Slides returns a copy of the slides.
func (s *Slider) Slides() []Slide {
	return append([]Slide(nil), s.slides...)
}

// Active returns the active slide. ok is false when inert.
func (s *Slider) Active() (slide Slide, ok bool) {
	if len(s.slides) == 0 {
		return Slide{}, false
	}
	return s.slides[s.activeIndex], true
}

// Indicators returns a copy of the indicator set.
func (s *Slider) Indicators() []Indicator {
	if s.indicators == nil {
		return nil
	}
	return s.indicators.Indicators()
}

// Snapshot is an immutable view of a slider for rendering on another
// goroutine.
type Snapshot struct {
	ID          string
	State       State
	ActiveIndex int
	Playing     bool
	Suspended   bool
	Dragging    bool
	Progress    float64
	Interval    time.Duration
	Slides      []Slide
	Indicators  []Indicator
}

// Snapshot captures the current state.
func (s *Slider) Snapshot() Snapshot {
	return Snapshot{
		ID:          s.id,
		State:       s.State(),
		ActiveIndex: s.activeIndex,
		Playing:     s.playing,
		Suspended:   s.hovered,
		Dragging:    s.Dragging(),
		Progress:    s.Progress(),
		Interval:    s.opts.Interval,
		Slides:      s.Slides(),
		Indicators:  s.Indicators(),
	}
}
