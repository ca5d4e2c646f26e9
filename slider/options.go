package slider

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultContainer is the container selector Mount looks up.
	DefaultContainer = ".hero-banner"

	// DefaultSlideSelector selects the widget's slide children.
	DefaultSlideSelector = ".banner-slide"

	// DefaultInterval is the time between automatic advances.
	DefaultInterval = 5 * time.Second

	// DefaultSwipeThreshold is the minimum horizontal travel, in
	// device-independent pixels, for a gesture to count as a swipe.
	DefaultSwipeThreshold = 50.0
)

// Preloader warms an image cache ahead of a slide becoming visible.
// Preload must not block.
type Preloader interface {
	Preload(src string)
}

// PreloaderFunc adapts a function to Preloader.
type PreloaderFunc func(src string)

// Preload implements Preloader.
func (f PreloaderFunc) Preload(src string) { f(src) }

// Options configures a Slider. Start from DefaultOptions; zero values of
// Interval, SwipeThreshold and the selectors fall back to the defaults.
//
// Options that set none of the behaviour fields, such as Options{} or
// Options{Logger: l}, mean DefaultOptions: autoplay, pause on hover and
// swipe are all on. To turn all three off, set any other field too, for
// example Interval.
type Options struct {
	// ID names the widget in logs and metrics. Generated when empty.
	ID string

	// Container is the selector Mount resolves through the Document.
	Container string

	// SlideSelector picks the slide nodes inside the container.
	SlideSelector string

	// AutoPlay starts the autoplay timer immediately.
	AutoPlay bool

	// Interval is the time between automatic advances. Fixed for the
	// lifetime of the slider.
	Interval time.Duration

	// PauseOnHover suspends autoplay while the pointer is over the widget.
	PauseOnHover bool

	// Swipe wires touch and pointer-drag gestures.
	Swipe bool

	// SwipeThreshold is the travel a gesture must exceed to navigate.
	SwipeThreshold float64

	// Logger receives warnings and debug traces. Defaults to a no-op logger.
	Logger *zap.Logger

	// Preloader, if set, is asked to warm the image of the slide after the
	// active one on every change.
	Preloader Preloader
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Container:      DefaultContainer,
		SlideSelector:  DefaultSlideSelector,
		AutoPlay:       true,
		Interval:       DefaultInterval,
		PauseOnHover:   true,
		Swipe:          true,
		SwipeThreshold: DefaultSwipeThreshold,
	}
}

// unset reports whether none of the behaviour fields were set. ID,
// Logger and Preloader do not count.
func (o Options) unset() bool {
	return o.Container == "" && o.SlideSelector == "" &&
		!o.AutoPlay && o.Interval == 0 &&
		!o.PauseOnHover && !o.Swipe && o.SwipeThreshold == 0
}

func (o Options) withDefaults() Options {
	if o.unset() {
		o.AutoPlay, o.PauseOnHover, o.Swipe = true, true, true
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Container == "" {
		o.Container = DefaultContainer
	}
	if o.SlideSelector == "" {
		o.SlideSelector = DefaultSlideSelector
	}
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.SwipeThreshold <= 0 {
		o.SwipeThreshold = DefaultSwipeThreshold
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
