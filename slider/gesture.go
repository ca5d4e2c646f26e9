package slider

import "math"

// Source identifies the input device a gesture came from.
type Source uint8

const (
	SourceTouch Source = iota + 1
	SourcePointer
)

// GestureSample is one completed horizontal gesture.
type GestureSample struct {
	StartX float64
	EndX   float64
	Source Source
}

// Diff returns StartX - EndX. Positive means the content was pushed left.
func (g GestureSample) Diff() float64 {
	return g.StartX - g.EndX
}

// Swipe is the navigation a gesture resolves to.
type Swipe int8

const (
	SwipePrev Swipe = -1
	SwipeNone Swipe = 0
	SwipeNext Swipe = 1
)

// Classify resolves a sample against threshold. Travel of exactly
// threshold is a tap, not a swipe.
func Classify(sample GestureSample, threshold float64) Swipe {
	diff := sample.Diff()
	if math.Abs(diff) <= threshold {
		return SwipeNone
	}
	if diff > 0 {
		return SwipeNext
	}
	return SwipePrev
}

// GestureTracker turns touch sequences and pointer drags into swipes.
// Only one gesture is tracked at a time; starting a new one discards the
// previous.
type GestureTracker struct {
	threshold float64

	active bool
	source Source
	startX float64
	lastX  float64
}

// NewGestureTracker creates a tracker with the given swipe threshold.
func NewGestureTracker(threshold float64) *GestureTracker {
	return &GestureTracker{threshold: threshold}
}

// Begin records the start of a gesture.
func (g *GestureTracker) Begin(src Source, x float64) {
	g.active = true
	g.source = src
	g.startX = x
	g.lastX = x
}

// Move records the latest known position of an active gesture.
func (g *GestureTracker) Move(x float64) {
	if g.active {
		g.lastX = x
	}
}

// End completes the gesture at x. ok is false when no gesture from src
// was in progress.
func (g *GestureTracker) End(src Source, x float64) (sample GestureSample, swipe Swipe, ok bool) {
	if !g.active || g.source != src {
		return GestureSample{}, SwipeNone, false
	}
	g.lastX = x
	return g.finish()
}

// Abandon completes the gesture at the last known position, for drags
// released where the host could not report coordinates.
func (g *GestureTracker) Abandon() (sample GestureSample, swipe Swipe, ok bool) {
	if !g.active {
		return GestureSample{}, SwipeNone, false
	}
	return g.finish()
}

func (g *GestureTracker) finish() (GestureSample, Swipe, bool) {
	sample := GestureSample{StartX: g.startX, EndX: g.lastX, Source: g.source}
	g.active = false
	g.startX, g.lastX = 0, 0
	return sample, Classify(sample, g.threshold), true
}

// Active reports whether a gesture is in progress.
func (g *GestureTracker) Active() bool {
	return g.active
}

// ActiveSource returns the source of the gesture in progress.
func (g *GestureTracker) ActiveSource() (Source, bool) {
	return g.source, g.active
}
