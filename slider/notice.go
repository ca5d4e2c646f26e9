package slider

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// State is the slider's coarse lifecycle state.
type State uint8

const (
	// StateStopped is terminal: no slides, or closed.
	StateStopped State = iota
	StatePaused
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePaused:
		return "paused"
	case StatePlaying:
		return "playing"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Cause records what triggered a transition.
type Cause uint8

const (
	CauseAPI Cause = iota
	CauseAutoplay
	CauseButton
	CauseIndicator
	CauseSwipe
	CauseKeyboard
	CauseHover
)

var causeNames = [...]string{
	CauseAPI:       "api",
	CauseAutoplay:  "autoplay",
	CauseButton:    "button",
	CauseIndicator: "indicator",
	CauseSwipe:     "swipe",
	CauseKeyboard:  "keyboard",
	CauseHover:     "hover",
}

func (c Cause) String() string {
	if int(c) < len(causeNames) {
		return causeNames[c]
	}
	return fmt.Sprintf("Cause(%d)", uint8(c))
}

// NoticeKind identifies a notice published by a Slider.
type NoticeKind uint8

const (
	NoticeSlideChanged NoticeKind = iota + 1
	NoticePlay
	NoticePause
	NoticeSuspend // hover entry
	NoticeResume  // hover exit with autoplay still wanted
	NoticeClose
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeSlideChanged:
		return "slide-changed"
	case NoticePlay:
		return "play"
	case NoticePause:
		return "pause"
	case NoticeSuspend:
		return "suspend"
	case NoticeResume:
		return "resume"
	case NoticeClose:
		return "close"
	default:
		return fmt.Sprintf("NoticeKind(%d)", uint8(k))
	}
}

// Notice is published to subscribers after the slider's state changed.
// Index and Previous are only set for NoticeSlideChanged.
type Notice struct {
	Kind     NoticeKind
	Index    int
	Previous int
	Cause    Cause
	At       time.Time
}

// Change is the payload of a slide-changed notice.
type Change struct {
	Index    int
	Previous int
	Cause    Cause
	At       time.Time
}

// noticeBus fans notices out to subscribers in subscription order.
type noticeBus struct {
	nextID int
	subs   []noticeSub
}

type noticeSub struct {
	id int
	fn func(Notice)
}

func (b *noticeBus) subscribe(fn func(Notice)) func() {
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, noticeSub{id: id, fn: fn})
	return func() {
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

func (b *noticeBus) publish(n Notice) {
	subs := b.subs
	for _, s := range subs {
		s.fn(n)
	}
}

func (b *noticeBus) clear() {
	b.subs = nil
}

// LogChanges returns a slide-change listener that logs every transition.
//
//	s.OnSlideChange(slider.LogChanges(logger))
func LogChanges(logger *zap.Logger) func(Change) {
	return func(c Change) {
		logger.Info("Slide changed",
			zap.Int("index", c.Index),
			zap.Int("previous", c.Previous),
			zap.Stringer("cause", c.Cause))
	}
}
