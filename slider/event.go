package slider

import (
	"fmt"
	"sync"
)

// ============================================================================
// Event Types
// ============================================================================

// EventType identifies the kind of input event a host delivers.
type EventType uint8

const (
	// Hover events
	EventMouseEnter EventType = iota + 1
	EventMouseLeave

	// Pointer drag events. Hosts keep delivering move/up events for a drag
	// that started inside the widget even when the pointer leaves it.
	EventPointerDown
	EventPointerMove
	EventPointerUp
	// EventPointerCancel reports a drag released where the host cannot see
	// it (outside the window). It carries no position.
	EventPointerCancel

	// Touch events
	EventTouchStart
	EventTouchEnd

	// Keyboard events
	EventKeyDown

	// Control activation (prev/next buttons, indicators)
	EventClick
)

var eventTypeNames = map[EventType]string{
	EventMouseEnter:    "mouseenter",
	EventMouseLeave:    "mouseleave",
	EventPointerDown:   "pointerdown",
	EventPointerMove:   "pointermove",
	EventPointerUp:     "pointerup",
	EventPointerCancel: "pointercancel",
	EventTouchStart:    "touchstart",
	EventTouchEnd:      "touchend",
	EventKeyDown:       "keydown",
	EventClick:         "click",
}

func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("EventType(%d)", uint8(t))
}

// Keys the slider reacts to.
const (
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
)

// Control identifies which widget control was activated by a click.
type Control uint8

const (
	ControlPrev Control = iota + 1
	ControlNext
	ControlIndicator
)

// ============================================================================
// Event Interface and Concrete Events
// ============================================================================

// Event is the interface for all input events.
type Event interface {
	Type() EventType
}

type eventBase struct {
	eventType EventType
}

func (e eventBase) Type() EventType { return e.eventType }

// PointerEvent carries a pointer or touch position in device-independent
// pixels. Touch events only use X.
type PointerEvent struct {
	eventBase
	X, Y float64
}

// NewPointerEvent creates a pointer or touch event.
func NewPointerEvent(eventType EventType, x, y float64) *PointerEvent {
	return &PointerEvent{eventBase: eventBase{eventType: eventType}, X: x, Y: y}
}

// HoverEvent reports the pointer entering or leaving the widget.
type HoverEvent struct {
	eventBase
}

// NewHoverEvent creates a mouse enter/leave event.
func NewHoverEvent(eventType EventType) *HoverEvent {
	return &HoverEvent{eventBase: eventBase{eventType: eventType}}
}

// KeyEvent represents a key press.
type KeyEvent struct {
	eventBase

	// Logical key (e.g. "ArrowLeft")
	Key string

	// True if this is a repeat event (key held down)
	Repeat bool
}

// NewKeyEvent creates a key down event.
func NewKeyEvent(key string) *KeyEvent {
	return &KeyEvent{eventBase: eventBase{eventType: EventKeyDown}, Key: key}
}

// ClickEvent represents activation of one of the widget's controls.
type ClickEvent struct {
	eventBase
	Control Control
	Index   int // indicator position for ControlIndicator
}

// NewClickEvent creates a click on a control. index is only meaningful
// for ControlIndicator.
func NewClickEvent(control Control, index int) *ClickEvent {
	return &ClickEvent{eventBase: eventBase{eventType: EventClick}, Control: control, Index: index}
}

// Handler is a callback for input events.
type Handler func(Event)

// ============================================================================
// Listener Registry
// ============================================================================

// Listeners is a registry hosts can embed to implement Host.Listen.
// Handlers run in registration order.
type Listeners struct {
	mu       sync.Mutex
	nextID   int
	handlers map[EventType][]listener
}

type listener struct {
	id int
	fn Handler
}

// Listen registers h for events of type t. The returned func removes the
// registration; calling it more than once is harmless.
func (l *Listeners) Listen(t EventType, h Handler) (release func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.handlers == nil {
		l.handlers = make(map[EventType][]listener)
	}
	l.nextID++
	id := l.nextID
	l.handlers[t] = append(l.handlers[t], listener{id: id, fn: h})

	var once sync.Once
	return func() {
		once.Do(func() { l.remove(t, id) })
	}
}

func (l *Listeners) remove(t EventType, id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	list := l.handlers[t]
	for i, ln := range list {
		if ln.id == id {
			l.handlers[t] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Emit delivers ev to every handler registered for its type. Returns
// false when nobody was listening.
func (l *Listeners) Emit(ev Event) bool {
	l.mu.Lock()
	list := append([]listener(nil), l.handlers[ev.Type()]...)
	l.mu.Unlock()

	for _, ln := range list {
		ln.fn(ev)
	}
	return len(list) > 0
}

// Count returns the number of handlers registered for t.
func (l *Listeners) Count(t EventType) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.handlers[t])
}

// Total returns the number of live registrations.
func (l *Listeners) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, list := range l.handlers {
		n += len(list)
	}
	return n
}
