// Package slider implements the banner carousel controller.
//
// A Slider cycles through a fixed set of slides. It advances on a timer
// (autoplay), on prev/next and indicator clicks, on horizontal swipes and
// on arrow keys while the widget is fully on screen. Every user-initiated
// move resets autoplay so the next automatic advance is a full interval
// away. Hovering the widget suspends autoplay without changing whether it
// is wanted.
//
// The controller is host-agnostic. A Host supplies the slide data, layout
// rectangles and an event registry; a loop.Scheduler supplies time. Both a
// terminal UI and a deterministic manual clock drive the same code:
//
//	clock := loop.NewManual(start, loop.DefaultFrameInterval)
//	s := slider.New(host, clock, slider.DefaultOptions())
//	defer s.Close()
//	clock.Advance(5 * time.Second) // s.ActiveIndex() == 1
package slider
