// Package carousel is the entry point for embedding a banner carousel.
//
// It re-exports the slider types most hosts need and provides Engine, a
// real-time scheduler that owns the sliders it mounts. Hosts with their
// own event loop can use package slider directly with a loop.Scheduler.
package carousel

import (
	"github.com/agiangrant/carousel/loop"
	"github.com/agiangrant/carousel/slider"
)

// Options configures a carousel.
// This is a re-export of slider.Options for consumer convenience.
type Options = slider.Options

// Slider is a mounted carousel.
type Slider = slider.Slider

// Document resolves the carousel container.
type Document = slider.Document

// Host supplies slides, layout and input to a carousel.
type Host = slider.Host

// Notice is published after every state change.
type Notice = slider.Notice

// Change describes one slide transition.
type Change = slider.Change

var (
	ErrMissingContainer = slider.ErrMissingContainer
	ErrNoSlides         = slider.ErrNoSlides
	ErrIndexOutOfRange  = slider.ErrIndexOutOfRange
	ErrClosed           = slider.ErrClosed
	ErrInert            = slider.ErrInert
)

// DefaultOptions returns sensible defaults: autoplay every 5s, pause on
// hover, swipe with a 50px threshold.
func DefaultOptions() Options {
	return slider.DefaultOptions()
}

// Mount resolves opts.Container through doc and builds a carousel driven
// by sched. See slider.Mount.
func Mount(doc Document, sched loop.Scheduler, opts Options) *Slider {
	return slider.Mount(doc, sched, opts)
}

// New builds a carousel over host. See slider.New.
func New(host Host, sched loop.Scheduler, opts Options) *Slider {
	return slider.New(host, sched, opts)
}
