package slider

import "errors"

var (
	// ErrMissingContainer means the configured root element was not found.
	// The slider is inert.
	ErrMissingContainer = errors.New("slider: container not found")

	// ErrNoSlides means the container matched zero slides. The slider is inert.
	ErrNoSlides = errors.New("slider: no slides found")

	// ErrIndexOutOfRange is returned by GoTo for an index outside [0, N).
	ErrIndexOutOfRange = errors.New("slider: slide index out of range")

	// ErrClosed is returned by operations on a closed slider.
	ErrClosed = errors.New("slider: closed")

	// ErrInert is returned by navigation on a slider with no slides.
	ErrInert = errors.New("slider: inert")
)
