package slider

import "strings"

// Content is the text block rendered over a slide's image.
type Content struct {
	Title       string
	Description string // markdown
	Rating      float64
	Meta        []string // e.g. year, episode count, status
	Link        string
}

// SlideData is what a host supplies for one slide node.
type SlideData struct {
	ID      string
	Image   string // file path or URL
	Content Content
	Classes []string
}

// Host is the environment a slider is mounted in: it owns the slide
// nodes, knows where the widget sits on screen, and delivers input.
//
// Listen must return a func that removes the registration; the slider
// collects these and releases them together on Close.
type Host interface {
	// Query returns the slide nodes matching selector, in document order.
	Query(selector string) []SlideData

	// Bounds returns the widget's rectangle in viewport coordinates.
	Bounds() Rect

	// Viewport returns the visible area.
	Viewport() Rect

	// Listen registers h for input events of type t.
	Listen(t EventType, h Handler) (release func())
}

// Document resolves a container selector to a Host. Container must return
// an untyped nil when nothing matches.
type Document interface {
	Container(selector string) Host
}

// MatchSelector implements the class selectors hosts support: "" and "*"
// match everything, ".a" matches nodes carrying class a, and ".a.b"
// requires both.
func MatchSelector(selector string, classes []string) bool {
	selector = strings.TrimSpace(selector)
	if selector == "" || selector == "*" {
		return true
	}
	if !strings.HasPrefix(selector, ".") {
		return false
	}
	for _, want := range strings.Split(selector[1:], ".") {
		if want == "" {
			return false
		}
		found := false
		for _, c := range classes {
			if c == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
