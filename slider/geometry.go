package slider

// Rect is an axis-aligned rectangle in device-independent pixels.
// Y grows downwards, as in screen coordinates.
type Rect struct {
	X, Y          float64 // Top-left corner
	Width, Height float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains checks if a point is within the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() &&
		y >= r.Y && y < r.Bottom()
}

// ContainsRect reports whether inner lies entirely inside r. Shared edges
// count as inside.
func (r Rect) ContainsRect(inner Rect) bool {
	return inner.X >= r.X &&
		inner.Y >= r.Y &&
		inner.Right() <= r.Right() &&
		inner.Bottom() <= r.Bottom()
}

// FullyVisible is the containment predicate gating keyboard navigation:
// the widget must be entirely inside the visible viewport.
func FullyVisible(widget, viewport Rect) bool {
	return viewport.ContainsRect(widget)
}
