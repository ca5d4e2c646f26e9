package tui

import "github.com/agiangrant/carousel/slider"

// Cell size in the slider's pixel space. Swipe thresholds and the
// containment check work in pixels; one terminal cell counts as this many.
const (
	CellWidth  = 10.0
	CellHeight = 20.0
)

const (
	headerRows = 1  // title line above the banner
	BannerRows = 12 // banner height including borders
	minWidth   = 24 // narrower terminals get a notice instead of a banner
)

// layout maps terminal cells to banner regions. Rows and columns are
// zero-based terminal coordinates.
type layout struct {
	width, height int
	top           int // first banner row
	slides        int
}

func newLayout(width, height, slides int) layout {
	return layout{width: width, height: height, top: headerRows, slides: slides}
}

func (l layout) bottom() int     { return l.top + BannerRows }
func (l layout) arrowRow() int   { return l.top + BannerRows/2 }
func (l layout) dotsRow() int    { return l.top + BannerRows - 2 }
func (l layout) innerWidth() int { return max(l.width-2-2*marginCols, 1) }

// marginCols is the space beside the content for the arrow controls.
const marginCols = 3

// inBanner reports whether a cell lies on the banner.
func (l layout) inBanner(x, y int) bool {
	return y >= l.top && y < l.bottom() && x >= 0 && x < l.width
}

// dotsStart returns the column of the first indicator dot. Dots are
// rendered one column apart with a space between.
func (l layout) dotsStart() int {
	span := 2*l.slides - 1
	if span < 0 {
		span = 0
	}
	return 1 + (l.width-2-span)/2
}

// hit resolves a click on a control.
func (l layout) hit(x, y int) (slider.Control, int, bool) {
	switch {
	case y == l.arrowRow() && x >= 1 && x <= marginCols:
		return slider.ControlPrev, 0, true
	case y == l.arrowRow() && x >= l.width-1-marginCols && x <= l.width-2:
		return slider.ControlNext, 0, true
	case y == l.dotsRow() && l.slides > 0:
		off := x - l.dotsStart()
		if off >= 0 && off%2 == 0 && off/2 < l.slides {
			return slider.ControlIndicator, off / 2, true
		}
	}
	return 0, 0, false
}

// bounds returns the banner and the terminal window in pixels.
func (l layout) bounds() (banner, viewport slider.Rect) {
	banner = slider.Rect{
		X:      0,
		Y:      float64(l.top) * CellHeight,
		Width:  float64(l.width) * CellWidth,
		Height: BannerRows * CellHeight,
	}
	viewport = slider.Rect{
		Width:  float64(l.width) * CellWidth,
		Height: float64(l.height) * CellHeight,
	}
	return banner, viewport
}

// toPixels converts a cell column to a pointer x coordinate at the cell
// centre.
func toPixels(x int) float64 {
	return (float64(x) + 0.5) * CellWidth
}
