package slider

import "fmt"

// Indicator is one dot of the indicator set. It mirrors the active flag
// of the slide at the same position.
type Indicator struct {
	Index  int
	Label  string
	Active bool
}

// IndicatorSet holds one indicator per slide. It is built once and never
// resized.
type IndicatorSet struct {
	items    []Indicator
	onSelect func(index int)
}

// NewIndicatorSet builds n indicators with the first one active. onSelect
// is called when an indicator is clicked.
func NewIndicatorSet(n int, onSelect func(index int)) *IndicatorSet {
	items := make([]Indicator, n)
	for i := range items {
		items[i] = Indicator{
			Index: i,
			Label: fmt.Sprintf("Go to slide %d", i+1),
		}
	}
	if n > 0 {
		items[0].Active = true
	}
	return &IndicatorSet{items: items, onSelect: onSelect}
}

// Len returns the number of indicators.
func (s *IndicatorSet) Len() int {
	return len(s.items)
}

// Set moves the active mark from prev to next.
func (s *IndicatorSet) Set(prev, next int) {
	if prev >= 0 && prev < len(s.items) {
		s.items[prev].Active = false
	}
	if next >= 0 && next < len(s.items) {
		s.items[next].Active = true
	}
}

// Click requests navigation to indicator i. Returns false for an index
// outside the set.
func (s *IndicatorSet) Click(i int) bool {
	if i < 0 || i >= len(s.items) {
		return false
	}
	if s.onSelect != nil {
		s.onSelect(i)
	}
	return true
}

// Indicators returns a copy of the indicators.
func (s *IndicatorSet) Indicators() []Indicator {
	return append([]Indicator(nil), s.items...)
}
