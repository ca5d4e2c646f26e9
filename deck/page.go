package deck

import (
	"sync"

	"github.com/agiangrant/carousel/slider"
)

// Page is an in-memory document holding one banner container. It
// implements both slider.Document and slider.Host; hosts that render
// somewhere (a terminal, a test) update its layout and emit input into it.
type Page struct {
	slider.Listeners

	mu       sync.RWMutex
	deck     *Deck
	bounds   slider.Rect
	viewport slider.Rect
}

// NewPage creates a page showing d. The banner initially fills the
// viewport.
func NewPage(d *Deck, viewport slider.Rect) *Page {
	return &Page{deck: d, bounds: viewport, viewport: viewport}
}

// Container implements slider.Document.
func (p *Page) Container(selector string) slider.Host {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.deck == nil || !slider.MatchSelector(selector, p.deck.Classes) {
		return nil
	}
	return p
}

// Query implements slider.Host.
func (p *Page) Query(selector string) []slider.SlideData {
	p.mu.RLock()
	d := p.deck
	p.mu.RUnlock()
	if d == nil {
		return nil
	}

	var out []slider.SlideData
	for _, s := range d.SlideData() {
		if slider.MatchSelector(selector, s.Classes) {
			out = append(out, s)
		}
	}
	return out
}

// Bounds implements slider.Host.
func (p *Page) Bounds() slider.Rect {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.bounds
}

// Viewport implements slider.Host.
func (p *Page) Viewport() slider.Rect {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.viewport
}

// SetLayout updates where the banner sits and what is visible.
func (p *Page) SetLayout(bounds, viewport slider.Rect) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bounds = bounds
	p.viewport = viewport
}

// Deck returns the deck currently shown.
func (p *Page) Deck() *Deck {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.deck
}

// SetDeck swaps the page content. A slider already mounted keeps the
// slides it queried; remount to pick up the change.
func (p *Page) SetDeck(d *Deck) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deck = d
}
