package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// fade re-runs the content entrance effect after every slide change: the
// content block starts one row low and faint, then settles.
type fade struct {
	duration time.Duration
	start    time.Time
	seq      int
	level    float64 // 0 just started, 1 settled
}

type fadeTickMsg struct {
	seq int
	at  time.Time
}

const fadeFrame = time.Second / 30

func newFade(d time.Duration) fade {
	return fade{duration: d, level: 1}
}

// restart begins a new run; ticks from an older run are ignored.
func (f *fade) restart(now time.Time) tea.Cmd {
	if f.duration <= 0 {
		f.level = 1
		return nil
	}
	f.seq++
	f.start = now
	f.level = 0
	return f.tick()
}

func (f *fade) tick() tea.Cmd {
	seq := f.seq
	return tea.Tick(fadeFrame, func(t time.Time) tea.Msg {
		return fadeTickMsg{seq: seq, at: t}
	})
}

// update advances the effect. It returns the next tick while running.
func (f *fade) update(msg fadeTickMsg) tea.Cmd {
	if msg.seq != f.seq || f.level >= 1 {
		return nil
	}
	f.level = clamp01(float64(msg.at.Sub(f.start)) / float64(f.duration))
	if f.level >= 1 {
		return nil
	}
	return f.tick()
}

// offset is how many rows the content sits below its resting place.
func (f fade) offset() int {
	if f.level < 0.5 {
		return 1
	}
	return 0
}

func (f fade) faint() bool {
	return f.level < 1
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
