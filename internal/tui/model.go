// Package tui hosts a carousel in the terminal with bubbletea. The slider
// itself runs on a loop.Loop; the model turns keys and mouse input into
// slider events and renders the snapshots the Session relays back.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/agiangrant/carousel/slider"
)

// Controller receives what the user does. *Session implements it.
type Controller interface {
	Emit(ev slider.Event)
	Toggle()
	Resize(banner, viewport slider.Rect)
}

// Options configures the model.
type Options struct {
	// MarkdownStyle is a glamour standard style name or "auto".
	MarkdownStyle string

	// FadeDuration is the content entrance length after a slide change.
	FadeDuration time.Duration

	// Cached, if set, marks images that are already preloaded.
	Cached func(src string) bool
}

// Model is the bubbletea model for one banner.
type Model struct {
	ctrl   Controller
	opts   Options
	keys   keyMap
	help   help.Model
	bar    progress.Model
	styles Styles

	width, height int

	snap  slider.Snapshot
	title string
	err   error
	ratio float64

	hovering bool
	pressed  bool
	fade     fade

	md *markdown

	now func() time.Time
}

// NewModel creates a model driving ctrl.
func NewModel(ctrl Controller, opts Options) Model {
	return Model{
		ctrl:   ctrl,
		opts:   opts,
		keys:   defaultKeyMap(),
		help:   help.New(),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		styles: DefaultStyles(),
		fade:   newFade(opts.FadeDuration),
		md:     &markdown{style: opts.MarkdownStyle},
		now:    time.Now,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("carousel")
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.bar.Width = max(msg.Width-2, 1)
		m.help.Width = msg.Width
		m.ctrl.Resize(m.layout().bounds())
		return m, nil

	case SnapshotMsg:
		m.snap = msg.Snapshot
		m.title = msg.Title
		m.err = msg.Err
		m.ratio = msg.Snapshot.Progress
		return m, nil

	case NoticeMsg:
		var cmd tea.Cmd
		if msg.Notice.Kind == slider.NoticeSlideChanged {
			cmd = m.fade.restart(m.now())
		}
		return m, cmd

	case ProgressMsg:
		m.ratio = float64(msg)
		return m, nil

	case fadeTickMsg:
		cmd := m.fade.update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.BlurMsg:
		// The pointer may be released outside the window.
		if m.pressed {
			m.pressed = false
			m.ctrl.Emit(slider.NewHoverEvent(slider.EventPointerCancel))
		}
		m.setHover(false)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Toggle):
		m.ctrl.Toggle()
	case key.Matches(msg, m.keys.Prev):
		m.ctrl.Emit(slider.NewKeyEvent(slider.KeyArrowLeft))
	case key.Matches(msg, m.keys.Next):
		m.ctrl.Emit(slider.NewKeyEvent(slider.KeyArrowRight))
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	l := m.layout()
	inside := l.inBanner(msg.X, msg.Y)
	x, y := toPixels(msg.X), float64(msg.Y)*CellHeight

	switch msg.Action {
	case tea.MouseActionMotion:
		m.setHover(inside)
		if m.pressed {
			m.ctrl.Emit(slider.NewPointerEvent(slider.EventPointerMove, x, y))
		}

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.setHover(inside)
		if c, i, ok := l.hit(msg.X, msg.Y); ok {
			m.ctrl.Emit(slider.NewClickEvent(c, i))
			return
		}
		if inside {
			m.pressed = true
			m.ctrl.Emit(slider.NewPointerEvent(slider.EventPointerDown, x, y))
		}

	case tea.MouseActionRelease:
		if m.pressed {
			m.pressed = false
			m.ctrl.Emit(slider.NewPointerEvent(slider.EventPointerUp, x, y))
		}
	}
}

// setHover emits enter/leave on transitions only.
func (m *Model) setHover(inside bool) {
	if inside == m.hovering {
		return
	}
	m.hovering = inside
	if inside {
		m.ctrl.Emit(slider.NewHoverEvent(slider.EventMouseEnter))
	} else {
		m.ctrl.Emit(slider.NewHoverEvent(slider.EventMouseLeave))
	}
}

func (m Model) layout() layout {
	return newLayout(m.width, m.height, len(m.snap.Slides))
}

// ============================================================================
// View
// ============================================================================

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.width < minWidth {
		return m.styles.Warning.Render("terminal too narrow")
	}

	l := m.layout()
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteByte('\n')
	for _, line := range m.banner(l) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(" " + m.bar.ViewAs(m.ratio))
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) header() string {
	title := m.title
	if title == "" {
		title = "carousel"
	}

	var badge string
	switch {
	case m.snap.State == slider.StateStopped:
		badge = "■ stopped"
	case m.snap.Suspended:
		badge = "⏸ hover"
	case m.snap.State == slider.StatePlaying:
		badge = "▶ playing"
	default:
		badge = "❚❚ paused"
	}
	if n := len(m.snap.Slides); n > 0 {
		badge += fmt.Sprintf("  %d/%d", m.snap.ActiveIndex+1, n)
	}
	if m.snap.Dragging {
		badge += "  ✋"
	}
	return m.styles.Header.Render(title) + "  " + m.styles.Badge.Render(badge)
}

func (m Model) banner(l layout) []string {
	inner := l.width - 2
	border := m.styles.Border
	lines := make([]string, 0, BannerRows)
	lines = append(lines, border.Render("╭"+strings.Repeat("─", inner)+"╮"))

	bodyRows := BannerRows - 2
	var content []string
	if m.err != nil || len(m.snap.Slides) == 0 {
		content = m.emptyContent()
	} else {
		content = m.contentLines(l.innerWidth())
	}

	blank := strings.Repeat(" ", marginCols)
	arrowRow := BannerRows/2 - 1
	for r := 0; r < bodyRows-1; r++ {
		left, right := blank, blank
		if r == arrowRow && len(m.snap.Slides) > 0 {
			left = " " + m.styles.Arrow.Render("‹") + " "
			right = " " + m.styles.Arrow.Render("›") + " "
		}
		line := ""
		if r < len(content) {
			line = content[r]
		}
		lines = append(lines, border.Render("│")+left+fit(line, l.innerWidth())+right+border.Render("│"))
	}

	lines = append(lines, border.Render("│")+fit(m.dots(l), inner)+border.Render("│"))
	lines = append(lines, border.Render("╰"+strings.Repeat("─", inner)+"╯"))
	return lines
}

func (m Model) emptyContent() []string {
	msg := "No slides"
	if m.err != nil {
		msg = m.err.Error()
	}
	return []string{"", "", m.styles.Warning.Render(msg)}
}

func (m Model) contentLines(width int) []string {
	active := m.snap.Slides[m.snap.ActiveIndex]
	c := active.Content

	var lines []string
	for i := 0; i < m.fade.offset(); i++ {
		lines = append(lines, "")
	}

	img := "▣ " + active.Image
	if m.opts.Cached != nil && active.Image != "" && m.opts.Cached(active.Image) {
		img += " ✓"
	}
	lines = append(lines, m.styles.Image.Render(img), "")

	text := []string{m.styles.Title.Render(c.Title)}
	meta := strings.Join(c.Meta, " • ")
	if c.Rating > 0 {
		if meta != "" {
			meta += "  "
		}
		meta += m.styles.Rating.Render(fmt.Sprintf("★ %.1f", c.Rating))
	}
	if meta != "" {
		text = append(text, m.styles.Meta.Render(meta))
	}
	if c.Description != "" {
		text = append(text, m.md.render(active.ID, c.Description, width)...)
	}
	if c.Link != "" {
		text = append(text, m.styles.Muted.Render("→ "+c.Link))
	}

	if m.fade.faint() {
		for i, t := range text {
			text[i] = m.styles.Faint.Render(t)
		}
	}
	return append(lines, text...)
}

func (m Model) dots(l layout) string {
	if len(m.snap.Indicators) == 0 {
		return ""
	}
	parts := make([]string, len(m.snap.Indicators))
	for i, ind := range m.snap.Indicators {
		if ind.Active {
			parts[i] = m.styles.ActiveDot.Render("●")
		} else {
			parts[i] = m.styles.Dot.Render("○")
		}
	}
	return strings.Repeat(" ", l.dotsStart()-1) + strings.Join(parts, " ")
}

// markdown renders slide descriptions with glamour, cached per slide for
// the current width. Shared between model copies.
type markdown struct {
	style string
	r     *glamour.TermRenderer
	width int
	cache map[string][]string
}

func (md *markdown) render(id, text string, width int) []string {
	if md.cache == nil || md.width != width {
		md.r = newMarkdownRenderer(md.style, width)
		md.width = width
		md.cache = make(map[string][]string)
	}
	if lines, ok := md.cache[id]; ok {
		return lines
	}

	lines := []string{text}
	if md.r != nil {
		if out, err := md.r.Render(text); err == nil {
			lines = trimBlank(strings.Split(out, "\n"))
		}
	}
	md.cache[id] = lines
	return lines
}

func newMarkdownRenderer(style string, width int) *glamour.TermRenderer {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil
	}
	return r
}

// fit truncates or pads s to exactly width cells.
func fit(s string, width int) string {
	s = lipgloss.NewStyle().Inline(true).MaxWidth(width).Render(s)
	if w := lipgloss.Width(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

func trimBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
