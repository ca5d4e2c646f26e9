package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	accent  = lipgloss.AdaptiveColor{Light: "#5b21b6", Dark: "#a78bfa"}
	muted   = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#6b7280"}
	warning = lipgloss.Color("#FFC107")
	rating  = lipgloss.Color("#fbbf24")
)

// Styles used by the banner view.
type Styles struct {
	Header    lipgloss.Style
	Badge     lipgloss.Style
	Border    lipgloss.Style
	Title     lipgloss.Style
	Meta      lipgloss.Style
	Rating    lipgloss.Style
	Image     lipgloss.Style
	Arrow     lipgloss.Style
	Dot       lipgloss.Style
	ActiveDot lipgloss.Style
	Muted     lipgloss.Style
	Warning   lipgloss.Style
	Faint     lipgloss.Style
}

// DefaultStyles returns the default banner styles.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		Badge:     lipgloss.NewStyle().Foreground(muted),
		Border:    lipgloss.NewStyle().Foreground(accent),
		Title:     lipgloss.NewStyle().Bold(true),
		Meta:      lipgloss.NewStyle().Foreground(muted),
		Rating:    lipgloss.NewStyle().Foreground(rating),
		Image:     lipgloss.NewStyle().Foreground(muted).Italic(true),
		Arrow:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		Dot:       lipgloss.NewStyle().Foreground(muted),
		ActiveDot: lipgloss.NewStyle().Foreground(accent),
		Muted:     lipgloss.NewStyle().Foreground(muted),
		Warning:   lipgloss.NewStyle().Foreground(warning),
		Faint:     lipgloss.NewStyle().Faint(true),
	}
}

// ApplyColorMode sets the global color profile: "never" strips colors,
// "always" forces true color and "auto" keeps what the terminal reports.
func ApplyColorMode(mode string) error {
	switch mode {
	case "", "auto":
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	case "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	default:
		return fmt.Errorf("unknown color mode %q", mode)
	}
	return nil
}
