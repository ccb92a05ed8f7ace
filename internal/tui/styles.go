// Package tui is the interactive product browser: a scored product table, a
// detail pane and the eco warning shown before low-scoring products.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/rshade/ecoshopper/internal/ecoscore"
	"github.com/rshade/ecoshopper/internal/session"
)

const (
	defaultTerminalWidth = 100
	borderPadding        = 2
)

// Palette is the colour set for one theme.
type Palette struct {
	Primary    lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	High       lipgloss.Color
	Moderate   lipgloss.Color
	Low        lipgloss.Color
	SelectedFg lipgloss.Color
	SelectedBg lipgloss.Color
	Border     lipgloss.Color
}

// PaletteFor returns the palette for a theme. Unknown themes use light.
func PaletteFor(theme session.Theme) Palette {
	if theme == session.ThemeDark {
		return Palette{
			Primary:    lipgloss.Color("114"),
			Text:       lipgloss.Color("252"),
			Muted:      lipgloss.Color("244"),
			High:       lipgloss.Color("78"),
			Moderate:   lipgloss.Color("221"),
			Low:        lipgloss.Color("203"),
			SelectedFg: lipgloss.Color("16"),
			SelectedBg: lipgloss.Color("114"),
			Border:     lipgloss.Color("240"),
		}
	}
	return Palette{
		Primary:    lipgloss.Color("28"),
		Text:       lipgloss.Color("235"),
		Muted:      lipgloss.Color("245"),
		High:       lipgloss.Color("28"),
		Moderate:   lipgloss.Color("136"),
		Low:        lipgloss.Color("160"),
		SelectedFg: lipgloss.Color("231"),
		SelectedBg: lipgloss.Color("28"),
		Border:     lipgloss.Color("250"),
	}
}

// Styles are the rendered styles for one palette.
type Styles struct {
	Title         lipgloss.Style
	Subtle        lipgloss.Style
	Box           lipgloss.Style
	WarningBox    lipgloss.Style
	Status        lipgloss.Style
	Help          lipgloss.Style
	TableHeader   lipgloss.Style
	TableSelected lipgloss.Style
	levelHigh     lipgloss.Style
	levelModerate lipgloss.Style
	levelLow      lipgloss.Style
	Palette       Palette
}

// NewStyles builds the styles for a theme.
func NewStyles(theme session.Theme) Styles {
	p := PaletteFor(theme)
	return Styles{
		Palette: p,
		Title:   lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		Subtle:  lipgloss.NewStyle().Foreground(p.Muted),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		WarningBox: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(p.Low).
			Padding(0, 1),
		Status: lipgloss.NewStyle().Foreground(p.Primary).Italic(true),
		Help:   lipgloss.NewStyle().Foreground(p.Muted),
		TableHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(p.Border),
		TableSelected: lipgloss.NewStyle().Foreground(p.SelectedFg).Background(p.SelectedBg),
		levelHigh:     lipgloss.NewStyle().Bold(true).Foreground(p.High),
		levelModerate: lipgloss.NewStyle().Bold(true).Foreground(p.Moderate),
		levelLow:      lipgloss.NewStyle().Bold(true).Foreground(p.Low),
	}
}

// Level returns the style for a score tier.
func (s Styles) Level(l ecoscore.Level) lipgloss.Style {
	switch l {
	case ecoscore.LevelHigh:
		return s.levelHigh
	case ecoscore.LevelModerate:
		return s.levelModerate
	default:
		return s.levelLow
	}
}

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalWidth returns the width of stdout, or a default when unknown.
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultTerminalWidth
	}
	return w
}
