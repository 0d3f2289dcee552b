package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/splineanim/internal/render"
)

// Theme is the terminal rendering of a render.Theme palette.
type Theme struct {
	Name   string
	Curve  lipgloss.Color
	Marker lipgloss.Color
	Active lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Border lipgloss.Color
}

func FromPalette(p render.Theme) Theme {
	return Theme{
		Name:   p.Name,
		Curve:  lipgloss.Color(p.Curve),
		Marker: lipgloss.Color(p.Marker),
		Active: lipgloss.Color(p.Active),
		Text:   lipgloss.Color(p.Text),
		Muted:  lipgloss.Color(p.Muted),
		Border: lipgloss.Color(p.Grid),
	}
}

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	return FromPalette(render.GetTheme(name))
}

// NextTheme cycles through the shared palettes.
func NextTheme(current string) Theme {
	return FromPalette(render.NextTheme(current))
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	return render.ThemeNames()
}
