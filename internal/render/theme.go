package render

import "image/color"

// Theme is a named color scheme shared by raster frames and the terminal
// preview. Colors are "#rrggbb" strings.
type Theme struct {
	Name       string
	Background string
	Grid       string
	Axis       string
	Text       string
	Curve      string
	Marker     string
	Active     string
	Muted      string
}

var (
	ThemeCyberpunk = Theme{
		Name:       "cyberpunk",
		Background: "#0a0a0a",
		Grid:       "#222233",
		Axis:       "#666666",
		Text:       "#ffffff",
		Curve:      "#00ffff",
		Marker:     "#ff00ff",
		Active:     "#ffff00",
		Muted:      "#666666",
	}

	ThemeRetro = Theme{
		Name:       "retro",
		Background: "#001100",
		Grid:       "#003300",
		Axis:       "#005500",
		Text:       "#00ff00",
		Curve:      "#00ff00",
		Marker:     "#00cc00",
		Active:     "#88ff88",
		Muted:      "#005500",
	}

	ThemeMinimal = Theme{
		Name:       "minimal",
		Background: "#000000",
		Grid:       "#222222",
		Axis:       "#888888",
		Text:       "#ffffff",
		Curve:      "#ffffff",
		Marker:     "#cccccc",
		Active:     "#0088ff",
		Muted:      "#888888",
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		Background: "#001a33",
		Grid:       "#0a2f4f",
		Axis:       "#4488aa",
		Text:       "#e0f0ff",
		Curve:      "#00a8cc",
		Marker:     "#0077be",
		Active:     "#ffd700",
		Muted:      "#4488aa",
	}

	ThemeSunset = Theme{
		Name:       "sunset",
		Background: "#2d1b2e",
		Grid:       "#3f2a40",
		Axis:       "#8b6b8c",
		Text:       "#fff5f5",
		Curve:      "#feca57",
		Marker:     "#ff6b6b",
		Active:     "#ff9ff3",
		Muted:      "#8b6b8c",
	}

	// ThemePaper mimics a plain publication figure.
	ThemePaper = Theme{
		Name:       "paper",
		Background: "#ffffff",
		Grid:       "#e5e5e5",
		Axis:       "#000000",
		Text:       "#000000",
		Curve:      "#1f77b4",
		Marker:     "#d62728",
		Active:     "#ff7f0e",
		Muted:      "#7f7f7f",
	}

	DefaultTheme = ThemePaper

	Themes = []Theme{
		ThemePaper,
		ThemeCyberpunk,
		ThemeRetro,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to DefaultTheme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return DefaultTheme
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme cycles to the theme after name.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ParseHex converts "#rrggbb" to an opaque color. Malformed input yields
// white.
func ParseHex(hex string) color.RGBA {
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.RGBA{
		R: hexByte(hex[1:3]),
		G: hexByte(hex[3:5]),
		B: hexByte(hex[5:7]),
		A: 255,
	}
}

func hexByte(s string) uint8 {
	var v uint8
	for _, c := range s {
		v *= 16
		switch {
		case c >= '0' && c <= '9':
			v += uint8(c - '0')
		case c >= 'a' && c <= 'f':
			v += uint8(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			v += uint8(c - 'A' + 10)
		}
	}
	return v
}
