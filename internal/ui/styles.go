package ui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha (dark theme)
var mocha = struct {
	Rosewater, Flamingo, Pink, Mauve, Red, Maroon, Peach, Yellow, Green, Teal, Sky, Sapphire, Blue, Lavender  lipgloss.Color
	Text, Subtext1, Subtext0, Overlay2, Overlay1, Overlay0, Surface2, Surface1, Surface0, Base, Mantle, Crust lipgloss.Color
}{
	Rosewater: "#f5e0dc", Flamingo: "#f2cdcd", Pink: "#f5c2e7", Mauve: "#cba6f7",
	Red: "#f38ba8", Maroon: "#eba0ac", Peach: "#fab387", Yellow: "#f9e2af",
	Green: "#a6e3a1", Teal: "#94e2d5", Sky: "#89dceb", Sapphire: "#74c7ec",
	Blue: "#89b4fa", Lavender: "#b4befe",
	Text: "#cdd6f4", Subtext1: "#bac2de", Subtext0: "#a6adc8",
	Overlay2: "#9399b2", Overlay1: "#7f849c", Overlay0: "#6c7086",
	Surface2: "#585b70", Surface1: "#45475a", Surface0: "#313244",
	Base: "#1e1e2e", Mantle: "#181825", Crust: "#11111b",
}

// Catppuccin Latte (light theme)
var latte = struct {
	Rosewater, Flamingo, Pink, Mauve, Red, Maroon, Peach, Yellow, Green, Teal, Sky, Sapphire, Blue, Lavender  lipgloss.Color
	Text, Subtext1, Subtext0, Overlay2, Overlay1, Overlay0, Surface2, Surface1, Surface0, Base, Mantle, Crust lipgloss.Color
}{
	Rosewater: "#dc8a78", Flamingo: "#dd7878", Pink: "#ea76cb", Mauve: "#8839ef",
	Red: "#d20f39", Maroon: "#e64553", Peach: "#fe640b", Yellow: "#df8e1d",
	Green: "#40a02b", Teal: "#179299", Sky: "#04a5e5", Sapphire: "#209fb5",
	Blue: "#1e66f5", Lavender: "#7287fd",
	Text: "#4c4f69", Subtext1: "#5c5f77", Subtext0: "#6c6f85",
	Overlay2: "#7c7f93", Overlay1: "#8c8fa1", Overlay0: "#9ca0b0",
	Surface2: "#acb0be", Surface1: "#bcc0cc", Surface0: "#ccd0da",
	Base: "#eff1f5", Mantle: "#e6e9ef", Crust: "#dce0e8",
}

// ThemePalette holds the current color scheme. Fields are limited to what
// RenderPrompt and HighlightWithLineNumbers actually consume; the teacher's palette
// carried file-listing colors (image/video/audio/archive/...) for its `ls`-
// style commands, which flintsh has no equivalent of.
type ThemePalette struct {
	Blue, Mauve   lipgloss.Color
	Text, Overlay lipgloss.Color
	Surface, Base lipgloss.Color
}

var currentTheme ThemePalette

func init() {
	if DetectTheme() == ThemeDark {
		SetDarkTheme()
	} else {
		SetLightTheme()
	}
}

// SetDarkTheme switches to Catppuccin Mocha
func SetDarkTheme() {
	currentTheme = ThemePalette{
		Blue: mocha.Blue, Mauve: mocha.Mauve,
		Text: mocha.Text, Overlay: mocha.Overlay1,
		Surface: mocha.Surface1, Base: mocha.Base,
	}
	refreshStyles()
}

// SetLightTheme switches to Catppuccin Latte
func SetLightTheme() {
	currentTheme = ThemePalette{
		Blue: latte.Blue, Mauve: latte.Mauve,
		Text: latte.Text, Overlay: latte.Overlay1,
		Surface: latte.Surface1, Base: latte.Base,
	}
	refreshStyles()
}

// MutedStyle renders secondary/muted text, e.g. HighlightWithLineNumbers' gutter.
var MutedStyle lipgloss.Style

func refreshStyles() {
	MutedStyle = lipgloss.NewStyle().Foreground(currentTheme.Overlay)
}
