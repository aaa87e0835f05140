package ui

import (
	"Stopwatch/internal/config"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// 浅色配色
var (
	backgroundColor = color.NRGBA{R: 169, G: 214, B: 255, A: 255} // #A9D6FF
	buttonColor     = color.NRGBA{R: 105, G: 192, B: 255, A: 255} // #69C0FF
	hoverColor      = color.NRGBA{R: 77, G: 166, B: 224, A: 255}  // #4DA6E0
	textColor       = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	timeColor       = color.NRGBA{R: 51, G: 51, B: 51, A: 255} // #333333
)

// stopwatchTheme 在默认主题上替换配色和字号
type stopwatchTheme struct {
	dark     bool
	fontSize float32
}

var _ fyne.Theme = (*stopwatchTheme)(nil)

func newTheme(cfg config.ThemeConfig) *stopwatchTheme {
	return &stopwatchTheme{dark: cfg.DarkMode, fontSize: cfg.FontSize}
}

func (t *stopwatchTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.dark {
		return theme.DefaultTheme().Color(name, theme.VariantDark)
	}

	switch name {
	case theme.ColorNameBackground:
		return backgroundColor
	case theme.ColorNameButton, theme.ColorNamePrimary:
		return buttonColor
	case theme.ColorNameHover:
		return hoverColor
	case theme.ColorNameForeground:
		return textColor
	}
	return theme.DefaultTheme().Color(name, theme.VariantLight)
}

func (t *stopwatchTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *stopwatchTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *stopwatchTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNameText && t.fontSize > 0 {
		return t.fontSize
	}
	return theme.DefaultTheme().Size(name)
}

// 时间文字的颜色跟随主题
func (t *stopwatchTheme) timeColor() color.Color {
	if t.dark {
		return theme.DefaultTheme().Color(theme.ColorNameForeground, theme.VariantDark)
	}
	return timeColor
}

func (t *stopwatchTheme) titleColor() color.Color {
	if t.dark {
		return theme.DefaultTheme().Color(theme.ColorNameForeground, theme.VariantDark)
	}
	return textColor
}
