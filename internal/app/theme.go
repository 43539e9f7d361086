package app

import (
	"image/color"

	"screen-slicer/pkg/colorutil"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ScreenSlicerTheme takes its accents from the preview palette, so buttons
// and focus rings match the drag grip and warnings match uncovered screens.
type ScreenSlicerTheme struct{}

var _ fyne.Theme = (*ScreenSlicerTheme)(nil)

// selectionAlpha is the opacity of the grip colour used for selections.
const selectionAlpha = 0x40

func (t *ScreenSlicerTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus, theme.ColorNameHyperlink:
		return colorutil.Grip
	case theme.ColorNameSelection:
		g := colorutil.Grip
		return color.NRGBA{R: g.R, G: g.G, B: g.B, A: selectionAlpha}
	case theme.ColorNameError:
		return colorutil.UncoveredOutline
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *ScreenSlicerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *ScreenSlicerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size tightens the padding so both toolbar rows fit a 1200px window.
func (t *ScreenSlicerTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	default:
		return theme.DefaultTheme().Size(name)
	}
}
