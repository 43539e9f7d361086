// Package colorutil provides the colors used by the screen preview.
package colorutil

import (
	"image/color"
)

// Preview palette.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red   = color.RGBA{R: 220, G: 30, B: 30, A: 255}

	// ScreenOutline frames a screen the image fully covers.
	ScreenOutline = Black

	// UncoveredOutline frames a screen with an uncovered part.
	UncoveredOutline = Red

	// ScreenFill is drawn inside screens before an image is loaded.
	ScreenFill = color.RGBA{R: 200, G: 215, B: 235, A: 255}

	// Grip marks the screen currently being dragged.
	Grip = color.RGBA{R: 25, G: 118, B: 210, A: 255}
)

// Outline returns the outline color for a screen.
func Outline(covered bool) color.RGBA {
	if covered {
		return ScreenOutline
	}
	return UncoveredOutline
}

// Blend mixes src over dst with the given opacity (0..1).
func Blend(dst, src color.RGBA, opacity float64) color.RGBA {
	if opacity <= 0 {
		return dst
	}
	if opacity >= 1 {
		return src
	}
	mix := func(d, s uint8) uint8 {
		return uint8(float64(s)*opacity + float64(d)*(1-opacity) + 0.5)
	}
	return color.RGBA{R: mix(dst.R, src.R), G: mix(dst.G, src.G), B: mix(dst.B, src.B), A: 255}
}
