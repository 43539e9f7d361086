// Package export cuts the source image into one crop per arranged screen.
package export

import (
	"errors"
	"fmt"
	"image"
	"math"

	"screen-slicer/internal/layout"
	"screen-slicer/internal/transform"
	"screen-slicer/pkg/geometry"
)

// ErrOutOfBounds means a screen's crop is empty once clamped to the image.
var ErrOutOfBounds = errors.New("screen lies outside the image")

// ScreenError reports a failure for one screen of an export batch.
type ScreenError struct {
	Screen int // 1-based
	Err    error
}

func (e *ScreenError) Error() string {
	return fmt.Sprintf("screen %d: %v", e.Screen, e.Err)
}

func (e *ScreenError) Unwrap() error { return e.Err }

// Crop is a rectangle in source image pixels. Right and Bottom are exclusive.
type Crop struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Width returns Right-Left.
func (c Crop) Width() int { return c.Right - c.Left }

// Height returns Bottom-Top.
func (c Crop) Height() int { return c.Bottom - c.Top }

// Rectangle converts to image.Rectangle relative to origin.
func (c Crop) Rectangle(origin image.Point) image.Rectangle {
	return image.Rect(c.Left, c.Top, c.Right, c.Bottom).Add(origin)
}

func (c Crop) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", c.Left, c.Top, c.Right, c.Bottom)
}

// ComputeCrop maps a screen's canvas rectangle into source pixel space.
// Edges are clamped to the native bounds first and then floored, all four
// with the same rule.
func ComputeCrop(e layout.Entry, img transform.Image, native geometry.Size) (Crop, error) {
	if img.Scale <= 0 {
		return Crop{}, fmt.Errorf("%w: image scale %g", ErrOutOfBounds, img.Scale)
	}
	left := (e.Pos.X - img.Position.X) / img.Scale
	top := (e.Pos.Y - img.Position.Y) / img.Scale
	right := left + e.Size.Width/img.Scale
	bottom := top + e.Size.Height/img.Scale

	c := Crop{
		Left:   clampFloor(left, native.Width),
		Top:    clampFloor(top, native.Height),
		Right:  clampFloor(right, native.Width),
		Bottom: clampFloor(bottom, native.Height),
	}
	if c.Left >= c.Right || c.Top >= c.Bottom {
		return c, fmt.Errorf("%w: crop %s in %.0fx%.0f image", ErrOutOfBounds, c, native.Width, native.Height)
	}
	return c, nil
}

func clampFloor(v, max float64) int {
	return int(math.Floor(math.Max(0, math.Min(max, v))))
}
