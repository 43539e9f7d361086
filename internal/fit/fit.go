// Package fit positions and scales the overlay image relative to the
// arranged screens.
package fit

import (
	"errors"
	"fmt"
	"math"

	"screen-slicer/internal/transform"
	"screen-slicer/pkg/geometry"
)

// NudgeStep is the largest relative change applied by one scale up/down.
const NudgeStep = 0.1

// ErrInvalidScale is returned when a scale step would produce a
// non-positive factor.
var ErrInvalidScale = errors.New("invalid scale factor")

// Direction selects a scale nudge.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ImageRect returns the image's canvas rectangle. The size is always computed
// from the native size so repeated nudges never accumulate rounding.
func ImageRect(img transform.Image, native geometry.Size) geometry.Rect {
	return img.Rect(native)
}

// CoverFit scales the image so it covers bbox completely, choosing the larger
// of the two axis ratios, and centres it on bbox.
func CoverFit(native geometry.Size, bbox geometry.Rect) transform.Image {
	if native.Area() == 0 || bbox.Empty() {
		return transform.DefaultImage()
	}
	scale := math.Max(bbox.Width/native.Width, bbox.Height/native.Height)
	scaled := native.Scale(scale)
	pos := geometry.NewPoint2D(
		bbox.X-(scaled.Width-bbox.Width)/2,
		bbox.Y-(scaled.Height-bbox.Height)/2,
	)
	return transform.Image{Position: pos, Scale: scale}
}

// GreyAreaRatio is the share of the image rectangle lying outside bbox,
// clamped to [0, 1]. Either area being empty yields 0.
func GreyAreaRatio(img transform.Image, native geometry.Size, bbox geometry.Rect) float64 {
	r := ImageRect(img, native)
	imgArea := r.Area()
	if imgArea == 0 || bbox.Area() == 0 {
		return 0
	}
	covered := r.Intersect(bbox).Area()
	return math.Max(0, math.Min(1, 1-covered/imgArea))
}

// Factor returns the multiplicative scale step for dir given a grey area
// ratio. Callers normally pass a clamped ratio, in which case the error
// branch cannot trigger.
func Factor(dir Direction, ratio float64) (float64, error) {
	var f float64
	switch dir {
	case Up:
		f = 1 + ratio*NudgeStep
	case Down:
		f = 1 - ratio*NudgeStep
	default:
		return 0, fmt.Errorf("unknown direction %v", dir)
	}
	if f <= 0 || math.IsNaN(f) {
		return 0, fmt.Errorf("%w: scale %s by %.3f", ErrInvalidScale, dir, f)
	}
	return f, nil
}

// Nudge applies one feedback-driven scale step to img. On error img is
// returned unchanged.
func Nudge(img transform.Image, native geometry.Size, bbox geometry.Rect, dir Direction) (transform.Image, error) {
	f, err := Factor(dir, GreyAreaRatio(img, native, bbox))
	if err != nil {
		return img, err
	}
	return img.ScaleBy(f), nil
}
