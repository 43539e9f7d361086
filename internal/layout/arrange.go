// Package layout arranges screens left-to-right in the shared canvas space,
// scaled so the whole row fits the preview viewport.
package layout

import (
	"errors"
	"fmt"
	"math"

	"screen-slicer/internal/screen"
	"screen-slicer/pkg/geometry"

	"gonum.org/v1/gonum/floats"
)

const (
	// Padding is the outer margin around the arrangement, per side.
	Padding = 25.0

	// Spacing is the gap between neighbouring screens.
	Spacing = 10.0
)

// ErrViewportTooSmall implies the viewport leaves no room once padding and
// spacing are removed.
var ErrViewportTooSmall = errors.New("viewport too small for screen arrangement")

// Entry is the canvas rectangle assigned to one screen.
type Entry struct {
	Index int              `json:"index"`
	Pos   geometry.Point2D `json:"pos"`
	Size  geometry.Size    `json:"size"`
}

// Rect returns the entry as a canvas-space rectangle.
func (e Entry) Rect() geometry.Rect {
	return geometry.RectFrom(e.Pos, e.Size)
}

// Label is the 1-based display name used in the preview and output files.
func (e Entry) Label() string {
	return fmt.Sprintf("Screen %d", e.Index+1)
}

// Arrangement holds one entry per configured screen, in configuration order.
type Arrangement []Entry

// Arrange lays out screens of the given physical sizes inside viewport.
//
// Every screen uses the same cm-to-canvas scale, the smaller of the scales
// that fit the row horizontally and the tallest screen vertically. Screens
// are vertically centred on the tallest one. The horizontal scale leaves room
// for the Spacing gaps as well as the Padding, so the whole row, gaps
// included, stays inside the padded viewport.
func Arrange(sizes []screen.PhysicalSize, viewport geometry.Size) (Arrangement, error) {
	if len(sizes) == 0 {
		return Arrangement{}, nil
	}

	widths := make([]float64, len(sizes))
	heights := make([]float64, len(sizes))
	for i, s := range sizes {
		widths[i] = s.WidthCM
		heights[i] = s.HeightCM
	}
	totalWidth := floats.Sum(widths)
	maxHeight := floats.Max(heights)

	gaps := Spacing * float64(len(sizes)-1)
	availW := viewport.Width - 2*Padding - gaps
	availH := viewport.Height - 2*Padding
	if availW <= 0 || availH <= 0 || totalWidth <= 0 || maxHeight <= 0 {
		return nil, fmt.Errorf("%w: %.0fx%.0f for %d screens", ErrViewportTooSmall,
			viewport.Width, viewport.Height, len(sizes))
	}

	scale := math.Min(availW/totalWidth, availH/maxHeight)

	arr := make(Arrangement, len(sizes))
	x := Padding
	for i, s := range sizes {
		w := s.WidthCM * scale
		h := s.HeightCM * scale
		y := Padding + (maxHeight-s.HeightCM)*scale/2

		arr[i] = Entry{
			Index: i,
			Pos:   geometry.NewPoint2D(math.Trunc(x), math.Trunc(y)),
			Size:  geometry.NewSize(math.Trunc(w), math.Trunc(h)),
		}
		x += w + Spacing
	}
	return arr, nil
}

// BoundingBox returns the union of all entry rectangles. ok is false for an
// empty arrangement.
func (a Arrangement) BoundingBox() (bbox geometry.Rect, ok bool) {
	if len(a) == 0 {
		return geometry.Rect{}, false
	}
	bbox = a[0].Rect()
	for _, e := range a[1:] {
		bbox = bbox.Union(e.Rect())
	}
	return bbox, true
}

// HitTest returns the index of the topmost entry containing p. Later entries
// are drawn on top, so they win.
func (a Arrangement) HitTest(p geometry.Point2D) (int, bool) {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i].Rect().Contains(p) {
			return i, true
		}
	}
	return -1, false
}

// Move returns a copy of the arrangement with entry i placed at pos.
func (a Arrangement) Move(i int, pos geometry.Point2D) Arrangement {
	out := a.Clone()
	if i >= 0 && i < len(out) {
		out[i].Pos = pos
	}
	return out
}

// Clone returns an independent copy.
func (a Arrangement) Clone() Arrangement {
	if a == nil {
		return nil
	}
	out := make(Arrangement, len(a))
	copy(out, a)
	return out
}

// Overlapping reports whether any two entries overlap.
func (a Arrangement) Overlapping() bool {
	for i := range a {
		for j := i + 1; j < len(a); j++ {
			if a[i].Rect().Intersects(a[j].Rect()) {
				return true
			}
		}
	}
	return false
}
