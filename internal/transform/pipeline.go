// Package transform maps points between the three coordinate spaces of the
// preview: viewport (what the widget draws), canvas (where screens and the
// image live), and image pixels (the source image).
//
//	viewport = canvas * zoom + pan
//	canvas   = pixel  * scale + position
package transform

import (
	"math"

	"screen-slicer/pkg/geometry"
)

const (
	// ZoomStep is the factor applied by one zoom in/out action.
	ZoomStep = 1.2

	// PanStep is the viewport distance moved by one pan action.
	PanStep = 20.0

	// MinZoom and MaxZoom bound the view zoom. Keeping zoom positive keeps
	// the view transform invertible.
	MinZoom = 0.1
	MaxZoom = 10.0
)

// View is the canvas-to-viewport transform. It only affects display.
type View struct {
	Pan  geometry.Point2D `json:"pan"`
	Zoom float64          `json:"zoom"`
}

// DefaultView is the identity view.
func DefaultView() View {
	return View{Zoom: 1}
}

// Affine returns the canvas-to-viewport transform.
func (v View) Affine() geometry.AffineTransform {
	return geometry.ScaleThenTranslate(v.Zoom, v.Pan)
}

// ZoomBy multiplies the zoom factor, clamped to [MinZoom, MaxZoom].
func (v View) ZoomBy(factor float64) View {
	v.Zoom = clamp(v.Zoom*factor, MinZoom, MaxZoom)
	return v
}

// PanBy moves the pan offset in viewport units.
func (v View) PanBy(dx, dy float64) View {
	v.Pan = v.Pan.Add(geometry.NewPoint2D(dx, dy))
	return v
}

// Image is the source-pixel-to-canvas transform of the overlay image.
type Image struct {
	Position geometry.Point2D `json:"position"`
	Scale    float64          `json:"scale"`
}

// DefaultImage is the transform assigned to a freshly loaded image.
func DefaultImage() Image {
	return Image{Scale: 1}
}

// Affine returns the pixel-to-canvas transform.
func (im Image) Affine() geometry.AffineTransform {
	return geometry.ScaleThenTranslate(im.Scale, im.Position)
}

// Rect returns the canvas rectangle covered by an image of the given native
// size. The scaled size is derived from the native size every time.
func (im Image) Rect(native geometry.Size) geometry.Rect {
	return geometry.RectFrom(im.Position, native.Scale(im.Scale))
}

// MoveBy shifts the image position in canvas units.
func (im Image) MoveBy(dx, dy float64) Image {
	im.Position = im.Position.Add(geometry.NewPoint2D(dx, dy))
	return im
}

// ScaleBy multiplies the image scale, keeping the top-left corner fixed.
func (im Image) ScaleBy(factor float64) Image {
	im.Scale *= factor
	return im
}

// Pipeline is the full chain of transforms. It is a plain value; every
// method is pure arithmetic.
type Pipeline struct {
	View  View  `json:"view"`
	Image Image `json:"image"`
}

// New returns a pipeline with identity view and image transforms.
func New() Pipeline {
	return Pipeline{View: DefaultView(), Image: DefaultImage()}
}

// ToViewport maps a canvas point to the viewport.
func (p Pipeline) ToViewport(c geometry.Point2D) geometry.Point2D {
	return c.Scale(p.View.Zoom).Add(p.View.Pan)
}

// ToCanvas maps a viewport point back to canvas space.
func (p Pipeline) ToCanvas(v geometry.Point2D) geometry.Point2D {
	return inverseApply(p.View.Affine(), v)
}

// ToImagePixel maps a canvas point to source image pixel coordinates.
func (p Pipeline) ToImagePixel(c geometry.Point2D) geometry.Point2D {
	return inverseApply(p.Image.Affine(), c)
}

// ToCanvasFromImage maps a source pixel to canvas space.
func (p Pipeline) ToCanvasFromImage(px geometry.Point2D) geometry.Point2D {
	return px.Scale(p.Image.Scale).Add(p.Image.Position)
}

// CanvasToViewport is the view transform as an affine matrix.
func (p Pipeline) CanvasToViewport() geometry.AffineTransform {
	return p.View.Affine()
}

// ImageToViewport composes image->canvas->viewport, used when rendering the
// source image directly into the preview.
func (p Pipeline) ImageToViewport() geometry.AffineTransform {
	return p.View.Affine().Compose(p.Image.Affine())
}

// CanvasDelta converts a viewport displacement into a canvas displacement.
// Dragging uses this so the same gesture moves content by the same canvas
// distance at every zoom level.
func (p Pipeline) CanvasDelta(from, to geometry.Point2D) geometry.Point2D {
	return p.ToCanvas(to).Sub(p.ToCanvas(from))
}

// inverseApply maps p through the inverse of t. A singular t (zero scale)
// yields NaN coordinates, matching division by a zero scale.
func inverseApply(t geometry.AffineTransform, p geometry.Point2D) geometry.Point2D {
	inv, ok := t.Inverse()
	if !ok {
		return geometry.NewPoint2D(math.NaN(), math.NaN())
	}
	return inv.Apply(p)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
