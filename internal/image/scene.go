package image

import (
	"image"
	"image/color"

	"screen-slicer/pkg/geometry"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// DefaultPreviewSize caps the larger preview dimension. Rendering from a
// smaller copy keeps redraws cheap while dragging.
const DefaultPreviewSize = 2048

// Preview holds display-only copies of a source image.
type Preview struct {
	Color *image.NRGBA
	Gray  *image.NRGBA
	Scale float64 // Preview pixels per source pixel
}

// NewPreview downsizes src so that neither side exceeds maxDim. Images that
// already fit are copied as-is.
func NewPreview(src image.Image, maxDim int) *Preview {
	if maxDim <= 0 {
		maxDim = DefaultPreviewSize
	}
	c := imaging.Fit(src, maxDim, maxDim, imaging.Linear)
	scale := 1.0
	if w := src.Bounds().Dx(); w > 0 {
		scale = float64(c.Bounds().Dx()) / float64(w)
	}
	return &Preview{
		Color: c,
		Gray:  imaging.Grayscale(c),
		Scale: scale,
	}
}

// Scene describes one preview frame in viewport coordinates.
type Scene struct {
	Background color.Color
	Preview    *Preview

	// ImageToViewport maps source pixels to viewport pixels.
	ImageToViewport geometry.AffineTransform

	// GreyAlpha is the opacity of the greyscale image outside the screens.
	GreyAlpha uint8

	// Screens are the screen rectangles in viewport coordinates. The colour
	// image is shown only inside them.
	Screens []geometry.Rect

	Interpolator draw.Interpolator
}

// NewScene returns a scene with a white background and a half-opacity
// greyscale underlay.
func NewScene() *Scene {
	return &Scene{
		Background:      color.White,
		ImageToViewport: geometry.Identity(),
		GreyAlpha:       128,
		Interpolator:    draw.ApproxBiLinear,
	}
}

// Render composites the scene into a new w x h image.
func (s *Scene) Render(w, h int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(s.Background), image.Point{}, draw.Src)

	if s.Preview == nil || s.Preview.Color == nil || s.Preview.Scale <= 0 {
		return out
	}

	interp := s.Interpolator
	if interp == nil {
		interp = draw.ApproxBiLinear
	}

	// Preview pixels -> source pixels -> viewport.
	inv := 1 / s.Preview.Scale
	m := s.ImageToViewport.Compose(geometry.Scale(inv, inv)).Aff3()

	p := s.Preview
	if p.Gray != nil && s.GreyAlpha > 0 {
		interp.Transform(out, m, p.Gray, p.Gray.Bounds(), draw.Over, &draw.Options{
			SrcMask: image.NewUniform(color.Alpha{A: s.GreyAlpha}),
		})
	}

	for _, r := range s.Screens {
		clip := r.ImageRect().Intersect(out.Bounds())
		if clip.Empty() {
			continue
		}
		sub := out.SubImage(clip).(*image.RGBA)
		interp.Transform(sub, m, p.Color, p.Color.Bounds(), draw.Over, nil)
	}
	return out
}
