package transform

import (
	"math"
	"testing"

	"screen-slicer/pkg/geometry"

	"github.com/stretchr/testify/assert"
)

var samplePoints = []geometry.Point2D{
	{X: 0, Y: 0},
	{X: 1, Y: -1},
	{X: 25, Y: 25},
	{X: 1234.5, Y: 987.25},
	{X: -3000.125, Y: 42},
	{X: 1e6, Y: -1e6},
}

var samplePipelines = []Pipeline{
	New(),
	{View: View{Pan: geometry.NewPoint2D(40, -20), Zoom: 1.2 * 1.2}, Image: Image{Position: geometry.NewPoint2D(-312.5, 17), Scale: 0.2734}},
	{View: View{Pan: geometry.NewPoint2D(-1000, 300), Zoom: 0.1}, Image: Image{Position: geometry.NewPoint2D(25, 25), Scale: 3.75}},
	{View: View{Pan: geometry.NewPoint2D(0.5, 0.25), Zoom: 7.3}, Image: Image{Position: geometry.NewPoint2D(1e4, -1e4), Scale: 1e-3}},
}

func assertPointNear(t *testing.T, want, got geometry.Point2D) {
	t.Helper()
	tol := 1e-9 * (1 + abs(want.X) + abs(want.Y))
	assert.InDelta(t, want.X, got.X, tol)
	assert.InDelta(t, want.Y, got.Y, tol)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func TestViewportRoundTrip(t *testing.T) {
	for _, p := range samplePipelines {
		for _, pt := range samplePoints {
			assertPointNear(t, pt, p.ToCanvas(p.ToViewport(pt)))
			assertPointNear(t, pt, p.ToViewport(p.ToCanvas(pt)))
		}
	}
}

func TestImagePixelRoundTrip(t *testing.T) {
	for _, p := range samplePipelines {
		for _, pt := range samplePoints {
			assertPointNear(t, pt, p.ToImagePixel(p.ToCanvasFromImage(pt)))
			assertPointNear(t, pt, p.ToCanvasFromImage(p.ToImagePixel(pt)))
		}
	}
}

func TestForwardMappings(t *testing.T) {
	p := Pipeline{
		View:  View{Pan: geometry.NewPoint2D(10, 20), Zoom: 2},
		Image: Image{Position: geometry.NewPoint2D(-50, 5), Scale: 0.5},
	}
	assert.Equal(t, geometry.NewPoint2D(210, 420), p.ToViewport(geometry.NewPoint2D(100, 200)))
	assert.Equal(t, geometry.NewPoint2D(0, 55), p.ToCanvasFromImage(geometry.NewPoint2D(100, 100)))
	assert.Equal(t, geometry.NewPoint2D(300, 190), p.ToImagePixel(geometry.NewPoint2D(100, 100)))
}

func TestImageToViewportMatchesChain(t *testing.T) {
	for _, p := range samplePipelines {
		m := p.ImageToViewport()
		for _, pt := range samplePoints {
			assertPointNear(t, p.ToViewport(p.ToCanvasFromImage(pt)), m.Apply(pt))
		}
	}
}

func TestCanvasDeltaIndependentOfPan(t *testing.T) {
	from := geometry.NewPoint2D(100, 100)
	to := geometry.NewPoint2D(160, 70)
	for _, zoom := range []float64{0.25, 1, 3} {
		p := New()
		p.View.Zoom = zoom
		p.View.Pan = geometry.NewPoint2D(33, -12)
		d := p.CanvasDelta(from, to)
		assertPointNear(t, geometry.NewPoint2D(60/zoom, -30/zoom), d)
	}
}

func TestZoomClamped(t *testing.T) {
	v := DefaultView()
	for i := 0; i < 100; i++ {
		v = v.ZoomBy(ZoomStep)
	}
	assert.Equal(t, MaxZoom, v.Zoom)
	for i := 0; i < 200; i++ {
		v = v.ZoomBy(1 / ZoomStep)
	}
	assert.Equal(t, MinZoom, v.Zoom)
}

func TestImageRectUsesNativeSize(t *testing.T) {
	native := geometry.NewSize(4000, 3000)
	im := DefaultImage()
	for i := 0; i < 50; i++ {
		im = im.ScaleBy(1.07)
	}
	for i := 0; i < 50; i++ {
		im = im.ScaleBy(1 / 1.07)
	}
	r := im.Rect(native)
	assert.InDelta(t, 4000, r.Width, 1e-6)
	assert.InDelta(t, 3000, r.Height, 1e-6)
}

func TestMoveBy(t *testing.T) {
	im := DefaultImage().MoveBy(-1, 0).MoveBy(0, 1)
	assert.Equal(t, geometry.NewPoint2D(-1, 1), im.Position)
	assert.Equal(t, 1.0, im.Scale)
}

func TestToImagePixelZeroScale(t *testing.T) {
	p := Pipeline{View: DefaultView(), Image: Image{Scale: 0}}
	px := p.ToImagePixel(geometry.NewPoint2D(10, 10))
	assert.True(t, math.IsNaN(px.X))
	assert.True(t, math.IsNaN(px.Y))
}
