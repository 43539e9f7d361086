package image

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"screen-slicer/pkg/geometry"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	return imaging.New(w, h, c)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Pano.PNG")
	require.NoError(t, imaging.Save(solid(64, 32, color.NRGBA{R: 10, G: 20, B: 30, A: 255}), path))

	src, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, src.Width())
	assert.Equal(t, 32, src.Height())
	assert.Equal(t, geometry.NewSize(64, 32), src.Size())
	assert.Equal(t, "png", src.Format)
	assert.Equal(t, "Pano.PNG", src.Name())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.Error(t, err)

	_, err = Load("notes.txt")
	assert.ErrorContains(t, err, "unsupported")
}

func TestSupportedFormats(t *testing.T) {
	for _, p := range []string{"a.jpg", "b.JPEG", "c.png", "d.bmp", "e.tif", "f.webp"} {
		assert.True(t, IsSupportedFormat(p), p)
	}
	assert.False(t, IsSupportedFormat("g.svg"))
	assert.Contains(t, FileFilter(), "*.webp")

	var nilSrc *Source
	assert.Equal(t, 0, nilSrc.Width())
	assert.Equal(t, "untitled", nilSrc.Name())
}

func TestNewPreviewDownscales(t *testing.T) {
	p := NewPreview(solid(4000, 1000, color.NRGBA{R: 255, A: 255}), 1000)
	assert.Equal(t, 1000, p.Color.Bounds().Dx())
	assert.Equal(t, 250, p.Color.Bounds().Dy())
	assert.InDelta(t, 0.25, p.Scale, 1e-12)
	assert.Equal(t, p.Color.Bounds(), p.Gray.Bounds())

	small := NewPreview(solid(100, 50, color.NRGBA{A: 255}), 1000)
	assert.Equal(t, 1.0, small.Scale)
}

func TestRenderScene(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	s := NewScene()
	s.Preview = NewPreview(solid(200, 200, red), 100)
	s.ImageToViewport = geometry.ScaleThenTranslate(0.5, geometry.NewPoint2D(10, 10))
	s.Screens = []geometry.Rect{geometry.NewRect(10, 10, 40, 40)}

	out := s.Render(200, 200)
	require.Equal(t, image.Rect(0, 0, 200, 200), out.Bounds())

	// Inside the screen the colour image is shown.
	c := out.RGBAAt(30, 30)
	assert.InDelta(t, 255, int(c.R), 2)
	assert.InDelta(t, 0, int(c.G), 2)
	assert.InDelta(t, 0, int(c.B), 2)

	// Outside the screen but on the image: grey at half opacity over white.
	g := out.RGBAAt(90, 90)
	assert.InDelta(t, int(g.R), int(g.G), 1)
	assert.Greater(t, int(g.R), 100)
	assert.Less(t, int(g.R), 250)

	// Off the image the background remains.
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, out.RGBAAt(150, 150))
}

func TestRenderWithoutImage(t *testing.T) {
	out := NewScene().Render(20, 10)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, out.RGBAAt(5, 5))
}
