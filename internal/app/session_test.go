package app

import (
	"errors"
	"image/color"
	"path/filepath"
	"testing"

	"screen-slicer/internal/export"
	"screen-slicer/internal/layout"
	ssimage "screen-slicer/internal/image"
	"screen-slicer/internal/monitor"
	"screen-slicer/internal/screen"
	"screen-slicer/internal/transform"
	"screen-slicer/pkg/geometry"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var viewport = geometry.NewSize(1800, 900)

func twoScreens() []screen.Spec {
	s := screen.Spec{
		Resolution: screen.Resolution{Width: 1920, Height: 1080},
		DiagonalCM: 60,
		Aspect:     screen.AspectRatio{W: 16, H: 9},
	}
	return []screen.Spec{s, s}
}

func configured(t *testing.T) *Session {
	t.Helper()
	s := NewSession()
	require.NoError(t, s.Configure(twoScreens(), viewport))
	return s
}

func withImage(t *testing.T, w, h int) *Session {
	t.Helper()
	s := configured(t)
	require.NoError(t, s.SetImage(ssimage.FromImage(imaging.New(w, h, color.NRGBA{R: 200, G: 100, B: 50, A: 255}))))
	return s
}

func TestConfigureRejectsInvalidInput(t *testing.T) {
	s := configured(t)
	before := s.Arrangement()

	bad := twoScreens()
	bad[1].DiagonalCM = 0
	err := s.Configure(bad, viewport)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.ErrorIs(t, err, screen.ErrInvalidDiagonal)
	var ce *ConfigurationError
	assert.ErrorAs(t, err, &ce)

	assert.ErrorIs(t, s.Configure(nil, viewport), ErrConfiguration)
	assert.ErrorIs(t, s.Configure(twoScreens(), geometry.NewSize(30, 30)), ErrConfiguration)

	assert.Equal(t, before, s.Arrangement())
}

func TestLoadImageRequiresScreens(t *testing.T) {
	s := NewSession()
	assert.ErrorIs(t, s.LoadImage("whatever.png"), ErrNoConfiguration)
	assert.ErrorIs(t, s.SetImage(ssimage.FromImage(imaging.New(4, 4, color.White))), ErrNoConfiguration)
	assert.False(t, s.HasImage())
}

func TestLoadImageFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wall.png")
	require.NoError(t, imaging.Save(imaging.New(320, 90, color.White), path))

	s := configured(t)
	require.NoError(t, s.LoadImage(path))
	assert.True(t, s.HasImage())
	sn := s.Snapshot()
	assert.Equal(t, "wall.png", sn.ImageName)
	assert.Equal(t, geometry.NewSize(320, 90), sn.Native)

	assert.Error(t, s.LoadImage(filepath.Join(t.TempDir(), "gone.png")))
	assert.Equal(t, "wall.png", s.Snapshot().ImageName)
}

func TestImageOperationsNeedImage(t *testing.T) {
	s := configured(t)
	assert.ErrorIs(t, s.MoveImage(1, 0), ErrNoImage)
	assert.ErrorIs(t, s.ScaleUp(), ErrNoImage)
	assert.ErrorIs(t, s.ScaleDown(), ErrNoImage)
	assert.ErrorIs(t, s.Fit(), ErrNoImage)
	_, err := s.Export(export.NewExporter(t.TempDir()))
	assert.ErrorIs(t, err, ErrNoImage)

	_, err = NewSession().Export(export.NewExporter(t.TempDir()))
	assert.ErrorIs(t, err, ErrNoConfiguration)
}

func TestImageResetOnLoadAndReconfigure(t *testing.T) {
	s := withImage(t, 400, 300)
	require.NoError(t, s.MoveImage(5, -3))
	require.NoError(t, s.ScaleUp())
	assert.NotEqual(t, transform.DefaultImage(), s.Pipeline().Image)

	require.NoError(t, s.SetImage(ssimage.FromImage(imaging.New(10, 10, color.Black))))
	assert.Equal(t, transform.DefaultImage(), s.Pipeline().Image)

	require.NoError(t, s.MoveImage(5, -3))
	require.NoError(t, s.Configure(twoScreens(), viewport))
	assert.True(t, s.HasImage())
	assert.Equal(t, transform.DefaultImage(), s.Pipeline().Image)
}

func TestFitCoversAllScreens(t *testing.T) {
	s := withImage(t, 1000, 1000)
	assert.Equal(t, []bool{false, false}, s.Coverage())

	require.NoError(t, s.Fit())
	assert.Equal(t, []bool{true, true}, s.Coverage())

	ratio := s.GreyAreaRatio()
	assert.Greater(t, ratio, 0.0, "square image over a wide row leaves grey area")

	require.NoError(t, s.ScaleDown())
	assert.Less(t, s.Pipeline().Image.Scale, 1.0)
}

func TestSetScale(t *testing.T) {
	s := withImage(t, 100, 100)
	require.NoError(t, s.SetScale(2.5))
	assert.Equal(t, 2.5, s.Pipeline().Image.Scale)

	assert.ErrorIs(t, s.SetScale(0), ErrInvalidScale)
	assert.ErrorIs(t, s.SetScale(-1), ErrInvalidScale)
	assert.Equal(t, 2.5, s.Pipeline().Image.Scale)
}

func TestMoveImage(t *testing.T) {
	s := withImage(t, 100, 100)
	require.NoError(t, s.MoveImage(-1, 0))
	require.NoError(t, s.MoveImage(0, 1))
	assert.Equal(t, geometry.NewPoint2D(-1, 1), s.Pipeline().Image.Position)
}

func TestRelayout(t *testing.T) {
	changed, err := NewSession().Relayout(viewport)
	require.NoError(t, err)
	assert.False(t, changed, "nothing configured")

	s := configured(t)
	before := s.Arrangement()
	var events int
	s.On(EventArrangementChanged, func(interface{}) { events++ })

	changed, err = s.Relayout(viewport)
	require.NoError(t, err)
	assert.False(t, changed, "same viewport")

	changed, err = s.Relayout(geometry.NewSize(900, 450))
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, 1, events)
	after := s.Arrangement()
	assert.Less(t, after[0].Size.Width, before[0].Size.Width)
	bbox, ok := after.BoundingBox()
	require.True(t, ok)
	assert.LessOrEqual(t, bbox.X+bbox.Width, 900-layout.Padding+1e-9)

	_, err = s.Relayout(geometry.NewSize(30, 30))
	assert.ErrorIs(t, err, layout.ErrViewportTooSmall)
	assert.Equal(t, after, s.Arrangement())

	require.NoError(t, s.SetImage(ssimage.FromImage(imaging.New(8, 8, color.White))))
	changed, err = s.Relayout(viewport)
	require.NoError(t, err)
	assert.False(t, changed, "frozen once an image is loaded")
	assert.Equal(t, after, s.Arrangement())
}

func TestDragScreenBeforeImage(t *testing.T) {
	s := configured(t)
	e := s.Arrangement()[1]
	start := e.Rect().Center()

	require.Equal(t, DragScreen, s.BeginDrag(start))
	s.DragTo(start.Add(geometry.NewPoint2D(-30, 15)))
	s.EndDrag()

	moved := s.Arrangement()[1]
	assert.Equal(t, e.Pos.Add(geometry.NewPoint2D(-30, 15)), moved.Pos)
	assert.Equal(t, e.Size, moved.Size)

	assert.Equal(t, DragNone, s.BeginDrag(geometry.NewPoint2D(-500, -500)))
}

func TestDragImageIsZoomIndependent(t *testing.T) {
	s := withImage(t, 400, 300)
	s.ZoomIn()
	s.ZoomIn()
	zoom := s.Pipeline().View.Zoom

	p := s.Pipeline().ToViewport(geometry.NewPoint2D(10, 10))
	require.Equal(t, DragImage, s.BeginDrag(p))
	s.DragTo(p.Add(geometry.NewPoint2D(48, 0)))
	s.EndDrag()

	assert.InDelta(t, 48/zoom, s.Pipeline().Image.Position.X, 1e-9)
	assert.InDelta(t, 0, s.Pipeline().Image.Position.Y, 1e-9)

	// Arrangement is frozen once an image is loaded.
	before := s.Arrangement()
	out := s.Pipeline().ToViewport(geometry.NewPoint2D(1000, 800))
	assert.Equal(t, DragNone, s.BeginDrag(out))
	s.DragTo(out.Add(geometry.NewPoint2D(10, 10)))
	assert.Equal(t, before, s.Arrangement())
}

func TestViewOperations(t *testing.T) {
	s := NewSession()
	s.PanLeft()
	s.PanUp()
	s.PanUp()
	s.PanRight()
	s.PanRight()
	s.PanDown()
	assert.Equal(t, geometry.NewPoint2D(-20, 20), s.Pipeline().View.Pan)

	s.ZoomIn()
	assert.InDelta(t, 1.2, s.Pipeline().View.Zoom, 1e-12)
	s.ZoomOut()
	assert.InDelta(t, 1.0, s.Pipeline().View.Zoom, 1e-12)

	s.ResetView()
	assert.Equal(t, transform.DefaultView(), s.Pipeline().View)
}

func TestExport(t *testing.T) {
	s := withImage(t, 2000, 700)
	require.NoError(t, s.Fit())

	var got []export.Result
	s.On(EventExported, func(data interface{}) { got = data.([]export.Result) })

	dir := t.TempDir()
	results, err := s.Export(export.NewExporter(dir))
	require.NoError(t, err)
	require.Len(t, results, 2)
	for i, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, i+1, r.Screen)
		assert.FileExists(t, r.Path)
	}
	assert.Equal(t, results, got)
}

func TestExportReportsUncoveredScreen(t *testing.T) {
	s := withImage(t, 300, 300)
	results, err := s.Export(export.NewExporter(t.TempDir()))
	require.NoError(t, err)
	require.Len(t, results, 2)

	// At scale 1 from the origin the first screen overlaps the image and the
	// second lies entirely to its right.
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, ErrOutOfBounds)
}

func TestInherit(t *testing.T) {
	s := NewSession()
	src := monitor.SourceFunc(func() ([]monitor.Monitor, error) {
		return []monitor.Monitor{
			{Name: "B", X: 1920, Width: 1920, Height: 1200, WidthMM: 518, HeightMM: 324},
			{Name: "A", X: 0, Width: 1920, Height: 1080},
		}, nil
	})
	mons, err := s.Inherit(src, viewport)
	require.NoError(t, err)
	require.Len(t, mons, 2)
	assert.Equal(t, "A", mons[0].Name)

	specs := s.Specs()
	require.Len(t, specs, 2)
	assert.Equal(t, screen.FallbackDiagonalCM, specs[0].DiagonalCM)
	assert.Equal(t, screen.AspectRatio{W: 8, H: 5}, specs[1].Aspect)
	assert.True(t, s.Configured())

	_, err = NewSession().Inherit(nil, viewport)
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)

	boom := monitor.SourceFunc(func() ([]monitor.Monitor, error) { return nil, ErrMissingCapability })
	_, err = NewSession().Inherit(boom, viewport)
	assert.True(t, errors.Is(err, ErrMissingCapability))
}

func TestEvents(t *testing.T) {
	s := NewSession()
	var seen []EventType
	for _, ev := range []EventType{EventConfigured, EventImageLoaded, EventTransformChanged, EventViewChanged} {
		s.On(ev, func(interface{}) { seen = append(seen, ev) })
	}

	require.NoError(t, s.Configure(twoScreens(), viewport))
	require.NoError(t, s.SetImage(ssimage.FromImage(imaging.New(8, 8, color.White))))
	require.NoError(t, s.Fit())
	s.ZoomIn()

	assert.Equal(t, []EventType{EventConfigured, EventImageLoaded, EventTransformChanged, EventViewChanged}, seen)
}

func TestSnapshotScene(t *testing.T) {
	s := withImage(t, 640, 360)
	s.ZoomIn()
	sn := s.Snapshot()
	require.True(t, sn.HasImage())
	assert.Equal(t, geometry.NewSize(640, 360), sn.Native)
	assert.Len(t, sn.Covered, 2)

	sc := sn.Scene()
	require.Len(t, sc.Screens, 2)
	want := sn.Arrangement[0].Rect()
	assert.InDelta(t, want.X*1.2, sc.Screens[0].X, 1e-9)
	assert.InDelta(t, want.Width*1.2, sc.Screens[0].Width, 1e-9)

	out := sc.Render(300, 200)
	assert.Equal(t, 300, out.Bounds().Dx())
}
