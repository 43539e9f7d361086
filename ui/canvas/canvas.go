// Package canvas provides the screen preview widget with pan, zoom, and drag.
package canvas

import (
	"image"

	"screen-slicer/internal/app"
	"screen-slicer/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// PreviewCanvas renders the session: screens, the overlay image, and the
// grey area around them. Wheel zooms, dragging moves a screen (before an
// image is loaded) or the image.
type PreviewCanvas struct {
	widget.BaseWidget

	session *app.Session
	raster  *fynecanvas.Raster

	// Interaction state
	dragging     bool
	activeScreen int

	onResize func(size fyne.Size)
}

// NewPreviewCanvas creates a preview bound to session and refreshes on every
// session change.
func NewPreviewCanvas(session *app.Session) *PreviewCanvas {
	pc := &PreviewCanvas{
		session:      session,
		activeScreen: -1,
	}
	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.raster.ScaleMode = fynecanvas.ImageScalePixels
	pc.raster.SetMinSize(fyne.NewSize(400, 300))

	for _, ev := range []app.EventType{
		app.EventConfigured,
		app.EventArrangementChanged,
		app.EventImageLoaded,
		app.EventTransformChanged,
		app.EventViewChanged,
	} {
		session.On(ev, func(interface{}) { pc.Refresh() })
	}

	pc.ExtendBaseWidget(pc)
	return pc
}

// ViewportSize returns the visible size in viewport units, the space screens
// are arranged in.
func (pc *PreviewCanvas) ViewportSize() geometry.Size {
	s := pc.Size()
	if s.Width <= 0 || s.Height <= 0 {
		s = pc.raster.MinSize()
	}
	return geometry.NewSize(float64(s.Width), float64(s.Height))
}

// OnResize sets a callback for size changes. The size is in viewport units.
func (pc *PreviewCanvas) OnResize(callback func(size fyne.Size)) {
	pc.onResize = callback
}

// Refresh redraws the preview.
func (pc *PreviewCanvas) Refresh() {
	pc.raster.Refresh()
}

// Resize implements fyne.CanvasObject.
func (pc *PreviewCanvas) Resize(size fyne.Size) {
	old := pc.Size()
	pc.BaseWidget.Resize(size)
	if size != old && pc.onResize != nil {
		pc.onResize(size)
	}
}

// Dragged implements fyne.Draggable. The first event of a gesture starts
// the drag at the pointer's original position.
func (pc *PreviewCanvas) Dragged(ev *fyne.DragEvent) {
	pos := geometry.NewPoint2D(float64(ev.Position.X), float64(ev.Position.Y))
	if !pc.dragging {
		start := pos.Sub(geometry.NewPoint2D(float64(ev.Dragged.DX), float64(ev.Dragged.DY)))
		pc.dragging = true
		pc.activeScreen = -1
		if pc.session.BeginDrag(start) == app.DragScreen {
			if i, ok := pc.session.Arrangement().HitTest(pc.session.Pipeline().ToCanvas(start)); ok {
				pc.activeScreen = i
			}
		}
	}
	pc.session.DragTo(pos)
}

// DragEnd implements fyne.Draggable.
func (pc *PreviewCanvas) DragEnd() {
	pc.dragging = false
	pc.activeScreen = -1
	pc.session.EndDrag()
	pc.Refresh()
}

// Scrolled implements fyne.Scrollable: the wheel zooms.
func (pc *PreviewCanvas) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		pc.session.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		pc.session.ZoomOut()
	}
}

// draw is the raster drawing function. w and h are device pixels.
func (pc *PreviewCanvas) draw(w, h int) image.Image {
	pixelScale := 1.0
	if size := pc.Size(); size.Width > 0 {
		pixelScale = float64(w) / float64(size.Width)
	}
	return renderFrame(pc.session.Snapshot(), w, h, pixelScale, pc.activeScreen)
}

// CreateRenderer implements fyne.Widget.
func (pc *PreviewCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(pc.raster)
}
