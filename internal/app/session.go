// Package app holds the editing session: configured screens, their
// arrangement, the loaded image, and the transforms between them.
package app

import (
	"fmt"
	"log"
	"sync"

	"screen-slicer/internal/export"
	"screen-slicer/internal/fit"
	ssimage "screen-slicer/internal/image"
	"screen-slicer/internal/layout"
	"screen-slicer/internal/monitor"
	"screen-slicer/internal/screen"
	"screen-slicer/internal/transform"
	"screen-slicer/pkg/geometry"
)

// EventType identifies different session events.
type EventType int

const (
	EventConfigured EventType = iota
	EventArrangementChanged
	EventImageLoaded
	EventTransformChanged
	EventViewChanged
	EventExported
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// DragTarget is what a drag gesture moves.
type DragTarget int

const (
	DragNone DragTarget = iota
	DragImage
	DragScreen
)

type dragState struct {
	target DragTarget
	screen int
	last   geometry.Point2D // Viewport position of the previous event
}

// Session is the single mutable state shared by the UI and the CLI.
type Session struct {
	mu sync.RWMutex

	specs       []screen.Spec
	sizes       []screen.PhysicalSize
	viewport    geometry.Size
	arrangement layout.Arrangement

	source   *ssimage.Source
	preview  *ssimage.Preview
	pipeline transform.Pipeline

	drag dragState

	listeners map[EventType][]EventListener
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		pipeline:  transform.New(),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Configure replaces the screen configuration and lays the screens out in
// viewport. A loaded image is kept but its transform is reset.
func (s *Session) Configure(specs []screen.Spec, viewport geometry.Size) error {
	if len(specs) == 0 {
		return &ConfigurationError{Err: fmt.Errorf("at least one screen is required")}
	}
	if err := screen.ValidateAll(specs); err != nil {
		return &ConfigurationError{Err: err}
	}
	sizes := screen.PhysicalSizes(specs)
	arr, err := layout.Arrange(sizes, viewport)
	if err != nil {
		return &ConfigurationError{Err: err}
	}

	s.mu.Lock()
	s.specs = append([]screen.Spec(nil), specs...)
	s.sizes = sizes
	s.viewport = viewport
	s.arrangement = arr
	s.pipeline.Image = transform.DefaultImage()
	s.drag = dragState{}
	s.mu.Unlock()

	log.Printf("Configured %d screens in %.0fx%.0f viewport", len(specs), viewport.Width, viewport.Height)
	s.Emit(EventConfigured, arr.Clone())
	return nil
}

// Relayout re-arranges the configured screens for a new viewport size.
// Once an image is loaded the arrangement is frozen, because moving the
// screens would shift them against the image; the call is then a no-op and
// returns false. Manually dragged screen positions are discarded.
func (s *Session) Relayout(viewport geometry.Size) (bool, error) {
	s.mu.Lock()
	if len(s.sizes) == 0 || s.source != nil || viewport == s.viewport {
		s.mu.Unlock()
		return false, nil
	}
	arr, err := layout.Arrange(s.sizes, viewport)
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.viewport = viewport
	s.arrangement = arr
	s.drag = dragState{}
	s.mu.Unlock()

	s.Emit(EventArrangementChanged, arr.Clone())
	return true, nil
}

// Inherit configures the session from the monitors reported by src.
func (s *Session) Inherit(src monitor.Source, viewport geometry.Size) ([]monitor.Monitor, error) {
	res := monitor.Detect(src)
	if !res.Available() {
		return nil, fmt.Errorf("failed to inherit screens: %w", res.Reason)
	}
	for _, m := range res.Monitors {
		log.Printf("Detected monitor %s", m)
	}
	if err := s.Configure(res.Specs, viewport); err != nil {
		return nil, err
	}
	return res.Monitors, nil
}

// LoadImage decodes the image at path and makes it the session image.
// Screens must be configured first.
func (s *Session) LoadImage(path string) error {
	if !s.Configured() {
		return ErrNoConfiguration
	}
	src, err := ssimage.Load(path)
	if err != nil {
		return err
	}
	return s.SetImage(src)
}

// SetImage installs an already decoded image and resets its transform.
func (s *Session) SetImage(src *ssimage.Source) error {
	if !s.Configured() {
		return ErrNoConfiguration
	}
	if src == nil || src.Image == nil {
		return ErrNoImage
	}
	preview := ssimage.NewPreview(src.Image, ssimage.DefaultPreviewSize)

	s.mu.Lock()
	s.source = src
	s.preview = preview
	s.pipeline.Image = transform.DefaultImage()
	s.drag = dragState{}
	s.mu.Unlock()

	log.Printf("Loaded image %s (%dx%d)", src.Name(), src.Width(), src.Height())
	s.Emit(EventImageLoaded, src)
	return nil
}

// Configured reports whether screens are set up.
func (s *Session) Configured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.arrangement) > 0
}

// HasImage reports whether an image is loaded.
func (s *Session) HasImage() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source != nil
}

// Specs returns a copy of the configured screen specs.
func (s *Session) Specs() []screen.Spec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]screen.Spec(nil), s.specs...)
}

// Arrangement returns a copy of the current arrangement.
func (s *Session) Arrangement() layout.Arrangement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.arrangement.Clone()
}

// Pipeline returns the current transforms.
func (s *Session) Pipeline() transform.Pipeline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pipeline
}

// BeginDrag starts a drag at viewport point p. With an image loaded only
// the image can be dragged, and only from inside it. Without one, the
// topmost screen under p is dragged.
func (s *Session) BeginDrag(p geometry.Point2D) DragTarget {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.pipeline.ToCanvas(p)
	s.drag = dragState{last: p}
	if s.source != nil {
		if s.pipeline.Image.Rect(s.source.Size()).Contains(c) {
			s.drag.target = DragImage
		}
		return s.drag.target
	}
	if i, ok := s.arrangement.HitTest(c); ok {
		s.drag.target = DragScreen
		s.drag.screen = i
	}
	return s.drag.target
}

// DragTo continues the active drag. The displacement is converted to canvas
// units so the content follows the pointer at any zoom.
func (s *Session) DragTo(p geometry.Point2D) {
	s.mu.Lock()
	d := s.pipeline.CanvasDelta(s.drag.last, p)
	s.drag.last = p
	target := s.drag.target
	switch target {
	case DragImage:
		s.pipeline.Image = s.pipeline.Image.MoveBy(d.X, d.Y)
	case DragScreen:
		e := s.arrangement[s.drag.screen]
		s.arrangement = s.arrangement.Move(s.drag.screen, e.Pos.Add(d))
	}
	img := s.pipeline.Image
	arr := s.arrangement.Clone()
	s.mu.Unlock()

	switch target {
	case DragImage:
		s.Emit(EventTransformChanged, img)
	case DragScreen:
		s.Emit(EventArrangementChanged, arr)
	}
}

// EndDrag finishes the active drag.
func (s *Session) EndDrag() {
	s.mu.Lock()
	s.drag = dragState{}
	s.mu.Unlock()
}

func (s *Session) updateView(f func(transform.View) transform.View) {
	s.mu.Lock()
	s.pipeline.View = f(s.pipeline.View)
	v := s.pipeline.View
	s.mu.Unlock()
	s.Emit(EventViewChanged, v)
}

// ZoomIn magnifies the preview by one step.
func (s *Session) ZoomIn() {
	s.updateView(func(v transform.View) transform.View { return v.ZoomBy(transform.ZoomStep) })
}

// ZoomOut shrinks the preview by one step.
func (s *Session) ZoomOut() {
	s.updateView(func(v transform.View) transform.View { return v.ZoomBy(1 / transform.ZoomStep) })
}

// PanLeft, PanRight, PanUp and PanDown shift the preview offset by one step.
// PanLeft moves the content right, revealing what lies to the left.
func (s *Session) PanLeft() {
	s.updateView(func(v transform.View) transform.View { return v.PanBy(transform.PanStep, 0) })
}

func (s *Session) PanRight() {
	s.updateView(func(v transform.View) transform.View { return v.PanBy(-transform.PanStep, 0) })
}

func (s *Session) PanUp() {
	s.updateView(func(v transform.View) transform.View { return v.PanBy(0, transform.PanStep) })
}

func (s *Session) PanDown() {
	s.updateView(func(v transform.View) transform.View { return v.PanBy(0, -transform.PanStep) })
}

// ResetView restores zoom 1 and no pan.
func (s *Session) ResetView() {
	s.updateView(func(transform.View) transform.View { return transform.DefaultView() })
}

func (s *Session) updateImage(f func(img transform.Image, native geometry.Size, bbox geometry.Rect) (transform.Image, error)) error {
	s.mu.Lock()
	if s.source == nil {
		s.mu.Unlock()
		return ErrNoImage
	}
	bbox, ok := s.arrangement.BoundingBox()
	if !ok {
		s.mu.Unlock()
		return ErrNoConfiguration
	}
	img, err := f(s.pipeline.Image, s.source.Size(), bbox)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.pipeline.Image = img
	s.mu.Unlock()

	s.Emit(EventTransformChanged, img)
	return nil
}

// MoveImage nudges the image by (dx, dy) canvas units.
func (s *Session) MoveImage(dx, dy float64) error {
	return s.updateImage(func(img transform.Image, _ geometry.Size, _ geometry.Rect) (transform.Image, error) {
		return img.MoveBy(dx, dy), nil
	})
}

// ScaleUp grows the image in proportion to its uncovered area.
func (s *Session) ScaleUp() error {
	return s.scale(fit.Up)
}

// ScaleDown shrinks the image in proportion to its uncovered area.
func (s *Session) ScaleDown() error {
	return s.scale(fit.Down)
}

func (s *Session) scale(dir fit.Direction) error {
	err := s.updateImage(func(img transform.Image, native geometry.Size, bbox geometry.Rect) (transform.Image, error) {
		return fit.Nudge(img, native, bbox, dir)
	})
	if err == nil {
		log.Printf("Scaled image %s to %.4f", dir, s.Pipeline().Image.Scale)
	}
	return err
}

// SetScale sets the image scale directly, keeping its position.
func (s *Session) SetScale(scale float64) error {
	return s.updateImage(func(img transform.Image, _ geometry.Size, _ geometry.Rect) (transform.Image, error) {
		if !(scale > 0) {
			return img, fmt.Errorf("%w: %g", ErrInvalidScale, scale)
		}
		img.Scale = scale
		return img, nil
	})
}

// Fit cover-fits the image over the bounding box of all screens.
func (s *Session) Fit() error {
	err := s.updateImage(func(_ transform.Image, native geometry.Size, bbox geometry.Rect) (transform.Image, error) {
		return fit.CoverFit(native, bbox), nil
	})
	if err == nil {
		img := s.Pipeline().Image
		log.Printf("Fitted image: scale %.4f at (%.1f, %.1f)", img.Scale, img.Position.X, img.Position.Y)
	}
	return err
}

// GreyAreaRatio is the share of the image lying outside the screens'
// bounding box. 0 without an image or screens.
func (s *Session) GreyAreaRatio() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bbox, ok := s.arrangement.BoundingBox()
	if s.source == nil || !ok {
		return 0
	}
	return fit.GreyAreaRatio(s.pipeline.Image, s.source.Size(), bbox)
}

// coverageTolerance absorbs float error at edges produced by a cover fit.
const coverageTolerance = 1e-6

// Coverage reports, per screen, whether the image fully covers it.
func (s *Session) Coverage() []bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coverageLocked()
}

func (s *Session) coverageLocked() []bool {
	out := make([]bool, len(s.arrangement))
	if s.source == nil {
		return out
	}
	r := s.pipeline.Image.Rect(s.source.Size()).Expand(coverageTolerance)
	for i, e := range s.arrangement {
		out[i] = r.ContainsRect(e.Rect())
	}
	return out
}

// Export writes one crop per screen using x. The session is only read for
// the duration of the batch.
func (s *Session) Export(x *export.Exporter) ([]export.Result, error) {
	s.mu.RLock()
	if len(s.arrangement) == 0 {
		s.mu.RUnlock()
		return nil, ErrNoConfiguration
	}
	if s.source == nil {
		s.mu.RUnlock()
		return nil, ErrNoImage
	}
	src := s.source.Image
	arr := s.arrangement.Clone()
	img := s.pipeline.Image
	s.mu.RUnlock()

	results := x.Export(src, arr, img)
	for _, r := range results {
		if r.Err != nil {
			log.Printf("Export skipped: %v", r.Err)
			continue
		}
		log.Printf("Exported screen %d crop %s to %s", r.Screen, r.Crop, r.Path)
	}
	s.Emit(EventExported, results)
	return results, nil
}

// Snapshot is a consistent copy of everything a renderer needs.
type Snapshot struct {
	Specs       []screen.Spec
	Arrangement layout.Arrangement
	Pipeline    transform.Pipeline
	Preview     *ssimage.Preview
	Native      geometry.Size
	ImageName   string
	Covered     []bool
}

// HasImage reports whether the snapshot carries an image.
func (sn Snapshot) HasImage() bool { return sn.Preview != nil }

// Snapshot copies the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sn := Snapshot{
		Specs:       append([]screen.Spec(nil), s.specs...),
		Arrangement: s.arrangement.Clone(),
		Pipeline:    s.pipeline,
		Preview:     s.preview,
		Covered:     s.coverageLocked(),
	}
	if s.source != nil {
		sn.Native = s.source.Size()
		sn.ImageName = s.source.Name()
	}
	return sn
}

// Scene builds the preview composition for the snapshot in viewport
// coordinates.
func (sn Snapshot) Scene() *ssimage.Scene {
	sc := ssimage.NewScene()
	sc.Preview = sn.Preview
	sc.ImageToViewport = sn.Pipeline.ImageToViewport()
	view := sn.Pipeline.CanvasToViewport()
	for _, e := range sn.Arrangement {
		sc.Screens = append(sc.Screens, view.ApplyRect(e.Rect()))
	}
	return sc
}
