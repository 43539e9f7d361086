// Package monitor enumerates the displays attached to this machine so the
// screen layout can be inherited instead of typed in.
package monitor

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"screen-slicer/internal/screen"
)

var (
	// ErrUnsupportedPlatform is returned where no enumeration backend exists.
	ErrUnsupportedPlatform = errors.New("monitor enumeration is not supported on this platform")

	// ErrMissingCapability is returned when the platform backend exists but
	// cannot be used (no display server, missing extension, API failure).
	ErrMissingCapability = errors.New("monitor enumeration capability unavailable")

	// ErrNoMonitors is returned when enumeration succeeds but finds nothing.
	ErrNoMonitors = errors.New("no active monitors found")
)

// Monitor is one active display as reported by the OS.
type Monitor struct {
	Name     string `json:"name"`
	X        int    `json:"x"` // Desktop position of the top-left corner
	Y        int    `json:"y"`
	Width    int    `json:"width"` // Pixels
	Height   int    `json:"height"`
	WidthMM  int    `json:"width_mm"` // 0 when unknown
	HeightMM int    `json:"height_mm"`
	Primary  bool   `json:"primary"`
}

func (m Monitor) String() string {
	p := ""
	if m.Primary {
		p = " primary"
	}
	return fmt.Sprintf("%s %dx%d+%d+%d %dx%dmm%s", m.Name, m.Width, m.Height, m.X, m.Y, m.WidthMM, m.HeightMM, p)
}

// Source lists monitors. Implementations are platform specific; tests use
// fakes.
type Source interface {
	Monitors() ([]Monitor, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() ([]Monitor, error)

func (f SourceFunc) Monitors() ([]Monitor, error) { return f() }

// Result is either Available (Specs set) or Unavailable (Reason set).
type Result struct {
	Monitors []Monitor
	Specs    []screen.Spec
	Reason   error
}

// Available reports whether enumeration produced usable screens.
func (r Result) Available() bool {
	return r.Reason == nil && len(r.Specs) > 0
}

// Detect queries src and converts the monitors into screen specs ordered
// left to right across the desktop.
func Detect(src Source) Result {
	if src == nil {
		return Result{Reason: ErrUnsupportedPlatform}
	}
	mons, err := src.Monitors()
	if err != nil {
		return Result{Reason: err}
	}
	mons = slices.Clone(mons)
	mons = slices.DeleteFunc(mons, func(m Monitor) bool { return m.Width <= 0 || m.Height <= 0 })
	if len(mons) == 0 {
		return Result{Reason: ErrNoMonitors}
	}
	slices.SortStableFunc(mons, func(a, b Monitor) int {
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Y, b.Y)
	})
	return Result{Monitors: mons, Specs: ToSpecs(mons)}
}

// ToSpecs converts monitors to screen specs. Missing physical dimensions
// fall back to screen.FallbackDiagonalCM; the aspect ratio is the reduced
// pixel resolution.
func ToSpecs(mons []Monitor) []screen.Spec {
	specs := make([]screen.Spec, len(mons))
	for i, m := range mons {
		specs[i] = screen.Spec{
			Resolution: screen.Resolution{Width: m.Width, Height: m.Height},
			DiagonalCM: screen.DiagonalFromMM(m.WidthMM, m.HeightMM),
			Aspect:     screen.ReduceAspectRatio(m.Width, m.Height),
		}
	}
	return specs
}
