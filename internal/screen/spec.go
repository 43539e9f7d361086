// Package screen describes physical display screens and derives their
// physical dimensions from diagonal size and aspect ratio.
package screen

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FallbackDiagonalCM is substituted when a monitor does not report its
// physical size (a common 21.5" panel).
const FallbackDiagonalCM = 54.6

var (
	// ErrInvalidResolution implies a non-positive pixel width or height.
	ErrInvalidResolution = errors.New("resolution must be positive")

	// ErrInvalidDiagonal implies a non-positive or non-finite diagonal.
	ErrInvalidDiagonal = errors.New("diagonal must be a positive number of centimeters")

	// ErrInvalidAspect implies an aspect ratio with a zero or negative component.
	ErrInvalidAspect = errors.New("aspect ratio components must be positive")
)

// Resolution is a native pixel resolution.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// AspectRatio is a width:height ratio such as 16:9.
type AspectRatio struct {
	W int `json:"w"`
	H int `json:"h"`
}

func (a AspectRatio) String() string {
	return fmt.Sprintf("%d:%d", a.W, a.H)
}

// Float returns W/H. The caller guarantees H != 0.
func (a AspectRatio) Float() float64 {
	return float64(a.W) / float64(a.H)
}

// CommonAspectRatios are the presets offered by the configuration dialog.
var CommonAspectRatios = []AspectRatio{
	{16, 9}, {16, 10}, {4, 3}, {21, 9}, {5, 4}, {32, 9}, {1, 1}, {9, 16}, {3, 2},
}

// Spec describes one physical screen. A Spec is treated as immutable once
// it has passed Validate.
type Spec struct {
	Resolution Resolution  `json:"resolution"`
	DiagonalCM float64     `json:"diagonal_cm"`
	Aspect     AspectRatio `json:"aspect_ratio"`
}

// Validate checks every field of the spec.
func (s Spec) Validate() error {
	if s.Resolution.Width <= 0 || s.Resolution.Height <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidResolution, s.Resolution)
	}
	if s.DiagonalCM <= 0 || math.IsNaN(s.DiagonalCM) || math.IsInf(s.DiagonalCM, 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidDiagonal, s.DiagonalCM)
	}
	if s.Aspect.W <= 0 || s.Aspect.H <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidAspect, s.Aspect)
	}
	return nil
}

func (s Spec) String() string {
	return fmt.Sprintf("%s @ %.1fcm (%s)", s.Resolution, s.DiagonalCM, s.Aspect)
}

// ValidateAll validates a list of specs, reporting the 1-based index of the
// first invalid one.
func ValidateAll(specs []Spec) error {
	for i, s := range specs {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("screen %d: %w", i+1, err)
		}
	}
	return nil
}

// ParseAspectRatio parses "W:H".
func ParseAspectRatio(s string) (AspectRatio, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return AspectRatio{}, fmt.Errorf("%w: %q is not W:H", ErrInvalidAspect, s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return AspectRatio{}, fmt.Errorf("%w: %q", ErrInvalidAspect, s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return AspectRatio{}, fmt.Errorf("%w: %q", ErrInvalidAspect, s)
	}
	if w <= 0 || h <= 0 {
		return AspectRatio{}, fmt.Errorf("%w: %q", ErrInvalidAspect, s)
	}
	return AspectRatio{W: w, H: h}, nil
}

// ReduceAspectRatio reduces a pixel resolution to its simplest ratio, e.g.
// 1920x1080 -> 16:9.
func ReduceAspectRatio(width, height int) AspectRatio {
	g := gcd(width, height)
	if g == 0 {
		return AspectRatio{}
	}
	return AspectRatio{W: width / g, H: height / g}
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// DiagonalFromMM converts a reported physical size in millimeters to a
// diagonal in centimeters. Missing dimensions yield FallbackDiagonalCM.
func DiagonalFromMM(widthMM, heightMM int) float64 {
	if widthMM <= 0 || heightMM <= 0 {
		return FallbackDiagonalCM
	}
	return math.Hypot(float64(widthMM), float64(heightMM)) / 10
}

// ParseSpec parses the compact command-line form "WxH@DIAG[:RW:RH]", for
// example "1920x1080@60:16:9". Without an explicit ratio the resolution is
// reduced by its greatest common divisor.
func ParseSpec(s string) (Spec, error) {
	res, rest, ok := strings.Cut(strings.TrimSpace(s), "@")
	if !ok {
		return Spec{}, fmt.Errorf("screen %q: expected WxH@DIAG[:RW:RH]", s)
	}

	ws, hs, ok := strings.Cut(strings.ToLower(res), "x")
	if !ok {
		return Spec{}, fmt.Errorf("screen %q: %w", s, ErrInvalidResolution)
	}
	w, errW := strconv.Atoi(ws)
	h, errH := strconv.Atoi(hs)
	if errW != nil || errH != nil {
		return Spec{}, fmt.Errorf("screen %q: %w", s, ErrInvalidResolution)
	}

	diagStr, ratioStr, hasRatio := strings.Cut(rest, ":")
	diag, err := strconv.ParseFloat(strings.TrimSuffix(diagStr, "cm"), 64)
	if err != nil {
		return Spec{}, fmt.Errorf("screen %q: %w", s, ErrInvalidDiagonal)
	}

	spec := Spec{
		Resolution: Resolution{Width: w, Height: h},
		DiagonalCM: diag,
		Aspect:     ReduceAspectRatio(w, h),
	}
	if hasRatio {
		ratio, err := ParseAspectRatio(ratioStr)
		if err != nil {
			return Spec{}, fmt.Errorf("screen %q: %w", s, err)
		}
		spec.Aspect = ratio
	}

	if err := spec.Validate(); err != nil {
		return Spec{}, fmt.Errorf("screen %q: %w", s, err)
	}
	return spec, nil
}
