package screen

import "math"

// PhysicalSize is a screen's physical extent in centimeters.
type PhysicalSize struct {
	WidthCM  float64 `json:"width_cm"`
	HeightCM float64 `json:"height_cm"`
}

// Diagonal returns the diagonal length in centimeters.
func (p PhysicalSize) Diagonal() float64 {
	return math.Hypot(p.WidthCM, p.HeightCM)
}

// PhysicalSizeOf derives width and height from the diagonal and aspect
// ratio. The aspect ratio height must be non-zero; Validate enforces that.
func PhysicalSizeOf(s Spec) PhysicalSize {
	aspect := s.Aspect.Float()
	h := s.DiagonalCM / math.Sqrt(1+aspect*aspect)
	return PhysicalSize{WidthCM: aspect * h, HeightCM: h}
}

// PhysicalSizes maps PhysicalSizeOf over specs, preserving order.
func PhysicalSizes(specs []Spec) []PhysicalSize {
	sizes := make([]PhysicalSize, len(specs))
	for i, s := range specs {
		sizes[i] = PhysicalSizeOf(s)
	}
	return sizes
}
