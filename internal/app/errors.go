package app

import (
	"errors"
	"fmt"

	"screen-slicer/internal/export"
	"screen-slicer/internal/fit"
	"screen-slicer/internal/monitor"
)

// Errors returned by Session operations. A failed operation leaves the
// session unchanged.
var (
	// ErrConfiguration matches every *ConfigurationError.
	ErrConfiguration = errors.New("invalid screen configuration")

	ErrNoConfiguration = errors.New("no screens configured")
	ErrNoImage         = errors.New("no image loaded")

	ErrUnsupportedPlatform = monitor.ErrUnsupportedPlatform
	ErrMissingCapability   = monitor.ErrMissingCapability
	ErrInvalidScale        = fit.ErrInvalidScale
	ErrOutOfBounds         = export.ErrOutOfBounds
)

// ConfigurationError reports rejected screen input.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v: %v", ErrConfiguration, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrConfiguration) hold for any ConfigurationError.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }
