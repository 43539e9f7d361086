package monitor

import (
	"errors"
	"testing"

	"screen-slicer/internal/screen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fake(mons ...Monitor) Source {
	return SourceFunc(func() ([]Monitor, error) { return mons, nil })
}

func TestDetectAvailable(t *testing.T) {
	res := Detect(fake(
		Monitor{Name: "DP-2", X: 1920, Width: 2560, Height: 1440, WidthMM: 597, HeightMM: 336},
		Monitor{Name: "HDMI-1", X: 0, Width: 1920, Height: 1080, Primary: true},
	))
	require.True(t, res.Available())
	require.Len(t, res.Specs, 2)

	// Ordered left to right.
	assert.Equal(t, "HDMI-1", res.Monitors[0].Name)
	assert.Equal(t, screen.Spec{
		Resolution: screen.Resolution{Width: 1920, Height: 1080},
		DiagonalCM: screen.FallbackDiagonalCM,
		Aspect:     screen.AspectRatio{W: 16, H: 9},
	}, res.Specs[0])

	assert.Equal(t, screen.Resolution{Width: 2560, Height: 1440}, res.Specs[1].Resolution)
	assert.InDelta(t, 68.50, res.Specs[1].DiagonalCM, 0.01)
	assert.Equal(t, screen.AspectRatio{W: 16, H: 9}, res.Specs[1].Aspect)

	require.NoError(t, screen.ValidateAll(res.Specs))
}

func TestDetectUnavailable(t *testing.T) {
	res := Detect(nil)
	assert.False(t, res.Available())
	assert.ErrorIs(t, res.Reason, ErrUnsupportedPlatform)

	boom := errors.New("no display")
	res = Detect(SourceFunc(func() ([]Monitor, error) {
		return nil, errors.Join(ErrMissingCapability, boom)
	}))
	assert.False(t, res.Available())
	assert.ErrorIs(t, res.Reason, ErrMissingCapability)
	assert.ErrorIs(t, res.Reason, boom)

	res = Detect(fake(Monitor{Name: "ghost"}))
	assert.ErrorIs(t, res.Reason, ErrNoMonitors)
}

func TestDetectDoesNotMutateInput(t *testing.T) {
	mons := []Monitor{{Name: "b", X: 100, Width: 10, Height: 10}, {Name: "a", X: 0, Width: 10, Height: 10}}
	Detect(fake(mons...))
	assert.Equal(t, "b", mons[0].Name)
}

func TestMonitorString(t *testing.T) {
	m := Monitor{Name: "eDP-1", Width: 1920, Height: 1200, WidthMM: 300, HeightMM: 190, Primary: true}
	assert.Equal(t, "eDP-1 1920x1200+0+0 300x190mm primary", m.String())
}
