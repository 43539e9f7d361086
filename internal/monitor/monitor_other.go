//go:build !windows && !linux

package monitor

// System returns nil on platforms without a backend; Detect reports
// ErrUnsupportedPlatform for it.
func System() Source { return nil }
