package monitor

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	gdi32  = windows.NewLazySystemDLL("gdi32.dll")

	procEnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW     = user32.NewProc("GetMonitorInfoW")

	procCreateDCW     = gdi32.NewProc("CreateDCW")
	procDeleteDC      = gdi32.NewProc("DeleteDC")
	procGetDeviceCaps = gdi32.NewProc("GetDeviceCaps")
)

const (
	monitorInfoFPrimary = 1

	// GetDeviceCaps indexes.
	horzSize = 4 // Width in millimeters
	vertSize = 6 // Height in millimeters
)

type rect struct {
	Left, Top, Right, Bottom int32
}

type monitorInfoExW struct {
	Size    uint32
	Monitor rect
	Work    rect
	Flags   uint32
	Device  [32]uint16
}

type systemSource struct{}

// System returns the Windows monitor source backed by user32 and gdi32.
func System() Source { return systemSource{} }

func (systemSource) Monitors() ([]Monitor, error) {
	if err := procEnumDisplayMonitors.Find(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingCapability, err)
	}

	var mons []Monitor
	cb := windows.NewCallback(func(hMonitor, hdc, lprc, data uintptr) uintptr {
		var mi monitorInfoExW
		mi.Size = uint32(unsafe.Sizeof(mi))
		ret, _, _ := procGetMonitorInfoW.Call(hMonitor, uintptr(unsafe.Pointer(&mi)))
		if ret == 0 {
			return 1
		}
		name := windows.UTF16ToString(mi.Device[:])
		wmm, hmm := physicalSize(mi.Device[:])
		mons = append(mons, Monitor{
			Name:     name,
			X:        int(mi.Monitor.Left),
			Y:        int(mi.Monitor.Top),
			Width:    int(mi.Monitor.Right - mi.Monitor.Left),
			Height:   int(mi.Monitor.Bottom - mi.Monitor.Top),
			WidthMM:  wmm,
			HeightMM: hmm,
			Primary:  mi.Flags&monitorInfoFPrimary != 0,
		})
		return 1
	})

	ret, _, err := procEnumDisplayMonitors.Call(0, 0, cb, 0)
	if ret == 0 {
		return nil, fmt.Errorf("%w: EnumDisplayMonitors: %v", ErrMissingCapability, err)
	}
	return mons, nil
}

// physicalSize opens a device context on the named display and reads its
// size in millimeters. Zero values mean the driver did not report one.
func physicalSize(device []uint16) (int, int) {
	driver, err := windows.UTF16PtrFromString("DISPLAY")
	if err != nil {
		return 0, 0
	}
	hdc, _, _ := procCreateDCW.Call(
		uintptr(unsafe.Pointer(driver)),
		uintptr(unsafe.Pointer(&device[0])),
		0, 0,
	)
	if hdc == 0 {
		return 0, 0
	}
	defer procDeleteDC.Call(hdc)

	w, _, _ := procGetDeviceCaps.Call(hdc, horzSize)
	h, _, _ := procGetDeviceCaps.Call(hdc, vertSize)
	return int(int32(w)), int(int32(h))
}
