package monitor

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

type systemSource struct{}

// System returns the X11 monitor source. It talks RandR to the server named
// by $DISPLAY.
func System() Source { return systemSource{} }

func (systemSource) Monitors() ([]Monitor, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("%w: connect to X server: %v", ErrMissingCapability, err)
	}
	defer conn.Close()

	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("%w: RandR extension: %v", ErrMissingCapability, err)
	}

	root := xproto.Setup(conn).DefaultScreen(conn).Root
	res, err := randr.GetScreenResourcesCurrent(conn, root).Reply()
	if err != nil {
		return nil, fmt.Errorf("%w: screen resources: %v", ErrMissingCapability, err)
	}

	var primary randr.Output
	if p, err := randr.GetOutputPrimary(conn, root).Reply(); err == nil {
		primary = p.Output
	}

	var mons []Monitor
	for _, out := range res.Outputs {
		info, err := randr.GetOutputInfo(conn, out, res.ConfigTimestamp).Reply()
		if err != nil {
			return nil, fmt.Errorf("output info: %w", err)
		}
		if info.Connection != randr.ConnectionConnected || info.Crtc == 0 {
			continue
		}
		crtc, err := randr.GetCrtcInfo(conn, info.Crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			return nil, fmt.Errorf("crtc info: %w", err)
		}
		if crtc.Width == 0 || crtc.Height == 0 {
			continue
		}
		w, h := int(crtc.Width), int(crtc.Height)
		wmm, hmm := int(info.MmWidth), int(info.MmHeight)
		if rotated(crtc.Rotation) {
			wmm, hmm = hmm, wmm
		}
		mons = append(mons, Monitor{
			Name:     string(info.Name),
			X:        int(crtc.X),
			Y:        int(crtc.Y),
			Width:    w,
			Height:   h,
			WidthMM:  wmm,
			HeightMM: hmm,
			Primary:  out == primary,
		})
	}
	return mons, nil
}

// rotated reports a quarter turn. The CRTC size already accounts for it but
// the output's physical size does not.
func rotated(r uint16) bool {
	return r&(randr.RotationRotate90|randr.RotationRotate270) != 0
}
