package x11

import (
	"fmt"
	"math"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// Monitor represents a physical display
type Monitor struct {
	ID          int
	Name        string
	Output      randr.Output
	X           int
	Y           int
	Width       int
	Height      int
	RefreshRate int
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	modes := make(map[randr.Mode]randr.ModeInfo, len(resources.Modes))
	for _, m := range resources.Modes {
		modes[randr.Mode(m.Id)] = m
	}

	var monitors []Monitor

	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		mon := Monitor{
			ID:     i,
			Name:   outputName,
			Output: crtcInfo.Outputs[0],
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		}
		if mode, ok := modes[crtcInfo.Mode]; ok {
			mon.RefreshRate = modeRefreshRate(mode)
		}
		monitors = append(monitors, mon)
	}

	return monitors, nil
}

// PrimaryMonitor returns the RandR primary output, falling back to the
// monitor under the pointer and then to the first monitor.
func (c *Connection) PrimaryMonitor() (*Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}

	if primary, err := randr.GetOutputPrimary(c.XUtil.Conn(), c.Root).Reply(); err == nil && primary.Output != 0 {
		for i := range monitors {
			if monitors[i].Output == primary.Output {
				return &monitors[i], nil
			}
		}
	}

	if mon := findMonitorForPointer(c, monitors); mon != nil {
		return mon, nil
	}
	return &monitors[0], nil
}

func findMonitorForPointer(c *Connection, monitors []Monitor) *Monitor {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil
	}
	return monitorAt(monitors, int(pointer.RootX), int(pointer.RootY))
}

func monitorAt(monitors []Monitor, x, y int) *Monitor {
	for i := range monitors {
		mon := &monitors[i]
		if x >= mon.X && x < mon.X+mon.Width && y >= mon.Y && y < mon.Y+mon.Height {
			return mon
		}
	}
	return nil
}

// modeRefreshRate derives the vertical refresh from the mode timings.
func modeRefreshRate(m randr.ModeInfo) int {
	vtotal := float64(m.Vtotal)
	if m.ModeFlags&randr.ModeFlagDoubleScan != 0 {
		vtotal *= 2
	}
	if m.ModeFlags&randr.ModeFlagInterlace != 0 {
		vtotal /= 2
	}
	if m.Htotal == 0 || vtotal == 0 {
		return 0
	}
	return int(math.Round(float64(m.DotClock) / (float64(m.Htotal) * vtotal)))
}
