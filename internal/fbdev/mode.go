// Package fbdev drives a Linux framebuffer device for the direct display
// backend: mode query, double buffering through panning and vsync waits.
package fbdev

import (
	"errors"
	"math"
)

// ErrNoMode is returned when the framebuffer reports no usable video mode.
var ErrNoMode = errors.New("framebuffer has no usable mode")

// DefaultPath is the first framebuffer device.
const DefaultPath = "/dev/fb0"

// Bitfield mirrors struct fb_bitfield.
type Bitfield struct {
	Offset   uint32
	Length   uint32
	MSBRight uint32
}

// VarScreenInfo mirrors struct fb_var_screeninfo.
type VarScreenInfo struct {
	XRes         uint32
	YRes         uint32
	XResVirtual  uint32
	YResVirtual  uint32
	XOffset      uint32
	YOffset      uint32
	BitsPerPixel uint32
	Grayscale    uint32
	Red          Bitfield
	Green        Bitfield
	Blue         Bitfield
	Transp       Bitfield
	Nonstd       uint32
	Activate     uint32
	Height       uint32
	Width        uint32
	AccelFlags   uint32
	Pixclock     uint32
	LeftMargin   uint32
	RightMargin  uint32
	UpperMargin  uint32
	LowerMargin  uint32
	HsyncLen     uint32
	VsyncLen     uint32
	Sync         uint32
	Vmode        uint32
	Rotate       uint32
	Colorspace   uint32
	Reserved     [4]uint32
}

// FixScreenInfo mirrors struct fb_fix_screeninfo.
type FixScreenInfo struct {
	ID           [16]byte
	SmemStart    uintptr
	SmemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	_            uint16
	LineLength   uint32
	MmioStart    uintptr
	MmioLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

// Mode is the active video mode.
type Mode struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	BitsPerPixel int    `json:"bits_per_pixel"`
	Stride       int    `json:"stride"`
	RefreshRate  int    `json:"refresh_rate"`
	Buffers      int    `json:"buffers"`
	Driver       string `json:"driver"`
}

// ModeOf derives the mode from the kernel screen info.
func ModeOf(v VarScreenInfo, f FixScreenInfo) (Mode, error) {
	if v.XRes == 0 || v.YRes == 0 || v.BitsPerPixel == 0 {
		return Mode{}, ErrNoMode
	}
	buffers := 1
	if v.YResVirtual >= 2*v.YRes {
		buffers = 2
	}
	return Mode{
		Width:        int(v.XRes),
		Height:       int(v.YRes),
		BitsPerPixel: int(v.BitsPerPixel),
		Stride:       int(f.LineLength),
		RefreshRate:  RefreshRate(v),
		Buffers:      buffers,
		Driver:       cstring(f.ID[:]),
	}, nil
}

// RefreshRate computes the vertical refresh in Hz from the pixel clock and
// blanking intervals. It returns 0 when the driver does not report timings.
func RefreshRate(v VarScreenInfo) int {
	if v.Pixclock == 0 {
		return 0
	}
	htotal := float64(v.XRes + v.LeftMargin + v.RightMargin + v.HsyncLen)
	vtotal := float64(v.YRes + v.UpperMargin + v.LowerMargin + v.VsyncLen)
	if htotal == 0 || vtotal == 0 {
		return 0
	}
	// Pixclock is the pixel period in picoseconds.
	hz := 1e12 / (float64(v.Pixclock) * htotal * vtotal)
	return int(math.Round(hz))
}

func cstring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
