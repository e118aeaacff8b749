package fbdev

import (
	"errors"
	"testing"
	"unsafe"
)

func TestStructLayout(t *testing.T) {
	if got := unsafe.Sizeof(VarScreenInfo{}); got != 160 {
		t.Fatalf("sizeof(fb_var_screeninfo) = %d, want 160", got)
	}
	want := uintptr(68)
	if unsafe.Sizeof(uintptr(0)) == 8 {
		want = 80
	}
	if got := unsafe.Sizeof(FixScreenInfo{}); got != want {
		t.Fatalf("sizeof(fb_fix_screeninfo) = %d, want %d", got, want)
	}
}

func TestRefreshRate(t *testing.T) {
	tests := []struct {
		name string
		v    VarScreenInfo
		want int
	}{
		{
			name: "1080p60",
			v: VarScreenInfo{
				XRes: 1920, YRes: 1080, Pixclock: 6734,
				LeftMargin: 148, RightMargin: 88, HsyncLen: 44,
				UpperMargin: 36, LowerMargin: 4, VsyncLen: 5,
			},
			want: 60,
		},
		{
			name: "vga",
			v: VarScreenInfo{
				XRes: 640, YRes: 480, Pixclock: 39721,
				LeftMargin: 48, RightMargin: 16, HsyncLen: 96,
				UpperMargin: 33, LowerMargin: 10, VsyncLen: 2,
			},
			want: 60,
		},
		{name: "no timings", v: VarScreenInfo{XRes: 800, YRes: 600}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RefreshRate(tt.v); got != tt.want {
				t.Fatalf("RefreshRate = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestModeOf(t *testing.T) {
	var fix FixScreenInfo
	copy(fix.ID[:], "simplefb")
	fix.LineLength = 1280 * 4

	m, err := ModeOf(VarScreenInfo{XRes: 1280, YRes: 720, YResVirtual: 1440, BitsPerPixel: 32}, fix)
	if err != nil {
		t.Fatalf("ModeOf: %v", err)
	}
	if m.Width != 1280 || m.Height != 720 || m.Buffers != 2 || m.Stride != 5120 || m.Driver != "simplefb" {
		t.Fatalf("mode = %+v", m)
	}

	m, err = ModeOf(VarScreenInfo{XRes: 1280, YRes: 720, YResVirtual: 720, BitsPerPixel: 32}, fix)
	if err != nil || m.Buffers != 1 {
		t.Fatalf("single buffer mode = %+v, %v", m, err)
	}

	if _, err := ModeOf(VarScreenInfo{}, fix); !errors.Is(err, ErrNoMode) {
		t.Fatalf("err = %v, want ErrNoMode", err)
	}
}
