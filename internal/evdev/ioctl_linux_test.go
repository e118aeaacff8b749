package evdev

import "testing"

func TestIoctlNumbers(t *testing.T) {
	tests := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"EVIOCGNAME(256)", evioCGName(256), 0x81004506},
		{"EVIOCGBIT(EV_KEY,96)", evioCGBit(EvKey, 96), 0x80604521},
		{"EVIOCGABS(ABS_X)", evioCGAbs(AbsX), 0x80184540},
		{"EVIOCGABS(ABS_MT_SLOT)", evioCGAbs(AbsMTSlot), 0x8018456f},
		{"EVIOCGRAB", evioCGrab(), 0x40044590},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %#x, want %#x", tt.name, tt.got, tt.want)
		}
	}
}
