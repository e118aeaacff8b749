package evdev

import (
	"errors"
	"testing"
)

func capsWith(keys, rel, abs []int) Capabilities {
	c := NewCapabilities("test")
	for _, k := range keys {
		c.Keys.Set(k)
	}
	for _, r := range rel {
		c.Rel.Set(r)
	}
	for _, a := range abs {
		c.Abs.Set(a)
	}
	return c
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		caps Capabilities
		want Class
	}{
		{"keyboard", capsWith([]int{KeyA, KeyZ, KeySpace, KeyEnter}, nil, nil), ClassKeyboard},
		{"mouse", capsWith([]int{BtnLeft, BtnRight}, []int{RelX, RelY, RelWheel}, nil), ClassMouse},
		{"relative without buttons", capsWith(nil, []int{RelX, RelY}, nil), 0},
		{"single touch", capsWith([]int{BtnTouch}, nil, []int{AbsX, AbsY}), ClassTouch},
		{"multitouch", capsWith([]int{BtnTouch}, nil, []int{AbsX, AbsY, AbsMTSlot, AbsMTPositionX, AbsMTPositionY, AbsMTTrackingID}), ClassTouch | ClassMultitouch},
		{"gamepad", capsWith([]int{BtnSouth, BtnEast, BtnStart}, nil, []int{AbsX, AbsY, AbsRX, AbsRY}), ClassGamepad},
		{"joystick", capsWith([]int{BtnJoystick}, nil, []int{AbsX, AbsY}), ClassGamepad},
		{"keyboard with touchpad", capsWith([]int{KeySpace, BtnLeft, BtnTouch}, []int{RelX, RelY}, []int{AbsX, AbsY}), ClassKeyboard | ClassMouse | ClassTouch},
		{"power button", capsWith([]int{116}, nil, nil), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.caps); got != tt.want {
				t.Fatalf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyDropsTouchWhenCalibrationFails(t *testing.T) {
	c := capsWith([]int{BtnTouch, BtnLeft}, []int{RelX, RelY}, []int{AbsX, AbsY, AbsMTPositionX, AbsMTPositionY})
	c.RangeErr = errors.New("EVIOCGABS failed")
	if got := Classify(c); got != ClassMouse {
		t.Fatalf("Classify() = %v, want mouse only", got)
	}
}

func TestAbsInfoNormalize(t *testing.T) {
	info := AbsInfo{Minimum: 0, Maximum: 1000}
	if got := info.Normalize(250); got != 0.25 {
		t.Fatalf("Normalize(250) = %v", got)
	}
	if got := info.Normalize(-10); got != 0 {
		t.Fatalf("Normalize(-10) = %v, want clamp to 0", got)
	}

	stick := AbsInfo{Minimum: -32768, Maximum: 32767}
	if got := stick.Centered(-32768); got != -1 {
		t.Fatalf("Centered(min) = %v", got)
	}
	if got := stick.Centered(32767); got != 1 {
		t.Fatalf("Centered(max) = %v", got)
	}
	if got := (AbsInfo{}).Centered(5); got != 0 {
		t.Fatalf("expected zero for empty range, got %v", got)
	}
}

func TestClassString(t *testing.T) {
	if got := (ClassKeyboard | ClassGamepad).String(); got != "keyboard,gamepad" {
		t.Fatalf("String() = %q", got)
	}
	if got := Class(0).String(); got != "none" {
		t.Fatalf("String() = %q", got)
	}
}
