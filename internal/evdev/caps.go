package evdev

import "strings"

// Bits is a kernel capability bitmap indexed by event code.
type Bits []byte

func newBits(count int) Bits { return make(Bits, (count+7)/8) }

// Has reports whether code is set.
func (b Bits) Has(code int) bool {
	i := code / 8
	if code < 0 || i >= len(b) {
		return false
	}
	return b[i]&(1<<(uint(code)%8)) != 0
}

// Set marks code as supported.
func (b Bits) Set(code int) {
	i := code / 8
	if code < 0 || i >= len(b) {
		return
	}
	b[i] |= 1 << (uint(code) % 8)
}

// AbsInfo mirrors struct input_absinfo.
type AbsInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// Normalize maps v into [0,1] using the calibrated range.
func (a AbsInfo) Normalize(v int32) float32 {
	span := a.Maximum - a.Minimum
	if span <= 0 {
		return 0
	}
	n := float32(v-a.Minimum) / float32(span)
	return min(max(n, 0), 1)
}

// Centered maps v into [-1,1] using the calibrated range.
func (a AbsInfo) Centered(v int32) float32 {
	if a.Maximum-a.Minimum <= 0 {
		return 0
	}
	return a.Normalize(v)*2 - 1
}

// Capabilities is the result of probing one device.
type Capabilities struct {
	Name  string
	Types Bits
	Keys  Bits
	Rel   Bits
	Abs   Bits

	// Ranges holds calibration for every supported absolute axis.
	Ranges [AbsCnt]AbsInfo
	// RangeErr is set when an absolute axis could not be calibrated.
	RangeErr error
}

// NewCapabilities returns empty capability bitmaps sized for every code.
func NewCapabilities(name string) Capabilities {
	return Capabilities{
		Name:  name,
		Types: newBits(EvMax + 1),
		Keys:  newBits(KeyCnt),
		Rel:   newBits(RelCnt),
		Abs:   newBits(AbsCnt),
	}
}

// Class is the set of roles a device plays. A device may have several.
type Class uint8

const (
	ClassKeyboard Class = 1 << iota
	ClassMouse
	ClassTouch
	ClassMultitouch
	ClassGamepad
)

func (c Class) Has(f Class) bool { return c&f != 0 }

func (c Class) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for _, f := range []struct {
		c    Class
		name string
	}{
		{ClassKeyboard, "keyboard"},
		{ClassMouse, "mouse"},
		{ClassTouch, "touch"},
		{ClassMultitouch, "multitouch"},
		{ClassGamepad, "gamepad"},
	} {
		if c.Has(f.c) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, ",")
}

// Classify derives the device class from its capabilities. Absolute
// pointing roles are dropped when calibration failed.
func Classify(caps Capabilities) Class {
	var c Class

	if caps.Keys.Has(KeySpace) || (caps.Keys.Has(KeyA) && caps.Keys.Has(KeyZ)) {
		c |= ClassKeyboard
	}
	if caps.Rel.Has(RelX) && caps.Rel.Has(RelY) && caps.Keys.Has(BtnLeft) {
		c |= ClassMouse
	}

	touch := caps.RangeErr == nil && caps.Keys.Has(BtnTouch)
	if touch && caps.Abs.Has(AbsX) && caps.Abs.Has(AbsY) {
		c |= ClassTouch
	}
	if touch && caps.Abs.Has(AbsMTPositionX) && caps.Abs.Has(AbsMTPositionY) {
		c |= ClassTouch | ClassMultitouch
	}

	if (caps.Keys.Has(BtnGamepad) || caps.Keys.Has(BtnJoystick)) && caps.Abs.Has(AbsX) {
		c |= ClassGamepad
	}
	return c
}

// AxisCount returns the number of gamepad axes the device reports.
func (c Capabilities) AxisCount() int {
	n := 0
	for _, code := range []int{AbsX, AbsY, AbsRX, AbsRY, AbsZ, AbsRZ} {
		if c.Abs.Has(code) {
			n++
		}
	}
	return n
}
