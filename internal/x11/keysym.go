package x11

import (
	"unicode"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"

	"github.com/1broseidon/framecore/internal/input"
)

// Keymap resolves a keycode to the keysym in the given column of the
// keyboard mapping (0 unshifted, 1 shifted).
type Keymap interface {
	Keysym(code xproto.Keycode, column byte) xproto.Keysym
}

type serverKeymap struct{ xu *xgbutil.XUtil }

func (k serverKeymap) Keysym(code xproto.Keycode, column byte) xproto.Keysym {
	return keybind.KeysymGet(k.xu, code, column)
}

// Keymap returns the keymap loaded from the server at connect time.
func (c *Connection) Keymap() Keymap { return serverKeymap{xu: c.XUtil} }

var specialKeysyms = map[xproto.Keysym]input.Key{
	0xff1b: input.KeyEscape,
	0xff0d: input.KeyEnter,
	0xff09: input.KeyTab,
	0xfe20: input.KeyTab, // ISO_Left_Tab
	0xff08: input.KeyBackspace,
	0xff63: input.KeyInsert,
	0xffff: input.KeyDelete,
	0xff53: input.KeyRight,
	0xff51: input.KeyLeft,
	0xff54: input.KeyDown,
	0xff52: input.KeyUp,
	0xff55: input.KeyPageUp,
	0xff56: input.KeyPageDown,
	0xff50: input.KeyHome,
	0xff57: input.KeyEnd,
	0xffe5: input.KeyCapsLock,
	0xff14: input.KeyScrollLock,
	0xff7f: input.KeyNumLock,
	0xff61: input.KeyPrintScreen,
	0xff13: input.KeyPause,
	0xffe1: input.KeyLeftShift,
	0xffe2: input.KeyRightShift,
	0xffe3: input.KeyLeftControl,
	0xffe4: input.KeyRightControl,
	0xffe9: input.KeyLeftAlt,
	0xffea: input.KeyRightAlt,
	0xfe03: input.KeyRightAlt, // ISO_Level3_Shift
	0xffeb: input.KeyLeftSuper,
	0xffec: input.KeyRightSuper,
	0xff67: input.KeyKbMenu,
	0xffae: input.KeyKpDecimal,
	0xffaf: input.KeyKpDivide,
	0xffaa: input.KeyKpMultiply,
	0xffad: input.KeyKpSubtract,
	0xffab: input.KeyKpAdd,
	0xff8d: input.KeyKpEnter,
	0xffbd: input.KeyKpEqual,
}

// KeyFromKeysym maps an unshifted keysym to a key. Letters map to their
// uppercase key regardless of case.
func KeyFromKeysym(sym xproto.Keysym) (input.Key, bool) {
	switch {
	case sym >= 'a' && sym <= 'z':
		return input.Key(sym - 'a' + 'A'), true
	case sym >= 0xffbe && sym <= 0xffc9: // F1..F12
		return input.KeyF1 + input.Key(sym-0xffbe), true
	case sym >= 0xffb0 && sym <= 0xffb9: // KP_0..KP_9
		return input.KeyKp0 + input.Key(sym-0xffb0), true
	}
	if k, ok := specialKeysyms[sym]; ok {
		return k, true
	}
	switch sym {
	case ' ', '\'', ',', '-', '.', '/', ';', '=', '[', '\\', ']', '`':
		return input.Key(sym), true
	}
	if sym >= '0' && sym <= '9' || sym >= 'A' && sym <= 'Z' {
		return input.Key(sym), true
	}
	return input.KeyNull, false
}

// RuneFromKeysym returns the character a keysym produces, if any. Latin-1
// keysyms equal their code point; Unicode keysyms carry it in the low bits.
func RuneFromKeysym(sym xproto.Keysym) (rune, bool) {
	switch {
	case sym >= 0x20 && sym <= 0x7e, sym >= 0xa0 && sym <= 0xff:
		return rune(sym), true
	case sym >= 0xffb0 && sym <= 0xffb9:
		return rune('0' + sym - 0xffb0), true
	case sym&0xff000000 == 0x01000000:
		r := rune(sym & 0x00ffffff)
		if unicode.IsPrint(r) {
			return r, true
		}
	}
	return 0, false
}
