package platform

import "github.com/1broseidon/framecore/internal/input"

// Android key codes (android/keycodes.h) the activity backend understands.
const (
	akeycodeBack        = 4
	akeycode0           = 7
	akeycode9           = 16
	akeycodeDpadUp      = 19
	akeycodeDpadDown    = 20
	akeycodeDpadLeft    = 21
	akeycodeDpadRight   = 22
	akeycodeVolumeUp    = 24
	akeycodeVolumeDown  = 25
	akeycodeA           = 29
	akeycodeZ           = 54
	akeycodeComma       = 55
	akeycodePeriod      = 56
	akeycodeAltLeft     = 57
	akeycodeAltRight    = 58
	akeycodeShiftLeft   = 59
	akeycodeShiftRight  = 60
	akeycodeTab         = 61
	akeycodeSpace       = 62
	akeycodeEnter       = 66
	akeycodeDel         = 67
	akeycodeGrave       = 68
	akeycodeMinus       = 69
	akeycodeEquals      = 70
	akeycodeLeftBracket = 71
	akeycodeRightBrack  = 72
	akeycodeBackslash   = 73
	akeycodeSemicolon   = 74
	akeycodeApostrophe  = 75
	akeycodeSlash       = 76
	akeycodeMenu        = 82
	akeycodePageUp      = 92
	akeycodePageDown    = 93
	akeycodeEscape      = 111
	akeycodeForwardDel  = 112
	akeycodeCtrlLeft    = 113
	akeycodeCtrlRight   = 114
	akeycodeCapsLock    = 115
	akeycodeMoveHome    = 122
	akeycodeMoveEnd     = 123
	akeycodeInsert      = 124
	akeycodeF1          = 131
	akeycodeF12         = 142
)

var androidKeys = map[int]input.Key{
	akeycodeBack:        input.KeyBack,
	akeycodeDpadUp:      input.KeyUp,
	akeycodeDpadDown:    input.KeyDown,
	akeycodeDpadLeft:    input.KeyLeft,
	akeycodeDpadRight:   input.KeyRight,
	akeycodeVolumeUp:    input.KeyVolumeUp,
	akeycodeVolumeDown:  input.KeyVolumeDown,
	akeycodeComma:       input.KeyComma,
	akeycodePeriod:      input.KeyPeriod,
	akeycodeAltLeft:     input.KeyLeftAlt,
	akeycodeAltRight:    input.KeyRightAlt,
	akeycodeShiftLeft:   input.KeyLeftShift,
	akeycodeShiftRight:  input.KeyRightShift,
	akeycodeTab:         input.KeyTab,
	akeycodeSpace:       input.KeySpace,
	akeycodeEnter:       input.KeyEnter,
	akeycodeDel:         input.KeyBackspace,
	akeycodeGrave:       input.KeyGrave,
	akeycodeMinus:       input.KeyMinus,
	akeycodeEquals:      input.KeyEqual,
	akeycodeLeftBracket: input.KeyLeftBracket,
	akeycodeRightBrack:  input.KeyRightBracket,
	akeycodeBackslash:   input.KeyBackslash,
	akeycodeSemicolon:   input.KeySemicolon,
	akeycodeApostrophe:  input.KeyApostrophe,
	akeycodeSlash:       input.KeySlash,
	akeycodeMenu:        input.KeyMenu,
	akeycodePageUp:      input.KeyPageUp,
	akeycodePageDown:    input.KeyPageDown,
	akeycodeEscape:      input.KeyEscape,
	akeycodeForwardDel:  input.KeyDelete,
	akeycodeCtrlLeft:    input.KeyLeftControl,
	akeycodeCtrlRight:   input.KeyRightControl,
	akeycodeCapsLock:    input.KeyCapsLock,
	akeycodeMoveHome:    input.KeyHome,
	akeycodeMoveEnd:     input.KeyEnd,
	akeycodeInsert:      input.KeyInsert,
}

// TranslateAndroidKey maps an Android key code to a key.
func TranslateAndroidKey(code int) (input.Key, bool) {
	switch {
	case code >= akeycodeA && code <= akeycodeZ:
		return input.KeyA + input.Key(code-akeycodeA), true
	case code >= akeycode0 && code <= akeycode9:
		return input.KeyZero + input.Key(code-akeycode0), true
	case code >= akeycodeF1 && code <= akeycodeF12:
		return input.KeyF1 + input.Key(code-akeycodeF1), true
	}
	k, ok := androidKeys[code]
	return k, ok
}
