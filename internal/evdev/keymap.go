package evdev

import "github.com/1broseidon/framecore/internal/input"

// keyTable maps kernel key codes to input keys. Zero entries are unmapped.
var keyTable = [256]input.Key{
	KeyEsc:        input.KeyEscape,
	2:             input.KeyOne,
	3:             input.KeyTwo,
	4:             input.KeyThree,
	5:             input.KeyFour,
	6:             input.KeyFive,
	7:             input.KeySix,
	8:             input.KeySeven,
	9:             input.KeyEight,
	10:            input.KeyNine,
	Key0:          input.KeyZero,
	KeyMinus:      input.KeyMinus,
	KeyEqual:      input.KeyEqual,
	KeyBackspace:  input.KeyBackspace,
	KeyTab:        input.KeyTab,
	16:            input.KeyQ,
	17:            input.KeyW,
	18:            input.KeyE,
	19:            input.KeyR,
	20:            input.KeyT,
	21:            input.KeyY,
	22:            input.KeyU,
	23:            input.KeyI,
	24:            input.KeyO,
	25:            input.KeyP,
	KeyLeftBrace:  input.KeyLeftBracket,
	KeyRightBrace: input.KeyRightBracket,
	KeyEnter:      input.KeyEnter,
	KeyLeftCtrl:   input.KeyLeftControl,
	30:            input.KeyA,
	31:            input.KeyS,
	32:            input.KeyD,
	33:            input.KeyF,
	34:            input.KeyG,
	35:            input.KeyH,
	36:            input.KeyJ,
	37:            input.KeyK,
	38:            input.KeyL,
	KeySemicolon:  input.KeySemicolon,
	KeyApostrophe: input.KeyApostrophe,
	KeyGrave:      input.KeyGrave,
	KeyLeftShift:  input.KeyLeftShift,
	KeyBackslash:  input.KeyBackslash,
	44:            input.KeyZ,
	45:            input.KeyX,
	46:            input.KeyC,
	47:            input.KeyV,
	48:            input.KeyB,
	49:            input.KeyN,
	50:            input.KeyM,
	KeyComma:      input.KeyComma,
	KeyDot:        input.KeyPeriod,
	KeySlash:      input.KeySlash,
	KeyRightShift: input.KeyRightShift,
	KeyKPAsterisk: input.KeyKpMultiply,
	KeyLeftAlt:    input.KeyLeftAlt,
	KeySpace:      input.KeySpace,
	KeyCapsLock:   input.KeyCapsLock,
	59:            input.KeyF1,
	60:            input.KeyF2,
	61:            input.KeyF3,
	62:            input.KeyF4,
	63:            input.KeyF5,
	64:            input.KeyF6,
	65:            input.KeyF7,
	66:            input.KeyF8,
	67:            input.KeyF9,
	68:            input.KeyF10,
	KeyNumLock:    input.KeyNumLock,
	KeyScrollLock: input.KeyScrollLock,
	KeyKP7:        input.KeyKp7,
	KeyKP8:        input.KeyKp8,
	KeyKP9:        input.KeyKp9,
	KeyKPMinus:    input.KeyKpSubtract,
	KeyKP4:        input.KeyKp4,
	KeyKP5:        input.KeyKp5,
	KeyKP6:        input.KeyKp6,
	KeyKPPlus:     input.KeyKpAdd,
	KeyKP1:        input.KeyKp1,
	KeyKP2:        input.KeyKp2,
	KeyKP3:        input.KeyKp3,
	KeyKP0:        input.KeyKp0,
	KeyKPDot:      input.KeyKpDecimal,
	KeyF11:        input.KeyF11,
	KeyF12:        input.KeyF12,
	KeyKPEnter:    input.KeyKpEnter,
	KeyRightCtrl:  input.KeyRightControl,
	KeyKPSlash:    input.KeyKpDivide,
	KeySysRq:      input.KeyPrintScreen,
	KeyRightAlt:   input.KeyRightAlt,
	KeyHome:       input.KeyHome,
	KeyUp:         input.KeyUp,
	KeyPageUp:     input.KeyPageUp,
	KeyLeft:       input.KeyLeft,
	KeyRight:      input.KeyRight,
	KeyEnd:        input.KeyEnd,
	KeyDown:       input.KeyDown,
	KeyPageDown:   input.KeyPageDown,
	KeyInsert:     input.KeyInsert,
	KeyDelete:     input.KeyDelete,
	KeyVolumeDown: input.KeyVolumeDown,
	KeyVolumeUp:   input.KeyVolumeUp,
	KeyKPEqual:    input.KeyKpEqual,
	KeyPause:      input.KeyPause,
	KeyLeftMeta:   input.KeyLeftSuper,
	KeyRightMeta:  input.KeyRightSuper,
	KeyCompose:    input.KeyKbMenu,
	KeyMenu:       input.KeyMenu,
	KeyBack:       input.KeyBack,
}

// TranslateKey maps a kernel key code to an input key.
func TranslateKey(code uint16) (input.Key, bool) {
	if int(code) >= len(keyTable) {
		return input.KeyNull, false
	}
	k := keyTable[code]
	return k, k != input.KeyNull
}

// shiftedRunes holds the US-layout shifted form of printable keys.
var shiftedRunes = map[input.Key]rune{
	input.KeyOne:          '!',
	input.KeyTwo:          '@',
	input.KeyThree:        '#',
	input.KeyFour:         '$',
	input.KeyFive:         '%',
	input.KeySix:          '^',
	input.KeySeven:        '&',
	input.KeyEight:        '*',
	input.KeyNine:         '(',
	input.KeyZero:         ')',
	input.KeyMinus:        '_',
	input.KeyEqual:        '+',
	input.KeyLeftBracket:  '{',
	input.KeyRightBracket: '}',
	input.KeySemicolon:    ':',
	input.KeyApostrophe:   '"',
	input.KeyGrave:        '~',
	input.KeyBackslash:    '|',
	input.KeyComma:        '<',
	input.KeyPeriod:       '>',
	input.KeySlash:        '?',
}

// KeyRune returns the character a printable key produces, honouring shift
// and caps lock for letters.
func KeyRune(k input.Key, shift, capsLock bool) (rune, bool) {
	switch {
	case k >= input.KeyA && k <= input.KeyZ:
		if shift != capsLock {
			return rune(k), true
		}
		return rune(k) + ('a' - 'A'), true
	case k == input.KeySpace:
		return ' ', true
	case k >= input.KeyKp0 && k <= input.KeyKp9:
		return rune('0' + (k - input.KeyKp0)), true
	}
	if shift {
		if r, ok := shiftedRunes[k]; ok {
			return r, true
		}
	}
	if k >= 32 && k < 127 {
		return rune(k), true
	}
	return 0, false
}

// TranslateMouseButton maps BTN_LEFT..BTN_BACK to mouse buttons.
func TranslateMouseButton(code uint16) (input.MouseButton, bool) {
	switch code {
	case BtnLeft, BtnTouch:
		return input.MouseButtonLeft, true
	case BtnRight:
		return input.MouseButtonRight, true
	case BtnMiddle:
		return input.MouseButtonMiddle, true
	case BtnSide:
		return input.MouseButtonSide, true
	case BtnExtra:
		return input.MouseButtonExtra, true
	case BtnForward:
		return input.MouseButtonForward, true
	case BtnBack:
		return input.MouseButtonBack, true
	}
	return 0, false
}

// TranslateGamepadButton maps kernel gamepad codes to positional buttons.
func TranslateGamepadButton(code uint16) (input.GamepadButton, bool) {
	switch code {
	case BtnSouth:
		return input.GamepadButtonRightFaceDown, true
	case BtnEast:
		return input.GamepadButtonRightFaceRight, true
	case BtnNorth:
		return input.GamepadButtonRightFaceUp, true
	case BtnWest:
		return input.GamepadButtonRightFaceLeft, true
	case BtnTL:
		return input.GamepadButtonLeftTrigger1, true
	case BtnTR:
		return input.GamepadButtonRightTrigger1, true
	case BtnTL2:
		return input.GamepadButtonLeftTrigger2, true
	case BtnTR2:
		return input.GamepadButtonRightTrigger2, true
	case BtnSelect:
		return input.GamepadButtonMiddleLeft, true
	case BtnMode:
		return input.GamepadButtonMiddle, true
	case BtnStart:
		return input.GamepadButtonMiddleRight, true
	case BtnThumbL:
		return input.GamepadButtonLeftThumb, true
	case BtnThumbR:
		return input.GamepadButtonRightThumb, true
	case BtnDpadUp:
		return input.GamepadButtonLeftFaceUp, true
	case BtnDpadDown:
		return input.GamepadButtonLeftFaceDown, true
	case BtnDpadLeft:
		return input.GamepadButtonLeftFaceLeft, true
	case BtnDpadRight:
		return input.GamepadButtonLeftFaceRight, true
	}
	return input.GamepadButtonUnknown, false
}

// TranslateGamepadAxis maps stick and trigger axes.
func TranslateGamepadAxis(code uint16) (input.GamepadAxis, bool) {
	switch code {
	case AbsX:
		return input.GamepadAxisLeftX, true
	case AbsY:
		return input.GamepadAxisLeftY, true
	case AbsRX:
		return input.GamepadAxisRightX, true
	case AbsRY:
		return input.GamepadAxisRightY, true
	case AbsZ:
		return input.GamepadAxisLeftTrigger, true
	case AbsRZ:
		return input.GamepadAxisRightTrigger, true
	}
	return 0, false
}
