package input

import "strconv"

// Key identifies a keyboard key. Printable keys use their ASCII code;
// function, navigation and keypad keys live above 255.
type Key int

const (
	KeyNull Key = 0

	KeyApostrophe   Key = 39
	KeyComma        Key = 44
	KeyMinus        Key = 45
	KeyPeriod       Key = 46
	KeySlash        Key = 47
	KeyZero         Key = 48
	KeyOne          Key = 49
	KeyTwo          Key = 50
	KeyThree        Key = 51
	KeyFour         Key = 52
	KeyFive         Key = 53
	KeySix          Key = 54
	KeySeven        Key = 55
	KeyEight        Key = 56
	KeyNine         Key = 57
	KeySemicolon    Key = 59
	KeyEqual        Key = 61
	KeyA            Key = 65
	KeyB            Key = 66
	KeyC            Key = 67
	KeyD            Key = 68
	KeyE            Key = 69
	KeyF            Key = 70
	KeyG            Key = 71
	KeyH            Key = 72
	KeyI            Key = 73
	KeyJ            Key = 74
	KeyK            Key = 75
	KeyL            Key = 76
	KeyM            Key = 77
	KeyN            Key = 78
	KeyO            Key = 79
	KeyP            Key = 80
	KeyQ            Key = 81
	KeyR            Key = 82
	KeyS            Key = 83
	KeyT            Key = 84
	KeyU            Key = 85
	KeyV            Key = 86
	KeyW            Key = 87
	KeyX            Key = 88
	KeyY            Key = 89
	KeyZ            Key = 90
	KeyLeftBracket  Key = 91
	KeyBackslash    Key = 92
	KeyRightBracket Key = 93
	KeyGrave        Key = 96

	KeySpace        Key = 32
	KeyEscape       Key = 256
	KeyEnter        Key = 257
	KeyTab          Key = 258
	KeyBackspace    Key = 259
	KeyInsert       Key = 260
	KeyDelete       Key = 261
	KeyRight        Key = 262
	KeyLeft         Key = 263
	KeyDown         Key = 264
	KeyUp           Key = 265
	KeyPageUp       Key = 266
	KeyPageDown     Key = 267
	KeyHome         Key = 268
	KeyEnd          Key = 269
	KeyCapsLock     Key = 280
	KeyScrollLock   Key = 281
	KeyNumLock      Key = 282
	KeyPrintScreen  Key = 283
	KeyPause        Key = 284
	KeyF1           Key = 290
	KeyF2           Key = 291
	KeyF3           Key = 292
	KeyF4           Key = 293
	KeyF5           Key = 294
	KeyF6           Key = 295
	KeyF7           Key = 296
	KeyF8           Key = 297
	KeyF9           Key = 298
	KeyF10          Key = 299
	KeyF11          Key = 300
	KeyF12          Key = 301
	KeyLeftShift    Key = 340
	KeyLeftControl  Key = 341
	KeyLeftAlt      Key = 342
	KeyLeftSuper    Key = 343
	KeyRightShift   Key = 344
	KeyRightControl Key = 345
	KeyRightAlt     Key = 346
	KeyRightSuper   Key = 347
	KeyKbMenu       Key = 348

	KeyKp0        Key = 320
	KeyKp1        Key = 321
	KeyKp2        Key = 322
	KeyKp3        Key = 323
	KeyKp4        Key = 324
	KeyKp5        Key = 325
	KeyKp6        Key = 326
	KeyKp7        Key = 327
	KeyKp8        Key = 328
	KeyKp9        Key = 329
	KeyKpDecimal  Key = 330
	KeyKpDivide   Key = 331
	KeyKpMultiply Key = 332
	KeyKpSubtract Key = 333
	KeyKpAdd      Key = 334
	KeyKpEnter    Key = 335
	KeyKpEqual    Key = 336

	// Android hardware keys.
	KeyBack       Key = 4
	KeyMenu       Key = 5
	KeyVolumeUp   Key = 24
	KeyVolumeDown Key = 25
)

var keyNames = map[Key]string{
	KeySpace:        "space",
	KeyApostrophe:   "apostrophe",
	KeyComma:        "comma",
	KeyMinus:        "minus",
	KeyPeriod:       "period",
	KeySlash:        "slash",
	KeySemicolon:    "semicolon",
	KeyEqual:        "equal",
	KeyLeftBracket:  "left_bracket",
	KeyBackslash:    "backslash",
	KeyRightBracket: "right_bracket",
	KeyGrave:        "grave",
	KeyEscape:       "escape",
	KeyEnter:        "enter",
	KeyTab:          "tab",
	KeyBackspace:    "backspace",
	KeyInsert:       "insert",
	KeyDelete:       "delete",
	KeyRight:        "right",
	KeyLeft:         "left",
	KeyDown:         "down",
	KeyUp:           "up",
	KeyPageUp:       "page_up",
	KeyPageDown:     "page_down",
	KeyHome:         "home",
	KeyEnd:          "end",
	KeyCapsLock:     "caps_lock",
	KeyScrollLock:   "scroll_lock",
	KeyNumLock:      "num_lock",
	KeyPrintScreen:  "print_screen",
	KeyPause:        "pause",
	KeyLeftShift:    "left_shift",
	KeyLeftControl:  "left_control",
	KeyLeftAlt:      "left_alt",
	KeyLeftSuper:    "left_super",
	KeyRightShift:   "right_shift",
	KeyRightControl: "right_control",
	KeyRightAlt:     "right_alt",
	KeyRightSuper:   "right_super",
	KeyKbMenu:       "kb_menu",
	KeyKpDecimal:    "kp_decimal",
	KeyKpDivide:     "kp_divide",
	KeyKpMultiply:   "kp_multiply",
	KeyKpSubtract:   "kp_subtract",
	KeyKpAdd:        "kp_add",
	KeyKpEnter:      "kp_enter",
	KeyKpEqual:      "kp_equal",
	KeyBack:         "back",
	KeyMenu:         "menu",
	KeyVolumeUp:     "volume_up",
	KeyVolumeDown:   "volume_down",
}

// String returns the lower-case name used in configuration files.
func (k Key) String() string {
	switch {
	case k >= KeyA && k <= KeyZ:
		return string(rune('a' + (k - KeyA)))
	case k >= KeyZero && k <= KeyNine:
		return string(rune('0' + (k - KeyZero)))
	case k >= KeyF1 && k <= KeyF12:
		return "f" + strconv.Itoa(int(k-KeyF1)+1)
	case k >= KeyKp0 && k <= KeyKp9:
		return "kp_" + strconv.Itoa(int(k-KeyKp0))
	case k == KeyNull:
		return "none"
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "key_" + strconv.Itoa(int(k))
}

// ParseKey resolves a configuration key name such as "escape", "q" or "f10".
func ParseKey(name string) (Key, bool) {
	if name == "" || name == "none" {
		return KeyNull, true
	}
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'a' && c <= 'z':
			return KeyA + Key(c-'a'), true
		case c >= 'A' && c <= 'Z':
			return KeyA + Key(c-'A'), true
		case c >= '0' && c <= '9':
			return KeyZero + Key(c-'0'), true
		}
	}
	for k := KeyF1; k <= KeyF12; k++ {
		if k.String() == name {
			return k, true
		}
	}
	for k := KeyKp0; k <= KeyKp9; k++ {
		if k.String() == name {
			return k, true
		}
	}
	for k, n := range keyNames {
		if n == name {
			return k, true
		}
	}
	return KeyNull, false
}
