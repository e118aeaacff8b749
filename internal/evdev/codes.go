// Package evdev speaks the Linux input event protocol: event codes, raw
// record decoding, capability probing and device classification.
package evdev

// Event types.
const (
	EvSyn = 0x00
	EvKey = 0x01
	EvRel = 0x02
	EvAbs = 0x03
	EvMsc = 0x04
	EvMax = 0x1f
)

// Synchronization codes.
const (
	SynReport  = 0x00
	SynDropped = 0x03
)

// Key codes used for translation and classification.
const (
	KeyEsc        = 1
	Key1          = 2
	Key0          = 11
	KeyMinus      = 12
	KeyEqual      = 13
	KeyBackspace  = 14
	KeyTab        = 15
	KeyQ          = 16
	KeyP          = 25
	KeyLeftBrace  = 26
	KeyRightBrace = 27
	KeyEnter      = 28
	KeyLeftCtrl   = 29
	KeyA          = 30
	KeyL          = 38
	KeySemicolon  = 39
	KeyApostrophe = 40
	KeyGrave      = 41
	KeyLeftShift  = 42
	KeyBackslash  = 43
	KeyZ          = 44
	KeyM          = 50
	KeyComma      = 51
	KeyDot        = 52
	KeySlash      = 53
	KeyRightShift = 54
	KeyKPAsterisk = 55
	KeyLeftAlt    = 56
	KeySpace      = 57
	KeyCapsLock   = 58
	KeyF1         = 59
	KeyF10        = 68
	KeyNumLock    = 69
	KeyScrollLock = 70
	KeyKP7        = 71
	KeyKP8        = 72
	KeyKP9        = 73
	KeyKPMinus    = 74
	KeyKP4        = 75
	KeyKP5        = 76
	KeyKP6        = 77
	KeyKPPlus     = 78
	KeyKP1        = 79
	KeyKP2        = 80
	KeyKP3        = 81
	KeyKP0        = 82
	KeyKPDot      = 83
	KeyF11        = 87
	KeyF12        = 88
	KeyKPEnter    = 96
	KeyRightCtrl  = 97
	KeyKPSlash    = 98
	KeySysRq      = 99
	KeyRightAlt   = 100
	KeyHome       = 102
	KeyUp         = 103
	KeyPageUp     = 104
	KeyLeft       = 105
	KeyRight      = 106
	KeyEnd        = 107
	KeyDown       = 108
	KeyPageDown   = 109
	KeyInsert     = 110
	KeyDelete     = 111
	KeyVolumeDown = 114
	KeyVolumeUp   = 115
	KeyKPEqual    = 117
	KeyPause      = 119
	KeyLeftMeta   = 125
	KeyRightMeta  = 126
	KeyCompose    = 127
	KeyMenu       = 139
	KeyBack       = 158

	KeyMax = 0x2ff
	KeyCnt = KeyMax + 1
)

// Button codes.
const (
	BtnMisc       = 0x100
	BtnLeft       = 0x110
	BtnRight      = 0x111
	BtnMiddle     = 0x112
	BtnSide       = 0x113
	BtnExtra      = 0x114
	BtnForward    = 0x115
	BtnBack       = 0x116
	BtnTask       = 0x117
	BtnJoystick   = 0x120
	BtnGamepad    = 0x130
	BtnSouth      = 0x130
	BtnEast       = 0x131
	BtnC          = 0x132
	BtnNorth      = 0x133
	BtnWest       = 0x134
	BtnZ          = 0x135
	BtnTL         = 0x136
	BtnTR         = 0x137
	BtnTL2        = 0x138
	BtnTR2        = 0x139
	BtnSelect     = 0x13a
	BtnStart      = 0x13b
	BtnMode       = 0x13c
	BtnThumbL     = 0x13d
	BtnThumbR     = 0x13e
	BtnToolPen    = 0x140
	BtnToolFinger = 0x145
	BtnTouch      = 0x14a
	BtnDpadUp     = 0x220
	BtnDpadDown   = 0x221
	BtnDpadLeft   = 0x222
	BtnDpadRight  = 0x223
)

// Relative axes.
const (
	RelX      = 0x00
	RelY      = 0x01
	RelHWheel = 0x06
	RelWheel  = 0x08
	RelMax    = 0x0f
	RelCnt    = RelMax + 1
)

// Absolute axes.
const (
	AbsX            = 0x00
	AbsY            = 0x01
	AbsZ            = 0x02
	AbsRX           = 0x03
	AbsRY           = 0x04
	AbsRZ           = 0x05
	AbsHat0X        = 0x10
	AbsHat0Y        = 0x11
	AbsPressure     = 0x18
	AbsMTSlot       = 0x2f
	AbsMTTouchMajor = 0x30
	AbsMTPositionX  = 0x35
	AbsMTPositionY  = 0x36
	AbsMTTrackingID = 0x39
	AbsMax          = 0x3f
	AbsCnt          = AbsMax + 1
)
