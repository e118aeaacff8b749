package input

// Fixed ceilings for every per-device array. They bound memory, they are
// not runtime configuration.
const (
	MaxKeyboardKeys     = 512
	MaxMouseButtons     = 8
	MaxGamepads         = 4
	MaxGamepadAxes      = 8
	MaxGamepadButtons   = 32
	MaxTouchPoints      = 8
	MaxKeyPressedQueue  = 16
	MaxCharPressedQueue = 16
)

// MouseButton identifies a pointer button.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
	MouseButtonSide
	MouseButtonExtra
	MouseButtonForward
	MouseButtonBack
)

// GamepadButton identifies a gamepad button using a position-based layout.
type GamepadButton int

const (
	GamepadButtonUnknown GamepadButton = iota
	GamepadButtonLeftFaceUp
	GamepadButtonLeftFaceRight
	GamepadButtonLeftFaceDown
	GamepadButtonLeftFaceLeft
	GamepadButtonRightFaceUp
	GamepadButtonRightFaceRight
	GamepadButtonRightFaceDown
	GamepadButtonRightFaceLeft
	GamepadButtonLeftTrigger1
	GamepadButtonLeftTrigger2
	GamepadButtonRightTrigger1
	GamepadButtonRightTrigger2
	GamepadButtonMiddleLeft
	GamepadButtonMiddle
	GamepadButtonMiddleRight
	GamepadButtonLeftThumb
	GamepadButtonRightThumb
)

// GamepadAxis identifies an analog gamepad axis.
type GamepadAxis int

const (
	GamepadAxisLeftX GamepadAxis = iota
	GamepadAxisLeftY
	GamepadAxisRightX
	GamepadAxisRightY
	GamepadAxisLeftTrigger
	GamepadAxisRightTrigger
)

// Cursor is the requested pointer shape.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorArrow
	CursorIBeam
	CursorCrosshair
	CursorPointingHand
	CursorResizeEW
	CursorResizeNS
	CursorResizeNWSE
	CursorResizeNESW
	CursorResizeAll
	CursorNotAllowed
)

// Vec2 is a 2D position or delta in screen pixels.
type Vec2 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}
