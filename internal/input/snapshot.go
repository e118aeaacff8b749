package input

import (
	"sync"
	"sync/atomic"
)

// frame holds every per-frame device state. It is copied as a whole by
// AdvanceFrame.
type frame struct {
	keys           [MaxKeyboardKeys]bool
	keyRepeat      [MaxKeyboardKeys]bool
	mouseButtons   [MaxMouseButtons]bool
	mouse          Vec2
	wheel          Vec2
	touchDown      [MaxTouchPoints]bool
	touchID        [MaxTouchPoints]int32
	touchPos       [MaxTouchPoints]Vec2
	gamepadButtons [MaxGamepads][MaxGamepadButtons]bool
	gamepadAxes    [MaxGamepads][MaxGamepadAxes]float32
}

func (f *frame) resetTouch() {
	for i := range f.touchID {
		f.touchID[i] = -1
		f.touchPos[i] = Vec2{X: -1, Y: -1}
	}
}

type gamepad struct {
	ready     bool
	name      string
	axisCount int
}

// Snapshot is the per-frame input state shared between the frame loop and
// every input producer (toolkit callbacks, host events, device workers).
//
// A single mutex guards the whole structure. Producers hold it only for the
// duration of one mutation or one Batch; the frame loop holds it for the
// frame rotation in AdvanceFrame and for each query.
//
// Producers write into next. Queries read cur and prev, which only change
// in AdvanceFrame, so a write made at any point during a frame becomes
// visible at the following AdvanceFrame and a press is never folded into
// the previous frame unseen.
type Snapshot struct {
	mu sync.Mutex

	cur  frame
	prev frame
	next frame

	keyQueue  ring[Key]
	charQueue ring[rune]

	gamepads          [MaxGamepads]gamepad
	lastGamepadButton GamepadButton

	bounds         Vec2
	offset         Vec2
	scale          Vec2
	cursor         Cursor
	cursorHidden   bool
	cursorLocked   bool
	cursorOnScreen bool

	exitKey Key

	keyDrops  atomic.Uint64
	charDrops atomic.Uint64
}

// Drops counts events discarded because a bounded queue was full.
type Drops struct {
	Keys  uint64 `json:"keys"`
	Chars uint64 `json:"chars"`
}

// NewSnapshot returns an empty snapshot with unit mouse scale and Escape as
// the exit key.
func NewSnapshot() *Snapshot {
	s := &Snapshot{
		keyQueue:  newRing[Key](MaxKeyPressedQueue),
		charQueue: newRing[rune](MaxCharPressedQueue),
		scale:     Vec2{X: 1, Y: 1},
		exitKey:   KeyEscape,
	}
	s.cur.resetTouch()
	s.prev.resetTouch()
	s.next.resetTouch()
	return s
}

// AdvanceFrame rotates the frames: current becomes previous and everything
// written since the last call becomes current. It must be called exactly
// once per frame by the frame loop. Key repeat flags and the wheel delta
// belong to a single frame and start empty in the next one.
func (s *Snapshot) AdvanceFrame() {
	s.mu.Lock()
	s.prev = s.cur
	s.cur = s.next
	clear(s.next.keyRepeat[:])
	s.next.wheel = Vec2{}
	s.mu.Unlock()
}

// Apply commits every operation in b under one lock acquisition, so a
// multi-field update is never observed half-applied.
func (s *Snapshot) Apply(b *Batch) {
	if b.Len() == 0 {
		return
	}
	s.mu.Lock()
	for i := 0; i < b.n; i++ {
		s.applyLocked(&b.ops[i])
	}
	s.mu.Unlock()
}

func (s *Snapshot) apply(o op) {
	s.mu.Lock()
	s.applyLocked(&o)
	s.mu.Unlock()
}

// SetBounds sets the screen size used to clamp relative pointer motion and
// to scale absolute device coordinates.
func (s *Snapshot) SetBounds(width, height int) {
	s.mu.Lock()
	s.bounds = Vec2{X: float32(width), Y: float32(height)}
	s.mu.Unlock()
}

// Bounds returns the current pointer bounds.
func (s *Snapshot) Bounds() Vec2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds
}

// Keyboard producers.

func (s *Snapshot) SetKey(k Key, down bool) {
	s.apply(op{kind: opKey, a: int32(k), down: down})
}

func (s *Snapshot) SetKeyRepeat(k Key) {
	s.apply(op{kind: opKeyRepeat, a: int32(k)})
}

// PushKey queues a key press for GetKeyPressed. A full queue drops k.
func (s *Snapshot) PushKey(k Key) {
	s.apply(op{kind: opPushKey, a: int32(k)})
}

// PushChar queues a unicode character for GetCharPressed. A full queue drops r.
func (s *Snapshot) PushChar(r rune) {
	s.apply(op{kind: opPushChar, a: int32(r)})
}

// Mouse producers.

func (s *Snapshot) SetMouseButton(b MouseButton, down bool) {
	s.apply(op{kind: opMouseButton, a: int32(b), down: down})
}

// UpdateMousePosition records an absolute pointer position in window pixels.
func (s *Snapshot) UpdateMousePosition(x, y float32) {
	s.apply(op{kind: opMousePos, x: x, y: y})
}

// MoveMouse adds a relative delta, clamped to the pointer bounds.
func (s *Snapshot) MoveMouse(dx, dy float32) {
	s.apply(op{kind: opMouseMove, x: dx, y: dy})
}

func (s *Snapshot) AddWheel(dx, dy float32) {
	s.apply(op{kind: opWheel, x: dx, y: dy})
}

func (s *Snapshot) SetCursorOnScreen(on bool) {
	s.mu.Lock()
	s.cursorOnScreen = on
	s.mu.Unlock()
}

// Touch producers.

// SetTouchPoint sets slot to an active contact at (x, y).
func (s *Snapshot) SetTouchPoint(slot int, id int32, x, y float32) {
	s.mu.Lock()
	s.applyLocked(&op{kind: opTouchID, a: int32(slot), b: id})
	s.applyLocked(&op{kind: opTouchPos, a: int32(slot), x: x, y: y})
	s.mu.Unlock()
}

func (s *Snapshot) LiftTouchPoint(slot int) {
	s.apply(op{kind: opTouchLift, a: int32(slot)})
}

// SetTouchCount lifts every slot at or beyond n, leaving at most n active
// contacts.
func (s *Snapshot) SetTouchCount(n int) {
	n = max(n, 0)
	s.mu.Lock()
	for slot := n; slot < MaxTouchPoints; slot++ {
		s.liftLocked(slot)
	}
	s.mu.Unlock()
}

// Gamepad producers.

// ConnectGamepad claims the lowest free gamepad slot. It returns false when
// every slot is in use.
func (s *Snapshot) ConnectGamepad(name string, axisCount int) (int, bool) {
	if axisCount > MaxGamepadAxes {
		axisCount = MaxGamepadAxes
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.gamepads {
		if s.gamepads[i].ready {
			continue
		}
		s.gamepads[i] = gamepad{ready: true, name: name, axisCount: axisCount}
		s.clearPadLocked(i)
		return i, true
	}
	return -1, false
}

// DisconnectGamepad marks pad not ready and clears its buttons and axes.
func (s *Snapshot) DisconnectGamepad(pad int) {
	if pad < 0 || pad >= MaxGamepads {
		return
	}
	s.mu.Lock()
	s.gamepads[pad] = gamepad{}
	s.clearPadLocked(pad)
	s.mu.Unlock()
}

// clearPadLocked wipes pad from every frame so a reused slot reports no
// stale buttons or release edges.
func (s *Snapshot) clearPadLocked(pad int) {
	for _, f := range []*frame{&s.cur, &s.prev, &s.next} {
		f.gamepadButtons[pad] = [MaxGamepadButtons]bool{}
		f.gamepadAxes[pad] = [MaxGamepadAxes]float32{}
	}
}

func (s *Snapshot) SetGamepadButton(pad int, b GamepadButton, down bool) {
	s.apply(op{kind: opGamepadButton, a: int32(pad), b: int32(b), down: down})
}

func (s *Snapshot) SetGamepadAxis(pad int, axis GamepadAxis, value float32) {
	s.apply(op{kind: opGamepadAxis, a: int32(pad), b: int32(axis), x: value})
}

func (s *Snapshot) applyLocked(o *op) {
	switch o.kind {
	case opKey:
		if validKey(o.a) {
			s.next.keys[o.a] = o.down
		}
	case opKeyRepeat:
		if validKey(o.a) {
			s.next.keys[o.a] = true
			s.next.keyRepeat[o.a] = true
		}
	case opPushKey:
		if !s.keyQueue.push(Key(o.a)) {
			s.keyDrops.Add(1)
		}
	case opPushChar:
		if !s.charQueue.push(rune(o.a)) {
			s.charDrops.Add(1)
		}
	case opMouseButton:
		if o.a >= 0 && o.a < MaxMouseButtons {
			s.next.mouseButtons[o.a] = o.down
		}
	case opMousePos:
		s.next.mouse = Vec2{X: o.x, Y: o.y}
	case opMouseMove:
		s.next.mouse.X = clampAxis(s.next.mouse.X+o.x, s.bounds.X)
		s.next.mouse.Y = clampAxis(s.next.mouse.Y+o.y, s.bounds.Y)
	case opMouseAbs:
		if o.a == axisX {
			s.next.mouse.X = o.x * s.bounds.X
		} else {
			s.next.mouse.Y = o.x * s.bounds.Y
		}
	case opWheel:
		s.next.wheel.X += o.x
		s.next.wheel.Y += o.y
	case opTouchID:
		if !validSlot(o.a) {
			return
		}
		if o.b < 0 {
			s.liftLocked(int(o.a))
			return
		}
		if s.next.touchID[o.a] != o.b {
			// A new contact never inherits the previous contact's position.
			s.next.touchPos[o.a] = Vec2{X: -1, Y: -1}
		}
		s.next.touchID[o.a] = o.b
		s.next.touchDown[o.a] = true
	case opTouchPos:
		if validSlot(o.a) {
			s.next.touchPos[o.a] = Vec2{X: o.x, Y: o.y}
		}
	case opTouchAbs:
		if !validSlot(o.a) {
			return
		}
		if o.b == axisX {
			s.next.touchPos[o.a].X = o.x * s.bounds.X
		} else {
			s.next.touchPos[o.a].Y = o.x * s.bounds.Y
		}
	case opTouchLift:
		if validSlot(o.a) {
			s.liftLocked(int(o.a))
		}
	case opGamepadButton:
		if !validPad(o.a) || o.b < 0 || o.b >= MaxGamepadButtons || !s.gamepads[o.a].ready {
			return
		}
		s.next.gamepadButtons[o.a][o.b] = o.down
		if o.down {
			s.lastGamepadButton = GamepadButton(o.b)
		}
	case opGamepadAxis:
		if !validPad(o.a) || o.b < 0 || o.b >= MaxGamepadAxes || !s.gamepads[o.a].ready {
			return
		}
		s.next.gamepadAxes[o.a][o.b] = o.x
	}
}

func (s *Snapshot) liftLocked(slot int) {
	s.next.touchID[slot] = -1
	s.next.touchPos[slot] = Vec2{X: -1, Y: -1}
	s.next.touchDown[slot] = false
}

func clampAxis(v, limit float32) float32 {
	if v < 0 {
		return 0
	}
	if limit > 0 && v > limit {
		return limit
	}
	return v
}

func validKey(k int32) bool  { return k > 0 && k < MaxKeyboardKeys }
func validSlot(i int32) bool { return i >= 0 && i < MaxTouchPoints }
func validPad(i int32) bool  { return i >= 0 && i < MaxGamepads }
