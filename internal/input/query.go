package input

import "math"

// Keyboard queries.

func (s *Snapshot) IsKeyPressed(k Key) bool {
	if !validKey(int32(k)) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.keys[k] && !s.prev.keys[k]
}

// IsKeyPressedRepeat reports an auto-repeat press delivered during this frame.
func (s *Snapshot) IsKeyPressedRepeat(k Key) bool {
	if !validKey(int32(k)) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.keyRepeat[k]
}

func (s *Snapshot) IsKeyDown(k Key) bool {
	if !validKey(int32(k)) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.keys[k]
}

func (s *Snapshot) IsKeyReleased(k Key) bool {
	if !validKey(int32(k)) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.cur.keys[k] && s.prev.keys[k]
}

func (s *Snapshot) IsKeyUp(k Key) bool {
	if !validKey(int32(k)) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.cur.keys[k]
}

// GetKeyPressed dequeues the oldest queued key press, or KeyNull.
func (s *Snapshot) GetKeyPressed() Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	k, _ := s.keyQueue.pop()
	return k
}

// GetCharPressed dequeues the oldest queued character, or 0.
func (s *Snapshot) GetCharPressed() rune {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, _ := s.charQueue.pop()
	return r
}

// ClearQueues drops every queued key and character.
func (s *Snapshot) ClearQueues() {
	s.mu.Lock()
	s.keyQueue.reset()
	s.charQueue.reset()
	s.mu.Unlock()
}

func (s *Snapshot) SetExitKey(k Key) {
	s.mu.Lock()
	s.exitKey = k
	s.mu.Unlock()
}

func (s *Snapshot) ExitKey() Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitKey
}

// Mouse queries.

func (s *Snapshot) IsMouseButtonPressed(b MouseButton) bool {
	if b < 0 || b >= MaxMouseButtons {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.mouseButtons[b] && !s.prev.mouseButtons[b]
}

func (s *Snapshot) IsMouseButtonDown(b MouseButton) bool {
	if b < 0 || b >= MaxMouseButtons {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.mouseButtons[b]
}

func (s *Snapshot) IsMouseButtonReleased(b MouseButton) bool {
	if b < 0 || b >= MaxMouseButtons {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.cur.mouseButtons[b] && s.prev.mouseButtons[b]
}

func (s *Snapshot) IsMouseButtonUp(b MouseButton) bool {
	if b < 0 || b >= MaxMouseButtons {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.cur.mouseButtons[b]
}

// MousePosition returns the pointer position mapped through the mouse
// offset and scale.
func (s *Snapshot) MousePosition() Vec2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Vec2{
		X: (s.cur.mouse.X + s.offset.X) * s.scale.X,
		Y: (s.cur.mouse.Y + s.offset.Y) * s.scale.Y,
	}
}

// RawMousePosition returns the pointer position in window pixels.
func (s *Snapshot) RawMousePosition() Vec2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.mouse
}

// MouseDelta returns the pointer motion since the previous frame.
func (s *Snapshot) MouseDelta() Vec2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Vec2{X: s.cur.mouse.X - s.prev.mouse.X, Y: s.cur.mouse.Y - s.prev.mouse.Y}
}

// SetMousePosition warps the pointer. The warp applies to every frame so it
// takes effect at once and does not register as motion.
func (s *Snapshot) SetMousePosition(x, y float32) {
	pos := Vec2{X: x, Y: y}
	s.mu.Lock()
	s.cur.mouse = pos
	s.prev.mouse = pos
	s.next.mouse = pos
	s.mu.Unlock()
}

func (s *Snapshot) SetMouseOffset(x, y float32) {
	s.mu.Lock()
	s.offset = Vec2{X: x, Y: y}
	s.mu.Unlock()
}

func (s *Snapshot) SetMouseScale(x, y float32) {
	s.mu.Lock()
	s.scale = Vec2{X: x, Y: y}
	s.mu.Unlock()
}

// MouseWheelMove returns the dominant wheel axis for this frame.
func (s *Snapshot) MouseWheelMove() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.cur.wheel
	if math.Abs(float64(w.X)) > math.Abs(float64(w.Y)) {
		return w.X
	}
	return w.Y
}

func (s *Snapshot) MouseWheelMoveV() Vec2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.wheel
}

// Cursor requests. The toolkit backend applies them at its next poll; the
// other backends draw no pointer and ignore them.

func (s *Snapshot) ShowCursor() { s.setCursorHidden(false) }
func (s *Snapshot) HideCursor() { s.setCursorHidden(true) }

func (s *Snapshot) EnableCursor() {
	s.mu.Lock()
	s.cursorLocked = false
	s.cursorHidden = false
	s.mu.Unlock()
}

// DisableCursor hides and locks the pointer to the window.
func (s *Snapshot) DisableCursor() {
	s.mu.Lock()
	s.cursorLocked = true
	s.cursorHidden = true
	s.mu.Unlock()
}

func (s *Snapshot) setCursorHidden(hidden bool) {
	s.mu.Lock()
	s.cursorHidden = hidden
	s.mu.Unlock()
}

func (s *Snapshot) IsCursorHidden() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursorHidden
}

func (s *Snapshot) IsCursorLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursorLocked
}

func (s *Snapshot) IsCursorOnScreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursorOnScreen
}

func (s *Snapshot) SetMouseCursor(c Cursor) {
	s.mu.Lock()
	s.cursor = c
	s.mu.Unlock()
}

func (s *Snapshot) MouseCursor() Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Touch queries. Indices address active contacts in slot order.

func (s *Snapshot) TouchPointCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, id := range s.cur.touchID {
		if id >= 0 {
			n++
		}
	}
	return n
}

// TouchPointID returns the tracking id of the i-th active contact, or -1.
func (s *Snapshot) TouchPointID(i int) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot := s.activeSlotLocked(i)
	if slot < 0 {
		return -1
	}
	return s.cur.touchID[slot]
}

// TouchPosition returns the position of the i-th active contact. A contact
// whose position has not been reported yet is at (-1, -1).
func (s *Snapshot) TouchPosition(i int) Vec2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot := s.activeSlotLocked(i)
	if slot < 0 {
		return Vec2{X: -1, Y: -1}
	}
	return s.cur.touchPos[slot]
}

// IsTouchSlotPressed reports a contact that began on slot this frame.
func (s *Snapshot) IsTouchSlotPressed(slot int) bool {
	if !validSlot(int32(slot)) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.touchDown[slot] && !s.prev.touchDown[slot]
}

// IsTouchSlotReleased reports a contact that lifted from slot this frame.
func (s *Snapshot) IsTouchSlotReleased(slot int) bool {
	if !validSlot(int32(slot)) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.cur.touchDown[slot] && s.prev.touchDown[slot]
}

func (s *Snapshot) activeSlotLocked(i int) int {
	if i < 0 {
		return -1
	}
	for slot, id := range s.cur.touchID {
		if id < 0 {
			continue
		}
		if i == 0 {
			return slot
		}
		i--
	}
	return -1
}

// Gamepad queries.

func (s *Snapshot) IsGamepadAvailable(pad int) bool {
	if !validPad(int32(pad)) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gamepads[pad].ready
}

func (s *Snapshot) GamepadName(pad int) string {
	if !validPad(int32(pad)) {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gamepads[pad].name
}

func (s *Snapshot) GamepadAxisCount(pad int) int {
	if !validPad(int32(pad)) {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gamepads[pad].axisCount
}

func (s *Snapshot) GamepadAxisMovement(pad int, axis GamepadAxis) float32 {
	if !validPad(int32(pad)) || axis < 0 || axis >= MaxGamepadAxes {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.gamepadAxes[pad][axis]
}

func (s *Snapshot) IsGamepadButtonPressed(pad int, b GamepadButton) bool {
	if !validPadButton(pad, b) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gamepads[pad].ready && s.cur.gamepadButtons[pad][b] && !s.prev.gamepadButtons[pad][b]
}

func (s *Snapshot) IsGamepadButtonDown(pad int, b GamepadButton) bool {
	if !validPadButton(pad, b) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gamepads[pad].ready && s.cur.gamepadButtons[pad][b]
}

func (s *Snapshot) IsGamepadButtonReleased(pad int, b GamepadButton) bool {
	if !validPadButton(pad, b) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gamepads[pad].ready && !s.cur.gamepadButtons[pad][b] && s.prev.gamepadButtons[pad][b]
}

func (s *Snapshot) IsGamepadButtonUp(pad int, b GamepadButton) bool {
	if !validPadButton(pad, b) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gamepads[pad].ready && !s.cur.gamepadButtons[pad][b]
}

func (s *Snapshot) LastGamepadButtonPressed() GamepadButton {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastGamepadButton
}

func validPadButton(pad int, b GamepadButton) bool {
	return validPad(int32(pad)) && b >= 0 && b < MaxGamepadButtons
}

// Drops returns the number of events discarded by full queues.
func (s *Snapshot) Drops() Drops {
	return Drops{Keys: s.keyDrops.Load(), Chars: s.charDrops.Load()}
}

// GamepadInfo describes one connected gamepad.
type GamepadInfo struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Axes  int    `json:"axes"`
}

// Summary is a point-in-time digest of the snapshot for status reporting.
type Summary struct {
	KeysDown    int           `json:"keys_down"`
	Mouse       Vec2          `json:"mouse"`
	TouchPoints int           `json:"touch_points"`
	Gamepads    []GamepadInfo `json:"gamepads"`
	Drops       Drops         `json:"drops"`
}

// Summarize builds a Summary under one lock acquisition.
func (s *Snapshot) Summarize() Summary {
	s.mu.Lock()
	sum := Summary{Mouse: s.cur.mouse}
	for _, down := range s.cur.keys {
		if down {
			sum.KeysDown++
		}
	}
	for _, id := range s.cur.touchID {
		if id >= 0 {
			sum.TouchPoints++
		}
	}
	for i, gp := range s.gamepads {
		if gp.ready {
			sum.Gamepads = append(sum.Gamepads, GamepadInfo{Index: i, Name: gp.name, Axes: gp.axisCount})
		}
	}
	s.mu.Unlock()
	sum.Drops = s.Drops()
	return sum
}
