package input

type opKind uint8

const (
	opKey opKind = iota + 1
	opKeyRepeat
	opPushKey
	opPushChar
	opMouseButton
	opMousePos
	opMouseMove
	opMouseAbs
	opWheel
	opTouchID
	opTouchPos
	opTouchAbs
	opTouchLift
	opGamepadButton
	opGamepadAxis
)

const (
	axisX int32 = 0
	axisY int32 = 1
)

type op struct {
	kind opKind
	down bool
	a    int32
	b    int32
	x    float32
	y    float32
}

// BatchCapacity is the number of operations a Batch holds before it must be
// committed.
const BatchCapacity = 64

// Batch collects the state changes of one device report so they can be
// committed atomically with Snapshot.Apply. It never allocates; callers
// check Free and commit early when a report exceeds BatchCapacity.
//
// Absolute positions are carried normalised to [0,1] and scaled by the
// snapshot bounds when applied.
type Batch struct {
	ops [BatchCapacity]op
	n   int
}

func (b *Batch) Len() int   { return b.n }
func (b *Batch) Full() bool { return b.n == BatchCapacity }

// Free is the number of operations that still fit.
func (b *Batch) Free() int { return BatchCapacity - b.n }

// Reset discards every pending operation.
func (b *Batch) Reset() { b.n = 0 }

func (b *Batch) add(o op) {
	if b.n == BatchCapacity {
		return
	}
	b.ops[b.n] = o
	b.n++
}

func (b *Batch) Key(k Key, down bool) {
	b.add(op{kind: opKey, a: int32(k), down: down})
}

func (b *Batch) KeyRepeat(k Key) {
	b.add(op{kind: opKeyRepeat, a: int32(k)})
}

func (b *Batch) PushKey(k Key) {
	b.add(op{kind: opPushKey, a: int32(k)})
}

func (b *Batch) PushChar(r rune) {
	b.add(op{kind: opPushChar, a: int32(r)})
}

func (b *Batch) MouseButton(btn MouseButton, down bool) {
	b.add(op{kind: opMouseButton, a: int32(btn), down: down})
}

func (b *Batch) MouseMove(dx, dy float32) {
	b.add(op{kind: opMouseMove, x: dx, y: dy})
}

func (b *Batch) MousePosition(x, y float32) {
	b.add(op{kind: opMousePos, x: x, y: y})
}

// MouseAbsX sets the pointer X coordinate from a normalised device value.
func (b *Batch) MouseAbsX(v float32) {
	b.add(op{kind: opMouseAbs, a: axisX, x: v})
}

// MouseAbsY sets the pointer Y coordinate from a normalised device value.
func (b *Batch) MouseAbsY(v float32) {
	b.add(op{kind: opMouseAbs, a: axisY, x: v})
}

func (b *Batch) Wheel(dx, dy float32) {
	b.add(op{kind: opWheel, x: dx, y: dy})
}

// TouchID assigns a tracking id to slot. A negative id lifts the contact.
func (b *Batch) TouchID(slot int, id int32) {
	b.add(op{kind: opTouchID, a: int32(slot), b: id})
}

func (b *Batch) TouchAbsX(slot int, v float32) {
	b.add(op{kind: opTouchAbs, a: int32(slot), b: axisX, x: v})
}

func (b *Batch) TouchAbsY(slot int, v float32) {
	b.add(op{kind: opTouchAbs, a: int32(slot), b: axisY, x: v})
}

func (b *Batch) TouchLift(slot int) {
	b.add(op{kind: opTouchLift, a: int32(slot)})
}

func (b *Batch) GamepadButton(pad int, btn GamepadButton, down bool) {
	b.add(op{kind: opGamepadButton, a: int32(pad), b: int32(btn), down: down})
}

func (b *Batch) GamepadAxis(pad int, axis GamepadAxis, v float32) {
	b.add(op{kind: opGamepadAxis, a: int32(pad), b: int32(axis), x: v})
}
