package devices

import (
	"sync"
	"sync/atomic"

	"github.com/1broseidon/framecore/internal/evdev"
	"github.com/1broseidon/framecore/internal/input"
)

// maxEventOps is the most batch operations one input event produces: a
// single-touch BTN_TOUCH press.
const maxEventOps = 4

// worker reads one device and translates its event stream into snapshot
// batches. Classification is fixed at spawn.
type worker struct {
	path    string
	ordinal int
	dev     Device
	caps    evdev.Capabilities
	class   evdev.Class
	pad     int

	snap *input.Snapshot

	// touchEnabled is cleared when another touch device takes precedence.
	touchEnabled atomic.Bool

	closeOnce sync.Once
	closeErr  error
	done      chan struct{}

	// Translation state, owned by the worker goroutine.
	batch    input.Batch
	dropping bool
	slot     int
	shift    [2]bool
	capsLock bool
	lastAbs  [2]float32
	contact  int32
}

func newWorker(path string, dev Device, class evdev.Class, pad int, snap *input.Snapshot) *worker {
	w := &worker{
		path:    path,
		ordinal: Ordinal(path),
		dev:     dev,
		caps:    dev.Capabilities(),
		class:   class,
		pad:     pad,
		snap:    snap,
		done:    make(chan struct{}),
	}
	w.touchEnabled.Store(true)
	return w
}

// run reads until the device fails or is closed and returns the read error.
func (w *worker) run() error {
	r := evdev.NewReader(w.dev)
	events := make([]evdev.Event, evdev.ReaderBatch)
	for {
		n, err := r.Read(events)
		for i := 0; i < n; i++ {
			w.handle(events[i])
		}
		if err != nil {
			return err
		}
	}
}

func (w *worker) close() error {
	w.closeOnce.Do(func() { w.closeErr = w.dev.Close() })
	return w.closeErr
}

func (w *worker) commit() {
	w.snap.Apply(&w.batch)
	w.batch.Reset()
}

func (w *worker) handle(ev evdev.Event) {
	if ev.Type == evdev.EvSyn {
		switch ev.Code {
		case evdev.SynReport:
			if w.dropping {
				w.dropping = false
				w.batch.Reset()
				return
			}
			w.commit()
		case evdev.SynDropped:
			// The kernel buffer overran; state until the next report is
			// unreliable.
			w.dropping = true
			w.batch.Reset()
		}
		return
	}
	if w.dropping {
		return
	}
	if w.batch.Free() < maxEventOps {
		w.commit()
	}

	switch ev.Type {
	case evdev.EvRel:
		w.handleRel(ev)
	case evdev.EvAbs:
		w.handleAbs(ev)
	case evdev.EvKey:
		w.handleKey(ev)
	}
}

func (w *worker) handleRel(ev evdev.Event) {
	if !w.class.Has(evdev.ClassMouse) {
		return
	}
	v := float32(ev.Value)
	switch ev.Code {
	case evdev.RelX:
		w.batch.MouseMove(v, 0)
	case evdev.RelY:
		w.batch.MouseMove(0, v)
	case evdev.RelWheel:
		w.batch.Wheel(0, v)
	case evdev.RelHWheel:
		w.batch.Wheel(v, 0)
	}
}

func (w *worker) handleAbs(ev evdev.Event) {
	if int(ev.Code) >= evdev.AbsCnt {
		return
	}
	if w.class.Has(evdev.ClassGamepad) && w.pad >= 0 {
		if w.handleGamepadAbs(ev) {
			return
		}
	}
	if !w.class.Has(evdev.ClassTouch) || !w.touchEnabled.Load() {
		return
	}

	norm := w.caps.Ranges[ev.Code].Normalize(ev.Value)
	if w.class.Has(evdev.ClassMultitouch) {
		switch ev.Code {
		case evdev.AbsMTSlot:
			w.slot = int(ev.Value)
		case evdev.AbsMTTrackingID:
			w.batch.TouchID(w.slot, ev.Value)
		case evdev.AbsMTPositionX:
			w.batch.TouchAbsX(w.slot, norm)
			if w.slot == 0 {
				w.batch.MouseAbsX(norm)
			}
		case evdev.AbsMTPositionY:
			w.batch.TouchAbsY(w.slot, norm)
			if w.slot == 0 {
				w.batch.MouseAbsY(norm)
			}
		}
		return
	}

	switch ev.Code {
	case evdev.AbsX:
		w.lastAbs[0] = norm
		w.batch.MouseAbsX(norm)
		w.batch.TouchAbsX(0, norm)
	case evdev.AbsY:
		w.lastAbs[1] = norm
		w.batch.MouseAbsY(norm)
		w.batch.TouchAbsY(0, norm)
	}
}

func (w *worker) handleGamepadAbs(ev evdev.Event) bool {
	switch ev.Code {
	case evdev.AbsHat0X:
		w.batch.GamepadButton(w.pad, input.GamepadButtonLeftFaceLeft, ev.Value < 0)
		w.batch.GamepadButton(w.pad, input.GamepadButtonLeftFaceRight, ev.Value > 0)
		return true
	case evdev.AbsHat0Y:
		w.batch.GamepadButton(w.pad, input.GamepadButtonLeftFaceUp, ev.Value < 0)
		w.batch.GamepadButton(w.pad, input.GamepadButtonLeftFaceDown, ev.Value > 0)
		return true
	}
	axis, ok := evdev.TranslateGamepadAxis(ev.Code)
	if !ok {
		return false
	}
	w.batch.GamepadAxis(w.pad, axis, w.caps.Ranges[ev.Code].Centered(ev.Value))
	return true
}

func (w *worker) handleKey(ev evdev.Event) {
	down := ev.Value != 0

	if ev.Code == evdev.BtnTouch {
		if !w.class.Has(evdev.ClassTouch) || !w.touchEnabled.Load() {
			return
		}
		w.batch.MouseButton(input.MouseButtonLeft, down)
		if w.class.Has(evdev.ClassMultitouch) {
			return
		}
		// Single-touch devices carry no tracking ids: each contact gets a
		// fresh id and re-applies the last reported position.
		if down {
			w.contact++
			w.batch.TouchID(0, w.contact)
			w.batch.TouchAbsX(0, w.lastAbs[0])
			w.batch.TouchAbsY(0, w.lastAbs[1])
		} else {
			w.batch.TouchLift(0)
		}
		return
	}

	if ev.Code < evdev.BtnMisc {
		if w.class.Has(evdev.ClassKeyboard) {
			w.handleKeyboard(ev)
		}
		return
	}

	if w.class.Has(evdev.ClassGamepad) && w.pad >= 0 {
		if b, ok := evdev.TranslateGamepadButton(ev.Code); ok {
			w.batch.GamepadButton(w.pad, b, down)
			return
		}
	}
	if w.class.Has(evdev.ClassMouse) {
		if b, ok := evdev.TranslateMouseButton(ev.Code); ok {
			w.batch.MouseButton(b, down)
		}
	}
}

func (w *worker) handleKeyboard(ev evdev.Event) {
	switch ev.Code {
	case evdev.KeyLeftShift:
		w.shift[0] = ev.Value != 0
	case evdev.KeyRightShift:
		w.shift[1] = ev.Value != 0
	case evdev.KeyCapsLock:
		if ev.Value == 1 {
			w.capsLock = !w.capsLock
		}
	}

	k, ok := evdev.TranslateKey(ev.Code)
	if !ok {
		return
	}
	switch ev.Value {
	case 0:
		w.batch.Key(k, false)
	case 1:
		w.batch.Key(k, true)
		w.batch.PushKey(k)
		w.pushChar(k)
	case 2:
		w.batch.KeyRepeat(k)
		w.pushChar(k)
	}
}

func (w *worker) pushChar(k input.Key) {
	if r, ok := evdev.KeyRune(k, w.shift[0] || w.shift[1], w.capsLock); ok {
		w.batch.PushChar(r)
	}
}
