package x11

import (
	"unicode"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/framecore/internal/input"
	"github.com/1broseidon/framecore/internal/window"
)

// Translator turns X events for the application window into input
// snapshot and window state updates. It runs on the frame loop goroutine.
type Translator struct {
	snap *input.Snapshot
	win  *window.State
	keys Keymap

	wmProtocols xproto.Atom
	wmDelete    xproto.Atom

	// pending holds a key release until the next event shows whether it
	// was half of an auto-repeat pair. held marks a release that already
	// survived one drain.
	pending *xproto.KeyReleaseEvent
	held    bool
}

// NewTranslator builds a translator for a window whose WM_PROTOCOLS and
// WM_DELETE_WINDOW atoms are given.
func NewTranslator(snap *input.Snapshot, win *window.State, keys Keymap, protocols, deleteWindow xproto.Atom) *Translator {
	return &Translator{
		snap:        snap,
		win:         win,
		keys:        keys,
		wmProtocols: protocols,
		wmDelete:    deleteWindow,
	}
}

// Handle applies one event.
func (t *Translator) Handle(ev xgb.Event) {
	if t.pending != nil {
		// X reports auto-repeat as a release and press sharing a timestamp.
		if p, ok := ev.(xproto.KeyPressEvent); ok && p.Detail == t.pending.Detail && p.Time == t.pending.Time {
			t.pending = nil
			t.keyRepeat(p)
			return
		}
		t.release()
	}

	switch e := ev.(type) {
	case xproto.KeyPressEvent:
		t.keyPress(e)
	case xproto.KeyReleaseEvent:
		t.pending = &e
		t.held = false
	case xproto.ButtonPressEvent:
		t.button(e.Detail, true)
	case xproto.ButtonReleaseEvent:
		t.button(e.Detail, false)
	case xproto.MotionNotifyEvent:
		t.snap.UpdateMousePosition(float32(e.EventX), float32(e.EventY))
	case xproto.EnterNotifyEvent:
		t.snap.SetCursorOnScreen(true)
		t.snap.UpdateMousePosition(float32(e.EventX), float32(e.EventY))
	case xproto.LeaveNotifyEvent:
		t.snap.SetCursorOnScreen(false)
	case xproto.FocusInEvent:
		t.win.SetFocused(true)
	case xproto.FocusOutEvent:
		t.win.SetFocused(false)
	case xproto.ConfigureNotifyEvent:
		t.win.Resize(int(e.Width), int(e.Height))
		t.win.Move(int(e.X), int(e.Y))
	case xproto.MapNotifyEvent:
		t.win.SetMinimized(false)
	case xproto.UnmapNotifyEvent:
		if !t.win.IsHidden() {
			t.win.SetMinimized(true)
		}
	case xproto.ClientMessageEvent:
		if e.Type == t.wmProtocols && e.Format == 32 && len(e.Data.Data32) > 0 &&
			xproto.Atom(e.Data.Data32[0]) == t.wmDelete {
			t.win.RequestClose()
		}
	}
}

// Flush ends a drain. A release left at the end of the queue is kept for
// one more drain, since the press of its auto-repeat pair may not have
// been read yet.
func (t *Translator) Flush() {
	if t.pending == nil {
		return
	}
	if !t.held {
		t.held = true
		return
	}
	t.release()
}

func (t *Translator) release() {
	if t.pending == nil {
		return
	}
	e := t.pending
	t.pending = nil
	t.held = false
	if k, ok := KeyFromKeysym(t.keys.Keysym(e.Detail, 0)); ok {
		t.snap.SetKey(k, false)
	}
}

func (t *Translator) keyPress(e xproto.KeyPressEvent) {
	k, ok := KeyFromKeysym(t.keys.Keysym(e.Detail, 0))
	if ok {
		t.snap.SetKey(k, true)
		t.snap.PushKey(k)
	}
	t.text(e.Detail, e.State)
}

func (t *Translator) keyRepeat(e xproto.KeyPressEvent) {
	if k, ok := KeyFromKeysym(t.keys.Keysym(e.Detail, 0)); ok {
		t.snap.SetKeyRepeat(k)
	}
	t.text(e.Detail, e.State)
}

func (t *Translator) text(code xproto.Keycode, state uint16) {
	if state&xproto.ModMaskControl != 0 {
		return
	}
	shift := state&xproto.ModMaskShift != 0
	sym := t.keys.Keysym(code, 0)
	if shift {
		if s := t.keys.Keysym(code, 1); s != 0 {
			sym = s
		}
	}
	r, ok := RuneFromKeysym(sym)
	if !ok {
		return
	}
	if state&xproto.ModMaskLock != 0 && unicode.IsLetter(r) {
		if shift {
			r = unicode.ToLower(r)
		} else {
			r = unicode.ToUpper(r)
		}
	}
	t.snap.PushChar(r)
}

func (t *Translator) button(b xproto.Button, down bool) {
	switch b {
	case 1:
		t.snap.SetMouseButton(input.MouseButtonLeft, down)
	case 2:
		t.snap.SetMouseButton(input.MouseButtonMiddle, down)
	case 3:
		t.snap.SetMouseButton(input.MouseButtonRight, down)
	case 4, 5, 6, 7:
		// Wheel steps arrive as press/release pairs; count presses only.
		if !down {
			return
		}
		switch b {
		case 4:
			t.snap.AddWheel(0, 1)
		case 5:
			t.snap.AddWheel(0, -1)
		case 6:
			t.snap.AddWheel(1, 0)
		case 7:
			t.snap.AddWheel(-1, 0)
		}
	case 8:
		t.snap.SetMouseButton(input.MouseButtonSide, down)
	case 9:
		t.snap.SetMouseButton(input.MouseButtonExtra, down)
	}
}
