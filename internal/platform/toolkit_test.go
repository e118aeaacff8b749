package platform

import (
	"fmt"
	"slices"
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/framecore/internal/input"
	"github.com/1broseidon/framecore/internal/window"
	"github.com/1broseidon/framecore/internal/x11"
)

type fakeConn struct {
	events  []xgb.Event
	closed  bool // report ErrClosed once events run out
	flushes int
}

func (c *fakeConn) PollEvent() (xgb.Event, error) {
	if len(c.events) == 0 {
		if c.closed {
			return nil, x11.ErrClosed
		}
		return nil, nil
	}
	ev := c.events[0]
	c.events = c.events[1:]
	return ev, nil
}

func (c *fakeConn) WaitEvent() (xgb.Event, error) { return c.PollEvent() }
func (c *fakeConn) Flush()                        { c.flushes++ }
func (c *fakeConn) Close()                        {}

type fakeWindow struct {
	calls []string
}

func (w *fakeWindow) record(name string)            { w.calls = append(w.calls, name) }
func (w *fakeWindow) SetTitle(string)               { w.record("title") }
func (w *fakeWindow) SetFullscreen(bool) error      { w.record("fullscreen"); return nil }
func (w *fakeWindow) SetDecorated(bool) error       { w.record("decorated"); return nil }
func (w *fakeWindow) SetMaximized(bool) error       { w.record("maximize"); return nil }
func (w *fakeWindow) Minimize() error               { w.record("minimize"); return nil }
func (w *fakeWindow) Focus() error                  { w.record("focus"); return nil }
func (w *fakeWindow) Show()                         { w.record("show") }
func (w *fakeWindow) Hide()                         { w.record("hide") }
func (w *fakeWindow) MoveResize(int, int, int, int) { w.record("moveresize") }
func (w *fakeWindow) GrabPointer() error            { w.record("grab"); return nil }
func (w *fakeWindow) UngrabPointer()                { w.record("ungrab") }
func (w *fakeWindow) Destroy()                      { w.record("destroy") }
func (w *fakeWindow) SetCursor(c input.Cursor, hidden bool) error {
	if hidden {
		w.record("cursor:hidden")
	} else {
		w.record(fmt.Sprintf("cursor:%d", c))
	}
	return nil
}

type escapeKeymap struct{}

func (escapeKeymap) Keysym(code xproto.Keycode, _ byte) xproto.Keysym {
	if code == 9 {
		return 0xff1b
	}
	return 0
}

func newTestToolkit(t *testing.T) (*Toolkit, *fakeConn, *fakeWindow, Target) {
	t.Helper()
	target := Target{Window: window.New("test", 640, 480, 0), Input: input.NewSnapshot()}
	b, err := New(KindToolkit, target, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tk := b.(*Toolkit)
	conn, win := &fakeConn{}, &fakeWindow{}
	tk.conn, tk.win = conn, win
	tk.tr = x11.NewTranslator(target.Input, target.Window, escapeKeymap{}, 1, 2)
	tk.applied = tk.current()
	return tk, conn, win, target
}

func TestToolkitSyncsRequests(t *testing.T) {
	tests := []struct {
		name  string
		apply func(Target)
		want  []string
	}{
		{"hide", func(tg Target) { tg.Window.SetHidden(true) }, []string{"hide"}},
		{"unfocus is not requested", func(tg Target) { tg.Window.SetFocused(false) }, nil},
		{"minimize", func(tg Target) { tg.Window.SetMinimized(true) }, []string{"minimize"}},
		{"maximize", func(tg Target) { tg.Window.SetMaximized(true) }, []string{"maximize"}},
		{"title", func(tg Target) { tg.Window.SetTitle("renamed") }, []string{"title"}},
		{"hide cursor", func(tg Target) { tg.Input.HideCursor() }, []string{"cursor:hidden"}},
		{"cursor shape", func(tg Target) { tg.Input.SetMouseCursor(input.CursorIBeam) }, []string{"cursor:2"}},
		{"disable cursor", func(tg Target) { tg.Input.DisableCursor() }, []string{"cursor:hidden", "grab"}},
		{"no change", func(Target) {}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk, _, win, target := newTestToolkit(t)
			tt.apply(target)
			tk.PollEvents()
			if !slices.Equal(win.calls, tt.want) {
				t.Fatalf("calls = %v, want %v", win.calls, tt.want)
			}
		})
	}
}

func TestToolkitFocusAndCursorRoundTrip(t *testing.T) {
	tk, conn, win, target := newTestToolkit(t)

	// The server reports focus loss; nothing is requested back.
	conn.events = append(conn.events, xproto.FocusOutEvent{})
	tk.PollEvents()
	if target.Window.IsFocused() || len(win.calls) != 0 {
		t.Fatalf("focused = %v calls = %v", target.Window.IsFocused(), win.calls)
	}

	target.Window.SetFocused(true)
	target.Input.DisableCursor()
	tk.PollEvents()
	target.Input.EnableCursor()
	tk.PollEvents()

	want := []string{"focus", "cursor:hidden", "grab", "cursor:0", "ungrab"}
	if !slices.Equal(win.calls, want) {
		t.Fatalf("calls = %v, want %v", win.calls, want)
	}
}

func TestToolkitEventsVisibleAfterPoll(t *testing.T) {
	tk, conn, _, target := newTestToolkit(t)

	conn.events = append(conn.events, xproto.KeyPressEvent{Detail: 9, Time: 1})
	tk.PollEvents()
	if !target.Input.IsKeyPressed(input.KeyEscape) {
		t.Fatal("a key drained by this poll should be pressed in the next frame")
	}
}

func TestToolkitClosedConnectionRequestsClose(t *testing.T) {
	tk, conn, _, target := newTestToolkit(t)

	conn.events = append(conn.events, xproto.KeyPressEvent{Detail: 9, Time: 1})
	conn.closed = true
	tk.PollEvents()

	if !target.Window.ShouldClose() {
		t.Fatal("a lost server connection should request close")
	}
	if !target.Input.IsKeyDown(input.KeyEscape) {
		t.Fatal("events read before the loss should still apply")
	}
	if tk.conn != nil || tk.win != nil {
		t.Fatal("the dead connection should be dropped")
	}

	// Later polls and shutdown must not touch the dead connection.
	tk.PollEvents()
	if err := tk.SwapBuffers(); err != nil {
		t.Fatalf("SwapBuffers: %v", err)
	}
	if err := tk.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
