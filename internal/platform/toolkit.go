package platform

import (
	"errors"
	"log/slog"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/framecore/internal/input"
	"github.com/1broseidon/framecore/internal/window"
	"github.com/1broseidon/framecore/internal/x11"
)

// Toolkit drives an X11 application window. Events are pumped
// synchronously on the frame loop goroutine.
type Toolkit struct {
	target Target
	opts   Options
	log    *slog.Logger

	conn xconn
	win  appWindow
	tr   *x11.Translator

	// applied mirrors the window state last pushed to the server.
	applied applied
}

// xconn is the part of x11.Connection the frame loop uses.
type xconn interface {
	PollEvent() (xgb.Event, error)
	WaitEvent() (xgb.Event, error)
	Flush()
	Close()
}

// appWindow is the part of x11.AppWindow the frame loop uses.
type appWindow interface {
	SetTitle(title string)
	SetFullscreen(on bool) error
	SetDecorated(on bool) error
	SetMaximized(on bool) error
	Minimize() error
	Focus() error
	Show()
	Hide()
	MoveResize(x, y, width, height int)
	SetCursor(shape input.Cursor, hidden bool) error
	GrabPointer() error
	UngrabPointer()
	Destroy()
}

type applied struct {
	title        string
	fullscreen   bool
	borderless   bool
	hidden       bool
	minimized    bool
	maximized    bool
	focused      bool
	cursor       input.Cursor
	cursorHidden bool
	cursorLocked bool
	screen       window.Size
	position     window.Point
}

func newToolkit(target Target, opts Options) *Toolkit {
	return &Toolkit{
		target: target,
		opts:   opts,
		log:    target.Logger.With("backend", string(KindToolkit)),
	}
}

func (t *Toolkit) Name() string { return string(KindToolkit) }

func (t *Toolkit) Init(cfg Config) (Handle, error) {
	conn, err := x11.NewConnection(t.opts.Display)
	if err != nil {
		return Handle{}, &InitError{Backend: t.Name(), Op: "connect", Err: err}
	}
	t.conn = conn
	state := t.target.Window

	origin := window.Point{}
	mon, err := conn.PrimaryMonitor()
	if err == nil {
		origin = window.Point{X: mon.X, Y: mon.Y}
		state.SetDisplay(window.Size{Width: mon.Width, Height: mon.Height})
		state.SetRefreshRate(mon.RefreshRate)
		t.log.Info("display detected", "monitor", mon.Name, "width", mon.Width, "height", mon.Height, "refresh", mon.RefreshRate)
	} else {
		root := xwindow.RootGeometry(conn.XUtil)
		state.SetDisplay(window.Size{Width: root.Width(), Height: root.Height()})
		t.log.Warn("randr unavailable, using root window size", "error", err)
	}

	state.SetMinSize(cfg.MinSize.Width, cfg.MinSize.Height)
	state.SetMaxSize(cfg.MaxSize.Width, cfg.MaxSize.Height)

	screen := state.Screen()
	display := state.Display()
	pos := window.Point{
		X: origin.X + max(display.Width-screen.Width, 0)/2,
		Y: origin.Y + max(display.Height-screen.Height, 0)/2,
	}
	if state.IsFullscreen() || state.IsBorderless() {
		pos = origin
	}
	state.Move(pos.X, pos.Y)

	win, err := conn.CreateWindow(x11.WindowOptions{
		Title:       cfg.Title,
		X:           pos.X,
		Y:           pos.Y,
		Width:       screen.Width,
		Height:      screen.Height,
		MinWidth:    cfg.MinSize.Width,
		MinHeight:   cfg.MinSize.Height,
		MaxWidth:    cfg.MaxSize.Width,
		MaxHeight:   cfg.MaxSize.Height,
		Resizable:   cfg.Flags.Has(window.FlagResizable),
		Undecorated: cfg.Flags.Has(window.FlagUndecorated) || state.IsBorderless(),
		Topmost:     cfg.Flags.Has(window.FlagTopmost),
		Hidden:      cfg.Flags.Has(window.FlagHidden),
	})
	if err != nil {
		conn.Close()
		t.conn = nil
		return Handle{}, &InitError{Backend: t.Name(), Op: "create window", Err: err}
	}
	t.win = win
	t.tr = x11.NewTranslator(t.target.Input, state, conn.Keymap(), win.WMProtocols, win.WMDelete)

	if state.IsFullscreen() {
		if err := win.SetFullscreen(true); err != nil {
			t.log.Warn("fullscreen request failed", "error", err)
		}
	}
	if cfg.Flags.Has(window.FlagMaximized) {
		if err := win.SetMaximized(true); err != nil {
			t.log.Warn("maximize request failed", "error", err)
		}
	}
	if cfg.Flags.Has(window.FlagMinimized) {
		if err := win.Minimize(); err != nil {
			t.log.Warn("minimize request failed", "error", err)
		}
	}
	state.SetEventWaiting(t.opts.EventWaiting)
	state.SetReady(true)
	t.target.Input.SetBounds(screen.Width, screen.Height)
	t.applied = t.current()
	conn.Flush()

	t.log.Info("window created", "id", uint32(win.ID), "width", screen.Width, "height", screen.Height)
	return Handle{Kind: KindToolkit, Window: uint32(win.ID)}, nil
}

func (t *Toolkit) current() applied {
	s := t.target.Window
	in := t.target.Input
	return applied{
		title:        s.Title(),
		fullscreen:   s.IsFullscreen(),
		borderless:   s.IsBorderless(),
		hidden:       s.IsHidden(),
		minimized:    s.IsMinimized(),
		maximized:    s.IsMaximized(),
		focused:      s.IsFocused(),
		cursor:       in.MouseCursor(),
		cursorHidden: in.IsCursorHidden(),
		cursorLocked: in.IsCursorLocked(),
		screen:       s.Screen(),
		position:     s.Position(),
	}
}

// PollEvents drains the X event queue and then advances the input frame,
// so everything read in this drain is visible to the frame that follows.
// With event waiting enabled it blocks until at least one event arrives.
func (t *Toolkit) PollEvents() {
	t.target.Window.ClearResized()
	if t.conn != nil {
		// Requests made by the app since the last poll go out first so the
		// resulting notifications are seen in this drain.
		t.syncRequests()
		t.drain()
	}
	t.target.Input.AdvanceFrame()
}

func (t *Toolkit) drain() {
	if t.target.Window.EventWaiting() {
		if !t.handle(t.conn.WaitEvent()) {
			return
		}
	}
	for {
		ev, err := t.conn.PollEvent()
		if ev == nil && err == nil {
			break
		}
		if !t.handle(ev, err) {
			return
		}
	}
	t.tr.Flush()
	t.applied = t.current()
}

// handle applies one event. It reports false once the server is gone.
func (t *Toolkit) handle(ev xgb.Event, err error) bool {
	switch {
	case errors.Is(err, x11.ErrClosed):
		t.log.Warn("x connection closed")
		t.tr.Flush()
		t.target.Window.RequestClose()
		t.conn, t.win = nil, nil
		return false
	case err != nil:
		t.log.Debug("x event error", "error", err)
	case ev != nil:
		t.tr.Handle(ev)
	}
	return true
}

// syncRequests pushes window and cursor state changed through the State
// and Snapshot APIs since the last drain to the server.
func (t *Toolkit) syncRequests() {
	want := t.current()
	have := t.applied
	if want == have {
		return
	}
	if want.title != have.title {
		t.win.SetTitle(want.title)
	}
	if want.fullscreen != have.fullscreen {
		if err := t.win.SetFullscreen(want.fullscreen); err != nil {
			t.log.Warn("fullscreen request failed", "error", err)
		}
	}
	if want.borderless != have.borderless {
		if err := t.win.SetDecorated(!want.borderless); err != nil {
			t.log.Warn("decoration request failed", "error", err)
		}
	}
	if want.hidden != have.hidden {
		if want.hidden {
			t.win.Hide()
		} else {
			t.win.Show()
		}
	}
	if want.minimized != have.minimized {
		if want.minimized {
			if err := t.win.Minimize(); err != nil {
				t.log.Warn("minimize request failed", "error", err)
			}
		} else {
			t.win.Show()
		}
	}
	if want.maximized != have.maximized {
		if err := t.win.SetMaximized(want.maximized); err != nil {
			t.log.Warn("maximize request failed", "error", err)
		}
	}
	if want.focused && !have.focused {
		if err := t.win.Focus(); err != nil {
			t.log.Warn("focus request failed", "error", err)
		}
	}
	if want.cursor != have.cursor || want.cursorHidden != have.cursorHidden {
		if err := t.win.SetCursor(want.cursor, want.cursorHidden); err != nil {
			t.log.Warn("cursor request failed", "error", err)
		}
	}
	if want.cursorLocked != have.cursorLocked {
		if want.cursorLocked {
			if err := t.win.GrabPointer(); err != nil {
				t.log.Warn("pointer lock failed", "error", err)
			}
		} else {
			t.win.UngrabPointer()
		}
	}
	if want.screen != have.screen || want.position != have.position {
		t.win.MoveResize(want.position.X, want.position.Y, want.screen.Width, want.screen.Height)
	}
	t.applied = want
	t.conn.Flush()
}

// SwapBuffers flushes pending requests. Presentation belongs to the
// graphics layer bound to the window handle.
func (t *Toolkit) SwapBuffers() error {
	if t.conn != nil {
		t.conn.Flush()
	}
	return nil
}

func (t *Toolkit) Shutdown() error {
	if t.win != nil {
		t.win.Destroy()
		t.win = nil
	}
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
	}
	t.target.Window.SetReady(false)
	return nil
}
