package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WindowOptions describes the application window to create.
type WindowOptions struct {
	Title       string
	X, Y        int
	Width       int
	Height      int
	MinWidth    int
	MinHeight   int
	MaxWidth    int
	MaxHeight   int
	Resizable   bool
	Undecorated bool
	Topmost     bool
	Hidden      bool
}

// inputMask is every event the application window listens for.
const inputMask = xproto.EventMaskKeyPress | xproto.EventMaskKeyRelease |
	xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskEnterWindow | xproto.EventMaskLeaveWindow |
	xproto.EventMaskFocusChange | xproto.EventMaskStructureNotify |
	xproto.EventMaskPropertyChange

// AppWindow is the top-level window owned by the application.
type AppWindow struct {
	conn *Connection
	win  *xwindow.Window

	ID          xproto.Window
	WMProtocols xproto.Atom
	WMDelete    xproto.Atom

	cursors map[int]xproto.Cursor
	blank   xproto.Cursor
}

// CreateWindow creates and, unless hidden, maps the application window.
func (c *Connection) CreateWindow(opts WindowOptions) (*AppWindow, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window id: %w", err)
	}
	err = win.CreateChecked(c.Root, opts.X, opts.Y, opts.Width, opts.Height,
		xproto.CwBackPixel|xproto.CwEventMask, 0, inputMask)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w := &AppWindow{conn: c, win: win, ID: win.Id, cursors: make(map[int]xproto.Cursor)}

	if w.WMProtocols, err = xprop.Atm(c.XUtil, "WM_PROTOCOLS"); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("failed to intern WM_PROTOCOLS: %w", err)
	}
	if w.WMDelete, err = xprop.Atm(c.XUtil, "WM_DELETE_WINDOW"); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("failed to intern WM_DELETE_WINDOW: %w", err)
	}
	if err := icccm.WmProtocolsSet(c.XUtil, win.Id, []string{"WM_DELETE_WINDOW"}); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("failed to set WM_PROTOCOLS: %w", err)
	}

	w.SetTitle(opts.Title)
	w.SetSizeHints(opts.Width, opts.Height, opts.MinWidth, opts.MinHeight, opts.MaxWidth, opts.MaxHeight, opts.Resizable)
	if opts.Undecorated {
		w.SetDecorated(false)
	}
	if opts.Topmost {
		w.SetTopmost(true)
	}
	if !opts.Hidden {
		win.Map()
	}
	return w, nil
}

// SetTitle sets both the EWMH UTF-8 name and the legacy WM_NAME.
func (w *AppWindow) SetTitle(title string) {
	_ = ewmh.WmNameSet(w.conn.XUtil, w.ID, title)
	_ = icccm.WmNameSet(w.conn.XUtil, w.ID, title)
}

// SetSizeHints publishes min/max size. A non-resizable window pins both to
// the current size.
func (w *AppWindow) SetSizeHints(width, height, minW, minH, maxW, maxH int, resizable bool) {
	hints := &icccm.NormalHints{}
	if !resizable {
		minW, minH, maxW, maxH = width, height, width, height
	}
	if minW > 0 || minH > 0 {
		hints.Flags |= icccm.SizeHintPMinSize
		hints.MinWidth, hints.MinHeight = uint(minW), uint(minH)
	}
	if maxW > 0 || maxH > 0 {
		hints.Flags |= icccm.SizeHintPMaxSize
		hints.MaxWidth, hints.MaxHeight = uint(maxW), uint(maxH)
	}
	_ = icccm.WmNormalHintsSet(w.conn.XUtil, w.ID, hints)
}

// MoveResize moves and resizes the window.
func (w *AppWindow) MoveResize(x, y, width, height int) {
	// Use EWMH MoveResize for better WM compatibility
	if err := ewmh.MoveresizeWindow(w.conn.XUtil, w.ID, x, y, width, height); err != nil {
		w.win.MoveResize(x, y, width, height)
	}
}

// Resize changes the client size, keeping the position.
func (w *AppWindow) Resize(width, height int) {
	w.win.Resize(width, height)
}

// Move changes the position, keeping the size.
func (w *AppWindow) Move(x, y int) {
	w.win.Move(x, y)
}

// SetFullscreen asks the window manager to add or remove the fullscreen state.
func (w *AppWindow) SetFullscreen(on bool) error {
	return ewmh.WmStateReq(w.conn.XUtil, w.ID, stateAction(on), "_NET_WM_STATE_FULLSCREEN")
}

// SetTopmost keeps the window above others.
func (w *AppWindow) SetTopmost(on bool) error {
	return ewmh.WmStateReq(w.conn.XUtil, w.ID, stateAction(on), "_NET_WM_STATE_ABOVE")
}

// SetMaximized adds or removes both maximized states.
func (w *AppWindow) SetMaximized(on bool) error {
	if !on {
		return w.unmaximize()
	}
	return ewmh.WmStateReqExtra(w.conn.XUtil, w.ID, ewmh.StateAdd,
		"_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT", 1)
}

// unmaximize removes maximized state from a window
func (w *AppWindow) unmaximize() error {
	states, err := ewmh.WmStateGet(w.conn.XUtil, w.ID)
	if err != nil {
		return err
	}

	for _, state := range states {
		if state == "_NET_WM_STATE_MAXIMIZED_HORZ" || state == "_NET_WM_STATE_MAXIMIZED_VERT" {
			if err := ewmh.WmStateReq(w.conn.XUtil, w.ID, ewmh.StateRemove, state); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetDecorated toggles window manager decorations through Motif hints.
func (w *AppWindow) SetDecorated(on bool) error {
	const hintsDecorations = 1 << 1
	decorations := uint(0)
	if on {
		decorations = 1
	}
	return xprop.ChangeProp32(w.conn.XUtil, w.ID, "_MOTIF_WM_HINTS", "_MOTIF_WM_HINTS",
		hintsDecorations, 0, decorations, 0, 0)
}

// Minimize asks the window manager to iconify the window.
func (w *AppWindow) Minimize() error {
	return w.conn.sendRootMessage(w.ID, "WM_CHANGE_STATE", icccm.StateIconic)
}

// Focus activates and raises the window using _NET_ACTIVE_WINDOW.
func (w *AppWindow) Focus() error {
	const sourceIndication = 1 // application
	return w.conn.sendRootMessage(w.ID, "_NET_ACTIVE_WINDOW", sourceIndication)
}

func (w *AppWindow) Show() { w.win.Map() }
func (w *AppWindow) Hide() { w.win.Unmap() }

func (w *AppWindow) Destroy() {
	w.freeCursors()
	w.win.Destroy()
}

// sendRootMessage sends a 32-bit client message about win to the root
// window. The message is built manually because the xgbutil ewmh request
// helpers panic on this library version (uint vs int type assertion).
func (c *Connection) sendRootMessage(win xproto.Window, atomName string, data ...uint32) error {
	atomReply, err := xproto.InternAtom(c.XUtil.Conn(), false,
		uint16(len(atomName)), atomName).Reply()
	if err != nil {
		return fmt.Errorf("failed to intern %s: %w", atomName, err)
	}

	payload := make([]uint32, 5)
	copy(payload, data)
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New(payload),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

func stateAction(on bool) int {
	if on {
		return ewmh.StateAdd
	}
	return ewmh.StateRemove
}
