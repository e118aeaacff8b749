package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xcursor"

	"github.com/1broseidon/framecore/internal/input"
)

// glyphNone selects the parent window's cursor.
const glyphNone = -1

// cursorGlyph maps a requested shape to a glyph of the X cursor font.
func cursorGlyph(c input.Cursor) int {
	switch c {
	case input.CursorArrow:
		return xcursor.LeftPtr
	case input.CursorIBeam:
		return xcursor.XTerm
	case input.CursorCrosshair:
		return xcursor.Crosshair
	case input.CursorPointingHand:
		return xcursor.Hand2
	case input.CursorResizeEW:
		return xcursor.SBHDoubleArrow
	case input.CursorResizeNS:
		return xcursor.SBVDoubleArrow
	case input.CursorResizeNWSE:
		return xcursor.TopLeftCorner
	case input.CursorResizeNESW:
		return xcursor.TopRightCorner
	case input.CursorResizeAll:
		return xcursor.Fleur
	case input.CursorNotAllowed:
		return xcursor.Pirate
	default:
		return glyphNone
	}
}

// SetCursor shows the given shape over the window, or the hidden cursor
// when hidden is set.
func (w *AppWindow) SetCursor(shape input.Cursor, hidden bool) error {
	var cur xproto.Cursor
	switch glyph := cursorGlyph(shape); {
	case hidden:
		c, err := w.blankCursor()
		if err != nil {
			return err
		}
		cur = c
	case glyph == glyphNone:
		cur = xproto.CursorNone
	default:
		c, ok := w.cursors[glyph]
		if !ok {
			var err error
			c, err = xcursor.CreateCursor(w.conn.XUtil, uint16(glyph))
			if err != nil {
				return fmt.Errorf("failed to create cursor %d: %w", glyph, err)
			}
			w.cursors[glyph] = c
		}
		cur = c
	}
	return xproto.ChangeWindowAttributesChecked(w.conn.XUtil.Conn(), w.ID,
		xproto.CwCursor, []uint32{uint32(cur)}).Check()
}

// blankCursor builds a cursor from an empty 1x1 bitmap once per window.
func (w *AppWindow) blankCursor() (xproto.Cursor, error) {
	if w.blank != xproto.CursorNone {
		return w.blank, nil
	}
	xc := w.conn.XUtil.Conn()
	pix, err := xproto.NewPixmapId(xc)
	if err != nil {
		return 0, err
	}
	if err := xproto.CreatePixmapChecked(xc, 1, pix, xproto.Drawable(w.ID), 1, 1).Check(); err != nil {
		return 0, fmt.Errorf("failed to create cursor bitmap: %w", err)
	}
	defer xproto.FreePixmap(xc, pix)

	gc, err := xproto.NewGcontextId(xc)
	if err != nil {
		return 0, err
	}
	xproto.CreateGC(xc, gc, xproto.Drawable(pix), xproto.GcForeground, []uint32{0})
	xproto.PolyFillRectangle(xc, xproto.Drawable(pix), gc, []xproto.Rectangle{{Width: 1, Height: 1}})
	xproto.FreeGC(xc, gc)

	cur, err := xproto.NewCursorId(xc)
	if err != nil {
		return 0, err
	}
	if err := xproto.CreateCursorChecked(xc, cur, pix, pix, 0, 0, 0, 0, 0, 0, 0, 0).Check(); err != nil {
		return 0, fmt.Errorf("failed to create blank cursor: %w", err)
	}
	w.blank = cur
	return cur, nil
}

// GrabPointer confines the pointer to the window and routes all pointer
// events to it.
func (w *AppWindow) GrabPointer() error {
	const mask = xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease | xproto.EventMaskPointerMotion
	reply, err := xproto.GrabPointer(w.conn.XUtil.Conn(), true, w.ID, mask,
		xproto.GrabModeAsync, xproto.GrabModeAsync, w.ID, xproto.CursorNone, xproto.TimeCurrentTime).Reply()
	if err != nil {
		return fmt.Errorf("failed to grab pointer: %w", err)
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("pointer grab refused (status %d)", reply.Status)
	}
	return nil
}

// UngrabPointer releases a grab taken by GrabPointer.
func (w *AppWindow) UngrabPointer() {
	xproto.UngrabPointer(w.conn.XUtil.Conn(), xproto.TimeCurrentTime)
}

func (w *AppWindow) freeCursors() {
	xc := w.conn.XUtil.Conn()
	for _, c := range w.cursors {
		xproto.FreeCursor(xc, c)
	}
	if w.blank != xproto.CursorNone {
		xproto.FreeCursor(xc, w.blank)
	}
	w.cursors = nil
	w.blank = xproto.CursorNone
}
