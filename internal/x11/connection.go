package x11

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
)

// ErrClosed is returned by PollEvent and WaitEvent once the server
// connection is gone.
var ErrClosed = errors.New("x connection closed")

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	// events is fed by pump and closed when the server goes away.
	events    chan event
	done      chan struct{}
	lost      atomic.Bool
	closeOnce sync.Once
}

type event struct {
	ev  xgb.Event
	err error
}

// NewConnection connects to display, or to $DISPLAY when display is empty,
// and loads the keyboard mapping.
func NewConnection(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("connect to X display %q: %w", display, err)
	}

	// Keysym lookups read the mapping loaded here.
	keybind.Initialize(xu)

	c := newConnection(xu, xu.RootWin())
	go c.pump()
	return c, nil
}

func newConnection(xu *xgbutil.XUtil, root xproto.Window) *Connection {
	return &Connection{
		XUtil:  xu,
		Root:   root,
		events: make(chan event, 256),
		done:   make(chan struct{}),
	}
}

// pump forwards server events until the connection closes. xgb reports
// an empty queue and a dead connection the same way on its non-blocking
// path, so all reads go through the blocking one.
func (c *Connection) pump() {
	defer close(c.events)
	for {
		ev, xerr := c.XUtil.Conn().WaitForEvent()
		if ev == nil && xerr == nil {
			// xgb has already shut its request side down.
			c.lost.Store(true)
			return
		}
		var err error
		if xerr != nil {
			err = xError(xerr)
		}
		select {
		case c.events <- event{ev: ev, err: err}:
		case <-c.done:
			return
		}
	}
}

// PollEvent returns the next queued event without blocking, or nil when the
// queue is empty.
func (c *Connection) PollEvent() (xgb.Event, error) {
	select {
	case e, ok := <-c.events:
		if !ok {
			return nil, ErrClosed
		}
		return e.ev, e.err
	default:
		return nil, nil
	}
}

// WaitEvent blocks until an event arrives.
func (c *Connection) WaitEvent() (xgb.Event, error) {
	e, ok := <-c.events
	if !ok {
		return nil, ErrClosed
	}
	return e.ev, e.err
}

// Flush sends buffered requests and waits for the server to process them.
func (c *Connection) Flush() {
	if c.lost.Load() {
		return
	}
	c.XUtil.Sync()
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if !c.lost.Load() {
			c.XUtil.Conn().Close()
		}
	})
}

func xError(xerr xgb.Error) error {
	return errors.New(xerr.Error())
}
