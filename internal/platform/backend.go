// Package platform hides the windowing and input source behind one Backend
// interface. Three variants exist: a native toolkit window (X11), a host
// managed activity fed through a queue, and a direct display that owns the
// framebuffer and raw input devices.
package platform

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/framecore/internal/devices"
	"github.com/1broseidon/framecore/internal/input"
	"github.com/1broseidon/framecore/internal/window"
)

// Kind names a backend variant.
type Kind string

const (
	KindAuto     Kind = "auto"
	KindToolkit  Kind = "toolkit"
	KindActivity Kind = "activity"
	KindDirect   Kind = "direct"
)

// Target is the state a backend feeds. It is passed at construction so no
// backend reaches for process globals.
type Target struct {
	Window *window.State
	Input  *input.Snapshot
	Logger *slog.Logger
}

// Config is the window request handed to Init.
type Config struct {
	Title   string
	Width   int
	Height  int
	MinSize window.Size
	MaxSize window.Size
	Flags   window.ConfigFlags
}

// Handle identifies the native surface a graphics layer would bind to.
type Handle struct {
	Kind   Kind   `json:"kind"`
	Window uint32 `json:"window,omitempty"`
	Path   string `json:"path,omitempty"`
}

// Backend abstracts the platform that produces window and input events.
// Every method is called from the frame loop goroutine.
type Backend interface {
	Name() string
	// Init creates the window or display. Failures are *InitError and fatal.
	Init(cfg Config) (Handle, error)
	// PollEvents advances the input frame and applies pending events.
	PollEvents()
	// SwapBuffers presents the frame.
	SwapBuffers() error
	// Shutdown releases everything Init acquired.
	Shutdown() error
}

// DeviceLister is implemented by backends that read raw input devices.
type DeviceLister interface {
	Devices() []devices.WorkerInfo
}

// InitError reports a fatal backend initialization failure.
type InitError struct {
	Backend string
	Op      string
	Err     error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%s backend: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

func loggerOr(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
