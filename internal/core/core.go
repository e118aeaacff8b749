// Package core ties the frame clock, window state, input snapshot and the
// selected platform backend into one explicitly constructed context that
// the frame loop owns.
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/1broseidon/framecore/internal/config"
	"github.com/1broseidon/framecore/internal/frameclock"
	"github.com/1broseidon/framecore/internal/input"
	"github.com/1broseidon/framecore/internal/platform"
	"github.com/1broseidon/framecore/internal/window"
)

// ErrNotInitialized is returned by frame operations before Init succeeds.
var ErrNotInitialized = errors.New("core: not initialized")

// BackendFactory builds the backend that feeds target.
type BackendFactory func(target platform.Target) (platform.Backend, error)

// DefaultBackend selects the backend named by cfg. transport is handed to
// the activity backend and may be nil.
func DefaultBackend(cfg *config.Config, transport platform.Transport) BackendFactory {
	return func(target platform.Target) (platform.Backend, error) {
		opts := cfg.PlatformOptions()
		opts.Transport = transport
		return platform.New(cfg.Kind(), target, opts)
	}
}

// App is driven once per frame by Run.
type App interface {
	Update(c *Core) error
	Draw(c *Core) error
}

// Core is the per-process context. Every method except Status and
// RequestClose must be called from the frame loop goroutine.
type Core struct {
	cfg        *config.Config
	log        *slog.Logger
	newBackend BackendFactory
	clockSrc   frameclock.Source

	clock   *frameclock.Clock
	win     *window.State
	input   *input.Snapshot
	backend platform.Backend
	handle  platform.Handle
	exitKey input.Key
	started time.Duration

	initialized bool
	closed      bool

	closeRequested atomic.Bool
	status         atomic.Pointer[Status]
}

// New returns an uninitialized core. A nil factory selects DefaultBackend.
func New(cfg *config.Config, factory BackendFactory, logger *slog.Logger) *Core {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if factory == nil {
		factory = DefaultBackend(cfg, nil)
	}
	return &Core{
		cfg:        cfg,
		log:        logger,
		newBackend: factory,
		clockSrc:   frameclock.System(),
	}
}

// SetClockSource replaces the time source. It only takes effect before Init.
func (c *Core) SetClockSource(src frameclock.Source) {
	c.clockSrc = src
}

// Init creates the clock, window and input state, then initializes the
// backend. Backend failures are returned as *platform.InitError.
func (c *Core) Init() error {
	if c.initialized {
		return nil
	}
	clock, err := frameclock.New(c.clockSrc)
	if err != nil {
		return err
	}
	clock.SetTargetFPS(c.cfg.TargetFPS)

	wc := c.cfg.Window
	win := window.New(wc.Title, wc.Width, wc.Height, c.cfg.WindowFlags())
	win.SetRenderSize(wc.RenderWidth, wc.RenderHeight)
	win.SetLetterbox(wc.Letterbox)

	snap := input.NewSnapshot()
	c.exitKey = c.cfg.ExitKeyValue()
	snap.SetExitKey(c.exitKey)
	snap.SetBounds(wc.Width, wc.Height)

	backend, err := c.newBackend(platform.Target{Window: win, Input: snap, Logger: c.log})
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}
	handle, err := backend.Init(c.cfg.PlatformConfig())
	if err != nil {
		backend.Shutdown()
		return err
	}

	c.clock = clock
	c.win = win
	c.input = snap
	c.backend = backend
	c.handle = handle
	c.started = clock.Time()
	c.initialized = true
	c.closed = false

	c.syncInput()
	c.publish()
	c.log.Info("core initialized",
		"backend", backend.Name(),
		"screen_width", win.Screen().Width,
		"screen_height", win.Screen().Height,
		"target_fps", c.cfg.TargetFPS,
		"exit_key", c.exitKey.String(),
	)
	return nil
}

func (c *Core) Window() *window.State     { return c.win }
func (c *Core) Input() *input.Snapshot    { return c.input }
func (c *Core) Clock() *frameclock.Clock  { return c.clock }
func (c *Core) Backend() platform.Backend { return c.backend }
func (c *Core) Handle() platform.Handle   { return c.handle }
func (c *Core) Config() *config.Config    { return c.cfg }
func (c *Core) Logger() *slog.Logger      { return c.log }
func (c *Core) Initialized() bool         { return c.initialized }

// RequestClose asks the frame loop to stop at the next poll. Safe from any
// goroutine.
func (c *Core) RequestClose() {
	c.closeRequested.Store(true)
}

// ShouldClose reports whether the window has a pending close request.
func (c *Core) ShouldClose() bool {
	return c.win != nil && c.win.ShouldClose()
}

// SetExitKey changes the key that requests close. KeyNull disables it.
func (c *Core) SetExitKey(k input.Key) {
	c.exitKey = k
	if c.input != nil {
		c.input.SetExitKey(k)
	}
}

// BeginFrame starts the update phase of a frame.
func (c *Core) BeginFrame() {
	if !c.initialized {
		return
	}
	c.clock.BeginFrame()
}

// EndFrame presents the frame, paces to the target rate, then polls events
// for the next frame and publishes status.
func (c *Core) EndFrame() error {
	if !c.initialized {
		return ErrNotInitialized
	}
	err := c.SwapBuffers()
	c.clock.EndFrame()
	c.PollEvents()
	c.publish()
	return err
}

// SwapBuffers presents through the backend.
func (c *Core) SwapBuffers() error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if err := c.backend.SwapBuffers(); err != nil {
		return fmt.Errorf("swap buffers: %w", err)
	}
	return nil
}

// PollEvents publishes input written since the last poll as the new frame
// and checks the exit key against it.
func (c *Core) PollEvents() {
	if !c.initialized {
		return
	}
	c.backend.PollEvents()

	if c.exitKey != input.KeyNull && c.input.IsKeyPressed(c.exitKey) {
		c.log.Debug("exit key pressed", "key", c.exitKey.String())
		c.win.RequestClose()
	}
	if c.closeRequested.Swap(false) {
		c.win.RequestClose()
	}
	c.syncInput()
}

// syncInput keeps pointer bounds and the logical mouse mapping in step with
// the window geometry.
func (c *Core) syncInput() {
	screen := c.win.Screen()
	c.input.SetBounds(screen.Width, screen.Height)
	offset, scale := c.win.MouseTransform()
	c.input.SetMouseOffset(offset.X, offset.Y)
	c.input.SetMouseScale(scale.X, scale.Y)
}

// Run initializes the core if needed and drives app until the window should
// close, ctx is cancelled or app returns an error. It does not shut down.
func (c *Core) Run(ctx context.Context, app App) error {
	if err := c.Init(); err != nil {
		return err
	}

	stop := context.AfterFunc(ctx, c.RequestClose)
	defer stop()

	for !c.ShouldClose() {
		c.BeginFrame()
		if err := app.Update(c); err != nil {
			return fmt.Errorf("update: %w", err)
		}
		if err := app.Draw(c); err != nil {
			return fmt.Errorf("draw: %w", err)
		}
		if err := c.EndFrame(); err != nil {
			c.log.Warn("frame present failed", "frame", c.clock.FrameCount(), "error", err)
		}
	}
	c.log.Info("frame loop stopped", "frames", c.clock.FrameCount())
	return nil
}

// Shutdown releases the backend. It is safe to call more than once.
func (c *Core) Shutdown() error {
	if !c.initialized || c.closed {
		return nil
	}
	c.closed = true
	c.initialized = false
	err := c.backend.Shutdown()
	c.publish()
	if err != nil {
		return fmt.Errorf("shutdown %s backend: %w", c.backend.Name(), err)
	}
	c.log.Info("core shut down", "backend", c.backend.Name())
	return nil
}
