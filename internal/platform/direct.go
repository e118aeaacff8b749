package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/1broseidon/framecore/internal/devices"
	"github.com/1broseidon/framecore/internal/fbdev"
	"github.com/1broseidon/framecore/internal/window"
)

// defaultRefreshRate is assumed when the framebuffer reports no timings.
const defaultRefreshRate = 60

// Direct owns the framebuffer and reads raw input devices through a worker
// pool. Input arrives asynchronously, so PollEvents only advances the frame.
type Direct struct {
	target Target
	opts   Options
	log    *slog.Logger

	fb   *fbdev.Device
	pool *devices.Pool

	console   *os.File
	termState *term.State
}

func newDirect(target Target, opts Options) *Direct {
	return &Direct{
		target: target,
		opts:   opts,
		log:    target.Logger.With("backend", string(KindDirect)),
	}
}

func (d *Direct) Name() string { return string(KindDirect) }

func (d *Direct) Init(cfg Config) (Handle, error) {
	path := d.opts.Framebuffer
	if path == "" {
		path = fbdev.DefaultPath
	}
	fb, err := fbdev.Open(path)
	if err != nil {
		op := "open framebuffer"
		if errors.Is(err, fbdev.ErrNoMode) {
			op = "query mode"
		}
		return Handle{}, &InitError{Backend: d.Name(), Op: op, Err: err}
	}
	d.fb = fb
	mode := fb.Mode()
	d.blank(mode.Buffers)

	s := d.target.Window
	s.SetDisplay(window.Size{Width: mode.Width, Height: mode.Height})
	refresh := mode.RefreshRate
	if refresh == 0 {
		refresh = defaultRefreshRate
	}
	s.SetRefreshRate(refresh)
	s.SetMinSize(cfg.MinSize.Width, cfg.MinSize.Height)
	s.SetMaxSize(cfg.MaxSize.Width, cfg.MaxSize.Height)

	// The display cannot be resized; a request that does not fit is
	// reduced to the display.
	screen := s.Screen()
	if screen.Width > mode.Width || screen.Height > mode.Height {
		d.log.Warn("requested size exceeds display, using display size",
			"requested_width", screen.Width, "requested_height", screen.Height,
			"display_width", mode.Width, "display_height", mode.Height)
		screen = s.Resize(min(screen.Width, mode.Width), min(screen.Height, mode.Height))
	}
	s.Move((mode.Width-screen.Width)/2, (mode.Height-screen.Height)/2)
	d.target.Input.SetBounds(screen.Width, screen.Height)

	if d.opts.ConsoleRaw {
		d.enterRawConsole()
	}

	cfgInput := d.opts.Input
	if cfgInput.Logger == nil {
		cfgInput.Logger = d.log
	}
	d.pool = devices.NewPool(cfgInput, d.target.Input)
	if err := d.pool.Start(context.Background()); err != nil {
		d.restoreConsole()
		fb.Close()
		return Handle{}, &InitError{Backend: d.Name(), Op: "start input devices", Err: err}
	}

	s.SetReady(true)
	d.log.Info("framebuffer ready",
		"path", path,
		"driver", mode.Driver,
		"width", mode.Width,
		"height", mode.Height,
		"bpp", mode.BitsPerPixel,
		"buffers", mode.Buffers,
		"refresh", refresh,
	)
	return Handle{Kind: KindDirect, Path: path}, nil
}

// enterRawConsole stops the controlling terminal from echoing keystrokes
// that the device workers also read.
func (d *Direct) enterRawConsole() {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		d.log.Debug("stdin is not a terminal, leaving console mode unchanged")
		return
	}
	st, err := term.MakeRaw(fd)
	if err != nil {
		d.log.Warn("failed to put console in raw mode", "error", err)
		return
	}
	d.console = os.Stdin
	d.termState = st
}

func (d *Direct) restoreConsole() error {
	if d.termState == nil {
		return nil
	}
	err := term.Restore(int(d.console.Fd()), d.termState)
	d.termState = nil
	if err != nil {
		return fmt.Errorf("restore console: %w", err)
	}
	return nil
}

// blank clears every buffer so console text does not show through.
func (d *Direct) blank(buffers int) {
	for i := 0; i < max(buffers, 1); i++ {
		clear(d.fb.BackBuffer())
		if buffers < 2 {
			return
		}
		if err := d.fb.Flip(); err != nil {
			d.log.Debug("framebuffer flip failed", "error", err)
			return
		}
	}
}

// PollEvents publishes what the device workers wrote since the last call.
func (d *Direct) PollEvents() {
	d.target.Input.AdvanceFrame()
	d.target.Window.ClearResized()
}

// SwapBuffers flips to the back buffer and waits for vertical blank.
func (d *Direct) SwapBuffers() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Flip()
}

// Devices lists the active input workers.
func (d *Direct) Devices() []devices.WorkerInfo {
	if d.pool == nil {
		return nil
	}
	return d.pool.Workers()
}

// Shutdown joins every input worker before releasing the console and the
// framebuffer.
func (d *Direct) Shutdown() error {
	var errs []error
	if d.pool != nil {
		if err := d.pool.Close(); err != nil {
			errs = append(errs, err)
		}
		d.pool = nil
	}
	if err := d.restoreConsole(); err != nil {
		errs = append(errs, err)
	}
	if d.fb != nil {
		if err := d.fb.Close(); err != nil {
			errs = append(errs, err)
		}
		d.fb = nil
	}
	d.target.Window.SetReady(false)
	return errors.Join(errs...)
}
