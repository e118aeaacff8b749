package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/framecore/internal/config"
	"github.com/1broseidon/framecore/internal/core"
	"github.com/1broseidon/framecore/internal/hostlink"
	"github.com/1broseidon/framecore/internal/input"
	"github.com/1broseidon/framecore/internal/ipc"
	"github.com/1broseidon/framecore/internal/logging"
	"github.com/1broseidon/framecore/internal/platform"
	"github.com/1broseidon/framecore/internal/runtimepath"
)

func runRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/framecore/config.yaml)")
	backend := fs.String("backend", "", "Override backend (auto, toolkit, activity, direct)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: framecore run [--config PATH] [--backend NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open the window and run the frame loop until it is closed.")
	}
	if code := parseNoArgs(fs, args); code >= 0 {
		return code
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	if *backend != "" {
		cfg.Backend = *backend
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}

	logger, closer, err := logging.New(logging.Options{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closer.Close()

	if err := serve(cfg, logger); err != nil {
		logger.Error("framecore stopped", "error", err)
		return 1
	}
	return 0
}

func serve(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var transport platform.Transport
	if cfg.Activity.HostURL != "" {
		link, err := hostlink.New(hostlink.Config{
			URL:          cfg.Activity.HostURL,
			PingInterval: cfg.Activity.PingInterval,
			PongWait:     cfg.Activity.PongWait,
			Logger:       logger.With("component", "hostlink"),
		})
		if err != nil {
			return err
		}
		transport = link
	}

	c := core.New(cfg, core.DefaultBackend(cfg, transport), logger)
	if err := c.Init(); err != nil {
		return err
	}
	defer func() {
		if err := c.Shutdown(); err != nil {
			logger.Warn("shutdown failed", "error", err)
		}
	}()

	if cfg.IPC.Enabled {
		socketPath, err := runtimepath.SocketPath()
		if err != nil {
			return fmt.Errorf("resolve IPC socket: %w", err)
		}
		srv, err := ipc.NewServer(socketPath, c, logger)
		if err != nil {
			return err
		}
		if err := srv.Start(); err != nil {
			return err
		}
		defer srv.Stop()
	}

	return c.Run(ctx, &inputLogger{log: logger})
}

// inputLogger is the built-in app: it draws nothing and logs input
// transitions at debug level.
type inputLogger struct {
	log *slog.Logger
}

func (a *inputLogger) Update(c *core.Core) error {
	in := c.Input()
	for k := in.GetKeyPressed(); k != input.KeyNull; k = in.GetKeyPressed() {
		a.log.Debug("key pressed", "key", k.String())
	}
	for r := in.GetCharPressed(); r != 0; r = in.GetCharPressed() {
		a.log.Debug("char pressed", "char", string(r))
	}
	if in.IsMouseButtonPressed(input.MouseButtonLeft) {
		pos := in.MousePosition()
		a.log.Debug("mouse pressed", "x", pos.X, "y", pos.Y)
	}
	if b := in.LastGamepadButtonPressed(); b != input.GamepadButtonUnknown {
		for pad := 0; pad < input.MaxGamepads; pad++ {
			if in.IsGamepadButtonPressed(pad, b) {
				a.log.Debug("gamepad button pressed", "gamepad", pad, "button", int(b))
			}
		}
	}
	if win := c.Window(); win.IsResized() {
		size := win.Screen()
		a.log.Info("window resized", "width", size.Width, "height", size.Height)
	}
	return nil
}

func (a *inputLogger) Draw(*core.Core) error { return nil }
