package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/framecore/internal/devices"
	"github.com/1broseidon/framecore/internal/input"
	"github.com/1broseidon/framecore/internal/platform"
	"github.com/1broseidon/framecore/internal/window"
)

const (
	DefaultTargetFPS      = 60
	DefaultWindowTitle    = "framecore"
	DefaultWindowWidth    = 800
	DefaultWindowHeight   = 450
	DefaultRescanInterval = 2 * time.Second
	DefaultFramebuffer    = "/dev/fb0"
	DefaultQueueSize      = 256
	DefaultPingInterval   = 5 * time.Second
	DefaultPongWait       = 15 * time.Second
	DefaultLogMaxSizeMB   = 10
	DefaultLogMaxFiles    = 3
)

// WindowConfig is the initial window request.
type WindowConfig struct {
	Title        string   `yaml:"title"`
	Width        int      `yaml:"width"`
	Height       int      `yaml:"height"`
	MinWidth     int      `yaml:"min_width"`
	MinHeight    int      `yaml:"min_height"`
	MaxWidth     int      `yaml:"max_width"`  // 0 = unlimited
	MaxHeight    int      `yaml:"max_height"` // 0 = unlimited
	RenderWidth  int      `yaml:"render_width"`
	RenderHeight int      `yaml:"render_height"`
	Letterbox    bool     `yaml:"letterbox"`
	Flags        []string `yaml:"flags,omitempty"`
}

// InputConfig configures raw device discovery for the direct backend.
type InputConfig struct {
	DeviceGlob     string        `yaml:"device_glob"`
	MaxWorkers     int           `yaml:"max_workers"`
	RescanInterval time.Duration `yaml:"rescan_interval"` // 0 disables hotplug rescans
	Grab           bool          `yaml:"grab"`
	LastTouchOnly  bool          `yaml:"last_touch_only"`
}

type DirectConfig struct {
	Framebuffer string `yaml:"framebuffer"`
	ConsoleRaw  bool   `yaml:"console_raw"`
}

// ActivityConfig configures the host-managed backend and its websocket link.
type ActivityConfig struct {
	HostURL      string        `yaml:"host_url,omitempty"`
	QueueSize    int           `yaml:"queue_size"`
	PingInterval time.Duration `yaml:"ping_interval"`
	PongWait     time.Duration `yaml:"pong_wait"`
}

type X11Config struct {
	Display      string `yaml:"display,omitempty"`
	EventWaiting bool   `yaml:"event_waiting"`
}

type IPCConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	// Level controls verbosity: debug, info, warn, error
	Level string `yaml:"level"`
	// File enables a rotating log file in addition to stderr.
	File      string `yaml:"file,omitempty"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files"`
}

// Config is the effective configuration.
type Config struct {
	Backend   string         `yaml:"backend"`
	TargetFPS int            `yaml:"target_fps"` // 0 = unthrottled
	ExitKey   string         `yaml:"exit_key"`
	Window    WindowConfig   `yaml:"window"`
	Input     InputConfig    `yaml:"input"`
	Direct    DirectConfig   `yaml:"direct"`
	Activity  ActivityConfig `yaml:"activity"`
	X11       X11Config      `yaml:"x11"`
	IPC       IPCConfig      `yaml:"ipc"`
	Logging   LoggingConfig  `yaml:"logging"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Backend:   string(platform.KindAuto),
		TargetFPS: DefaultTargetFPS,
		ExitKey:   input.KeyEscape.String(),
		Window: WindowConfig{
			Title:  DefaultWindowTitle,
			Width:  DefaultWindowWidth,
			Height: DefaultWindowHeight,
		},
		Input: InputConfig{
			DeviceGlob:     devices.DefaultGlob,
			MaxWorkers:     devices.MaxWorkers,
			RescanInterval: DefaultRescanInterval,
			LastTouchOnly:  true,
		},
		Direct: DirectConfig{
			Framebuffer: DefaultFramebuffer,
			ConsoleRaw:  true,
		},
		Activity: ActivityConfig{
			QueueSize:    DefaultQueueSize,
			PingInterval: DefaultPingInterval,
			PongWait:     DefaultPongWait,
		},
		IPC: IPCConfig{Enabled: true},
		Logging: LoggingConfig{
			Level:     "info",
			MaxSizeMB: DefaultLogMaxSizeMB,
			MaxFiles:  DefaultLogMaxFiles,
		},
	}
}

// Kind returns the configured backend kind.
func (c *Config) Kind() platform.Kind {
	k, err := platform.ParseKind(c.Backend)
	if err != nil {
		return platform.KindAuto
	}
	return k
}

// ExitKeyValue returns the parsed exit key, or KeyNull when disabled.
func (c *Config) ExitKeyValue() input.Key {
	k, _ := input.ParseKey(c.ExitKey)
	return k
}

// WindowFlags returns the parsed window flag set.
func (c *Config) WindowFlags() window.ConfigFlags {
	f, _ := window.ParseFlags(c.Window.Flags)
	return f
}

// PlatformConfig is the window request handed to the backend.
func (c *Config) PlatformConfig() platform.Config {
	return platform.Config{
		Title:   c.Window.Title,
		Width:   c.Window.Width,
		Height:  c.Window.Height,
		MinSize: window.Size{Width: c.Window.MinWidth, Height: c.Window.MinHeight},
		MaxSize: window.Size{Width: c.Window.MaxWidth, Height: c.Window.MaxHeight},
		Flags:   c.WindowFlags(),
	}
}

// PlatformOptions maps the backend sections onto platform options.
func (c *Config) PlatformOptions() platform.Options {
	return platform.Options{
		Display:      c.X11.Display,
		EventWaiting: c.X11.EventWaiting,
		Framebuffer:  c.Direct.Framebuffer,
		ConsoleRaw:   c.Direct.ConsoleRaw,
		Input: devices.Config{
			Glob:           c.Input.DeviceGlob,
			MaxWorkers:     c.Input.MaxWorkers,
			RescanInterval: c.Input.RescanInterval,
			Grab:           c.Input.Grab,
			LastTouchOnly:  c.Input.LastTouchOnly,
		},
		QueueSize: c.Activity.QueueSize,
	}
}

// Marshal renders the effective config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save writes the configuration to path.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	if _, err := platform.ParseKind(c.Backend); err != nil {
		return &ValidationError{Path: "backend", Err: err}
	}
	if c.TargetFPS < 0 {
		return &ValidationError{Path: "target_fps", Err: fmt.Errorf("target_fps must be >= 0")}
	}
	if _, ok := input.ParseKey(c.ExitKey); !ok {
		return &ValidationError{Path: "exit_key", Err: fmt.Errorf("unknown key %q", c.ExitKey)}
	}
	if err := c.Window.validate(); err != nil {
		return err
	}

	if strings.TrimSpace(c.Input.DeviceGlob) == "" {
		return &ValidationError{Path: "input.device_glob", Err: fmt.Errorf("device_glob is required")}
	}
	if _, err := filepath.Match(c.Input.DeviceGlob, ""); err != nil {
		return &ValidationError{Path: "input.device_glob", Err: err}
	}
	if c.Input.MaxWorkers < 1 || c.Input.MaxWorkers > devices.MaxWorkers {
		return &ValidationError{Path: "input.max_workers", Err: fmt.Errorf("max_workers must be between 1 and %d", devices.MaxWorkers)}
	}
	if c.Input.RescanInterval < 0 {
		return &ValidationError{Path: "input.rescan_interval", Err: fmt.Errorf("rescan_interval must be >= 0")}
	}

	if strings.TrimSpace(c.Direct.Framebuffer) == "" {
		return &ValidationError{Path: "direct.framebuffer", Err: fmt.Errorf("framebuffer is required")}
	}

	if c.Activity.HostURL != "" {
		u, err := url.Parse(c.Activity.HostURL)
		if err != nil {
			return &ValidationError{Path: "activity.host_url", Err: err}
		}
		if u.Scheme != "ws" && u.Scheme != "wss" {
			return &ValidationError{Path: "activity.host_url", Err: fmt.Errorf("host_url must use ws or wss")}
		}
	}
	if c.Activity.QueueSize < 1 {
		return &ValidationError{Path: "activity.queue_size", Err: fmt.Errorf("queue_size must be >= 1")}
	}
	if c.Activity.PingInterval <= 0 {
		return &ValidationError{Path: "activity.ping_interval", Err: fmt.Errorf("ping_interval must be > 0")}
	}
	if c.Activity.PongWait <= c.Activity.PingInterval {
		return &ValidationError{Path: "activity.pong_wait", Err: fmt.Errorf("pong_wait must be longer than ping_interval")}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if c.Logging.MaxSizeMB < 1 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 1")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}
	return nil
}

func (w *WindowConfig) validate() error {
	if w.Width <= 0 || w.Height <= 0 {
		return &ValidationError{Path: "window", Err: fmt.Errorf("width and height must be > 0")}
	}
	if w.MinWidth < 0 || w.MinHeight < 0 {
		return &ValidationError{Path: "window", Err: fmt.Errorf("min_width and min_height must be >= 0")}
	}
	if w.MaxWidth < 0 || w.MaxHeight < 0 {
		return &ValidationError{Path: "window", Err: fmt.Errorf("max_width and max_height must be >= 0")}
	}
	if w.MaxWidth > 0 && w.MaxWidth < w.MinWidth {
		return &ValidationError{Path: "window.max_width", Err: fmt.Errorf("max_width must be >= min_width")}
	}
	if w.MaxHeight > 0 && w.MaxHeight < w.MinHeight {
		return &ValidationError{Path: "window.max_height", Err: fmt.Errorf("max_height must be >= min_height")}
	}
	if w.RenderWidth < 0 || w.RenderHeight < 0 {
		return &ValidationError{Path: "window", Err: fmt.Errorf("render_width and render_height must be >= 0")}
	}
	if (w.RenderWidth == 0) != (w.RenderHeight == 0) {
		return &ValidationError{Path: "window", Err: fmt.Errorf("render_width and render_height must be set together")}
	}
	if _, err := window.ParseFlags(w.Flags); err != nil {
		return &ValidationError{Path: "window.flags", Err: err}
	}
	return nil
}
