package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/framecore/internal/input"
	"github.com/1broseidon/framecore/internal/platform"
	"github.com/1broseidon/framecore/internal/window"
)

func writeConfig(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Kind() != platform.KindAuto {
		t.Fatalf("expected auto backend, got %q", cfg.Kind())
	}
	if cfg.ExitKeyValue() != input.KeyEscape {
		t.Fatalf("expected escape exit key, got %v", cfg.ExitKeyValue())
	}
	if !cfg.Input.LastTouchOnly {
		t.Fatalf("expected last_touch_only to default on")
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.TargetFPS != DefaultTargetFPS || len(res.Files) != 0 {
		t.Fatalf("expected defaults, got fps=%d files=%v", res.Config.TargetFPS, res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "# empty\n")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Window.Title != DefaultWindowTitle {
		t.Fatalf("expected title %q, got %q", DefaultWindowTitle, res.Config.Window.Title)
	}
}

func TestLoadFromPath_OverridesDefaults(t *testing.T) {
	data := strings.Join([]string{
		"backend: direct",
		"target_fps: 30",
		"exit_key: q",
		"window:",
		"  title: demo",
		"  width: 1280",
		"  height: 720",
		"  render_width: 320",
		"  render_height: 180",
		"  letterbox: true",
		"  flags: [resizable, vsync]",
		"input:",
		"  rescan_interval: 500ms",
		"  max_workers: 4",
		"  last_touch_only: false",
		"direct:",
		"  framebuffer: /dev/fb1",
		"activity:",
		"  host_url: ws://127.0.0.1:7000/events",
		"logging:",
		"  level: debug",
		"",
	}, "\n")
	path := writeConfig(t, t.TempDir(), "config.yaml", data)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Kind() != platform.KindDirect || cfg.TargetFPS != 30 || cfg.ExitKeyValue() != input.KeyQ {
		t.Fatalf("unexpected top-level values: %+v", cfg)
	}
	if cfg.Window.Width != 1280 || cfg.Window.Title != "demo" || !cfg.Window.Letterbox {
		t.Fatalf("unexpected window: %+v", cfg.Window)
	}
	if want := window.FlagResizable | window.FlagVSyncHint; cfg.WindowFlags() != want {
		t.Fatalf("expected flags %v, got %v", want, cfg.WindowFlags())
	}
	if cfg.Input.RescanInterval != 500*time.Millisecond || cfg.Input.MaxWorkers != 4 || cfg.Input.LastTouchOnly {
		t.Fatalf("unexpected input: %+v", cfg.Input)
	}
	// Untouched keys in a partially specified section keep their defaults.
	if cfg.Input.DeviceGlob == "" || !cfg.Direct.ConsoleRaw {
		t.Fatalf("expected defaults inside partial sections: %+v %+v", cfg.Input, cfg.Direct)
	}

	opts := cfg.PlatformOptions()
	if opts.Framebuffer != "/dev/fb1" || opts.Input.MaxWorkers != 4 || opts.QueueSize != DefaultQueueSize {
		t.Fatalf("unexpected platform options: %+v", opts)
	}
	pc := cfg.PlatformConfig()
	if pc.Width != 1280 || pc.Title != "demo" || pc.Flags != cfg.WindowFlags() {
		t.Fatalf("unexpected platform config: %+v", pc)
	}

	val, src, err := Explain(res, "window.width")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 1280 || src.Kind != SourceFile || src.File == "" || src.Line == 0 {
		t.Fatalf("expected window.width from file, got %#v %#v", val, src)
	}
	val, src, err = Explain(res, "ipc.enabled")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != true || src.Kind != SourceDefault {
		t.Fatalf("expected ipc.enabled default, got %#v %#v", val, src)
	}
	if val, _, _ := Explain(res, "input.rescan_interval"); val != "500ms" {
		t.Fatalf("expected duration rendered as 500ms, got %#v", val)
	}
	if _, _, err := Explain(res, "window.depth"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "window:\n  colour: red\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "colour") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "target_fps: 60\nbackend: wayland\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "backend" {
		t.Fatalf("expected backend path, got %q", verr.Path)
	}
	if !strings.HasPrefix(err.Error(), path+":2:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, configD, "10-base.yaml", "target_fps: 30\nwindow:\n  title: base\n")
	writeConfig(t, configD, "20-override.yaml", "target_fps: 45\n")
	writeConfig(t, configD, "notes.txt", "target_fps: nope\n")

	path := writeConfig(t, dir, "config.yaml", "include:\n  - config.d\ntarget_fps: 50\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.TargetFPS != 50 {
		t.Fatalf("expected target_fps 50, got %d", res.Config.TargetFPS)
	}
	if res.Config.Window.Title != "base" {
		t.Fatalf("expected included title, got %q", res.Config.Window.Title)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 loaded files, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), path+":") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := writeConfig(t, dir, "a.yaml", "include: b.yaml\n")
	writeConfig(t, dir, "b.yaml", "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil || !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"negative fps", func(c *Config) { c.TargetFPS = -1 }, "target_fps"},
		{"unknown exit key", func(c *Config) { c.ExitKey = "hyper" }, "exit_key"},
		{"zero width", func(c *Config) { c.Window.Width = 0 }, "window"},
		{"max below min", func(c *Config) { c.Window.MinWidth = 400; c.Window.MaxWidth = 200 }, "window.max_width"},
		{"half render size", func(c *Config) { c.Window.RenderWidth = 320 }, "window"},
		{"unknown flag", func(c *Config) { c.Window.Flags = []string{"sparkly"} }, "window.flags"},
		{"bad glob", func(c *Config) { c.Input.DeviceGlob = "/dev/input/[" }, "input.device_glob"},
		{"too many workers", func(c *Config) { c.Input.MaxWorkers = 11 }, "input.max_workers"},
		{"negative rescan", func(c *Config) { c.Input.RescanInterval = -time.Second }, "input.rescan_interval"},
		{"http host", func(c *Config) { c.Activity.HostURL = "http://host/events" }, "activity.host_url"},
		{"empty queue", func(c *Config) { c.Activity.QueueSize = 0 }, "activity.queue_size"},
		{"pong shorter than ping", func(c *Config) { c.Activity.PongWait = time.Second }, "activity.pong_wait"},
		{"bad log level", func(c *Config) { c.Logging.Level = "warning" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q (%v)", tt.path, verr.Path, err)
			}
		})
	}
}

func TestExitKeyNoneDisables(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExitKey = "none"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.ExitKeyValue() != input.KeyNull {
		t.Fatalf("expected KeyNull, got %v", cfg.ExitKeyValue())
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Window.Title = "saved"
	cfg.Input.RescanInterval = 3 * time.Second
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Window.Title != "saved" || res.Config.Input.RescanInterval != 3*time.Second {
		t.Fatalf("unexpected reloaded config: %+v", res.Config)
	}
}

func TestDefaultConfigPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if path != "/tmp/xdg/framecore/config.yaml" {
		t.Fatalf("unexpected path %q", path)
	}
}
