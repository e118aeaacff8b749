package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s: %s: %v", e.Source.position(), e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

func apply[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// BuildEffectiveConfig layers raw over DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	apply(&cfg.Backend, raw.Backend)
	apply(&cfg.TargetFPS, raw.TargetFPS)
	apply(&cfg.ExitKey, raw.ExitKey)

	if w := raw.Window; w != nil {
		apply(&cfg.Window.Title, w.Title)
		apply(&cfg.Window.Width, w.Width)
		apply(&cfg.Window.Height, w.Height)
		apply(&cfg.Window.MinWidth, w.MinWidth)
		apply(&cfg.Window.MinHeight, w.MinHeight)
		apply(&cfg.Window.MaxWidth, w.MaxWidth)
		apply(&cfg.Window.MaxHeight, w.MaxHeight)
		apply(&cfg.Window.RenderWidth, w.RenderWidth)
		apply(&cfg.Window.RenderHeight, w.RenderHeight)
		apply(&cfg.Window.Letterbox, w.Letterbox)
		if w.Flags != nil {
			cfg.Window.Flags = append([]string(nil), w.Flags...)
		}
	}
	if in := raw.Input; in != nil {
		apply(&cfg.Input.DeviceGlob, in.DeviceGlob)
		apply(&cfg.Input.MaxWorkers, in.MaxWorkers)
		apply(&cfg.Input.RescanInterval, in.RescanInterval)
		apply(&cfg.Input.Grab, in.Grab)
		apply(&cfg.Input.LastTouchOnly, in.LastTouchOnly)
	}
	if d := raw.Direct; d != nil {
		apply(&cfg.Direct.Framebuffer, d.Framebuffer)
		apply(&cfg.Direct.ConsoleRaw, d.ConsoleRaw)
	}
	if a := raw.Activity; a != nil {
		apply(&cfg.Activity.HostURL, a.HostURL)
		apply(&cfg.Activity.QueueSize, a.QueueSize)
		apply(&cfg.Activity.PingInterval, a.PingInterval)
		apply(&cfg.Activity.PongWait, a.PongWait)
	}
	if x := raw.X11; x != nil {
		apply(&cfg.X11.Display, x.Display)
		apply(&cfg.X11.EventWaiting, x.EventWaiting)
	}
	if i := raw.IPC; i != nil {
		apply(&cfg.IPC.Enabled, i.Enabled)
	}
	if l := raw.Logging; l != nil {
		apply(&cfg.Logging.Level, l.Level)
		apply(&cfg.Logging.File, l.File)
		apply(&cfg.Logging.MaxSizeMB, l.MaxSizeMB)
		apply(&cfg.Logging.MaxFiles, l.MaxFiles)
	}

	return cfg
}
