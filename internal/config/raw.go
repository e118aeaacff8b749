package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawWindowConfig struct {
	Title        *string  `yaml:"title"`
	Width        *int     `yaml:"width"`
	Height       *int     `yaml:"height"`
	MinWidth     *int     `yaml:"min_width"`
	MinHeight    *int     `yaml:"min_height"`
	MaxWidth     *int     `yaml:"max_width"`
	MaxHeight    *int     `yaml:"max_height"`
	RenderWidth  *int     `yaml:"render_width"`
	RenderHeight *int     `yaml:"render_height"`
	Letterbox    *bool    `yaml:"letterbox"`
	Flags        []string `yaml:"flags"`
}

type RawInputConfig struct {
	DeviceGlob     *string        `yaml:"device_glob"`
	MaxWorkers     *int           `yaml:"max_workers"`
	RescanInterval *time.Duration `yaml:"rescan_interval"`
	Grab           *bool          `yaml:"grab"`
	LastTouchOnly  *bool          `yaml:"last_touch_only"`
}

type RawDirectConfig struct {
	Framebuffer *string `yaml:"framebuffer"`
	ConsoleRaw  *bool   `yaml:"console_raw"`
}

type RawActivityConfig struct {
	HostURL      *string        `yaml:"host_url"`
	QueueSize    *int           `yaml:"queue_size"`
	PingInterval *time.Duration `yaml:"ping_interval"`
	PongWait     *time.Duration `yaml:"pong_wait"`
}

type RawX11Config struct {
	Display      *string `yaml:"display"`
	EventWaiting *bool   `yaml:"event_waiting"`
}

type RawIPCConfig struct {
	Enabled *bool `yaml:"enabled"`
}

type RawLoggingConfig struct {
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

// RawConfig mirrors Config with every field optional so files can be
// layered over the defaults.
type RawConfig struct {
	Include   IncludeList        `yaml:"include"`
	Backend   *string            `yaml:"backend"`
	TargetFPS *int               `yaml:"target_fps"`
	ExitKey   *string            `yaml:"exit_key"`
	Window    *RawWindowConfig   `yaml:"window"`
	Input     *RawInputConfig    `yaml:"input"`
	Direct    *RawDirectConfig   `yaml:"direct"`
	Activity  *RawActivityConfig `yaml:"activity"`
	X11       *RawX11Config      `yaml:"x11"`
	IPC       *RawIPCConfig      `yaml:"ipc"`
	Logging   *RawLoggingConfig  `yaml:"logging"`
}

func set[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	set(&out.Backend, overlay.Backend)
	set(&out.TargetFPS, overlay.TargetFPS)
	set(&out.ExitKey, overlay.ExitKey)

	if o := overlay.Window; o != nil {
		w := RawWindowConfig{}
		if out.Window != nil {
			w = *out.Window
		}
		set(&w.Title, o.Title)
		set(&w.Width, o.Width)
		set(&w.Height, o.Height)
		set(&w.MinWidth, o.MinWidth)
		set(&w.MinHeight, o.MinHeight)
		set(&w.MaxWidth, o.MaxWidth)
		set(&w.MaxHeight, o.MaxHeight)
		set(&w.RenderWidth, o.RenderWidth)
		set(&w.RenderHeight, o.RenderHeight)
		set(&w.Letterbox, o.Letterbox)
		if o.Flags != nil {
			w.Flags = o.Flags
		}
		out.Window = &w
	}
	if o := overlay.Input; o != nil {
		in := RawInputConfig{}
		if out.Input != nil {
			in = *out.Input
		}
		set(&in.DeviceGlob, o.DeviceGlob)
		set(&in.MaxWorkers, o.MaxWorkers)
		set(&in.RescanInterval, o.RescanInterval)
		set(&in.Grab, o.Grab)
		set(&in.LastTouchOnly, o.LastTouchOnly)
		out.Input = &in
	}
	if o := overlay.Direct; o != nil {
		d := RawDirectConfig{}
		if out.Direct != nil {
			d = *out.Direct
		}
		set(&d.Framebuffer, o.Framebuffer)
		set(&d.ConsoleRaw, o.ConsoleRaw)
		out.Direct = &d
	}
	if o := overlay.Activity; o != nil {
		a := RawActivityConfig{}
		if out.Activity != nil {
			a = *out.Activity
		}
		set(&a.HostURL, o.HostURL)
		set(&a.QueueSize, o.QueueSize)
		set(&a.PingInterval, o.PingInterval)
		set(&a.PongWait, o.PongWait)
		out.Activity = &a
	}
	if o := overlay.X11; o != nil {
		x := RawX11Config{}
		if out.X11 != nil {
			x = *out.X11
		}
		set(&x.Display, o.Display)
		set(&x.EventWaiting, o.EventWaiting)
		out.X11 = &x
	}
	if o := overlay.IPC; o != nil {
		i := RawIPCConfig{}
		if out.IPC != nil {
			i = *out.IPC
		}
		set(&i.Enabled, o.Enabled)
		out.IPC = &i
	}
	if o := overlay.Logging; o != nil {
		l := RawLoggingConfig{}
		if out.Logging != nil {
			l = *out.Logging
		}
		set(&l.Level, o.Level)
		set(&l.File, o.File)
		set(&l.MaxSizeMB, o.MaxSizeMB)
		set(&l.MaxFiles, o.MaxFiles)
		out.Logging = &l
	}

	return out
}
