package mcp

import (
	"github.com/1broseidon/framecore/internal/devices"
)

// StatusInput is the input for the get_status tool.
type StatusInput struct{}

// WindowInput is the input for the get_window tool.
type WindowInput struct{}

// InputInput is the input for the get_input tool.
type InputInput struct{}

// ListDevicesInput is the input for the list_devices tool.
type ListDevicesInput struct {
	Class string `json:"class,omitempty" jsonschema:"Optional device class filter (keyboard, mouse, touch, gamepad)"`
}

// ListDevicesOutput is the output for the list_devices tool.
type ListDevicesOutput struct {
	Count   int                  `json:"count"`
	Devices []devices.WorkerInfo `json:"devices"`
}

// RequestCloseInput is the input for the request_close tool.
type RequestCloseInput struct {
	Reason string `json:"reason,omitempty" jsonschema:"Optional reason recorded in the log"`
}

// RequestCloseOutput is the output for the request_close tool.
type RequestCloseOutput struct {
	Requested bool `json:"requested"`
}

// StatusOutput is the output for the get_status tool.
type StatusOutput struct {
	Running       bool    `json:"running"`
	Backend       string  `json:"backend"`
	Frame         uint64  `json:"frame"`
	FPS           int     `json:"fps"`
	TargetFPS     int     `json:"target_fps"`
	FrameTimeMS   float64 `json:"frame_time_ms"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	ScreenWidth   int     `json:"screen_width"`
	ScreenHeight  int     `json:"screen_height"`
	KeysDown      int     `json:"keys_down"`
	TouchPoints   int     `json:"touch_points"`
	Gamepads      int     `json:"gamepads"`
	Devices       int     `json:"devices"`
	HostDropped   uint64  `json:"host_dropped"`
	HostConnected *bool   `json:"host_connected,omitempty"`
	HostEvents    uint64  `json:"host_events,omitempty"`
	UpdatedAt     string  `json:"updated_at"`
}

// WindowOutput is the output for the get_window tool.
type WindowOutput struct {
	Title        string   `json:"title"`
	Flags        []string `json:"flags"`
	Ready        bool     `json:"ready"`
	Fullscreen   bool     `json:"fullscreen"`
	Focused      bool     `json:"focused"`
	Minimized    bool     `json:"minimized"`
	ShouldClose  bool     `json:"should_close"`
	ScreenWidth  int      `json:"screen_width"`
	ScreenHeight int      `json:"screen_height"`
	RenderWidth  int      `json:"render_width"`
	RenderHeight int      `json:"render_height"`
	OffsetX      int      `json:"offset_x"`
	OffsetY      int      `json:"offset_y"`
	Letterbox    bool     `json:"letterbox"`
}

// GamepadOutput describes one connected gamepad.
type GamepadOutput struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Axes  int    `json:"axes"`
}

// InputOutput is the output for the get_input tool.
type InputOutput struct {
	KeysDown     int             `json:"keys_down"`
	MouseX       float32         `json:"mouse_x"`
	MouseY       float32         `json:"mouse_y"`
	TouchPoints  int             `json:"touch_points"`
	Gamepads     []GamepadOutput `json:"gamepads"`
	DroppedKeys  uint64          `json:"dropped_keys"`
	DroppedChars uint64          `json:"dropped_chars"`
}
