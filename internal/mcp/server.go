// Package mcp serves read-only status tools and a close request over the
// Model Context Protocol, backed by the IPC socket of a running instance.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/framecore/internal/core"
	"github.com/1broseidon/framecore/internal/devices"
	"github.com/1broseidon/framecore/internal/input"
	"github.com/1broseidon/framecore/internal/window"
)

const (
	ServerName    = "framecore"
	ServerVersion = "0.1.0"
)

// Querier is the subset of the IPC client the tools use.
type Querier interface {
	GetStatus() (*core.Status, error)
	GetWindow() (*window.Info, error)
	GetDevices() ([]devices.WorkerInfo, error)
	GetInput() (*input.Summary, error)
	RequestClose() error
}

// Server is the MCP server for framecore status queries.
type Server struct {
	mcpServer *mcpsdk.Server
	client    Querier
	logger    *slog.Logger
}

// NewServer creates a new MCP server that forwards to client.
func NewServer(client Querier, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		client: client,
		logger: logger,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the latest frame status of the running framecore instance: backend, frame counter, FPS, window geometry, input summary and attached raw input devices.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_window",
		Description: "Report window geometry, render size, letterbox offset and window mode flags.",
	}, s.handleGetWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_input",
		Description: "Report a summary of the current input snapshot: keys held, mouse position, active touch points, connected gamepads and dropped queue entries.",
	}, s.handleGetInput)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_devices",
		Description: "List the raw input devices being read by the direct backend, ordered by event number. Optionally filter by class.",
	}, s.handleListDevices)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "request_close",
		Description: "Ask the running instance to close its window. The request takes effect on the next event poll.",
	}, s.handleRequestClose)
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.client.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	out := StatusOutput{
		Running:       st.Running,
		Backend:       st.Backend,
		Frame:         st.Frame,
		FPS:           st.FPS,
		TargetFPS:     st.TargetFPS,
		FrameTimeMS:   st.FrameTimeMS,
		UptimeSeconds: st.UptimeSeconds,
		ScreenWidth:   st.Window.Screen.Width,
		ScreenHeight:  st.Window.Screen.Height,
		KeysDown:      st.Input.KeysDown,
		TouchPoints:   st.Input.TouchPoints,
		Gamepads:      len(st.Input.Gamepads),
		Devices:       len(st.Devices),
		HostDropped:   st.HostDropped,
	}
	if hl := st.HostLink; hl != nil {
		out.HostConnected = &hl.Connected
		out.HostEvents = hl.Events
	}
	if !st.UpdatedAt.IsZero() {
		out.UpdatedAt = st.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	return nil, out, nil
}

func (s *Server) handleGetWindow(_ context.Context, _ *mcpsdk.CallToolRequest, _ WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	info, err := s.client.GetWindow()
	if err != nil {
		return nil, WindowOutput{}, err
	}
	flags := info.Flags
	if flags == nil {
		flags = []string{}
	}
	return nil, WindowOutput{
		Title:        info.Title,
		Flags:        flags,
		Ready:        info.Ready,
		Fullscreen:   info.Fullscreen,
		Focused:      info.Focused,
		Minimized:    info.Minimized,
		ShouldClose:  info.ShouldClose,
		ScreenWidth:  info.Screen.Width,
		ScreenHeight: info.Screen.Height,
		RenderWidth:  info.Render.Width,
		RenderHeight: info.Render.Height,
		OffsetX:      info.RenderOffset.X,
		OffsetY:      info.RenderOffset.Y,
		Letterbox:    info.Letterbox,
	}, nil
}

func (s *Server) handleGetInput(_ context.Context, _ *mcpsdk.CallToolRequest, _ InputInput) (*mcpsdk.CallToolResult, InputOutput, error) {
	sum, err := s.client.GetInput()
	if err != nil {
		return nil, InputOutput{}, err
	}
	pads := make([]GamepadOutput, 0, len(sum.Gamepads))
	for _, g := range sum.Gamepads {
		pads = append(pads, GamepadOutput{Index: g.Index, Name: g.Name, Axes: g.Axes})
	}
	return nil, InputOutput{
		KeysDown:     sum.KeysDown,
		MouseX:       sum.Mouse.X,
		MouseY:       sum.Mouse.Y,
		TouchPoints:  sum.TouchPoints,
		Gamepads:     pads,
		DroppedKeys:  sum.Drops.Keys,
		DroppedChars: sum.Drops.Chars,
	}, nil
}

func (s *Server) handleListDevices(_ context.Context, _ *mcpsdk.CallToolRequest, args ListDevicesInput) (*mcpsdk.CallToolResult, ListDevicesOutput, error) {
	devs, err := s.client.GetDevices()
	if err != nil {
		return nil, ListDevicesOutput{}, err
	}
	class := strings.ToLower(strings.TrimSpace(args.Class))
	switch class {
	case "", "keyboard", "mouse", "touch", "gamepad":
	default:
		return nil, ListDevicesOutput{}, fmt.Errorf("unknown device class %q", args.Class)
	}

	out := make([]devices.WorkerInfo, 0, len(devs))
	for _, d := range devs {
		if class != "" && !hasClass(d.Class, class) {
			continue
		}
		out = append(out, d)
	}
	return nil, ListDevicesOutput{Count: len(out), Devices: out}, nil
}

// hasClass matches one entry of a comma separated class list.
func hasClass(list, class string) bool {
	for _, c := range strings.Split(list, ",") {
		if c == class {
			return true
		}
	}
	return false
}

func (s *Server) handleRequestClose(_ context.Context, _ *mcpsdk.CallToolRequest, args RequestCloseInput) (*mcpsdk.CallToolResult, RequestCloseOutput, error) {
	if err := s.client.RequestClose(); err != nil {
		return nil, RequestCloseOutput{}, err
	}
	s.logger.Info("close requested over MCP", "reason", args.Reason)
	return nil, RequestCloseOutput{Requested: true}, nil
}
