package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/1broseidon/framecore/internal/ipc"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runRun(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "devices":
		os.Exit(runDevices(os.Args[2:]))
	case "close":
		os.Exit(runClose(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: framecore <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Open the window and run the frame loop (foreground)")
	fmt.Fprintln(w, "  status              Show frame status of a running instance")
	fmt.Fprintln(w, "  devices             List raw input devices of a running instance")
	fmt.Fprintln(w, "  close               Ask a running instance to close")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'framecore <command> --help' for command-specific options.")
}

// parseNoArgs parses a flag set for commands without positional arguments.
// It returns -1 when the command should continue.
func parseNoArgs(fs *flag.FlagSet, args []string) int {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", fs.Name())
		fs.Usage()
		return 2
	}
	return -1
}

func newClient(socket string) *ipc.Client {
	if socket != "" {
		return ipc.NewClientWithSocket(socket)
	}
	return ipc.NewClient()
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := fs.String("socket", "", "IPC socket path (default: $FRAMECORE_SOCKET or runtime dir)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: framecore status [--socket PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show frame status via IPC.")
	}
	if code := parseNoArgs(fs, args); code >= 0 {
		return code
	}

	st, err := newClient(*socket).GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("running:        %v\n", st.Running)
	fmt.Printf("backend:        %s\n", st.Backend)
	fmt.Printf("frame:          %d\n", st.Frame)
	fmt.Printf("fps:            %d/%d\n", st.FPS, st.TargetFPS)
	fmt.Printf("frame_time_ms:  %.2f\n", st.FrameTimeMS)
	fmt.Printf("uptime_seconds: %.0f\n", st.UptimeSeconds)
	fmt.Printf("screen:         %dx%d\n", st.Window.Screen.Width, st.Window.Screen.Height)
	fmt.Printf("render:         %dx%d\n", st.Window.Render.Width, st.Window.Render.Height)
	if len(st.Window.Flags) > 0 {
		fmt.Printf("flags:          %s\n", strings.Join(st.Window.Flags, ","))
	}
	fmt.Printf("keys_down:      %d\n", st.Input.KeysDown)
	fmt.Printf("touch_points:   %d\n", st.Input.TouchPoints)
	fmt.Printf("gamepads:       %d\n", len(st.Input.Gamepads))
	fmt.Printf("devices:        %d\n", len(st.Devices))
	if st.Input.Drops.Keys > 0 || st.Input.Drops.Chars > 0 || st.HostDropped > 0 {
		fmt.Printf("dropped:        keys=%d chars=%d host=%d\n", st.Input.Drops.Keys, st.Input.Drops.Chars, st.HostDropped)
	}
	if hl := st.HostLink; hl != nil {
		fmt.Printf("host_link:      connected=%v connects=%d events=%d decode_errors=%d\n",
			hl.Connected, hl.Connects, hl.Events, hl.DecodeErrors)
	}
	return 0
}

func runDevices(args []string) int {
	fs := flag.NewFlagSet("devices", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := fs.String("socket", "", "IPC socket path (default: $FRAMECORE_SOCKET or runtime dir)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: framecore devices [--socket PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List raw input devices read by the direct backend.")
	}
	if code := parseNoArgs(fs, args); code >= 0 {
		return code
	}

	devs, err := newClient(*socket).GetDevices()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(devs) == 0 {
		fmt.Println("no input devices")
		return 0
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDINAL\tPATH\tCLASS\tGAMEPAD\tNAME")
	for _, d := range devs {
		pad := "-"
		if d.Gamepad >= 0 {
			pad = fmt.Sprint(d.Gamepad)
		}
		class := d.Class
		if strings.Contains(class, "touch") && !d.Touch {
			class += " (inactive)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", d.Ordinal, d.Path, class, pad, d.Name)
	}
	tw.Flush()
	return 0
}

func runClose(args []string) int {
	fs := flag.NewFlagSet("close", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := fs.String("socket", "", "IPC socket path (default: $FRAMECORE_SOCKET or runtime dir)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: framecore close [--socket PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Request that the running instance close its window.")
	}
	if code := parseNoArgs(fs, args); code >= 0 {
		return code
	}

	if err := newClient(*socket).RequestClose(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
