package platform

import (
	"fmt"
	"os"

	"github.com/1broseidon/framecore/internal/devices"
)

// Options carries the backend specific settings.
type Options struct {
	// Toolkit
	Display      string
	EventWaiting bool

	// Direct
	Framebuffer string
	ConsoleRaw  bool
	Input       devices.Config

	// Activity
	Queue     *Queue
	QueueSize int
	Hooks     ContextHooks
	Transport Transport
}

// ParseKind validates a backend name from configuration.
func ParseKind(name string) (Kind, error) {
	switch k := Kind(name); k {
	case KindAuto, KindToolkit, KindActivity, KindDirect:
		return k, nil
	case "":
		return KindAuto, nil
	default:
		return "", fmt.Errorf("unknown backend %q (want auto, toolkit, activity or direct)", name)
	}
}

// Resolve picks a concrete backend for auto: the toolkit when an X display
// is available, otherwise the direct display.
func Resolve(kind Kind, display string, getenv func(string) string) Kind {
	if kind != KindAuto {
		return kind
	}
	if display != "" || getenv("DISPLAY") != "" {
		return KindToolkit
	}
	return KindDirect
}

// New constructs the backend selected at startup.
func New(kind Kind, target Target, opts Options) (Backend, error) {
	if target.Window == nil || target.Input == nil {
		return nil, fmt.Errorf("platform target needs window and input state")
	}
	target.Logger = loggerOr(target.Logger)

	switch Resolve(kind, opts.Display, os.Getenv) {
	case KindToolkit:
		return newToolkit(target, opts), nil
	case KindActivity:
		return newActivity(target, opts), nil
	case KindDirect:
		return newDirect(target, opts), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", kind)
	}
}
