package evdev

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Device is an open event node. Reads go through the runtime poller, so
// Close from another goroutine makes a blocked Read return promptly.
type Device struct {
	f       *os.File
	caps    Capabilities
	grabbed bool
}

// Open opens path, queries its capabilities and optionally grabs it.
func Open(path string, grab bool) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	f := os.NewFile(uintptr(fd), path)
	d := &Device{f: f}

	rc, err := f.SyscallConn()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	var queryErr error
	ctlErr := rc.Control(func(fd uintptr) {
		d.caps, queryErr = QueryCapabilities(fd)
		if queryErr == nil && grab {
			d.grabbed = Grab(fd, true) == nil
		}
	})
	if ctlErr != nil {
		queryErr = ctlErr
	}
	if queryErr != nil {
		f.Close()
		return nil, fmt.Errorf("query %s: %w", path, queryErr)
	}
	return d, nil
}

func (d *Device) Read(p []byte) (int, error) { return d.f.Read(p) }

// Close releases a grab and closes the node, unblocking pending reads.
func (d *Device) Close() error {
	if d.grabbed {
		if rc, err := d.f.SyscallConn(); err == nil {
			_ = rc.Control(func(fd uintptr) { _ = Grab(fd, false) })
		}
	}
	return d.f.Close()
}

func (d *Device) Capabilities() Capabilities { return d.caps }
func (d *Device) Name() string               { return d.caps.Name }
func (d *Device) Grabbed() bool              { return d.grabbed }
