package devices

import "fmt"

// DeviceError describes a failure of one input device. It is contained in
// the worker that owns the device and never reaches the frame loop.
type DeviceError struct {
	Path string
	Op   string
	Err  error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("input device %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }
