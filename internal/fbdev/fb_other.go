//go:build !linux

package fbdev

import (
	"errors"
	"fmt"
)

// Device is unavailable outside Linux.
type Device struct{}

// Open reports that framebuffers are only supported on Linux.
func Open(path string) (*Device, error) {
	return nil, fmt.Errorf("open %s: %w", path, errors.ErrUnsupported)
}

func (d *Device) Mode() Mode         { return Mode{} }
func (d *Device) BackBuffer() []byte { return nil }
func (d *Device) Flip() error        { return errors.ErrUnsupported }
func (d *Device) WaitVSync() error   { return errors.ErrUnsupported }
func (d *Device) Close() error       { return nil }
