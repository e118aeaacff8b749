//go:build !linux

package devices

import (
	"errors"
	"fmt"
)

// SystemOpener reports that raw input devices are only available on Linux.
func SystemOpener(bool) Opener {
	return OpenerFunc(func(path string) (Device, error) {
		return nil, fmt.Errorf("open %s: %w", path, errors.ErrUnsupported)
	})
}
