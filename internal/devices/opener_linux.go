package devices

import "github.com/1broseidon/framecore/internal/evdev"

// SystemOpener opens real event nodes, optionally grabbing them.
func SystemOpener(grab bool) Opener {
	return OpenerFunc(func(path string) (Device, error) {
		d, err := evdev.Open(path, grab)
		if err != nil {
			return nil, err
		}
		return d, nil
	})
}
