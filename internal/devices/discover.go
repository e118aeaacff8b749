package devices

import (
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/1broseidon/framecore/internal/evdev"
)

// DefaultGlob matches the kernel event nodes.
const DefaultGlob = "/dev/input/event*"

// Device is an open input node with known capabilities.
type Device interface {
	io.ReadCloser
	Capabilities() evdev.Capabilities
}

// Opener opens and inspects a device node.
type Opener interface {
	Open(path string) (Device, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(path string) (Device, error)

func (f OpenerFunc) Open(path string) (Device, error) { return f(path) }

// DiscoverFunc lists candidate device nodes for a glob pattern.
type DiscoverFunc func(pattern string) ([]string, error)

// GlobDiscover lists nodes with filepath.Glob, ordered by event number.
func GlobDiscover(pattern string) ([]string, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	sortByOrdinal(paths)
	return paths, nil
}

// Ordinal returns N for a node named eventN, or -1.
func Ordinal(path string) int {
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "event") {
		return -1
	}
	n, err := strconv.Atoi(strings.TrimPrefix(base, "event"))
	if err != nil {
		return -1
	}
	return n
}

func sortByOrdinal(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		oi, oj := Ordinal(paths[i]), Ordinal(paths[j])
		if oi != oj {
			return oi < oj
		}
		return paths[i] < paths[j]
	})
}
