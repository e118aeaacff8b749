package window

import (
	"fmt"
	"sort"
	"strings"
)

// ConfigFlags is the bit set of window and backend hints.
type ConfigFlags uint32

const (
	FlagFullscreen         ConfigFlags = 0x00000002
	FlagResizable          ConfigFlags = 0x00000004
	FlagUndecorated        ConfigFlags = 0x00000008
	FlagTransparent        ConfigFlags = 0x00000010
	FlagMSAA4x             ConfigFlags = 0x00000020
	FlagVSyncHint          ConfigFlags = 0x00000040
	FlagHidden             ConfigFlags = 0x00000080
	FlagAlwaysRun          ConfigFlags = 0x00000100
	FlagMinimized          ConfigFlags = 0x00000200
	FlagMaximized          ConfigFlags = 0x00000400
	FlagUnfocused          ConfigFlags = 0x00000800
	FlagTopmost            ConfigFlags = 0x00001000
	FlagHighDPI            ConfigFlags = 0x00002000
	FlagMousePassthrough   ConfigFlags = 0x00004000
	FlagBorderlessWindowed ConfigFlags = 0x00008000
	FlagInterlaced         ConfigFlags = 0x00010000
)

var flagNames = map[string]ConfigFlags{
	"fullscreen":          FlagFullscreen,
	"resizable":           FlagResizable,
	"undecorated":         FlagUndecorated,
	"transparent":         FlagTransparent,
	"msaa_4x":             FlagMSAA4x,
	"vsync":               FlagVSyncHint,
	"hidden":              FlagHidden,
	"always_run":          FlagAlwaysRun,
	"minimized":           FlagMinimized,
	"maximized":           FlagMaximized,
	"unfocused":           FlagUnfocused,
	"topmost":             FlagTopmost,
	"high_dpi":            FlagHighDPI,
	"mouse_passthrough":   FlagMousePassthrough,
	"borderless_windowed": FlagBorderlessWindowed,
	"interlaced":          FlagInterlaced,
}

// Has reports whether every bit of f is set.
func (c ConfigFlags) Has(f ConfigFlags) bool { return c&f == f }

func (c ConfigFlags) Set(f ConfigFlags) ConfigFlags   { return c | f }
func (c ConfigFlags) Clear(f ConfigFlags) ConfigFlags { return c &^ f }

// ParseFlag looks up one configuration flag name.
func ParseFlag(name string) (ConfigFlags, bool) {
	f, ok := flagNames[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// ParseFlags converts configuration flag names into a bit set.
func ParseFlags(names []string) (ConfigFlags, error) {
	var flags ConfigFlags
	for _, name := range names {
		f, ok := ParseFlag(name)
		if !ok {
			return 0, fmt.Errorf("unknown window flag %q", name)
		}
		flags = flags.Set(f)
	}
	return flags, nil
}

// Names returns the configuration names of the set bits, sorted.
func (c ConfigFlags) Names() []string {
	var names []string
	for name, f := range flagNames {
		if c.Has(f) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (c ConfigFlags) String() string {
	if c == 0 {
		return "none"
	}
	return strings.Join(c.Names(), "|")
}
