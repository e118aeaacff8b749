// Package window holds window and display geometry, mode flags and the
// render-area transform derived from them. A State is owned by the frame
// loop; backends mutate it from that loop only.
package window

// Point is a position in screen pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Vec is a floating-point 2D scale or offset.
type Vec struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// State is the window/display geometry and mode of the running application.
type State struct {
	title string
	flags ConfigFlags

	ready            bool
	fullscreen       bool
	shouldClose      bool
	resizedLastFrame bool
	eventWaiting     bool

	position         Point
	previousPosition Point
	display          Size
	refreshRate      int
	screen           Size
	previousScreen   Size
	currentFbo       Size
	render           Size
	renderOffset     Point
	windowMin        Size
	windowMax        Size

	logical   Size
	letterbox bool
	scale     Vec
}

// New returns the state for a window of the requested client size.
func New(title string, width, height int, flags ConfigFlags) *State {
	s := &State{
		title:   title,
		flags:   flags,
		screen:  Size{Width: max(width, 1), Height: max(height, 1)},
		logical: Size{Width: max(width, 1), Height: max(height, 1)},
	}
	s.previousScreen = s.screen
	s.fullscreen = flags.Has(FlagFullscreen)
	s.recompute()
	return s
}

func (s *State) Title() string         { return s.title }
func (s *State) SetTitle(title string) { s.title = title }
func (s *State) Flags() ConfigFlags    { return s.flags }
func (s *State) IsReady() bool         { return s.ready }
func (s *State) SetReady(ready bool)   { s.ready = ready }

func (s *State) Position() Point     { return s.position }
func (s *State) Display() Size       { return s.display }
func (s *State) Screen() Size        { return s.screen }
func (s *State) Render() Size        { return s.render }
func (s *State) RenderOffset() Point { return s.renderOffset }
func (s *State) CurrentFbo() Size    { return s.currentFbo }
func (s *State) Scale() Vec          { return s.scale }
func (s *State) MinSize() Size       { return s.windowMin }
func (s *State) MaxSize() Size       { return s.windowMax }

func (s *State) IsFullscreen() bool { return s.fullscreen }
func (s *State) IsBorderless() bool { return s.flags.Has(FlagBorderlessWindowed) }
func (s *State) IsResized() bool    { return s.resizedLastFrame }
func (s *State) IsFocused() bool    { return !s.flags.Has(FlagUnfocused) }
func (s *State) IsMinimized() bool  { return s.flags.Has(FlagMinimized) }
func (s *State) IsMaximized() bool  { return s.flags.Has(FlagMaximized) }
func (s *State) IsHidden() bool     { return s.flags.Has(FlagHidden) }
func (s *State) ShouldClose() bool  { return s.shouldClose }

// EventWaiting reports whether the backend should block for events instead
// of polling.
func (s *State) EventWaiting() bool           { return s.eventWaiting }
func (s *State) SetEventWaiting(enabled bool) { s.eventWaiting = enabled }

// RequestClose marks the window for closing. The frame loop decides when to
// stop.
func (s *State) RequestClose() { s.shouldClose = true }

// CancelClose clears a pending close request.
func (s *State) CancelClose() { s.shouldClose = false }

// SetRefreshRate records the display refresh rate in Hz; 0 means unknown.
func (s *State) SetRefreshRate(hz int) { s.refreshRate = max(hz, 0) }
func (s *State) RefreshRate() int      { return s.refreshRate }

// ClearResized resets the per-frame resize marker.
func (s *State) ClearResized() { s.resizedLastFrame = false }

// SetDisplay records the size of the monitor or output the window lives on.
func (s *State) SetDisplay(size Size) {
	s.display = size
	if s.fullscreen || s.IsBorderless() {
		s.setScreen(size)
	}
}

// Resize applies a new client size clamped to the min/max bounds and
// returns the size actually stored.
func (s *State) Resize(width, height int) Size {
	size := s.clamp(Size{Width: width, Height: height})
	s.setScreen(size)
	return size
}

func (s *State) setScreen(size Size) {
	if size == s.screen {
		return
	}
	s.screen = size
	s.resizedLastFrame = true
	s.recompute()
}

func (s *State) clamp(size Size) Size {
	if s.windowMin.Width > 0 && size.Width < s.windowMin.Width {
		size.Width = s.windowMin.Width
	}
	if s.windowMin.Height > 0 && size.Height < s.windowMin.Height {
		size.Height = s.windowMin.Height
	}
	if s.windowMax.Width > 0 && size.Width > s.windowMax.Width {
		size.Width = s.windowMax.Width
	}
	if s.windowMax.Height > 0 && size.Height > s.windowMax.Height {
		size.Height = s.windowMax.Height
	}
	size.Width = max(size.Width, 1)
	size.Height = max(size.Height, 1)
	return size
}

// SetMinSize sets the lower resize bound and re-clamps the current size.
func (s *State) SetMinSize(width, height int) {
	s.windowMin = Size{Width: max(width, 0), Height: max(height, 0)}
	s.Resize(s.screen.Width, s.screen.Height)
}

// SetMaxSize sets the upper resize bound and re-clamps the current size.
// Zero means unbounded.
func (s *State) SetMaxSize(width, height int) {
	s.windowMax = Size{Width: max(width, 0), Height: max(height, 0)}
	s.Resize(s.screen.Width, s.screen.Height)
}

func (s *State) Move(x, y int) {
	s.position = Point{X: x, Y: y}
}

func (s *State) SetFocused(focused bool) {
	s.setFlag(FlagUnfocused, !focused)
}

func (s *State) SetHidden(hidden bool) {
	s.setFlag(FlagHidden, hidden)
}

func (s *State) SetMinimized(minimized bool) {
	s.setFlag(FlagMinimized, minimized)
	if minimized {
		s.setFlag(FlagMaximized, false)
	}
}

func (s *State) SetMaximized(maximized bool) {
	s.setFlag(FlagMaximized, maximized)
	if maximized {
		s.setFlag(FlagMinimized, false)
	}
}

// Restore clears both the minimized and maximized states.
func (s *State) Restore() {
	s.setFlag(FlagMinimized, false)
	s.setFlag(FlagMaximized, false)
}

func (s *State) setFlag(f ConfigFlags, on bool) {
	if on {
		s.flags = s.flags.Set(f)
	} else {
		s.flags = s.flags.Clear(f)
	}
}

// ToggleFullscreen switches between windowed and exclusive fullscreen. The
// windowed position and size are saved on entry and restored on exit.
func (s *State) ToggleFullscreen() {
	if s.fullscreen {
		s.fullscreen = false
		s.setFlag(FlagFullscreen, false)
		s.restoreWindowed()
		return
	}
	if s.IsBorderless() {
		s.setFlag(FlagBorderlessWindowed, false)
		s.restoreWindowed()
	}
	s.saveWindowed()
	s.fullscreen = true
	s.setFlag(FlagFullscreen, true)
	s.occupyDisplay()
}

// ToggleBorderless switches between windowed and borderless-windowed mode
// covering the whole display.
func (s *State) ToggleBorderless() {
	if s.IsBorderless() {
		s.setFlag(FlagBorderlessWindowed, false)
		s.restoreWindowed()
		return
	}
	if s.fullscreen {
		s.fullscreen = false
		s.setFlag(FlagFullscreen, false)
		s.restoreWindowed()
	}
	s.saveWindowed()
	s.setFlag(FlagBorderlessWindowed, true)
	s.occupyDisplay()
}

func (s *State) saveWindowed() {
	s.previousPosition = s.position
	s.previousScreen = s.screen
}

func (s *State) restoreWindowed() {
	s.position = s.previousPosition
	if s.previousScreen.Width > 0 && s.previousScreen.Height > 0 {
		s.setScreen(s.previousScreen)
	}
}

func (s *State) occupyDisplay() {
	s.position = Point{}
	if s.display.Width > 0 && s.display.Height > 0 {
		s.setScreen(s.display)
	}
}

// SetRenderSize sets the logical render target. Zero sizes follow the screen.
func (s *State) SetRenderSize(width, height int) {
	s.logical = Size{Width: max(width, 0), Height: max(height, 0)}
	s.recompute()
}

// SetLetterbox enables aspect-preserving scaling of the logical render
// target with symmetric black bars.
func (s *State) SetLetterbox(enabled bool) {
	s.letterbox = enabled
	s.recompute()
}

func (s *State) Letterbox() bool { return s.letterbox }

func (s *State) logicalSize() Size {
	if s.logical.Width <= 0 || s.logical.Height <= 0 {
		return s.screen
	}
	return s.logical
}

func (s *State) recompute() {
	l := s.logicalSize()
	sw, sh := float32(s.screen.Width), float32(s.screen.Height)
	lw, lh := float32(l.Width), float32(l.Height)

	if !s.letterbox {
		s.render = s.screen
		s.renderOffset = Point{}
		s.scale = Vec{X: sw / lw, Y: sh / lh}
		s.currentFbo = s.render
		return
	}

	scale := min(sw/lw, sh/lh)
	rw := min(int(lw*scale), s.screen.Width)
	rh := min(int(lh*scale), s.screen.Height)
	offX := (s.screen.Width - rw) / 2
	offY := (s.screen.Height - rh) / 2

	s.renderOffset = Point{X: offX, Y: offY}
	s.render = Size{Width: s.screen.Width - 2*offX, Height: s.screen.Height - 2*offY}
	s.scale = Vec{X: scale, Y: scale}
	s.currentFbo = s.render
}

// MouseTransform returns the offset and scale that map window pixels to
// logical render coordinates: logical = (pixel + offset) * scale.
func (s *State) MouseTransform() (offset, scale Vec) {
	l := s.logicalSize()
	offset = Vec{X: -float32(s.renderOffset.X), Y: -float32(s.renderOffset.Y)}
	scale = Vec{
		X: float32(l.Width) / float32(s.render.Width),
		Y: float32(l.Height) / float32(s.render.Height),
	}
	return offset, scale
}

// Info is a serialisable copy of the geometry for status reporting.
type Info struct {
	Title        string   `json:"title"`
	Flags        []string `json:"flags"`
	Ready        bool     `json:"ready"`
	Fullscreen   bool     `json:"fullscreen"`
	Borderless   bool     `json:"borderless"`
	Focused      bool     `json:"focused"`
	Minimized    bool     `json:"minimized"`
	ShouldClose  bool     `json:"should_close"`
	Position     Point    `json:"position"`
	Display      Size     `json:"display"`
	RefreshRate  int      `json:"refresh_rate"`
	Screen       Size     `json:"screen"`
	Render       Size     `json:"render"`
	RenderOffset Point    `json:"render_offset"`
	Scale        Vec      `json:"scale"`
	Letterbox    bool     `json:"letterbox"`
}

func (s *State) Info() Info {
	return Info{
		Title:        s.title,
		Flags:        s.flags.Names(),
		Ready:        s.ready,
		Fullscreen:   s.fullscreen,
		Borderless:   s.IsBorderless(),
		Focused:      s.IsFocused(),
		Minimized:    s.IsMinimized(),
		ShouldClose:  s.shouldClose,
		Position:     s.position,
		Display:      s.display,
		RefreshRate:  s.refreshRate,
		Screen:       s.screen,
		Render:       s.render,
		RenderOffset: s.renderOffset,
		Scale:        s.scale,
		Letterbox:    s.letterbox,
	}
}
