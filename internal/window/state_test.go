package window

import (
	"reflect"
	"testing"
)

func TestResizeClampsToMin(t *testing.T) {
	s := New("t", 800, 600, FlagResizable)
	s.SetMinSize(320, 240)
	s.ClearResized()

	got := s.Resize(100, 50)
	if got != (Size{Width: 320, Height: 240}) || s.Screen() != got {
		t.Fatalf("expected clamp to 320x240, got %+v (screen %+v)", got, s.Screen())
	}
	if !s.IsResized() {
		t.Fatal("expected resized flag")
	}
}

func TestResizeClampsToMax(t *testing.T) {
	s := New("t", 800, 600, FlagResizable)
	s.SetMaxSize(1024, 768)

	got := s.Resize(4000, 500)
	if got != (Size{Width: 1024, Height: 500}) {
		t.Fatalf("expected 1024x500, got %+v", got)
	}
}

func TestSetMinSizeReclampsCurrent(t *testing.T) {
	s := New("t", 200, 200, 0)
	s.SetMinSize(300, 100)
	if s.Screen() != (Size{Width: 300, Height: 200}) {
		t.Fatalf("expected 300x200, got %+v", s.Screen())
	}
}

func TestToggleFullscreenRoundTrip(t *testing.T) {
	s := New("t", 800, 600, 0)
	s.Move(100, 50)
	s.SetDisplay(Size{Width: 1920, Height: 1080})

	s.ToggleFullscreen()
	if !s.IsFullscreen() || !s.Flags().Has(FlagFullscreen) {
		t.Fatal("expected fullscreen")
	}
	if s.Screen() != (Size{Width: 1920, Height: 1080}) || s.Position() != (Point{}) {
		t.Fatalf("expected display-sized window at origin, got %+v at %+v", s.Screen(), s.Position())
	}

	s.ToggleFullscreen()
	if s.IsFullscreen() {
		t.Fatal("expected windowed")
	}
	if s.Screen() != (Size{Width: 800, Height: 600}) || s.Position() != (Point{X: 100, Y: 50}) {
		t.Fatalf("expected restored 800x600 at 100,50, got %+v at %+v", s.Screen(), s.Position())
	}
}

func TestToggleBorderlessFromFullscreen(t *testing.T) {
	s := New("t", 640, 480, 0)
	s.Move(10, 20)
	s.SetDisplay(Size{Width: 1280, Height: 720})

	s.ToggleFullscreen()
	s.ToggleBorderless()
	if s.IsFullscreen() || !s.IsBorderless() {
		t.Fatal("expected borderless only")
	}
	if s.Screen() != (Size{Width: 1280, Height: 720}) {
		t.Fatalf("expected display size, got %+v", s.Screen())
	}

	s.ToggleBorderless()
	if s.Screen() != (Size{Width: 640, Height: 480}) || s.Position() != (Point{X: 10, Y: 20}) {
		t.Fatalf("expected restored window, got %+v at %+v", s.Screen(), s.Position())
	}
}

func TestLetterboxScaleAndOffset(t *testing.T) {
	s := New("t", 1000, 600, 0)
	s.SetRenderSize(400, 300)
	s.SetLetterbox(true)

	if s.Scale() != (Vec{X: 2, Y: 2}) {
		t.Fatalf("expected scale 2, got %+v", s.Scale())
	}
	if s.Render() != (Size{Width: 800, Height: 600}) {
		t.Fatalf("expected render 800x600, got %+v", s.Render())
	}
	if s.RenderOffset() != (Point{X: 100, Y: 0}) {
		t.Fatalf("expected offset 100,0, got %+v", s.RenderOffset())
	}

	off, scale := s.MouseTransform()
	x := (100 + off.X) * scale.X
	y := (600 + off.Y) * scale.Y
	if x != 0 || y != 300 {
		t.Fatalf("expected pixel (100,600) to map to (0,300), got (%v,%v)", x, y)
	}
}

func TestLetterboxInvariants(t *testing.T) {
	sizes := []Size{{801, 600}, {1366, 768}, {333, 1000}, {1920, 1080}, {7, 5}}
	for _, screen := range sizes {
		s := New("t", screen.Width, screen.Height, 0)
		s.SetRenderSize(320, 240)
		s.SetLetterbox(true)

		r, off := s.Render(), s.RenderOffset()
		if r.Width > screen.Width || r.Height > screen.Height {
			t.Fatalf("%+v: render %+v exceeds screen", screen, r)
		}
		if off.X < 0 || off.Y < 0 {
			t.Fatalf("%+v: negative offset %+v", screen, off)
		}
		if r.Width+2*off.X != screen.Width || r.Height+2*off.Y != screen.Height {
			t.Fatalf("%+v: asymmetric offset %+v for render %+v", screen, off, r)
		}
	}
}

func TestNoLetterboxUsesComponentScale(t *testing.T) {
	s := New("t", 800, 300, 0)
	s.SetRenderSize(400, 300)

	if s.Scale() != (Vec{X: 2, Y: 1}) {
		t.Fatalf("expected scale (2,1), got %+v", s.Scale())
	}
	if s.Render() != s.Screen() || s.RenderOffset() != (Point{}) {
		t.Fatalf("expected render to fill the screen, got %+v off %+v", s.Render(), s.RenderOffset())
	}
}

func TestCloseRequestOnlySetsFlag(t *testing.T) {
	s := New("t", 10, 10, 0)
	s.RequestClose()
	if !s.ShouldClose() {
		t.Fatal("expected should close")
	}
	s.CancelClose()
	if s.ShouldClose() {
		t.Fatal("expected close cancelled")
	}
}

func TestMinimizeMaximizeExclusive(t *testing.T) {
	s := New("t", 10, 10, 0)
	s.SetMaximized(true)
	s.SetMinimized(true)
	if s.IsMaximized() || !s.IsMinimized() {
		t.Fatal("expected minimized only")
	}
	s.Restore()
	if s.IsMaximized() || s.IsMinimized() {
		t.Fatal("expected restored")
	}
}

func TestParseFlags(t *testing.T) {
	flags, err := ParseFlags([]string{"resizable", " VSYNC ", "borderless_windowed"})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if flags != FlagResizable|FlagVSyncHint|FlagBorderlessWindowed {
		t.Fatalf("unexpected flags %#x", uint32(flags))
	}
	want := []string{"borderless_windowed", "resizable", "vsync"}
	if got := flags.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}

	if _, err := ParseFlags([]string{"sparkly"}); err == nil {
		t.Fatal("expected unknown flag error")
	}

	if f, ok := ParseFlag("Topmost"); !ok || f != FlagTopmost {
		t.Fatalf("ParseFlag(Topmost) = %#x, %v", uint32(f), ok)
	}
	cleared := flags.Clear(FlagVSyncHint).Set(FlagHidden)
	if cleared.Has(FlagVSyncHint) || !cleared.Has(FlagHidden|FlagResizable) {
		t.Fatalf("Set/Clear gave %#x", uint32(cleared))
	}
}
