package devices

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/1broseidon/framecore/internal/evdev"
	"github.com/1broseidon/framecore/internal/input"
)

type fakeDevice struct {
	*io.PipeReader
	caps evdev.Capabilities
}

func (d *fakeDevice) Capabilities() evdev.Capabilities { return d.caps }

type fakeNode struct {
	caps  evdev.Capabilities
	r     *io.PipeReader
	w     *io.PipeWriter
	opens int
}

type fakeBus struct {
	mu    sync.Mutex
	nodes map[string]*fakeNode
}

func newFakeBus() *fakeBus {
	return &fakeBus{nodes: make(map[string]*fakeNode)}
}

func (b *fakeBus) add(path string, caps evdev.Capabilities) *fakeNode {
	r, w := io.Pipe()
	n := &fakeNode{caps: caps, r: r, w: w}
	b.mu.Lock()
	b.nodes[path] = n
	b.mu.Unlock()
	return n
}

// unplug removes the node and fails its reader.
func (b *fakeBus) unplug(path string) {
	b.mu.Lock()
	n := b.nodes[path]
	delete(b.nodes, path)
	b.mu.Unlock()
	n.w.CloseWithError(syscall.ENODEV)
}

func (b *fakeBus) Open(path string) (Device, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, ok := b.nodes[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, syscall.ENOENT)
	}
	n.opens++
	return &fakeDevice{PipeReader: n.r, caps: n.caps}, nil
}

func (b *fakeBus) discover(string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	paths := make([]string, 0, len(b.nodes))
	for p := range b.nodes {
		paths = append(paths, p)
	}
	sortByOrdinal(paths)
	return paths, nil
}

func (b *fakeBus) opens(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nodes[path].opens
}

func (b *fakeBus) pool(t *testing.T, snap *input.Snapshot, cfg Config) *Pool {
	t.Helper()
	cfg.Opener = b
	cfg.Discover = b.discover
	p := NewPool(cfg, snap)
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func send(t *testing.T, n *fakeNode, evs ...evdev.Event) {
	t.Helper()
	buf := make([]byte, len(evs)*evdev.RecordSize)
	for i, ev := range evs {
		evdev.Encode(buf[i*evdev.RecordSize:], ev)
	}
	if _, err := n.w.Write(buf); err != nil {
		t.Fatalf("write events: %v", err)
	}
}

// waitFrame advances snap before each check, as the frame loop would.
func waitFrame(t *testing.T, snap *input.Snapshot, what string, cond func() bool) {
	t.Helper()
	waitFor(t, what, func() bool {
		snap.AdvanceFrame()
		return cond()
	})
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func ev(typ, code uint16, value int32) evdev.Event {
	return evdev.Event{Type: typ, Code: code, Value: value}
}

func syn() evdev.Event { return ev(evdev.EvSyn, evdev.SynReport, 0) }

func mouseCaps() evdev.Capabilities {
	c := evdev.NewCapabilities("test mouse")
	c.Rel.Set(evdev.RelX)
	c.Rel.Set(evdev.RelY)
	c.Rel.Set(evdev.RelWheel)
	c.Keys.Set(evdev.BtnLeft)
	c.Keys.Set(evdev.BtnRight)
	return c
}

func keyboardCaps() evdev.Capabilities {
	c := evdev.NewCapabilities("test keyboard")
	for _, k := range []int{evdev.KeyA, evdev.KeyZ, evdev.KeySpace, evdev.KeyLeftShift} {
		c.Keys.Set(k)
	}
	return c
}

func touchCaps(multi bool) evdev.Capabilities {
	c := evdev.NewCapabilities("test touch")
	c.Keys.Set(evdev.BtnTouch)
	axes := []int{evdev.AbsX, evdev.AbsY}
	if multi {
		axes = []int{evdev.AbsMTSlot, evdev.AbsMTTrackingID, evdev.AbsMTPositionX, evdev.AbsMTPositionY}
	}
	for _, a := range axes {
		c.Abs.Set(a)
		c.Ranges[a] = evdev.AbsInfo{Minimum: 0, Maximum: 1000}
	}
	return c
}

func gamepadCaps(name string) evdev.Capabilities {
	c := evdev.NewCapabilities(name)
	c.Keys.Set(evdev.BtnSouth)
	c.Keys.Set(evdev.BtnEast)
	for _, a := range []int{evdev.AbsX, evdev.AbsY} {
		c.Abs.Set(a)
		c.Ranges[a] = evdev.AbsInfo{Minimum: -32768, Maximum: 32767}
	}
	return c
}

func TestPoolRelativeMouse(t *testing.T) {
	snap := input.NewSnapshot()
	snap.SetBounds(100, 100)
	bus := newFakeBus()
	m := bus.add("/dev/input/event0", mouseCaps())
	bus.pool(t, snap, Config{})

	send(t, m,
		ev(evdev.EvRel, evdev.RelX, 10),
		ev(evdev.EvRel, evdev.RelY, 5),
		ev(evdev.EvKey, evdev.BtnRight, 1),
		syn(),
	)
	waitFrame(t, snap, "mouse motion", func() bool {
		return snap.RawMousePosition() == input.Vec2{X: 10, Y: 5}
	})
	if !snap.IsMouseButtonDown(input.MouseButtonRight) {
		t.Fatal("right button should be down")
	}

	// Motion past the bounds clamps.
	send(t, m, ev(evdev.EvRel, evdev.RelX, 500), syn())
	waitFrame(t, snap, "clamped motion", func() bool {
		return snap.RawMousePosition().X == 100
	})
}

func TestPoolKeyboardCharacters(t *testing.T) {
	snap := input.NewSnapshot()
	bus := newFakeBus()
	kb := bus.add("/dev/input/event1", keyboardCaps())
	bus.pool(t, snap, Config{})

	send(t, kb,
		ev(evdev.EvKey, evdev.KeyLeftShift, 1),
		ev(evdev.EvKey, evdev.KeyA, 1),
		syn(),
		ev(evdev.EvKey, evdev.KeyA, 0),
		ev(evdev.EvKey, evdev.KeyLeftShift, 0),
		syn(),
		ev(evdev.EvKey, evdev.KeyZ, 1),
		syn(),
	)
	waitFrame(t, snap, "z down", func() bool { return snap.IsKeyDown(input.KeyZ) })

	if got := snap.GetKeyPressed(); got != input.KeyLeftShift {
		t.Fatalf("first key = %v, want LeftShift", got)
	}
	if got := snap.GetKeyPressed(); got != input.KeyA {
		t.Fatalf("second key = %v, want A", got)
	}
	if got := snap.GetCharPressed(); got != 'A' {
		t.Fatalf("first char = %q, want 'A'", got)
	}
	if got := snap.GetCharPressed(); got != 'z' {
		t.Fatalf("second char = %q, want 'z'", got)
	}
	if snap.IsKeyDown(input.KeyA) {
		t.Fatal("A should be released")
	}
}

func TestPoolDiscardsDroppedReports(t *testing.T) {
	snap := input.NewSnapshot()
	snap.SetBounds(100, 100)
	bus := newFakeBus()
	m := bus.add("/dev/input/event0", mouseCaps())
	bus.pool(t, snap, Config{})

	send(t, m,
		ev(evdev.EvRel, evdev.RelX, 5),
		ev(evdev.EvSyn, evdev.SynDropped, 0),
		ev(evdev.EvRel, evdev.RelX, 7),
		syn(),
		ev(evdev.EvRel, evdev.RelX, 1),
		syn(),
	)
	waitFrame(t, snap, "motion", func() bool { return snap.RawMousePosition().X != 0 })
	if got := snap.RawMousePosition().X; got != 1 {
		t.Fatalf("x = %v, want 1 (dropped report discarded)", got)
	}
}

func TestPoolMultitouch(t *testing.T) {
	snap := input.NewSnapshot()
	snap.SetBounds(200, 100)
	bus := newFakeBus()
	ts := bus.add("/dev/input/event2", touchCaps(true))
	bus.pool(t, snap, Config{})

	send(t, ts,
		ev(evdev.EvAbs, evdev.AbsMTSlot, 0),
		ev(evdev.EvAbs, evdev.AbsMTTrackingID, 7),
		ev(evdev.EvAbs, evdev.AbsMTPositionX, 500),
		ev(evdev.EvAbs, evdev.AbsMTPositionY, 250),
		ev(evdev.EvAbs, evdev.AbsMTSlot, 1),
		ev(evdev.EvAbs, evdev.AbsMTTrackingID, 8),
		ev(evdev.EvAbs, evdev.AbsMTPositionX, 1000),
		ev(evdev.EvAbs, evdev.AbsMTPositionY, 1000),
		ev(evdev.EvKey, evdev.BtnTouch, 1),
		syn(),
	)
	waitFrame(t, snap, "two contacts", func() bool { return snap.TouchPointCount() == 2 })

	if got := snap.TouchPosition(0); got != (input.Vec2{X: 100, Y: 25}) {
		t.Fatalf("contact 0 = %+v, want {100 25}", got)
	}
	if got := snap.TouchPointID(1); got != 8 {
		t.Fatalf("contact 1 id = %d, want 8", got)
	}
	if got := snap.RawMousePosition(); got != (input.Vec2{X: 100, Y: 25}) {
		t.Fatalf("mouse = %+v, want slot 0 position", got)
	}
	if !snap.IsMouseButtonDown(input.MouseButtonLeft) {
		t.Fatal("touch should press the left button")
	}

	send(t, ts,
		ev(evdev.EvAbs, evdev.AbsMTSlot, 0),
		ev(evdev.EvAbs, evdev.AbsMTTrackingID, -1),
		syn(),
	)
	waitFrame(t, snap, "lift", func() bool { return snap.TouchPointCount() == 1 })
	if got := snap.TouchPointID(0); got != 8 {
		t.Fatalf("remaining contact id = %d, want 8", got)
	}
}

func TestPoolSingleTouchContacts(t *testing.T) {
	snap := input.NewSnapshot()
	snap.SetBounds(100, 100)
	bus := newFakeBus()
	ts := bus.add("/dev/input/event2", touchCaps(false))
	bus.pool(t, snap, Config{})

	send(t, ts,
		ev(evdev.EvAbs, evdev.AbsX, 200),
		ev(evdev.EvAbs, evdev.AbsY, 400),
		ev(evdev.EvKey, evdev.BtnTouch, 1),
		syn(),
	)
	waitFrame(t, snap, "contact", func() bool { return snap.TouchPointCount() == 1 })
	if got := snap.TouchPosition(0); got != (input.Vec2{X: 20, Y: 40}) {
		t.Fatalf("contact = %+v, want {20 40}", got)
	}
	first := snap.TouchPointID(0)

	send(t, ts, ev(evdev.EvKey, evdev.BtnTouch, 0), syn())
	waitFrame(t, snap, "lift", func() bool { return snap.TouchPointCount() == 0 })

	send(t, ts, ev(evdev.EvKey, evdev.BtnTouch, 1), syn())
	waitFrame(t, snap, "second contact", func() bool { return snap.TouchPointCount() == 1 })
	if snap.TouchPointID(0) == first {
		t.Fatal("a new contact should get a new id")
	}
}

func TestPoolGamepadDisconnect(t *testing.T) {
	snap := input.NewSnapshot()
	bus := newFakeBus()
	first := bus.add("/dev/input/event3", gamepadCaps("pad one"))
	second := bus.add("/dev/input/event4", gamepadCaps("pad two"))
	p := bus.pool(t, snap, Config{})

	if !snap.IsGamepadAvailable(0) || !snap.IsGamepadAvailable(1) {
		t.Fatal("both pads should be available")
	}
	if got := snap.GamepadName(1); got != "pad two" {
		t.Fatalf("pad 1 name = %q", got)
	}

	send(t, second,
		ev(evdev.EvKey, evdev.BtnSouth, 1),
		ev(evdev.EvAbs, evdev.AbsX, 32767),
		syn(),
	)
	waitFrame(t, snap, "button", func() bool {
		return snap.IsGamepadButtonDown(1, input.GamepadButtonRightFaceDown)
	})
	if got := snap.GamepadAxisMovement(1, input.GamepadAxisLeftX); got < 0.99 {
		t.Fatalf("axis = %v, want ~1", got)
	}

	first.w.CloseWithError(syscall.ENODEV)
	waitFrame(t, snap, "pad 0 disconnect", func() bool { return !snap.IsGamepadAvailable(0) })

	if !snap.IsGamepadAvailable(1) {
		t.Fatal("pad 1 should survive pad 0 disconnecting")
	}
	if !snap.IsGamepadButtonDown(1, input.GamepadButtonRightFaceDown) {
		t.Fatal("pad 1 state should be untouched")
	}
	waitFrame(t, snap, "worker removal", func() bool { return len(p.Workers()) == 1 })
}

func TestPoolCloseJoinsWorkers(t *testing.T) {
	snap := input.NewSnapshot()
	bus := newFakeBus()
	nodes := []*fakeNode{
		bus.add("/dev/input/event0", mouseCaps()),
		bus.add("/dev/input/event1", keyboardCaps()),
		bus.add("/dev/input/event3", gamepadCaps("pad")),
	}
	p := NewPool(Config{Opener: bus, Discover: bus.discover}, snap)
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := len(p.Workers()); got != 3 {
		t.Fatalf("workers = %d, want 3", got)
	}

	done := make(chan error, 1)
	go func() { done <- p.Close() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Close: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}

	if got := len(p.Workers()); got != 0 {
		t.Fatalf("workers after close = %d", got)
	}
	if snap.IsGamepadAvailable(0) {
		t.Fatal("gamepad slot should be released")
	}
	for _, n := range nodes {
		if _, err := n.w.Write([]byte{0}); !errors.Is(err, io.ErrClosedPipe) {
			t.Fatalf("device still open: %v", err)
		}
	}
	if err := p.Start(context.Background()); err == nil {
		t.Fatal("Start after Close should fail")
	}
}

func TestPoolWorkerCeiling(t *testing.T) {
	snap := input.NewSnapshot()
	bus := newFakeBus()
	for i := 0; i < MaxWorkers+2; i++ {
		bus.add(fmt.Sprintf("/dev/input/event%d", i), mouseCaps())
	}
	p := bus.pool(t, snap, Config{MaxWorkers: 50})

	if got := len(p.Workers()); got != MaxWorkers {
		t.Fatalf("workers = %d, want %d", got, MaxWorkers)
	}
	if n := p.Scan(); n != 0 {
		t.Fatalf("rescan at ceiling spawned %d", n)
	}
}

func TestPoolRescanHotplug(t *testing.T) {
	snap := input.NewSnapshot()
	bus := newFakeBus()
	bus.add("/dev/input/event0", mouseCaps())
	p := bus.pool(t, snap, Config{RescanInterval: 5 * time.Millisecond})

	bus.add("/dev/input/event7", keyboardCaps())
	waitFrame(t, snap, "hot-plugged device", func() bool { return len(p.Workers()) == 2 })

	// Give the rescan loop a few more ticks.
	time.Sleep(30 * time.Millisecond)
	for _, path := range []string{"/dev/input/event0", "/dev/input/event7"} {
		if got := bus.opens(path); got != 1 {
			t.Fatalf("%s opened %d times", path, got)
		}
	}
	ws := p.Workers()
	if ws[0].Ordinal != 0 || ws[1].Ordinal != 7 || ws[1].Class != "keyboard" {
		t.Fatalf("workers = %+v", ws)
	}
}

func TestPoolIgnoresUnclassifiedDevices(t *testing.T) {
	snap := input.NewSnapshot()
	bus := newFakeBus()
	bus.add("/dev/input/event5", evdev.NewCapabilities("power button"))
	p := bus.pool(t, snap, Config{})

	if got := len(p.Workers()); got != 0 {
		t.Fatalf("workers = %d, want 0", got)
	}
	p.Scan()
	p.Scan()
	if got := bus.opens("/dev/input/event5"); got != 1 {
		t.Fatalf("opened %d times, want 1", got)
	}
}

func TestPoolLastTouchOnly(t *testing.T) {
	snap := input.NewSnapshot()
	snap.SetBounds(100, 100)
	bus := newFakeBus()
	low := bus.add("/dev/input/event2", touchCaps(false))
	high := bus.add("/dev/input/event5", touchCaps(false))
	p := bus.pool(t, snap, Config{LastTouchOnly: true})

	touch := func() map[int]bool {
		out := make(map[int]bool)
		for _, w := range p.Workers() {
			out[w.Ordinal] = w.Touch
		}
		return out
	}
	if got := touch(); got[2] || !got[5] {
		t.Fatalf("touch enabled = %v, want only event5", got)
	}

	send(t, low, ev(evdev.EvKey, evdev.BtnTouch, 1), syn())
	send(t, high, ev(evdev.EvAbs, evdev.AbsX, 500), syn())
	waitFrame(t, snap, "high device motion", func() bool { return snap.RawMousePosition().X == 50 })
	if snap.TouchPointCount() != 0 {
		t.Fatal("suppressed device should not register contacts")
	}

	high.w.CloseWithError(syscall.ENODEV)
	waitFrame(t, snap, "re-election", func() bool { return touch()[2] })
}

func TestPoolWritesVisibleAtNextAdvance(t *testing.T) {
	snap := input.NewSnapshot()
	bus := newFakeBus()
	kb := bus.add("/dev/input/event1", keyboardCaps())
	bus.pool(t, snap, Config{})

	// The key queue is not latched, so it shows when the report landed.
	send(t, kb, ev(evdev.EvKey, evdev.KeySpace, 1), syn())
	waitFor(t, "space queued", func() bool { return snap.GetKeyPressed() == input.KeySpace })

	if snap.IsKeyDown(input.KeySpace) {
		t.Fatal("a write between frames must not change the current frame")
	}
	snap.AdvanceFrame()
	if !snap.IsKeyPressed(input.KeySpace) {
		t.Fatal("space should be pressed in the frame after the write")
	}
	snap.AdvanceFrame()
	if snap.IsKeyPressed(input.KeySpace) || !snap.IsKeyDown(input.KeySpace) {
		t.Fatal("space should be held one frame later")
	}
}

func TestPoolLargeReportKeepsEveryOp(t *testing.T) {
	snap := input.NewSnapshot()
	snap.SetBounds(100, 100)
	bus := newFakeBus()
	ts := bus.add("/dev/input/event2", touchCaps(false))
	bus.pool(t, snap, Config{})

	// 31 axis events queue 62 operations, so the contact's four land on
	// a nearly full batch.
	var evs []evdev.Event
	for i := 0; i < 29; i++ {
		evs = append(evs, ev(evdev.EvAbs, evdev.AbsX, int32(i)))
	}
	evs = append(evs, ev(evdev.EvAbs, evdev.AbsX, 200), ev(evdev.EvAbs, evdev.AbsY, 400))
	evs = append(evs, ev(evdev.EvKey, evdev.BtnTouch, 1), syn())
	send(t, ts, evs...)

	waitFrame(t, snap, "contact", func() bool { return snap.TouchPointCount() == 1 })
	if got := snap.TouchPosition(0); got != (input.Vec2{X: 20, Y: 40}) {
		t.Fatalf("contact = %+v, want {20 40}", got)
	}
	if !snap.IsMouseButtonDown(input.MouseButtonLeft) {
		t.Fatal("touch should press the left button")
	}
}

func TestPoolGamepadWithoutSlotIsNotReopened(t *testing.T) {
	snap := input.NewSnapshot()
	bus := newFakeBus()
	for i := 0; i < input.MaxGamepads+1; i++ {
		bus.add(fmt.Sprintf("/dev/input/event%d", 10+i), gamepadCaps("pad"))
	}
	p := bus.pool(t, snap, Config{})

	extra := fmt.Sprintf("/dev/input/event%d", 10+input.MaxGamepads)
	if got := len(p.Workers()); got != input.MaxGamepads {
		t.Fatalf("workers = %d, want %d", got, input.MaxGamepads)
	}
	p.Scan()
	p.Scan()
	if got := bus.opens(extra); got != 1 {
		t.Fatalf("slotless pad opened %d times, want 1", got)
	}

	// Freeing a slot lets the next scan attach it.
	bus.unplug("/dev/input/event10")
	waitFor(t, "slotless pad attached", func() bool {
		p.Scan()
		return bus.opens(extra) == 2
	})
	if got := len(p.Workers()); got != input.MaxGamepads {
		t.Fatalf("workers = %d, want %d", got, input.MaxGamepads)
	}
}

func TestOrdinal(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{"/dev/input/event0", 0},
		{"/dev/input/event12", 12},
		{"/dev/input/mouse0", -1},
		{"/dev/input/eventx", -1},
	}
	for _, tt := range tests {
		if got := Ordinal(tt.path); got != tt.want {
			t.Errorf("Ordinal(%q) = %d, want %d", tt.path, got, tt.want)
		}
	}

	paths := []string{"/dev/input/event10", "/dev/input/event2", "/dev/input/event1"}
	sortByOrdinal(paths)
	if paths[0] != "/dev/input/event1" || paths[2] != "/dev/input/event10" {
		t.Fatalf("sorted = %v", paths)
	}
}

func TestDeviceErrorUnwrap(t *testing.T) {
	err := &DeviceError{Path: "/dev/input/event3", Op: "read", Err: syscall.ENODEV}
	if !errors.Is(err, syscall.ENODEV) {
		t.Fatal("DeviceError should unwrap to its cause")
	}
}
