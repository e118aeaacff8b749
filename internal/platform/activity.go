package platform

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/1broseidon/framecore/internal/input"
	"github.com/1broseidon/framecore/internal/window"
)

// ContextHooks lets the embedder release and rebind graphics resources
// when the host takes the window away and hands it back.
type ContextHooks interface {
	Release() error
	Rebind() error
	Present() error
}

// NopHooks is used when no graphics layer is attached.
type NopHooks struct{}

func (NopHooks) Release() error { return nil }
func (NopHooks) Rebind() error  { return nil }
func (NopHooks) Present() error { return nil }

// Transport delivers host events into the queue until ctx is done.
type Transport interface {
	Run(ctx context.Context, q *Queue) error
}

// Activity is driven by host lifecycle and input callbacks that arrive on
// other goroutines through a bounded Queue.
type Activity struct {
	target    Target
	log       *slog.Logger
	queue     *Queue
	hooks     ContextHooks
	transport Transport

	enabled        bool
	hasWindow      bool
	rebindRequired bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newActivity(target Target, opts Options) *Activity {
	q := opts.Queue
	if q == nil {
		q = NewQueue(opts.QueueSize)
	}
	hooks := opts.Hooks
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &Activity{
		target:    target,
		log:       target.Logger.With("backend", string(KindActivity)),
		queue:     q,
		hooks:     hooks,
		transport: opts.Transport,
	}
}

func (a *Activity) Name() string { return string(KindActivity) }

// Queue returns the queue host callbacks push into.
func (a *Activity) Queue() *Queue { return a.queue }

// Transport returns the host transport, or nil when events are pushed
// directly.
func (a *Activity) Transport() Transport { return a.transport }

// Enabled reports whether the app currently has focus and a window.
func (a *Activity) Enabled() bool { return a.enabled }

// RebindRequired reports whether context resources must be rebound before
// the next present.
func (a *Activity) RebindRequired() bool { return a.rebindRequired }

// Init starts the host transport. The window becomes ready when the host
// delivers init_window.
func (a *Activity) Init(cfg Config) (Handle, error) {
	s := a.target.Window
	s.SetMinSize(cfg.MinSize.Width, cfg.MinSize.Height)
	s.SetMaxSize(cfg.MaxSize.Width, cfg.MaxSize.Height)

	if a.transport != nil {
		ctx, cancel := context.WithCancel(context.Background())
		a.cancel = cancel
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := a.transport.Run(ctx, a.queue); err != nil && !errors.Is(err, context.Canceled) {
				a.log.Warn("host transport stopped", "error", err)
			}
		}()
	}
	a.log.Info("activity backend waiting for host window", "queue", a.queue.Cap())
	return Handle{Kind: KindActivity}, nil
}

// PollEvents drains the host queue and then advances the input frame.
func (a *Activity) PollEvents() {
	a.target.Window.ClearResized()
	a.queue.Drain(a.handle)
	a.target.Input.AdvanceFrame()
}

func (a *Activity) handle(ev HostEvent) {
	switch ev.Kind {
	case EventLifecycle:
		a.lifecycle(ev)
	case EventKey:
		a.key(ev)
	case EventMotion:
		a.motion(ev)
	}
}

func (a *Activity) lifecycle(ev HostEvent) {
	s := a.target.Window
	switch ev.Lifecycle {
	case LifecycleInitWindow:
		a.hasWindow = true
		if ev.Width > 0 && ev.Height > 0 {
			s.SetDisplay(window.Size{Width: ev.Width, Height: ev.Height})
			size := s.Resize(ev.Width, ev.Height)
			a.target.Input.SetBounds(size.Width, size.Height)
		}
		a.rebind()
		s.SetReady(true)
		s.SetHidden(false)
		a.enabled = true
	case LifecycleResume:
		a.rebind()
		if a.hasWindow {
			a.enabled = true
		}
		s.SetMinimized(false)
	case LifecycleGainedFocus:
		s.SetFocused(true)
		if a.hasWindow {
			a.enabled = true
		}
	case LifecycleLostFocus:
		s.SetFocused(false)
		a.enabled = false
	case LifecyclePause:
		a.enabled = false
		s.SetMinimized(true)
		a.release()
	case LifecycleTermWindow:
		a.enabled = false
		a.hasWindow = false
		s.SetHidden(true)
		a.release()
	case LifecycleStop:
		a.enabled = false
	case LifecycleDestroy:
		a.enabled = false
		s.RequestClose()
	}
	a.log.Debug("lifecycle", "event", string(ev.Lifecycle), "enabled", a.enabled, "rebind", a.rebindRequired)
}

func (a *Activity) release() {
	if a.rebindRequired {
		return
	}
	if err := a.hooks.Release(); err != nil {
		a.log.Warn("context release failed", "error", err)
	}
	a.rebindRequired = true
}

// rebind restores context resources lazily once a window is available.
func (a *Activity) rebind() {
	if !a.rebindRequired || !a.hasWindow {
		return
	}
	if err := a.hooks.Rebind(); err != nil {
		a.log.Warn("context rebind failed", "error", err)
		return
	}
	a.rebindRequired = false
}

func (a *Activity) key(ev HostEvent) {
	snap := a.target.Input
	k, ok := TranslateAndroidKey(ev.KeyCode)
	if !ok {
		return
	}
	if k == input.KeyBack && snap.ExitKey() == input.KeyBack && ev.Down {
		a.target.Window.RequestClose()
	}
	switch {
	case ev.Down && ev.Repeat:
		snap.SetKeyRepeat(k)
	case ev.Down:
		snap.SetKey(k, true)
		snap.PushKey(k)
	default:
		snap.SetKey(k, false)
	}
	if ev.Down && ev.Char > 0 {
		snap.PushChar(ev.Char)
	}
}

// motion maps host pointers onto touch slots. The first pointer also
// drives the mouse position and left button.
func (a *Activity) motion(ev HostEvent) {
	snap := a.target.Input
	n := min(len(ev.Pointers), input.MaxTouchPoints)

	switch ev.Action {
	case MotionUp, MotionCancel:
		snap.SetTouchCount(0)
		snap.SetMouseButton(input.MouseButtonLeft, false)
		if n > 0 {
			snap.UpdateMousePosition(ev.Pointers[0].X, ev.Pointers[0].Y)
		}
		return
	}

	for i := 0; i < n; i++ {
		p := ev.Pointers[i]
		snap.SetTouchPoint(i, p.ID, p.X, p.Y)
	}
	snap.SetTouchCount(n)
	if ev.Action == MotionPointerUp && ev.ActionIndex >= 0 && ev.ActionIndex < n {
		snap.LiftTouchPoint(ev.ActionIndex)
	}
	if n > 0 {
		snap.UpdateMousePosition(ev.Pointers[0].X, ev.Pointers[0].Y)
	}
	if ev.Action == MotionDown {
		snap.SetMouseButton(input.MouseButtonLeft, true)
	}
}

// SwapBuffers presents through the hooks while the app is enabled and its
// context is bound.
func (a *Activity) SwapBuffers() error {
	if !a.enabled || a.rebindRequired {
		return nil
	}
	return a.hooks.Present()
}

func (a *Activity) Shutdown() error {
	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()
	a.target.Window.SetReady(false)
	if a.rebindRequired {
		return nil
	}
	a.rebindRequired = true
	return a.hooks.Release()
}
