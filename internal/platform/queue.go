package platform

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
)

// DefaultQueueSize bounds the host event queue.
const DefaultQueueSize = 256

// EventKind discriminates host events.
type EventKind string

const (
	EventLifecycle EventKind = "lifecycle"
	EventKey       EventKind = "key"
	EventMotion    EventKind = "motion"
)

// Lifecycle is a host activity lifecycle transition.
type Lifecycle string

const (
	LifecycleStart       Lifecycle = "start"
	LifecycleResume      Lifecycle = "resume"
	LifecyclePause       Lifecycle = "pause"
	LifecycleStop        Lifecycle = "stop"
	LifecycleDestroy     Lifecycle = "destroy"
	LifecycleInitWindow  Lifecycle = "init_window"
	LifecycleTermWindow  Lifecycle = "term_window"
	LifecycleGainedFocus Lifecycle = "gained_focus"
	LifecycleLostFocus   Lifecycle = "lost_focus"
)

// MotionAction is the pointer action of a motion event.
type MotionAction string

const (
	MotionDown        MotionAction = "down"
	MotionUp          MotionAction = "up"
	MotionMove        MotionAction = "move"
	MotionCancel      MotionAction = "cancel"
	MotionPointerDown MotionAction = "pointer_down"
	MotionPointerUp   MotionAction = "pointer_up"
)

// Pointer is one contact of a motion event in window pixels.
type Pointer struct {
	ID int32   `json:"id"`
	X  float32 `json:"x"`
	Y  float32 `json:"y"`
}

// HostEvent is a lifecycle, key or motion callback from the host.
type HostEvent struct {
	Kind EventKind `json:"kind"`

	Lifecycle Lifecycle `json:"lifecycle,omitempty"`
	// Width and Height accompany init_window.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	KeyCode int  `json:"key_code,omitempty"`
	Down    bool `json:"down,omitempty"`
	Repeat  bool `json:"repeat,omitempty"`
	Char    rune `json:"char,omitempty"`

	Action      MotionAction `json:"action,omitempty"`
	ActionIndex int          `json:"action_index,omitempty"`
	Pointers    []Pointer    `json:"pointers,omitempty"`
}

// Validate rejects events the activity backend cannot apply.
func (e HostEvent) Validate() error {
	switch e.Kind {
	case EventLifecycle:
		switch e.Lifecycle {
		case LifecycleStart, LifecycleResume, LifecyclePause, LifecycleStop, LifecycleDestroy,
			LifecycleInitWindow, LifecycleTermWindow, LifecycleGainedFocus, LifecycleLostFocus:
			return nil
		}
		return fmt.Errorf("unknown lifecycle %q", e.Lifecycle)
	case EventKey:
		return nil
	case EventMotion:
		switch e.Action {
		case MotionDown, MotionUp, MotionMove, MotionCancel, MotionPointerDown, MotionPointerUp:
			return nil
		}
		return fmt.Errorf("unknown motion action %q", e.Action)
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
}

// DecodeHostEvent parses and validates one JSON event.
func DecodeHostEvent(data []byte) (HostEvent, error) {
	var ev HostEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return HostEvent{}, fmt.Errorf("decode host event: %w", err)
	}
	if err := ev.Validate(); err != nil {
		return HostEvent{}, err
	}
	return ev, nil
}

// Queue is the bounded hand-off from host callbacks to the frame loop.
// Push never blocks; a full queue drops the event and counts it.
type Queue struct {
	ch      chan HostEvent
	dropped atomic.Uint64
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan HostEvent, size)}
}

// Push enqueues ev and reports whether it was accepted.
func (q *Queue) Push(ev HostEvent) bool {
	select {
	case q.ch <- ev:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Drain applies fn to the events queued when it was called. Events pushed
// while it runs wait for the next call.
func (q *Queue) Drain(fn func(HostEvent)) int {
	n := len(q.ch)
	for i := 0; i < n; i++ {
		fn(<-q.ch)
	}
	return n
}

func (q *Queue) Len() int        { return len(q.ch) }
func (q *Queue) Cap() int        { return cap(q.ch) }
func (q *Queue) Dropped() uint64 { return q.dropped.Load() }
