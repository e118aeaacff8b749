package core

import (
	"time"

	"github.com/1broseidon/framecore/internal/devices"
	"github.com/1broseidon/framecore/internal/hostlink"
	"github.com/1broseidon/framecore/internal/input"
	"github.com/1broseidon/framecore/internal/platform"
	"github.com/1broseidon/framecore/internal/window"
)

// Status is an immutable per-frame digest for readers outside the frame
// loop.
type Status struct {
	Running       bool                 `json:"running"`
	Backend       string               `json:"backend"`
	Handle        platform.Handle      `json:"handle"`
	Frame         uint64               `json:"frame"`
	FPS           int                  `json:"fps"`
	TargetFPS     int                  `json:"target_fps"`
	FrameTimeMS   float64              `json:"frame_time_ms"`
	UptimeSeconds float64              `json:"uptime_seconds"`
	Window        window.Info          `json:"window"`
	Input         input.Summary        `json:"input"`
	Devices       []devices.WorkerInfo `json:"devices,omitempty"`
	HostDropped   uint64               `json:"host_dropped,omitempty"`
	HostLink      *hostlink.Stats      `json:"host_link,omitempty"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// Status returns the most recently published status, or nil before Init.
// Safe from any goroutine.
func (c *Core) Status() *Status {
	return c.status.Load()
}

type queueOwner interface {
	Queue() *platform.Queue
}

type transportOwner interface {
	Transport() platform.Transport
}

type linkStats interface {
	Stats() hostlink.Stats
}

func (c *Core) publish() {
	st := &Status{
		Running:       c.initialized,
		Backend:       c.backend.Name(),
		Handle:        c.handle,
		Frame:         c.clock.FrameCount(),
		FPS:           c.clock.FPS(),
		TargetFPS:     c.cfg.TargetFPS,
		FrameTimeMS:   float64(c.clock.FrameTime()) / float64(time.Millisecond),
		UptimeSeconds: (c.clock.Time() - c.started).Seconds(),
		Window:        c.win.Info(),
		Input:         c.input.Summarize(),
		UpdatedAt:     time.Now(),
	}
	if dl, ok := c.backend.(platform.DeviceLister); ok {
		st.Devices = dl.Devices()
	}
	if qo, ok := c.backend.(queueOwner); ok {
		st.HostDropped = qo.Queue().Dropped()
	}
	if to, ok := c.backend.(transportOwner); ok {
		if ls, ok := to.Transport().(linkStats); ok {
			stats := ls.Stats()
			st.HostLink = &stats
		}
	}
	c.status.Store(st)
}
