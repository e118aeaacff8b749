// Package frameclock measures frame timing and paces the frame loop to a
// target rate.
package frameclock

import (
	"errors"
	"time"
)

// fpsSamples is the window used to average GetFPS.
const fpsSamples = 30

// ErrNoClockSource is returned when the clock is built without a time source.
var ErrNoClockSource = errors.New("frameclock: no clock source")

// Source supplies monotonic time and the pacing sleep.
type Source interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemSource struct{}

func (systemSource) Now() time.Time        { return time.Now() }
func (systemSource) Sleep(d time.Duration) { time.Sleep(d) }

// System returns the runtime monotonic clock.
func System() Source { return systemSource{} }

// Clock tracks the current and previous frame timestamps and the update,
// draw and total durations of the last frame. It is owned by the frame loop
// and is not safe for concurrent use.
type Clock struct {
	src  Source
	base time.Time

	current  time.Duration
	previous time.Duration
	update   time.Duration
	draw     time.Duration
	frame    time.Duration
	target   time.Duration

	frameCounter uint64

	samples [fpsSamples]time.Duration
	next    int
	filled  int
}

// New starts a clock at the current instant of src.
func New(src Source) (*Clock, error) {
	if src == nil {
		return nil, ErrNoClockSource
	}
	c := &Clock{src: src, base: src.Now()}
	return c, nil
}

func (c *Clock) now() time.Duration {
	return c.src.Now().Sub(c.base)
}

// BeginFrame marks the start of the update phase.
func (c *Clock) BeginFrame() {
	c.current = c.now()
	c.update = c.current - c.previous
	c.previous = c.current
}

// EndFrame closes the frame, sleeping when a target frame time is set and
// the frame finished early.
func (c *Clock) EndFrame() {
	c.current = c.now()
	c.draw = c.current - c.previous
	c.previous = c.current
	c.frame = c.update + c.draw

	if c.target > 0 && c.frame < c.target {
		c.WaitTime(c.target - c.frame)

		c.current = c.now()
		wait := c.current - c.previous
		c.previous = c.current
		c.frame += wait
	}

	c.samples[c.next] = c.frame
	c.next = (c.next + 1) % fpsSamples
	if c.filled < fpsSamples {
		c.filled++
	}
	c.frameCounter++
}

// WaitTime suspends the calling goroutine for d.
func (c *Clock) WaitTime(d time.Duration) {
	if d <= 0 {
		return
	}
	c.src.Sleep(d)
}

// SetTargetFPS caps the frame rate. fps < 1 disables capping.
func (c *Clock) SetTargetFPS(fps int) {
	if fps < 1 {
		c.target = 0
		return
	}
	c.target = time.Second / time.Duration(fps)
}

// Target returns the target frame duration, zero when uncapped.
func (c *Clock) Target() time.Duration { return c.target }

// FrameTime returns the duration of the last completed frame.
func (c *Clock) FrameTime() time.Duration { return c.frame }

// UpdateTime and DrawTime split the last frame into its two phases.
func (c *Clock) UpdateTime() time.Duration { return c.update }
func (c *Clock) DrawTime() time.Duration   { return c.draw }

// Time returns the time elapsed since the clock was created.
func (c *Clock) Time() time.Duration { return c.now() }

// FrameCount returns the number of completed frames.
func (c *Clock) FrameCount() uint64 { return c.frameCounter }

// FPS returns the frame rate averaged over the most recent frames.
func (c *Clock) FPS() int {
	if c.filled == 0 {
		return 0
	}
	var total time.Duration
	for i := 0; i < c.filled; i++ {
		total += c.samples[i]
	}
	if total <= 0 {
		return 0
	}
	avg := total / time.Duration(c.filled)
	return int((time.Second + avg/2) / avg)
}
