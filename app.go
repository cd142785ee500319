package quad

import (
	"context"
	"time"
)

// DefaultFixedStep is the fixed update step Run uses when none is given.
const DefaultFixedStep = time.Second / 60

// maxFixedSteps bounds the fixed updates run for one frame so a long stall
// does not snowball into ever longer frames.
const maxFixedSteps = 8

// Handler owns the application side of the frame loop.
type Handler interface {
	// OnUpdate runs once per frame with the time since the previous frame.
	// An error stops Run.
	OnUpdate(r *Renderer, dt time.Duration) error

	// OnFixedUpdate runs zero or more times per frame, once per elapsed
	// fixed step.
	OnFixedUpdate(r *Renderer, step time.Duration)

	// OnRender issues the frame's draw calls between BeginFrame and
	// EndFrame.
	OnRender(r *Renderer)
}

// Doner is implemented by handlers that can ask Run to stop.
type Doner interface {
	Done() bool
}

// RunOptions configures Run.
type RunOptions struct {
	// FixedStep is the OnFixedUpdate step. Zero means DefaultFixedStep.
	FixedStep time.Duration

	// MaxFrames stops Run after that many frames. Zero means no limit.
	MaxFrames uint64

	// Clock is the time source. Nil means the renderer's clock (see
	// WithClock). Run samples it once per frame and uses the same time for
	// OnUpdate and the renderer's animation delta.
	Clock func() time.Time
}

// StepClock returns a clock that starts at start and advances by step at
// every call. It makes headless runs deterministic.
func StepClock(start time.Time, step time.Duration) func() time.Time {
	now := start
	return func() time.Time {
		t := now
		now = now.Add(step)
		return t
	}
}

// Run drives r until ctx is cancelled, h reports Done, or MaxFrames frames
// have been rendered. Each frame runs Update, OnUpdate, the fixed updates,
// then BeginFrame, OnRender, the debug renderer and EndFrame. Screenshots
// still waiting to be written are flushed before Run returns.
func Run(ctx context.Context, r *Renderer, h Handler, o RunOptions) error {
	if !r.ready {
		return ErrNotSetup
	}
	step := o.FixedStep
	if step <= 0 {
		step = DefaultFixedStep
	}
	clock := o.Clock
	if clock == nil {
		clock = r.opts.clock
	}
	doner, _ := h.(Doner)

	last := clock()
	r.lastFrame = last
	var acc time.Duration
	for frames := uint64(0); o.MaxFrames == 0 || frames < o.MaxFrames; frames++ {
		if err := ctx.Err(); err != nil {
			_ = r.FlushScreenshots()
			return err
		}
		if doner != nil && doner.Done() {
			break
		}
		now := clock()
		dt := now.Sub(last)
		last = now

		if r.debug != nil {
			r.debug.BeginFrame()
		}
		// Save failures are logged by Update and never stop the loop.
		_ = r.Update()
		if err := h.OnUpdate(r, dt); err != nil {
			_ = r.FlushScreenshots()
			return err
		}
		acc += dt
		for n := 0; acc >= step; n++ {
			if n == maxFixedSteps {
				acc = 0
				break
			}
			h.OnFixedUpdate(r, step)
			acc -= step
		}

		r.beginFrameAt(now)
		h.OnRender(r)
		if r.debug != nil {
			r.debug.Render(r)
		}
		r.EndFrame()
	}
	return r.FlushScreenshots()
}
