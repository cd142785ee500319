package quad

import (
	"fmt"
	"time"

	"github.com/gogpu/quad/backend"
	"github.com/gogpu/quad/capture"
	"github.com/gogpu/quad/color"
	"github.com/gogpu/quad/geom"
	"github.com/gogpu/quad/internal/material"
)

// Telemetry trace names recorded by EndFrame.
const (
	TraceVertices  = "render.vertices"
	TraceMaterials = "render.materials"
	TraceFrameTime = "render.frame_ms"
)

// BeginFrame starts a frame: the vertex list and every material are
// emptied, layer transforms return to identity, the color returns to
// white, layer 0 and the default effect become active, and the viewport
// is applied and cleared.
func (r *Renderer) BeginFrame() {
	r.beginFrameAt(r.opts.clock())
}

// beginFrameAt starts a frame whose timestamp is now.
func (r *Renderer) beginFrameAt(now time.Time) {
	if !r.lastFrame.IsZero() {
		r.delta = now.Sub(r.lastFrame)
	}
	r.lastFrame = now

	r.vertices = r.vertices[:0]
	r.materials.BeginFrame()
	r.layers.Reset()
	r.color = color.White
	r.layer = 0
	r.effect = r.defaultEffect
	r.texCoords = geom.Vec2{}
	r.texMatrix = geom.Identity()

	r.be.SetViewport(int(r.viewportPos.X), int(r.viewportPos.Y), int(r.viewportSize.X), int(r.viewportSize.Y))
	r.be.Clear(r.opts.clearColor.GPU())

	r.switchMaterial()
}

// Clear clears the render target to c.
func (r *Renderer) Clear(c color.Color) {
	r.be.Clear(c.GPU())
}

// EndFrame submits the frame. Materials are drawn in ascending key order,
// so layer 0 is drawn before layer 1 whatever order the draws came in.
// Animated textures advance, statistics are collected, queued screenshots
// are captured and the frame counter advances.
func (r *Renderer) EndFrame() {
	for _, a := range r.animated {
		a.Update(r.delta.Seconds())
	}

	stats := FrameStats{Frame: r.frame}
	for _, m := range r.materials.Sorted() {
		stats.Materials++
		if m.Len() < 3 {
			continue
		}
		e := r.effectFor(m.Key.Effect)
		r.be.BindPipeline(e.PipelineState())
		r.be.BindTextures(textureHandles(m.Key))
		vc := m.Submit(r.be, r.vertices, r.mvp)
		stats.Vertices += vc
		if vc > 0 {
			stats.MaterialsWithVertices++
		}
	}
	r.stats = stats

	if r.opts.statsInterval > 0 && r.frame%r.opts.statsInterval == 0 {
		r.log.Debug("quad: render stats",
			"frame", r.frame,
			"vertices", stats.Vertices,
			"materials_with_vertices", stats.MaterialsWithVertices,
			"materials", stats.Materials,
			"pooled", r.materials.Pooled())
	}
	if r.telemetry != nil {
		r.telemetry.Trace(TraceVertices, float64(stats.Vertices))
		r.telemetry.Trace(TraceMaterials, float64(stats.MaterialsWithVertices))
		r.telemetry.Trace(TraceFrameTime, float64(r.delta.Microseconds())/1000)
		r.telemetry.Update()
	}

	if err := r.be.Flush(); err != nil {
		r.log.Warn("quad: backend flush failed", "frame", r.frame, "err", err)
	}

	for _, base := range r.screenshots.Due() {
		name := capture.FileName(base, r.frame)
		w, h := int(r.viewportSize.X), int(r.viewportSize.Y)
		if err := r.capture.Capture(r.be, w, h, name); err != nil {
			r.log.Error("quad: screenshot capture failed", "name", name, "err", err)
		}
	}
	r.frame++
}

// textureHandles maps a material key's channels to backend handles.
func textureHandles(k material.Key) [backend.MaxTextureChannels]backend.Handle {
	var h [backend.MaxTextureChannels]backend.Handle
	for i, t := range k.Textures {
		if t != material.NoTexture {
			h[i] = backend.Handle(t)
		}
	}
	return h
}

// Update runs the per-tick work outside drawing: queued texture loads are
// processed up to the load budget and at most one captured screenshot is
// written to the save filesystem. A failed write is logged and returned;
// that screenshot is dropped.
func (r *Renderer) Update() error {
	if r.loader != nil {
		r.loader.Drain(r.opts.loadBudget)
	}
	name, err := r.capture.Flush(r.save)
	if err != nil {
		r.log.Error("quad: screenshot save failed", "frame", r.frame, "err", err)
		return err
	}
	if name != "" {
		r.log.Info("quad: screenshot saved", "name", name, "filesystem", r.save.Name())
	}
	return nil
}

// FlushScreenshots writes every captured screenshot. It returns the first
// error; failed screenshots are dropped.
func (r *Renderer) FlushScreenshots() error {
	var first error
	for r.capture.Pending() > 0 {
		if _, err := r.capture.Flush(r.save); err != nil {
			r.log.Error("quad: screenshot save failed", "err", err)
			if first == nil {
				first = fmt.Errorf("quad: %w", err)
			}
		}
	}
	return first
}

// QueueScreenshot captures frames consecutive frames once delay more
// frames have ended. Files are named `{name}-{frame:06}.png`; an empty
// name uses capture.DefaultBaseName.
func (r *Renderer) QueueScreenshot(delay, frames int, name string) {
	r.screenshots.Queue(delay, frames, name)
	r.log.Debug("quad: screenshot queued", "frame", r.frame, "delay", delay, "frames", frames, "name", name)
}

// PendingScreenshots returns the number of captured screenshots not yet
// written.
func (r *Renderer) PendingScreenshots() int { return r.capture.Pending() }

// Frame returns the frame counter. It starts at 0 and advances at every
// EndFrame.
func (r *Renderer) Frame() uint64 { return r.frame }

// Stats returns the statistics of the last EndFrame.
func (r *Renderer) Stats() FrameStats { return r.stats }

// MaterialCount returns the number of materials used this frame.
func (r *Renderer) MaterialCount() int { return r.materials.Len() }
