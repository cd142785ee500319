// Package quad is the rendering core of a 2D engine. It turns immediate
// mode draw calls (quads, triangles, text) into a small number of sorted,
// batched submissions to a backend, and manages the textures, effects and
// fonts those draws need.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/quad"
//	    "github.com/gogpu/quad/backend/software"
//	    "github.com/gogpu/quad/vfs"
//	)
//
//	r, err := quad.NewRenderer(quad.WithBackend(software.New()), quad.WithViewport(640, 480))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := r.Setup(vfs.NewDisk("assets", false)); err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Teardown()
//
//	r.SetMVPMatrix(geom.Ortho(-320, 320, -240, 240, -1, 1))
//	r.BeginFrame()
//	r.UseTexture("ship")
//	r.RenderTexturedQuad(geom.V2(0, 0), geom.V2(64, 64))
//	r.EndFrame()
//
// # Frames
//
// BeginFrame empties the frame's vertex list and every material. Draw
// calls append vertices to the frame and triangles to the active
// material, a batch identified by layer, effect and bound textures.
// EndFrame submits the materials sorted by that key, so the result does
// not depend on the order draws were issued in. Update, called once per
// tick outside BeginFrame/EndFrame, processes queued texture loads and
// writes one captured screenshot.
//
// # Resources
//
// Textures, effects and fonts are registered once and addressed by small
// integer ids that stay valid until Teardown. Texture 0 is a white canvas
// registered by Setup; any draw naming a texture that is not loaded yet
// uses it and queues a load, so frames never wait on I/O. A texture name
// resolves through `.omtr` reference files, atlas manifests or plain
// images (see package texture).
//
// # Architecture
//
// The package is organized into:
//   - Renderer: frame orchestration, state switching, drawing, text
//   - geom, color: math and color types
//   - texture, effect, font: resources
//   - capture: screenshot scheduling and PNG encoding
//   - backend: the narrow interface drawing goes through, with null,
//     software and wgpu implementations
//   - debugdraw, telemetry: optional per-frame helpers passed in as options
//
// # Logging
//
// quad logs through log/slog and is silent by default; see SetLogger and
// WithLogger.
package quad
