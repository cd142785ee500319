package main

import (
	"fmt"
	"image"
	stdcolor "image/color"
	"time"

	"github.com/gogpu/quad"
	"github.com/gogpu/quad/capture"
	"github.com/gogpu/quad/color"
	"github.com/gogpu/quad/geom"
	"github.com/gogpu/quad/texture"
	"github.com/gogpu/quad/vfs"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/image/draw"
)

// Scene layers, back to front.
const (
	layerBackground uint8 = iota
	layerSprites
	layerOverlay
	layerText
)

const (
	spriteCount = 12
	pulseFrames = 4
	pulseFPS    = 8
)

type sprite struct {
	pos, vel geom.Vec2
	size     float32
	angle    float32
	spin     float32
	color    color.Color
}

// scene bounces a handful of rotating sprites around the viewport.
type scene struct {
	bar     *progressbar.ProgressBar
	sprites []sprite
	elapsed time.Duration
}

func newScene(r *quad.Renderer) (*scene, error) {
	if err := r.LoadTexture("sprites"); err != nil {
		return nil, err
	}
	// Resolved through player.omtr by the loader during Update.
	r.RequestTexture("player")

	pulse := texture.NewAnimatedTexture()
	pulse.Setup("pulse-%d", 0, pulseFrames, pulseFPS)
	r.RegisterAnimatedTexture("pulse", pulse)

	_, size := r.Viewport()
	palette := color.DefaultPalette()
	s := &scene{sprites: make([]sprite, spriteCount)}
	for i := range s.sprites {
		f := float32(i) / spriteCount
		s.sprites[i] = sprite{
			pos:   geom.V2((f-0.5)*size.X*0.8, (0.5-f)*size.Y*0.6),
			vel:   geom.V2(60+40*f, 90-50*f),
			size:  16 + 24*f,
			spin:  45 + 90*f,
			color: palette.Next(),
		}
	}
	return s, nil
}

func (s *scene) OnUpdate(r *quad.Renderer, dt time.Duration) error {
	s.elapsed += dt
	if d := r.Debug(); d != nil {
		_, size := r.Viewport()
		half := size.Scale(0.5)
		d.AddRectangle(half.Scale(-1), size, 2, color.Green)
		d.AddText(geom.V2(-half.X+8, -half.Y+8), fmt.Sprintf("frame %d", r.Frame()), 4, 1, color.Green)
		for _, sp := range s.sprites {
			d.AddCircle(sp.pos, sp.size*0.7, 1, sp.color)
		}
	}
	return nil
}

func (s *scene) OnFixedUpdate(r *quad.Renderer, step time.Duration) {
	_, size := r.Viewport()
	half := size.Scale(0.5)
	dt := float32(step.Seconds())
	for i := range s.sprites {
		sp := &s.sprites[i]
		sp.pos = sp.pos.Add(sp.vel.Scale(dt))
		sp.angle += sp.spin * dt
		ext := sp.size / 2
		if sp.pos.X < -half.X+ext || sp.pos.X > half.X-ext {
			sp.vel.X = -sp.vel.X
		}
		if sp.pos.Y < -half.Y+ext || sp.pos.Y > half.Y-ext {
			sp.vel.Y = -sp.vel.Y
		}
	}
}

func (s *scene) OnRender(r *quad.Renderer) {
	_, size := r.Viewport()
	half := size.Scale(0.5)

	r.UseLayer(layerBackground)
	r.UseTexture("box")
	r.SetColor(color.RGBA(0.15, 0.15, 0.2, 1))
	r.RenderTexturedFullscreenQuad()

	r.UseLayer(layerSprites)
	r.UseTexture("player")
	for _, sp := range s.sprites {
		r.SetColor(sp.color)
		r.RenderTexturedQuadWithRotation(sp.pos, geom.V2(sp.size, sp.size), sp.angle)
	}

	r.UseLayer(layerOverlay)
	r.UseAnimatedTexture("pulse")
	r.SetColor(color.White)
	r.RenderTexturedQuad(geom.V2(half.X-24, half.Y-24), geom.V2(32, 32))

	r.UseLayer(layerText)
	r.SetColor(color.White)
	r.Print(geom.V2(0, half.Y-24), geom.V2(size.X, 48), geom.V2(0, 0),
		fmt.Sprintf("quad %.1fs", s.elapsed.Seconds()))

	if s.bar != nil {
		_ = s.bar.Add(1)
	}
}

// demoAssets builds the scene's textures in memory: an atlas with a ball
// and a box, a reference naming the ball, and the pulse animation frames.
func demoAssets() *vfs.Memory {
	m := vfs.NewMemory("demo", false)

	atlas := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			dx, dy := float32(x)-15.5, float32(y)-15.5
			if dx*dx+dy*dy <= 15*15 {
				atlas.SetRGBA(x, y, stdcolor.RGBA{255, 255, 255, 255})
			}
		}
	}
	box := image.Rect(32, 0, 64, 32)
	draw.Draw(atlas, box, image.NewUniform(stdcolor.RGBA{200, 200, 200, 255}), image.Point{}, draw.Src)
	draw.Draw(atlas, box.Inset(3), image.NewUniform(stdcolor.RGBA{255, 255, 255, 255}), image.Point{}, draw.Src)
	addPNG(m, "sprites.png", atlas)

	manifest := &texture.Manifest{Entries: []texture.Entry{
		{Name: "ball", X: 0, Y: 0, W: 32, H: 32},
		{Name: "box", X: 32, Y: 0, W: 32, H: 32},
	}}
	if data, err := manifest.Marshal(); err == nil {
		m.Add("sprites"+texture.ManifestSuffix, data)
	}
	m.AddString("player"+texture.ReferenceSuffix, "ball\n")

	for i := 0; i < pulseFrames; i++ {
		frame := image.NewRGBA(image.Rect(0, 0, 8, 8))
		c := color.Rainbow(float32(i) * 360 / pulseFrames).Std()
		draw.Draw(frame, frame.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
		addPNG(m, texture.FillTemplate("pulse-%d", i)+".png", frame)
	}
	return m
}

func addPNG(m *vfs.Memory, name string, img *image.RGBA) {
	b := img.Bounds()
	data, err := capture.EncodePNG(b.Dx(), b.Dy(), img.Pix, "")
	if err != nil {
		panic(fmt.Sprintf("quaddemo: encode %s: %v", name, err))
	}
	m.Add(name, data)
}
