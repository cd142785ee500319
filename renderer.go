package quad

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"golang.org/x/image/draw"

	"github.com/gogpu/quad/backend"
	"github.com/gogpu/quad/capture"
	"github.com/gogpu/quad/color"
	"github.com/gogpu/quad/debugdraw"
	"github.com/gogpu/quad/effect"
	"github.com/gogpu/quad/font"
	"github.com/gogpu/quad/geom"
	"github.com/gogpu/quad/internal/cache"
	"github.com/gogpu/quad/internal/material"
	"github.com/gogpu/quad/internal/registry"
	"github.com/gogpu/quad/telemetry"
	"github.com/gogpu/quad/texture"
	"github.com/gogpu/quad/vfs"
)

// Lifecycle errors.
var (
	// ErrNotSetup is returned by operations that need Setup first.
	ErrNotSetup = errors.New("quad: renderer not set up")

	// ErrAlreadySetup is returned by a second Setup.
	ErrAlreadySetup = errors.New("quad: renderer already set up")

	// ErrNoBackend is returned when no backend is registered or selected.
	ErrNoBackend = errors.New("quad: no backend available")
)

// DefaultTextureName names texture 0, the white canvas every missing
// texture falls back to.
const DefaultTextureName = "[]"

// DefaultEffectName names the effect Setup registers when the application
// registered none.
const DefaultEffectName = "default"

// DefaultFontName names font 0 and its atlas texture when the application
// registered no font 0 before Setup.
const DefaultFontName = "[font]"

// FrameStats summarizes the last submitted frame.
type FrameStats struct {
	Frame                 uint64
	Vertices              int
	Materials             int
	MaterialsWithVertices int
}

// Renderer turns immediate-mode draw calls into sorted, batched backend
// submissions. It is not safe for concurrent use; only RequestTexture may
// be called from other goroutines.
type Renderer struct {
	log  *slog.Logger
	opts options
	be   backend.Backend
	fs   vfs.Filesystem
	save vfs.Filesystem

	textures     *registry.Manager[texture.Texture]
	textureNames map[string]int
	loader       *texture.Loader
	animated     map[string]*texture.AnimatedTexture

	effects       *registry.Manager[effect.Effect]
	defaultEffect uint16

	fonts      map[uint8]*font.Font
	layouts    *cache.Cache[layoutKey, font.Layout]
	activeFont uint8

	materials *material.Manager
	layers    *geom.LayerStacks
	vertices  []backend.Vertex

	layer      uint8
	effect     uint16
	channelIDs [backend.MaxTextureChannels]int32
	color      color.Color
	texCoords  geom.Vec2
	texMatrix  geom.Affine
	mvp        geom.Mat44

	size         geom.Vec2
	viewportPos  geom.Vec2
	viewportSize geom.Vec2

	frame     uint64
	stats     FrameStats
	lastFrame time.Time
	delta     time.Duration

	screenshots capture.Scheduler
	capture     *capture.Pipeline
	debug       *debugdraw.Renderer
	telemetry   *telemetry.Recorder

	textDebug bool
	ready     bool
}

var _ debugdraw.Target = (*Renderer)(nil)

// NewRenderer creates a renderer. The backend comes from WithBackend,
// WithBackendName or, failing both, the best registered backend. Call
// Setup before drawing.
func NewRenderer(opts ...Option) (*Renderer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = Logger()
	}

	be := o.backend
	if be == nil {
		var err error
		if o.backendName != "" {
			if be, err = backend.New(o.backendName); err != nil {
				return nil, fmt.Errorf("quad: %w", err)
			}
		} else if be = backend.Best(); be == nil {
			return nil, ErrNoBackend
		}
	}
	propagateLogger(be, log)

	captureOpts := []capture.Option{capture.WithLogger(log)}
	if o.creator != "" {
		captureOpts = append(captureOpts, capture.WithCreator(o.creator))
	}

	size := geom.V2(float32(o.width), float32(o.height))
	r := &Renderer{
		log:          log,
		opts:         o,
		be:           be,
		fs:           vfs.Empty{},
		save:         o.save,
		textures:     registry.New[texture.Texture](),
		textureNames: make(map[string]int),
		animated:     make(map[string]*texture.AnimatedTexture),
		effects:      registry.New[effect.Effect](),
		fonts:        make(map[uint8]*font.Font),
		layouts:      cache.New[layoutKey, font.Layout](layoutCacheSize),
		materials:    material.NewManager(log),
		layers:       geom.NewLayerStacks(),
		channelIDs:   [backend.MaxTextureChannels]int32{0, int32(material.NoTexture), int32(material.NoTexture), int32(material.NoTexture)},
		color:        color.White,
		texMatrix:    geom.Identity(),
		mvp:          geom.Ident44(),
		size:         size,
		viewportSize: size,
		capture:      capture.NewPipeline(captureOpts...),
		debug:        o.debug,
		telemetry:    o.telemetry,
	}
	log.Info("quad: backend selected", "backend", be.Name(), "width", o.width, "height", o.height)
	return r, nil
}

// Setup initializes the backend, registers the default texture, effect and
// font, and starts the texture loader reading from fs.
func (r *Renderer) Setup(fs vfs.Filesystem) error {
	if r.ready {
		return ErrAlreadySetup
	}
	if fs == nil {
		fs = vfs.Empty{}
	}
	if err := r.be.Init(r.opts.width, r.opts.height); err != nil {
		return fmt.Errorf("quad: init %s backend: %w", r.be.Name(), err)
	}
	r.fs = fs
	r.loader = texture.NewLoader(fs, r.be, textureResolver{r},
		texture.WithQueueSize(r.opts.loadQueueSize),
		texture.WithMaxDepth(r.opts.maxAliasDepth),
		texture.WithLogger(r.log),
	)

	canvas := image.NewRGBA(image.Rect(0, 0, 2, 2))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	t, err := texture.Upload(r.be, DefaultTextureName, canvas)
	if err != nil {
		return fmt.Errorf("quad: default texture: %w", err)
	}
	r.RegisterTexture(t)

	if r.effects.Len() == 0 {
		r.RegisterEffect(effect.New(DefaultEffectName, 0))
	}
	if _, ok := r.fonts[0]; !ok {
		f, atlas, err := font.Default(DefaultFontName, DefaultFontSize)
		if err != nil {
			return fmt.Errorf("quad: default font: %w", err)
		}
		if err := r.RegisterFontImage(0, f, atlas); err != nil {
			return err
		}
	}

	// Draws issued before the first BeginFrame land in the default material.
	r.effect = r.defaultEffect
	r.switchMaterial()

	r.ready = true
	r.lastFrame = r.opts.clock()
	r.log.Info("quad: setup complete", "backend", r.be.Name(), "filesystem", fs.Name(),
		"textures", r.textures.Len(), "effects", r.effects.Len(), "fonts", len(r.fonts))
	return nil
}

// Teardown releases every texture and the backend. The renderer cannot be
// used afterwards.
func (r *Renderer) Teardown() error {
	if !r.ready {
		return ErrNotSetup
	}
	destroyed := make(map[backend.Handle]struct{})
	for _, t := range r.textures.All() {
		if _, ok := destroyed[t.Handle]; ok || t.Handle == 0 {
			continue
		}
		destroyed[t.Handle] = struct{}{}
		r.be.DestroyTexture(t.Handle)
	}
	r.be.Destroy()
	r.textures.Clear()
	clear(r.textureNames)
	r.effects.Clear()
	clear(r.fonts)
	r.layouts.Clear()
	r.loader = nil
	r.ready = false
	r.log.Info("quad: teardown", "textures", len(destroyed))
	return nil
}

// Backend returns the backend the renderer draws through.
func (r *Renderer) Backend() backend.Backend { return r.be }

// Filesystem returns the filesystem textures, effects and fonts load from.
func (r *Renderer) Filesystem() vfs.Filesystem { return r.fs }

// SetSaveFilesystem replaces where screenshots are written.
func (r *Renderer) SetSaveFilesystem(fs vfs.Filesystem) {
	if fs == nil {
		fs = vfs.Empty{}
	}
	r.save = fs
}

// Debug returns the attached debug renderer, or nil.
func (r *Renderer) Debug() *debugdraw.Renderer { return r.debug }

// Telemetry returns the attached telemetry recorder, or nil.
func (r *Renderer) Telemetry() *telemetry.Recorder { return r.telemetry }
