package quad

import (
	"log/slog"
	"time"

	"github.com/gogpu/quad/backend"
	"github.com/gogpu/quad/color"
	"github.com/gogpu/quad/debugdraw"
	"github.com/gogpu/quad/telemetry"
	"github.com/gogpu/quad/texture"
	"github.com/gogpu/quad/vfs"
)

// Renderer defaults.
const (
	DefaultWidth         = 1280
	DefaultHeight        = 720
	DefaultStatsInterval = 500
	DefaultFontSize      = 24
)

// Option configures a Renderer during creation.
//
// Example:
//
//	// Best registered backend, 1280x720
//	r := quad.NewRenderer()
//
//	// Headless software rendering with screenshots written to ./shots
//	r := quad.NewRenderer(
//	    quad.WithBackend(software.New()),
//	    quad.WithViewport(640, 480),
//	    quad.WithSaveFilesystem(vfs.NewDisk("shots", true)),
//	)
type Option func(*options)

// options holds optional configuration for Renderer creation.
type options struct {
	backend       backend.Backend
	backendName   string
	logger        *slog.Logger
	loadBudget    int
	loadQueueSize int
	maxAliasDepth int
	width, height int
	debug         *debugdraw.Renderer
	telemetry     *telemetry.Recorder
	statsInterval uint64
	creator       string
	clearColor    color.Color
	save          vfs.Filesystem
	clock         func() time.Time
}

// defaultOptions returns the default renderer options.
func defaultOptions() options {
	return options{
		loadBudget:    texture.DefaultBudget,
		loadQueueSize: texture.DefaultQueueSize,
		maxAliasDepth: texture.DefaultMaxDepth,
		width:         DefaultWidth,
		height:        DefaultHeight,
		statsInterval: DefaultStatsInterval,
		clearColor:    color.Black,
		save:          vfs.Empty{},
		clock:         time.Now,
	}
}

// WithBackend sets the backend the renderer draws through. It takes
// precedence over WithBackendName.
func WithBackend(be backend.Backend) Option {
	return func(o *options) {
		o.backend = be
	}
}

// WithBackendName selects a registered backend by name. Without either
// backend option the best registered backend is used.
func WithBackendName(name string) Option {
	return func(o *options) {
		o.backendName = name
	}
}

// WithLogger sets the renderer's logger. Without it the package logger
// (see SetLogger) is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithLoadBudget sets how many texture load commands Update processes.
func WithLoadBudget(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.loadBudget = n
		}
	}
}

// WithLoadQueueSize sets the capacity of the texture load queue.
func WithLoadQueueSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.loadQueueSize = n
		}
	}
}

// WithMaxAliasDepth sets how many texture references a load may follow.
func WithMaxAliasDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxAliasDepth = n
		}
	}
}

// WithViewport sets the render target size.
func WithViewport(width, height int) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithDebug attaches a debug renderer. Print outlines its text boxes into
// it, and Run draws it after the frame's content.
func WithDebug(d *debugdraw.Renderer) Option {
	return func(o *options) {
		o.debug = d
	}
}

// WithTelemetry attaches a recorder that receives per-frame statistics.
func WithTelemetry(t *telemetry.Recorder) Option {
	return func(o *options) {
		o.telemetry = t
	}
}

// WithStatsInterval sets how many frames pass between render statistics
// log lines. Zero disables them.
func WithStatsInterval(frames uint64) Option {
	return func(o *options) {
		o.statsInterval = frames
	}
}

// WithScreenshotCreator sets the Creator text stored in screenshots.
func WithScreenshotCreator(creator string) Option {
	return func(o *options) {
		o.creator = creator
	}
}

// WithClearColor sets the color BeginFrame clears to.
func WithClearColor(c color.Color) Option {
	return func(o *options) {
		o.clearColor = c
	}
}

// WithSaveFilesystem sets where screenshots are written.
func WithSaveFilesystem(fs vfs.Filesystem) Option {
	return func(o *options) {
		if fs != nil {
			o.save = fs
		}
	}
}

// WithClock replaces the time source used to advance animated textures.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}
