// Command quaddemo renders a small sprite scene headlessly and writes
// screenshots of it as PNG files.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gogpu/quad"
	_ "github.com/gogpu/quad/backend/null"
	_ "github.com/gogpu/quad/backend/software"
	"github.com/gogpu/quad/debugdraw"
	"github.com/gogpu/quad/geom"
	"github.com/gogpu/quad/telemetry"
	"github.com/gogpu/quad/vfs"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli"
)

// debugLayer sits above every layer the scene uses.
const debugLayer = 250

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("quaddemo failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "quaddemo"
	app.Description = "Headless demo of the quad 2D renderer"
	app.Usage = "quaddemo --out shots --frames 120"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "Path to a renderer configuration file (YAML)",
		},
		cli.StringFlag{
			Name:  "assets",
			Usage: "Directory searched for textures, fonts and shaders",
		},
		cli.StringFlag{
			Name:  "out",
			Usage: "Directory screenshots are written to",
			Value: ".",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to render",
			Value: 60,
		},
		cli.IntFlag{
			Name:  "width",
			Usage: "Viewport width in pixels",
			Value: quad.DefaultWidth,
		},
		cli.IntFlag{
			Name:  "height",
			Usage: "Viewport height in pixels",
			Value: quad.DefaultHeight,
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Render backend (software, null)",
			Value: "software",
		},
		cli.IntFlag{
			Name:  "shot-delay",
			Usage: "Frames to wait before the first screenshot",
			Value: 30,
		},
		cli.IntFlag{
			Name:  "shot-frames",
			Usage: "Number of consecutive frames to capture",
			Value: 1,
		},
		cli.StringFlag{
			Name:  "shot-name",
			Usage: "Base name of the screenshot files",
			Value: "quaddemo",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
		cli.BoolFlag{
			Name:  "quiet",
			Usage: "Hide the progress bar",
		},
	}
	app.Action = run
	return app
}

func run(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(errWriter(c), &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("width") || cfg.Width == 0 {
		cfg.Width = c.Int("width")
	}
	if c.IsSet("height") || cfg.Height == 0 {
		cfg.Height = c.Int("height")
	}
	if c.IsSet("backend") || cfg.Backend == "" {
		cfg.Backend = c.String("backend")
	}
	frames := c.Int("frames")
	if frames <= 0 {
		return fmt.Errorf("quaddemo: --frames must be positive, got %d", frames)
	}

	out := c.String("out")
	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("quaddemo: %w", err)
	}

	assets := vfs.NewLayered(demoAssets())
	if dir := c.String("assets"); dir != "" {
		assets.Push(vfs.NewDisk(dir, false))
	}

	step := quad.DefaultFixedStep
	start := time.Unix(0, 0)
	rec := telemetry.New()
	opts := append(cfg.Options(),
		quad.WithLogger(logger),
		quad.WithSaveFilesystem(vfs.NewDisk(out, true)),
		quad.WithDebug(debugdraw.New(debugLayer, 0)),
		quad.WithTelemetry(rec),
		// Run samples this clock too, so updates and animations share it.
		quad.WithClock(quad.StepClock(start, step)),
	)
	r, err := quad.NewRenderer(opts...)
	if err != nil {
		return err
	}
	if err := r.Setup(assets); err != nil {
		return err
	}
	defer func() {
		if err := r.Teardown(); err != nil {
			logger.Warn("teardown failed", "error", err)
		}
	}()
	if err := cfg.Apply(r); err != nil {
		return err
	}

	w, h := float32(cfg.Width), float32(cfg.Height)
	r.SetMVPMatrix(geom.Ortho(-w/2, w/2, -h/2, h/2, -1, 1))

	s, err := newScene(r)
	if err != nil {
		return err
	}
	if !c.Bool("quiet") {
		s.bar = newProgressBar(errWriter(c), frames)
		defer s.bar.Close()
	}

	shotName := c.String("shot-name")
	if cfg.Screenshot.Name != "" && !c.IsSet("shot-name") {
		shotName = cfg.Screenshot.Name
	}
	delay, shots := c.Int("shot-delay"), c.Int("shot-frames")
	if cfg.Screenshot.Frames > 0 && !c.IsSet("shot-frames") {
		delay, shots = cfg.Screenshot.Delay, cfg.Screenshot.Frames
	}
	if shots > 0 {
		r.QueueScreenshot(delay, shots, shotName)
	}

	err = quad.Run(context.Background(), r, s, quad.RunOptions{
		FixedStep: step,
		MaxFrames: uint64(frames),
	})
	if err != nil {
		return err
	}

	stats := r.Stats()
	logger.Info("demo finished",
		"frames", r.Frame(),
		"vertices", stats.Vertices,
		"materials", stats.MaterialsWithVertices,
		"out", out)
	return nil
}

// loadConfig reads path from disk, or returns the defaults when path is
// empty.
func loadConfig(path string) (*quad.Config, error) {
	if path == "" {
		cfg := quad.DefaultConfig()
		return &cfg, nil
	}
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	return quad.LoadConfig(vfs.NewDisk(dir, false), name)
}

func newProgressBar(w io.Writer, frames int) *progressbar.ProgressBar {
	return progressbar.NewOptions64(int64(frames),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("rendering"),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
}

func errWriter(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}
