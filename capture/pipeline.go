// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gogpu/quad/vfs"
)

// DefaultCreator is written into every screenshot unless configured.
const DefaultCreator = "quad"

// PixelReader reads back the current frame with the bottom row first.
type PixelReader interface {
	ReadPixels(x, y, width, height int) ([]byte, error)
}

// Ready is an encoded screenshot waiting to be stored.
type Ready struct {
	Name string
	Data []byte
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithCreator sets the Creator text of encoded images.
func WithCreator(creator string) Option {
	return func(p *Pipeline) { p.creator = creator }
}

// WithLogger sets the pipeline's logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// Pipeline captures frames into a ready queue and stores them.
type Pipeline struct {
	log     *slog.Logger
	creator string
	ready   []Ready
}

// NewPipeline returns an empty pipeline.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		log:     slog.New(discardHandler{}),
		creator: DefaultCreator,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Capture reads a width x height frame from r, flips it top-down, encodes
// it and queues it as name.
func (p *Pipeline) Capture(r PixelReader, width, height int, name string) error {
	pix, err := r.ReadPixels(0, 0, width, height)
	if err != nil {
		return fmt.Errorf("capture: read pixels for %s: %w", name, err)
	}
	FlipRows(pix, width*4, height)
	data, err := EncodePNG(width, height, pix, p.creator)
	if err != nil {
		return fmt.Errorf("capture: %s: %w", name, err)
	}
	p.ready = append(p.ready, Ready{Name: name, Data: data})
	p.log.Debug("capture: screenshot ready", "name", name, "bytes", len(data), "queued", len(p.ready))
	return nil
}

// Pending returns the number of screenshots waiting to be stored.
func (p *Pipeline) Pending() int { return len(p.ready) }

// Flush writes the oldest ready screenshot to sink, replacing an existing
// file of the same name. It returns the name written, or "" when nothing
// was ready. A failed screenshot is dropped.
func (p *Pipeline) Flush(sink vfs.Filesystem) (string, error) {
	if len(p.ready) == 0 {
		return "", nil
	}
	r := p.ready[0]
	p.ready[0] = Ready{}
	p.ready = p.ready[1:]

	if err := CheckHeader(r.Data); err != nil {
		return "", fmt.Errorf("capture: %s: %w", r.Name, err)
	}
	if err := vfs.WriteFile(sink, r.Name, r.Data, true); err != nil {
		return "", fmt.Errorf("capture: write %s: %w", r.Name, err)
	}
	p.log.Debug("capture: screenshot written", "name", r.Name, "bytes", len(r.Data), "sink", sink.Name())
	return r.Name, nil
}

type discardHandler struct{}

func (discardHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (discardHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (h discardHandler) WithAttrs(_ []slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(_ string) slog.Handler             { return h }
