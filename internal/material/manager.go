// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package material

import (
	"context"
	"log/slog"
	"slices"

	"github.com/gogpu/quad/internal/registry"
)

// Manager owns the materials of the current frame. Materials live in a
// registry whose active element receives new triangles.
type Manager struct {
	log       *slog.Logger
	materials *registry.Manager[*Material]
	free      []*Material
	kept      []*Material
	sorted    []*Material
}

// NewManager returns an empty manager. A nil logger discards output.
func NewManager(log *slog.Logger) *Manager {
	if log == nil {
		log = slog.New(discardHandler{})
	}
	return &Manager{log: log, materials: registry.New[*Material]()}
}

// SetLogger replaces the manager's logger.
func (m *Manager) SetLogger(log *slog.Logger) {
	if log != nil {
		m.log = log
	}
}

// BeginFrame empties every material and clears the active selection.
// Materials that stayed empty through the previous frame go back to the
// pool.
func (m *Manager) BeginFrame() {
	m.kept = m.kept[:0]
	for _, mat := range m.materials.All() {
		if mat.Len() == 0 {
			m.free = append(m.free, mat)
			continue
		}
		mat.Clear()
		m.kept = append(m.kept, mat)
	}
	m.materials.Clear()
	for _, mat := range m.kept {
		m.materials.Add(mat)
	}
	clear(m.kept)
}

// Switch makes the material for key active, creating it when needed, and
// returns it.
func (m *Manager) Switch(key Key) *Material {
	if i, ok := m.materials.ActiveIndex(); ok {
		if mat, _ := m.materials.Get(i); mat.Key == key {
			return mat
		}
	}
	if m.materials.SelectActive(func(mat *Material) bool { return mat.Key == key }) {
		return m.materials.MustActive()
	}

	var mat *Material
	if n := len(m.free); n > 0 {
		mat = m.free[n-1]
		m.free = m.free[:n-1]
		mat.Key = key
		mat.Clear()
	} else {
		mat = New(key)
	}
	m.materials.SetActive(m.materials.Add(mat))
	m.log.Debug("material: created", "layer", key.Layer, "effect", key.Effect, "textures", key.Textures)
	return mat
}

// Active returns the active material, or registry.ErrNoActive before the
// first Switch of a frame.
func (m *Manager) Active() (*Material, error) {
	return m.materials.Active()
}

// MustActive returns the active material and panics when there is none.
func (m *Manager) MustActive() *Material {
	return m.materials.MustActive()
}

// Sorted returns the materials in ascending key order. Materials with
// equal keys cannot exist, so the order is total. The slice is reused by
// the next call.
func (m *Manager) Sorted() []*Material {
	m.sorted = m.sorted[:0]
	for _, mat := range m.materials.All() {
		m.sorted = append(m.sorted, mat)
	}
	slices.SortStableFunc(m.sorted, func(a, b *Material) int {
		return a.Key.Compare(b.Key)
	})
	return m.sorted
}

// Len returns the number of materials in use.
func (m *Manager) Len() int { return m.materials.Len() }

// Pooled returns the number of materials waiting for reuse.
func (m *Manager) Pooled() int { return len(m.free) }

type discardHandler struct{}

func (discardHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (discardHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (h discardHandler) WithAttrs(_ []slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(_ string) slog.Handler             { return h }
