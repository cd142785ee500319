// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package material groups triangles by render state.
//
// Every triangle the renderer accumulates belongs to the material whose key
// matches the state active when it was added. At the end of a frame the
// materials are submitted in key order, so submission order is decided by
// layer, then effect, then bound textures, and never by draw order.
package material

import (
	"cmp"

	"github.com/gogpu/quad/backend"
	"github.com/gogpu/quad/geom"
)

// NoTexture marks an empty texture channel in a Key. Channels hold
// backend handles widened to int64, so every uint32 handle stays distinct
// from it.
const NoTexture int64 = -1

// Key is the render state shared by all triangles of a material.
type Key struct {
	Layer    uint8
	Effect   uint16
	Textures [backend.MaxTextureChannels]int64
}

// NewKey returns a key with every texture channel empty.
func NewKey(layer uint8, effect uint16) Key {
	k := Key{Layer: layer, Effect: effect}
	for i := range k.Textures {
		k.Textures[i] = NoTexture
	}
	return k
}

// Compare orders keys by layer, then effect, then texture channels.
func (k Key) Compare(o Key) int {
	if c := cmp.Compare(k.Layer, o.Layer); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Effect, o.Effect); c != 0 {
		return c
	}
	for i := range k.Textures {
		if c := cmp.Compare(k.Textures[i], o.Textures[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Less reports whether k sorts before o.
func (k Key) Less(o Key) bool { return k.Compare(o) < 0 }

// Material collects indices into the frame's vertex buffer.
type Material struct {
	Key Key

	indices []uint32
	remap   map[uint32]uint32
	verts   []backend.Vertex
	idx16   []uint16
	idx32   []uint32
}

// New returns an empty material for key.
func New(key Key) *Material {
	return &Material{Key: key, remap: make(map[uint32]uint32)}
}

// AddVertex appends an index; every three form a triangle.
func (m *Material) AddVertex(i uint32) { m.indices = append(m.indices, i) }

// AddTriangle appends one triangle.
func (m *Material) AddTriangle(a, b, c uint32) {
	m.indices = append(m.indices, a, b, c)
}

// Len returns the number of indices.
func (m *Material) Len() int { return len(m.indices) }

// Indices returns the indices added so far.
func (m *Material) Indices() []uint32 { return m.indices }

// Clear drops the indices and keeps the buffers.
func (m *Material) Clear() { m.indices = m.indices[:0] }

// Submit copies the vertices the material references into a local buffer,
// in first-use order, and submits them with matching indices. 16-bit
// indices are used whenever the local vertex count allows. It returns the
// number of vertices submitted.
func (m *Material) Submit(be backend.Backend, vertices []backend.Vertex, mvp geom.Mat44) int {
	n := len(m.indices) - len(m.indices)%3
	if n == 0 {
		return 0
	}
	clear(m.remap)
	m.verts = m.verts[:0]
	m.idx32 = m.idx32[:0]
	for _, gi := range m.indices[:n] {
		if int(gi) >= len(vertices) {
			// A stale index would read outside the frame's buffer.
			gi = 0
		}
		li, ok := m.remap[gi]
		if !ok {
			li = uint32(len(m.verts))
			m.remap[gi] = li
			m.verts = append(m.verts, vertices[gi])
		}
		m.idx32 = append(m.idx32, li)
	}

	batch := backend.Batch{Vertices: m.verts, MVP: mvp}
	if len(m.verts) <= 1<<16 {
		m.idx16 = m.idx16[:0]
		for _, i := range m.idx32 {
			m.idx16 = append(m.idx16, uint16(i))
		}
		batch.Indices16 = m.idx16
	} else {
		batch.Indices32 = m.idx32
	}
	be.Submit(batch)
	return len(m.verts)
}
