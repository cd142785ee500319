// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vfs

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"
)

// Memory is an in-memory filesystem. It is safe for concurrent use.
type Memory struct {
	name     string
	writable bool

	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemory returns an empty in-memory filesystem.
func NewMemory(name string, writable bool) *Memory {
	return &Memory{name: name, writable: writable, files: make(map[string][]byte)}
}

// Add stores data under name regardless of writability.
func (m *Memory) Add(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = bytes.Clone(data)
}

// AddString stores s under name.
func (m *Memory) AddString(name, s string) { m.Add(name, []byte(s)) }

// Bytes returns a copy of the content of name.
func (m *Memory) Bytes(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.files[name]
	return bytes.Clone(d), ok
}

// Names returns all file names in sorted order.
func (m *Memory) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.files))
	for n := range m.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (m *Memory) Name() string   { return m.name }
func (m *Memory) Writable() bool { return m.writable }

func (m *Memory) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[name]
	return ok
}

func (m *Memory) Open(name string) (Stream, error) {
	m.mu.RLock()
	d, ok := m.files[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrNotExist, name, m.name)
	}
	return &memStream{r: bytes.NewReader(d)}, nil
}

func (m *Memory) Create(name string, overwrite bool) (Stream, error) {
	if !m.writable {
		return nil, fmt.Errorf("%w: %s", ErrNotWritable, m.name)
	}
	if !overwrite && m.Exists(name) {
		return nil, fmt.Errorf("%w: %s in %s", ErrExist, name, m.name)
	}
	return &memStream{w: &bytes.Buffer{}, commit: func(b []byte) { m.Add(name, b) }}, nil
}

// memStream is either a reader over a snapshot or a writer that commits
// its buffer on Close.
type memStream struct {
	r      *bytes.Reader
	w      *bytes.Buffer
	commit func([]byte)
}

func (s *memStream) Read(p []byte) (int, error) {
	if s.r == nil {
		return 0, io.EOF
	}
	return s.r.Read(p)
}

func (s *memStream) ReadByte() (byte, error) {
	if s.r == nil {
		return 0, io.EOF
	}
	return s.r.ReadByte()
}

func (s *memStream) EOF() bool { return s.r == nil || s.r.Len() == 0 }

func (s *memStream) Write(p []byte) (int, error) {
	if s.w == nil {
		return 0, fmt.Errorf("vfs: stream opened read-only")
	}
	return s.w.Write(p)
}

func (s *memStream) Close() error {
	if s.w != nil && s.commit != nil {
		s.commit(s.w.Bytes())
		s.commit = nil
	}
	return nil
}
