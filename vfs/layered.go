// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vfs

import (
	"fmt"
	"strings"
)

// Layered stacks filesystems. Lookups search the most recently added
// layer first; Create goes to the first writable layer in that order.
type Layered struct {
	layers []Filesystem
}

// NewLayered returns a layered filesystem over layers, lowest first.
func NewLayered(layers ...Filesystem) *Layered {
	return &Layered{layers: layers}
}

// Push adds fs as the new top layer.
func (l *Layered) Push(fs Filesystem) { l.layers = append(l.layers, fs) }

func (l *Layered) Name() string {
	names := make([]string, len(l.layers))
	for i, fs := range l.layers {
		names[i] = fs.Name()
	}
	return "layered[" + strings.Join(names, ",") + "]"
}

func (l *Layered) Exists(name string) bool {
	for i := len(l.layers) - 1; i >= 0; i-- {
		if l.layers[i].Exists(name) {
			return true
		}
	}
	return false
}

func (l *Layered) Open(name string) (Stream, error) {
	for i := len(l.layers) - 1; i >= 0; i-- {
		if l.layers[i].Exists(name) {
			return l.layers[i].Open(name)
		}
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrNotExist, name, l.Name())
}

func (l *Layered) Writable() bool {
	for _, fs := range l.layers {
		if fs.Writable() {
			return true
		}
	}
	return false
}

func (l *Layered) Create(name string, overwrite bool) (Stream, error) {
	for i := len(l.layers) - 1; i >= 0; i-- {
		if l.layers[i].Writable() {
			return l.layers[i].Create(name, overwrite)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotWritable, l.Name())
}

// Empty is a filesystem without files.
type Empty struct{}

func (Empty) Name() string       { return "empty" }
func (Empty) Exists(string) bool { return false }
func (Empty) Writable() bool     { return false }
func (Empty) Open(name string) (Stream, error) {
	return nil, fmt.Errorf("%w: %s", ErrNotExist, name)
}
func (Empty) Create(string, bool) (Stream, error) {
	return nil, ErrNotWritable
}
