// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vfs

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
)

// FromFS wraps a read-only io/fs.FS such as an embed.FS.
func FromFS(name string, fsys fs.FS) Filesystem {
	return &ioFS{name: name, fsys: fsys}
}

type ioFS struct {
	name string
	fsys fs.FS
}

func (f *ioFS) Name() string   { return f.name }
func (f *ioFS) Writable() bool { return false }

func (f *ioFS) Exists(name string) bool {
	st, err := fs.Stat(f.fsys, name)
	return err == nil && !st.IsDir()
}

func (f *ioFS) Open(name string) (Stream, error) {
	data, err := fs.ReadFile(f.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s in %s", ErrNotExist, name, f.name)
		}
		return nil, fmt.Errorf("vfs: open %s: %w", name, err)
	}
	return &memStream{r: bytes.NewReader(data)}, nil
}

func (f *ioFS) Create(string, bool) (Stream, error) {
	return nil, fmt.Errorf("%w: %s", ErrNotWritable, f.name)
}
