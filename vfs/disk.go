// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vfs

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Disk is a filesystem rooted at a directory on the host.
type Disk struct {
	root     string
	writable bool
}

// NewDisk returns a filesystem rooted at root.
func NewDisk(root string, writable bool) *Disk {
	return &Disk{root: root, writable: writable}
}

func (d *Disk) Name() string   { return "disk:" + d.root }
func (d *Disk) Writable() bool { return d.writable }

func (d *Disk) path(name string) string {
	return filepath.Join(d.root, filepath.FromSlash(name))
}

func (d *Disk) Exists(name string) bool {
	st, err := os.Stat(d.path(name))
	return err == nil && !st.IsDir()
}

func (d *Disk) Open(name string) (Stream, error) {
	f, err := os.Open(d.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s in %s", ErrNotExist, name, d.Name())
		}
		return nil, fmt.Errorf("vfs: open %s: %w", name, err)
	}
	return &fileStream{f: f, r: bufio.NewReader(f)}, nil
}

func (d *Disk) Create(name string, overwrite bool) (Stream, error) {
	if !d.writable {
		return nil, fmt.Errorf("%w: %s", ErrNotWritable, d.Name())
	}
	p := d.path(name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, fmt.Errorf("vfs: create %s: %w", name, err)
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(p, flags, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s in %s", ErrExist, name, d.Name())
		}
		return nil, fmt.Errorf("vfs: create %s: %w", name, err)
	}
	return &fileStream{f: f}, nil
}

type fileStream struct {
	f *os.File
	r *bufio.Reader
}

func (s *fileStream) Read(p []byte) (int, error) {
	if s.r == nil {
		return 0, fmt.Errorf("vfs: stream opened write-only")
	}
	return s.r.Read(p)
}

func (s *fileStream) ReadByte() (byte, error) {
	if s.r == nil {
		return 0, fmt.Errorf("vfs: stream opened write-only")
	}
	return s.r.ReadByte()
}

func (s *fileStream) EOF() bool {
	if s.r == nil {
		return true
	}
	_, err := s.r.Peek(1)
	return err != nil
}

func (s *fileStream) Write(p []byte) (int, error) { return s.f.Write(p) }
func (s *fileStream) Close() error                { return s.f.Close() }
