// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package vfs is the filesystem collaborator of the renderer. Textures,
// shaders, fonts, references and manifests are read through it, and
// screenshots are written to a writable filesystem.
package vfs

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrNotExist is returned when a file is missing on every layer.
	ErrNotExist = errors.New("vfs: file does not exist")

	// ErrNotWritable is returned by Create on a read-only filesystem.
	ErrNotWritable = errors.New("vfs: filesystem is not writable")

	// ErrExist is returned by Create when the file exists and overwrite is false.
	ErrExist = errors.New("vfs: file already exists")
)

// Stream is an open file. Reads work byte by byte or in blocks; EOF
// reports whether every byte has been consumed.
type Stream interface {
	io.ReadWriteCloser
	io.ByteReader
	EOF() bool
}

// Filesystem is a named source of files.
type Filesystem interface {
	Name() string
	Exists(name string) bool
	Open(name string) (Stream, error)
	Create(name string, overwrite bool) (Stream, error)
	Writable() bool
}

// ReadAll opens name and returns its content.
func ReadAll(fs Filesystem, name string) ([]byte, error) {
	s, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	data, err := io.ReadAll(s)
	if err != nil {
		return nil, fmt.Errorf("vfs: read %s from %s: %w", name, fs.Name(), err)
	}
	return data, nil
}

// WriteFile creates name on fs and writes data to it.
func WriteFile(fs Filesystem, name string, data []byte, overwrite bool) error {
	if !fs.Writable() {
		return fmt.Errorf("%w: %s", ErrNotWritable, fs.Name())
	}
	s, err := fs.Create(name, overwrite)
	if err != nil {
		return err
	}
	if _, err := s.Write(data); err != nil {
		s.Close()
		return fmt.Errorf("vfs: write %s: %w", name, err)
	}
	return s.Close()
}
