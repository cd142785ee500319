// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/quad/backend"
	"github.com/gogpu/quad/vfs"
)

// ErrCompile wraps shader compilation failures.
var ErrCompile = errors.New("effect: shader compilation failed")

// Compile compiles WGSL source to SPIR-V words. Label names the source in
// errors.
func Compile(label, wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCompile, label, err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("%w: %s: SPIR-V size %d is not a multiple of 4", ErrCompile, label, len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// Load reads WGSL sources from fs, compiles them and creates a backend
// program. When fragmentFile is empty or equal to vertexFile, one source
// provides both entry points. The returned effect carries the default
// render state.
func Load(fs vfs.Filesystem, be backend.Backend, name, vertexFile, fragmentFile string) (Effect, error) {
	vs, err := compileFile(fs, vertexFile)
	if err != nil {
		return Effect{}, err
	}
	fsWords := vs
	if fragmentFile != "" && fragmentFile != vertexFile {
		if fsWords, err = compileFile(fs, fragmentFile); err != nil {
			return Effect{}, err
		}
	}
	program, err := be.CreateProgram(vs, fsWords)
	if err != nil {
		return Effect{}, fmt.Errorf("effect: %s: %w", name, err)
	}
	return New(name, program), nil
}

func compileFile(fs vfs.Filesystem, file string) ([]uint32, error) {
	src, err := vfs.ReadAll(fs, file)
	if err != nil {
		return nil, fmt.Errorf("effect: %w", err)
	}
	return Compile(file, string(src))
}
