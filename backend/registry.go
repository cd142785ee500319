// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"fmt"

	"github.com/gogpu/gpucontext"
)

// Backend names known to the registry, in priority order.
const (
	NameWGPU     = "wgpu"
	NameSoftware = "software"
	NameNull     = "null"
)

// Factory creates a new backend instance.
type Factory func() Backend

// Priority order for backend selection (first registered wins).
// GPU > Software > Null.
var registry = gpucontext.NewRegistry[Backend](
	gpucontext.WithPriority(NameWGPU, NameSoftware, NameNull),
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registry.Register(name, factory)
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registry.Unregister(name)
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	return registry.Has(name)
}

// Available returns the names of registered backends.
func Available() []string {
	return registry.Available()
}

// New returns a fresh backend instance by name.
func New(name string) (Backend, error) {
	if !registry.Has(name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	b := registry.Get(name)
	if b == nil {
		return nil, fmt.Errorf("%w: %q returned nil", ErrUnknownBackend, name)
	}
	return b, nil
}

// Best returns the highest priority registered backend, or nil when none is.
func Best() Backend {
	return registry.Best()
}

// BestName returns the name Best would pick.
func BestName() string {
	return registry.BestName()
}
