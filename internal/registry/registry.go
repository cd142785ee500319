// Package registry implements the arena used for textures, effects and
// materials: a growable slice addressed by stable integer handles with an
// optional active element.
package registry

import (
	"errors"
	"iter"
)

// ErrNoActive is returned by Active when no element has been activated.
var ErrNoActive = errors.New("registry: no active element")

// Manager owns a list of resources addressed by index.
// Handles returned by Add are never reused while the manager lives.
type Manager[T any] struct {
	items  []T
	active int
}

// New returns an empty manager.
func New[T any]() *Manager[T] {
	return &Manager[T]{active: -1}
}

// Add appends item and returns its handle.
func (m *Manager[T]) Add(item T) int {
	m.items = append(m.items, item)
	return len(m.items) - 1
}

// Len returns the number of registered items.
func (m *Manager[T]) Len() int { return len(m.items) }

// Get returns the item at handle i.
func (m *Manager[T]) Get(i int) (T, bool) {
	if i < 0 || i >= len(m.items) {
		var zero T
		return zero, false
	}
	return m.items[i], true
}

// Set replaces the item at handle i. It reports false for unknown handles.
func (m *Manager[T]) Set(i int, item T) bool {
	if i < 0 || i >= len(m.items) {
		return false
	}
	m.items[i] = item
	return true
}

// FindIndex returns the handle of the first item matching pred.
func (m *Manager[T]) FindIndex(pred func(T) bool) (int, bool) {
	for i, it := range m.items {
		if pred(it) {
			return i, true
		}
	}
	return -1, false
}

// Find returns the first item matching pred.
func (m *Manager[T]) Find(pred func(T) bool) (T, bool) {
	i, ok := m.FindIndex(pred)
	if !ok {
		var zero T
		return zero, false
	}
	return m.items[i], true
}

// SelectActive activates the first item matching pred.
// A false result is the normal signal that the caller should add a new item;
// the previous active element is kept in that case.
func (m *Manager[T]) SelectActive(pred func(T) bool) bool {
	i, ok := m.FindIndex(pred)
	if ok {
		m.active = i
	}
	return ok
}

// SetActive activates handle i. Out of range handles are ignored.
func (m *Manager[T]) SetActive(i int) {
	if i >= 0 && i < len(m.items) {
		m.active = i
	}
}

// ActiveIndex returns the active handle.
func (m *Manager[T]) ActiveIndex() (int, bool) {
	return m.active, m.active >= 0
}

// Active returns the active item or ErrNoActive.
func (m *Manager[T]) Active() (T, error) {
	if m.active < 0 || m.active >= len(m.items) {
		var zero T
		return zero, ErrNoActive
	}
	return m.items[m.active], nil
}

// MustActive returns the active item and panics if there is none.
// Callers use it where setup guarantees a registered default.
func (m *Manager[T]) MustActive() T {
	it, err := m.Active()
	if err != nil {
		panic(err)
	}
	return it
}

// All iterates over handles and items in registration order.
func (m *Manager[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, it := range m.items {
			if !yield(i, it) {
				return
			}
		}
	}
}

// Clear drops every item and the active selection.
func (m *Manager[T]) Clear() {
	clear(m.items)
	m.items = m.items[:0]
	m.active = -1
}
