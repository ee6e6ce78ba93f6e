// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"errors"
	"fmt"
	"sync"
)

// ErrKeyAlreadyRegistered is an error, which is returned when registering a
// key, which already exists in the registry.
var ErrKeyAlreadyRegistered = errors.New("key is already registered")

// ErrStopIteration is a sentinel error, which signals [Registry.Range] to stop
// iterating over the registry items.
var ErrStopIteration = errors.New("stop iteration")

// ErrContinue is a no-op sentinel error, which signals [Registry.Range] to
// proceed with the next registry item.
var ErrContinue = errors.New("continue iteration")

// Registry is a concurrent-safe collection of key/value pairs.
type Registry[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// New creates a new empty registry.
func New[K comparable, V any]() *Registry[K, V] {
	r := &Registry[K, V]{
		items: make(map[K]V),
	}

	return r
}

// Register adds the key and value to the registry. It returns
// [ErrKeyAlreadyRegistered] when the key has already been registered.
func (r *Registry[K, V]) Register(key K, val V) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[key]; exists {
		return fmt.Errorf("%w: %v", ErrKeyAlreadyRegistered, key)
	}

	r.items[key] = val

	return nil
}

// MustRegister adds the key and value to the registry, or panics in case of
// errors.
func (r *Registry[K, V]) MustRegister(key K, val V) {
	if err := r.Register(key, val); err != nil {
		panic(err)
	}
}

// Overwrite sets the value for the given key, replacing any previously
// registered value.
func (r *Registry[K, V]) Overwrite(key K, val V) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[key] = val
}

// Unregister removes the key (if present) from the registry.
func (r *Registry[K, V]) Unregister(key K) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, key)
}

// Get returns the value registered for the given key and a boolean flag
// indicating whether the key was found.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	val, ok := r.items[key]

	return val, ok
}

// Exists returns a boolean flag indicating whether the given key has been
// registered.
func (r *Registry[K, V]) Exists(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.items[key]

	return exists
}

// Length returns the number of items in the registry.
func (r *Registry[K, V]) Length() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}

// RangeFunc is the type of the function, which is invoked for each registry
// item during [Registry.Range] iteration.
type RangeFunc[K comparable, V any] func(key K, val V) error

// Range calls f for each item in the registry. Returning [ErrStopIteration]
// from f stops the iteration early, returning any other non-nil error stops
// the iteration and propagates the error to the caller.
func (r *Registry[K, V]) Range(f RangeFunc[K, V]) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for key, val := range r.items {
		err := f(key, val)
		switch {
		case err == nil, errors.Is(err, ErrContinue):
		case errors.Is(err, ErrStopIteration):
			return nil
		default:
			return err
		}
	}

	return nil
}
