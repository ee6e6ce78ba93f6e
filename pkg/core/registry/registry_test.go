// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"errors"
	"testing"
)

func TestNewRegistryIsEmpty(t *testing.T) {
	reg := New[string, int]()

	if reg.Length() != 0 {
		t.Fatalf("new registry should be empty, got length %d", reg.Length())
	}
}

func TestRegisterAndGet(t *testing.T) {
	reg := New[string, int]()

	const key = "nexudus:task:sync-products"
	const value = 42

	if err := reg.Register(key, value); err != nil {
		t.Fatalf("failed to register item: %s", err)
	}

	if reg.Length() != 1 {
		t.Fatalf("registry should contain 1 item, got %d", reg.Length())
	}

	got, ok := reg.Get(key)
	if !ok {
		t.Fatalf("no value found for registered key %q", key)
	}
	if got != value {
		t.Fatalf("got value %d for key %q, want %d", got, key, value)
	}
}

func TestGetUnknownKey(t *testing.T) {
	reg := New[string, int]()

	if _, ok := reg.Get("unknown"); ok {
		t.Fatal("Get reported an unknown key as present")
	}
}

func TestRegisterDuplicateKey(t *testing.T) {
	reg := New[string, int]()

	const key = "nexudus:task:sync-locations"
	if err := reg.Register(key, 1); err != nil {
		t.Fatalf("failed to register item: %s", err)
	}

	err := reg.Register(key, 2)
	if !errors.Is(err, ErrKeyAlreadyRegistered) {
		t.Fatalf("want ErrKeyAlreadyRegistered, got %v", err)
	}
}

func TestMustRegisterPanicsOnDuplicateKey(t *testing.T) {
	reg := New[string, int]()

	const key = "nexudus:model:products"
	reg.MustRegister(key, 1)

	defer func() {
		if recover() == nil {
			t.Fatal("MustRegister did not panic when registering a duplicate key")
		}
	}()

	reg.MustRegister(key, 2)
}

func TestOverwrite(t *testing.T) {
	reg := New[string, int]()

	const key = "nexudus:task:sync-resources"
	reg.MustRegister(key, 1)
	reg.Overwrite(key, 2)

	got, ok := reg.Get(key)
	if !ok {
		t.Fatalf("no value found for key %q", key)
	}
	if got != 2 {
		t.Fatalf("got value %d after overwrite, want 2", got)
	}

	// Overwriting an unknown key simply registers it
	reg.Overwrite("nexudus:task:sync-contracts", 3)
	if reg.Length() != 2 {
		t.Fatalf("registry should contain 2 items, got %d", reg.Length())
	}
}

func TestUnregister(t *testing.T) {
	reg := New[string, int]()

	const key = "meta:model:sync-run"
	reg.MustRegister(key, 1)
	reg.Unregister(key)

	if reg.Exists(key) {
		t.Fatalf("key %q still exists after unregistering", key)
	}
	if reg.Length() != 0 {
		t.Fatalf("registry should be empty, got length %d", reg.Length())
	}

	// Unregistering an unknown key is a no-op
	reg.Unregister("unknown")
}

func TestExists(t *testing.T) {
	reg := New[string, int]()

	const key = "nexudus:task:sync-extra-services"
	if reg.Exists(key) {
		t.Fatalf("key %q should not exist in an empty registry", key)
	}

	reg.MustRegister(key, 1)
	if !reg.Exists(key) {
		t.Fatalf("key %q should exist after registering", key)
	}
}

func TestRangeVisitsAllItems(t *testing.T) {
	reg := New[string, int]()
	items := map[string]int{
		"locations": 1,
		"products":  2,
		"contracts": 3,
	}
	for k, v := range items {
		reg.MustRegister(k, v)
	}

	visited := make(map[string]int)
	err := reg.Range(func(key string, val int) error {
		visited[key] = val

		return nil
	})

	if err != nil {
		t.Fatalf("Range returned an error: %s", err)
	}
	if len(visited) != len(items) {
		t.Fatalf("Range visited %d items, want %d", len(visited), len(items))
	}
	for k, v := range items {
		if visited[k] != v {
			t.Fatalf("Range visited %q with value %d, want %d", k, visited[k], v)
		}
	}
}

func TestRangeStopIteration(t *testing.T) {
	reg := New[string, int]()
	reg.MustRegister("key", 1)

	err := reg.Range(func(key string, val int) error {
		return ErrStopIteration
	})

	if err != nil {
		t.Fatalf("Range should return nil on ErrStopIteration, got %v", err)
	}
}

func TestRangeContinue(t *testing.T) {
	reg := New[string, int]()
	reg.MustRegister("a", 1)
	reg.MustRegister("b", 2)

	count := 0
	err := reg.Range(func(key string, val int) error {
		count++

		return ErrContinue
	})

	if err != nil {
		t.Fatalf("Range should return nil on ErrContinue, got %v", err)
	}
	if count != 2 {
		t.Fatalf("Range visited %d items, want 2", count)
	}
}

func TestRangePropagatesError(t *testing.T) {
	reg := New[string, int]()
	reg.MustRegister("key", 1)

	wantErr := errors.New("range failed")
	err := reg.Range(func(key string, val int) error {
		return wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Fatalf("Range should propagate the error, got %v", err)
	}
}
