// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package arena implements a generic, content-addressed, append-only store:
// given a value, Intern returns a dense 32-bit id, assigning a new one only
// the first time a structurally-equal value is seen.
//
// This is the storage primitive the rest of jsonarena is written against.
// It is kept separate because the string, array, and object arenas each
// need it with a different element type, and because array/object slices
// are not
// Go-comparable and so cannot be used as native map keys; instead, callers
// supply a hash and an equality function and the arena buckets candidates
// by hash before confirming equality.
package arena

import "sync"

// Id is a dense, zero-based identifier assigned in insertion order.
type Id = uint32

// Arena is a concurrent-safe content-addressed store of T.
type Arena[T any] struct {
	mu      sync.RWMutex
	items   []T
	buckets map[uint64][]Id
	hash    func(T) uint64
	equal   func(a, b T) bool
}

// New creates an empty arena. hash must be a pure function of the logical
// content of T; equal must agree with hash (equal values must hash equal).
func New[T any](hash func(T) uint64, equal func(a, b T) bool) *Arena[T] {
	return NewWithCapacity[T](0, hash, equal)
}

// NewWithCapacity is like New but pre-sizes the backing storage, useful when
// the approximate number of distinct values is known ahead of time.
func NewWithCapacity[T any](capacity int, hash func(T) uint64, equal func(a, b T) bool) *Arena[T] {
	return &Arena[T]{
		items:   make([]T, 0, capacity),
		buckets: make(map[uint64][]Id, capacity),
		hash:    hash,
		equal:   equal,
	}
}

// Intern returns the id for v, inserting it if this is the first time an
// equal value has been interned. Concurrent calls interning structurally
// equal values are guaranteed to return the same id.
func (a *Arena[T]) Intern(v T) Id {
	h := a.hash(v)

	a.mu.RLock()
	if id, ok := a.findLocked(h, v); ok {
		a.mu.RUnlock()
		return id
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	if id, ok := a.findLocked(h, v); ok {
		return id
	}

	id := Id(len(a.items))
	a.items = append(a.items, v)
	a.buckets[h] = append(a.buckets[h], id)
	return id
}

// findLocked requires the caller to hold at least a.mu.RLock().
func (a *Arena[T]) findLocked(h uint64, v T) (Id, bool) {
	for _, id := range a.buckets[h] {
		if a.equal(a.items[id], v) {
			return id, true
		}
	}
	return 0, false
}

// Find returns the id for v without inserting it.
func (a *Arena[T]) Find(v T) (Id, bool) {
	h := a.hash(v)
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.findLocked(h, v)
}

// Lookup returns the value stored at id. It panics if id is out of range;
// that never happens for a handle that was legitimately produced by
// Intern.
func (a *Arena[T]) Lookup(id Id) T {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.items[id]
}

// Len returns the number of distinct interned values.
func (a *Arena[T]) Len() uint32 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return uint32(len(a.items))
}

// Items returns a snapshot slice of every interned value, indexed by id.
// The returned slice must not be mutated; it may alias the arena's backing
// array.
func (a *Arena[T]) Items() []T {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]T, len(a.items))
	copy(out, a.items)
	return out
}

// All ranges over every (id, value) pair in insertion order. It stops early
// if yield returns false.
func (a *Arena[T]) All(yield func(Id, T) bool) {
	a.mu.RLock()
	items := a.items
	a.mu.RUnlock()

	for i, v := range items {
		if !yield(Id(i), v) {
			return
		}
	}
}
