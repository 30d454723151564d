// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package jsonarena

import (
	"io"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jsonarena/jsonarena/internal/arena"
)

// Context owns the three content-addressed arenas (strings, arrays, object
// entries) that back every IValue handle minted from it. It is the public
// façade of the module: intern, lookup, optimize, and (via the structcodec
// and delta sibling packages) structured conversion and on-wire delta
// encoding all operate against a Context.
//
// A Context supports any number of concurrent readers and concurrent
// interners (see the concurrency notes on internal/arena's Arena and
// Arena.Intern).
// It never shrinks on its own; the only way to reclaim space is Optimize,
// which returns a brand-new Context plus a Mapping translating old handles
// to new ones.
type Context struct {
	id uuid.UUID

	strings *arena.Arena[string]
	arrays  *arena.Arena[[]IValue]
	objects *arena.Arena[[]ObjectEntry]

	logger *logrus.Logger

	initialStrings int
	initialArrays  int
	initialObjects int
}

// New creates an empty Context. The string arena always starts with id 0
// bound to the empty string.
func New(opts ...Option) *Context {
	c := &Context{
		id:     uuid.New(),
		logger: discardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.strings = arena.NewWithCapacity[string](c.initialStrings, xxhash.Sum64String, func(a, b string) bool { return a == b })
	c.arrays = arena.NewWithCapacity[[]IValue](c.initialArrays, hashIValues, slices.Equal[[]IValue])
	c.objects = arena.NewWithCapacity[[]ObjectEntry](c.initialObjects, hashEntries, slices.Equal[[]ObjectEntry])

	// Reserve id 0 for "" up front so it holds even if the first real
	// intern call is concurrent with another goroutine's first call.
	c.strings.Intern("")

	return c
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// ID returns a UUID identifying this Context instance, useful for
// correlating Optimize log entries across a fleet of contexts.
func (c *Context) ID() uuid.UUID { return c.id }

// StringsLen returns the number of distinct interned strings.
func (c *Context) StringsLen() uint32 { return c.strings.Len() }

// ArraysLen returns the number of distinct interned array shapes.
func (c *Context) ArraysLen() uint32 { return c.arrays.Len() }

// ObjectsLen returns the number of distinct interned object shapes.
func (c *Context) ObjectsLen() uint32 { return c.objects.Len() }

// FindKey looks up the KeyId for a key string without interning it.
func (c *Context) FindKey(key string) (KeyId, bool) {
	id, ok := c.strings.Find(key)
	if !ok {
		return KeyId{}, false
	}
	return NewKeyId(StringId(id)), true
}

// internString interns a raw string and returns its StringId.
func (c *Context) internString(s string) StringId {
	return StringId(c.strings.Intern(s))
}

// internArray interns a (already-built) slice of IValue and returns its
// ArrayId. The slice must not be mutated afterward.
func (c *Context) internArray(vs []IValue) ArrayId {
	return ArrayId(c.arrays.Intern(vs))
}

// internObject interns a (already sorted) slice of ObjectEntry and returns
// its ObjectId. The slice must not be mutated afterward.
func (c *Context) internObject(es []ObjectEntry) ObjectId {
	return ObjectId(c.objects.Intern(es))
}

// Sizes reports an approximate heap-byte footprint per arena, for size
// introspection.
type Sizes struct {
	Strings uint64
	Arrays  uint64
	Objects uint64
}

// SizeOf returns an approximate heap-byte footprint per arena. It is an
// estimate (sum of element sizes, not accounting for allocator overhead or
// the bucket index), intended for relative comparisons before/after
// Optimize rather than exact accounting.
func (c *Context) SizeOf() Sizes {
	var s Sizes
	c.strings.All(func(_ arena.Id, v string) bool {
		s.Strings += uint64(len(v))
		return true
	})
	c.arrays.All(func(_ arena.Id, v []IValue) bool {
		s.Arrays += uint64(len(v)) * 12
		return true
	})
	c.objects.All(func(_ arena.Id, v []ObjectEntry) bool {
		s.Objects += uint64(len(v)) * 16
		return true
	})
	return s
}
