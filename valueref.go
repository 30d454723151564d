// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package jsonarena

import "sort"

// ValueRef is a shallow, borrowed view over an interned value: unlike
// Lookup, which recursively materializes a JSON tree, LookupRef returns a
// ValueRef that reuses the arena's own backing storage for strings, arrays,
// and objects without copying.
type ValueRef struct {
	tag Tag
	b   bool
	u   uint64
	i   int64
	f   float64
	s   string
	arr []IValue
	obj MapRef
}

// Tag reports which variant the ValueRef holds.
func (r ValueRef) Tag() Tag { return r.tag }

// AsBool returns the boolean payload.
func (r ValueRef) AsBool() bool { return r.b }

// AsU64 returns the unsigned-integer payload.
func (r ValueRef) AsU64() uint64 { return r.u }

// AsI64 returns the signed-integer payload.
func (r ValueRef) AsI64() int64 { return r.i }

// AsF64 returns the float payload.
func (r ValueRef) AsF64() float64 { return r.f }

// AsString returns the borrowed string payload.
func (r ValueRef) AsString() string { return r.s }

// AsArray returns the borrowed element slice. Callers must not mutate it.
func (r ValueRef) AsArray() []IValue { return r.arr }

// AsObject returns the borrowed MapRef.
func (r ValueRef) AsObject() MapRef { return r.obj }

// MapRef is a borrowed view over an interned object: the entry slice plus
// the string arena needed to resolve keys by text.
type MapRef struct {
	ctx     *Context
	entries []ObjectEntry
}

// Len returns the number of entries.
func (m MapRef) Len() int { return len(m.entries) }

// Get looks up a field by key text. It performs a Find in the string arena
// followed by a binary search over the entry slice; it returns (_, false)
// when the key was never interned at all, and also when it was interned
// but is not a field of this particular object.
func (m MapRef) Get(key string) (IValue, bool) {
	sid, ok := m.ctx.strings.Find(key)
	if !ok {
		return Null, false
	}
	return m.GetByKey(NewKeyId(StringId(sid)))
}

// GetByKey looks up a field by a precomputed KeyId, avoiding the string
// arena probe that Get performs.
func (m MapRef) GetByKey(k KeyId) (IValue, bool) {
	i := sort.Search(len(m.entries), func(i int) bool {
		return !m.entries[i].Key.Less(k)
	})
	if i < len(m.entries) && m.entries[i].Key == k {
		return m.entries[i].Value, true
	}
	return Null, false
}

// Entries returns the borrowed, KeyId-sorted entry slice directly.
func (m MapRef) Entries() []ObjectEntry { return m.entries }

// All ranges over the object's fields in stored (KeyId) order, resolving
// each key back to text through the string arena. It stops early if yield
// returns false.
func (m MapRef) All(yield func(key string, value IValue) bool) {
	for _, e := range m.entries {
		key := m.ctx.strings.Lookup(uint32(e.Key.StringId()))
		if !yield(key, e.Value) {
			return
		}
	}
}
