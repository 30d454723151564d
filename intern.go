// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package jsonarena

import (
	"encoding/json"
	"sort"
	"strconv"
)

// Intern walks v (the shape encoding/json, with UseNumber, produces: any
// nested combination of nil, bool, json.Number, string, []any, and
// map[string]any, plus the raw Go numeric types for callers building trees
// by hand) and interns it bottom-up into c's arenas, returning the
// resulting handle.
//
// Objects are interned by collecting their (KeyId, IValue) pairs into a
// scratch buffer, sorting by KeyId, and interning the sorted slice;
// array elements are interned left to right and the resulting slice
// interned as-is.
func (c *Context) Intern(v any) IValue {
	return c.internAny(v)
}

// InternRef is semantics-equivalent to Intern. Go's maps and slices are
// already reference types, so there is no separate "borrowing" code path
// the way there would be in a language with an ownership model; InternRef
// exists as a distinct entry point for callers that want to make that
// intent explicit, and is guaranteed to produce bit-identical handles to
// Intern for the same logical content.
func (c *Context) InternRef(v any) IValue {
	return c.internAny(v)
}

func (c *Context) internAny(v any) IValue {
	switch x := v.(type) {
	case nil:
		return Null
	case bool:
		return Bool(x)
	case string:
		return StringValue(c.internString(x))
	case json.Number:
		return internNumber(c, x)
	case float32:
		return F64(float64(x))
	case float64:
		return F64(x)
	case int:
		return intValue(int64(x))
	case int8:
		return intValue(int64(x))
	case int16:
		return intValue(int64(x))
	case int32:
		return intValue(int64(x))
	case int64:
		return intValue(x)
	case uint:
		return U64(uint64(x))
	case uint8:
		return U64(uint64(x))
	case uint16:
		return U64(uint64(x))
	case uint32:
		return U64(uint64(x))
	case uint64:
		return U64(x)
	case []any:
		return c.internSlice(x)
	case map[string]any:
		return c.internMap(x)
	default:
		panic(&Error{Code: UnsupportedTypeErr, Message: "cannot intern value of unsupported type"})
	}
}

// intValue picks U64 when a non-negative int64 fits the unsigned variant:
// a value is U64 if it fits [0, 2^64).
func intValue(x int64) IValue {
	if x >= 0 {
		return U64(uint64(x))
	}
	return I64(x)
}

// internNumber classifies a json.Number into U64, I64, or F64, preferring
// the unsigned 64-bit range first, then signed 64-bit, then float.
func internNumber(c *Context, n json.Number) IValue {
	s := string(n)
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return U64(u)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return I64(i)
	}
	f, err := n.Float64()
	if err != nil {
		panic(&Error{Code: UnsupportedTypeErr, Message: "malformed json.Number " + s})
	}
	return F64(f)
}

func (c *Context) internSlice(xs []any) IValue {
	vs := make([]IValue, len(xs))
	for i, x := range xs {
		vs[i] = c.internAny(x)
	}
	return ArrayValue(c.internArray(vs))
}

func (c *Context) internMap(m map[string]any) IValue {
	// Keys are visited in sorted text order so that the KeyIds assigned to
	// new keys do not depend on Go's randomized map iteration order.
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]ObjectEntry, 0, len(m))
	for _, k := range keys {
		entries = append(entries, ObjectEntry{
			Key:   NewKeyId(c.internString(k)),
			Value: c.internAny(m[k]),
		})
	}
	return ObjectValue(c.internObject(sortEntries(entries)))
}

// sortEntries sorts raw (possibly duplicate-keyed) entries by KeyId and
// collapses duplicates keeping the last occurrence, matching the
// last-write-wins behavior common JSON libraries exhibit on duplicate
// object keys. Go's map[string]any can never itself contain duplicate
// keys; the dedup only matters for entries assembled by hand and passed to
// InternObjectEntries.
func sortEntries(entries []ObjectEntry) []ObjectEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Key.Less(entries[j].Key)
	})

	out := entries[:0:0]
	for i, e := range entries {
		if i+1 < len(entries) && entries[i+1].Key == e.Key {
			continue // a later entry with the same key wins
		}
		out = append(out, e)
	}
	return out
}

// InternObjectEntries interns a caller-assembled (possibly duplicate-keyed,
// possibly unsorted) set of object fields, for callers that hold
// (KeyId, IValue) pairs rather than a map[string]any.
func (c *Context) InternObjectEntries(entries []ObjectEntry) ObjectId {
	return c.internObject(sortEntries(entries))
}
