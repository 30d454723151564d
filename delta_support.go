// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package jsonarena

// Strings returns a snapshot of the string arena's contents in id order:
// element i is the string bound to StringId(i). It exists for the delta
// package, which needs to walk the arenas directly rather than through a
// JSON tree.
func (c *Context) Strings() []string { return c.strings.Items() }

// Arrays returns a snapshot of the array arena's contents in id order.
func (c *Context) Arrays() [][]IValue { return c.arrays.Items() }

// Objects returns a snapshot of the object arena's contents in id order.
func (c *Context) Objects() [][]ObjectEntry { return c.objects.Items() }

// InternRawString interns s directly, bypassing the recursive JSON walk
// Intern performs. It is exported for the delta package, which reconstructs
// a Context id-for-id from decoded arena contents rather than from a parsed
// tree.
func (c *Context) InternRawString(s string) StringId { return c.internString(s) }

// InternRawArray is InternRawString's array-arena counterpart. vs must not be
// mutated afterward.
func (c *Context) InternRawArray(vs []IValue) ArrayId { return c.internArray(vs) }

// InternRawObject is InternRawString's object-arena counterpart. es must
// already be sorted by KeyId (the delta codec's object accumulator preserves
// the sorted order it read, so no re-sort is needed on decode); es must not
// be mutated afterward.
func (c *Context) InternRawObject(es []ObjectEntry) ObjectId { return c.internObject(es) }
