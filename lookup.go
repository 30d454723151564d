// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package jsonarena

// Lookup reconstructs a JSON tree (nil, bool, uint64, int64, float64,
// string, []any, map[string]any) from a handle interned against c. It
// panics if the handle references an id out of range for c's arenas; this
// only happens for a forged handle or one interned against a different
// Context, since a handle legitimately produced by Intern is always in
// range.
func (c *Context) Lookup(v IValue) any {
	switch v.Tag() {
	case TagNull:
		return nil
	case TagBool:
		return v.AsBool()
	case TagU64:
		return v.AsU64()
	case TagI64:
		return v.AsI64()
	case TagF64:
		return v.AsF64()
	case TagString:
		return c.lookupString(v.AsStringId())
	case TagArray:
		return c.lookupArray(v.AsArrayId())
	case TagObject:
		return c.lookupObject(v.AsObjectId())
	default:
		panic(&Error{Code: WrongContextErr, Message: "handle has an unrecognized tag"})
	}
}

func (c *Context) lookupString(id StringId) string {
	c.checkStringId(id)
	return c.strings.Lookup(uint32(id))
}

func (c *Context) lookupArray(id ArrayId) []any {
	c.checkArrayId(id)
	elems := c.arrays.Lookup(uint32(id))
	out := make([]any, len(elems))
	for i, e := range elems {
		out[i] = c.Lookup(e)
	}
	return out
}

func (c *Context) lookupObject(id ObjectId) map[string]any {
	c.checkObjectId(id)
	entries := c.objects.Lookup(uint32(id))
	out := make(map[string]any, len(entries))
	for _, e := range entries {
		out[c.strings.Lookup(uint32(e.Key.StringId()))] = c.Lookup(e.Value)
	}
	return out
}

// LookupRef is like Lookup but returns a borrowed ValueRef instead of
// recursively materializing nested arrays and objects, reusing the arena's
// own backing storage.
func (c *Context) LookupRef(v IValue) ValueRef {
	switch v.Tag() {
	case TagNull:
		return ValueRef{tag: TagNull}
	case TagBool:
		return ValueRef{tag: TagBool, b: v.AsBool()}
	case TagU64:
		return ValueRef{tag: TagU64, u: v.AsU64()}
	case TagI64:
		return ValueRef{tag: TagI64, i: v.AsI64()}
	case TagF64:
		return ValueRef{tag: TagF64, f: v.AsF64()}
	case TagString:
		id := v.AsStringId()
		c.checkStringId(id)
		return ValueRef{tag: TagString, s: c.strings.Lookup(uint32(id))}
	case TagArray:
		id := v.AsArrayId()
		c.checkArrayId(id)
		return ValueRef{tag: TagArray, arr: c.arrays.Lookup(uint32(id))}
	case TagObject:
		id := v.AsObjectId()
		c.checkObjectId(id)
		return ValueRef{tag: TagObject, obj: MapRef{ctx: c, entries: c.objects.Lookup(uint32(id))}}
	default:
		panic(&Error{Code: WrongContextErr, Message: "handle has an unrecognized tag"})
	}
}

func (c *Context) checkStringId(id StringId) {
	if uint32(id) >= c.strings.Len() {
		panic(newOutOfRangeError("string", uint32(id), c.strings.Len()))
	}
}

func (c *Context) checkArrayId(id ArrayId) {
	if uint32(id) >= c.arrays.Len() {
		panic(newOutOfRangeError("array", uint32(id), c.arrays.Len()))
	}
}

func (c *Context) checkObjectId(id ObjectId) {
	if uint32(id) >= c.objects.Len() {
		panic(newOutOfRangeError("object", uint32(id), c.objects.Len()))
	}
}
