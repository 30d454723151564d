// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package delta implements a delta-encoding serialization scheme for a
// jsonarena.Context: instead of writing absolute arena ids, each arena's
// contents are folded against a running per-variant accumulator, so that
// consecutive values (which Context.Optimize's canonical ordering clusters
// together) differ by small deltas rather than large absolute ids.
package delta

import (
	"math"

	"github.com/jsonarena/jsonarena"
)

// ValueDelta is the delta-encoded counterpart of a jsonarena.IValue: same
// tag, but the payload has already been folded against an accumulator by
// Encode. Non-reference variants (Null, Bool, U64, I64, F64) carry their own
// folded payload; the three id-bearing variants (String, Array, Object)
// carry a signed 32-bit id delta.
type ValueDelta struct {
	Tag jsonarena.Tag
	B   bool
	U   int64
	I   int64
	F   float64
	S   int32
	A   int32
	O   int32
}

// ObjectEntryDelta is one delta-encoded object field: the key is carried as
// the wrapping difference from the previous key within the same object,
// resetting to 0 at the start of every object.
type ObjectEntryDelta struct {
	KeyDelta int32
	Value    ValueDelta
}

// Encoded is the 3-tuple wire shape: an ordered list of strings, an ordered
// list of delta-encoded array slices, and an ordered list of delta-encoded
// object-entry slices. It carries no framing of its own; callers may hand
// it to any serializer that can carry arbitrary float64 bit patterns
// (encoding/gob, or the Marshal/Unmarshal pair this package also provides);
// F64 deltas are XORed bit patterns and are often NaN, which encoding/json
// rejects.
type Encoded struct {
	Strings []string
	Arrays  [][]ValueDelta
	Objects [][]ObjectEntryDelta
}

// valueAccumulator holds the running "previous value" per IValue variant.
// All fields start at each variant's zero element.
type valueAccumulator struct {
	b bool
	u uint64
	i int64
	f uint64 // bit pattern of the previous f64
	s uint32
	a uint32
	o uint32
}

func (acc *valueAccumulator) fold(v jsonarena.IValue) ValueDelta {
	switch v.Tag() {
	case jsonarena.TagNull:
		return ValueDelta{Tag: jsonarena.TagNull}
	case jsonarena.TagBool:
		x := v.AsBool()
		d := ValueDelta{Tag: jsonarena.TagBool, B: acc.b != x}
		acc.b = x
		return d
	case jsonarena.TagU64:
		x := v.AsU64()
		d := ValueDelta{Tag: jsonarena.TagU64, U: int64(x - acc.u)}
		acc.u = x
		return d
	case jsonarena.TagI64:
		x := v.AsI64()
		d := ValueDelta{Tag: jsonarena.TagI64, I: x - acc.i}
		acc.i = x
		return d
	case jsonarena.TagF64:
		x := v.AsF64()
		bits := math.Float64bits(x)
		d := ValueDelta{Tag: jsonarena.TagF64, F: math.Float64frombits(bits ^ acc.f)}
		acc.f = bits
		return d
	case jsonarena.TagString:
		id := uint32(v.AsStringId())
		d := ValueDelta{Tag: jsonarena.TagString, S: int32(id - acc.s)}
		acc.s = id
		return d
	case jsonarena.TagArray:
		id := uint32(v.AsArrayId())
		d := ValueDelta{Tag: jsonarena.TagArray, A: int32(id - acc.a)}
		acc.a = id
		return d
	case jsonarena.TagObject:
		id := uint32(v.AsObjectId())
		d := ValueDelta{Tag: jsonarena.TagObject, O: int32(id - acc.o)}
		acc.o = id
		return d
	default:
		panic("delta: unrecognized IValue tag")
	}
}

func (acc *valueAccumulator) unfold(d ValueDelta) jsonarena.IValue {
	switch d.Tag {
	case jsonarena.TagNull:
		return jsonarena.Null
	case jsonarena.TagBool:
		x := acc.b != d.B
		acc.b = x
		return jsonarena.Bool(x)
	case jsonarena.TagU64:
		x := acc.u + uint64(d.U)
		acc.u = x
		return jsonarena.U64(x)
	case jsonarena.TagI64:
		x := acc.i + d.I
		acc.i = x
		return jsonarena.I64(x)
	case jsonarena.TagF64:
		bits := acc.f ^ math.Float64bits(d.F)
		acc.f = bits
		return jsonarena.F64(math.Float64frombits(bits))
	case jsonarena.TagString:
		id := acc.s + uint32(d.S)
		acc.s = id
		return jsonarena.StringValue(jsonarena.StringId(id))
	case jsonarena.TagArray:
		id := acc.a + uint32(d.A)
		acc.a = id
		return jsonarena.ArrayValue(jsonarena.ArrayId(id))
	case jsonarena.TagObject:
		id := acc.o + uint32(d.O)
		acc.o = id
		return jsonarena.ObjectValue(jsonarena.ObjectId(id))
	default:
		panic("delta: unrecognized ValueDelta tag")
	}
}

// arrayAccumulator folds a whole arena of array slices against one shared
// valueAccumulator: state persists across slice boundaries, not just within
// one slice, which is what lets canonical ordering (Context.Optimize)
// improve compression across the whole arena rather than only within each
// array.
type arrayAccumulator struct{ acc valueAccumulator }

func (a *arrayAccumulator) fold(vs []jsonarena.IValue) []ValueDelta {
	out := make([]ValueDelta, len(vs))
	for i, v := range vs {
		out[i] = a.acc.fold(v)
	}
	return out
}

func (a *arrayAccumulator) unfold(ds []ValueDelta) []jsonarena.IValue {
	out := make([]jsonarena.IValue, len(ds))
	for i, d := range ds {
		out[i] = a.acc.unfold(d)
	}
	return out
}

// objectAccumulator folds a whole arena of object-entry slices. The key
// delta resets to 0 at the start of every object; the value accumulator is
// keyed by absolute KeyId so that, e.g., every object's "timestamp" field is
// delta-compared against the previously seen "timestamp" value regardless of
// which object held it, exploiting schema uniformity across the arena.
type objectAccumulator struct {
	byKey map[uint32]*valueAccumulator
}

func newObjectAccumulator() *objectAccumulator {
	return &objectAccumulator{byKey: make(map[uint32]*valueAccumulator)}
}

func (o *objectAccumulator) accFor(keyID uint32) *valueAccumulator {
	acc, ok := o.byKey[keyID]
	if !ok {
		acc = &valueAccumulator{}
		o.byKey[keyID] = acc
	}
	return acc
}

func (o *objectAccumulator) fold(entries []jsonarena.ObjectEntry) []ObjectEntryDelta {
	out := make([]ObjectEntryDelta, len(entries))
	var prevKey uint32
	for i, e := range entries {
		keyID := uint32(e.Key.StringId())
		kdiff := int32(keyID - prevKey)
		prevKey = keyID
		out[i] = ObjectEntryDelta{KeyDelta: kdiff, Value: o.accFor(keyID).fold(e.Value)}
	}
	return out
}

func (o *objectAccumulator) unfold(deltas []ObjectEntryDelta) []jsonarena.ObjectEntry {
	out := make([]jsonarena.ObjectEntry, len(deltas))
	var prevKey uint32
	for i, d := range deltas {
		keyID := prevKey + uint32(d.KeyDelta)
		prevKey = keyID
		value := o.accFor(keyID).unfold(d.Value)
		out[i] = jsonarena.ObjectEntry{Key: jsonarena.NewKeyId(jsonarena.StringId(keyID)), Value: value}
	}
	return out
}

// Encode folds c's three arenas into the delta-encoded 3-tuple. Strings are
// copied verbatim (only arrays and objects are delta-encoded); arrays share
// one accumulator across the whole arena; objects share one per-key map
// across the whole arena.
func Encode(c *jsonarena.Context) Encoded {
	strs := c.Strings()
	arrs := c.Arrays()
	objs := c.Objects()

	out := Encoded{
		Strings: append([]string(nil), strs...),
		Arrays:  make([][]ValueDelta, len(arrs)),
		Objects: make([][]ObjectEntryDelta, len(objs)),
	}

	var aa arrayAccumulator
	for i, a := range arrs {
		out.Arrays[i] = aa.fold(a)
	}

	oa := newObjectAccumulator()
	for i, o := range objs {
		out.Objects[i] = oa.fold(o)
	}

	return out
}

// Decode unfolds a delta-encoded 3-tuple back into a fresh Context whose
// arena ids exactly match the Context that produced e via Encode, so any
// handle minted against the source Context is still valid against the
// decoded one. Decode uses freshly-zeroed accumulators, as Encode did, so
// Decode(Encode(c)) reconstructs c byte-for-byte.
func Decode(e Encoded, opts ...jsonarena.Option) *jsonarena.Context {
	c := jsonarena.New(append([]jsonarena.Option{
		jsonarena.WithInitialCapacity(len(e.Strings), len(e.Arrays), len(e.Objects)),
	}, opts...)...)

	for _, s := range e.Strings {
		if s == "" {
			continue // id 0 is reserved and already interned by New
		}
		c.InternRawString(s)
	}

	var aa arrayAccumulator
	for _, arr := range e.Arrays {
		c.InternRawArray(aa.unfold(arr))
	}

	oa := newObjectAccumulator()
	for _, obj := range e.Objects {
		c.InternRawObject(oa.unfold(obj))
	}

	return c
}
