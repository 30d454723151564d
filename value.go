// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package jsonarena interns hierarchical JSON-shaped values into a compact,
// content-addressed form. Strings, array shapes, and object shapes are each
// deduplicated in their own arena and referenced by dense 32-bit ids; a
// document becomes a fixed-size, copy-by-value handle (IValue) into those
// arenas rather than a tree of pointers.
package jsonarena

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Tag identifies the variant held by an IValue.
type Tag uint8

const (
	// TagNull is the zero value of IValue.
	TagNull Tag = iota
	TagBool
	TagU64
	TagI64
	TagF64
	TagString
	TagArray
	TagObject
)

func (t Tag) String() string {
	switch t {
	case TagNull:
		return "null"
	case TagBool:
		return "bool"
	case TagU64:
		return "u64"
	case TagI64:
		return "i64"
	case TagF64:
		return "f64"
	case TagString:
		return "string"
	case TagArray:
		return "array"
	case TagObject:
		return "object"
	default:
		return "unknown"
	}
}

// IValue is a tagged, copy-by-value handle referring to an interned JSON
// value. It is 12 bytes in spirit (a one-byte tag plus an eight-byte
// payload); Go rounds the struct up but never grows past 16 bytes, so
// IValue remains cheap to pass and compare by value.
//
// IValue is totally ordered: the tag compares first, then the payload as an
// unsigned 64-bit integer. This makes floats order by their IEEE-754 bit
// pattern rather than by numeric value, so NaN compares equal to itself and
// -0 does not equal +0, the tradeoff that keeps IValue usable as a map or
// tree key (see Compare).
type IValue struct {
	tag     Tag
	payload uint64
}

// Null is the canonical null value. It is also IValue's zero value.
var Null = IValue{tag: TagNull}

// Bool returns the IValue for a boolean.
func Bool(b bool) IValue {
	if b {
		return IValue{tag: TagBool, payload: 1}
	}
	return IValue{tag: TagBool, payload: 0}
}

// U64 returns the IValue for an unsigned 64-bit integer.
func U64(x uint64) IValue {
	return IValue{tag: TagU64, payload: x}
}

// I64 returns the IValue for a signed 64-bit integer.
func I64(x int64) IValue {
	return IValue{tag: TagI64, payload: uint64(x)}
}

// F64 returns the IValue for a 64-bit float.
func F64(x float64) IValue {
	return IValue{tag: TagF64, payload: math.Float64bits(x)}
}

// StringValue returns the IValue referencing a string arena entry.
func StringValue(id StringId) IValue {
	return IValue{tag: TagString, payload: uint64(id)}
}

// ArrayValue returns the IValue referencing an array arena entry.
func ArrayValue(id ArrayId) IValue {
	return IValue{tag: TagArray, payload: uint64(id)}
}

// ObjectValue returns the IValue referencing an object arena entry.
func ObjectValue(id ObjectId) IValue {
	return IValue{tag: TagObject, payload: uint64(id)}
}

// Tag reports which variant v holds.
func (v IValue) Tag() Tag { return v.tag }

// IsNull reports whether v is the null variant.
func (v IValue) IsNull() bool { return v.tag == TagNull }

// AsBool returns the boolean payload. Calling it on a non-bool IValue
// returns a meaningless result; callers must check Tag first.
func (v IValue) AsBool() bool { return v.payload != 0 }

// AsU64 returns the unsigned-integer payload.
func (v IValue) AsU64() uint64 { return v.payload }

// AsI64 returns the signed-integer payload.
func (v IValue) AsI64() int64 { return int64(v.payload) }

// AsF64 returns the float payload.
func (v IValue) AsF64() float64 { return math.Float64frombits(v.payload) }

// AsStringId returns the string-arena id payload.
func (v IValue) AsStringId() StringId { return StringId(v.payload) }

// AsArrayId returns the array-arena id payload.
func (v IValue) AsArrayId() ArrayId { return ArrayId(v.payload) }

// AsObjectId returns the object-arena id payload.
func (v IValue) AsObjectId() ObjectId { return ObjectId(v.payload) }

// Compare implements the total order described on IValue: tag
// first, then payload as an unsigned integer. It returns -1, 0, or 1.
func (v IValue) Compare(other IValue) int {
	if v.tag != other.tag {
		if v.tag < other.tag {
			return -1
		}
		return 1
	}
	if v.payload != other.payload {
		if v.payload < other.payload {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports whether v sorts before other under Compare.
func (v IValue) Less(other IValue) bool { return v.Compare(other) < 0 }

// hash combines the tag and payload into a single digest using xxhash, the
// same hashing primitive the arenas use to content-address array and object
// slices (see internal/arena).
func (v IValue) hash() uint64 {
	var buf [9]byte
	buf[0] = byte(v.tag)
	binary.LittleEndian.PutUint64(buf[1:], v.payload)
	return xxhash.Sum64(buf[:])
}

// hashIValues hashes a slice of IValue for array-arena content addressing.
func hashIValues(vs []IValue) uint64 {
	if len(vs) == 0 {
		return xxhash.Sum64(nil)
	}
	d := xxhash.New()
	var buf [9]byte
	for _, v := range vs {
		buf[0] = byte(v.tag)
		binary.LittleEndian.PutUint64(buf[1:], v.payload)
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// hashEntries hashes a slice of ObjectEntry for object-arena content
// addressing.
func hashEntries(es []ObjectEntry) uint64 {
	if len(es) == 0 {
		return xxhash.Sum64(nil)
	}
	d := xxhash.New()
	var buf [13]byte
	for _, e := range es {
		binary.LittleEndian.PutUint32(buf[0:], uint32(e.Key.id))
		buf[4] = byte(e.Value.tag)
		binary.LittleEndian.PutUint64(buf[5:], e.Value.payload)
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
