// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package jsonarena

// permutation is rev[oldId] = newId for one arena kind. It is represented
// either as an explicit slice or, when the permutation is the identity, as
// a bare length, so that a no-op Optimize never has to materialize a
// trivial 0..n permutation.
type permutation struct {
	identity bool
	length   uint32
	rev      []uint32
}

func identityPermutation(length uint32) permutation {
	return permutation{identity: true, length: length}
}

func mapPermutation(rev []uint32) permutation {
	return permutation{length: uint32(len(rev)), rev: rev}
}

func (p permutation) at(oldID uint32) uint32 {
	if p.identity {
		return oldID
	}
	return p.rev[oldID]
}

func (p permutation) isIdentity() bool { return p.identity }

func (p permutation) countRemapped() int {
	if p.identity {
		return 0
	}
	n := 0
	for i, j := range p.rev {
		if uint32(i) != j {
			n++
		}
	}
	return n
}

// compose returns the permutation equivalent to applying p, then other:
// composed.at(i) = other.at(p.at(i)).
func (p permutation) compose(other permutation) permutation {
	if p.identity && other.identity {
		return p
	}
	out := make([]uint32, p.length)
	for i := uint32(0); i < p.length; i++ {
		out[i] = other.at(p.at(i))
	}
	return mapPermutation(out)
}

// Mapping translates handles minted against a source Context into handles
// valid against the Context Optimize produced from it: a per-kind
// permutation of ids plus the lifting (Map) that rewrites an IValue through
// it.
type Mapping struct {
	strings permutation
	arrays  permutation
	objects permutation
}

func identityMapping(numStrings, numArrays, numObjects uint32) Mapping {
	return Mapping{
		strings: identityPermutation(numStrings),
		arrays:  identityPermutation(numArrays),
		objects: identityPermutation(numObjects),
	}
}

// IsIdentity reports whether this mapping changes no ids at all.
func (m Mapping) IsIdentity() bool {
	return m.strings.isIdentity() && m.arrays.isIdentity() && m.objects.isIdentity()
}

// CountRemappedStrings reports how many string ids this mapping changes.
func (m Mapping) CountRemappedStrings() int { return m.strings.countRemapped() }

// CountRemappedArrays reports how many array ids this mapping changes.
func (m Mapping) CountRemappedArrays() int { return m.arrays.countRemapped() }

// CountRemappedObjects reports how many object ids this mapping changes.
func (m Mapping) CountRemappedObjects() int { return m.objects.countRemapped() }

// MapStringId translates a StringId from the source Context to the
// destination Context.
func (m Mapping) MapStringId(id StringId) StringId {
	return StringId(m.strings.at(uint32(id)))
}

// MapKeyId translates a KeyId from the source Context to the destination
// Context.
func (m Mapping) MapKeyId(k KeyId) KeyId {
	return NewKeyId(m.MapStringId(k.StringId()))
}

// MapArrayId translates an ArrayId from the source Context to the
// destination Context.
func (m Mapping) MapArrayId(id ArrayId) ArrayId {
	return ArrayId(m.arrays.at(uint32(id)))
}

// MapObjectId translates an ObjectId from the source Context to the
// destination Context.
func (m Mapping) MapObjectId(id ObjectId) ObjectId {
	return ObjectId(m.objects.at(uint32(id)))
}

// Map rewrites an IValue minted against the source Context into the
// equivalent handle for the destination Context, preserving its variant.
func (m Mapping) Map(v IValue) IValue {
	switch v.Tag() {
	case TagString:
		return StringValue(m.MapStringId(v.AsStringId()))
	case TagArray:
		return ArrayValue(m.MapArrayId(v.AsArrayId()))
	case TagObject:
		return ObjectValue(m.MapObjectId(v.AsObjectId()))
	default:
		return v
	}
}

// Compose returns the mapping equivalent to applying m, then other:
// m.Compose(other).Map(h) == other.Map(m.Map(h)) for every handle h in the
// id space m operates over.
func (m Mapping) Compose(other Mapping) Mapping {
	return Mapping{
		strings: m.strings.compose(other.strings),
		arrays:  m.arrays.compose(other.arrays),
		objects: m.objects.compose(other.objects),
	}
}
