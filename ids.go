// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package jsonarena

// StringId addresses a deduplicated string in the string arena. Id 0 always
// denotes the empty string.
type StringId uint32

// ArrayId addresses a deduplicated []IValue slice in the array arena.
type ArrayId uint32

// ObjectId addresses a deduplicated []ObjectEntry slice in the object
// arena.
type ObjectId uint32

// KeyId wraps a StringId to mark it as having been used as an object key.
// It exists as its own type (rather than a bare StringId) so that object
// entry keys can't be confused with plain string references.
type KeyId struct {
	id StringId
}

// NewKeyId wraps a StringId as a KeyId.
func NewKeyId(id StringId) KeyId { return KeyId{id: id} }

// StringId unwraps the KeyId back to the underlying string arena id.
func (k KeyId) StringId() StringId { return k.id }

// Less orders KeyIds by their underlying numeric StringId, which is what
// object entries are sorted and binary-searched by.
func (k KeyId) Less(other KeyId) bool { return k.id < other.id }

// ObjectEntry is one (key, value) pair of an interned object, addressed by
// KeyId rather than by the key text itself.
type ObjectEntry struct {
	Key   KeyId
	Value IValue
}
