// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package structcodec

// Variant lets a Go type opt into enum-style encoding, standing in for the
// sum-type variant dispatch a language with native enums would give for
// free. VariantName reports the wire-visible label; VariantValue reports
// the payload the label wraps: nil for a unit variant, any other Go value
// for a newtype/tuple/struct variant. All four reduce to the same
// canonical shape:
//
//	unit-variant  v       -> String("v")
//	newtype/tuple/struct  -> Object{"v": <payload>}
//
// the payload's own shape (scalar, slice, or struct) is what distinguishes
// newtype from tuple from struct variants; Variant itself does not need to
// know which.
type Variant interface {
	VariantName() string
	VariantValue() any
}

// VariantTarget is the decode-side counterpart of Variant: a destination
// type implements it to accept enum-style decoding. ToValue calls SetVariant
// once with the wire-visible variant name; for a unit variant, decodePayload
// is nil. For any other variant, decodePayload decodes the wrapped payload
// into whatever out points at; call it at most once, with a pointer to the
// variant's own payload field/type.
type VariantTarget interface {
	SetVariant(name string, decodePayload func(out any) error) error
}
