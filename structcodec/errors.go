// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package structcodec is the generic structured conversion layer: it
// projects arbitrary Go values through jsonarena's interning surface
// via reflection, following encoding/json's own struct-tag convention
// (`jsonarena:"name,omitempty"`, falling back to `json`, then the field
// name) rather than inventing a new one.
//
// FromValue converts a Go value into a JSON-ish tree (the same
// nil/bool/int64/uint64/float64/string/[]any/map[string]any shape
// jsonarena.Context.Intern already accepts) and hands it to Intern, so the
// scalar/number classification rule in jsonarena stays the single source of
// truth. ToValue is the converse: it materializes the handle back into that
// tree via Context.Lookup and decodes the tree into the destination type
// with reflection.
package structcodec

import "fmt"

// ErrorKind classifies a structured-conversion failure.
type ErrorKind string

const (
	// InvalidType means the shape of an IValue did not match what the
	// destination type required.
	InvalidType ErrorKind = "invalid_type"
	// InvalidLength means a tuple/array length mismatch, or an enum object
	// without exactly one entry.
	InvalidLength ErrorKind = "invalid_length"
	// UnsupportedKey means a map key failed to reduce to a string.
	UnsupportedKey ErrorKind = "unsupported_key"
	// Custom is a passthrough for caller-supplied messages.
	Custom ErrorKind = "custom"
)

// Error is the uniform error type surfaced by FromValue/ToValue.
type Error struct {
	Kind     ErrorKind
	Found    string
	Expected string
	Message  string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("invalid type: found %s, expected %s", e.Found, e.Expected)
}

func errInvalidType(found, expected string) *Error {
	return &Error{Kind: InvalidType, Found: found, Expected: expected}
}

func errInvalidLength(found, expected int) *Error {
	return &Error{
		Kind:    InvalidLength,
		Message: fmt.Sprintf("invalid length %d, expected tuple with %d elements", found, expected),
	}
}

func errUnsupportedKey() *Error {
	return &Error{
		Kind:    UnsupportedKey,
		Message: "object key must be a string, unit variant, or newtype/option of those",
	}
}

func errCustom(format string, args ...any) *Error {
	return &Error{Kind: Custom, Message: fmt.Sprintf(format, args...)}
}
