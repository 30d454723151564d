// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package jsonarena

import "fmt"

// ErrorCode classifies a misuse of the jsonarena API. Interning of
// JSON-shaped values and lookup against valid handles are infallible; these
// codes only ever surface when a handle from the wrong Context (or minted
// after an in-flight Optimize snapshot) is used, or when Intern is handed a
// value of an unsupported type. Both are programmer errors.
type ErrorCode string

const (
	// WrongContextErr indicates a handle or KeyId was looked up against a
	// Context that did not intern it.
	WrongContextErr ErrorCode = "wrong_context"

	// OutOfRangeErr indicates a handle references an id beyond the arena's
	// current length. This cannot happen for a handle that was legitimately
	// produced by Intern against the same Context.
	OutOfRangeErr ErrorCode = "out_of_range"

	// UnsupportedTypeErr indicates Intern was handed a Go value outside the
	// JSON-shaped set it accepts (nil, bool, the numeric kinds, json.Number,
	// string, []any, map[string]any).
	UnsupportedTypeErr ErrorCode = "unsupported_type"
)

// Error is the uniform error type for jsonarena API misuse.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonarena: %s: %s", e.Code, e.Message)
}

func newOutOfRangeError(kind string, id uint32, length uint32) *Error {
	return &Error{
		Code:    OutOfRangeErr,
		Message: fmt.Sprintf("%s id %d is out of range (arena len %d)", kind, id, length),
	}
}
