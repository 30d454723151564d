// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package jsonarena

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// FromJSONBytes decodes a JSON document with json.Number enabled and interns
// the result into c, for callers that hold raw JSON bytes rather than an
// already-parsed tree. It uses a *json.Decoder with UseNumber() set, so
// integers are classified as U64/I64 instead of collapsing to F64 the way
// FromYAML's plain interface{} decode does.
//
// It rejects trailing data after the first top-level value: a second value
// silently ignored would be a surprising footgun for callers handing us a
// whole file's contents.
func FromJSONBytes(c *Context, data []byte) (IValue, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var v any
	if err := decoder.Decode(&v); err != nil {
		return Null, err
	}

	if _, err := decoder.Token(); err != io.EOF {
		if err != nil {
			return Null, err
		}
		return Null, fmt.Errorf("jsonarena: invalid character after top-level value")
	}

	return c.Intern(v), nil
}
