// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package jsonarena

import "sigs.k8s.io/yaml"

// FromYAML decodes a YAML document and interns the result into c, for
// callers that hold YAML bytes rather than an already-parsed JSON tree. It
// goes through sigs.k8s.io/yaml for YAML<->JSON conversion. sigs.k8s.io/yaml
// decodes numbers as plain float64 rather than json.Number, so YAML integers
// always land on the F64 variant rather than U64/I64, a known fidelity
// tradeoff of the convenience path; callers that need integers classified
// as U64/I64 should parse YAML into JSON bytes themselves and decode those
// with encoding/json's UseNumber option before calling Intern.
func FromYAML(c *Context, data []byte) (IValue, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Null, err
	}
	return c.Intern(v), nil
}
