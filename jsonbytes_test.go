// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package jsonarena

import "testing"

func TestFromJSONBytesClassifiesNumbersPerRule(t *testing.T) {
	c := New()
	v, err := FromJSONBytes(c, []byte(`{"count": 3, "ratio": 0.5, "neg": -7}`))
	if err != nil {
		t.Fatalf("FromJSONBytes: %v", err)
	}

	ref := c.LookupRef(v).AsObject()

	count, ok := ref.Get("count")
	if !ok || count.Tag() != TagU64 || count.AsU64() != 3 {
		t.Fatalf("expected count = U64(3), got %+v ok=%v", count, ok)
	}

	ratio, ok := ref.Get("ratio")
	if !ok || ratio.Tag() != TagF64 || ratio.AsF64() != 0.5 {
		t.Fatalf("expected ratio = F64(0.5), got %+v ok=%v", ratio, ok)
	}

	neg, ok := ref.Get("neg")
	if !ok || neg.Tag() != TagI64 || neg.AsI64() != -7 {
		t.Fatalf("expected neg = I64(-7), got %+v ok=%v", neg, ok)
	}
}

func TestFromJSONBytesRejectsTrailingData(t *testing.T) {
	c := New()
	_, err := FromJSONBytes(c, []byte(`{"a":1} garbage`))
	if err == nil {
		t.Fatalf("expected an error for trailing data after the top-level value")
	}
}

func TestFromJSONBytesRejectsMalformedInput(t *testing.T) {
	c := New()
	_, err := FromJSONBytes(c, []byte(`{"a":`))
	if err == nil {
		t.Fatalf("expected an error decoding malformed JSON")
	}
}
