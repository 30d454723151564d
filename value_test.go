// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package jsonarena

import (
	"math"
	"testing"
)

func TestIValueTotalOrder(t *testing.T) {
	values := []IValue{Null, Bool(false), Bool(true), U64(1), I64(-1), F64(1.5)}
	for i := range values {
		for j := range values {
			want := values[i].Compare(values[j])
			got := -values[j].Compare(values[i])
			if want != got {
				t.Fatalf("Compare not antisymmetric for %d,%d: %d vs %d", i, j, want, got)
			}
		}
	}
}

// TestFloatBitwiseOrdering checks that NaN compares equal to itself and -0
// does not equal +0, since IValue orders floats by bit pattern rather than
// IEEE semantics.
func TestFloatBitwiseOrdering(t *testing.T) {
	nan := F64(math.NaN())
	if nan.Compare(nan) != 0 {
		t.Fatalf("expected NaN to compare equal to itself under bitwise ordering")
	}

	posZero := F64(0.0)
	negZero := F64(math.Copysign(0, -1))
	if posZero == negZero {
		t.Fatalf("expected +0 and -0 to be distinct IValues under bitwise ordering")
	}
}

func TestIValueLess(t *testing.T) {
	if !Null.Less(Bool(false)) {
		t.Fatalf("expected Null to sort before Bool by tag order")
	}
	if !U64(1).Less(U64(2)) {
		t.Fatalf("expected U64(1) < U64(2)")
	}
	if U64(2).Less(U64(1)) {
		t.Fatalf("expected U64(2) to not be less than U64(1)")
	}
}

func TestKeyIdOrdering(t *testing.T) {
	a := NewKeyId(StringId(1))
	b := NewKeyId(StringId(2))
	if !a.Less(b) || b.Less(a) {
		t.Fatalf("expected KeyId ordering to follow the underlying StringId")
	}
}
