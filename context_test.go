// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package jsonarena

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestEmptyContext checks that Context.New().Intern(nil) yields Null, lookup
// returns nil, and the arenas start at the sizes a fresh context should have.
func TestEmptyContext(t *testing.T) {
	c := New()

	v := c.Intern(nil)
	if v.Tag() != TagNull {
		t.Fatalf("expected TagNull, got %s", v.Tag())
	}
	if got := c.Lookup(v); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if c.ArraysLen() != 0 {
		t.Fatalf("expected empty array arena, got %d", c.ArraysLen())
	}
	if c.ObjectsLen() != 0 {
		t.Fatalf("expected empty object arena, got %d", c.ObjectsLen())
	}
	if c.StringsLen() != 1 {
		t.Fatalf("expected string arena len 1 (empty string placeholder), got %d", c.StringsLen())
	}
}

// TestDeduplication checks that repeated interning of an array with repeated
// string elements dedups strings and the array shape itself.
func TestDeduplication(t *testing.T) {
	c := New()

	v1 := c.Intern([]any{"a", "a", "a"})
	if c.StringsLen() != 2 { // "" and "a"
		t.Fatalf("expected 2 strings, got %d", c.StringsLen())
	}
	if c.ArraysLen() != 1 {
		t.Fatalf("expected 1 array, got %d", c.ArraysLen())
	}

	v2 := c.Intern([]any{"a", "a", "a"})
	if v1 != v2 {
		t.Fatalf("expected equal handles for equal arrays")
	}
	if c.StringsLen() != 2 || c.ArraysLen() != 1 {
		t.Fatalf("expected arena lengths unchanged after re-interning, got strings=%d arrays=%d", c.StringsLen(), c.ArraysLen())
	}
}

// TestNumberVariantsDistinct checks that U64, I64, and F64 never compare
// equal across variants even when numerically equal.
func TestNumberVariantsDistinct(t *testing.T) {
	c := New()

	u := c.Intern(uint64(0))
	f := c.Intern(float64(0))
	// A JSON "-0" fails the unsigned parse and lands on I64(0).
	i := c.Intern(json.Number("-0"))

	if u == f || u == i || f == i {
		t.Fatalf("expected U64(0), F64(0), I64(0) to be pairwise distinct handles")
	}
	if u.Tag() != TagU64 || f.Tag() != TagF64 || i.Tag() != TagI64 {
		t.Fatalf("unexpected tags: %s %s %s", u.Tag(), f.Tag(), i.Tag())
	}

	// Interning the JSON-decoded shape of a bare "0" twice (no sign, no
	// decimal point) produces U64(0) both times.
	u2 := c.Intern(json.Number("0"))
	if u != u2 {
		t.Fatalf("expected repeated U64(0) intern to produce the same handle")
	}
}

// TestObjectSort checks that an object's entries are sorted by KeyId
// regardless of input order, and that two independent contexts agree.
func TestObjectSort(t *testing.T) {
	for i := 0; i < 2; i++ {
		c := New()
		v := c.Intern(map[string]any{"b": uint64(1), "a": uint64(2)})

		ref := c.LookupRef(v)
		if ref.Tag() != TagObject {
			t.Fatalf("expected object tag")
		}
		entries := ref.AsObject().Entries()
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}

		keyA, _ := c.FindKey("a")
		keyB, _ := c.FindKey("b")
		if entries[0].Key != keyA || entries[1].Key != keyB {
			t.Fatalf("expected entries sorted [a, b] by KeyId")
		}
		if entries[0].Value != U64(2) || entries[1].Value != U64(1) {
			t.Fatalf("unexpected entry values: %+v", entries)
		}
	}
}

// TestMapRefGet checks that Get finds an existing field's value and returns
// false for a key that was never a field of the object.
func TestMapRefGet(t *testing.T) {
	c := New()
	v := c.Intern(map[string]any{"x": uint64(1)})
	ref := c.LookupRef(v).AsObject()

	got, ok := ref.Get("x")
	if !ok || got != U64(1) {
		t.Fatalf("expected Get(x) = Some(U64(1)), got %v, %v", got, ok)
	}

	if _, ok := ref.Get("y"); ok {
		t.Fatalf("expected Get(y) = None")
	}

	sentinelKey, ok := c.FindKey("y")
	if ok {
		t.Fatalf("did not expect FindKey(y) to succeed before y is ever interned")
	}
	if _, ok := ref.GetByKey(sentinelKey); ok {
		t.Fatalf("expected GetByKey on a sentinel key to return None")
	}
}

// TestLookupInvertsIntern checks that lookup(intern(j)) == j after
// canonicalizing object-key order (map comparison already ignores order).
func TestLookupInvertsIntern(t *testing.T) {
	c := New()
	j := map[string]any{
		"name": "example",
		"tags": []any{"a", "b", "c"},
		"count": uint64(3),
		"nested": map[string]any{
			"ok": true,
			"ratio": float64(0.5),
		},
	}

	v := c.Intern(j)
	got := c.Lookup(v)

	if diff := cmp.Diff(j, got); diff != "" {
		t.Fatalf("lookup(intern(j)) mismatch (-want +got):\n%s", diff)
	}
}

// TestStructuralDedup checks that equal JSON trees (modulo key order and
// last-key-wins on duplicates) produce equal handles.
func TestStructuralDedup(t *testing.T) {
	c := New()

	a := c.Intern(map[string]any{"x": uint64(1), "y": uint64(2)})
	b := c.Intern(map[string]any{"y": uint64(2), "x": uint64(1)})
	if a != b {
		t.Fatalf("expected key-order-independent dedup")
	}

	entries := []ObjectEntry{
		{Key: NewKeyId(c.internString("k")), Value: U64(1)},
		{Key: NewKeyId(c.internString("k")), Value: U64(2)},
	}
	id := c.InternObjectEntries(entries)
	want := c.Intern(map[string]any{"k": uint64(2)})
	if ObjectValue(id) != want {
		t.Fatalf("expected duplicate key to collapse to last-write-wins")
	}
}

// TestDeterministicAcrossContexts checks that two independent contexts
// produce equal arena contents (observed via equal handles and lookups)
// after interning the same JSON.
func TestDeterministicAcrossContexts(t *testing.T) {
	j := []any{"a", map[string]any{"k": uint64(1)}, uint64(2)}

	c1 := New()
	c2 := New()

	v1 := c1.Intern(j)
	v2 := c2.Intern(j)

	if v1 != v2 {
		t.Fatalf("expected identical handles from independent contexts")
	}
	if diff := cmp.Diff(c1.Lookup(v1), c2.Lookup(v2)); diff != "" {
		t.Fatalf("lookup mismatch across contexts (-c1 +c2):\n%s", diff)
	}
}

func TestInternRefMatchesIntern(t *testing.T) {
	c := New()
	j := map[string]any{"a": []any{uint64(1), uint64(2)}, "b": "hi"}

	v1 := c.Intern(j)
	v2 := c.InternRef(j)
	if v1 != v2 {
		t.Fatalf("expected Intern and InternRef to produce identical handles")
	}
}

func TestOutOfRangeHandlePanics(t *testing.T) {
	c := New()
	forged := StringValue(StringId(999))

	defer func() {
		if recover() == nil {
			t.Fatalf("expected Lookup on a forged handle to panic")
		}
	}()
	c.Lookup(forged)
}

func TestSizeOfReflectsContent(t *testing.T) {
	c := New()
	c.Intern(map[string]any{"k": "a rather long string value here"})
	sizes := c.SizeOf()
	if sizes.Strings == 0 || sizes.Objects == 0 {
		t.Fatalf("expected non-zero size introspection, got %+v", sizes)
	}
}
