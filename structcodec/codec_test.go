// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package structcodec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/jsonarena/jsonarena"
)

type simpleStruct struct {
	A bool    `jsonarena:"a"`
	B int32   `jsonarena:"b"`
	C uint64  `jsonarena:"c"`
	F float32 `jsonarena:"d"`
	E *string `jsonarena:"e,omitempty"`
	Name string `json:"f"`
	Tags []string `jsonarena:"g"`
}

// barVariant is a hand-rolled enum-like type with variants
// First/Second(u32,i64)/Third{i,j}.
type barVariant struct {
	name  string
	value any
}

func (b barVariant) VariantName() string { return b.name }
func (b barVariant) VariantValue() any   { return b.value }

type barTuple struct {
	X uint32
	Y int64
}

type barStruct struct {
	I string `jsonarena:"i"`
	J []byte `jsonarena:"j"`
}

type barTarget struct {
	name string
	x    uint32
	y    int64
	i    string
	j    []byte
}

func (b *barTarget) SetVariant(name string, decodePayload func(out any) error) error {
	b.name = name
	switch name {
	case "First":
		return nil
	case "Second":
		var tuple [2]int64
		if err := decodePayload(&tuple); err != nil {
			return err
		}
		b.x, b.y = uint32(tuple[0]), tuple[1]
		return nil
	case "Third":
		var s barStruct
		if err := decodePayload(&s); err != nil {
			return err
		}
		b.i, b.j = s.I, s.J
		return nil
	default:
		return errCustom("unknown variant %q", name)
	}
}

func TestFromValueStruct(t *testing.T) {
	c := jsonarena.New()
	s := simpleStruct{A: true, B: -7, C: 42, F: 1.5, Name: "hi", Tags: []string{"x", "y"}}

	iv, err := FromValue(s, c)
	require.NoError(t, err)

	tree := c.Lookup(iv).(map[string]any)
	require.Equal(t, true, tree["a"])
	require.Equal(t, int64(-7), tree["b"])
	require.Equal(t, uint64(42), tree["c"])
	require.Equal(t, "hi", tree["f"])
	if _, ok := tree["e"]; ok {
		t.Fatalf("expected omitempty nil pointer field to be dropped")
	}
	if diff := cmp.Diff([]any{"x", "y"}, tree["g"]); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripStruct(t *testing.T) {
	c := jsonarena.New()
	s := simpleStruct{A: true, B: -7, C: 42, F: 1.5, Name: "hi", Tags: []string{"x", "y"}}

	iv, err := FromValue(s, c)
	require.NoError(t, err)

	got, err := ToValue[simpleStruct](iv, c)
	require.NoError(t, err)

	if diff := cmp.Diff(s, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUnitVariantEncoding(t *testing.T) {
	c := jsonarena.New()
	iv, err := FromValue(barVariant{name: "First"}, c)
	require.NoError(t, err)

	if iv.Tag() != jsonarena.TagString {
		t.Fatalf("expected unit variant to encode as a string, got tag %s", iv.Tag())
	}
	if got := c.Lookup(iv); got != "First" {
		t.Fatalf("expected String(\"First\"), got %v", got)
	}
}

func TestTupleAndStructVariantEncoding(t *testing.T) {
	c := jsonarena.New()

	tupleVariant := barVariant{name: "Second", value: []any{uint64(0x87654321), int64(-0x123456789abcdef0)}}
	iv, err := FromValue(tupleVariant, c)
	require.NoError(t, err)
	tree := c.Lookup(iv).(map[string]any)
	if _, ok := tree["Second"]; !ok {
		t.Fatalf("expected tuple-variant to wrap under its name, got %+v", tree)
	}

	structVariant := barVariant{name: "Third", value: barStruct{I: "Hello", J: []byte{1, 2, 3, 4}}}
	iv2, err := FromValue(structVariant, c)
	require.NoError(t, err)
	tree2 := c.Lookup(iv2).(map[string]any)
	inner, ok := tree2["Third"].(map[string]any)
	if !ok {
		t.Fatalf("expected struct-variant payload to be an object, got %+v", tree2)
	}
	if inner["i"] != "Hello" {
		t.Fatalf("expected nested field i = Hello, got %+v", inner)
	}
}

// TestEnumRoundTrip checks that encoding Second(42, -7) produces
// Object{"Second": [42, -7]}, and VariantTarget-based decoding recovers it.
func TestEnumRoundTrip(t *testing.T) {
	c := jsonarena.New()

	original := barVariant{name: "Second", value: []any{uint64(42), int64(-7)}}
	iv, err := FromValue(original, c)
	require.NoError(t, err)

	tree := c.Lookup(iv).(map[string]any)
	if diff := cmp.Diff(map[string]any{"Second": []any{uint64(42), int64(-7)}}, tree); diff != "" {
		t.Fatalf("Second(42, -7) encoding mismatch (-want +got):\n%s", diff)
	}

	got, err := ToValue[barTarget](iv, c)
	require.NoError(t, err)
	require.Equal(t, "Second", got.name)
	require.Equal(t, uint32(42), got.x)
	require.Equal(t, int64(-7), got.y)

	unitVariant, err := FromValue(barVariant{name: "First"}, c)
	require.NoError(t, err)
	unitGot, err := ToValue[barTarget](unitVariant, c)
	require.NoError(t, err)
	require.Equal(t, "First", unitGot.name)
}

func TestBytesEncodeAsByteArray(t *testing.T) {
	c := jsonarena.New()
	iv, err := FromValue([]byte{1, 2, 3, 4}, c)
	require.NoError(t, err)
	if iv.Tag() != jsonarena.TagArray {
		t.Fatalf("expected bytes to encode as an array, got tag %s", iv.Tag())
	}
	got := c.Lookup(iv).([]any)
	require.Equal(t, []any{uint64(1), uint64(2), uint64(3), uint64(4)}, got)
}

func TestMapKeyEnumRoundTrip(t *testing.T) {
	c := jsonarena.New()
	original := map[string]uint32{"First": 1, "Second": 2, "Third": 3}

	iv, err := FromValue(original, c)
	require.NoError(t, err)

	got, err := ToValue[map[string]uint32](iv, c)
	require.NoError(t, err)
	if diff := cmp.Diff(original, got); diff != "" {
		t.Fatalf("map round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUnsupportedMapKeyFails(t *testing.T) {
	c := jsonarena.New()
	_, err := FromValue(map[int]string{1: "a"}, c)
	if err == nil {
		t.Fatalf("expected an error encoding an int-keyed map")
	}
	var codecErr *Error
	if !asError(err, &codecErr) || codecErr.Kind != UnsupportedKey {
		t.Fatalf("expected UnsupportedKey error, got %v", err)
	}
}

func TestTupleLengthMismatchFails(t *testing.T) {
	c := jsonarena.New()
	iv := c.Intern([]any{uint64(1), uint64(2), uint64(3)})

	_, err := ToValue[[2]uint64](iv, c)
	if err == nil {
		t.Fatalf("expected a length-mismatch error")
	}
	var codecErr *Error
	if !asError(err, &codecErr) || codecErr.Kind != InvalidLength {
		t.Fatalf("expected InvalidLength error, got %v", err)
	}
}

func TestFloatDestinationRejectsIntegerSource(t *testing.T) {
	c := jsonarena.New()
	iv := c.Intern(uint64(5))

	_, err := ToValue[float64](iv, c)
	if err == nil {
		t.Fatalf("expected float destination to reject a U64 source")
	}
}

func asError(err error, target **Error) bool {
	if e, ok := err.(*Error); ok {
		*target = e
		return true
	}
	return false
}
