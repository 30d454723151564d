// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package structcodec

import (
	"fmt"
	"reflect"

	"github.com/jsonarena/jsonarena"
)

// FromValue converts v into an IValue, interning through c. bool, the
// integer and float kinds, string, bytes, pointers (none/some),
// slices/arrays (seq/tuple), maps and structs (map/struct), and any type
// implementing Variant (unit/newtype/tuple/struct-variant) are each given
// their own canonical treatment.
func FromValue(v any, c *jsonarena.Context) (jsonarena.IValue, error) {
	tree, err := toTree(reflect.ValueOf(v))
	if err != nil {
		return jsonarena.Null, err
	}
	return c.Intern(tree), nil
}

// toTree projects rv into the any-shaped JSON tree jsonarena.Context.Intern
// already knows how to fold (nil, bool, int64, uint64, float64, string,
// []any, map[string]any). Keeping the scalar/number classification inside
// Intern, rather than duplicating it here, keeps that rule defined in
// exactly one place.
func toTree(rv reflect.Value) (any, error) {
	if !rv.IsValid() {
		return nil, nil
	}

	if rv.CanInterface() {
		if variant, ok := rv.Interface().(Variant); ok {
			return variantToTree(variant)
		}
	}

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Ptr:
		if rv.IsNil() {
			return nil, nil // none -> Null
		}
		return toTree(rv.Elem()) // some(x) -> x
	case reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return toTree(rv.Elem())
	case reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
		return sliceToTree(rv)
	case reflect.Array:
		return sliceToTree(rv)
	case reflect.Map:
		return mapToTree(rv)
	case reflect.Struct:
		return structToTree(rv)
	default:
		return nil, errCustom("structcodec: cannot encode kind %s", rv.Kind())
	}
}

func variantToTree(v Variant) (any, error) {
	name := v.VariantName()
	payload := v.VariantValue()
	if payload == nil {
		return name, nil // unit-variant -> String(name)
	}
	inner, err := toTree(reflect.ValueOf(payload))
	if err != nil {
		return nil, err
	}
	return map[string]any{name: inner}, nil
}

// sliceToTree handles both ordinary sequences (seq/tuple/tuple-struct) and
// the bytes special case: []byte (and [N]byte) is stored as an Array of
// per-byte U64.
func sliceToTree(rv reflect.Value) (any, error) {
	n := rv.Len()
	out := make([]any, n)
	for i := 0; i < n; i++ {
		v, err := toTree(rv.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func mapToTree(rv reflect.Value) (any, error) {
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, err := keyToString(iter.Key())
		if err != nil {
			return nil, err
		}
		val, err := toTree(iter.Value())
		if err != nil {
			return nil, err
		}
		out[key] = val
	}
	return out, nil
}

// keyToString reduces a map key to the string jsonarena's object model
// requires: string, unit-variant, or a newtype-struct/option wrapping one
// of those.
func keyToString(rv reflect.Value) (string, error) {
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", errUnsupportedKey()
		}
		rv = rv.Elem()
	}
	if rv.CanInterface() {
		if variant, ok := rv.Interface().(Variant); ok {
			if variant.VariantValue() != nil {
				return "", errUnsupportedKey()
			}
			return variant.VariantName(), nil
		}
	}
	if rv.Kind() == reflect.String {
		return rv.String(), nil
	}
	// A single-field struct (newtype-struct) wrapping a string-like value.
	if rv.Kind() == reflect.Struct && rv.NumField() == 1 {
		return keyToString(rv.Field(0))
	}
	return "", errUnsupportedKey()
}

func structToTree(rv reflect.Value) (any, error) {
	fields := fieldsOf(rv.Type())
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		fv := rv.FieldByIndex(f.index)
		if f.omitEmpty && fv.IsZero() {
			continue
		}
		v, err := toTree(fv)
		if err != nil {
			return nil, fmt.Errorf("structcodec: field %q: %w", f.name, err)
		}
		out[f.name] = v
	}
	return out, nil
}
