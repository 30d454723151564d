// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package structcodec

import (
	"reflect"

	"github.com/jsonarena/jsonarena"
)

// ToValue materializes iv (looked up against c) and decodes it into T. The
// destination's flexibility rules: an enum destination (one implementing
// VariantTarget) accepts either a String (unit variant) or
// a single-entry Object (any other variant); integer destinations accept
// either I64 or U64 regardless of requested width; float destinations
// accept F64 only; struct destinations accept either Array (positional) or
// Object (named) and the decoder tries both.
func ToValue[T any](iv jsonarena.IValue, c *jsonarena.Context) (T, error) {
	var out T
	tree := c.Lookup(iv)
	if err := decodeInto(reflect.ValueOf(&out).Elem(), tree); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func decodeInto(dst reflect.Value, tree any) error {
	if dst.CanAddr() {
		if target, ok := dst.Addr().Interface().(VariantTarget); ok {
			return decodeVariant(target, tree)
		}
	}

	if dst.Kind() == reflect.Interface && dst.NumMethod() == 0 {
		if tree == nil {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		dst.Set(reflect.ValueOf(tree))
		return nil
	}

	if dst.Kind() == reflect.Ptr {
		if tree == nil {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return decodeInto(dst.Elem(), tree)
	}

	switch dst.Kind() {
	case reflect.Bool:
		b, ok := tree.(bool)
		if !ok {
			return errInvalidType(kindOf(tree), "bool")
		}
		dst.SetBool(b)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch x := tree.(type) {
		case int64:
			dst.SetInt(x)
		case uint64:
			dst.SetInt(int64(x))
		default:
			return errInvalidType(kindOf(tree), "i64 or u64")
		}
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		switch x := tree.(type) {
		case uint64:
			dst.SetUint(x)
		case int64:
			dst.SetUint(uint64(x))
		default:
			return errInvalidType(kindOf(tree), "i64 or u64")
		}
		return nil

	case reflect.Float32, reflect.Float64:
		f, ok := tree.(float64)
		if !ok {
			return errInvalidType(kindOf(tree), "f64")
		}
		dst.SetFloat(f)
		return nil

	case reflect.String:
		s, ok := tree.(string)
		if !ok {
			return errInvalidType(kindOf(tree), "string")
		}
		dst.SetString(s)
		return nil

	case reflect.Slice:
		return decodeSlice(dst, tree)

	case reflect.Array:
		return decodeArray(dst, tree)

	case reflect.Map:
		return decodeMap(dst, tree)

	case reflect.Struct:
		return decodeStruct(dst, tree)

	default:
		return errCustom("structcodec: cannot decode into kind %s", dst.Kind())
	}
}

func decodeVariant(target VariantTarget, tree any) error {
	switch x := tree.(type) {
	case string:
		return target.SetVariant(x, nil)
	case map[string]any:
		if len(x) != 1 {
			return errInvalidLength(len(x), 1)
		}
		for name, payload := range x {
			return target.SetVariant(name, func(out any) error {
				return decodeInto(reflect.ValueOf(out).Elem(), payload)
			})
		}
		return nil
	default:
		return errInvalidType(kindOf(tree), "string or single-entry object")
	}
}

func decodeSlice(dst reflect.Value, tree any) error {
	elemType := dst.Type().Elem()
	if elemType.Kind() == reflect.Uint8 {
		if bytes, ok := bytesFromTree(tree); ok {
			dst.SetBytes(bytes)
			return nil
		}
	}
	items, ok := tree.([]any)
	if !ok {
		return errInvalidType(kindOf(tree), "array")
	}
	out := reflect.MakeSlice(dst.Type(), len(items), len(items))
	for i, item := range items {
		if err := decodeInto(out.Index(i), item); err != nil {
			return err
		}
	}
	dst.Set(out)
	return nil
}

// decodeArray decodes into a fixed-size destination (a tuple/tuple-variant
// payload or a fixed-size struct field): the wire-level length must match
// exactly.
func decodeArray(dst reflect.Value, tree any) error {
	elemType := dst.Type().Elem()
	if elemType.Kind() == reflect.Uint8 {
		if bytes, ok := bytesFromTree(tree); ok {
			if len(bytes) != dst.Len() {
				return errInvalidLength(len(bytes), dst.Len())
			}
			reflect.Copy(dst, reflect.ValueOf(bytes))
			return nil
		}
	}
	items, ok := tree.([]any)
	if !ok {
		return errInvalidType(kindOf(tree), "array")
	}
	if len(items) != dst.Len() {
		return errInvalidLength(len(items), dst.Len())
	}
	for i, item := range items {
		if err := decodeInto(dst.Index(i), item); err != nil {
			return err
		}
	}
	return nil
}

func bytesFromTree(tree any) ([]byte, bool) {
	items, ok := tree.([]any)
	if !ok {
		return nil, false
	}
	out := make([]byte, len(items))
	for i, item := range items {
		switch x := item.(type) {
		case uint64:
			out[i] = byte(x)
		case int64:
			out[i] = byte(x)
		default:
			return nil, false
		}
	}
	return out, true
}

func decodeMap(dst reflect.Value, tree any) error {
	m, ok := tree.(map[string]any)
	if !ok {
		return errInvalidType(kindOf(tree), "object")
	}
	out := reflect.MakeMapWithSize(dst.Type(), len(m))
	keyType := dst.Type().Key()
	elemType := dst.Type().Elem()
	for k, v := range m {
		key := reflect.New(keyType).Elem()
		if err := decodeMapKey(key, k); err != nil {
			return err
		}
		val := reflect.New(elemType).Elem()
		if err := decodeInto(val, v); err != nil {
			return err
		}
		out.SetMapIndex(key, val)
	}
	dst.Set(out)
	return nil
}

// decodeMapKey decodes a wire object key (always a string) into a
// string-kinded or Variant-accepting key type, the inverse of keyToString.
func decodeMapKey(key reflect.Value, s string) error {
	if key.CanAddr() {
		if target, ok := key.Addr().Interface().(VariantTarget); ok {
			return target.SetVariant(s, nil)
		}
	}
	if key.Kind() == reflect.String {
		key.SetString(s)
		return nil
	}
	if key.Kind() == reflect.Struct && key.NumField() == 1 {
		return decodeMapKey(key.Field(0), s)
	}
	return errUnsupportedKey()
}

// decodeStruct accepts either an Array (positional, in declared field order)
// or an Object (named, by tag/field name), trying both.
func decodeStruct(dst reflect.Value, tree any) error {
	fields := fieldsOf(dst.Type())

	switch x := tree.(type) {
	case map[string]any:
		for _, f := range fields {
			v, ok := x[f.name]
			if !ok {
				continue
			}
			if err := decodeInto(dst.FieldByIndex(f.index), v); err != nil {
				return err
			}
		}
		return nil
	case []any:
		if len(x) != len(fields) {
			return errInvalidLength(len(x), len(fields))
		}
		for i, f := range fields {
			if err := decodeInto(dst.FieldByIndex(f.index), x[i]); err != nil {
				return err
			}
		}
		return nil
	default:
		return errInvalidType(kindOf(tree), "array or object")
	}
}

func kindOf(tree any) string {
	switch tree.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case int64:
		return "i64"
	case uint64:
		return "u64"
	case float64:
		return "f64"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}
