// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package structcodec

import (
	"reflect"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// fieldInfo describes one encodable/decodable struct field, resolved once
// per reflect.Type and cached, the same way encoding/json caches its own
// internal typeFields table.
type fieldInfo struct {
	index     []int
	name      string
	omitEmpty bool
}

// fieldCache bounds the number of distinct struct types this process has
// reflected over, using github.com/hashicorp/golang-lru/v2; useful for
// long-lived server processes that see many distinct Go types flow through
// FromValue/ToValue.
var (
	fieldCache     *lru.Cache[reflect.Type, []fieldInfo]
	fieldCacheOnce sync.Once
)

func fieldsOf(t reflect.Type) []fieldInfo {
	fieldCacheOnce.Do(func() {
		c, err := lru.New[reflect.Type, []fieldInfo](1024)
		if err != nil {
			panic(err) // only fails for a non-positive size, which 1024 is not
		}
		fieldCache = c
	})

	if cached, ok := fieldCache.Get(t); ok {
		return cached
	}

	fields := computeFields(t)
	fieldCache.Add(t, fields)
	return fields
}

func computeFields(t reflect.Type) []fieldInfo {
	var out []fieldInfo
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" && !f.Anonymous {
			continue // unexported
		}
		name, omitEmpty, skip := parseFieldTag(f)
		if skip {
			continue
		}
		out = append(out, fieldInfo{index: f.Index, name: name, omitEmpty: omitEmpty})
	}
	return out
}

func parseFieldTag(f reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := f.Tag.Get("jsonarena")
	if tag == "" {
		tag = f.Tag.Get("json")
	}
	name = f.Name
	if tag == "" {
		return name, false, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] == "-" && len(parts) == 1 {
		return "", false, true
	}
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}
