// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package jsonarena

import "github.com/sirupsen/logrus"

// Option configures a Context at construction time using the standard
// functional-option pattern.
type Option func(*Context)

// WithLogger attaches a logrus logger that receives Debug-level entries
// describing Optimize passes (ids remapped per arena). No logging happens
// on the Intern/Lookup hot path. The default Context uses a logger with
// output discarded, so WithLogger is opt-in.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Context) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithInitialCapacity pre-sizes the three arenas for an expected number of
// distinct strings, arrays, and objects, reducing reallocation during an
// initial bulk intern.
func WithInitialCapacity(strings, arrays, objects int) Option {
	return func(c *Context) {
		c.initialStrings = strings
		c.initialArrays = arrays
		c.initialObjects = objects
	}
}
