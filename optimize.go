// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package jsonarena

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// Optimize rebuilds a fresh Context whose three arenas are ordered
// canonically by (length, then lexicographically), and returns it together
// with the Mapping translating handles from c to the new Context.
//
// Canonical reordering tends to place related and frequently-repeated
// values near each other, which shrinks the per-entry deltas the delta
// package computes and improves locality for sequential scans. A single
// pass is not always a fixed point: reordering strings changes the KeyId
// (and thus the canonical sort key) of every object that references them,
// which can in turn change the canonical order of arrays and objects.
// Optimize therefore loops, composing the per-round Mapping, until a round
// changes nothing or limit rounds have run.
//
// limit <= 0 returns (c, identity mapping, false) immediately, performing
// no work. If the very first round is already a no-op, Optimize returns
// (c, identity mapping, false) as well; callers should check the returned
// bool rather than compare the returned *Context to c.
func (c *Context) Optimize(limit int) (*Context, Mapping, bool) {
	c.logger.WithFields(logrus.Fields{
		"context":  c.id,
		"limit":    limit,
		"strings":  c.strings.Len(),
		"arrays":   c.arrays.Len(),
		"objects":  c.objects.Len(),
	}).Debug("jsonarena: optimize starting")

	cur := c
	total := identityMapping(c.strings.Len(), c.arrays.Len(), c.objects.Len())
	changed := false
	rounds := 0

	for i := 0; i < limit; i++ {
		next, m, ok := cur.optimizeOnce()
		if !ok {
			break
		}
		cur = next
		total = total.Compose(m)
		changed = true
		rounds++
	}

	if !changed {
		c.logger.WithField("context", c.id).Debug("jsonarena: optimize finished, no change")
		return c, identityMapping(c.strings.Len(), c.arrays.Len(), c.objects.Len()), false
	}

	c.logger.WithFields(logrus.Fields{
		"context":          c.id,
		"rounds":           rounds,
		"remapped_strings": total.CountRemappedStrings(),
		"remapped_arrays":  total.CountRemappedArrays(),
		"remapped_objects": total.CountRemappedObjects(),
	}).Debug("jsonarena: optimize finished")
	return cur, total, true
}

// optimizeOnce performs one coherent canonicalization pass over all three
// arenas: it computes the canonical order for strings, arrays, and objects
// from the current content (comparisons use whatever ids are currently
// live), builds the resulting Mapping, then rebuilds a new Context by
// interning every value, rewritten through that Mapping, in canonical
// order.
func (c *Context) optimizeOnce() (*Context, Mapping, bool) {
	strs := c.strings.Items()
	arrs := c.arrays.Items()
	objs := c.objects.Items()

	permS := canonicalOrder(len(strs), func(i, j int) int { return compareStrings(strs[i], strs[j]) })
	permA := canonicalOrder(len(arrs), func(i, j int) int { return compareIValueSlices(arrs[i], arrs[j]) })
	permO := canonicalOrder(len(objs), func(i, j int) int { return compareEntrySlices(objs[i], objs[j]) })

	revS := invertPermutation(permS)
	revA := invertPermutation(permA)
	revO := invertPermutation(permO)

	if isIdentityOrder(revS) && isIdentityOrder(revA) && isIdentityOrder(revO) {
		return c, identityMapping(uint32(len(strs)), uint32(len(arrs)), uint32(len(objs))), false
	}

	mapping := Mapping{
		strings: mapPermutation(revS),
		arrays:  mapPermutation(revA),
		objects: mapPermutation(revO),
	}

	dst := New(
		WithInitialCapacity(len(strs), len(arrs), len(objs)),
	)

	for _, oldID := range permS {
		if strs[oldID] == "" {
			continue // id 0 is reserved and already interned by New
		}
		dst.internString(strs[oldID])
	}

	for _, oldID := range permA {
		old := arrs[oldID]
		rewritten := make([]IValue, len(old))
		for i, e := range old {
			rewritten[i] = mapping.Map(e)
		}
		dst.internArray(rewritten)
	}

	for _, oldID := range permO {
		old := objs[oldID]
		rewritten := make([]ObjectEntry, len(old))
		for i, e := range old {
			rewritten[i] = ObjectEntry{Key: mapping.MapKeyId(e.Key), Value: mapping.Map(e.Value)}
		}
		dst.internObject(sortEntries(rewritten))
	}

	return dst, mapping, true
}

// canonicalOrder returns a permutation perm such that perm[newID] = oldID,
// where oldIDs are ordered according to cmp (expected to implement
// (length, then lexicographic) over the underlying content). Go's sort is
// not guaranteed stable unless SliceStable is used; ties are broken by
// original id to keep the ordering deterministic.
func canonicalOrder(n int, cmp func(i, j int) int) []uint32 {
	perm := make([]uint32, n)
	for i := range perm {
		perm[i] = uint32(i)
	}
	sort.SliceStable(perm, func(a, b int) bool {
		i, j := perm[a], perm[b]
		if c := cmp(int(i), int(j)); c != 0 {
			return c < 0
		}
		return i < j
	})
	return perm
}

// invertPermutation turns perm (perm[newID] = oldID) into rev (rev[oldID] =
// newID).
func invertPermutation(perm []uint32) []uint32 {
	rev := make([]uint32, len(perm))
	for newID, oldID := range perm {
		rev[oldID] = uint32(newID)
	}
	return rev
}

func isIdentityOrder(rev []uint32) bool {
	for i, v := range rev {
		if uint32(i) != v {
			return false
		}
	}
	return true
}

func compareStrings(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func compareIValueSlices(a, b []IValue) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := range a {
		if c := a[i].Compare(b[i]); c != 0 {
			return c
		}
	}
	return 0
}

func compareEntrySlices(a, b []ObjectEntry) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := range a {
		if a[i].Key.Less(b[i].Key) {
			return -1
		}
		if b[i].Key.Less(a[i].Key) {
			return 1
		}
		if c := a[i].Value.Compare(b[i].Value); c != 0 {
			return c
		}
	}
	return 0
}
