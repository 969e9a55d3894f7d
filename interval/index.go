// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package interval

import "github.com/biogo/store/llrb"

// Index holds a set of pairwise disjoint intervals for any number of
// chromosomes. Each chromosome is held in a left-leaning red-black tree
// ordered by start position. Since members never overlap, an overlap
// test only needs the members immediately before and after the query
// start.
//
// An Index is not safe for concurrent use.
type Index struct {
	trees map[string]*llrb.Tree
	n     int
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{trees: make(map[string]*llrb.Tree)}
}

// member is the llrb element type. Queries use a member with
// only the start set.
type member struct {
	Scored
}

func (m member) Compare(b llrb.Comparable) int {
	o := b.(member)
	switch {
	case m.Start < o.Start:
		return -1
	case m.Start > o.Start:
		return 1
	}
	return 0
}

// Overlaps returns whether iv overlaps any member of the index.
func (x *Index) Overlaps(iv Scored) bool {
	t, ok := x.trees[iv.Chrom]
	if !ok {
		return false
	}
	return overlaps(t, iv)
}

func overlaps(t *llrb.Tree, iv Scored) bool {
	q := member{Scored{Start: iv.Start}}
	if c := t.Floor(q); c != nil && c.(member).End > iv.Start {
		return true
	}
	if c := t.Ceil(q); c != nil && c.(member).Start < iv.End {
		return true
	}
	return false
}

// Insert adds iv to the index if it does not overlap any existing
// member and returns whether it was added.
func (x *Index) Insert(iv Scored) bool {
	t, ok := x.trees[iv.Chrom]
	if !ok {
		t = &llrb.Tree{}
		x.trees[iv.Chrom] = t
	}
	if overlaps(t, iv) {
		return false
	}
	t.Insert(member{iv})
	x.n++
	return true
}

// Len returns the total number of members in the index.
func (x *Index) Len() int { return x.n }

// LenOf returns the number of members on chrom.
func (x *Index) LenOf(chrom string) int {
	t, ok := x.trees[chrom]
	if !ok {
		return 0
	}
	return t.Len()
}

// Do calls fn on each member on chrom in ascending start order
// until fn returns true.
func (x *Index) Do(chrom string, fn func(Scored) (done bool)) {
	t, ok := x.trees[chrom]
	if !ok {
		return
	}
	t.Do(func(c llrb.Comparable) bool {
		return fn(c.(member).Scored)
	})
}

// Intervals returns the members on chrom in ascending start order.
func (x *Index) Intervals(chrom string) []Scored {
	ivs := make([]Scored, 0, x.LenOf(chrom))
	x.Do(chrom, func(iv Scored) bool {
		ivs = append(ivs, iv)
		return false
	})
	return ivs
}
