// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package topk reduces a set of intervals to its highest scoring members.
package topk

import (
	"container/heap"
	"sort"

	"github.com/kortschak/exemplar/interval"
)

// Extract returns the k highest scoring members of set, breaking ties
// in favour of the lower origin index, in their original order. No
// overlap filtering is done; set is expected to be pairwise disjoint.
//
// If set has no more than k members, it is returned unchanged along
// with the shortfall k-len(set). A shortfall is not an error.
func Extract(set []interval.Scored, k int) (top []interval.Scored, shortfall int) {
	if len(set) <= k {
		return set, k - len(set)
	}
	if k <= 0 {
		return nil, 0
	}

	// h holds the best k seen so far with the worst at the root.
	h := &minHeap{pos: make([]int, 0, k), set: set}
	for i := range set {
		if h.Len() < k {
			heap.Push(h, i)
			continue
		}
		if better(set[i], set[h.pos[0]]) {
			h.pos[0] = i
			heap.Fix(h, 0)
		}
	}

	sort.Ints(h.pos)
	top = make([]interval.Scored, len(h.pos))
	for i, p := range h.pos {
		top[i] = set[p]
	}
	return top, 0
}

// better returns whether a ranks above b.
func better(a, b interval.Scored) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Index < b.Index
}

// minHeap is a heap of positions into set with the
// lowest ranked interval at the root.
type minHeap struct {
	pos []int
	set []interval.Scored
}

func (h *minHeap) Len() int           { return len(h.pos) }
func (h *minHeap) Less(i, j int) bool { return better(h.set[h.pos[j]], h.set[h.pos[i]]) }
func (h *minHeap) Swap(i, j int)      { h.pos[i], h.pos[j] = h.pos[j], h.pos[i] }
func (h *minHeap) Push(x interface{}) { h.pos = append(h.pos, x.(int)) }
func (h *minHeap) Pop() interface{} {
	n := len(h.pos) - 1
	p := h.pos[n]
	h.pos = h.pos[:n]
	return p
}
