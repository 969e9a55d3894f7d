// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package greedy implements greedy score-ordered selection of
// pairwise disjoint intervals.
//
// High scoring intervals tend to cluster, so once the first interval
// of a cluster is accepted most of its neighbours are popped and
// rejected in quick succession. The heap can therefore be exhausted
// well short of the requested number of intervals; this is reported
// in the Result rather than hidden.
package greedy

import (
	"container/heap"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kortschak/exemplar/interval"
)

// Candidate is an interval with its heap priority.
type Candidate struct {
	interval.Scored

	// Key is the priority of the candidate. It is the score,
	// possibly perturbed by jitter.
	Key float64
}

// Less reports whether a should be popped after b.
type Less func(a, b Candidate) bool

// ByKey orders candidates by descending key, breaking ties by
// ascending origin index.
func ByKey(a, b Candidate) bool {
	if a.Key != b.Key {
		return a.Key < b.Key
	}
	return a.Index > b.Index
}

// Candidates returns the candidates for ivs keyed by score.
func Candidates(ivs []interval.Scored) []Candidate {
	c := make([]Candidate, len(ivs))
	for i, iv := range ivs {
		c[i] = Candidate{Scored: iv, Key: iv.Score}
	}
	return c
}

// Jittered returns the candidates for ivs keyed by score plus an
// independent normally distributed perturbation with standard deviation
// scale times the range of scores in ivs. The perturbation is applied
// once, before any heap is built. If the scores have no range or scale
// is zero, the keys are the scores.
func Jittered(ivs []interval.Scored, scale float64, rnd rand.Source) []Candidate {
	c := Candidates(ivs)
	if len(ivs) == 0 || scale <= 0 {
		return c
	}
	scores := make([]float64, len(ivs))
	for i, iv := range ivs {
		scores[i] = iv.Score
	}
	sigma := scale * (floats.Max(scores) - floats.Min(scores))
	if sigma == 0 {
		return c
	}
	noise := distuv.Normal{Mu: 0, Sigma: sigma, Src: rnd}
	for i := range c {
		c[i].Key += noise.Rand()
	}
	return c
}

// Result is the outcome of a Select call.
type Result struct {
	// Selected holds the accepted candidates in the order
	// they were accepted.
	Selected []Candidate

	// Pops and Rejections are the number of candidates taken
	// from the heap and the number of those that were rejected.
	Pops       int
	Rejections int

	// Exhausted is true if the heap was emptied before the
	// target number of candidates was accepted.
	Exhausted bool
}

// Intervals returns the accepted intervals.
func (r Result) Intervals() []interval.Scored {
	ivs := make([]interval.Scored, len(r.Selected))
	for i, c := range r.Selected {
		ivs[i] = c.Scored
	}
	return ivs
}

// Selector pops candidates in priority order, accepting those that do
// not overlap an already accepted candidate.
type Selector struct {
	less Less
}

// NewSelector returns a Selector using less to order candidates.
// If less is nil, ByKey is used.
func NewSelector(less Less) *Selector {
	if less == nil {
		less = ByKey
	}
	return &Selector{less: less}
}

// Select accepts up to k candidates, or all acceptable candidates if
// k is zero. It terminates after at most len(candidates) pops. The
// candidates slice is reordered by Select.
func (s *Selector) Select(candidates []Candidate, k int) Result {
	h := &maxHeap{c: candidates, less: s.less}
	heap.Init(h)

	var res Result
	idx := interval.NewIndex()
	for k == 0 || len(res.Selected) < k {
		if h.Len() == 0 {
			res.Exhausted = k > 0
			break
		}
		c := heap.Pop(h).(Candidate)
		res.Pops++
		if !idx.Insert(c.Scored) {
			res.Rejections++
			continue
		}
		res.Selected = append(res.Selected, c)
	}
	return res
}

// maxHeap is a heap.Interface that pops the greatest candidate
// according to less.
type maxHeap struct {
	c    []Candidate
	less Less
}

func (h *maxHeap) Len() int           { return len(h.c) }
func (h *maxHeap) Less(i, j int) bool { return h.less(h.c[j], h.c[i]) }
func (h *maxHeap) Swap(i, j int)      { h.c[i], h.c[j] = h.c[j], h.c[i] }
func (h *maxHeap) Push(x interface{}) { h.c = append(h.c, x.(Candidate)) }
func (h *maxHeap) Pop() interface{} {
	n := len(h.c) - 1
	c := h.c[n]
	h.c = h.c[:n]
	return c
}
