// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wis implements exact weighted interval scheduling, finding
// the subset of pairwise disjoint intervals with the greatest total
// score in O(n log n) time and O(n) space.
package wis

import (
	"sort"

	"github.com/kortschak/exemplar/interval"
)

// Schedule returns an optimal set of pairwise disjoint intervals from
// ivs and its total score. Chromosomes are scheduled independently and
// returned in order of first appearance, each in ascending position.
//
// Ties between equal scoring solutions are resolved in favour of not
// taking the interval with the latest end, so results are reproducible.
// Intervals with a zero score are never taken. ivs is not modified.
func Schedule(ivs []interval.Scored) ([]interval.Scored, float64) {
	var (
		order []string
		byChr = make(map[string][]interval.Scored)
	)
	for _, iv := range ivs {
		if _, ok := byChr[iv.Chrom]; !ok {
			order = append(order, iv.Chrom)
		}
		byChr[iv.Chrom] = append(byChr[iv.Chrom], iv)
	}

	var (
		sel   []interval.Scored
		total float64
	)
	for _, chr := range order {
		s, t := schedule(byChr[chr])
		sel = append(sel, s...)
		total += t
	}
	return sel, total
}

// schedule solves a single chromosome. ivs is reordered.
func schedule(ivs []interval.Scored) ([]interval.Scored, float64) {
	n := len(ivs)
	if n == 0 {
		return nil, 0
	}
	sort.Sort(byEnd(ivs))

	ends := make([]int, n)
	for i, iv := range ivs {
		ends[i] = iv.End
	}

	// Positions are 1-based; best[0] is the empty solution.
	// pred[j] is the last position whose interval ends at
	// or before interval j starts.
	best := make([]float64, n+1)
	pred := make([]int, n+1)
	took := make([]bool, n+1)
	for j := 1; j <= n; j++ {
		iv := ivs[j-1]
		pred[j] = sort.Search(j-1, func(i int) bool { return ends[i] > iv.Start })
		take := iv.Score + best[pred[j]]
		if take > best[j-1] {
			best[j] = take
			took[j] = true
		} else {
			best[j] = best[j-1]
		}
	}

	var sel []interval.Scored
	for j := n; j > 0; {
		if took[j] {
			sel = append(sel, ivs[j-1])
			j = pred[j]
		} else {
			j--
		}
	}
	for i, j := 0, len(sel)-1; i < j; i, j = i+1, j-1 {
		sel[i], sel[j] = sel[j], sel[i]
	}
	return sel, best[n]
}

// byEnd sorts intervals by end, start and then origin index.
type byEnd []interval.Scored

func (s byEnd) Len() int { return len(s) }
func (s byEnd) Less(i, j int) bool {
	if s[i].End != s[j].End {
		return s[i].End < s[j].End
	}
	if s[i].Start != s[j].Start {
		return s[i].Start < s[j].Start
	}
	return s[i].Index < s[j].Index
}
func (s byEnd) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
