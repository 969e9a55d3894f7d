// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alias

import (
	"golang.org/x/exp/rand"

	"github.com/kortschak/exemplar/interval"
)

// DefaultRejections is the consecutive rejection budget used when
// a Budget does not specify one.
const DefaultRejections = 100000

// Budget limits the work done by Select. Sampling is with replacement,
// so once the neighbourhoods of the heaviest intervals are filled the
// acceptance rate decays towards zero.
type Budget struct {
	// Rejections is the number of consecutive rejected draws
	// after which sampling stops. Zero is DefaultRejections.
	Rejections int

	// Draws is the total number of draws after which sampling
	// stops. Zero is unlimited.
	Draws int
}

// Result is the outcome of a Select call.
type Result struct {
	// Selected holds the accepted intervals in ascending
	// start order for each chromosome.
	Selected []interval.Scored

	// Draws and Rejections are the number of samples taken
	// and the number of those that were rejected.
	Draws      int
	Rejections int

	// Reached is true if the target number of intervals
	// was accepted before the budget was exhausted.
	Reached bool
}

// Select draws intervals from candidates with probability proportional
// to their score, accepting each draw that does not overlap a previously
// accepted interval. Sampling stops when k intervals have been accepted
// or the budget is exhausted. If k is zero, sampling continues until the
// budget is exhausted.
//
// Select returns ErrDegenerateWeights if no candidate has a positive score.
func Select(candidates []interval.Scored, k int, budget Budget, rnd *rand.Rand) (Result, error) {
	weights := make([]float64, len(candidates))
	for i, iv := range candidates {
		weights[i] = iv.Score
	}
	t, err := NewTable(weights)
	if err != nil {
		return Result{}, err
	}
	return t.Select(candidates, k, budget, rnd), nil
}

// Select is the rejection sampling loop of the package-level Select,
// using t to sample from candidates. t must have been constructed from
// the scores of candidates.
func (t *Table) Select(candidates []interval.Scored, k int, budget Budget, rnd *rand.Rand) Result {
	if len(candidates) != t.Len() {
		panic("alias: table and candidate lengths differ")
	}
	if budget.Rejections <= 0 {
		budget.Rejections = DefaultRejections
	}

	var (
		res    Result
		idx    = interval.NewIndex()
		misses int
	)
	for k == 0 || idx.Len() < k {
		if misses >= budget.Rejections || (budget.Draws > 0 && res.Draws >= budget.Draws) {
			break
		}
		iv := candidates[t.Sample(rnd)]
		res.Draws++
		if !idx.Insert(iv) {
			res.Rejections++
			misses++
			continue
		}
		misses = 0
	}
	res.Reached = k > 0 && idx.Len() >= k

	// Candidates may span chromosomes; collect in order
	// of first appearance.
	seen := make(map[string]bool)
	for _, iv := range candidates {
		if seen[iv.Chrom] {
			continue
		}
		seen[iv.Chrom] = true
		res.Selected = append(res.Selected, idx.Intervals(iv.Chrom)...)
		if len(res.Selected) == idx.Len() {
			break
		}
	}
	return res
}
