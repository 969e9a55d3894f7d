// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package interval provides scored genomic intervals, an incremental
// index of pairwise disjoint intervals and record I/O for BED and GFF.
package interval

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrMalformed is returned when an interval does not satisfy
// 0 <= Start < End or has a negative or non-finite score.
var ErrMalformed = errors.New("malformed interval")

// Scored is a half-open genomic interval with a non-negative score.
// Index is the position of the interval in its source and is used
// to break ties deterministically.
type Scored struct {
	Chrom string
	Start int
	End   int
	Score float64
	Index int
}

// Len returns the length of the interval.
func (iv Scored) Len() int { return iv.End - iv.Start }

// Overlaps returns whether iv and b share any position on the same chromosome.
func (iv Scored) Overlaps(b Scored) bool {
	return iv.Chrom == b.Chrom && iv.Start < b.End && b.Start < iv.End
}

func (iv Scored) String() string {
	return fmt.Sprintf("%s:%d-%d(%g)#%d", iv.Chrom, iv.Start, iv.End, iv.Score, iv.Index)
}

// Validate returns a wrapped ErrMalformed if iv is not a valid interval.
func (iv Scored) Validate() error {
	switch {
	case iv.Start >= iv.End:
		return fmt.Errorf("%w: %v: start not before end", ErrMalformed, iv)
	case iv.Start < 0:
		return fmt.Errorf("%w: %v: negative start", ErrMalformed, iv)
	case iv.Score < 0, math.IsNaN(iv.Score), math.IsInf(iv.Score, 0):
		return fmt.Errorf("%w: %v: invalid score", ErrMalformed, iv)
	}
	return nil
}

// Chromosome is the set of candidate intervals on a single chromosome.
type Chromosome struct {
	Name      string
	Intervals []Scored
}

// Partition validates ivs and groups them by chromosome. Chromosomes are
// returned in order of first appearance and intervals retain their input
// order within each chromosome.
func Partition(ivs []Scored) ([]Chromosome, error) {
	idx := make(map[string]int)
	var parts []Chromosome
	for _, iv := range ivs {
		err := iv.Validate()
		if err != nil {
			return nil, err
		}
		i, ok := idx[iv.Chrom]
		if !ok {
			i = len(parts)
			idx[iv.Chrom] = i
			parts = append(parts, Chromosome{Name: iv.Chrom})
		}
		parts[i].Intervals = append(parts[i].Intervals, iv)
	}
	return parts, nil
}

// SortByPosition sorts ivs by chromosome rank, start, end and origin
// index. Chromosomes not present in rank sort after those that are,
// in lexical order.
func SortByPosition(ivs []Scored, rank map[string]int) {
	sort.Sort(byPosition{ivs: ivs, rank: rank})
}

type byPosition struct {
	ivs  []Scored
	rank map[string]int
}

func (p byPosition) Len() int { return len(p.ivs) }
func (p byPosition) Less(i, j int) bool {
	a, b := p.ivs[i], p.ivs[j]
	if a.Chrom != b.Chrom {
		ra, oka := p.rank[a.Chrom]
		rb, okb := p.rank[b.Chrom]
		switch {
		case oka && okb:
			return ra < rb
		case oka != okb:
			return oka
		default:
			return a.Chrom < b.Chrom
		}
	}
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	if a.End != b.End {
		return a.End < b.End
	}
	return a.Index < b.Index
}
func (p byPosition) Swap(i, j int) { p.ivs[i], p.ivs[j] = p.ivs[j], p.ivs[i] }

// CheckDisjoint returns an error describing the first pair of intervals
// in ivs on the same chromosome that are separated by fewer than gap
// positions. A gap of zero checks only for overlap. ivs is not modified.
func CheckDisjoint(ivs []Scored, gap int) error {
	sorted := make([]Scored, len(ivs))
	copy(sorted, ivs)
	SortByPosition(sorted, nil)

	// last is the interval with the rightmost end seen so far on
	// the current chromosome.
	var last Scored
	for i, iv := range sorted {
		if i == 0 || iv.Chrom != last.Chrom {
			last = iv
			continue
		}
		if iv.Start-last.End < gap {
			return fmt.Errorf("intervals too close: %v and %v", last, iv)
		}
		if iv.End > last.End {
			last = iv
		}
	}
	return nil
}

// Total returns the sum of scores in ivs.
func Total(ivs []Scored) float64 {
	var sum float64
	for _, iv := range ivs {
		sum += iv.Score
	}
	return sum
}
