// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package alias implements Walker's alias method for weighted sampling
// with replacement and a rejection sampler that uses it to collect
// pairwise disjoint intervals.
//
// Table construction is O(n) and each draw is O(1). See
// Devroye, Non-Uniform Random Variate Generation (1986), p. 107.
package alias

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

var (
	// ErrDegenerateWeights is returned when the weights do not sum
	// to a positive value and so cannot be normalized.
	ErrDegenerateWeights = errors.New("alias: degenerate weights")

	// ErrInvalidWeight is returned for negative or non-finite weights.
	ErrInvalidWeight = errors.New("alias: invalid weight")
)

// tolerance is the distance from 1 within which a normalized weight
// is considered to exactly fill its slot.
const tolerance = 1e-9

// Table is an immutable alias sampling table.
type Table struct {
	prob  []float64
	alias []int
}

// NewTable returns a Table for sampling indices of weights with
// probability proportional to their weight.
func NewTable(weights []float64) (*Table, error) {
	n := len(weights)
	var sum float64
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: %v at %d", ErrInvalidWeight, w, i)
		}
		sum += w
	}
	if n == 0 || sum <= 0 {
		return nil, ErrDegenerateWeights
	}

	t := &Table{
		prob:  make([]float64, n),
		alias: make([]int, n),
	}

	// Scale to a mean of 1 and split indices into those with
	// too little and too much mass for a single slot.
	scale := float64(n) / sum
	var (
		small, large []int
		heaviest     int
	)
	for i, w := range weights {
		if w > weights[heaviest] {
			heaviest = i
		}
		p := w * scale
		t.prob[i] = p
		t.alias[i] = i
		switch {
		case p < 1-tolerance:
			small = append(small, i)
		case p > 1+tolerance:
			large = append(large, i)
		default:
			t.prob[i] = 1
		}
	}

	for len(small) != 0 && len(large) != 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]

		// Fill the remainder of slot s from l.
		t.alias[s] = l
		t.prob[l] -= 1 - t.prob[s]

		switch p := t.prob[l]; {
		case p < 1-tolerance:
			large = large[:len(large)-1]
			small = append(small, l)
		case p <= 1+tolerance:
			large = large[:len(large)-1]
			t.prob[l] = 1
		}
	}

	// Anything left over differs from 1 only by rounding, except
	// zero weight items which must never be drawn.
	for _, i := range small {
		if weights[i] == 0 {
			t.prob[i] = 0
			t.alias[i] = heaviest
			continue
		}
		t.prob[i] = 1
		t.alias[i] = i
	}
	for _, i := range large {
		t.prob[i] = 1
		t.alias[i] = i
	}

	return t, nil
}

// Len returns the number of items in the table.
func (t *Table) Len() int { return len(t.prob) }

// Sample returns a random index drawn using rnd.
func (t *Table) Sample(rnd *rand.Rand) int {
	i := rnd.Intn(len(t.prob))
	if rnd.Float64() < t.prob[i] {
		return i
	}
	return t.alias[i]
}
