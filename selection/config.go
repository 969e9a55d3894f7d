// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package selection

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kortschak/exemplar/alias"
)

// Strategy is a disjoint interval selection strategy.
type Strategy string

const (
	// AliasSampling samples intervals with probability proportional
	// to score using Walker's alias method, rejecting overlaps.
	AliasSampling Strategy = "alias-sampling"

	// GreedyHeap takes intervals in descending score order,
	// rejecting overlaps.
	GreedyHeap Strategy = "greedy-heap"

	// GreedyHeapJittered is GreedyHeap with scores perturbed
	// by a small amount of noise before ordering.
	GreedyHeapJittered Strategy = "greedy-heap-jittered"

	// WeightedIntervalScheduling finds the disjoint set with the
	// greatest total score, optionally reduced to the best K.
	WeightedIntervalScheduling Strategy = "weighted-interval-scheduling"
)

// Strategies is the list of valid strategies.
var Strategies = []Strategy{
	AliasSampling,
	GreedyHeap,
	GreedyHeapJittered,
	WeightedIntervalScheduling,
}

// DefaultJitterScale is the jitter standard deviation as a fraction
// of the score range.
const DefaultJitterScale = 1e-5

// Config holds the parameters of a selection run.
type Config struct {
	Strategy Strategy `validate:"required,oneof=alias-sampling greedy-heap greedy-heap-jittered weighted-interval-scheduling"`

	// K is the number of intervals to select. Zero selects
	// as many as the strategy will give.
	K int `validate:"gte=0"`

	// RejectionBudget is the number of consecutive rejected draws
	// after which alias sampling of a chromosome stops. Zero is
	// alias.DefaultRejections.
	RejectionBudget int `validate:"gte=0"`

	// DrawBudget is the total number of draws after which alias
	// sampling of a chromosome stops. Zero is unlimited.
	DrawBudget int `validate:"gte=0"`

	// JitterScale is the standard deviation of greedy-heap-jittered
	// perturbations as a fraction of the range of scores on a
	// chromosome.
	JitterScale float64 `validate:"gte=0"`

	// Seed is the seed for random sources. Each chromosome uses
	// Seed plus its ordinal in the input.
	Seed uint64

	// Workers is the number of chromosomes processed concurrently.
	// Zero is GOMAXPROCS.
	Workers int `validate:"gte=0"`
}

// DefaultConfig returns a Config with the default budgets and
// jitter scale for the given strategy and target.
func DefaultConfig(s Strategy, k int) Config {
	return Config{
		Strategy:        s,
		K:               k,
		RejectionBudget: alias.DefaultRejections,
		JitterScale:     DefaultJitterScale,
	}
}

var validate = validator.New()

// Validate returns an error if c is not a valid configuration.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err != nil {
		return fmt.Errorf("invalid selection config: %w", err)
	}
	return nil
}
