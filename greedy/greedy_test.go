// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package greedy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/kortschak/exemplar/interval"
)

func TestSelectOrder(t *testing.T) {
	ivs := []interval.Scored{
		{Chrom: "chr1", Start: 0, End: 10, Score: 1, Index: 0},
		{Chrom: "chr1", Start: 5, End: 15, Score: 5, Index: 1},
		{Chrom: "chr1", Start: 12, End: 20, Score: 3, Index: 2},
		{Chrom: "chr1", Start: 20, End: 30, Score: 4, Index: 3},
		{Chrom: "chr2", Start: 5, End: 15, Score: 2, Index: 4},
	}
	res := NewSelector(nil).Select(Candidates(ivs), 0)
	assert.False(t, res.Exhausted)
	assert.Equal(t, len(ivs), res.Pops)
	assert.Equal(t, 2, res.Rejections)

	var got []int
	for _, c := range res.Selected {
		got = append(got, c.Index)
	}
	assert.Equal(t, []int{1, 3, 4}, got)
}

func TestSelectTarget(t *testing.T) {
	ivs := []interval.Scored{
		{Chrom: "chr1", Start: 0, End: 10, Score: 1, Index: 0},
		{Chrom: "chr1", Start: 10, End: 20, Score: 2, Index: 1},
		{Chrom: "chr1", Start: 20, End: 30, Score: 3, Index: 2},
	}
	res := NewSelector(nil).Select(Candidates(ivs), 2)
	assert.False(t, res.Exhausted)
	assert.Equal(t, 2, res.Pops)
	assert.Equal(t, []interval.Scored{ivs[2], ivs[1]}, res.Intervals())
}

func TestSelectExhausted(t *testing.T) {
	// Clustered high scores leave only two acceptable intervals.
	var ivs []interval.Scored
	for i := 0; i < 100; i++ {
		ivs = append(ivs, interval.Scored{Chrom: "chr1", Start: i, End: i + 50, Score: 100 - float64(i%3), Index: i})
	}
	res := NewSelector(nil).Select(Candidates(ivs), 10)
	assert.True(t, res.Exhausted)
	assert.Equal(t, len(ivs), res.Pops, "exhaustion must take exactly n pops")
	assert.Len(t, res.Selected, 2)
	assert.NoError(t, interval.CheckDisjoint(res.Intervals(), 0))
}

func TestSelectTies(t *testing.T) {
	ivs := []interval.Scored{
		{Chrom: "chr1", Start: 0, End: 10, Score: 2, Index: 4},
		{Chrom: "chr1", Start: 0, End: 10, Score: 2, Index: 1},
		{Chrom: "chr1", Start: 0, End: 10, Score: 1, Index: 0},
	}
	res := NewSelector(nil).Select(Candidates(ivs), 0)
	require.Len(t, res.Selected, 1)
	assert.Equal(t, 1, res.Selected[0].Index)
}

func TestSelectSingle(t *testing.T) {
	iv := interval.Scored{Chrom: "chr1", Start: 3, End: 9, Score: 0.5}
	res := NewSelector(nil).Select(Candidates([]interval.Scored{iv}), 0)
	assert.Equal(t, []interval.Scored{iv}, res.Intervals())
}

func TestSelectCustomLess(t *testing.T) {
	ivs := []interval.Scored{
		{Chrom: "chr1", Start: 0, End: 10, Score: 1, Index: 0},
		{Chrom: "chr1", Start: 5, End: 15, Score: 5, Index: 1},
	}
	// Prefer low scores.
	byLowScore := func(a, b Candidate) bool { return a.Key > b.Key }
	res := NewSelector(byLowScore).Select(Candidates(ivs), 0)
	require.Len(t, res.Selected, 1)
	assert.Equal(t, 0, res.Selected[0].Index)
}

func TestSelectRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	ivs := make([]interval.Scored, 10000)
	for i := range ivs {
		start := rnd.Intn(1000000)
		ivs[i] = interval.Scored{Chrom: "chr1", Start: start, End: start + 1 + rnd.Intn(5000), Score: rnd.Float64(), Index: i}
	}
	res := NewSelector(nil).Select(Candidates(ivs), 0)
	assert.LessOrEqual(t, res.Pops, len(ivs))
	assert.Equal(t, res.Pops, len(res.Selected)+res.Rejections)
	assert.NoError(t, interval.CheckDisjoint(res.Intervals(), 0))
	for i := 1; i < len(res.Selected); i++ {
		assert.False(t, ByKey(res.Selected[i-1], res.Selected[i]), "selection not in priority order at %d", i)
	}
}

func TestJittered(t *testing.T) {
	ivs := []interval.Scored{
		{Chrom: "chr1", Start: 0, End: 10, Score: 0, Index: 0},
		{Chrom: "chr1", Start: 10, End: 20, Score: 10, Index: 1},
		{Chrom: "chr1", Start: 20, End: 30, Score: 5, Index: 2},
	}

	c := Jittered(ivs, 0, rand.NewSource(1))
	for i, v := range c {
		assert.Equal(t, ivs[i].Score, v.Key)
	}

	c = Jittered(ivs, 1e-3, rand.NewSource(1))
	for i, v := range c {
		assert.Equal(t, ivs[i], v.Scored)
		assert.NotEqual(t, ivs[i].Score, v.Key)
		assert.InDelta(t, ivs[i].Score, v.Key, 10*1e-3*10, "jitter too large")
	}

	a := Jittered(ivs, 1e-3, rand.NewSource(5))
	b := Jittered(ivs, 1e-3, rand.NewSource(5))
	assert.Equal(t, a, b)

	flat := []interval.Scored{{Chrom: "chr1", Start: 0, End: 1, Score: 2}}
	c = Jittered(flat, 1, rand.NewSource(1))
	assert.Equal(t, 2.0, c[0].Key)
	assert.False(t, math.IsNaN(c[0].Key))
}
