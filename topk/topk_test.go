// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package topk

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"

	"github.com/kortschak/exemplar/interval"
)

func disjoint(scores ...float64) []interval.Scored {
	set := make([]interval.Scored, len(scores))
	for i, s := range scores {
		set[i] = interval.Scored{Chrom: "chr1", Start: i * 10, End: i*10 + 10, Score: s, Index: i}
	}
	return set
}

func indices(ivs []interval.Scored) []int {
	var idx []int
	for _, iv := range ivs {
		idx = append(idx, iv.Index)
	}
	return idx
}

func TestExtract(t *testing.T) {
	tests := []struct {
		set       []interval.Scored
		k         int
		want      []int
		shortfall int
	}{
		{set: disjoint(1, 5, 3, 4, 2), k: 2, want: []int{1, 3}},
		{set: disjoint(1, 5, 3, 4, 2), k: 4, want: []int{1, 2, 3, 4}},
		{set: disjoint(1, 5, 3, 4, 2), k: 5, want: []int{0, 1, 2, 3, 4}},
		{set: disjoint(1, 5, 3), k: 5, want: []int{0, 1, 2}, shortfall: 2},
		{set: disjoint(2, 2, 2, 2), k: 2, want: []int{0, 1}},
		{set: disjoint(1, 3, 3, 2), k: 1, want: []int{1}},
		{set: nil, k: 3, want: nil, shortfall: 3},
		{set: disjoint(1, 2), k: 0, want: nil},
	}
	for i, test := range tests {
		got, shortfall := Extract(test.set, test.k)
		assert.Equal(t, test.want, indices(got), "unexpected selection for test %d", i)
		assert.Equal(t, test.shortfall, shortfall, "unexpected shortfall for test %d", i)
	}
}

func TestExtractBest(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		scores := make([]float64, 1+rnd.Intn(500))
		for i := range scores {
			scores[i] = float64(rnd.Intn(100))
		}
		set := disjoint(scores...)
		k := 1 + rnd.Intn(len(set))

		got, shortfall := Extract(set, k)
		assert.Zero(t, shortfall)
		assert.Len(t, got, k)

		sorted := append([]float64(nil), scores...)
		sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
		var want float64
		for _, s := range sorted[:k] {
			want += s
		}
		assert.Equal(t, want, interval.Total(got), "trial %d", trial)
		assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool { return got[i].Index < got[j].Index }))
	}
}
