// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	exemplar "github.com/kortschak/exemplar/interval"
)

func TestConflicting(t *testing.T) {
	ivs := []exemplar.Scored{
		{Chrom: "chr1", Start: 0, End: 10, Score: 1, Index: 0},
		{Chrom: "chr1", Start: 10, End: 20, Score: 2, Index: 1},
		{Chrom: "chr1", Start: 25, End: 30, Score: 3, Index: 2},
		{Chrom: "chr1", Start: 26, End: 28, Score: 3, Index: 3},
	}
	tests := []struct {
		gap     int
		want    [][2]int
		winners []int
		kept    []int
	}{
		{gap: 0, want: [][2]int{{2, 3}}, winners: []int{2}, kept: []int{0, 1, 2}},
		{gap: 1, want: [][2]int{{0, 1}, {2, 3}}, winners: []int{1, 2}, kept: []int{1, 2}},
		{gap: 6, want: [][2]int{{0, 1}, {1, 2}, {2, 3}}, winners: []int{1, 2, 2}, kept: []int{2}},
	}
	for _, test := range tests {
		c := conflicting(ivs, test.gap)
		var got [][2]int
		var winners []int
		for _, p := range c {
			got = append(got, [2]int{p.A.Index, p.B.Index})
			winners = append(winners, p.Winner)
		}
		assert.Equal(t, test.want, got, "unexpected conflicts for gap %d", test.gap)
		assert.Equal(t, test.winners, winners, "unexpected winners for gap %d", test.gap)

		var kept []int
		for _, iv := range cullConflicting(ivs, c) {
			kept = append(kept, iv.Index)
		}
		assert.Equal(t, test.kept, kept, "unexpected culled set for gap %d", test.gap)
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b exemplar.Scored
		want int
	}{
		{a: exemplar.Scored{Start: 0, End: 10}, b: exemplar.Scored{Start: 15, End: 20}, want: 5},
		{a: exemplar.Scored{Start: 15, End: 20}, b: exemplar.Scored{Start: 0, End: 10}, want: 5},
		{a: exemplar.Scored{Start: 0, End: 10}, b: exemplar.Scored{Start: 10, End: 20}, want: 0},
		{a: exemplar.Scored{Start: 0, End: 10}, b: exemplar.Scored{Start: 5, End: 20}, want: -5},
		{a: exemplar.Scored{Start: 0, End: 10}, b: exemplar.Scored{Start: 2, End: 4}, want: -2},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, distance(test.a, test.b))
	}
}
