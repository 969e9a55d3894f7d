// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package window

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kortschak/exemplar/interval"
)

func bins(chrom string, start, width int, scores ...float64) []interval.Scored {
	ivs := make([]interval.Scored, len(scores))
	for i, s := range scores {
		ivs[i] = interval.Scored{Chrom: chrom, Start: start + i*width, End: start + (i+1)*width, Score: s, Index: i}
	}
	return ivs
}

type span struct {
	chrom      string
	start, end int
	score      float64
}

func spans(ivs []interval.Scored) []span {
	var s []span
	for _, iv := range ivs {
		s = append(s, span{iv.Chrom, iv.Start, iv.End, iv.Score})
	}
	return s
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name    string
		bins    []interval.Scored
		span    int
		step    int
		method  Method
		want    []span
		wantErr error
	}{
		{
			name:   "max",
			bins:   bins("chr1", 0, 10, 1, 5, 2, 4),
			span:   2,
			step:   1,
			method: Max,
			want:   []span{{"chr1", 0, 20, 5}, {"chr1", 10, 30, 5}, {"chr1", 20, 40, 4}},
		},
		{
			name:   "mean",
			bins:   bins("chr1", 0, 10, 1, 5, 2, 4),
			span:   2,
			step:   2,
			method: Mean,
			want:   []span{{"chr1", 0, 20, 3}, {"chr1", 20, 40, 3}},
		},
		{
			name: "default max",
			bins: bins("chr1", 100, 10, 3, 1, 2),
			span: 3,
			step: 1,
			want: []span{{"chr1", 100, 130, 3}},
		},
		{
			name: "gap restarts",
			bins: append(bins("chr1", 0, 10, 1, 2, 3), bins("chr1", 40, 10, 4, 5)...),
			span: 2,
			step: 1,
			want: []span{{"chr1", 0, 20, 2}, {"chr1", 10, 30, 3}, {"chr1", 40, 60, 5}},
		},
		{
			name: "unsorted chromosomes",
			bins: append(bins("chr2", 0, 5, 1, 2), append(bins("chr1", 10, 5, 7, 8), bins("chr2", 10, 5, 3)...)...),
			span: 2,
			step: 1,
			want: []span{{"chr2", 0, 10, 2}, {"chr2", 5, 15, 3}, {"chr1", 10, 20, 8}},
		},
		{
			name: "short run",
			bins: bins("chr1", 0, 10, 1, 2),
			span: 3,
			step: 1,
			want: nil,
		},
		{name: "bad span", bins: bins("chr1", 0, 10, 1), span: 0, step: 1, wantErr: ErrBadSize},
		{name: "bad step", bins: bins("chr1", 0, 10, 1), span: 1, step: 0, wantErr: ErrBadSize},
		{name: "bad method", bins: bins("chr1", 0, 10, 1), span: 1, step: 1, method: "median", wantErr: ErrBadMethod},
		{
			name:    "malformed",
			bins:    []interval.Scored{{Chrom: "chr1", Start: 10, End: 5}},
			span:    1,
			step:    1,
			wantErr: interval.ErrMalformed,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Aggregate(test.bins, test.span, test.step, test.method)
			if test.wantErr != nil {
				assert.True(t, errors.Is(err, test.wantErr), "unexpected error: %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, spans(got))
			for i, w := range got {
				assert.Equal(t, i, w.Index)
			}
		})
	}
}

func TestExtend(t *testing.T) {
	ivs := []interval.Scored{
		{Chrom: "chr1", Start: 5, End: 15, Score: 1, Index: 0},
		{Chrom: "chr1", Start: 20, End: 30, Score: 2, Index: 1},
		{Chrom: "chr1", Start: 85, End: 95, Score: 3, Index: 2},
		{Chrom: "chr2", Start: 1000, End: 1010, Score: 4, Index: 3},
	}
	lengths := map[string]int{"chr1": 100}

	got, err := Extend(ivs, 10, lengths)
	require.NoError(t, err)
	assert.Equal(t, []interval.Scored{
		{Chrom: "chr1", Start: 10, End: 40, Score: 2, Index: 1},
		{Chrom: "chr2", Start: 990, End: 1020, Score: 4, Index: 3},
	}, got)

	got, err = Extend(ivs, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, ivs, got)

	_, err = Extend(ivs, -1, nil)
	assert.True(t, errors.Is(err, ErrBadSize))
}

func TestReadLengths(t *testing.T) {
	const idx = "chr1\t248956422\t6\t60\t61\nchr2\t242193529\t253105766\t60\t61\n"
	got, err := ReadLengths(strings.NewReader(idx))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"chr1": 248956422, "chr2": 242193529}, got)
}

func TestIndexLengths(t *testing.T) {
	const fasta = ">chr1\nACGTACGTAC\nACGT\n>chr2\nAC\n"
	got, err := IndexLengths(strings.NewReader(fasta))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"chr1": 14, "chr2": 2}, got)
}
