// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package window builds fixed-width candidate windows from binned genomic
// signal and extends windows with slack.
package window

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/biogo/hts/fai"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kortschak/exemplar/interval"
)

// Method is a window score aggregation method.
type Method string

const (
	Max  Method = "max"
	Mean Method = "mean"
)

var (
	// ErrBadSize is returned when a window span, step or
	// extension is invalid.
	ErrBadSize = errors.New("invalid window size")

	// ErrBadMethod is returned for an unknown aggregation method.
	ErrBadMethod = errors.New("invalid aggregation method")
)

// Aggregate returns windows of span consecutive contiguous bins, advancing
// step bins at a time, scored by method over the bin scores. Bins are
// considered per chromosome in order of start position and a gap between
// bins restarts windowing. Windows are returned grouped by chromosome in
// order of first appearance and the Index of each window is its position
// in the returned slice.
func Aggregate(bins []interval.Scored, span, step int, method Method) ([]interval.Scored, error) {
	if span < 1 || step < 1 {
		return nil, fmt.Errorf("%w: span=%d step=%d", ErrBadSize, span, step)
	}
	var agg func([]float64) float64
	switch method {
	case Max, "":
		agg = floats.Max
	case Mean:
		agg = func(s []float64) float64 { return stat.Mean(s, nil) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadMethod, method)
	}

	parts, err := interval.Partition(bins)
	if err != nil {
		return nil, err
	}
	var windows []interval.Scored
	for _, p := range parts {
		ivs := append([]interval.Scored(nil), p.Intervals...)
		sort.SliceStable(ivs, func(i, j int) bool { return ivs[i].Start < ivs[j].Start })

		scores := make([]float64, len(ivs))
		for i, iv := range ivs {
			scores[i] = iv.Score
		}
		for lo := 0; lo < len(ivs); {
			hi := lo + 1
			for hi < len(ivs) && ivs[hi].Start == ivs[hi-1].End {
				hi++
			}
			for i := lo; i+span <= hi; i += step {
				windows = append(windows, interval.Scored{
					Chrom: p.Name,
					Start: ivs[i].Start,
					End:   ivs[i+span-1].End,
					Score: agg(scores[i : i+span]),
					Index: len(windows),
				})
			}
			lo = hi
		}
	}
	return windows, nil
}

// Extend returns ivs with each interval grown by extend bases on both
// sides. Intervals that would extend before the start of the chromosome,
// or beyond its end when its length is present in lengths, are dropped
// so that every returned interval is exactly 2×extend wider than its
// source. Origin indices are retained.
func Extend(ivs []interval.Scored, extend int, lengths map[string]int) ([]interval.Scored, error) {
	if extend < 0 {
		return nil, fmt.Errorf("%w: extend=%d", ErrBadSize, extend)
	}
	out := make([]interval.Scored, 0, len(ivs))
	for _, iv := range ivs {
		iv.Start -= extend
		iv.End += extend
		if iv.Start < 0 {
			continue
		}
		if n, ok := lengths[iv.Chrom]; ok && iv.End > n {
			continue
		}
		out = append(out, iv)
	}
	return out, nil
}

// ReadLengths returns the chromosome lengths held in a FASTA index.
func ReadLengths(r io.Reader) (map[string]int, error) {
	idx, err := fai.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read fasta index: %w", err)
	}
	return lengths(idx), nil
}

// IndexLengths returns the chromosome lengths of the sequences
// in the FASTA stream r.
func IndexLengths(r io.Reader) (map[string]int, error) {
	idx, err := fai.NewIndex(r)
	if err != nil {
		return nil, fmt.Errorf("failed to index fasta: %w", err)
	}
	return lengths(idx), nil
}

func lengths(idx fai.Index) map[string]int {
	l := make(map[string]int, len(idx))
	for name, rec := range idx {
		l[name] = rec.Length
	}
	return l
}
