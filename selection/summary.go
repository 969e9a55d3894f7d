// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package selection

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kortschak/exemplar/interval"
)

// Summary holds descriptive statistics of a selected set.
type Summary struct {
	N     int     `json:"n"`
	Total float64 `json:"total"`

	// Covered is the number of bases covered by the set.
	Covered int `json:"covered"`

	MeanScore   float64 `json:"mean_score"`
	StdDevScore float64 `json:"stddev_score"`
	MinScore    float64 `json:"min_score"`
	MedianScore float64 `json:"median_score"`
	MaxScore    float64 `json:"max_score"`

	MeanLength float64 `json:"mean_length"`
}

// Summarize returns the descriptive statistics of ivs.
func Summarize(ivs []interval.Scored) Summary {
	if len(ivs) == 0 {
		return Summary{}
	}
	scores := make([]float64, len(ivs))
	lengths := make([]float64, len(ivs))
	var covered int
	for i, iv := range ivs {
		scores[i] = iv.Score
		lengths[i] = float64(iv.Len())
		covered += iv.Len()
	}
	s := Summary{
		N:          len(ivs),
		Total:      floats.Sum(scores),
		Covered:    covered,
		MinScore:   floats.Min(scores),
		MaxScore:   floats.Max(scores),
		MeanLength: stat.Mean(lengths, nil),
	}
	s.MeanScore, s.StdDevScore = stat.MeanStdDev(scores, nil)
	if math.IsNaN(s.StdDevScore) {
		s.StdDevScore = 0
	}
	sort.Float64s(scores)
	s.MedianScore = stat.Quantile(0.5, stat.Empirical, scores, nil)
	return s
}
