// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// disjoint is a tool to check that a set of intervals is pairwise disjoint.
// Intervals on the same chromosome conflict if they overlap or, when a gap
// is given, are separated by fewer than gap bases. Each conflicting pair is
// written to stdout as a JSON object and disjoint exits with status 1 if
// any conflict is found.
//
// With the cull flag, disjoint instead writes the input intervals to stdout,
// removing each interval that conflicts with a higher scoring interval, or
// with an equally scoring interval that appears earlier in the input.
//
// usage: disjoint [-gap n] [-cull] < infile.bed
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/biogo/store/interval"

	exemplar "github.com/kortschak/exemplar/interval"
)

func main() {
	format := flag.String("format", "bed", "specify the interval format (bed or gff)")
	gap := flag.Int("gap", 0, "specify the minimum number of bases between intervals")
	cull := flag.Bool("cull", false, "specify to write the input with conflicting lower scoring intervals removed")
	flag.Parse()
	if *gap < 0 {
		flag.Usage()
		os.Exit(2)
	}

	ivs, err := exemplar.Read(os.Stdin, *format)
	if err != nil {
		log.Fatal(err)
	}
	parts, err := exemplar.Partition(ivs)
	if err != nil {
		log.Fatal(err)
	}

	var (
		conflicts []conflict
		culled    []exemplar.Scored
	)
	for _, p := range parts {
		c := conflicting(p.Intervals, *gap)
		conflicts = append(conflicts, c...)
		if *cull {
			culled = append(culled, cullConflicting(p.Intervals, c)...)
		}
	}

	if *cull {
		log.Printf("removed %d of %d intervals", len(ivs)-len(culled), len(ivs))
		err = exemplar.Write(os.Stdout, culled, *format)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	enc := json.NewEncoder(os.Stdout)
	for _, c := range conflicts {
		err = enc.Encode(c)
		if err != nil {
			log.Fatal(err)
		}
	}
	if len(conflicts) != 0 {
		log.Printf("found %d conflicting pairs", len(conflicts))
		os.Exit(1)
	}
}

// conflict is a pair of intervals closer than the required gap.
type conflict struct {
	Chrom    string `json:"chrom"`
	A        span   `json:"a"`
	B        span   `json:"b"`
	Distance int    `json:"distance"`
	Winner   int    `json:"winner"`
}

type span struct {
	Start int     `json:"start"`
	End   int     `json:"end"`
	Score float64 `json:"score"`
	Index int     `json:"index"`
}

func spanOf(iv exemplar.Scored) span {
	return span{Start: iv.Start, End: iv.End, Score: iv.Score, Index: iv.Index}
}

// conflicting returns the pairs of intervals in ivs, which must all be
// on the same chromosome, that are separated by fewer than gap bases.
// Each pair is reported once with the lower origin index first.
func conflicting(ivs []exemplar.Scored, gap int) []conflict {
	var tree interval.IntTree
	for i, iv := range ivs {
		err := tree.Insert(gapInterval{uid: uintptr(i), Scored: iv}, true)
		if err != nil {
			log.Fatal(err)
		}
	}
	tree.AdjustRanges()

	var c []conflict
	for _, iv := range ivs {
		for _, h := range tree.Get(gapInterval{Scored: iv, gap: gap}) {
			o := h.(gapInterval).Scored
			if o.Index <= iv.Index {
				continue
			}
			winner := iv.Index
			if o.Score > iv.Score {
				winner = o.Index
			}
			c = append(c, conflict{
				Chrom:    iv.Chrom,
				A:        spanOf(iv),
				B:        spanOf(o),
				Distance: distance(iv, o),
				Winner:   winner,
			})
		}
	}
	return c
}

// cullConflicting returns a copy of ivs with every interval that lost
// a conflict in c removed.
func cullConflicting(ivs []exemplar.Scored, c []conflict) []exemplar.Scored {
	lost := make(map[int]bool)
	for _, p := range c {
		if p.Winner == p.A.Index {
			lost[p.B.Index] = true
		} else {
			lost[p.A.Index] = true
		}
	}
	var culled []exemplar.Scored
	for _, iv := range ivs {
		if !lost[iv.Index] {
			culled = append(culled, iv)
		}
	}
	return culled
}

// distance returns the number of bases between a and b. Overlapping
// intervals have a negative distance.
func distance(a, b exemplar.Scored) int {
	if a.Start > b.Start {
		a, b = b, a
	}
	if a.End > b.End {
		return b.Start - b.End
	}
	return b.Start - a.End
}

type gapInterval struct {
	uid uintptr
	gap int
	exemplar.Scored
}

// Overlap returns whether b is fewer than gap bases from i.
func (i gapInterval) Overlap(b interval.IntRange) bool {
	return b.Start < i.End+i.gap && i.Start-i.gap < b.End
}
func (i gapInterval) ID() uintptr { return i.uid }
func (i gapInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.Start, End: i.End}
}
