// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package interval

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/bed"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"
)

// ReadBED reads BED4 records from r. The name column holds the score
// of each interval. Each returned interval's Index is its record number.
func ReadBED(r io.Reader) ([]Scored, error) {
	br, err := bed.NewReader(r, 4)
	if err != nil {
		return nil, err
	}
	var ivs []Scored
	sc := featio.NewScanner(br)
	for sc.Next() {
		f := sc.Feat().(*bed.Bed4)
		score, err := strconv.ParseFloat(strings.TrimSpace(f.FeatName), 64)
		if err != nil {
			return ivs, fmt.Errorf("invalid score in record %d: %w", len(ivs)+1, err)
		}
		ivs = append(ivs, Scored{
			Chrom: f.Chrom,
			Start: f.ChromStart,
			End:   f.ChromEnd,
			Score: score,
			Index: len(ivs),
		})
	}
	return ivs, sc.Error()
}

// ReadGFF reads GFF features from r. Features without a score are
// given a score of zero.
func ReadGFF(r io.Reader) ([]Scored, error) {
	var ivs []Scored
	sc := featio.NewScanner(gff.NewReader(r))
	for sc.Next() {
		f := sc.Feat().(*gff.Feature)
		var score float64
		if f.FeatScore != nil {
			score = *f.FeatScore
		}
		ivs = append(ivs, Scored{
			Chrom: f.SeqName,
			Start: f.FeatStart,
			End:   f.FeatEnd,
			Score: score,
			Index: len(ivs),
		})
	}
	return ivs, sc.Error()
}

// WriteBED writes ivs to w as BED4 records with the score in the
// name column.
func WriteBED(w io.Writer, ivs []Scored) error {
	bw, err := bed.NewWriter(w, 4)
	if err != nil {
		return err
	}
	for _, iv := range ivs {
		_, err = bw.Write(&bed.Bed4{
			Chrom:      iv.Chrom,
			ChromStart: iv.Start,
			ChromEnd:   iv.End,
			FeatName:   strconv.FormatFloat(iv.Score, 'g', -1, 64),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteGFF writes ivs to w as GFF features with the given source
// and feature type.
func WriteGFF(w io.Writer, ivs []Scored, source, feature string) error {
	gw := gff.NewWriter(w, 60, true)
	f := &gff.Feature{
		Source:     source,
		Feature:    feature,
		FeatStrand: seq.None,
		FeatFrame:  gff.NoFrame,
	}
	for _, iv := range ivs {
		score := iv.Score
		f.SeqName = iv.Chrom
		f.FeatStart = iv.Start
		f.FeatEnd = iv.End
		f.FeatScore = &score
		_, err := gw.Write(f)
		if err != nil {
			return err
		}
	}
	return nil
}

// Read reads intervals from r in the named format, "bed" or "gff".
func Read(r io.Reader, format string) ([]Scored, error) {
	switch format {
	case "bed":
		return ReadBED(r)
	case "gff":
		return ReadGFF(r)
	default:
		return nil, fmt.Errorf("unknown interval format: %q", format)
	}
}

// Write writes intervals to w in the named format, "bed" or "gff".
func Write(w io.Writer, ivs []Scored, format string) error {
	switch format {
	case "bed":
		return WriteBED(w, ivs)
	case "gff":
		return WriteGFF(w, ivs, "exemplar", "exemplar")
	default:
		return fmt.Errorf("unknown interval format: %q", format)
	}
}
