// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// exemplar selects a large, high scoring set of pairwise disjoint genomic
// intervals from a set of scored candidate intervals. Candidates are read
// as BED4, with the score in the name column, or as GFF, and the selected
// intervals are written to stdout in the same format.
//
// Four strategies are available:
//   - alias-sampling: sample intervals in proportion to score, rejecting
//     overlaps, until k are selected or the rejection budget is spent
//   - greedy-heap: take intervals in descending score order, rejecting
//     overlaps
//   - greedy-heap-jittered: as greedy-heap with scores perturbed by a
//     small amount of normally distributed noise
//   - weighted-interval-scheduling: the disjoint set with the greatest
//     total score, reduced to the best k when k is given
//
// Flag defaults may be set with EXEMPLAR_FORMAT, EXEMPLAR_STRATEGY,
// EXEMPLAR_K, EXEMPLAR_REJECTIONS, EXEMPLAR_DRAWS, EXEMPLAR_JITTER,
// EXEMPLAR_SEED and EXEMPLAR_WORKERS.
//
// If a report path is given, a JSON description of the run including
// per-chromosome outcomes and summary statistics is written to it. If a
// db directory is given, the selection is persisted to position.db and
// score.db in that directory; these can be inspected with
// audit-exemplar-db.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"log"
	"os"

	"github.com/caarlos0/env/v11"

	"github.com/kortschak/exemplar/internal/store"
	"github.com/kortschak/exemplar/interval"
	"github.com/kortschak/exemplar/selection"
)

// defaults holds flag defaults obtained from the environment.
type defaults struct {
	Exemplar struct {
		Format     string  `env:"FORMAT" envDefault:"bed"`
		Strategy   string  `env:"STRATEGY" envDefault:"weighted-interval-scheduling"`
		K          int     `env:"K" envDefault:"0"`
		Rejections int     `env:"REJECTIONS" envDefault:"100000"`
		Draws      int     `env:"DRAWS" envDefault:"0"`
		Jitter     float64 `env:"JITTER" envDefault:"1e-5"`
		Seed       uint64  `env:"SEED" envDefault:"1"`
		Workers    int     `env:"WORKERS" envDefault:"0"`
	} `envPrefix:"EXEMPLAR_"`
}

func loadDefaults() (*defaults, error) {
	d := &defaults{}
	if err := env.Parse(d); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}
	return d, nil
}

func main() {
	def, err := loadDefaults()
	if err != nil {
		log.Fatalf("invalid environment: %v", err)
	}
	d := def.Exemplar

	in := flag.String("in", "", "specify the candidate interval file (default stdin)")
	format := flag.String("format", d.Format, "specify the interval format (bed or gff)")
	strategy := flag.String("strategy", d.Strategy, "specify the selection strategy")
	k := flag.Int("k", d.K, "specify the number of intervals to select (0 is as many as possible)")
	rejections := flag.Int("rejections", d.Rejections, "specify the consecutive rejection budget for alias-sampling")
	draws := flag.Int("draws", d.Draws, "specify the total draw budget per chromosome for alias-sampling (0 is unlimited)")
	jitter := flag.Float64("jitter", d.Jitter, "specify the jitter scale relative to the score range for greedy-heap-jittered")
	seed := flag.Uint64("seed", d.Seed, "specify the random seed")
	workers := flag.Int("workers", d.Workers, "specify the number of chromosomes to process concurrently (0 is GOMAXPROCS)")
	report := flag.String("report", "", "specify a path for a JSON run report")
	db := flag.String("db", "", "specify a directory to persist the selection in")
	check := flag.Bool("check", false, "specify to verify the selection is pairwise disjoint")
	flag.Parse()

	log.Println(os.Args)

	var r io.Reader = os.Stdin
	if *in != "" {
		f, err := os.Open(*in)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		r = f
	}
	ivs, err := interval.Read(r, *format)
	if err != nil {
		log.Fatalf("failed to read candidates: %v", err)
	}
	log.Printf("read %d candidates", len(ivs))

	cfg := selection.Config{
		Strategy:        selection.Strategy(*strategy),
		K:               *k,
		RejectionBudget: *rejections,
		DrawBudget:      *draws,
		JitterScale:     *jitter,
		Seed:            *seed,
		Workers:         *workers,
	}
	res, err := selection.Run(context.Background(), ivs, cfg)
	if err != nil {
		log.Fatal(err)
	}
	for _, c := range res.Chromosomes {
		if c.Err != nil {
			log.Printf("%s: %s: %v", c.Name, c.Status, c.Err)
			continue
		}
		log.Printf("%s: %s: selected %d of %d candidates (tried %d, rejected %d)",
			c.Name, c.Status, c.Selected, c.Candidates, c.Tried, c.Rejected)
	}
	log.Printf("%s: selected %d intervals with total score %v", res.Status, len(res.Selected), res.Summary.Total)
	if res.Shortfall != 0 {
		log.Printf("short of target by %d", res.Shortfall)
	}

	if *check {
		err = interval.CheckDisjoint(res.Selected, 0)
		if err != nil {
			log.Fatalf("selection failed disjointness check: %v", err)
		}
		log.Println("selection is disjoint")
	}

	err = interval.Write(os.Stdout, res.Selected, *format)
	if err != nil {
		log.Fatalf("failed to write selection: %v", err)
	}

	if *report != "" {
		err = writeReport(*report, res)
		if err != nil {
			log.Fatalf("failed to write report: %v", err)
		}
	}
	if *db != "" {
		err = store.Write(*db, res.Selected)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("persisted selection in %s", *db)
	}

	if res.Failures != 0 {
		log.Fatalf("selection failed on %d chromosomes: %v", res.Failures, res.Err())
	}
}

func writeReport(path string, res *selection.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "\t")
	err = enc.Encode(res)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
