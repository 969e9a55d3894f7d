// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The audit-exemplar-db command allows the data stores written by exemplar
// with the -db flag to be queried. There are two persisted data stores.
//   - position.db: the selected intervals ordered by chromosome, start,
//     end and origin index
//   - score.db: the selected intervals ordered by descending score and
//     then by position
//
// Each of the databases must be named as described here for
// audit-exemplar-db to understand their contents. Output from
// audit-exemplar-db is a JSON stream on stdout corresponding to the
// following Go struct, in the order of the store. Rank is the position
// of the interval in exemplar's output.
//
//	struct {
//		Chrom string
//		Start int64
//		End   int64
//		Score float64
//		Index int64
//		Rank  int
//	}
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/kortschak/exemplar/internal/store"
)

func main() {
	path := flag.String("db", "", "specify db file to audit (base must match '{position,score}.db')")
	limit := flag.Int("n", 0, "specify the maximum number of records to output (0 is all)")
	flag.Parse()
	switch filepath.Base(*path) {
	case store.PositionDB, store.ScoreDB:
	default:
		flag.Usage()
		os.Exit(2)
	}

	enc := json.NewEncoder(os.Stdout)
	var n int
	err := store.Walk(*path, func(k store.Key, rank int) error {
		if *limit > 0 && n >= *limit {
			return errLimit
		}
		n++
		return enc.Encode(record{
			Chrom: k.Chrom,
			Start: k.Start,
			End:   k.End,
			Score: k.Score,
			Index: k.Index,
			Rank:  rank,
		})
	})
	if err != nil && !errors.Is(err, errLimit) {
		log.Fatal(err)
	}
}

var errLimit = errors.New("limit reached")

type record struct {
	Chrom string
	Start int64
	End   int64
	Score float64
	Index int64
	Rank  int
}
