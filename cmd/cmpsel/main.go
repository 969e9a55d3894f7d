// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The cmpsel program compares two interval selections, for example the
// output of exemplar run with two different strategies. The output of the
// analysis is the number of bases covered by both selections, the number
// covered by only one of them, the Jaccard index of the covered bases and
// summary statistics for each selection, emitted on stdout as a JSON object.
//
// If a dot flag is provided, the overlaps between intervals of the two
// selections are written as a graph in DOT format, with edge weights
// representing counts of shared bases.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/biogo/store/step"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/kortschak/exemplar/interval"
	"github.com/kortschak/exemplar/selection"
)

func main() {
	aFile := flag.String("a", "", "specify the input file a name (required)")
	bFile := flag.String("b", "", "specify the input file b name (required)")
	format := flag.String("format", "bed", "specify the interval format (bed or gff)")
	out := flag.String("dot", "", "specify a path for a DOT file describing overlaps")

	flag.Parse()
	if *aFile == "" || *bFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	a, err := read(*aFile, *format)
	if err != nil {
		log.Fatal(err)
	}
	b, err := read(*bFile, *format)
	if err != nil {
		log.Fatal(err)
	}

	vecs := make(map[string]*step.Vector)
	err = mark(vecs, a, func(p pair, i int) pair { p.a = i + 1; return p })
	if err != nil {
		log.Fatal(err)
	}
	err = mark(vecs, b, func(p pair, i int) pair { p.b = i + 1; return p })
	if err != nil {
		log.Fatal(err)
	}

	var chroms []string
	for c := range vecs {
		chroms = append(chroms, c)
	}
	sort.Strings(chroms)

	var (
		both    int
		aOnly   int
		bOnly   int
		overlap = make(map[pair]int)
	)
	for _, chr := range chroms {
		vecs[chr].Do(func(start, end int, e step.Equaler) {
			p := e.(pair)
			len := end - start
			switch {
			case p.a != 0 && p.b != 0:
				both += len
				overlap[p] += len
			case p.a != 0:
				aOnly += len
			case p.b != 0:
				bOnly += len
			}
		})
	}

	type report struct {
		Both    int               `json:"both"`
		AOnly   int               `json:"a-only"`
		BOnly   int               `json:"b-only"`
		Jaccard float64           `json:"jaccard"`
		A       selection.Summary `json:"a"`
		B       selection.Summary `json:"b"`
	}
	r := report{
		Both:  both,
		AOnly: aOnly,
		BOnly: bOnly,
		A:     selection.Summarize(a),
		B:     selection.Summarize(b),
	}
	if union := both + aOnly + bOnly; union != 0 {
		r.Jaccard = float64(both) / float64(union)
	}
	m, err := json.Marshal(r)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s\n", m)

	if *out != "" {
		err = dotOut(*out, *aFile, *bFile, a, b, overlap)
		if err != nil {
			log.Fatal(err)
		}
	}
}

func read(path, format string) ([]interval.Scored, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ivs, err := interval.Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	err = interval.CheckDisjoint(ivs, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ivs, nil
}

// mark records the position in ivs of the interval covering each base
// using set.
func mark(vecs map[string]*step.Vector, ivs []interval.Scored, set func(pair, int) pair) error {
	for i, iv := range ivs {
		v, ok := vecs[iv.Chrom]
		if !ok {
			var err error
			v, err = step.New(0, 1, pair{})
			if err != nil {
				return err
			}
			v.Relaxed = true
			vecs[iv.Chrom] = v
		}
		err := v.ApplyRange(iv.Start, iv.End, func(e step.Equaler) step.Equaler {
			return set(e.(pair), i)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// pair is a step vector element holding one plus the position of the
// intervals covering a base in each selection, or zero if the base is
// not covered.
type pair struct {
	a, b int
}

func (p pair) Equal(e step.Equaler) bool {
	return p == e.(pair)
}

func dotOut(path, aFile, bFile string, a, b []interval.Scored, edges map[pair]int) error {
	g := newSpanGraph()
	for p, w := range edges {
		e := edge{
			f: g.nodeFor(aFile, a[p.a-1]),
			t: g.nodeFor(bFile, b[p.b-1]),
			w: float64(w),
		}
		g.SetWeightedEdge(e)
	}
	buf, err := dot.Marshal(g, "overlap", "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o664)
}

type spanGraph struct {
	*simple.WeightedUndirectedGraph
	idFor map[string]int64
}

func newSpanGraph() spanGraph {
	return spanGraph{
		WeightedUndirectedGraph: simple.NewWeightedUndirectedGraph(0, 0),
		idFor:                   make(map[string]int64),
	}
}

func (g spanGraph) nodeFor(file string, iv interval.Scored) graph.Node {
	s := file + ":" + iv.String()
	id, ok := g.idFor[s]
	if ok {
		return g.Node(id)
	}
	id = g.WeightedUndirectedGraph.NewNode().ID()
	g.idFor[s] = id
	n := node{id: id, name: s}
	g.AddNode(n)
	return n
}

type node struct {
	id   int64
	name string
}

func (n node) ID() int64     { return n.id }
func (n node) DOTID() string { return n.name }

type edge struct {
	f, t graph.Node
	w    float64
}

func (e edge) From() graph.Node         { return e.f }
func (e edge) To() graph.Node           { return e.t }
func (e edge) ReversedEdge() graph.Edge { return edge{f: e.t, t: e.f, w: e.w} }
func (e edge) Weight() float64          { return e.w }
func (e edge) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "weight", Value: fmt.Sprint(e.w)}}
}
