// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// windows builds candidate intervals for exemplar from binned signal.
// Bins are read from stdin and windows of span consecutive contiguous bins,
// advancing step bins at a time, are written to stdout scored by the max
// or mean of their bin scores.
//
// If extend is given, each window is grown by that many bases on both
// sides, and windows that would run off the end of a chromosome are
// dropped. Chromosome lengths are taken from a FASTA index given by the
// fai flag, or by indexing the reference given by the ref flag.
//
// usage: windows -span 1 -step 1 [-extend 12000 -fai ref.fa.fai] < bins.bed > windows.bed
package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/kortschak/exemplar/interval"
	"github.com/kortschak/exemplar/window"
)

func main() {
	format := flag.String("format", "bed", "specify the interval format (bed or gff)")
	span := flag.Int("span", 1, "specify the number of bins in each window")
	step := flag.Int("step", 1, "specify the number of bins between window starts")
	method := flag.String("method", "max", "specify the bin score aggregation method (max or mean)")
	extend := flag.Int("extend", 0, "specify the number of bases to extend windows by on each side")
	faiPath := flag.String("fai", "", "specify a FASTA index for chromosome lengths")
	refPath := flag.String("ref", "", "specify a FASTA reference for chromosome lengths")
	flag.Parse()

	if *faiPath != "" && *refPath != "" {
		flag.Usage()
		os.Exit(2)
	}

	var lengths map[string]int
	switch {
	case *faiPath != "":
		l, err := lengthsFrom(*faiPath, window.ReadLengths)
		if err != nil {
			log.Fatal(err)
		}
		lengths = l
	case *refPath != "":
		log.Println("indexing reference")
		l, err := lengthsFrom(*refPath, window.IndexLengths)
		if err != nil {
			log.Fatal(err)
		}
		lengths = l
	}

	bins, err := interval.Read(os.Stdin, *format)
	if err != nil {
		log.Fatalf("failed to read bins: %v", err)
	}
	windows, err := window.Aggregate(bins, *span, *step, window.Method(*method))
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("built %d windows from %d bins", len(windows), len(bins))
	if *extend != 0 {
		n := len(windows)
		windows, err = window.Extend(windows, *extend, lengths)
		if err != nil {
			log.Fatal(err)
		}
		if n != len(windows) {
			log.Printf("dropped %d windows extending beyond chromosome ends", n-len(windows))
		}
	}

	err = interval.Write(os.Stdout, windows, *format)
	if err != nil {
		log.Fatalf("failed to write windows: %v", err)
	}
}

func lengthsFrom(path string, read func(io.Reader) (map[string]int, error)) (map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return read(f)
}
