// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package selection selects large high scoring sets of pairwise disjoint
// genomic intervals using one of several strategies. Each chromosome is
// an independent selection problem and chromosomes are processed
// concurrently.
package selection

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/kortschak/exemplar/alias"
	"github.com/kortschak/exemplar/greedy"
	"github.com/kortschak/exemplar/interval"
	"github.com/kortschak/exemplar/topk"
	"github.com/kortschak/exemplar/wis"
)

// Status is the outcome of a selection.
type Status int

const (
	// Complete indicates that no target was given and the
	// strategy ran to its natural end.
	Complete Status = iota

	// TargetReached indicates the target number of intervals
	// was selected.
	TargetReached

	// UnderTarget indicates fewer than the target number of
	// intervals were selected, either because the alias sampling
	// budget was exhausted or because the optimal disjoint set
	// is smaller than the target.
	UnderTarget

	// Exhausted indicates the greedy heap was emptied before
	// the target was reached.
	Exhausted

	// Failed indicates the chromosome could not be processed.
	Failed
)

var statusNames = []string{
	Complete:      "complete",
	TargetReached: "target-reached",
	UnderTarget:   "under-target",
	Exhausted:     "exhausted",
	Failed:        "failed",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Chromosome is the outcome of selection on a single chromosome.
type Chromosome struct {
	Name string `json:"name"`

	// Candidates is the number of input intervals.
	Candidates int `json:"candidates"`

	// Target is the number of intervals sought on this
	// chromosome. Zero indicates no target. For alias sampling
	// it is the chromosome's share of K, and for the greedy
	// strategies it is K, the most the chromosome can contribute.
	Target int `json:"target,omitempty"`

	// Tried is the number of draws for alias sampling, pops for
	// the greedy strategies and candidates for scheduling.
	// Rejected is the number of those not accepted.
	Tried    int `json:"tried"`
	Rejected int `json:"rejected"`

	// Accepted is the number of intervals the strategy accepted
	// and Selected is the number retained in the final set.
	Accepted int `json:"accepted"`
	Selected int `json:"selected"`

	// Total is the sum of scores of retained intervals.
	Total float64 `json:"total"`

	// Status is the outcome on the chromosome. For the greedy
	// strategies with a target it is the status of the whole run,
	// since the genome-wide cut decides what each chromosome keeps.
	Status Status `json:"status"`
	Err    error  `json:"-"`
	Error  string `json:"error,omitempty"`

	intervals []interval.Scored
	keys      []greedy.Candidate
}

// Result is the outcome of a selection run.
type Result struct {
	Strategy Strategy `json:"strategy"`
	K        int      `json:"k"`

	// Selected is the final disjoint set ordered by chromosome
	// in input order and then by position.
	Selected []interval.Scored `json:"-"`

	Status    Status `json:"status"`
	Shortfall int    `json:"shortfall"`
	Failures  int    `json:"failures"`

	Summary     Summary      `json:"summary"`
	Chromosomes []Chromosome `json:"chromosomes"`
}

// Err returns the chromosome errors of the run joined, or nil if no
// chromosome failed.
func (r *Result) Err() error {
	var errs []error
	for _, c := range r.Chromosomes {
		if c.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, c.Err))
		}
	}
	return errors.Join(errs...)
}

// Run selects pairwise disjoint intervals from ivs according to cfg.
//
// Run returns an error if cfg is invalid, if any interval is malformed,
// in which case no selection is done, or if ctx is cancelled before all
// chromosomes have started. Failures during selection on a chromosome
// are recorded in the result and do not affect other chromosomes.
func Run(ctx context.Context, ivs []interval.Scored, cfg Config) (*Result, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	parts, err := interval.Partition(ivs)
	if err != nil {
		return nil, err
	}

	targets := make([]int, len(parts))
	switch cfg.Strategy {
	case AliasSampling:
		targets = quotas(parts, cfg.K)
	case GreedyHeap, GreedyHeapJittered:
		// No chromosome can contribute more than K
		// to a genome-wide greedy selection.
		for i := range targets {
			targets[i] = cfg.K
		}
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	res := &Result{
		Strategy:    cfg.Strategy,
		K:           cfg.K,
		Chromosomes: make([]Chromosome, len(parts)),
	}
	all := make([]int, len(parts))
	for i := range all {
		all[i] = i
	}
	err = res.run(ctx, parts, all, targets, cfg, workers)
	if err != nil {
		return nil, err
	}
	if cfg.Strategy == AliasSampling && cfg.K > 0 {
		err = res.redistribute(ctx, parts, targets, cfg, workers)
		if err != nil {
			return nil, err
		}
	}

	res.merge(cfg)
	res.Summary = Summarize(res.Selected)
	return res, nil
}

// run selects intervals on the chromosomes of parts indexed by which,
// storing each outcome in the corresponding slot of r.Chromosomes.
func (r *Result) run(ctx context.Context, parts []interval.Chromosome, which, targets []int, cfg Config, workers int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, i := range which {
		g.Go(func() error {
			err := ctx.Err()
			if err != nil {
				return err
			}
			r.Chromosomes[i] = selectChromosome(parts[i], targets[i], cfg, rand.NewSource(cfg.Seed+uint64(i)))
			return nil
		})
	}
	return g.Wait()
}

// redistribute hands the alias sampling shortfall of chromosomes that
// spent their budget before reaching their quota to the chromosomes that
// reached theirs, in proportion to total score, until K is reached or no
// chromosome can take more. A chromosome is resampled from the start with
// its own seed, so its earlier acceptances are reproduced before sampling
// continues towards the larger target.
func (r *Result) redistribute(ctx context.Context, parts []interval.Chromosome, targets []int, cfg Config, workers int) error {
	for {
		var (
			accepted int
			open     []int
		)
		for i, c := range r.Chromosomes {
			accepted += c.Accepted
			if c.Status == TargetReached {
				open = append(open, i)
			}
		}
		short := cfg.K - accepted
		if short <= 0 || len(open) == 0 {
			return nil
		}

		sub := make([]interval.Chromosome, len(open))
		for j, i := range open {
			sub[j] = parts[i]
		}
		var grow []int
		for j, n := range quotas(sub, short) {
			if n == 0 {
				continue
			}
			targets[open[j]] += n
			grow = append(grow, open[j])
		}
		if len(grow) == 0 {
			return nil
		}
		err := r.run(ctx, parts, grow, targets, cfg, workers)
		if err != nil {
			return err
		}
	}
}

// selectChromosome runs the configured strategy on a single chromosome.
func selectChromosome(p interval.Chromosome, target int, cfg Config, src rand.Source) Chromosome {
	c := Chromosome{
		Name:       p.Name,
		Candidates: len(p.Intervals),
		Target:     target,
	}
	switch cfg.Strategy {
	case AliasSampling:
		if cfg.K > 0 && target == 0 && interval.Total(p.Intervals) > 0 {
			c.Status = TargetReached
			break
		}
		r, err := alias.Select(p.Intervals, target, alias.Budget{
			Rejections: cfg.RejectionBudget,
			Draws:      cfg.DrawBudget,
		}, rand.New(src))
		if err != nil {
			c.Status = Failed
			c.Err = err
			c.Error = err.Error()
			break
		}
		c.intervals = r.Selected
		c.Tried = r.Draws
		c.Rejected = r.Rejections
		switch {
		case target == 0:
			c.Status = Complete
		case r.Reached:
			c.Status = TargetReached
		default:
			c.Status = UnderTarget
		}

	case GreedyHeap, GreedyHeapJittered:
		var cands []greedy.Candidate
		if cfg.Strategy == GreedyHeapJittered {
			cands = greedy.Jittered(p.Intervals, cfg.JitterScale, src)
		} else {
			cands = greedy.Candidates(p.Intervals)
		}
		r := greedy.NewSelector(greedy.ByKey).Select(cands, target)
		c.keys = r.Selected
		c.intervals = r.Intervals()
		c.Tried = r.Pops
		c.Rejected = r.Rejections
		switch {
		case target == 0:
			c.Status = Complete
		case r.Exhausted:
			c.Status = Exhausted
		default:
			c.Status = TargetReached
		}

	case WeightedIntervalScheduling:
		c.intervals, _ = wis.Schedule(p.Intervals)
		c.Tried = len(p.Intervals)
		c.Rejected = len(p.Intervals) - len(c.intervals)
		c.Status = Complete

	default:
		panic(fmt.Sprintf("selection: unknown strategy %q", cfg.Strategy))
	}
	c.Accepted = len(c.intervals)
	return c
}

// merge collects the chromosome selections into the final set,
// applying the genome-wide target.
func (r *Result) merge(cfg Config) {
	rank := make(map[string]int, len(r.Chromosomes))
	for i, c := range r.Chromosomes {
		rank[c.Name] = i
		if c.Status == Failed {
			r.Failures++
		}
	}

	switch cfg.Strategy {
	case GreedyHeap, GreedyHeapJittered:
		// Each chromosome's acceptances are in priority order and
		// depend only on earlier acceptances on that chromosome, so
		// the best K of all acceptances by key is exactly the result
		// of a single genome-wide greedy pass.
		var all []greedy.Candidate
		for _, c := range r.Chromosomes {
			all = append(all, c.keys...)
		}
		if cfg.K > 0 && len(all) > cfg.K {
			sort.Slice(all, func(i, j int) bool { return greedy.ByKey(all[j], all[i]) })
			all = all[:cfg.K]
		}
		r.Selected = make([]interval.Scored, len(all))
		for i, c := range all {
			r.Selected[i] = c.Scored
		}

	case WeightedIntervalScheduling:
		for _, c := range r.Chromosomes {
			r.Selected = append(r.Selected, c.intervals...)
		}
		if cfg.K > 0 {
			r.Selected, _ = topk.Extract(r.Selected, cfg.K)
		}

	default:
		for _, c := range r.Chromosomes {
			r.Selected = append(r.Selected, c.intervals...)
		}
	}
	interval.SortByPosition(r.Selected, rank)

	for _, iv := range r.Selected {
		c := &r.Chromosomes[rank[iv.Chrom]]
		c.Selected++
		c.Total += iv.Score
	}

	switch {
	case cfg.K == 0:
		r.Status = Complete
	case len(r.Selected) >= cfg.K:
		r.Status = TargetReached
	case cfg.Strategy == GreedyHeap || cfg.Strategy == GreedyHeapJittered:
		r.Status = Exhausted
		r.Shortfall = cfg.K - len(r.Selected)
	default:
		r.Status = UnderTarget
		r.Shortfall = cfg.K - len(r.Selected)
	}

	if cfg.K > 0 && (cfg.Strategy == GreedyHeap || cfg.Strategy == GreedyHeapJittered) {
		// A run short of K has exhausted every chromosome's heap.
		for i := range r.Chromosomes {
			r.Chromosomes[i].Status = r.Status
		}
	}
}

// quotas apportions k between chromosomes in proportion to their total
// score using the largest remainder method. Ties in remainder favour
// earlier chromosomes.
func quotas(parts []interval.Chromosome, k int) []int {
	q := make([]int, len(parts))
	if k == 0 {
		return q
	}
	weights := make([]float64, len(parts))
	var sum float64
	for i, p := range parts {
		weights[i] = interval.Total(p.Intervals)
		sum += weights[i]
	}
	if sum == 0 {
		return q
	}

	type remainder struct {
		idx  int
		frac float64
	}
	rem := make([]remainder, len(parts))
	left := k
	for i, w := range weights {
		exact := float64(k) * w / sum
		q[i] = int(math.Floor(exact))
		left -= q[i]
		rem[i] = remainder{idx: i, frac: exact - float64(q[i])}
	}
	sort.SliceStable(rem, func(i, j int) bool { return rem[i].frac > rem[j].frac })
	for i := 0; left > 0 && i < len(rem); i++ {
		if weights[rem[i].idx] == 0 {
			continue
		}
		q[rem[i].idx]++
		left--
	}
	return q
}
