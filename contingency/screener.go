// SPDX-License-Identifier: MIT

package contingency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/gridsens/dcsolver"
	"github.com/katalvlaran/gridsens/matrix"
	"github.com/katalvlaran/gridsens/network"
	"github.com/katalvlaran/gridsens/sensitivity"
	"github.com/katalvlaran/gridsens/susceptance"
)

const opNewScreener = "contingency.NewScreener"

// Method names how a Result was computed.
type Method string

const (
	MethodWoodbury Method = "woodbury"
	MethodRefactor Method = "refactor"
)

// Violation is one branch loaded above the threshold.
type Violation struct {
	BranchID string
	FlowMW   float64 // absolute flow
	LimitMW  float64
	Loading  float64 // FlowMW / LimitMW
}

// Result is the exact evaluation of one contingency.
type Result struct {
	Contingency Contingency

	// Flows holds post-outage flows of every base branch; outaged ones are 0.
	Flows  map[string]float64
	Method Method

	// Islanded is set when the outage splits the network; Flows is nil then.
	Islanded bool

	MaxLoading float64
	MostLoaded string
	Violations []Violation

	// Err is the failure of this contingency alone.
	Err error
}

// Report collects the results of Run in input order.
type Report struct {
	Results  []Result
	Failed   int // Err != nil and not Islanded
	Islanded int
	Violated int // at least one violation
}

// Screener holds the factored base case shared by every evaluation.
// Immutable after NewScreener; safe for concurrent use.
type Screener struct {
	cfg  Config
	opts options
	log  *slog.Logger

	topo       *network.Topology
	sys        *susceptance.Matrix
	fact       *dcsolver.Factorization
	injections []float64 // full length, bus index order
	baseFlows  map[string]float64
	ptdf       *sensitivity.PTDF
	lodf       *sensitivity.LODF
	islanding  map[string]bool // outages with an undefined LODF column
	cond       float64         // 1-norm condition estimate of the reduced B′
}

// NewScreener builds B′, factors it, solves the base case and derives PTDF
// and LODF. injections maps bus ID to net injection in MW (generation
// positive); the slack absorbs the imbalance.
//
// Errors:
//   - ErrNilTopology; *ConfigError from cfg.Validate.
//   - Any susceptance.Build, dcsolver.Factorize or sensitivity error,
//     wrapped with the operation tag.
func NewScreener(topo *network.Topology, injections map[string]float64, cfg Config, opts ...Option) (*Screener, error) {
	if topo == nil {
		return nil, fmt.Errorf("%s: %w", opNewScreener, ErrNilTopology)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", opNewScreener, err)
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	o := gatherOptions(opts)

	sys, err := susceptance.Build(topo, o.build...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opNewScreener, err)
	}
	if c := sys.Clamped(); len(c) > 0 {
		o.logger.Warn("reactance clamped", slog.Any("branches", c))
	}
	fact, err := dcsolver.Factorize(sys, o.lu...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opNewScreener, err)
	}
	p, err := dcsolver.InjectionVector(sys, injections)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opNewScreener, err)
	}
	angles, err := fact.SolveFull(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opNewScreener, err)
	}
	flows, err := dcsolver.BranchFlows(sys, angles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opNewScreener, err)
	}
	ptdf, err := sensitivity.ComputePTDF(fact, sensitivity.WithWorkers(cfg.Workers))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opNewScreener, err)
	}
	lodf, err := sensitivity.ComputeLODF(ptdf, sys)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opNewScreener, err)
	}
	islanding := make(map[string]bool)
	if u := lodf.UndefinedOutages(); len(u) > 0 {
		for _, id := range u {
			islanding[id] = true
		}
		o.logger.Info("islanding outages", slog.Any("branches", u))
	}
	cond, err := fact.ConditionEstimate()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opNewScreener, err)
	}
	o.logger.Debug("base case ready",
		slog.Int("buses", sys.N()),
		slog.Int("branches", topo.NumBranches()),
		slog.Float64("min_pivot", fact.MinPivot()),
		slog.Float64("condition", cond))

	return &Screener{
		cfg:        cfg,
		opts:       o,
		log:        o.logger,
		topo:       topo,
		sys:        sys,
		fact:       fact,
		injections: p,
		baseFlows:  flows,
		ptdf:       ptdf,
		lodf:       lodf,
		islanding:  islanding,
		cond:       cond,
	}, nil
}

// Condition returns the base case's 1-norm condition estimate.
func (s *Screener) Condition() float64 { return s.cond }

// Config returns the effective configuration (Workers resolved).
func (s *Screener) Config() Config { return s.cfg }

// System returns the base susceptance matrix.
func (s *Screener) System() *susceptance.Matrix { return s.sys }

// PTDF returns the base-case PTDF.
func (s *Screener) PTDF() *sensitivity.PTDF { return s.ptdf }

// LODF returns the base-case LODF.
func (s *Screener) LODF() *sensitivity.LODF { return s.lodf }

// BaseFlows returns a copy of the pre-contingency branch flows.
func (s *Screener) BaseFlows() map[string]float64 {
	out := make(map[string]float64, len(s.baseFlows))
	for id, f := range s.baseFlows {
		out[id] = f
	}

	return out
}

// Contingencies returns N-1 and, if MaxOrder allows, N-2 for the base topology.
func (s *Screener) Contingencies() []Contingency { return UpTo(s.topo, s.cfg.MaxOrder) }

// Evaluate computes exact post-outage flows for c.
//
// Implementation:
//   - Stage 1: validate order and branch IDs.
//   - Stage 2: compose one Woodbury update per outaged branch on the base
//     factorization and solve the base injections.
//   - Stage 3: on dcsolver.ErrSingularUpdate, refactor the topology without
//     the outaged branches when FallbackToRefactor is set. A singular
//     refactorization (or a singular update without fallback) marks the
//     result Islanded.
//   - Stage 4: loading against limits.
//
// Evaluate never panics and never returns an error: failures land in
// Result.Err.
func (s *Screener) Evaluate(ctx context.Context, c Contingency) Result {
	res := Result{Contingency: c}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	if err := s.validate(c); err != nil {
		res.Err = err
		return res
	}

	flows, err := s.solveWoodbury(c)
	res.Method = MethodWoodbury
	if errors.Is(err, dcsolver.ErrSingularUpdate) {
		if !s.cfg.FallbackToRefactor {
			res.Islanded, res.Err = true, err
			s.log.Debug("singular update", slog.String("contingency", c.String()), slog.Any("err", err))
			return res
		}
		res.Method = MethodRefactor
		flows, err = s.solveRefactor(c)
		if errors.Is(err, matrix.ErrSingular) || errors.Is(err, network.ErrIslanded) {
			res.Islanded, res.Err = true, err
			s.log.Debug("outage islands network", slog.String("contingency", c.String()))
			return res
		}
	}
	if err != nil {
		res.Err = err
		s.log.Warn("evaluation failed", slog.String("contingency", c.String()), slog.Any("err", err))
		return res
	}

	res.Flows = flows
	res.MaxLoading, res.MostLoaded, res.Violations = s.loading(flows, nil)

	return res
}

// Run evaluates cs concurrently, at most Config.Workers at a time, and
// returns results in input order. Per-contingency failures are recorded in
// their Result. Cancelling ctx stops scheduling; unscheduled entries carry
// ctx.Err() and Run returns it alongside the partial report.
func (s *Screener) Run(ctx context.Context, cs []Contingency) (*Report, error) {
	rep := &Report{Results: make([]Result, len(cs))}
	scheduled := fanOut(ctx, len(cs), s.cfg.Workers, func(ctx context.Context, i int) {
		rep.Results[i] = s.Evaluate(ctx, cs[i])
	})
	for i := scheduled; i < len(cs); i++ {
		rep.Results[i] = Result{Contingency: cs[i], Err: ctx.Err()}
	}

	for i := range rep.Results {
		r := &rep.Results[i]
		switch {
		case r.Islanded:
			rep.Islanded++
		case r.Err != nil:
			rep.Failed++
		case len(r.Violations) > 0:
			rep.Violated++
		}
	}
	s.log.Info("contingency run complete",
		slog.Int("total", len(cs)),
		slog.Int("violated", rep.Violated),
		slog.Int("islanded", rep.Islanded),
		slog.Int("failed", rep.Failed))

	return rep, ctx.Err()
}

// fanOut calls fn(i) for i in [0,n) on an errgroup limited to workers and
// returns how many indices were scheduled before ctx was cancelled.
func fanOut(ctx context.Context, n, workers int, fn func(ctx context.Context, i int)) int {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	i := 0
	for ; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		idx := i
		g.Go(func() error {
			fn(gctx, idx)
			return nil
		})
	}
	// fn records failures in its own result slot and every goroutine
	// returns nil, so Wait only joins.
	_ = g.Wait()

	return i
}

// validate checks order and that every outage is a base branch.
func (s *Screener) validate(c Contingency) error {
	switch {
	case c.Order() == 0:
		return ErrEmptyContingency
	case c.Order() > s.cfg.MaxOrder:
		return fmt.Errorf("%w: %d > %d", ErrOrderExceeded, c.Order(), s.cfg.MaxOrder)
	}
	for _, id := range c.Outages {
		if _, ok := s.topo.BranchIndex(id); !ok {
			return fmt.Errorf("contingency %s: branch %q: %w", c, id, network.ErrUnknownBranch)
		}
	}

	return nil
}

// solveWoodbury composes the outages on the base factorization.
func (s *Screener) solveWoodbury(c Contingency) (map[string]float64, error) {
	solver := dcsolver.NewIncrementalSolver(s.fact)
	for _, id := range c.Outages {
		u, err := dcsolver.BranchOutage(s.sys, id)
		if err != nil {
			return nil, err
		}
		if solver, err = solver.WithUpdate(u); err != nil {
			return nil, err
		}
	}
	angles, err := solver.SolveFull(s.sys, s.injections)
	if err != nil {
		return nil, err
	}
	flows, err := dcsolver.BranchFlows(s.sys, angles)
	if err != nil {
		return nil, err
	}
	for _, id := range c.Outages {
		flows[id] = 0
	}

	return flows, nil
}

// solveRefactor builds and factors the post-outage network from scratch.
// Bus order is unchanged, so the base injection vector applies as is.
func (s *Screener) solveRefactor(c Contingency) (map[string]float64, error) {
	topo, err := s.topo.WithoutBranches(c.Outages...)
	if err != nil {
		return nil, err
	}
	sys, err := susceptance.Build(topo, s.opts.build...)
	if err != nil {
		return nil, err
	}
	f, err := dcsolver.Factorize(sys, s.opts.lu...)
	if err != nil {
		return nil, err
	}
	angles, err := f.SolveFull(s.injections)
	if err != nil {
		return nil, err
	}
	post, err := dcsolver.BranchFlows(sys, angles)
	if err != nil {
		return nil, err
	}
	flows := make(map[string]float64, len(s.baseFlows))
	for id := range s.baseFlows {
		flows[id] = post[id] // outaged branches are absent: 0
	}

	return flows, nil
}

// loading scans flows against limits, skipping IDs in skip.
func (s *Screener) loading(flows map[string]float64, skip map[string]bool) (maxLoading float64, mostLoaded string, violations []Violation) {
	for _, id := range s.sys.BranchIDs() {
		if skip[id] {
			continue
		}
		br, _ := s.topo.Branch(id)
		lim := s.cfg.limit(id, br.RatingMW)
		if lim <= 0 {
			continue
		}
		f := math.Abs(flows[id])
		ld := f / lim
		if ld > maxLoading {
			maxLoading, mostLoaded = ld, id
		}
		if ld > s.cfg.ThresholdFraction {
			violations = append(violations, Violation{BranchID: id, FlowMW: f, LimitMW: lim, Loading: ld})
		}
	}

	return maxLoading, mostLoaded, violations
}
