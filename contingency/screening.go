// SPDX-License-Identifier: MIT

package contingency

import (
	"context"
	"fmt"
	"log/slog"
)

// ScreeningResult is the LODF estimate for one contingency.
type ScreeningResult struct {
	Contingency Contingency
	MaxLoading  float64
	MostLoaded  string // empty when no surviving branch has a limit
	Flagged     bool   // MaxLoading > threshold
	Violations  []Violation

	// Undefined lists outages whose LODF column is undefined (islanding);
	// their redistribution is left out of the estimate.
	Undefined []string

	Err error
}

// ScreeningReport collects Screen results in input order.
type ScreeningReport struct {
	Results    []ScreeningResult
	NumFlagged int
	Threshold  float64
}

// Flagged returns the results that need an exact evaluation.
func (r *ScreeningReport) Flagged() []ScreeningResult {
	out := make([]ScreeningResult, 0, r.NumFlagged)
	for _, res := range r.Results {
		if res.Flagged {
			out = append(out, res)
		}
	}

	return out
}

// Contingencies returns the flagged contingencies, ready for Run.
func (r *ScreeningReport) Contingencies() []Contingency {
	out := make([]Contingency, 0, r.NumFlagged)
	for _, res := range r.Results {
		if res.Flagged {
			out = append(out, res.Contingency)
		}
	}

	return out
}

// Summary renders a one-line digest, e.g.
// "N-k screening: 3/36 flagged (91.7% pass rate) at 90% threshold".
func (r *ScreeningReport) Summary() string {
	total := len(r.Results)
	pass := 100 * (1 - float64(r.NumFlagged)/float64(max(total, 1)))

	return fmt.Sprintf("N-k screening: %d/%d flagged (%.1f%% pass rate) at %.0f%% threshold",
		r.NumFlagged, total, pass, r.Threshold*100)
}

// Screen estimates post-outage flows of cs with the base LODF:
//
//	f̂_ℓ = f_ℓ + Σ_m LODF[ℓ,m]·f_m   over outaged m, finite factors only
//
// and flags every contingency whose highest surviving loading exceeds
// ThresholdFraction. Screen ignores MaxOrder: the estimate is linear in k.
//
// Complexity: O(|cs|·L·k).
func (s *Screener) Screen(cs []Contingency) *ScreeningReport {
	rep := &ScreeningReport{Results: make([]ScreeningResult, len(cs)), Threshold: s.cfg.ThresholdFraction}
	fanOut(context.Background(), len(cs), s.cfg.Workers, func(_ context.Context, i int) {
		rep.Results[i] = s.screenOne(cs[i])
	})
	for _, res := range rep.Results {
		if res.Flagged {
			rep.NumFlagged++
		}
	}
	s.log.Info("screening complete", slog.String("summary", rep.Summary()))

	return rep
}

// screenOne estimates a single contingency.
func (s *Screener) screenOne(c Contingency) ScreeningResult {
	res := ScreeningResult{Contingency: c}
	if c.Order() == 0 {
		res.Err = ErrEmptyContingency
		return res
	}
	out := make(map[string]bool, c.Order())
	for _, m := range c.Outages {
		out[m] = true
		if s.islanding[m] {
			res.Undefined = append(res.Undefined, m)
		}
	}

	est := make(map[string]float64, len(s.baseFlows))
	for l, base := range s.baseFlows {
		if out[l] {
			continue
		}
		f := base
		for _, m := range c.Outages {
			fac, err := s.lodf.Factor(l, m)
			if err != nil {
				res.Err = fmt.Errorf("contingency %s: %w", c, err)
				return res
			}
			if fac.Defined {
				f += fac.Value * s.baseFlows[m]
			}
		}
		est[l] = f
	}

	res.MaxLoading, res.MostLoaded, res.Violations = s.loading(est, out)
	res.Flagged = res.MaxLoading > s.cfg.ThresholdFraction

	return res
}
