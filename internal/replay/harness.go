package replay

import (
	"fmt"

	"github.com/danielpatrickdp/loopgate/internal/guard"
	"github.com/danielpatrickdp/loopgate/internal/signals"
)

// #region types

// Result captures the outcome of replaying one plan through the gate.
type Result struct {
	Name           string
	ExpectedStatus string
	Decision       guard.Decision
	Match          bool
	Err            error // decode failure; the gate itself never errors
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalPlans int
	Matches    int
	Mismatches int
	Errors     int
	ByStatus   map[string]int
}

// #endregion types

// #region replay

// Replay runs every plan in the fixture through a fresh guard and compares
// each decision against the fixture's expectations. Operates entirely
// in-memory; the guard is built without a telemetry sink.
func Replay(f *Fixture) ([]Result, error) {
	extractor, err := signals.NewKeywordExtractor()
	if err != nil {
		return nil, fmt.Errorf("build extractor: %w", err)
	}
	g := guard.New(extractor, f.Config.ToGuardConfig(), nil)

	results := make([]Result, 0, len(f.Plans))
	for _, fp := range f.Plans {
		p, err := fp.ToPlan()
		if err != nil {
			results = append(results, Result{
				Name:           fp.Name,
				ExpectedStatus: fp.ExpectedStatus,
				Err:            err,
			})
			continue
		}
		decision := g.Evaluate(p)
		results = append(results, Result{
			Name:           fp.Name,
			ExpectedStatus: fp.ExpectedStatus,
			Decision:       decision,
			Match:          string(decision.Status) == fp.ExpectedStatus,
		})
	}
	return results, nil
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []Result) Summary {
	s := Summary{
		TotalPlans: len(results),
		ByStatus:   make(map[string]int),
	}
	for _, r := range results {
		if r.Err != nil {
			s.Errors++
			continue
		}
		s.ByStatus[string(r.Decision.Status)]++
		if r.Match {
			s.Matches++
		} else {
			s.Mismatches++
		}
	}
	return s
}

// #endregion replay
