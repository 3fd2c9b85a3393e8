package trust

import (
	"math"
	"testing"

	"github.com/danielpatrickdp/loopgate/internal/enrich"
	"github.com/danielpatrickdp/loopgate/internal/plan"
	"github.com/danielpatrickdp/loopgate/internal/signals"
)

func f32(v float32) *float32 { return &v }

func enriched(p plan.LoopPlan, a signals.Extraction) enrich.EnrichedPlan {
	return enrich.EnrichedPlan{Plan: p, Analysis: a}
}

func near(t *testing.T, got, want float32, label string) {
	t.Helper()
	if math.Abs(float64(got-want)) > 1e-5 {
		t.Errorf("%s: expected %.4f, got %.4f", label, want, got)
	}
}

// #region delta-tests

func TestDeltaUndefinedShortCircuits(t *testing.T) {
	ev := NewEvaluator(DefaultConfig())

	e := enriched(plan.LoopPlan{
		TrustUndefined:        true,
		BeliefAlignment:       1.0,
		SuccessfulCompletions: 5,
	}, signals.Extraction{})

	near(t, ev.Delta(e), -0.5, "undefined delta")
}

func TestDeltaPromptTrustUnknownShortCircuits(t *testing.T) {
	ev := NewEvaluator(DefaultConfig())
	e := enriched(plan.LoopPlan{}, signals.Extraction{TrustUnknown: true})
	near(t, ev.Delta(e), -0.5, "prompt trust-unknown delta")
}

func TestDeltaAccumulation(t *testing.T) {
	ev := NewEvaluator(DefaultConfig())

	e := enriched(plan.LoopPlan{
		Contradictions: []plan.Contradiction{
			{ID: "c1", Severity: plan.SeverityLow},
			{ID: "c2", Severity: plan.SeverityCritical},
		},
		UncertaintyLevel:      0.5,
		BeliefAlignment:       0.8,
		SuccessfulCompletions: 3,
		SafetyViolations:      []map[string]any{{"kind": "io"}},
	}, signals.Extraction{AgentDisagreement: true})

	// -0.1*2 - 0.2*0.5 + 0.2*0.8 + 0.05*3 - 0.3*1 - 0.2 = -0.49
	near(t, ev.Delta(e), -0.49, "accumulated delta")
}

func TestDeltaCompletionCap(t *testing.T) {
	ev := NewEvaluator(DefaultConfig())
	e := enriched(plan.LoopPlan{SuccessfulCompletions: 50}, signals.Extraction{})
	near(t, ev.Delta(e), 0.25, "capped completion reward")
}

func TestDeltaNegativeAlignmentIgnored(t *testing.T) {
	ev := NewEvaluator(DefaultConfig())
	e := enriched(plan.LoopPlan{BeliefAlignment: -0.9}, signals.Extraction{})
	near(t, ev.Delta(e), 0, "negative alignment")
}

func TestDeltaMayExceedUnitRange(t *testing.T) {
	ev := NewEvaluator(DefaultConfig())

	e := enriched(plan.LoopPlan{
		SafetyViolations: []map[string]any{{}, {}, {}, {}, {}},
	}, signals.Extraction{})

	if d := ev.Delta(e); d > -1.0 {
		t.Errorf("expected delta below -1 for five violations, got %.3f", d)
	}
}

// #endregion delta-tests

// #region score-tests

func TestScoreUndefined(t *testing.T) {
	ev := NewEvaluator(DefaultConfig())
	e := enriched(plan.LoopPlan{TrustUndefined: true, TrustScore: f32(0.9)}, signals.Extraction{})
	if ev.Score(e) != nil {
		t.Error("undefined trust must yield a nil score, never a sentinel")
	}
}

func TestScoreExplicitValueWins(t *testing.T) {
	ev := NewEvaluator(DefaultConfig())

	e := enriched(plan.LoopPlan{
		TrustScore:       f32(0.85),
		UncertaintyLevel: 1.0,
		SafetyViolations: []map[string]any{{}},
	}, signals.Extraction{TrustThreshold: f32(0.2)})

	score := ev.Score(e)
	if score == nil {
		t.Fatal("expected a score")
	}
	near(t, *score, 0.85, "explicit score")
}

func TestScoreExplicitValueClamped(t *testing.T) {
	ev := NewEvaluator(DefaultConfig())

	for _, tc := range []struct {
		raw  float32
		want float32
	}{
		{1.7, 1.0},
		{-0.3, 0.0},
	} {
		e := enriched(plan.LoopPlan{TrustScore: f32(tc.raw)}, signals.Extraction{})
		score := ev.Score(e)
		if score == nil {
			t.Fatal("expected a score")
		}
		near(t, *score, tc.want, "clamped explicit score")
	}
}

func TestScoreTrustThresholdBranch(t *testing.T) {
	ev := NewEvaluator(DefaultConfig())
	e := enriched(plan.LoopPlan{}, signals.Extraction{TrustThreshold: f32(0.6)})

	score := ev.Score(e)
	if score == nil {
		t.Fatal("expected a score")
	}
	near(t, *score, 0.5, "threshold-derived score")
}

func TestScoreBasePlusDelta(t *testing.T) {
	ev := NewEvaluator(DefaultConfig())
	e := enriched(plan.LoopPlan{UncertaintyLevel: 0.5}, signals.Extraction{})

	score := ev.Score(e)
	if score == nil {
		t.Fatal("expected a score")
	}
	// 0.5 + (-0.2*0.5) = 0.4
	near(t, *score, 0.4, "base plus delta")
}

func TestScoreAlwaysInUnitRange(t *testing.T) {
	ev := NewEvaluator(DefaultConfig())

	e := enriched(plan.LoopPlan{
		SafetyViolations: []map[string]any{{}, {}, {}, {}},
	}, signals.Extraction{})

	score := ev.Score(e)
	if score == nil {
		t.Fatal("expected a score")
	}
	if *score < 0 || *score > 1 {
		t.Errorf("score %.3f out of [0, 1]", *score)
	}
}

// #endregion score-tests

// #region sufficiency-tests

func TestSufficientUndefinedNever(t *testing.T) {
	ev := NewEvaluator(DefaultConfig())
	e := enriched(plan.LoopPlan{TrustUndefined: true}, signals.Extraction{})

	ok, score := ev.Sufficient(e)
	if ok {
		t.Error("undefined trust must never be sufficient")
	}
	if score != nil {
		t.Error("expected nil score alongside insufficiency")
	}
}

func TestSufficientComparesThreshold(t *testing.T) {
	ev := NewEvaluator(DefaultConfig())

	ok, score := ev.Sufficient(enriched(plan.LoopPlan{TrustScore: f32(0.3)}, signals.Extraction{}))
	if !ok {
		t.Error("score equal to the minimum must be sufficient")
	}
	near(t, *score, 0.3, "boundary score")

	ok, _ = ev.Sufficient(enriched(plan.LoopPlan{TrustScore: f32(0.29)}, signals.Extraction{}))
	if ok {
		t.Error("score below the minimum must be insufficient")
	}
}

// #endregion sufficiency-tests
