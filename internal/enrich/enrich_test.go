package enrich

import (
	"reflect"
	"testing"

	"github.com/danielpatrickdp/loopgate/internal/plan"
	"github.com/danielpatrickdp/loopgate/internal/signals"
)

func keywordExtractor(t *testing.T) signals.Extractor {
	t.Helper()
	e, err := signals.NewKeywordExtractor()
	if err != nil {
		t.Fatalf("NewKeywordExtractor: %v", err)
	}
	return e
}

func f32(v float32) *float32 { return &v }

func TestEnrichSetsConfidenceBelowThreshold(t *testing.T) {
	ex := keywordExtractor(t)
	p := plan.LoopPlan{Prompt: "pause if confidence is under 50%"}

	e := Enrich(p, ex)

	if e.Plan.Confidence == nil {
		t.Fatal("expected confidence to be derived")
	}
	if got := *e.Plan.Confidence; got < 0.39 || got > 0.41 {
		t.Errorf("expected confidence just under 0.5, got %.3f", got)
	}
}

func TestEnrichKeepsExplicitConfidence(t *testing.T) {
	ex := keywordExtractor(t)
	p := plan.LoopPlan{
		Prompt:     "pause if confidence is under 50%",
		Confidence: f32(0.9),
	}

	e := Enrich(p, ex)

	if *e.Plan.Confidence != 0.9 {
		t.Errorf("explicit confidence must win, got %.3f", *e.Plan.Confidence)
	}
}

func TestEnrichTrustUnknownDropsScore(t *testing.T) {
	ex := keywordExtractor(t)
	p := plan.LoopPlan{
		Prompt:     "trust is unknown for this run",
		TrustScore: f32(0.8),
	}

	e := Enrich(p, ex)

	if !e.Plan.TrustUndefined {
		t.Error("expected trust_undefined to be set")
	}
	if e.Plan.TrustScore != nil {
		t.Error("expected numeric trust score to be dropped")
	}
}

func TestEnrichAppendsCriticalDisagreement(t *testing.T) {
	ex := keywordExtractor(t)
	p := plan.LoopPlan{Prompt: "HAL and CRITIC disagree on the next step"}

	e := Enrich(p, ex)

	if len(e.Plan.Contradictions) != 1 {
		t.Fatalf("expected 1 contradiction, got %d", len(e.Plan.Contradictions))
	}
	c := e.Plan.Contradictions[0]
	if c.ID != DisagreementContradictionID {
		t.Errorf("expected synthetic ID, got %s", c.ID)
	}
	if c.Severity != plan.SeverityCritical {
		t.Errorf("expected critical severity, got %s", c.Severity)
	}
}

func TestEnrichIsIdempotent(t *testing.T) {
	ex := keywordExtractor(t)
	p := plan.LoopPlan{
		Prompt:         "HAL and CRITIC disagree; confidence is under 60%; trust is unknown",
		Contradictions: []plan.Contradiction{{ID: "c1", Severity: plan.SeverityLow}},
	}

	once := Enrich(p, ex)
	twice := Enrich(once.Plan, ex)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("enrichment must be idempotent\nonce:  %+v\ntwice: %+v", once, twice)
	}
	if len(twice.Plan.Contradictions) != 2 {
		t.Errorf("expected 2 contradictions after double enrichment, got %d", len(twice.Plan.Contradictions))
	}
}

func TestEnrichDoesNotMutateInput(t *testing.T) {
	ex := keywordExtractor(t)
	p := plan.LoopPlan{
		Prompt:         "HAL and CRITIC disagree",
		TrustScore:     f32(0.7),
		Contradictions: []plan.Contradiction{{ID: "c1", Severity: plan.SeverityLow}},
	}

	_ = Enrich(p, ex)

	if len(p.Contradictions) != 1 {
		t.Errorf("input contradictions mutated: %d entries", len(p.Contradictions))
	}
	if p.TrustScore == nil || *p.TrustScore != 0.7 {
		t.Error("input trust score mutated")
	}
	if p.Confidence != nil {
		t.Error("input confidence mutated")
	}
}

func TestEnrichNestedLoopDataPrompt(t *testing.T) {
	ex := keywordExtractor(t)
	p := plan.LoopPlan{LoopData: plan.LoopData{Prompt: "freeze now"}}

	e := Enrich(p, ex)

	if !e.Analysis.FreezeInstruction {
		t.Error("expected freeze signal from nested loop_data prompt")
	}
}

func TestEnrichEmptyPlan(t *testing.T) {
	ex := keywordExtractor(t)

	e := Enrich(plan.LoopPlan{}, ex)

	if e.Analysis != (signals.Extraction{}) {
		t.Errorf("expected zero analysis, got %+v", e.Analysis)
	}
	if e.Plan.Confidence != nil || e.Plan.TrustScore != nil {
		t.Error("expected no derived fields on an empty plan")
	}
}
