package enrich

import (
	"github.com/danielpatrickdp/loopgate/internal/plan"
	"github.com/danielpatrickdp/loopgate/internal/signals"
)

// #region enriched-plan

// EnrichedPlan is a LoopPlan with its prompt analysis attached and the
// derived fields filled in. Downstream evaluators only ever see this form.
type EnrichedPlan struct {
	Plan     plan.LoopPlan
	Analysis signals.Extraction
}

// DisagreementContradictionID marks the synthetic contradiction appended
// when the prompt reports the two agents disagreeing. The fixed ID keeps
// enrichment idempotent: re-enriching never appends a second copy.
const DisagreementContradictionID = "prompt-agent-disagreement"

// ConfidenceMargin is subtracted from a detected confidence threshold when
// the plan carries no explicit confidence. A prompt that talks about a
// threshold is read conservatively as being just under it.
const ConfidenceMargin float32 = 0.1

// #endregion enriched-plan

// #region enrich

// Enrich runs signal extraction over the plan's prompt and merges the
// result into a copy of the plan. Pure, total, and idempotent: the input
// is never mutated, no error path exists, and enriching an already
// enriched plan changes nothing.
func Enrich(p plan.LoopPlan, extractor signals.Extractor) EnrichedPlan {
	analysis := extractor.Extract(p.PromptText())
	enriched := p

	// A threshold mention with no explicit confidence places confidence
	// just below the threshold so downstream checks trigger.
	if analysis.ConfidenceThreshold != nil && enriched.Confidence == nil {
		c := *analysis.ConfidenceThreshold - ConfidenceMargin
		enriched.Confidence = &c
	}

	// A trust-unknown declaration overrides any numeric score.
	if analysis.TrustUnknown {
		enriched.TrustUndefined = true
		enriched.TrustScore = nil
	}

	if analysis.AgentDisagreement && !hasDisagreementContradiction(enriched.Contradictions) {
		list := make([]plan.Contradiction, len(enriched.Contradictions), len(enriched.Contradictions)+1)
		copy(list, enriched.Contradictions)
		enriched.Contradictions = append(list, plan.Contradiction{
			ID:          DisagreementContradictionID,
			Severity:    plan.SeverityCritical,
			Description: "prompt reports the gated agents disagreeing",
		})
	}

	return EnrichedPlan{Plan: enriched, Analysis: analysis}
}

func hasDisagreementContradiction(list []plan.Contradiction) bool {
	for _, c := range list {
		if c.ID == DisagreementContradictionID {
			return true
		}
	}
	return false
}

// #endregion enrich

// #region confidence

// ConfidenceOr returns the plan's confidence or the given default when the
// field is absent.
func (e EnrichedPlan) ConfidenceOr(def float32) float32 {
	if e.Plan.Confidence != nil {
		return *e.Plan.Confidence
	}
	return def
}

// #endregion confidence
