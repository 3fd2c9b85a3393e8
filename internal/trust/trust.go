package trust

import (
	"github.com/danielpatrickdp/loopgate/internal/enrich"
)

// #region config

// Config holds the weights and thresholds for trust scoring.
type Config struct {
	Base                 float32 // starting score when no explicit value is given
	MinSufficient        float32 // score at or above this counts as sufficient
	ContradictionPenalty float32 // per contradiction, any severity
	UncertaintyPenalty   float32 // scaled by uncertainty_level
	AlignmentReward      float32 // scaled by belief_alignment when positive
	CompletionReward     float32 // per successful completion, capped
	CompletionCap        int     // completions counted at most this many times
	ViolationPenalty     float32 // per recorded safety violation
	DisagreementPenalty  float32 // flat, when the prompt reports agent disagreement
	UndefinedDelta       float32 // returned outright when trust is undefined
}

// DefaultConfig returns the production weights.
func DefaultConfig() Config {
	return Config{
		Base:                 0.5,
		MinSufficient:        0.3,
		ContradictionPenalty: 0.1,
		UncertaintyPenalty:   0.2,
		AlignmentReward:      0.2,
		CompletionReward:     0.05,
		CompletionCap:        5,
		ViolationPenalty:     0.3,
		DisagreementPenalty:  0.2,
		UndefinedDelta:       -0.5,
	}
}

// #endregion config

// #region evaluator

// Evaluator computes trust deltas and absolute scores from an enriched
// plan. A nil score means trust is undefined, which every consumer must
// treat as insufficient; no sentinel float stands in for "unknown".
type Evaluator struct {
	config Config
}

// NewEvaluator creates an evaluator with the given configuration.
func NewEvaluator(config Config) *Evaluator {
	return &Evaluator{config: config}
}

// #endregion evaluator

// #region undefined

// Undefined reports whether trust is explicitly unknown: either the plan
// carries the trust_undefined flag or the prompt declared trust unknown.
// A merely absent trust score is not "undefined" here; the freeze
// controller handles absence as its own fail-closed condition.
func Undefined(e enrich.EnrichedPlan) bool {
	return e.Plan.TrustUndefined || e.Analysis.TrustUnknown
}

// #endregion undefined

// #region delta

// Delta accumulates the trust change implied by the enriched plan. The
// result is not clamped and may fall outside [-1, 1]; only Score clamps.
// Undefined trust short-circuits to the fixed strong-negative delta.
func (ev *Evaluator) Delta(e enrich.EnrichedPlan) float32 {
	if Undefined(e) {
		return ev.config.UndefinedDelta
	}

	var delta float32
	delta -= ev.config.ContradictionPenalty * float32(len(e.Plan.Contradictions))
	delta -= ev.config.UncertaintyPenalty * e.Plan.UncertaintyLevel
	if e.Plan.BeliefAlignment > 0 {
		delta += ev.config.AlignmentReward * e.Plan.BeliefAlignment
	}
	completions := e.Plan.SuccessfulCompletions
	if completions > ev.config.CompletionCap {
		completions = ev.config.CompletionCap
	}
	if completions > 0 {
		delta += ev.config.CompletionReward * float32(completions)
	}
	delta -= ev.config.ViolationPenalty * float32(len(e.Plan.SafetyViolations))
	if e.Analysis.AgentDisagreement {
		delta -= ev.config.DisagreementPenalty
	}
	return delta
}

// #endregion delta

// #region score

// Score returns the absolute trust score in [0, 1], or nil when trust is
// undefined. An explicit numeric trust_score wins over everything; a
// prompt-derived trust threshold places the score just under the
// threshold; otherwise the score is base plus the accumulated delta.
func (ev *Evaluator) Score(e enrich.EnrichedPlan) *float32 {
	if Undefined(e) {
		return nil
	}
	if e.Plan.TrustScore != nil {
		v := clamp01(*e.Plan.TrustScore)
		return &v
	}
	if e.Analysis.TrustThreshold != nil {
		v := clamp01(*e.Analysis.TrustThreshold - 0.1)
		return &v
	}
	v := clamp01(ev.config.Base + ev.Delta(e))
	return &v
}

// Sufficient reports whether trust clears the configured minimum, along
// with the score it compared. Undefined trust is never sufficient.
func (ev *Evaluator) Sufficient(e enrich.EnrichedPlan) (bool, *float32) {
	score := ev.Score(e)
	if score == nil {
		return false, nil
	}
	return *score >= ev.config.MinSufficient, score
}

// #endregion score

// #region helpers

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion helpers
