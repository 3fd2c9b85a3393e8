package freeze

import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/loopgate/internal/enrich"
	"github.com/danielpatrickdp/loopgate/internal/plan"
	"github.com/danielpatrickdp/loopgate/internal/signals"
)

// #region config

// Config holds the hard-stop thresholds.
type Config struct {
	MinTrustScore float32 // numeric trust below this freezes
}

// DefaultConfig returns the production freeze thresholds.
func DefaultConfig() Config {
	return Config{
		MinTrustScore: 0.3,
	}
}

// #endregion config

// #region controller

// Controller evaluates hard-stop conditions over an enriched plan. Every
// check is independently sufficient; the checks are OR'd for the boolean
// and every matching check contributes to the reason string. The
// controller is fail-closed: a plan with no trust data freezes.
type Controller struct {
	config    Config
	extractor signals.Extractor
}

// NewController creates a freeze controller. The extractor drives the
// second pass over the raw prompt, independent of the analysis already
// attached to the plan; nil disables that pass.
func NewController(config Config, extractor signals.Extractor) *Controller {
	return &Controller{config: config, extractor: extractor}
}

// ShouldFreeze reports whether any hard-stop condition holds.
func (c *Controller) ShouldFreeze(e enrich.EnrichedPlan) bool {
	return len(c.reasons(e)) > 0
}

// Reason re-derives every matching freeze condition and joins them with
// commas. Empty when nothing matches.
func (c *Controller) Reason(e enrich.EnrichedPlan) string {
	return strings.Join(c.reasons(e), ", ")
}

// #endregion controller

// #region checks

// reasons evaluates the hard-stop checks in their fixed order. The first
// entry is the primary reason; the rest make the decision auditable.
func (c *Controller) reasons(e enrich.EnrichedPlan) []string {
	var rs []string

	// 1. Prompt-level freeze or stop instruction
	if e.Analysis.FreezeInstruction || e.Analysis.StopInstruction {
		rs = append(rs, "prompt contains an explicit freeze or stop instruction")
	}

	// 2. Trust explicitly undefined
	if e.Plan.TrustUndefined {
		rs = append(rs, "trust is undefined")
	}

	// 3. Numeric trust below the floor
	if e.Plan.TrustScore != nil && *e.Plan.TrustScore < c.config.MinTrustScore {
		rs = append(rs, fmt.Sprintf("trust score %.2f below minimum %.2f",
			*e.Plan.TrustScore, c.config.MinTrustScore))
	}

	// 4. No trust data at all. Absence of trust is itself a freeze
	// condition, independent of checks 2 and 3.
	if e.Plan.TrustScore == nil {
		rs = append(rs, "no trust score available")
	}

	// 5. Critical contradiction
	if e.Plan.HasContradiction(plan.SeverityCritical) {
		rs = append(rs, "plan carries a critical contradiction")
	}

	// 6. Explicit freeze request
	if e.Plan.FreezeRequested {
		rs = append(rs, "freeze explicitly requested")
	}

	// 7. Recorded safety violations
	if n := len(e.Plan.SafetyViolations); n > 0 {
		rs = append(rs, fmt.Sprintf("%d safety violations recorded", n))
	}

	// 8. Second pass over the raw prompt, ignoring the attached analysis
	// entirely.
	rs = append(rs, c.rawPromptReasons(e.Plan.PromptText())...)

	return rs
}

// rawPromptReasons rescans the raw prompt text from scratch. A stale or
// tampered prompt_analysis must not be able to mask a freeze keyword.
func (c *Controller) rawPromptReasons(prompt string) []string {
	if c.extractor == nil || prompt == "" {
		return nil
	}
	second := c.extractor.Extract(prompt)

	var rs []string
	if second.FreezeInstruction {
		rs = append(rs, "raw prompt scan: freeze keyword")
	}
	if second.TrustUnknown {
		rs = append(rs, "raw prompt scan: trust declared unknown")
	}
	if second.ConfidenceThreshold != nil && second.FreezeInstruction {
		rs = append(rs, "raw prompt scan: confidence threshold with freeze keyword")
	}
	if second.AgentDisagreement && second.StopInstruction {
		rs = append(rs, "raw prompt scan: agent disagreement with stop keyword")
	}
	return rs
}

// #endregion checks
