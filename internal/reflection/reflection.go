package reflection

import (
	"github.com/danielpatrickdp/loopgate/internal/enrich"
	"github.com/danielpatrickdp/loopgate/internal/plan"
	"github.com/danielpatrickdp/loopgate/internal/signals"
)

// #region depth

// Depth grades how much self-review a reflection pass should perform.
type Depth string

const (
	DepthShallow  Depth = "shallow"
	DepthStandard Depth = "standard"
	DepthDeep     Depth = "deep"
)

// normalizeDepth validates an explicit depth override. Unrecognized values
// degrade to standard.
func normalizeDepth(s string) (Depth, bool) {
	switch Depth(s) {
	case DepthShallow, DepthStandard, DepthDeep:
		return Depth(s), true
	case "":
		return "", false
	default:
		return DepthStandard, true
	}
}

// #endregion depth

// #region config

// Config holds the soft-stop thresholds.
type Config struct {
	UncertaintyTrigger  float32 // uncertainty above this reflects
	LowConfidence       float32 // confidence below this reflects
	DeepThreshold       float32 // confidence threshold below this → deep
	StandardThreshold   float32 // confidence threshold below this → standard
	DeepUncertainty     float32 // uncertainty above this → deep
	StandardUncertainty float32 // uncertainty above this → standard
}

// DefaultConfig returns the production reflection thresholds.
func DefaultConfig() Config {
	return Config{
		UncertaintyTrigger:  0.7,
		LowConfidence:       0.5,
		DeepThreshold:       0.3,
		StandardThreshold:   0.5,
		DeepUncertainty:     0.8,
		StandardUncertainty: 0.5,
	}
}

// #endregion config

// #region engine

// Engine evaluates soft-stop conditions. It knows nothing about freeze
// state: the execution guard consults the freeze controller first and only
// asks here when no hard stop fired.
type Engine struct {
	config    Config
	extractor signals.Extractor
}

// NewEngine creates a reflection engine. The extractor drives the raw
// prompt fallback scan; nil disables it.
func NewEngine(config Config, extractor signals.Extractor) *Engine {
	return &Engine{config: config, extractor: extractor}
}

// #endregion engine

// #region should-reflect

// ShouldReflect reports whether any soft-stop condition holds. Absent
// confidence defaults to full confidence here, so an empty plan never
// reflects on confidence alone.
func (en *Engine) ShouldReflect(e enrich.EnrichedPlan) bool {
	confidence := e.ConfidenceOr(1.0)

	// 1. Confidence fell under a threshold the prompt called out
	if e.Analysis.ConfidenceThreshold != nil && confidence < *e.Analysis.ConfidenceThreshold {
		return true
	}

	// 2. Agents disagree and the prompt did not demand a freeze
	if e.Analysis.AgentDisagreement && !e.Analysis.FreezeInstruction {
		return true
	}

	// 3. High uncertainty
	if e.Plan.UncertaintyLevel > en.config.UncertaintyTrigger {
		return true
	}

	// 4. Non-critical contradictions
	if e.Plan.HasContradiction(plan.SeverityLow) {
		return true
	}

	// 5. Explicit request
	if e.Plan.NeedsReflection {
		return true
	}

	// 6. Low absolute confidence
	if confidence < en.config.LowConfidence {
		return true
	}

	// 7. Raw prompt fallback, independent of the attached analysis
	return en.rawPromptReflects(e.Plan.PromptText())
}

// rawPromptReflects rescans the raw prompt for threshold or disagreement
// talk that is not paired with a freeze keyword. Freeze-paired mentions
// belong to the freeze controller.
func (en *Engine) rawPromptReflects(prompt string) bool {
	if en.extractor == nil || prompt == "" {
		return false
	}
	second := en.extractor.Extract(prompt)
	if second.FreezeInstruction {
		return false
	}
	return second.ConfidenceThreshold != nil || second.AgentDisagreement
}

// #endregion should-reflect

// #region depth-for

// DepthFor selects the reflection depth. An explicit reflection_depth on
// the plan wins; a detected confidence threshold grades next; otherwise
// the uncertainty ladder applies.
func (en *Engine) DepthFor(e enrich.EnrichedPlan) Depth {
	if d, ok := normalizeDepth(e.Plan.ReflectionDepth); ok {
		return d
	}

	if t := e.Analysis.ConfidenceThreshold; t != nil {
		switch {
		case *t < en.config.DeepThreshold:
			return DepthDeep
		case *t < en.config.StandardThreshold:
			return DepthStandard
		}
		// Thresholds at or above StandardThreshold fall through to the
		// uncertainty ladder.
	}

	switch {
	case e.Plan.UncertaintyLevel > en.config.DeepUncertainty:
		return DepthDeep
	case e.Plan.UncertaintyLevel > en.config.StandardUncertainty:
		return DepthStandard
	default:
		return DepthShallow
	}
}

// #endregion depth-for
