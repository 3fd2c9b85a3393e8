package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/loopgate/internal/freeze"
	"github.com/danielpatrickdp/loopgate/internal/guard"
	"github.com/danielpatrickdp/loopgate/internal/plan"
	"github.com/danielpatrickdp/loopgate/internal/reflection"
	"github.com/danielpatrickdp/loopgate/internal/trust"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description string         `json:"description"`
	Config      *FixtureConfig `json:"config,omitempty"`
	Plans       []FixturePlan  `json:"plans"`
}

// FixturePlan is one recorded plan plus the status the gate is expected to
// return for it. The plan body stays raw JSON so fixtures exercise the same
// decode path production input takes.
type FixturePlan struct {
	Name           string          `json:"name"`
	Plan           json.RawMessage `json:"plan"`
	ExpectedStatus string          `json:"expected_status"`
}

// FixtureConfig mirrors guard.Config with JSON tags. Absent sub-configs
// fall back to production defaults.
type FixtureConfig struct {
	Freeze     *FixtureFreezeConfig     `json:"freeze,omitempty"`
	Reflection *FixtureReflectionConfig `json:"reflection,omitempty"`
	Trust      *FixtureTrustConfig      `json:"trust,omitempty"`
}

// FixtureFreezeConfig mirrors freeze.Config with JSON tags.
type FixtureFreezeConfig struct {
	MinTrustScore float32 `json:"min_trust_score"`
}

// FixtureReflectionConfig mirrors reflection.Config with JSON tags.
type FixtureReflectionConfig struct {
	UncertaintyTrigger  float32 `json:"uncertainty_trigger"`
	LowConfidence       float32 `json:"low_confidence"`
	DeepThreshold       float32 `json:"deep_threshold"`
	StandardThreshold   float32 `json:"standard_threshold"`
	DeepUncertainty     float32 `json:"deep_uncertainty"`
	StandardUncertainty float32 `json:"standard_uncertainty"`
}

// FixtureTrustConfig mirrors trust.Config with JSON tags.
type FixtureTrustConfig struct {
	Base                 float32 `json:"base"`
	MinSufficient        float32 `json:"min_sufficient"`
	ContradictionPenalty float32 `json:"contradiction_penalty"`
	UncertaintyPenalty   float32 `json:"uncertainty_penalty"`
	AlignmentReward      float32 `json:"alignment_reward"`
	CompletionReward     float32 `json:"completion_reward"`
	CompletionCap        int     `json:"completion_cap"`
	ViolationPenalty     float32 `json:"violation_penalty"`
	DisagreementPenalty  float32 `json:"disagreement_penalty"`
	UndefinedDelta       float32 `json:"undefined_delta"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToPlan decodes the raw plan body. An absent body is the empty plan.
func (fp *FixturePlan) ToPlan() (plan.LoopPlan, error) {
	if len(fp.Plan) == 0 {
		return plan.LoopPlan{}, nil
	}
	return plan.Decode(fp.Plan)
}

// ToGuardConfig converts a fixture config to a domain guard.Config. A nil
// receiver or a nil sub-config yields that sub-config's defaults.
func (fc *FixtureConfig) ToGuardConfig() guard.Config {
	cfg := guard.DefaultConfig()
	if fc == nil {
		return cfg
	}
	if fc.Freeze != nil {
		cfg.Freeze = freeze.Config{
			MinTrustScore: fc.Freeze.MinTrustScore,
		}
	}
	if fc.Reflection != nil {
		cfg.Reflection = reflection.Config{
			UncertaintyTrigger:  fc.Reflection.UncertaintyTrigger,
			LowConfidence:       fc.Reflection.LowConfidence,
			DeepThreshold:       fc.Reflection.DeepThreshold,
			StandardThreshold:   fc.Reflection.StandardThreshold,
			DeepUncertainty:     fc.Reflection.DeepUncertainty,
			StandardUncertainty: fc.Reflection.StandardUncertainty,
		}
	}
	if fc.Trust != nil {
		cfg.Trust = trust.Config{
			Base:                 fc.Trust.Base,
			MinSufficient:        fc.Trust.MinSufficient,
			ContradictionPenalty: fc.Trust.ContradictionPenalty,
			UncertaintyPenalty:   fc.Trust.UncertaintyPenalty,
			AlignmentReward:      fc.Trust.AlignmentReward,
			CompletionReward:     fc.Trust.CompletionReward,
			CompletionCap:        fc.Trust.CompletionCap,
			ViolationPenalty:     fc.Trust.ViolationPenalty,
			DisagreementPenalty:  fc.Trust.DisagreementPenalty,
			UndefinedDelta:       fc.Trust.UndefinedDelta,
		}
	}
	return cfg
}

// #endregion fixture-loader
