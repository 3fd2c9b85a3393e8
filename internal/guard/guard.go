package guard

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/loopgate/internal/enrich"
	"github.com/danielpatrickdp/loopgate/internal/freeze"
	"github.com/danielpatrickdp/loopgate/internal/plan"
	"github.com/danielpatrickdp/loopgate/internal/reflection"
	"github.com/danielpatrickdp/loopgate/internal/signals"
	"github.com/danielpatrickdp/loopgate/internal/trust"
)

// #region guard-struct

// Guard is the sole entry point into the safety gate. It runs the
// evaluators in fixed order: enrich, freeze, reflection, trust. Freeze has
// strict precedence; a frozen plan is never also flagged for reflection.
// Trust is computed on every call but only for telemetry, never branching.
type Guard struct {
	extractor signals.Extractor
	freezer   *freeze.Controller
	reflector *reflection.Engine
	trust     *trust.Evaluator
	sink      Sink
}

// New creates a fully wired guard. sink may be nil to disable telemetry.
func New(extractor signals.Extractor, config Config, sink Sink) *Guard {
	return &Guard{
		extractor: extractor,
		freezer:   freeze.NewController(config.Freeze, extractor),
		reflector: reflection.NewEngine(config.Reflection, extractor),
		trust:     trust.NewEvaluator(config.Trust),
		sink:      sink,
	}
}

// #endregion guard-struct

// #region evaluate

// Evaluate gates a single loop plan. The function is total: any malformed
// or partial input degrades to its conservative default and an empty plan
// freezes rather than passes. Each plan is evaluated independently and
// statelessly, so any number of calls may run concurrently.
func (g *Guard) Evaluate(p plan.LoopPlan) Decision {
	e := enrich.Enrich(p, g.extractor)

	decision := g.decide(e)

	// Trust is evaluated after the decision, for the audit trail only.
	rec := Record{
		EvaluationID: uuid.New().String(),
		ProjectID:    e.Plan.ProjectID,
		Prompt:       e.Plan.PromptText(),
		Status:       decision.Status,
		Reason:       decision.Reason,
		Action:       decision.Action,
		TrustDelta:   g.trust.Delta(e),
		TrustScore:   g.trust.Score(e),
		Analysis:     e.Analysis,
		CreatedAt:    time.Now().UTC(),
	}
	if decision.Status == StatusReflectionTriggered {
		rec.Depth = g.reflector.DepthFor(e)
	}
	g.emit(rec)

	return decision
}

func (g *Guard) decide(e enrich.EnrichedPlan) Decision {
	if g.freezer.ShouldFreeze(e) {
		return Decision{
			Status: StatusFrozen,
			Reason: g.freezer.Reason(e),
		}
	}
	if g.reflector.ShouldReflect(e) {
		return Decision{
			Status: StatusReflectionTriggered,
			Action: ActionRecursiveReflection,
			Reason: "Uncertainty or agent contradiction detected",
		}
	}
	return Decision{Status: StatusOK}
}

// #endregion evaluate

// #region emit

// emit hands the record to the telemetry sink. Sink misbehavior of any
// kind, error or panic, must never alter the returned decision.
func (g *Guard) emit(rec Record) {
	if g.sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[GUARD] telemetry sink panicked: %v", r)
		}
	}()
	if err := g.sink.Log(rec); err != nil {
		log.Printf("[GUARD] telemetry log failed: %v", err)
	}
}

// #endregion emit
