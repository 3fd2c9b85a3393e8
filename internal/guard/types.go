package guard

import (
	"time"

	"github.com/danielpatrickdp/loopgate/internal/freeze"
	"github.com/danielpatrickdp/loopgate/internal/reflection"
	"github.com/danielpatrickdp/loopgate/internal/signals"
	"github.com/danielpatrickdp/loopgate/internal/trust"
)

// #region status

// Status is the tri-state outcome of gating a plan.
type Status string

const (
	StatusOK                  Status = "ok"
	StatusFrozen              Status = "frozen"
	StatusReflectionTriggered Status = "reflection-triggered"
)

// ActionRecursiveReflection is the action attached to reflection decisions.
const ActionRecursiveReflection = "recursive_reflection"

// #endregion status

// #region decision

// Decision is the guard's output for a single plan.
type Decision struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
	Action string `json:"action,omitempty"`
}

// #endregion decision

// #region config

// Config bundles the evaluator configurations.
type Config struct {
	Freeze     freeze.Config
	Reflection reflection.Config
	Trust      trust.Config
}

// DefaultConfig returns production settings for all evaluators.
func DefaultConfig() Config {
	return Config{
		Freeze:     freeze.DefaultConfig(),
		Reflection: reflection.DefaultConfig(),
		Trust:      trust.DefaultConfig(),
	}
}

// #endregion config

// #region telemetry

// Record captures one complete evaluation for the audit trail. TrustScore
// is nil when trust was undefined at decision time.
type Record struct {
	EvaluationID string
	ProjectID    string
	Prompt       string
	Status       Status
	Reason       string
	Action       string
	TrustDelta   float32
	TrustScore   *float32
	Depth        reflection.Depth
	Analysis     signals.Extraction
	CreatedAt    time.Time
}

// Sink receives evaluation records, fire-and-forget. Implementations must
// be safe for concurrent use; returned errors are logged and swallowed by
// the guard.
type Sink interface {
	Log(rec Record) error
}

// #endregion telemetry
