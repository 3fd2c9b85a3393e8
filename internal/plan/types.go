package plan

// #region severity

// Severity classifies how serious a contradiction is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityCritical Severity = "critical"
)

// NormalizeSeverity maps any unknown or missing severity to SeverityLow.
func NormalizeSeverity(s string) Severity {
	if Severity(s) == SeverityCritical {
		return SeverityCritical
	}
	return SeverityLow
}

// #endregion severity

// #region contradiction

// Contradiction records an inconsistency between agents or between the plan
// and prior state.
type Contradiction struct {
	ID          string
	Severity    Severity
	Description string
}

// #endregion contradiction

// #region loop-plan

// LoopData carries the nested payload some planners emit instead of the
// top-level prompt field.
type LoopData struct {
	Prompt string
}

// LoopPlan is the untrusted input to the safety gate. Pointer fields
// distinguish "absent" from "explicitly zero"; absence is always the
// conservative reading downstream.
type LoopPlan struct {
	Prompt                string
	LoopData              LoopData
	TrustScore            *float32
	Confidence            *float32
	UncertaintyLevel      float32
	Contradictions        []Contradiction
	SafetyViolations      []map[string]any
	FreezeRequested       bool
	NeedsReflection       bool
	TrustUndefined        bool
	BeliefAlignment       float32
	SuccessfulCompletions int
	ReflectionDepth       string
	ProjectID             string
}

// PromptText returns the top-level prompt, falling back to the nested
// loop_data prompt when the top-level field is empty.
func (p LoopPlan) PromptText() string {
	if p.Prompt != "" {
		return p.Prompt
	}
	return p.LoopData.Prompt
}

// HasContradiction reports whether any contradiction carries the given
// severity after normalization.
func (p LoopPlan) HasContradiction(sev Severity) bool {
	for _, c := range p.Contradictions {
		if NormalizeSeverity(string(c.Severity)) == sev {
			return true
		}
	}
	return false
}

// #endregion loop-plan
