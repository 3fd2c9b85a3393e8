package logging

import "time"

// #region audit-entry
// AuditEntry is a single row in the decision_log table.
type AuditEntry struct {
	EvaluationID    string
	ProjectID       string
	Status          string // "ok" | "frozen" | "reflection-triggered"
	Reason          string
	Action          string
	TrustScore      *float32 // nil when trust was undefined
	TrustDelta      float32
	ReflectionDepth string
	AnalysisJSON    string
	Prompt          string
	CreatedAt       time.Time
}

// #endregion audit-entry
