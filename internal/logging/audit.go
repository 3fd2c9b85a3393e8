package logging

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/danielpatrickdp/loopgate/internal/guard"
)

// #region log-decision
// LogDecision writes an audit entry to the decision_log table.
func LogDecision(db *sql.DB, entry AuditEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO decision_log (evaluation_id, project_id, status, reason, action,
		  trust_score, trust_delta, reflection_depth, analysis_json, prompt, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.EvaluationID,
		nullIfEmpty(entry.ProjectID),
		entry.Status,
		nullIfEmpty(entry.Reason),
		nullIfEmpty(entry.Action),
		nullableScore(entry.TrustScore),
		entry.TrustDelta,
		nullIfEmpty(entry.ReflectionDepth),
		nullIfEmpty(entry.AnalysisJSON),
		nullIfEmpty(entry.Prompt),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log decision: %w", err)
	}
	return nil
}

// #endregion log-decision

// #region store-sink
// StoreSink adapts the SQLite audit log to the guard's telemetry sink.
type StoreSink struct {
	db *sql.DB
}

// NewStoreSink creates a sink writing to the given database. The
// decision_log table must already exist (store.NewStore migrates it).
func NewStoreSink(db *sql.DB) *StoreSink {
	return &StoreSink{db: db}
}

// Log converts a guard record into an audit entry and persists it.
func (s *StoreSink) Log(rec guard.Record) error {
	analysisJSON, err := json.Marshal(rec.Analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	return LogDecision(s.db, AuditEntry{
		EvaluationID:    rec.EvaluationID,
		ProjectID:       rec.ProjectID,
		Status:          string(rec.Status),
		Reason:          rec.Reason,
		Action:          rec.Action,
		TrustScore:      rec.TrustScore,
		TrustDelta:      rec.TrustDelta,
		ReflectionDepth: string(rec.Depth),
		AnalysisJSON:    string(analysisJSON),
		Prompt:          rec.Prompt,
		CreatedAt:       rec.CreatedAt,
	})
}

// #endregion store-sink

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullableScore(v *float32) interface{} {
	if v == nil {
		return nil
	}
	return float64(*v)
}

// #endregion helpers
