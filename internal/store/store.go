package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS decision_log (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	evaluation_id    TEXT NOT NULL,
	project_id       TEXT,
	status           TEXT NOT NULL,
	reason           TEXT,
	action           TEXT,
	trust_score      REAL,
	trust_delta      REAL NOT NULL DEFAULT 0,
	reflection_depth TEXT,
	analysis_json    TEXT,
	prompt           TEXT,
	created_at       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decision_log_project
ON decision_log(project_id, created_at);

CREATE INDEX IF NOT EXISTS idx_decision_log_status
ON decision_log(status);
`

// #endregion schema

// #region store-struct
// Store manages the decision audit log in SQLite. The gate itself is
// stateless; this store only records what was decided, it never feeds a
// decision.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion db-accessor

// #region decision-row
// DecisionRow is one audit log entry as read back from SQLite. TrustScore
// is nil when trust was undefined at decision time.
type DecisionRow struct {
	ID              int64
	EvaluationID    string
	ProjectID       string
	Status          string
	Reason          string
	Action          string
	TrustScore      *float32
	TrustDelta      float32
	ReflectionDepth string
	AnalysisJSON    string
	Prompt          string
	CreatedAt       time.Time
}

// #endregion decision-row

// #region list-decisions
// ListDecisions returns the most recent decisions, newest first.
func (s *Store) ListDecisions(limit int) ([]DecisionRow, error) {
	return s.queryRows(
		`SELECT id, evaluation_id, project_id, status, reason, action,
		        trust_score, trust_delta, reflection_depth, analysis_json, prompt, created_at
		 FROM decision_log ORDER BY id DESC LIMIT ?`, limit)
}

// ListByProject returns the most recent decisions for one project.
func (s *Store) ListByProject(projectID string, limit int) ([]DecisionRow, error) {
	return s.queryRows(
		`SELECT id, evaluation_id, project_id, status, reason, action,
		        trust_score, trust_delta, reflection_depth, analysis_json, prompt, created_at
		 FROM decision_log WHERE project_id = ? ORDER BY id DESC LIMIT ?`, projectID, limit)
}

// ListByStatus returns the most recent decisions with one status.
func (s *Store) ListByStatus(status string, limit int) ([]DecisionRow, error) {
	return s.queryRows(
		`SELECT id, evaluation_id, project_id, status, reason, action,
		        trust_score, trust_delta, reflection_depth, analysis_json, prompt, created_at
		 FROM decision_log WHERE status = ? ORDER BY id DESC LIMIT ?`, status, limit)
}

func (s *Store) queryRows(query string, args ...any) ([]DecisionRow, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var out []DecisionRow
	for rows.Next() {
		var r DecisionRow
		var projectID, reason, action, depth, analysis, prompt sql.NullString
		var trustScore sql.NullFloat64
		var createdStr string

		if err := rows.Scan(&r.ID, &r.EvaluationID, &projectID, &r.Status, &reason, &action,
			&trustScore, &r.TrustDelta, &depth, &analysis, &prompt, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		r.ProjectID = projectID.String
		r.Reason = reason.String
		r.Action = action.String
		r.ReflectionDepth = depth.String
		r.AnalysisJSON = analysis.String
		r.Prompt = prompt.String
		if trustScore.Valid {
			v := float32(trustScore.Float64)
			r.TrustScore = &v
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion list-decisions

// #region stats
// CountByStatus returns how many decisions landed on each status.
func (s *Store) CountByStatus() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM decision_log GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// #endregion stats
