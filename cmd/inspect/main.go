package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/loopgate/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to loopgate.db")
	last := flag.Int("last", 20, "show N most recent decisions")
	project := flag.String("project", "", "filter to one project")
	status := flag.String("status", "", "filter to one status")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	stats := flag.Bool("stats", false, "print decision counts by status")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/loopgate.db [--last N] [--project id] [--status s] [--stats] [--json]")
		os.Exit(2)
	}

	auditStore, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer auditStore.Close()

	if *stats {
		if err := runStatsMode(auditStore, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runListMode(auditStore, *last, *project, *status, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	EvaluationID string   `json:"evaluation_id"`
	ProjectID    string   `json:"project_id,omitempty"`
	Status       string   `json:"status"`
	Reason       string   `json:"reason,omitempty"`
	Action       string   `json:"action,omitempty"`
	TrustScore   *float32 `json:"trust_score,omitempty"`
	TrustDelta   float32  `json:"trust_delta"`
	Depth        string   `json:"reflection_depth,omitempty"`
	CreatedAt    string   `json:"created_at"`
}

func runListMode(auditStore *store.Store, last int, project, status string, jsonOut bool) error {
	var rows []store.DecisionRow
	var err error
	switch {
	case project != "":
		rows, err = auditStore.ListByProject(project, last)
	case status != "":
		rows, err = auditStore.ListByStatus(status, last)
	default:
		rows, err = auditStore.ListDecisions(last)
	}
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "no decisions found")
		return nil
	}

	listRows := make([]listRow, len(rows))
	for i, r := range rows {
		listRows[i] = listRow{
			EvaluationID: r.EvaluationID,
			ProjectID:    r.ProjectID,
			Status:       r.Status,
			Reason:       r.Reason,
			Action:       r.Action,
			TrustScore:   r.TrustScore,
			TrustDelta:   r.TrustDelta,
			Depth:        r.ReflectionDepth,
			CreatedAt:    r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(listRows)
	}
	return printListTable(listRows)
}

func printListTable(rows []listRow) error {
	fmt.Printf("%-10s  %-22s  %6s  %7s  %-9s  %-20s  %s\n",
		"Eval", "Status", "Trust", "Delta", "Depth", "Time", "Reason")
	fmt.Printf("%-10s+-%-22s+-%6s+-%7s+-%-9s+-%-20s+-%s\n",
		"----------", "----------------------", "------", "-------", "---------", "--------------------", "--------")

	for _, r := range rows {
		trust := "—"
		if r.TrustScore != nil {
			trust = fmt.Sprintf("%.2f", *r.TrustScore)
		}
		depth := r.Depth
		if depth == "" {
			depth = "—"
		}
		fmt.Printf("%-10s  %-22s  %6s  %7.2f  %-9s  %-20s  %s\n",
			shortID(r.EvaluationID), r.Status, trust, r.TrustDelta, depth, r.CreatedAt, r.Reason)
	}
	return nil
}

// #endregion list-mode

// #region stats-mode

func runStatsMode(auditStore *store.Store, jsonOut bool) error {
	counts, err := auditStore.CountByStatus()
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(counts)
	}

	total := 0
	order := []string{"ok", "frozen", "reflection-triggered"}
	for _, status := range order {
		fmt.Printf("  %-22s %d\n", status, counts[status])
		total += counts[status]
	}
	for status, n := range counts {
		known := false
		for _, s := range order {
			if status == s {
				known = true
				break
			}
		}
		if !known {
			fmt.Printf("  %-22s %d\n", status, n)
			total += n
		}
	}
	fmt.Printf("  %-22s %d\n", "total", total)
	return nil
}

// #endregion stats-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
