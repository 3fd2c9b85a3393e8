package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/loopgate/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	os.Exit(run(*fixturePath))
}

func run(path string) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	if f.Description != "" {
		fmt.Println(f.Description)
		fmt.Println()
	}

	results, err := replay.Replay(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}

	return printComparison(results)
}

// #endregion main

// #region output

// printComparison outputs a comparison table and returns exit code. Any
// divergence from the fixture's expectations exits nonzero.
func printComparison(results []replay.Result) int {
	fmt.Printf("%-36s| %-22s| %-22s| %s\n", "Plan", "Expected", "Got", "Match")
	fmt.Printf("%-36s+%-23s+%-23s+%s\n",
		"------------------------------------", "-----------------------", "-----------------------", "------")

	for _, r := range results {
		got := string(r.Decision.Status)
		match := "DIFF"
		if r.Err != nil {
			got = "decode error"
		} else if r.Match {
			match = "OK"
		}
		fmt.Printf("%-36s| %-22s| %-22s| %s\n", truncate(r.Name, 36), r.ExpectedStatus, got, match)
	}

	s := replay.Summarize(results)
	fmt.Printf("\nSummary: %d total, %d match, %d diverge, %d errors\n",
		s.TotalPlans, s.Matches, s.Mismatches, s.Errors)

	if s.Mismatches > 0 || s.Errors > 0 {
		return 1
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

// #endregion output
