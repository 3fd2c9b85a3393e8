package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/danielpatrickdp/loopgate/internal/guard"
	"github.com/danielpatrickdp/loopgate/internal/logging"
	"github.com/danielpatrickdp/loopgate/internal/plan"
	"github.com/danielpatrickdp/loopgate/internal/signals"
	"github.com/danielpatrickdp/loopgate/internal/store"
)

// #region main
func main() {
	dbPath := envOr("LOOPGATE_DB", "loopgate.db")

	// Initialize audit store
	auditStore, err := store.NewStore(dbPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer auditStore.Close()

	extractor, err := signals.NewKeywordExtractor()
	if err != nil {
		log.Fatalf("failed to build extractor: %v", err)
	}

	g := guard.New(extractor, guard.DefaultConfig(), logging.NewStoreSink(auditStore.DB()))

	fmt.Println("Loop Safety Gate ready.")
	fmt.Printf("  DB: %s\n", dbPath)
	fmt.Println("Paste a JSON plan per line (or 'quit' to exit):")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	planNum := 0

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		planNum++

		p, err := plan.Decode([]byte(line))
		if err != nil {
			log.Printf("decode error: %v", err)
			continue
		}

		decision := g.Evaluate(p)

		out, err := json.Marshal(decision)
		if err != nil {
			log.Printf("marshal error: %v", err)
			continue
		}
		fmt.Printf("\n%s\n\n", out)
		fmt.Printf("[plan-%d] status=%s\n", planNum, decision.Status)
	}
}

// #endregion main

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
