package signals

import "testing"

func newExtractor(t *testing.T) *KeywordExtractor {
	t.Helper()
	e, err := NewKeywordExtractor()
	if err != nil {
		t.Fatalf("NewKeywordExtractor: %v", err)
	}
	return e
}

// #region threshold-tests

func TestExtractConfidenceThreshold(t *testing.T) {
	e := newExtractor(t)

	tests := []struct {
		name   string
		prompt string
		want   float32
	}{
		{"under", "If your confidence is under 50%, pause.", 0.5},
		{"below", "confidence below 30% is not acceptable", 0.3},
		{"less than", "Confidence less than 75% means trouble", 0.75},
		{"no copula", "confidence under 40%", 0.4},
		{"fractional", "confidence is under 12.5%", 0.125},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := e.Extract(tc.prompt)
			if got.ConfidenceThreshold == nil {
				t.Fatal("expected a confidence threshold")
			}
			if *got.ConfidenceThreshold != tc.want {
				t.Errorf("expected %.3f, got %.3f", tc.want, *got.ConfidenceThreshold)
			}
		})
	}
}

func TestExtractTrustThresholdIsDistinct(t *testing.T) {
	e := newExtractor(t)

	got := e.Extract("escalate when trust is under 20%")
	if got.TrustThreshold == nil {
		t.Fatal("expected a trust threshold")
	}
	if *got.TrustThreshold != 0.2 {
		t.Errorf("expected 0.2, got %.3f", *got.TrustThreshold)
	}
	if got.ConfidenceThreshold != nil {
		t.Errorf("trust mention must not set confidence threshold, got %.3f", *got.ConfidenceThreshold)
	}
}

func TestExtractNoThreshold(t *testing.T) {
	e := newExtractor(t)
	got := e.Extract("proceed with the deployment plan")
	if got.ConfidenceThreshold != nil || got.TrustThreshold != nil {
		t.Error("expected no thresholds for plain text")
	}
}

// #endregion threshold-tests

// #region boolean-signal-tests

func TestExtractTrustUnknown(t *testing.T) {
	e := newExtractor(t)
	if !e.Extract("halt because TRUST IS UNKNOWN here").TrustUnknown {
		t.Error("expected trust_unknown, case-insensitive")
	}
	if e.Extract("trust is low").TrustUnknown {
		t.Error("did not expect trust_unknown")
	}
}

func TestExtractAgentDisagreement(t *testing.T) {
	e := newExtractor(t)

	if !e.Extract("If HAL and CRITIC disagree, escalate.").AgentDisagreement {
		t.Error("expected disagreement for HAL-then-CRITIC order")
	}
	if !e.Extract("CRITIC thinks HAL is wrong and they disagree").AgentDisagreement {
		t.Error("expected disagreement for CRITIC-then-HAL order")
	}
	// Disagreement keyword may land in a later sentence.
	if !e.Extract("HAL proposed X. CRITIC proposed Y.\nThey disagree.").AgentDisagreement {
		t.Error("expected disagreement across sentences")
	}
}

func TestExtractAgentDisagreementNeedsBothAgents(t *testing.T) {
	e := newExtractor(t)

	if e.Extract("HAL may disagree with the user").AgentDisagreement {
		t.Error("one agent alone is not a disagreement signal")
	}
	// "halt" must not count as the agent name.
	if e.Extract("halt if you and CRITIC disagree").AgentDisagreement {
		t.Error("expected word-boundary match on the agent name")
	}
}

func TestExtractFreezeAndStop(t *testing.T) {
	e := newExtractor(t)

	got := e.Extract("Freeze the loop and stop all work.")
	if !got.FreezeInstruction {
		t.Error("expected freeze instruction")
	}
	if !got.StopInstruction {
		t.Error("expected stop instruction")
	}

	got = e.Extract("carry on as planned")
	if got.FreezeInstruction || got.StopInstruction {
		t.Error("expected neither freeze nor stop")
	}
}

func TestExtractEmptyPrompt(t *testing.T) {
	e := newExtractor(t)
	got := e.Extract("")
	if got != (Extraction{}) {
		t.Errorf("expected zero-value extraction for empty prompt, got %+v", got)
	}
}

// #endregion boolean-signal-tests

// #region structured-tests

func TestStructuredExtractor(t *testing.T) {
	e := NewStructuredExtractor()

	got := e.Extract(`{"confidence_threshold": 0.4, "freeze_instruction": true}`)
	if got.ConfidenceThreshold == nil || *got.ConfidenceThreshold != 0.4 {
		t.Errorf("expected threshold 0.4, got %+v", got.ConfidenceThreshold)
	}
	if !got.FreezeInstruction {
		t.Error("expected freeze instruction")
	}

	if e.Extract("plain text, not a record") != (Extraction{}) {
		t.Error("expected zero-value extraction for non-JSON prompt")
	}
	if e.Extract("") != (Extraction{}) {
		t.Error("expected zero-value extraction for empty prompt")
	}
}

// #endregion structured-tests

// #region benchmark

func BenchmarkKeywordExtract(b *testing.B) {
	e, err := NewKeywordExtractor()
	if err != nil {
		b.Fatalf("NewKeywordExtractor: %v", err)
	}
	prompt := "If your confidence is under 50% or trust is unknown, freeze. If HAL and CRITIC disagree, stop."
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Extract(prompt)
	}
}

// #endregion benchmark
