package signals

// #region extraction

// Extraction is the structured read-only result of scanning prompt text.
// Threshold fields are nil when the corresponding pattern did not match.
type Extraction struct {
	ConfidenceThreshold *float32 `json:"confidence_threshold,omitempty"`
	TrustThreshold      *float32 `json:"trust_threshold,omitempty"`
	TrustUnknown        bool     `json:"trust_unknown"`
	AgentDisagreement   bool     `json:"agent_disagreement"`
	FreezeInstruction   bool     `json:"freeze_instruction"`
	StopInstruction     bool     `json:"stop_instruction"`
}

// #endregion extraction

// #region extractor-interface

// Extractor abstracts prompt-signal extraction so the gate logic never
// depends on how signals are derived. The keyword implementation scans
// free text; the structured implementation reads pre-computed fields.
type Extractor interface {
	Extract(prompt string) Extraction
}

// #endregion extractor-interface
