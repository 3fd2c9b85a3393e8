package signals

import "encoding/json"

// #region structured-extractor

// StructuredExtractor reads signals from a prompt that is itself a JSON
// record of pre-computed signal fields, bypassing keyword matching
// entirely. Planners that already know their thresholds can emit this
// form and skip the fragile text scan. Anything that does not parse as a
// JSON object degrades to a zero-value Extraction.
type StructuredExtractor struct{}

// NewStructuredExtractor returns a StructuredExtractor.
func NewStructuredExtractor() *StructuredExtractor {
	return &StructuredExtractor{}
}

// Extract decodes the prompt as an Extraction record.
func (e *StructuredExtractor) Extract(prompt string) Extraction {
	var out Extraction
	if prompt == "" {
		return out
	}
	if err := json.Unmarshal([]byte(prompt), &out); err != nil {
		return Extraction{}
	}
	return out
}

// #endregion structured-extractor
