package signals

import (
	_ "embed"
	"fmt"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var embeddedRules []byte

// #region signal-kind

// SignalKind names the extraction field a rule feeds.
type SignalKind string

const (
	SignalConfidenceThreshold SignalKind = "confidence_threshold"
	SignalTrustThreshold      SignalKind = "trust_threshold"
	SignalTrustUnknown        SignalKind = "trust_unknown"
	SignalAgentDisagreement   SignalKind = "agent_disagreement"
	SignalFreezeInstruction   SignalKind = "freeze_instruction"
	SignalStopInstruction     SignalKind = "stop_instruction"
)

func (k *SignalKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	incoming := SignalKind(s)
	switch incoming {
	case SignalConfidenceThreshold, SignalTrustThreshold, SignalTrustUnknown,
		SignalAgentDisagreement, SignalFreezeInstruction, SignalStopInstruction:
		*k = incoming
		return nil
	default:
		return fmt.Errorf("invalid value for signal: %q", incoming)
	}
}

// #endregion signal-kind

// #region rule-file

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// Rule is one scanning rule from the embedded rule file.
type Rule struct {
	ID          string     `yaml:"id"`
	Description string     `yaml:"description"`
	Signal      SignalKind `yaml:"signal"`
	Regex       string     `yaml:"regex"`

	compiled *regexp.Regexp `yaml:"-"`
}

func (f *ruleFile) compileRegexes() error {
	for i := range f.Rules {
		rule := &f.Rules[i]
		// Case-insensitive, dotall: disagreement patterns span sentences.
		re, err := regexp.Compile("(?is)" + rule.Regex)
		if err != nil {
			return fmt.Errorf("compile rule %s: %w", rule.ID, err)
		}
		rule.compiled = re
	}
	return nil
}

// #endregion rule-file

// #region keyword-extractor

// KeywordExtractor scans free-text prompts against the embedded rule file.
// Extraction is a pure string match; an empty prompt yields a zero-value
// Extraction, never an error.
type KeywordExtractor struct {
	rules []Rule
}

// NewKeywordExtractor parses the embedded rule file and compiles its
// patterns. Returns an error only if the embedded file is malformed.
func NewKeywordExtractor() (*KeywordExtractor, error) {
	var f ruleFile
	if err := yaml.Unmarshal(embeddedRules, &f); err != nil {
		return nil, fmt.Errorf("unmarshal embedded rules: %w", err)
	}
	if err := f.compileRegexes(); err != nil {
		return nil, err
	}
	return &KeywordExtractor{rules: f.Rules}, nil
}

// Extract runs every rule against the prompt and assembles the result.
func (e *KeywordExtractor) Extract(prompt string) Extraction {
	var out Extraction
	if prompt == "" {
		return out
	}
	for _, rule := range e.rules {
		switch rule.Signal {
		case SignalConfidenceThreshold:
			if v := captureFraction(rule.compiled, prompt); v != nil {
				out.ConfidenceThreshold = v
			}
		case SignalTrustThreshold:
			if v := captureFraction(rule.compiled, prompt); v != nil {
				out.TrustThreshold = v
			}
		case SignalTrustUnknown:
			out.TrustUnknown = out.TrustUnknown || rule.compiled.MatchString(prompt)
		case SignalAgentDisagreement:
			out.AgentDisagreement = out.AgentDisagreement || rule.compiled.MatchString(prompt)
		case SignalFreezeInstruction:
			out.FreezeInstruction = out.FreezeInstruction || rule.compiled.MatchString(prompt)
		case SignalStopInstruction:
			out.StopInstruction = out.StopInstruction || rule.compiled.MatchString(prompt)
		}
	}
	return out
}

// captureFraction parses the first capture group as a percentage and
// returns it as a fraction in [0, 1]. Nil when the rule did not match.
func captureFraction(re *regexp.Regexp, prompt string) *float32 {
	m := re.FindStringSubmatch(prompt)
	if len(m) < 2 {
		return nil
	}
	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	v := float32(pct / 100.0)
	return &v
}

// #endregion keyword-extractor
