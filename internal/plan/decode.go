package plan

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region decode

// Decode parses a JSON-encoded plan into a LoopPlan. Numeric fields accept
// int or float, list fields accept absent as empty, and unknown keys are
// ignored. The weak typing goes through structpb so a plan assembled from
// any JSON-compatible source decodes the same way.
func Decode(data []byte) (LoopPlan, error) {
	var s structpb.Struct
	if err := protojson.Unmarshal(data, &s); err != nil {
		return LoopPlan{}, fmt.Errorf("decode plan: %w", err)
	}
	return FromStruct(&s), nil
}

// FromStruct converts a structpb record into a LoopPlan. Missing or
// mistyped fields degrade to their zero value; the function is total.
func FromStruct(s *structpb.Struct) LoopPlan {
	if s == nil {
		return LoopPlan{}
	}
	fields := s.GetFields()

	p := LoopPlan{
		Prompt:          stringField(fields, "prompt"),
		TrustScore:      numberField(fields, "trust_score"),
		Confidence:      numberField(fields, "confidence"),
		FreezeRequested: boolField(fields, "freeze_requested"),
		NeedsReflection: boolField(fields, "needs_reflection"),
		TrustUndefined:  boolField(fields, "trust_undefined"),
		ReflectionDepth: stringField(fields, "reflection_depth"),
		ProjectID:       stringField(fields, "project_id"),
	}
	if v := numberField(fields, "uncertainty_level"); v != nil {
		p.UncertaintyLevel = *v
	}
	if v := numberField(fields, "belief_alignment"); v != nil {
		p.BeliefAlignment = *v
	}
	if v := numberField(fields, "successful_completions"); v != nil {
		p.SuccessfulCompletions = int(*v)
	}

	if ld := fields["loop_data"].GetStructValue(); ld != nil {
		p.LoopData.Prompt = stringField(ld.GetFields(), "prompt")
	}

	p.Contradictions = contradictionsField(fields, "contradictions")
	p.SafetyViolations = violationsField(fields, "safety_violations")

	return p
}

// #endregion decode

// #region field-helpers

func stringField(fields map[string]*structpb.Value, key string) string {
	return fields[key].GetStringValue()
}

func boolField(fields map[string]*structpb.Value, key string) bool {
	return fields[key].GetBoolValue()
}

// numberField returns nil when the key is absent or not numeric, so callers
// can tell "missing" apart from "zero".
func numberField(fields map[string]*structpb.Value, key string) *float32 {
	v, ok := fields[key]
	if !ok {
		return nil
	}
	if _, isNum := v.GetKind().(*structpb.Value_NumberValue); !isNum {
		return nil
	}
	f := float32(v.GetNumberValue())
	return &f
}

func contradictionsField(fields map[string]*structpb.Value, key string) []Contradiction {
	list := fields[key].GetListValue()
	if list == nil {
		return nil
	}
	out := make([]Contradiction, 0, len(list.GetValues()))
	for _, v := range list.GetValues() {
		rec := v.GetStructValue()
		if rec == nil {
			// Non-record entries still count as a contradiction of unknown
			// severity, which normalizes to low.
			out = append(out, Contradiction{Severity: SeverityLow})
			continue
		}
		f := rec.GetFields()
		out = append(out, Contradiction{
			ID:          stringField(f, "id"),
			Severity:    NormalizeSeverity(stringField(f, "severity")),
			Description: stringField(f, "description"),
		})
	}
	return out
}

// violationsField keeps safety violations opaque; only presence matters to
// the gate, but the raw records are preserved for the audit trail.
func violationsField(fields map[string]*structpb.Value, key string) []map[string]any {
	list := fields[key].GetListValue()
	if list == nil {
		return nil
	}
	out := make([]map[string]any, 0, len(list.GetValues()))
	for _, v := range list.GetValues() {
		if rec := v.GetStructValue(); rec != nil {
			out = append(out, rec.AsMap())
		} else {
			out = append(out, map[string]any{"value": v.AsInterface()})
		}
	}
	return out
}

// #endregion field-helpers
