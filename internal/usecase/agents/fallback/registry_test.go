package fallback

import "testing"

func TestPayload_AllTaskUnitsRegistered(t *testing.T) {
	for _, name := range []string{
		"policy_evaluator",
		"requirements_capture",
		"question_generator",
		"validation",
		"consolidation",
	} {
		payload := Payload(name)
		if len(payload) == 0 {
			t.Errorf("payload %q is empty", name)
		}
	}
}

func TestPayload_ReturnsFreshCopies(t *testing.T) {
	first := Payload("policy_evaluator")
	first["policy_structure"].(map[string]any)["policy_type"] = "mutated"

	second := Payload("policy_evaluator")
	if second["policy_structure"].(map[string]any)["policy_type"] == "mutated" {
		t.Error("payload copies must not share state")
	}
}

func TestList_KnownKeys(t *testing.T) {
	cases := map[string][]string{
		"policy_evaluator":     {"eligibility_rules", "conditions"},
		"requirements_capture": {"functional_requirements", "data_requirements", "business_rules", "validation_rules"},
		"question_generator":   {"questions"},
	}

	for name, keys := range cases {
		for _, key := range keys {
			if list := List(name, key); len(list) == 0 {
				t.Errorf("payload %q list %q is empty", name, key)
			}
		}
	}
}

func TestObject_KnownKeys(t *testing.T) {
	if structure := Object("policy_evaluator", "policy_structure"); structure["policy_type"] == nil {
		t.Error("policy_structure payload has no policy_type")
	}
	if gaps := Object("validation", "gap_analysis"); len(gaps) == 0 {
		t.Error("gap_analysis payload is empty")
	}
	if summary := Object("consolidation", "executive_summary"); len(summary) == 0 {
		t.Error("executive_summary payload is empty")
	}
}

func TestPayload_UnknownNamePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unregistered payload")
		}
	}()
	Payload("ghost")
}
