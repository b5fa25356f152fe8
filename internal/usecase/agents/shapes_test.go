package agents

import (
	"testing"

	"policy-agent/internal/usecase/extract"
)

func TestNonEmptyList_RejectsPartials(t *testing.T) {
	shape := NonEmptyList("rules")

	value := map[string]any{"rules": []any{map[string]any{"rule_id": "ER-001"}}}
	if !shape(value, false) {
		t.Error("parsed list must satisfy the shape")
	}
	if shape(value, true) {
		t.Error("scraped partials can never satisfy a list shape")
	}
}

func TestNonEmptyList_EmptyAndMissing(t *testing.T) {
	shape := NonEmptyList("rules")

	if shape(map[string]any{"rules": []any{}}, false) {
		t.Error("empty list must not satisfy the shape")
	}
	if shape(map[string]any{"other": 1}, false) {
		t.Error("missing key must not satisfy the shape")
	}
}

func TestNonEmptyList_AcceptsWrapKey(t *testing.T) {
	shape := NonEmptyList("rules")

	wrapped := map[string]any{extract.ArrayWrapKey: []any{"x"}}
	if !shape(wrapped, false) {
		t.Error("bare arrays arrive under the wrap key and must be accepted")
	}
}

func TestObjectWithAnyKey_AllowsPartials(t *testing.T) {
	shape := ObjectWithAnyKey("policy_type", "summary")

	if !shape(map[string]any{"policy_type": "Work Visa"}, true) {
		t.Error("a scraped subset naming a known key must pass")
	}
	if shape(map[string]any{"unrelated": 1}, false) {
		t.Error("object without any known key must fail")
	}
}

func TestListValue_TriesKeysThenWrapKey(t *testing.T) {
	list, ok := ListValue(map[string]any{"eligibility_rules": []any{"a"}}, "rules", "eligibility_rules")
	if !ok || len(list) != 1 {
		t.Errorf("got %v, %v", list, ok)
	}

	list, ok = ListValue(map[string]any{extract.ArrayWrapKey: []any{"b", "c"}}, "rules")
	if !ok || len(list) != 2 {
		t.Errorf("wrap key fallback failed: %v, %v", list, ok)
	}

	if _, ok := ListValue(map[string]any{"rules": "not a list"}, "rules"); ok {
		t.Error("non-list value must not be returned")
	}
}

func TestStringValue(t *testing.T) {
	m := map[string]any{"policy_type": "Work Visa", "empty": ""}

	if got := StringValue(m, "policy_type", "Unknown"); got != "Work Visa" {
		t.Errorf("got %q", got)
	}
	if got := StringValue(m, "empty", "Unknown"); got != "Unknown" {
		t.Errorf("empty string must fall back, got %q", got)
	}
	if got := StringValue(m, "absent", "Unknown"); got != "Unknown" {
		t.Errorf("got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 100); got != "short" {
		t.Errorf("got %q", got)
	}
	got := Truncate("0123456789", 4)
	if got != "0123\n... (truncated)" {
		t.Errorf("got %q", got)
	}
}
