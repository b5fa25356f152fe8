package prompts

import (
	"strings"
	"testing"
)

func TestRender_SubstitutesVariables(t *testing.T) {
	rendered, err := Render(PolicyStructurePrompt, map[string]any{
		"document":  "Applicants must score 160 points.",
		"type_hint": "Skilled Migrant Residence Visa",
		"type_code": "SMR",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(rendered, "Applicants must score 160 points.") {
		t.Error("document not substituted")
	}
	if !strings.Contains(rendered, "Skilled Migrant Residence Visa (SMR)") {
		t.Errorf("type hint not substituted:\n%s", rendered)
	}
	if strings.Contains(rendered, "{{") {
		t.Errorf("unexpanded template markers remain:\n%s", rendered)
	}
}

func TestRender_OmitsEmptyHintBlock(t *testing.T) {
	rendered, err := Render(PolicyStructurePrompt, map[string]any{
		"document":  "Some policy text.",
		"type_hint": "",
		"type_code": "",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(rendered, "classified upstream") {
		t.Errorf("hint block must disappear when no hint is given:\n%s", rendered)
	}
}

func TestRender_AllTemplatesAreWellFormed(t *testing.T) {
	vars := map[string]any{
		"document":          "text",
		"policy_structure":  "{}",
		"context":           "{}",
		"sections":          "[]",
		"requirements":      "[]",
		"questions":         "[]",
		"policy_type":       "Work Visa",
		"requirement_count": 0,
		"question_count":    0,
		"overall_score":     0,
		"type_hint":         "",
		"type_code":         "",
	}

	templates := map[string]string{
		"policy_structure":        PolicyStructurePrompt,
		"eligibility_rules":       EligibilityRulesPrompt,
		"conditions":              ConditionsPrompt,
		"functional_requirements": FunctionalRequirementsPrompt,
		"data_requirements":       DataRequirementsPrompt,
		"business_rules":          BusinessRulesPrompt,
		"validation_rules":        ValidationRulesPrompt,
		"questions":               QuestionsPrompt,
		"question_flow":           QuestionFlowPrompt,
		"gap_analysis":            GapAnalysisPrompt,
		"consolidation_summary":   ConsolidationSummaryPrompt,
	}

	for name, template := range templates {
		if _, err := Render(template, vars); err != nil {
			t.Errorf("template %s does not render: %v", name, err)
		}
	}
}
