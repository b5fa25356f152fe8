// Package report renders the human-readable workflow summary handed to the
// artifact store at the end of every run.
package report

import (
	"fmt"
	"strings"

	"github.com/ysmood/gson"

	"policy-agent/internal/domain/entity"
)

const divider = "================================================================================"

func Render(result *entity.WorkflowResult) string {
	var b strings.Builder

	b.WriteString(divider + "\n")
	b.WriteString("POLICY REQUIREMENTS WORKFLOW SUMMARY\n")
	b.WriteString(divider + "\n\n")

	fmt.Fprintf(&b, "Run ID:     %s\n", result.RunID)
	fmt.Fprintf(&b, "Status:     %s\n", result.Status)
	fmt.Fprintf(&b, "Duration:   %d ms\n", result.TotalDurationMs)
	fmt.Fprintf(&b, "Completed:  %s\n\n", result.Timestamp.Format("2006-01-02 15:04:05 UTC"))

	b.WriteString("Stages:\n")
	for _, stage := range result.StageResults {
		fmt.Fprintf(&b, "  %-24s %-8s %6d ms", stage.Name, stage.Status, stage.DurationMs)
		if stage.Error != "" {
			fmt.Fprintf(&b, "  error: %s", stage.Error)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	state := gson.New(result.FinalState)

	if state.Has("policy_structure.policy_type") {
		fmt.Fprintf(&b, "Policy:        %s", state.Get("policy_structure.policy_type").Str())
		if state.Has("policy_structure.policy_code") {
			fmt.Fprintf(&b, " (%s)", state.Get("policy_structure.policy_code").Str())
		}
		b.WriteString("\n")
	}

	writeCount(&b, state, "functional_requirements", "Functional requirements")
	writeCount(&b, state, "data_requirements", "Data requirements")
	writeCount(&b, state, "business_rules", "Business rules")
	writeCount(&b, state, "validation_rules", "Validation rules")
	writeCount(&b, state, "questions", "Form questions")

	if state.Has("validation_report.overall_score") {
		fmt.Fprintf(&b, "\nOverall score: %.2f / 100\n", state.Get("validation_report.overall_score").Num())
		if state.Has("validation_report.confidence") {
			fmt.Fprintf(&b, "Confidence:    %.2f\n", state.Get("validation_report.confidence").Num())
		}
	}

	if synthetic := syntheticMarkers(result.FinalState); len(synthetic) > 0 {
		fmt.Fprintf(&b, "\nSynthetic outputs (fallback data was substituted): %s\n", strings.Join(synthetic, ", "))
	}

	b.WriteString("\n" + divider + "\n")
	return b.String()
}

func writeCount(b *strings.Builder, state gson.JSON, key, label string) {
	if !state.Has(key) {
		return
	}
	fmt.Fprintf(b, "%-24s %d\n", label+":", len(state.Get(key).Arr()))
}

func syntheticMarkers(finalState map[string]any) []string {
	markers := make([]string, 0)
	for _, key := range []string{
		"policy_synthetic",
		"requirements_synthetic",
		"questions_synthetic",
		"validation_synthetic",
		"consolidation_synthetic",
	} {
		if flag, ok := finalState[key].(bool); ok && flag {
			markers = append(markers, strings.TrimSuffix(key, "_synthetic"))
		}
	}
	return markers
}
