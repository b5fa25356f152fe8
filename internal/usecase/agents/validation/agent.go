package validation

import (
	"context"
	"fmt"
	"time"

	"policy-agent/internal/application/port/output"
	"policy-agent/internal/infrastructure/prompts"
	"policy-agent/internal/usecase/agents"
	"policy-agent/internal/usecase/agents/fallback"
)

const (
	TaskName = "validation"

	maxContextChars = 6000
)

var _ output.TaskUnit = (*Agent)(nil)

// Agent validates the captured requirements and questions, scores the
// deliverable and asks the model for a gap analysis. Validation itself is
// deterministic and local; only the gap analysis is a model call.
type Agent struct {
	agents.Base
}

func New(llm output.LLMPort, logger output.LoggerPort, cfg agents.Config) *Agent {
	return &Agent{Base: agents.NewBase(TaskName, llm, logger, cfg)}
}

func (a *Agent) Execute(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	start := time.Now()

	functional, _ := inputs["functional_requirements"].([]any)
	data, _ := inputs["data_requirements"].([]any)
	businessRules, _ := inputs["business_rules"].([]any)
	questionList, _ := inputs["questions"].([]any)
	sections, _ := inputs["sections"].([]any)

	allRequirements := append(append([]any{}, functional...), data...)

	requirementValidation := validateRequirements(allRequirements)
	questionValidation := validateQuestions(questionList)
	coverage := analyzeCoverage(allRequirements, questionList, sections)
	consistency := checkConsistency(functional, data, businessRules, questionList, sections)

	score := overallScore(
		requirementValidation["validation_rate"].(float64),
		questionValidation["validation_rate"].(float64),
		coverage["coverage_percentage"].(float64),
	)

	fraction := syntheticFraction(inputs)

	gaps, gapsSynthetic, err := a.analyzeGaps(ctx, allRequirements, questionList, sections)
	if err != nil {
		return nil, a.Fail(inputs, start, err)
	}

	outputs := map[string]any{
		"validation_report": map[string]any{
			"requirement_validation": requirementValidation,
			"question_validation":    questionValidation,
			"coverage_analysis":      coverage,
			"consistency_check":      consistency,
			"overall_score":          score,
			"confidence":             round2(1 - fraction),
			"synthetic_fraction":     round2(fraction),
		},
		"gap_analysis":         gaps,
		"recommendations":      recommendations(requirementValidation, questionValidation, coverage, gaps),
		"validation_synthetic": gapsSynthetic,
	}

	return a.Finish(inputs, outputs, start, gapsSynthetic), nil
}

func (a *Agent) analyzeGaps(ctx context.Context, requirements, questionList, sections []any) (map[string]any, bool, error) {
	prompt, err := prompts.Render(prompts.GapAnalysisPrompt, map[string]any{
		"sections":     agents.Truncate(agents.CompactJSON(sections), maxContextChars),
		"requirements": agents.Truncate(agents.CompactJSON(requirements), maxContextChars),
		"questions":    agents.Truncate(agents.CompactJSON(questionList), maxContextChars),
	})
	if err != nil {
		return nil, false, err
	}

	return a.Generate(ctx, prompts.ValidationSystem, prompt, agents.Recovery{
		Fields: []string{"area", "description", "severity"},
		Shape:  agents.ObjectWithAnyKey("gaps", "recommendations", "area"),
		Fallback: func() map[string]any {
			return fallback.Object(TaskName, "gap_analysis")
		},
	})
}

// syntheticFraction is the share of upstream producers whose outputs were
// fallback-substituted, read from their synthetic markers.
func syntheticFraction(inputs map[string]any) float64 {
	markers := []string{"policy_synthetic", "requirements_synthetic", "questions_synthetic"}

	seen := 0
	synthetic := 0
	for _, marker := range markers {
		flag, ok := inputs[marker].(bool)
		if !ok {
			continue
		}
		seen++
		if flag {
			synthetic++
		}
	}

	if seen == 0 {
		return 0
	}
	return float64(synthetic) / float64(seen)
}

func recommendations(requirementValidation, questionValidation, coverage, gaps map[string]any) []any {
	recs := make([]any, 0, 4)

	if invalid, ok := requirementValidation["invalid_requirements"].(int); ok && invalid > 0 {
		recs = append(recs, fmt.Sprintf("Repair %d requirements missing identifying fields", invalid))
	}
	if invalid, ok := questionValidation["invalid_questions"].(int); ok && invalid > 0 {
		recs = append(recs, fmt.Sprintf("Repair %d questions missing identifying fields", invalid))
	}
	if uncovered, ok := coverage["uncovered_sections"].([]string); ok && len(uncovered) > 0 {
		recs = append(recs, fmt.Sprintf("Add requirements for %d uncovered policy sections", len(uncovered)))
	}
	if fromGaps, ok := gaps["recommendations"].([]any); ok {
		recs = append(recs, fromGaps...)
	}

	return recs
}
