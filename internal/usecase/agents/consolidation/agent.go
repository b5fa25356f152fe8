package consolidation

import (
	"context"
	"strings"
	"time"

	"policy-agent/internal/application/port/output"
	"policy-agent/internal/infrastructure/prompts"
	"policy-agent/internal/usecase/agents"
	"policy-agent/internal/usecase/agents/fallback"
)

const TaskName = "consolidation"

var _ output.TaskUnit = (*Agent)(nil)

// Agent assembles the final deliverable: the full specification with
// requirement-to-question traceability and a model-written executive
// summary.
type Agent struct {
	agents.Base
}

func New(llm output.LLMPort, logger output.LoggerPort, cfg agents.Config) *Agent {
	return &Agent{Base: agents.NewBase(TaskName, llm, logger, cfg)}
}

func (a *Agent) Execute(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	start := time.Now()

	structure, _ := inputs["policy_structure"].(map[string]any)
	functional, _ := inputs["functional_requirements"].([]any)
	data, _ := inputs["data_requirements"].([]any)
	businessRules, _ := inputs["business_rules"].([]any)
	validationRules, _ := inputs["validation_rules"].([]any)
	questionList, _ := inputs["questions"].([]any)
	flow, _ := inputs["question_flow"].(map[string]any)
	report, _ := inputs["validation_report"].(map[string]any)
	gaps, _ := inputs["gap_analysis"].(map[string]any)
	recs, _ := inputs["recommendations"].([]any)

	summary, summarySynthetic, err := a.writeSummary(ctx, structure, functional, questionList, report)
	if err != nil {
		return nil, a.Fail(inputs, start, err)
	}

	specification := map[string]any{
		"policy": structure,
		"requirements": map[string]any{
			"functional":       functional,
			"data":             data,
			"business_rules":   businessRules,
			"validation_rules": validationRules,
		},
		"application_form": map[string]any{
			"questions": questionList,
			"flow":      flow,
		},
		"traceability": traceability(functional, questionList),
		"validation": map[string]any{
			"report":          report,
			"gap_analysis":    gaps,
			"recommendations": recs,
		},
		"executive_summary": summary,
	}

	outputs := map[string]any{
		"final_specification":     specification,
		"consolidation_synthetic": summarySynthetic,
	}

	return a.Finish(inputs, outputs, start, summarySynthetic), nil
}

func (a *Agent) writeSummary(ctx context.Context, structure map[string]any, functional, questionList []any, report map[string]any) (map[string]any, bool, error) {
	score := any("unknown")
	if report != nil {
		if s, ok := report["overall_score"]; ok {
			score = s
		}
	}

	prompt, err := prompts.Render(prompts.ConsolidationSummaryPrompt, map[string]any{
		"policy_type":       agents.StringValue(structure, "policy_type", "Unknown policy"),
		"requirement_count": len(functional),
		"question_count":    len(questionList),
		"overall_score":     score,
	})
	if err != nil {
		return nil, false, err
	}

	return a.Generate(ctx, prompts.ConsolidationSystem, prompt, agents.Recovery{
		Fields: []string{"summary"},
		Shape:  agents.ObjectWithAnyKey("summary", "highlights"),
		Fallback: func() map[string]any {
			return fallback.Object(TaskName, "executive_summary")
		},
	})
}

// traceability links each functional requirement to the questions that
// reference it, directly by ID or through a shared policy reference.
// Requirements nothing points at are marked uncovered so reviewers can
// spot them without diffing the two collections.
func traceability(functional, questionList []any) []any {
	links := make([]any, 0, len(functional))

	for _, item := range functional {
		req, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, _ := req["requirement_id"].(string)
		policyRef, _ := req["policy_reference"].(string)

		related := make([]any, 0)
		for _, q := range questionList {
			question, ok := q.(map[string]any)
			if !ok {
				continue
			}
			qRef, _ := question["policy_reference"].(string)
			if qRef == "" {
				continue
			}
			if (id != "" && strings.EqualFold(qRef, id)) ||
				(policyRef != "" && strings.EqualFold(qRef, policyRef)) {
				if qid, ok := question["question_id"].(string); ok {
					related = append(related, qid)
				}
			}
		}

		coverage := "uncovered"
		if len(related) > 0 {
			coverage = "covered"
		}

		links = append(links, map[string]any{
			"requirement_id":    id,
			"related_questions": related,
			"coverage":          coverage,
		})
	}

	return links
}
