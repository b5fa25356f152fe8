package requirements

import (
	"context"
	"time"

	"policy-agent/internal/application/port/output"
	"policy-agent/internal/infrastructure/prompts"
	"policy-agent/internal/usecase/agents"
	"policy-agent/internal/usecase/agents/fallback"
)

const (
	TaskName = "requirements_capture"

	maxContextChars = 8000
)

var _ output.TaskUnit = (*Agent)(nil)

// Agent turns the evaluated policy into four requirement collections:
// functional, data, business rules and validation rules.
type Agent struct {
	agents.Base
}

func New(llm output.LLMPort, logger output.LoggerPort, cfg agents.Config) *Agent {
	return &Agent{Base: agents.NewBase(TaskName, llm, logger, cfg)}
}

type collection struct {
	key      string
	template string
	fields   []string
	listKeys []string
}

var collections = []collection{
	{
		key:      "functional_requirements",
		template: prompts.FunctionalRequirementsPrompt,
		fields:   []string{"requirement_id", "description", "category", "priority"},
		listKeys: []string{"requirements", "functional_requirements"},
	},
	{
		key:      "data_requirements",
		template: prompts.DataRequirementsPrompt,
		fields:   []string{"requirement_id", "description", "data_type", "source"},
		listKeys: []string{"requirements", "data_requirements"},
	},
	{
		key:      "business_rules",
		template: prompts.BusinessRulesPrompt,
		fields:   []string{"rule_id", "description", "trigger", "outcome"},
		listKeys: []string{"rules", "business_rules"},
	},
	{
		key:      "validation_rules",
		template: prompts.ValidationRulesPrompt,
		fields:   []string{"rule_id", "field", "validation", "error_message"},
		listKeys: []string{"rules", "validation_rules"},
	},
}

func (a *Agent) Execute(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	start := time.Now()

	promptContext := agents.Truncate(
		"Policy Structure: "+agents.CompactJSON(inputs["policy_structure"])+
			"\nEligibility Rules: "+agents.CompactJSON(inputs["eligibility_rules"])+
			"\nConditions: "+agents.CompactJSON(inputs["conditions"]),
		maxContextChars)

	outputs := make(map[string]any, len(collections)+2)
	synthetic := false

	for _, col := range collections {
		list, colSynthetic, err := a.extractCollection(ctx, col, promptContext)
		if err != nil {
			return nil, a.Fail(inputs, start, err)
		}
		outputs[col.key] = list
		synthetic = synthetic || colSynthetic
	}

	outputs["requirements_synthetic"] = synthetic

	return a.Finish(inputs, outputs, start, synthetic), nil
}

func (a *Agent) extractCollection(ctx context.Context, col collection, promptContext string) ([]any, bool, error) {
	prompt, err := prompts.Render(col.template, map[string]any{"context": promptContext})
	if err != nil {
		return nil, false, err
	}

	value, synthetic, err := a.Generate(ctx, prompts.RequirementsSystem, prompt, agents.Recovery{
		Fields: col.fields,
		Shape:  agents.NonEmptyList(col.listKeys...),
		Fallback: func() map[string]any {
			return map[string]any{col.key: fallback.List(TaskName, col.key)}
		},
	})
	if err != nil {
		return nil, false, err
	}

	list, ok := agents.ListValue(value, append(col.listKeys, col.key)...)
	if !ok {
		a.Logger().Warn("recovered value lost its list, substituting fallback", "key", col.key)
		return fallback.List(TaskName, col.key), true, nil
	}
	return list, synthetic, nil
}
