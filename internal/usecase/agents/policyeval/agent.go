package policyeval

import (
	"context"
	"strings"
	"time"

	"policy-agent/internal/application/port/output"
	"policy-agent/internal/infrastructure/prompts"
	"policy-agent/internal/usecase/agents"
	"policy-agent/internal/usecase/agents/fallback"
)

const (
	TaskName = "policy_evaluator"

	maxDocumentChars = 12000
)

var _ output.TaskUnit = (*Agent)(nil)

// Agent parses a policy document into its structure, eligibility rules and
// grant conditions.
type Agent struct {
	agents.Base
}

func New(llm output.LLMPort, logger output.LoggerPort, cfg agents.Config) *Agent {
	return &Agent{Base: agents.NewBase(TaskName, llm, logger, cfg)}
}

func (a *Agent) Execute(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	start := time.Now()

	document, _ := inputs["policy_document"].(string)
	document = agents.Truncate(strings.TrimSpace(document), maxDocumentChars)

	typeHint, _ := inputs["detected_policy_type"].(string)
	codeHint, _ := inputs["detected_policy_code"].(string)
	forceType, _ := inputs["force_type"].(bool)

	if document == "" {
		a.Logger().Warn("no policy document provided, substituting fallback payload")
		return a.Finish(inputs, a.fallbackOutputs(typeHint, codeHint, forceType), start, true), nil
	}

	structure, structSynthetic, err := a.analyzeStructure(ctx, document, typeHint, codeHint)
	if err != nil {
		return nil, a.Fail(inputs, start, err)
	}

	rules, rulesSynthetic, err := a.extractList(ctx, prompts.EligibilityRulesPrompt, document,
		[]string{"rule_id", "description", "criteria"},
		[]string{"rules", "eligibility_rules"}, "eligibility_rules")
	if err != nil {
		return nil, a.Fail(inputs, start, err)
	}

	conditions, conditionsSynthetic, err := a.extractList(ctx, prompts.ConditionsPrompt, document,
		[]string{"condition_id", "description", "applies_to"},
		[]string{"conditions"}, "conditions")
	if err != nil {
		return nil, a.Fail(inputs, start, err)
	}

	if forceType && typeHint != "" {
		structure["policy_type"] = typeHint
		if codeHint != "" {
			structure["policy_code"] = codeHint
		}
	}

	synthetic := structSynthetic || rulesSynthetic || conditionsSynthetic

	outputs := map[string]any{
		"policy_structure":  structure,
		"eligibility_rules": rules,
		"conditions":        conditions,
		"sections":          sectionsOf(structure),
		"policy_synthetic":  synthetic,
	}

	return a.Finish(inputs, outputs, start, synthetic), nil
}

func (a *Agent) analyzeStructure(ctx context.Context, document, typeHint, codeHint string) (map[string]any, bool, error) {
	prompt, err := prompts.Render(prompts.PolicyStructurePrompt, map[string]any{
		"document":  document,
		"type_hint": typeHint,
		"type_code": codeHint,
	})
	if err != nil {
		return nil, false, err
	}

	return a.Generate(ctx, prompts.PolicyEvaluatorSystem, prompt, agents.Recovery{
		Fields: []string{"policy_type", "policy_code", "summary"},
		Shape:  agents.ObjectWithAnyKey("policy_type", "sections", "summary"),
		Fallback: func() map[string]any {
			return fallback.Object(TaskName, "policy_structure")
		},
	})
}

func (a *Agent) extractList(ctx context.Context, template, document string, fields, listKeys []string, payloadKey string) ([]any, bool, error) {
	prompt, err := prompts.Render(template, map[string]any{"document": document})
	if err != nil {
		return nil, false, err
	}

	value, synthetic, err := a.Generate(ctx, prompts.PolicyEvaluatorSystem, prompt, agents.Recovery{
		Fields: fields,
		Shape:  agents.NonEmptyList(listKeys...),
		Fallback: func() map[string]any {
			return map[string]any{payloadKey: fallback.List(TaskName, payloadKey)}
		},
	})
	if err != nil {
		return nil, false, err
	}

	list, ok := agents.ListValue(value, append(listKeys, payloadKey)...)
	if !ok {
		a.Logger().Warn("recovered value lost its list, substituting fallback", "key", payloadKey)
		return fallback.List(TaskName, payloadKey), true, nil
	}
	return list, synthetic, nil
}

func (a *Agent) fallbackOutputs(typeHint, codeHint string, forceType bool) map[string]any {
	structure := fallback.Object(TaskName, "policy_structure")
	if forceType && typeHint != "" {
		structure["policy_type"] = typeHint
		if codeHint != "" {
			structure["policy_code"] = codeHint
		}
	}
	return map[string]any{
		"policy_structure":  structure,
		"eligibility_rules": fallback.List(TaskName, "eligibility_rules"),
		"conditions":        fallback.List(TaskName, "conditions"),
		"sections":          sectionsOf(structure),
		"policy_synthetic":  true,
	}
}

func sectionsOf(structure map[string]any) []any {
	if sections, ok := structure["sections"].([]any); ok && len(sections) > 0 {
		return sections
	}
	return fallback.Object(TaskName, "policy_structure")["sections"].([]any)
}
