package questions

import (
	"context"
	"time"

	"policy-agent/internal/application/port/output"
	"policy-agent/internal/infrastructure/prompts"
	"policy-agent/internal/usecase/agents"
	"policy-agent/internal/usecase/agents/fallback"
)

const (
	TaskName = "question_generator"

	maxContextChars = 8000
)

var _ output.TaskUnit = (*Agent)(nil)

// Agent generates the applicant-facing question set from the captured
// requirements, plus the conditional display logic between questions.
type Agent struct {
	agents.Base
}

func New(llm output.LLMPort, logger output.LoggerPort, cfg agents.Config) *Agent {
	return &Agent{Base: agents.NewBase(TaskName, llm, logger, cfg)}
}

func (a *Agent) Execute(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	start := time.Now()

	requirementContext := agents.Truncate(
		"Functional requirements: "+agents.CompactJSON(inputs["functional_requirements"])+
			"\nData requirements: "+agents.CompactJSON(inputs["data_requirements"])+
			"\nValidation rules: "+agents.CompactJSON(inputs["validation_rules"]),
		maxContextChars)

	questionList, questionsSynthetic, err := a.generateQuestions(ctx, requirementContext)
	if err != nil {
		return nil, a.Fail(inputs, start, err)
	}

	flow, flowSynthetic, err := a.generateFlow(ctx, questionList)
	if err != nil {
		return nil, a.Fail(inputs, start, err)
	}

	synthetic := questionsSynthetic || flowSynthetic

	outputs := map[string]any{
		"questions":           questionList,
		"question_flow":       flow,
		"questions_synthetic": synthetic,
	}

	return a.Finish(inputs, outputs, start, synthetic), nil
}

func (a *Agent) generateQuestions(ctx context.Context, requirementContext string) ([]any, bool, error) {
	prompt, err := prompts.Render(prompts.QuestionsPrompt, map[string]any{
		"requirements": requirementContext,
	})
	if err != nil {
		return nil, false, err
	}

	value, synthetic, err := a.Generate(ctx, prompts.QuestionsSystem, prompt, agents.Recovery{
		Fields: []string{"question_id", "question_text", "input_type", "section"},
		Shape:  agents.NonEmptyList("questions"),
		Fallback: func() map[string]any {
			return map[string]any{"questions": fallback.List(TaskName, "questions")}
		},
	})
	if err != nil {
		return nil, false, err
	}

	list, ok := agents.ListValue(value, "questions")
	if !ok {
		a.Logger().Warn("recovered value lost its question list, substituting fallback")
		return fallback.List(TaskName, "questions"), true, nil
	}
	return list, synthetic, nil
}

// generateFlow tolerates an empty object: a question set with no
// conditional logic is a valid outcome, not a shape failure.
func (a *Agent) generateFlow(ctx context.Context, questionList []any) (map[string]any, bool, error) {
	prompt, err := prompts.Render(prompts.QuestionFlowPrompt, map[string]any{
		"questions": agents.Truncate(agents.CompactJSON(questionList), maxContextChars),
	})
	if err != nil {
		return nil, false, err
	}

	return a.Generate(ctx, prompts.QuestionsSystem, prompt, agents.Recovery{
		Shape: func(value map[string]any, partial bool) bool {
			return !partial
		},
		Fallback: func() map[string]any {
			return fallback.Object(TaskName, "question_flow")
		},
	})
}
