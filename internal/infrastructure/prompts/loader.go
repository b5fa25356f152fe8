package prompts

import (
	_ "embed"
)

//go:embed policy_structure.txt
var PolicyStructurePrompt string

//go:embed eligibility_rules.txt
var EligibilityRulesPrompt string

//go:embed conditions.txt
var ConditionsPrompt string

//go:embed functional_requirements.txt
var FunctionalRequirementsPrompt string

//go:embed data_requirements.txt
var DataRequirementsPrompt string

//go:embed business_rules.txt
var BusinessRulesPrompt string

//go:embed validation_rules.txt
var ValidationRulesPrompt string

//go:embed questions.txt
var QuestionsPrompt string

//go:embed question_flow.txt
var QuestionFlowPrompt string

//go:embed gap_analysis.txt
var GapAnalysisPrompt string

//go:embed consolidation_summary.txt
var ConsolidationSummaryPrompt string

// System prompts are short personas; the task detail lives in the user
// templates above.
const (
	PolicyEvaluatorSystem = "You are a policy analysis specialist. You parse immigration policy documents and return their structure as strict JSON. Output only valid JSON, never prose."

	RequirementsSystem = "You are a requirements engineer. You turn policy analysis into structured system requirements and return them as strict JSON arrays. Output only valid JSON, never prose."

	QuestionsSystem = "You are an application form designer. You turn requirements into applicant-facing questions and return them as strict JSON arrays. Output only valid JSON, never prose."

	ValidationSystem = "You are a quality reviewer for requirement sets. You identify gaps and inconsistencies and return findings as strict JSON. Output only valid JSON, never prose."

	ConsolidationSystem = "You are a technical writer. You summarise requirement specifications concisely and return the summary as strict JSON. Output only valid JSON, never prose."
)
