package validation

import (
	"math"
	"regexp"
	"strings"
)

// Shape-only checks: a requirement or question is valid when its
// identifying fields are present and non-empty. No semantic judgement is
// attempted here.

func validateRequirements(items []any) map[string]any {
	valid := 0
	for _, item := range items {
		req, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if hasText(req, "requirement_id", "rule_id", "id") && hasText(req, "description") {
			valid++
		}
	}

	return map[string]any{
		"total_requirements":   len(items),
		"valid_requirements":   valid,
		"invalid_requirements": len(items) - valid,
		"validation_rate":      rate(valid, len(items)),
	}
}

func validateQuestions(items []any) map[string]any {
	valid := 0
	for _, item := range items {
		q, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if hasText(q, "question_id", "id") && hasText(q, "question_text") && hasText(q, "input_type") {
			valid++
		}
	}

	return map[string]any{
		"total_questions":   len(items),
		"valid_questions":   valid,
		"invalid_questions": len(items) - valid,
		"validation_rate":   rate(valid, len(items)),
	}
}

// checkConsistency cross-checks the captured collections against each
// other: requirements and structure must be reflected in the questions
// built from them. Four presence checks, 25 points each.
func checkConsistency(functional, data, businessRules, questions, sections []any) map[string]any {
	hasQuestions := len(questions) > 0

	score := 0
	issues := make([]string, 0, 4)

	if len(functional) > 0 && hasQuestions {
		score += 25
	} else {
		issues = append(issues, "Functional requirements not reflected in questions")
	}
	if len(data) > 0 && hasQuestions {
		score += 25
	} else {
		issues = append(issues, "Data requirements not reflected in questions")
	}
	if len(businessRules) > 0 {
		score += 25
	} else {
		issues = append(issues, "No business rules captured")
	}
	if len(sections) > 0 && hasQuestions {
		score += 25
	} else {
		issues = append(issues, "Policy structure not reflected in questions")
	}

	return map[string]any{
		"consistency_score": score,
		"issues":            issues,
		"checks_performed":  4,
	}
}

var sectionNumberPrefix = regexp.MustCompile(`^\s*\d+(\.\d+)*\.?\s*`)

// analyzeCoverage counts policy sections referenced by at least one
// requirement or question. Matching is loose on purpose: references may
// carry or omit the section numbering.
func analyzeCoverage(requirements, questions, sections []any) map[string]any {
	references := make([]string, 0, len(requirements)+len(questions))
	for _, item := range append(append([]any{}, requirements...), questions...) {
		if m, ok := item.(map[string]any); ok {
			if ref, ok := m["policy_reference"].(string); ok {
				references = append(references, strings.ToLower(ref))
			}
		}
	}

	covered := 0
	uncovered := make([]string, 0)
	for _, s := range sections {
		title, ok := s.(string)
		if !ok {
			continue
		}
		if sectionCovered(title, references) {
			covered++
		} else {
			uncovered = append(uncovered, title)
		}
	}

	return map[string]any{
		"total_sections":      len(sections),
		"covered_sections":    covered,
		"uncovered_sections":  uncovered,
		"coverage_percentage": rate(covered, len(sections)),
	}
}

func sectionCovered(title string, references []string) bool {
	full := strings.ToLower(strings.TrimSpace(title))
	bare := strings.ToLower(strings.TrimSpace(sectionNumberPrefix.ReplaceAllString(title, "")))

	for _, ref := range references {
		if ref == "" {
			continue
		}
		if strings.Contains(ref, full) || strings.Contains(full, ref) {
			return true
		}
		if bare != "" && strings.Contains(ref, bare) {
			return true
		}
	}
	return false
}

// overallScore is the weighted composite of the three rates, all 0-100.
// The raw value is reported as computed; degraded trust shows up in the
// separate confidence figure, never as a clamp on the score itself.
func overallScore(requirementRate, questionRate, coveragePercentage float64) float64 {
	return round2(0.30*requirementRate + 0.30*questionRate + 0.40*coveragePercentage)
}

func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func hasText(m map[string]any, keys ...string) bool {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}
