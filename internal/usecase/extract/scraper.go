package extract

import (
	"regexp"
	"strconv"
	"strings"

	"policy-agent/internal/domain/entity"
)

// Scrape runs known field-name patterns directly against raw text and
// assembles whatever subset it can find. Anything it recovers is partial:
// a lower trust tier than a strict parse, so callers can apply stricter
// shape rules. Nothing found means the failed sentinel.
func Scrape(raw string, fields []string) entity.ExtractionResult {
	found := make(map[string]any)

	for _, field := range fields {
		if value, ok := scrapeField(raw, field); ok {
			found[field] = value
		}
	}

	if len(found) == 0 {
		return entity.FailedResult()
	}
	return entity.PartialResult(found)
}

func scrapeField(raw, field string) (any, bool) {
	name := regexp.QuoteMeta(field)

	quoted := regexp.MustCompile(`(?i)"?` + name + `"?\s*:\s*"((?:[^"\\]|\\.)*)"`)
	if m := quoted.FindStringSubmatch(raw); m != nil {
		return unescapeScraped(m[1]), true
	}

	bare := regexp.MustCompile(`(?i)"?` + name + `"?\s*:\s*(-?\d+(?:\.\d+)?|true|false)`)
	if m := bare.FindStringSubmatch(raw); m != nil {
		token := m[1]
		if token == "true" || token == "false" {
			return token == "true", true
		}
		if n, err := strconv.ParseFloat(token, 64); err == nil {
			return n, true
		}
	}

	return nil, false
}

func unescapeScraped(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}
