package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"policy-agent/internal/domain/entity"
)

// ArrayWrapKey is the canonical key bare top-level arrays are wrapped
// under so downstream shape checks see a uniform object contract.
const ArrayWrapKey = "items"

var fencePatterns = []*regexp.Regexp{
	regexp.MustCompile("(?s)```json\\s*(.*?)```"),
	regexp.MustCompile("(?s)```\\s*(.*?)```"),
	regexp.MustCompile("(?s)~~~\\s*(.*?)~~~"),
}

// Extract recovers a structured object from free-form model output. It
// never panics and always returns parsed, partial or the failed sentinel.
// Strategies run in order of decreasing strictness: fenced code blocks,
// the first balanced {...} region, the first balanced [...] region, then
// an aggressive trim to the outermost bracket pair. When all of those are
// exhausted the field scraper assembles whatever subset of the requested
// fields it can find directly from the raw text.
func Extract(raw string, fields []string) (result entity.ExtractionResult) {
	defer func() {
		if r := recover(); r != nil {
			result = entity.FailedResult()
		}
	}()

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return entity.FailedResult()
	}

	strategies := []func(string) (map[string]any, bool){
		fromFencedBlocks,
		fromBalancedObject,
		fromBalancedArray,
		fromAggressiveTrim,
	}

	for _, strategy := range strategies {
		if value, ok := strategy(raw); ok {
			return entity.ParsedResult(value)
		}
	}

	return Scrape(raw, fields)
}

func fromFencedBlocks(raw string) (map[string]any, bool) {
	for _, pattern := range fencePatterns {
		for _, match := range pattern.FindAllStringSubmatch(raw, -1) {
			if value, ok := decodeCandidate(match[1]); ok {
				return value, true
			}
		}
	}
	return nil, false
}

func fromBalancedObject(raw string) (map[string]any, bool) {
	region, ok := balancedRegion(raw, '{', '}')
	if !ok {
		return nil, false
	}
	return decodeCandidate(region)
}

func fromBalancedArray(raw string) (map[string]any, bool) {
	region, ok := balancedRegion(raw, '[', ']')
	if !ok {
		return nil, false
	}
	return decodeCandidate(region)
}

func fromAggressiveTrim(raw string) (map[string]any, bool) {
	start := strings.IndexAny(raw, "{[")
	if start == -1 {
		return nil, false
	}

	var end int
	if raw[start] == '{' {
		end = strings.LastIndex(raw, "}")
	} else {
		end = strings.LastIndex(raw, "]")
	}
	if end <= start {
		return nil, false
	}

	return decodeCandidate(raw[start : end+1])
}

// decodeCandidate runs the repair pass and a strict parse on one candidate
// region. Bare arrays are wrapped under ArrayWrapKey; scalars are rejected.
func decodeCandidate(candidate string) (map[string]any, bool) {
	candidate = Repair(strings.TrimSpace(candidate))
	if candidate == "" || !gjson.Valid(candidate) {
		return nil, false
	}

	var value any
	if err := json.Unmarshal([]byte(candidate), &value); err != nil {
		return nil, false
	}

	switch v := value.(type) {
	case map[string]any:
		return v, true
	case []any:
		return map[string]any{ArrayWrapKey: v}, true
	}
	return nil, false
}

// balancedRegion returns the first top-level bracket-balanced region of the
// given kind, respecting string literals and escapes while counting depth.
func balancedRegion(raw string, open, close byte) (string, bool) {
	start := strings.IndexByte(raw, open)
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(raw); i++ {
		c := raw[i]

		if escaped {
			escaped = false
			continue
		}

		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}

	return "", false
}
