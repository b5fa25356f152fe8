package agents

import (
	"encoding/json"
	"fmt"

	"policy-agent/internal/usecase/extract"
)

// NonEmptyList accepts values carrying a non-empty list under any of the
// given keys (or the cascade's canonical array wrap key). Partial values
// never satisfy a list shape: the scraper cannot reconstruct collections.
func NonEmptyList(keys ...string) func(map[string]any, bool) bool {
	return func(value map[string]any, partial bool) bool {
		if partial {
			return false
		}
		_, ok := ListValue(value, keys...)
		return ok
	}
}

// ObjectWithAnyKey accepts objects exposing at least one of the known keys.
// Partials are allowed here; a scraped subset still names known fields.
func ObjectWithAnyKey(keys ...string) func(map[string]any, bool) bool {
	return func(value map[string]any, _ bool) bool {
		for _, key := range keys {
			if _, ok := value[key]; ok {
				return true
			}
		}
		return false
	}
}

// ListValue pulls a non-empty list out of a recovered value, trying the
// given keys, then the canonical wrap key. Models occasionally nest the
// array one level deeper than asked; this is where that gets tolerated.
func ListValue(value map[string]any, keys ...string) ([]any, bool) {
	for _, key := range append(keys, extract.ArrayWrapKey) {
		if list, ok := value[key].([]any); ok && len(list) > 0 {
			return list, true
		}
	}
	return nil, false
}

// StringValue reads a string key, with a default for absent or non-string
// values.
func StringValue(value map[string]any, key, fallback string) string {
	if s, ok := value[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// CompactJSON renders a value for prompt interpolation. Marshal failures
// degrade to the fmt representation; prompts tolerate that.
func CompactJSON(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(data)
}

// Truncate caps prompt context at n bytes to keep requests inside the
// model's window.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "\n... (truncated)"
}
