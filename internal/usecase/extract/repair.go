package extract

import (
	"regexp"
	"strings"
)

var trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)

// Repair applies the best-effort fixes for the malformations models most
// often produce: trailing commas before a closing bracket and unescaped
// quotation marks inside string values. The quote fix is heuristic and
// lossy; it can corrupt pathological inputs, in which case the strict
// parse simply fails and the cascade moves on.
func Repair(candidate string) string {
	candidate = trailingCommaPattern.ReplaceAllString(candidate, "$1")
	return escapeInnerQuotes(candidate)
}

// escapeInnerQuotes walks the candidate tracking string state. A quote met
// inside a string is treated as the terminator only when the next
// non-space character could legally follow a string value; otherwise it is
// assumed to be unescaped content and gets a backslash.
func escapeInnerQuotes(candidate string) string {
	var b strings.Builder
	b.Grow(len(candidate))

	inString := false
	escaped := false

	for i := 0; i < len(candidate); i++ {
		c := candidate[i]

		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}

		switch {
		case c == '\\' && inString:
			b.WriteByte(c)
			escaped = true
		case c == '"' && !inString:
			b.WriteByte(c)
			inString = true
		case c == '"' && inString:
			if terminatesString(candidate, i+1) {
				b.WriteByte(c)
				inString = false
			} else {
				b.WriteString(`\"`)
			}
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

func terminatesString(candidate string, from int) bool {
	for i := from; i < len(candidate); i++ {
		switch candidate[i] {
		case ' ', '\t', '\r', '\n':
			continue
		case ',', ':', '}', ']':
			return true
		default:
			return false
		}
	}
	return true
}
