package llm

import (
	"regexp"
	"strings"
)

var (
	jsonFence  = regexp.MustCompile("```json\\n?")
	plainFence = regexp.MustCompile("```\\n?")
	objectSpan = regexp.MustCompile(`\{[\s\S]*\}`)
)

// StripCodeFences removes markdown code fences a model wraps around JSON.
func StripCodeFences(s string) string {
	s = jsonFence.ReplaceAllString(s, "")
	s = plainFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ExtractJSONObject returns the span from the first '{' to the last '}', or
// the trimmed input when there is none.
func ExtractJSONObject(s string) string {
	if m := objectSpan.FindString(s); m != "" {
		return m
	}
	return strings.TrimSpace(s)
}
