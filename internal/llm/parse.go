package llm

import (
	"fmt"
	"strings"
)

// ExtractJSON pulls the JSON object out of a model response. Models are asked
// for bare JSON but routinely wrap it in code fences or prose, so take the
// outermost {...} span.
func ExtractJSON(response string) (string, error) {
	s := response
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	} else if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object in model response: %q", truncate(response, 200))
	}
	return s[start : end+1], nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
