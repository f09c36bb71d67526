package llm

import (
	"context"
	"strings"
)

// Mock is the offline demo provider (USE_MOCK_LLM=true). It answers each
// analyzer's prompt with a deterministic, schema-valid JSON object so the full
// pipeline can run without model access.
type Mock struct{}

func NewMock() *Mock { return &Mock{} }

func (m *Mock) Complete(_ context.Context, req Request) (string, error) {
	p := req.Prompt
	switch {
	case strings.Contains(p, `"stressed"`):
		return `{"stressed": true, "confidence": 0.8}`, nil
	case strings.Contains(p, `"positive"`):
		return `{"positive": 2, "negative": 3}`, nil
	case strings.Contains(p, `"stressors"`):
		return `{"stressors": ["workload", "deadlines"]}`, nil
	case strings.Contains(p, `"blockers"`):
		return `{"blockers": ["waiting for approvals"]}`, nil
	case strings.Contains(p, `"severe"`):
		return `{"severe": false, "indicators": null}`, nil
	default:
		return `{}`, nil
	}
}
