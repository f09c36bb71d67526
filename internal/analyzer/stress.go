package analyzer

import (
	"context"
	"encoding/json"
	"fmt"

	"wellbeing-insights-go/internal/llm"
	"wellbeing-insights-go/internal/types"
)

const stressInstruction = `
Determine whether the caller is experiencing stress.

Stress indicators include:
- words expressing anxiety, worry, or fear
- frustration or feeling overwhelmed
- time pressure, urgency, or deadlines
- emotional language (scared, panicking, breaking down)
- difficulty coping, sleep problems, exhaustion, burnout

Respond ONLY with valid JSON in this exact format:
{
  "stressed": true or false,
  "confidence": 0.0 to 1.0
}
`

// StressDetector flags any indicator of anxiety, frustration or overwhelm.
type StressDetector struct {
	provider llm.Provider
}

func NewStressDetector(p llm.Provider) *StressDetector { return &StressDetector{provider: p} }

func (a *StressDetector) Name() types.AnalyzerName { return types.AnalyzerStressDetector }

func (a *StressDetector) Analyze(ctx context.Context, meta types.CallMetadata, turns []types.TranscriptTurn) (types.AnalyzerResult, error) {
	result := types.AnalyzerResult{Analyzer: a.Name(), Status: types.StatusOK}
	if len(turns) == 0 {
		result.Stress = &types.StressResult{Stressed: false}
		return result, nil
	}

	raw, err := complete(ctx, a.provider, stressSettings, transcriptPrompt(turns, false, meta)+stressInstruction)
	if err != nil {
		return types.AnalyzerResult{}, err
	}
	var out struct {
		Stressed   *bool    `json:"stressed"`
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return types.AnalyzerResult{}, fmt.Errorf("stress detector output: %w", err)
	}
	if out.Stressed == nil {
		return types.AnalyzerResult{}, fmt.Errorf("stress detector output missing 'stressed'")
	}
	if out.Confidence != nil && (*out.Confidence < 0 || *out.Confidence > 1) {
		return types.AnalyzerResult{}, fmt.Errorf("stress detector confidence %v out of range", *out.Confidence)
	}
	result.Stress = &types.StressResult{Stressed: *out.Stressed, Confidence: out.Confidence}
	return result, nil
}
