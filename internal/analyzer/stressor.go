package analyzer

import (
	"context"
	"encoding/json"
	"fmt"

	"wellbeing-insights-go/internal/llm"
	"wellbeing-insights-go/internal/types"
)

const stressorInstruction = `
Identify the named sources of stress mentioned by the caller (for example:
workload, deadlines, manager behaviour, unclear goals, office politics).
Rank them most significant first. Return an empty list if none are mentioned.

Respond ONLY with valid JSON in this exact format:
{
  "stressors": ["stressor1", "stressor2"]
}
`

// StressorFinder names the sources of stress, in the model's own ranking.
type StressorFinder struct {
	provider llm.Provider
}

func NewStressorFinder(p llm.Provider) *StressorFinder { return &StressorFinder{provider: p} }

func (a *StressorFinder) Name() types.AnalyzerName { return types.AnalyzerStressorFinder }

func (a *StressorFinder) Analyze(ctx context.Context, meta types.CallMetadata, turns []types.TranscriptTurn) (types.AnalyzerResult, error) {
	result := types.AnalyzerResult{Analyzer: a.Name(), Status: types.StatusOK}
	if len(turns) == 0 {
		result.Stressors = &types.StressorResult{Items: []string{}}
		return result, nil
	}

	raw, err := complete(ctx, a.provider, stressorSettings, transcriptPrompt(turns, false, meta)+stressorInstruction)
	if err != nil {
		return types.AnalyzerResult{}, err
	}
	var out struct {
		Stressors []string `json:"stressors"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return types.AnalyzerResult{}, fmt.Errorf("stressor finder output: %w", err)
	}
	if out.Stressors == nil {
		return types.AnalyzerResult{}, fmt.Errorf("stressor finder output missing 'stressors'")
	}
	result.Stressors = &types.StressorResult{Items: out.Stressors}
	return result, nil
}
