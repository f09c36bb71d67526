package analyzer

import (
	"context"
	"encoding/json"
	"fmt"

	"wellbeing-insights-go/internal/llm"
	"wellbeing-insights-go/internal/types"
)

const blockerInstruction = `
Identify the named obstacles preventing the caller from making progress
(for example: waiting for approvals, lack of clarity from manager,
dependencies on other teams, resource crunch).
Return an empty list if none are mentioned.

Respond ONLY with valid JSON in this exact format:
{
  "blockers": ["blocker1", "blocker2"]
}
`

// BlockerFinder names the obstacles preventing progress.
type BlockerFinder struct {
	provider llm.Provider
}

func NewBlockerFinder(p llm.Provider) *BlockerFinder { return &BlockerFinder{provider: p} }

func (a *BlockerFinder) Name() types.AnalyzerName { return types.AnalyzerBlockerFinder }

func (a *BlockerFinder) Analyze(ctx context.Context, meta types.CallMetadata, turns []types.TranscriptTurn) (types.AnalyzerResult, error) {
	result := types.AnalyzerResult{Analyzer: a.Name(), Status: types.StatusOK}
	if len(turns) == 0 {
		result.Blockers = &types.BlockerResult{Items: []string{}}
		return result, nil
	}

	raw, err := complete(ctx, a.provider, blockerSettings, transcriptPrompt(turns, false, meta)+blockerInstruction)
	if err != nil {
		return types.AnalyzerResult{}, err
	}
	var out struct {
		Blockers []string `json:"blockers"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return types.AnalyzerResult{}, fmt.Errorf("blocker finder output: %w", err)
	}
	if out.Blockers == nil {
		return types.AnalyzerResult{}, fmt.Errorf("blocker finder output missing 'blockers'")
	}
	result.Blockers = &types.BlockerResult{Items: out.Blockers}
	return result, nil
}
