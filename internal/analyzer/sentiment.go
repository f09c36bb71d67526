package analyzer

import (
	"context"
	"encoding/json"
	"fmt"

	"wellbeing-insights-go/internal/llm"
	"wellbeing-insights-go/internal/types"
)

const sentimentInstruction = `
Count the clearly positive and clearly negative expressions by the caller.
Count only unambiguous expressions; neutral statements count for neither side.

Respond ONLY with valid JSON in this exact format:
{
  "positive": <number>,
  "negative": <number>
}
`

// SentimentAnalyzer tallies clearly positive vs clearly negative expressions.
type SentimentAnalyzer struct {
	provider llm.Provider
}

func NewSentimentAnalyzer(p llm.Provider) *SentimentAnalyzer { return &SentimentAnalyzer{provider: p} }

func (a *SentimentAnalyzer) Name() types.AnalyzerName { return types.AnalyzerSentimentAnalyzer }

func (a *SentimentAnalyzer) Analyze(ctx context.Context, meta types.CallMetadata, turns []types.TranscriptTurn) (types.AnalyzerResult, error) {
	result := types.AnalyzerResult{Analyzer: a.Name(), Status: types.StatusOK}
	if len(turns) == 0 {
		result.Sentiment = &types.SentimentResult{}
		return result, nil
	}

	raw, err := complete(ctx, a.provider, sentimentSettings, transcriptPrompt(turns, false, meta)+sentimentInstruction)
	if err != nil {
		return types.AnalyzerResult{}, err
	}
	var out struct {
		Positive *int `json:"positive"`
		Negative *int `json:"negative"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return types.AnalyzerResult{}, fmt.Errorf("sentiment analyzer output: %w", err)
	}
	if out.Positive == nil || out.Negative == nil {
		return types.AnalyzerResult{}, fmt.Errorf("sentiment analyzer output missing counts")
	}
	if *out.Positive < 0 || *out.Negative < 0 {
		return types.AnalyzerResult{}, fmt.Errorf("sentiment analyzer returned negative counts (%d/%d)", *out.Positive, *out.Negative)
	}
	result.Sentiment = &types.SentimentResult{Positive: *out.Positive, Negative: *out.Negative}
	return result, nil
}
