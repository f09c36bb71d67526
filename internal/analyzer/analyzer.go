package analyzer

import (
	"context"

	"wellbeing-insights-go/internal/llm"
	"wellbeing-insights-go/internal/types"
)

// Analyzer derives one structured judgment from a call transcript. Stateless:
// safe to invoke concurrently with any other analyzer on the same or a
// different call. An analyzer that cannot parse its own model output fails
// closed instead of returning a guessed payload.
type Analyzer interface {
	Name() types.AnalyzerName
	Analyze(ctx context.Context, meta types.CallMetadata, turns []types.TranscriptTurn) (types.AnalyzerResult, error)
}

const systemPrompt = "You are an analysis engine for employee well-being voice calls. " +
	"You answer only with the exact JSON object requested, no explanation."

// settings mirror the per-variant generation profiles: binary classifiers run
// cold, list finders slightly warmer, the severity classifier coldest of all.
type settings struct {
	tier        llm.Tier
	temperature float64
	maxTokens   int64
}

var (
	stressSettings    = settings{llm.TierStandard, 0.2, 512}
	sentimentSettings = settings{llm.TierStandard, 0.3, 512}
	stressorSettings  = settings{llm.TierStandard, 0.4, 1024}
	blockerSettings   = settings{llm.TierStandard, 0.4, 1024}
	severitySettings  = settings{llm.TierHighAccuracy, 0.1, 512}
)

func complete(ctx context.Context, p llm.Provider, s settings, prompt string) (string, error) {
	raw, err := p.Complete(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      prompt,
		Tier:        s.tier,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return "", err
	}
	return llm.ExtractJSON(raw)
}

// All constructs the five required analyzers against one provider.
func All(p llm.Provider) []Analyzer {
	return []Analyzer{
		NewStressDetector(p),
		NewSentimentAnalyzer(p),
		NewStressorFinder(p),
		NewBlockerFinder(p),
		NewSeverityClassifier(p),
	}
}
