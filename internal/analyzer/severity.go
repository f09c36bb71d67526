package analyzer

import (
	"context"
	"encoding/json"
	"fmt"

	"wellbeing-insights-go/internal/llm"
	"wellbeing-insights-go/internal/types"
)

const severityInstruction = `
Determine if this call represents a SEVERE CASE requiring URGENT human
follow-up.

Severe case indicators (any one of these means severe):
- self-harm mentions or suicidal ideation
- immediate danger to self or others
- extreme emotional distress (panic attack, breakdown, crisis)
- mentions of abuse or violence
- severe mental health crisis
- expressions of giving up or losing hope entirely

Not severe (typical stress or difficulty):
- general work stress or frustration
- relationship conflicts, financial concerns
- time management issues, typical anxiety or worry

Consider the call duration as context: a very short call (<60s) with crisis
language is more likely severe; a long call (>300s) exploring options may be
less severe.

Respond ONLY with valid JSON in this exact format:
{
  "severe": true or false,
  "indicators": ["reason1", "reason2"] or null
}
`

// SeverityClassifier decides whether the call indicates a crisis. It is the
// safety-critical judgment, so it runs on the high-accuracy model tier; a
// false negative here is the worst failure mode in the system.
type SeverityClassifier struct {
	provider llm.Provider
}

func NewSeverityClassifier(p llm.Provider) *SeverityClassifier {
	return &SeverityClassifier{provider: p}
}

func (a *SeverityClassifier) Name() types.AnalyzerName { return types.AnalyzerSeverityClassifier }

func (a *SeverityClassifier) Analyze(ctx context.Context, meta types.CallMetadata, turns []types.TranscriptTurn) (types.AnalyzerResult, error) {
	result := types.AnalyzerResult{Analyzer: a.Name(), Status: types.StatusOK}
	if len(turns) == 0 {
		result.Severity = &types.SeverityResult{Severe: false}
		return result, nil
	}

	raw, err := complete(ctx, a.provider, severitySettings, transcriptPrompt(turns, true, meta)+severityInstruction)
	if err != nil {
		return types.AnalyzerResult{}, err
	}
	var out struct {
		Severe     *bool    `json:"severe"`
		Indicators []string `json:"indicators"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return types.AnalyzerResult{}, fmt.Errorf("severity classifier output: %w", err)
	}
	if out.Severe == nil {
		return types.AnalyzerResult{}, fmt.Errorf("severity classifier output missing 'severe'")
	}
	result.Severity = &types.SeverityResult{Severe: *out.Severe, Indicators: out.Indicators}
	return result, nil
}
