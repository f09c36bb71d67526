package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellbeing-insights-go/internal/llm"
	"wellbeing-insights-go/internal/types"
)

// stubProvider returns a canned response (or error) and records the request.
type stubProvider struct {
	response string
	err      error
	lastReq  llm.Request
	calls    int
}

func (s *stubProvider) Complete(_ context.Context, req llm.Request) (string, error) {
	s.lastReq = req
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

var (
	meta  = types.CallMetadata{CallID: "c1", DurationSeconds: 120}
	turns = []types.TranscriptTurn{
		{Role: types.RoleUser, Content: "I'm completely overwhelmed by deadlines."},
		{Role: types.RoleAssistant, Content: "Tell me more about that."},
	}
)

func TestStressDetector(t *testing.T) {
	p := &stubProvider{response: `{"stressed": true, "confidence": 0.9}`}
	res, err := NewStressDetector(p).Analyze(context.Background(), meta, turns)
	require.NoError(t, err)
	assert.Equal(t, types.AnalyzerStressDetector, res.Analyzer)
	assert.True(t, res.OK())
	require.NotNil(t, res.Stress)
	assert.True(t, res.Stress.Stressed)
	require.NotNil(t, res.Stress.Confidence)
	assert.Equal(t, 0.9, *res.Stress.Confidence)
	assert.Equal(t, llm.TierStandard, p.lastReq.Tier)
}

func TestStressDetectorFailsClosedOnGarbage(t *testing.T) {
	p := &stubProvider{response: `definitely stressed, trust me`}
	_, err := NewStressDetector(p).Analyze(context.Background(), meta, turns)
	assert.Error(t, err)
}

func TestStressDetectorRejectsOutOfRangeConfidence(t *testing.T) {
	p := &stubProvider{response: `{"stressed": false, "confidence": 3.5}`}
	_, err := NewStressDetector(p).Analyze(context.Background(), meta, turns)
	assert.Error(t, err)
}

func TestSentimentAnalyzer(t *testing.T) {
	p := &stubProvider{response: "```json\n{\"positive\": 2, \"negative\": 5}\n```"}
	res, err := NewSentimentAnalyzer(p).Analyze(context.Background(), meta, turns)
	require.NoError(t, err)
	require.NotNil(t, res.Sentiment)
	assert.Equal(t, 2, res.Sentiment.Positive)
	assert.Equal(t, 5, res.Sentiment.Negative)
}

func TestSentimentAnalyzerRejectsNegativeCounts(t *testing.T) {
	p := &stubProvider{response: `{"positive": -1, "negative": 0}`}
	_, err := NewSentimentAnalyzer(p).Analyze(context.Background(), meta, turns)
	assert.Error(t, err)
}

func TestSentimentAnalyzerRejectsMissingCounts(t *testing.T) {
	p := &stubProvider{response: `{"positive": 1}`}
	_, err := NewSentimentAnalyzer(p).Analyze(context.Background(), meta, turns)
	assert.Error(t, err)
}

func TestStressorFinderPreservesOrder(t *testing.T) {
	p := &stubProvider{response: `{"stressors": ["deadlines", "manager behaviour", "deadlines"]}`}
	res, err := NewStressorFinder(p).Analyze(context.Background(), meta, turns)
	require.NoError(t, err)
	require.NotNil(t, res.Stressors)
	// Model-reported order kept, duplicates allowed.
	assert.Equal(t, []string{"deadlines", "manager behaviour", "deadlines"}, res.Stressors.Items)
}

func TestBlockerFinder(t *testing.T) {
	p := &stubProvider{response: `{"blockers": ["waiting for approvals"]}`}
	res, err := NewBlockerFinder(p).Analyze(context.Background(), meta, turns)
	require.NoError(t, err)
	require.NotNil(t, res.Blockers)
	assert.Equal(t, []string{"waiting for approvals"}, res.Blockers.Items)
}

func TestBlockerFinderRejectsMissingField(t *testing.T) {
	p := &stubProvider{response: `{"obstacles": ["wrong key"]}`}
	_, err := NewBlockerFinder(p).Analyze(context.Background(), meta, turns)
	assert.Error(t, err)
}

func TestSeverityClassifierUsesHighAccuracyTier(t *testing.T) {
	p := &stubProvider{response: `{"severe": true, "indicators": ["self-harm mention"]}`}
	res, err := NewSeverityClassifier(p).Analyze(context.Background(), meta, turns)
	require.NoError(t, err)
	require.NotNil(t, res.Severity)
	assert.True(t, res.Severity.Severe)
	assert.Equal(t, []string{"self-harm mention"}, res.Severity.Indicators)
	assert.Equal(t, llm.TierHighAccuracy, p.lastReq.Tier)
	// Duration is part of the severity prompt context.
	assert.Contains(t, p.lastReq.Prompt, "CALL DURATION: 120 seconds")
}

func TestProviderErrorPropagates(t *testing.T) {
	p := &stubProvider{err: errors.New("model unavailable")}
	_, err := NewSeverityClassifier(p).Analyze(context.Background(), meta, turns)
	assert.Error(t, err)
}

func TestEmptyTranscriptDefaults(t *testing.T) {
	// No model call is made for a call with zero turns; every analyzer
	// returns its declared default.
	p := &stubProvider{err: errors.New("must not be called")}
	for _, a := range All(p) {
		res, err := a.Analyze(context.Background(), meta, nil)
		require.NoError(t, err, "analyzer %s", a.Name())
		assert.True(t, res.OK(), "analyzer %s", a.Name())
	}
	assert.Zero(t, p.calls)

	res, _ := NewStressDetector(p).Analyze(context.Background(), meta, nil)
	assert.False(t, res.Stress.Stressed)
	res, _ = NewSentimentAnalyzer(p).Analyze(context.Background(), meta, nil)
	assert.Equal(t, &types.SentimentResult{Positive: 0, Negative: 0}, res.Sentiment)
	res, _ = NewStressorFinder(p).Analyze(context.Background(), meta, nil)
	assert.Empty(t, res.Stressors.Items)
	res, _ = NewBlockerFinder(p).Analyze(context.Background(), meta, nil)
	assert.Empty(t, res.Blockers.Items)
	res, _ = NewSeverityClassifier(p).Analyze(context.Background(), meta, nil)
	assert.False(t, res.Severity.Severe)
}

func TestTranscriptPromptRendering(t *testing.T) {
	prompt := transcriptPrompt(turns, false, meta)
	assert.Contains(t, prompt, "USER: I'm completely overwhelmed by deadlines.")
	assert.Contains(t, prompt, "ASSISTANT: Tell me more about that.")
	assert.NotContains(t, prompt, "CALL DURATION")
}
