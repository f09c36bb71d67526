package types

import "time"

// AnalyzerName identifies one of the five analysis capabilities.
type AnalyzerName string

const (
	AnalyzerStressDetector     AnalyzerName = "stress_detector"
	AnalyzerSentimentAnalyzer  AnalyzerName = "sentiment_analyzer"
	AnalyzerStressorFinder     AnalyzerName = "stressor_finder"
	AnalyzerBlockerFinder      AnalyzerName = "blocker_finder"
	AnalyzerSeverityClassifier AnalyzerName = "severity_classifier"
)

// AllAnalyzers lists every required analyzer. The aggregated report always
// carries exactly one entry per name, whatever the per-analyzer outcome.
var AllAnalyzers = []AnalyzerName{
	AnalyzerStressDetector,
	AnalyzerSentimentAnalyzer,
	AnalyzerStressorFinder,
	AnalyzerBlockerFinder,
	AnalyzerSeverityClassifier,
}

// AnalyzerStatus is the outcome of a single analyzer invocation.
type AnalyzerStatus string

const (
	StatusOK       AnalyzerStatus = "ok"
	StatusFailed   AnalyzerStatus = "failed"
	StatusTimedOut AnalyzerStatus = "timed_out"
)

type StressResult struct {
	Stressed bool `json:"stressed"`
	// Confidence in [0,1] when the model reports one.
	Confidence *float64 `json:"confidence,omitempty"`
}

type SentimentResult struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
}

type StressorResult struct {
	// Items keep the model-reported order; duplicates are allowed.
	Items []string `json:"items"`
}

type BlockerResult struct {
	Items []string `json:"items"`
}

type SeverityResult struct {
	Severe bool `json:"severe"`
	// Indicators the model cited when flagging a severe case.
	Indicators []string `json:"indicators,omitempty"`
}

// AnalyzerResult is the tagged union over the five result shapes. Exactly one
// payload pointer is set when Status is "ok"; none is set otherwise.
type AnalyzerResult struct {
	Analyzer AnalyzerName   `json:"analyzer"`
	Status   AnalyzerStatus `json:"status"`
	Error    string         `json:"error,omitempty"`

	Stress    *StressResult    `json:"stress,omitempty"`
	Sentiment *SentimentResult `json:"sentiment,omitempty"`
	Stressors *StressorResult  `json:"stressors,omitempty"`
	Blockers  *BlockerResult   `json:"blockers,omitempty"`
	Severity  *SeverityResult  `json:"severity,omitempty"`
}

// OK reports whether the analyzer produced a usable payload.
func (r AnalyzerResult) OK() bool { return r.Status == StatusOK }

// Outcome classifies a whole call after aggregation.
type Outcome string

const (
	OutcomeComplete       Outcome = "complete"
	OutcomePartialFailure Outcome = "partial_failure"
	OutcomeFailed         Outcome = "failed"
)

// AnalysisReport is the terminal artifact for one call: constructed exactly
// once after every analyzer outcome is known, never mutated afterwards.
// Redelivery of the same call id produces a fresh report that replaces this one.
type AnalysisReport struct {
	CallID              string                          `json:"call_id"`
	CallDurationSeconds float64                         `json:"call_duration_seconds"`
	GeneratedAt         time.Time                       `json:"generated_at"`
	Outcome             Outcome                         `json:"outcome"`
	Results             map[AnalyzerName]AnalyzerResult `json:"results"`
}
