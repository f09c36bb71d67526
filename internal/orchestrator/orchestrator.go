// Package orchestrator owns the per-call pipeline: validate the raw report,
// fan out to every analyzer concurrently, join with a bounded wait, and
// persist one aggregated artifact per call.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"wellbeing-insights-go/internal/analyzer"
	"wellbeing-insights-go/internal/config"
	"wellbeing-insights-go/internal/logger"
	"wellbeing-insights-go/internal/normalizer"
	"wellbeing-insights-go/internal/store"
	"wellbeing-insights-go/internal/types"
)

// State of one call's pipeline. Each call gets its own isolated instance;
// there is no cross-call shared mutable state here.
type State string

const (
	StateReceived       State = "received"
	StateNormalizing    State = "normalizing"
	StateDispatched     State = "dispatched"
	StateAggregating    State = "aggregating"
	StateComplete       State = "complete"
	StatePartialFailure State = "partial_failure"
	StateFailed         State = "failed"
)

type Orchestrator struct {
	store           store.ArtifactStore
	analyzers       []analyzer.Analyzer
	analyzerTimeout time.Duration
	joinTimeout     time.Duration
	log             *logger.Logger

	now func() time.Time
}

func New(st store.ArtifactStore, analyzers []analyzer.Analyzer, cfg config.AnalysisConfig, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		store:           st,
		analyzers:       analyzers,
		analyzerTimeout: cfg.AnalyzerTimeout,
		joinTimeout:     cfg.JoinTimeout,
		log:             log,
		now:             time.Now,
	}
}

// ProcessReport runs the whole pipeline for one raw call report. Redelivery
// of a call id reprocesses from scratch and overwrites all three artifacts.
//
// Errors out of here are either a *normalizer.ValidationError (payload
// rejected, only the raw artifact kept) or a *store.PersistenceError (work
// lost, safe for the caller to request redelivery). Analyzer failures never
// surface as errors: they degrade the report's outcome instead.
func (o *Orchestrator) ProcessReport(ctx context.Context, raw []byte) (*types.AnalysisReport, error) {
	callID := peekCallID(raw)
	log := o.log.WithCall(callID)
	log.WithField("state", StateReceived).Debug("call report received")

	// The raw artifact is written before anything else so a rejected payload
	// still leaves a trace for diagnosis.
	if err := o.store.Put(ctx, callID, store.KindRaw, raw); err != nil {
		return nil, err
	}

	log.WithField("state", StateNormalizing).Debug("normalizing")
	call, err := normalizer.Normalize(raw)
	if err != nil {
		log.WithField("state", StateFailed).WithError(err).Warn("call report rejected")
		return nil, err
	}
	log = o.log.WithCall(call.Metadata.CallID)
	if call.DroppedTurns > 0 {
		log.WithField("dropped_turns", call.DroppedTurns).Info("dropped unusable transcript turns")
	}

	normalized, err := json.Marshal(call)
	if err != nil {
		return nil, fmt.Errorf("encode normalized call: %w", err)
	}
	if err := o.store.Put(ctx, call.Metadata.CallID, store.KindNormalized, normalized); err != nil {
		return nil, err
	}

	log.WithField("state", StateDispatched).WithField("analyzers", len(o.analyzers)).Debug("fan-out started")
	results := o.fanOut(ctx, call)

	log.WithField("state", StateAggregating).Debug("aggregating")
	report := o.buildReport(call, results)

	payload, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("encode analysis report: %w", err)
	}
	if err := o.store.Put(ctx, report.CallID, store.KindAnalyzed, payload); err != nil {
		return nil, err
	}

	log.WithField("state", State(report.Outcome)).WithField("outcome", report.Outcome).Info("analysis persisted")
	o.flagSevereCase(log, report)
	return report, nil
}

// fanOut runs every analyzer concurrently against the same immutable call and
// joins on the slowest outcome, bounded by the aggregate ceiling. A late
// result lands in the buffered channel and is discarded, never retroactively
// merged.
func (o *Orchestrator) fanOut(ctx context.Context, call *types.NormalizedCall) map[types.AnalyzerName]types.AnalyzerResult {
	resultCh := make(chan types.AnalyzerResult, len(o.analyzers))
	for _, a := range o.analyzers {
		go func(a analyzer.Analyzer) {
			resultCh <- o.runAnalyzer(ctx, a, call)
		}(a)
	}

	collected := make(map[types.AnalyzerName]types.AnalyzerResult, len(o.analyzers))
	joinDeadline := time.NewTimer(o.joinTimeout)
	defer joinDeadline.Stop()
	for len(collected) < len(o.analyzers) {
		select {
		case r := <-resultCh:
			collected[r.Analyzer] = r
		case <-joinDeadline.C:
			// Anything still outstanding is abandoned as timed-out.
			for _, a := range o.analyzers {
				if _, ok := collected[a.Name()]; !ok {
					collected[a.Name()] = types.AnalyzerResult{
						Analyzer: a.Name(),
						Status:   types.StatusTimedOut,
						Error:    "aggregate join timeout exceeded",
					}
				}
			}
			return collected
		}
	}
	return collected
}

func (o *Orchestrator) runAnalyzer(ctx context.Context, a analyzer.Analyzer, call *types.NormalizedCall) types.AnalyzerResult {
	actx, cancel := context.WithTimeout(ctx, o.analyzerTimeout)
	defer cancel()

	res, err := a.Analyze(actx, call.Metadata, call.Turns)
	if err == nil {
		res.Analyzer = a.Name()
		res.Status = types.StatusOK
		return res
	}

	status := types.StatusFailed
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(actx.Err(), context.DeadlineExceeded) {
		status = types.StatusTimedOut
	}
	o.log.WithCall(call.Metadata.CallID).
		WithField("analyzer", a.Name()).
		WithField("status", status).
		WithError(err).Warn("analyzer did not complete")
	return types.AnalyzerResult{Analyzer: a.Name(), Status: status, Error: err.Error()}
}

// buildReport constructs the one immutable AnalysisReport for this call. The
// mapping is keyed by analyzer name, so arrival order of the concurrent
// results cannot affect its content.
func (o *Orchestrator) buildReport(call *types.NormalizedCall, results map[types.AnalyzerName]types.AnalyzerResult) *types.AnalysisReport {
	succeeded := 0
	for _, r := range results {
		if r.OK() {
			succeeded++
		}
	}
	outcome := types.OutcomePartialFailure
	switch succeeded {
	case len(results):
		outcome = types.OutcomeComplete
	case 0:
		outcome = types.OutcomeFailed
	}

	return &types.AnalysisReport{
		CallID:              call.Metadata.CallID,
		CallDurationSeconds: call.Metadata.DurationSeconds,
		GeneratedAt:         o.now().UTC(),
		Outcome:             outcome,
		Results:             results,
	}
}

// flagSevereCase logs the elevated-priority conditions downstream consumers
// care about: a confirmed severe case, or a severity judgment that is missing
// altogether.
func (o *Orchestrator) flagSevereCase(log *logrus.Entry, report *types.AnalysisReport) {
	sev, ok := report.Results[types.AnalyzerSeverityClassifier]
	switch {
	case !ok || !sev.OK():
		log.WithField("analyzer", types.AnalyzerSeverityClassifier).
			Warn("severity judgment unavailable, treat call with elevated priority")
	case sev.Severity != nil && sev.Severity.Severe:
		log.WithField("indicators", sev.Severity.Indicators).
			Warn("severe case detected, urgent human follow-up required")
	}
}

func peekCallID(raw []byte) string {
	var probe struct {
		Call struct {
			ID string `json:"id"`
		} `json:"call"`
	}
	if err := json.Unmarshal(raw, &probe); err == nil && probe.Call.ID != "" {
		return probe.Call.ID
	}
	// Keep unidentifiable payloads addressable for diagnosis.
	return "unidentified-" + uuid.NewString()
}
