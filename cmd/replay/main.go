// Replay feeds sample calls from an xlsx workbook through the full analysis
// pipeline. Useful for demos and for smoke-testing a deployment offline with
// USE_MOCK_LLM=true.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"wellbeing-insights-go/internal/analyzer"
	"wellbeing-insights-go/internal/config"
	"wellbeing-insights-go/internal/dataset"
	"wellbeing-insights-go/internal/llm"
	"wellbeing-insights-go/internal/logger"
	"wellbeing-insights-go/internal/orchestrator"
	"wellbeing-insights-go/internal/store"
)

func main() {
	_ = godotenv.Load()

	path := flag.String("dataset", "sample_calls.xlsx", "xlsx workbook of sample calls")
	limit := flag.Int("limit", 5, "max calls to replay")
	flag.Parse()

	log := logger.New().WithField("component", "replay")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	var artifacts store.ArtifactStore
	switch cfg.Storage.Backend {
	case "sqlite":
		artifacts, err = store.NewSQLiteStore(cfg.Storage.SQLitePath, cfg.Storage.Namespace)
	default:
		artifacts, err = store.NewFSStore(cfg.Storage.Dir, cfg.Storage.Namespace)
	}
	if err != nil {
		log.WithError(err).Fatal("failed to open artifact store")
	}

	var provider llm.Provider
	if cfg.LLM.UseMock || cfg.LLM.Provider == "mock" {
		provider = llm.NewMock()
	} else if provider, err = llm.NewOpenAI(cfg.LLM); err != nil {
		log.WithError(err).Fatal("failed to build model provider")
	}

	orch := orchestrator.New(artifacts, analyzer.All(provider), cfg.Analysis, logger.New())

	calls, err := dataset.Load(*path)
	if err != nil {
		log.WithError(err).Fatal("failed to load dataset")
	}
	if len(calls) > *limit {
		calls = calls[:*limit]
	}
	log.WithField("calls", len(calls)).Info("replaying sample calls")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, c := range calls {
		callLog := log.WithField("call_id", c.CallID)
		payload, err := c.ReportPayload()
		if err != nil {
			callLog.WithError(err).Error("failed to build payload")
			continue
		}
		report, err := orch.ProcessReport(context.Background(), payload)
		if err != nil {
			callLog.WithError(err).Error("replay failed")
			continue
		}
		if err := enc.Encode(report); err != nil {
			callLog.WithError(err).Error("failed to print report")
		}
	}
}
