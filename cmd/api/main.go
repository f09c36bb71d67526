package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"wellbeing-insights-go/internal/analyzer"
	"wellbeing-insights-go/internal/config"
	"wellbeing-insights-go/internal/llm"
	"wellbeing-insights-go/internal/logger"
	"wellbeing-insights-go/internal/normalizer"
	"wellbeing-insights-go/internal/orchestrator"
	"wellbeing-insights-go/internal/store"
)

// webhookEnvelope is the outer shape the voice platform POSTs:
// {"message": {"type": "...", ...}}
type webhookEnvelope struct {
	Message json.RawMessage `json:"message"`
}

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "wellbeing-insights-go").Info("starting service")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	artifacts, err := newStore(cfg.Storage)
	if err != nil {
		log.WithError(err).Fatal("failed to open artifact store")
	}
	log.WithField("backend", cfg.Storage.Backend).Info("artifact store ready")

	provider, err := newProvider(cfg.LLM)
	if err != nil {
		log.WithError(err).Fatal("failed to build model provider")
	}

	orch := orchestrator.New(artifacts, analyzer.All(provider), cfg.Analysis, log)

	mux := http.NewServeMux()

	// health
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.New().WithRequest(r).Info("health check")
		fmt.Fprint(w, "ok")
	})

	// webhook endpoint: receives call reports from the voice platform
	mux.HandleFunc("/vapi/webhook", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "webhook")
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var envelope webhookEnvelope
		if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
			reqLog.WithError(err).Warn("invalid JSON body")
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()
		if len(envelope.Message) == 0 {
			reqLog.Warn("missing 'message' object")
			http.Error(w, "missing 'message' object", http.StatusBadRequest)
			return
		}

		msgType := peekMessageType(envelope.Message)
		reqLog = reqLog.WithField("message_type", msgType)
		reqLog.Info("webhook message received")

		// Only end-of-call reports are analyzed; everything else is
		// acknowledged and ignored.
		if msgType != "end-of-call-report" {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return
		}

		start := time.Now()
		report, err := orch.ProcessReport(r.Context(), envelope.Message)
		reqLog = reqLog.WithField("duration_ms", time.Since(start).Milliseconds())
		if err != nil {
			var verr *normalizer.ValidationError
			if errors.As(err, &verr) {
				reqLog.WithError(verr).Warn("call report rejected")
				http.Error(w, verr.Error(), http.StatusBadRequest)
				return
			}
			reqLog.WithError(err).Error("call processing failed")
			http.Error(w, "processing failed, safe to retry delivery", http.StatusInternalServerError)
			return
		}

		reqLog.WithField("call_id", report.CallID).WithField("outcome", report.Outcome).Info("call analyzed")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// artifact retrieval: /reports/{raw|normalized|analyzed}?call_id=...
	mux.HandleFunc("/reports/", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "reports")
		kind := store.Kind(r.URL.Path[len("/reports/"):])
		if kind != store.KindRaw && kind != store.KindNormalized && kind != store.KindAnalyzed {
			http.Error(w, "unknown artifact kind", http.StatusNotFound)
			return
		}
		callID := r.URL.Query().Get("call_id")
		if callID == "" {
			http.Error(w, "missing call_id", http.StatusBadRequest)
			return
		}
		payload, err := artifacts.Get(r.Context(), callID, kind)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			reqLog.WithError(err).Error("artifact read failed")
			http.Error(w, "artifact read failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

func newStore(cfg config.StorageConfig) (store.ArtifactStore, error) {
	switch cfg.Backend {
	case "sqlite":
		return store.NewSQLiteStore(cfg.SQLitePath, cfg.Namespace)
	default:
		return store.NewFSStore(cfg.Dir, cfg.Namespace)
	}
}

func newProvider(cfg config.LLMConfig) (llm.Provider, error) {
	if cfg.UseMock || cfg.Provider == "mock" {
		return llm.NewMock(), nil
	}
	return llm.NewOpenAI(cfg)
}

func peekMessageType(message json.RawMessage) string {
	var probe struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal(message, &probe)
	return probe.Type
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
