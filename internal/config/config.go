package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	Analysis AnalysisConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port         string        `envconfig:"PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout  time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"120s"`
}

type LLMConfig struct {
	// Provider is "openai" or "mock". USE_MOCK_LLM=true is the offline demo switch.
	Provider      string  `envconfig:"LLM_PROVIDER" default:"openai"`
	UseMock       bool    `envconfig:"USE_MOCK_LLM" default:"false"`
	APIKey        string  `envconfig:"LLM_API_KEY"`
	BaseURL       string  `envconfig:"LLM_BASE_URL" default:"https://api.openai.com/v1"`
	StandardModel string  `envconfig:"LLM_STANDARD_MODEL" default:"gpt-4o-mini"`
	AccurateModel string  `envconfig:"LLM_ACCURATE_MODEL" default:"gpt-4o"`
	MaxTokens     int64   `envconfig:"LLM_MAX_TOKENS" default:"1024"`
	Temperature   float64 `envconfig:"LLM_TEMPERATURE" default:"0.3"`
}

type AnalysisConfig struct {
	// AnalyzerTimeout bounds each analyzer invocation; JoinTimeout is the
	// global ceiling on the whole fan-out for one call.
	AnalyzerTimeout time.Duration `envconfig:"ANALYZER_TIMEOUT" default:"30s"`
	JoinTimeout     time.Duration `envconfig:"JOIN_TIMEOUT" default:"45s"`
}

type StorageConfig struct {
	// Backend is "fs" or "sqlite".
	Backend    string `envconfig:"STORAGE_BACKEND" default:"fs"`
	Dir        string `envconfig:"STORAGE_DIR" default:"data/artifacts"`
	Namespace  string `envconfig:"STORAGE_NAMESPACE" default:"end-of-call-report"`
	SQLitePath string `envconfig:"STORAGE_SQLITE_PATH" default:"data/artifacts.db"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
