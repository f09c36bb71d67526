package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"wellbeing-insights-go/internal/config"
)

// OpenAI backs the Provider interface with the chat completions API. The
// model is chosen per capability tier from config.
type OpenAI struct {
	client *openai.Client
	cfg    config.LLMConfig
}

func NewOpenAI(cfg config.LLMConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY not set")
	}
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
	)
	return &OpenAI{client: client, cfg: cfg}, nil
}

func (o *OpenAI) model(tier Tier) string {
	if tier == TierHighAccuracy {
		return o.cfg.AccurateModel
	}
	return o.cfg.StandardModel
}

func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.F(o.model(req.Tier)),
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		}),
		Temperature: openai.F(req.Temperature),
		MaxTokens:   openai.F(req.MaxTokens),
	}

	// Transient transport errors are retried within the caller's deadline.
	// This never re-runs a completed analyzer.
	var content string
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 20 * time.Second
	var lastErr error
	op := func() error {
		resp, err := o.client.Chat.Completions.New(ctx, params)
		if err != nil {
			lastErr = err
			return err
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("no completion choices returned")
			return lastErr
		}
		content = resp.Choices[0].Message.Content
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		if lastErr != nil {
			err = lastErr
		}
		return "", fmt.Errorf("completion failed: %w", err)
	}
	return content, nil
}
