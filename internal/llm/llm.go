package llm

import "context"

// Tier selects the model capability an analyzer runs on. The severity
// classifier is the only caller of TierHighAccuracy.
type Tier string

const (
	TierStandard     Tier = "standard"
	TierHighAccuracy Tier = "high_accuracy"
)

// Request is one completion call against the underlying model.
type Request struct {
	System      string
	Prompt      string
	Tier        Tier
	Temperature float64
	MaxTokens   int64
}

// Provider is the capability every analyzer is built on: one prompt in, the
// model's text out. Implementations must be safe for concurrent use.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}
