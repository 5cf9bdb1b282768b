package llm

import (
	"context"
	"time"
)

// Client defines the interface for LLM providers.
type Client interface {
	// ClassifyReceipt submits a candidate prompt and returns the raw text
	// of the model's reply.
	ClassifyReceipt(ctx context.Context, prompt string) (string, error)
}

// Config holds configuration for the semantic validator.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	// MinInterval is the enforced floor between consecutive requests,
	// independent of batch size.
	MinInterval time.Duration
	// AcceptThreshold is the minimum verdict confidence for promotion.
	AcceptThreshold float64
	// MaxBodyExcerpt bounds how much message body is sent to the provider.
	MaxBodyExcerpt int
}

// DefaultConfig returns the validator defaults. The threshold and pacing
// values are tuned starting points, overridable through configuration.
func DefaultConfig() Config {
	return Config{
		Provider:        "anthropic",
		Temperature:     0.2,
		MaxTokens:       400,
		MinInterval:     1500 * time.Millisecond,
		AcceptThreshold: 0.7,
		MaxBodyExcerpt:  1500,
	}
}
