package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/recurhq/recur/internal/common"
	"github.com/recurhq/recur/internal/model"
	"github.com/recurhq/recur/internal/service"
)

// Validator implements service.Validator over an LLM provider. Requests are
// strictly serialized with an enforced minimum spacing; a candidate gets at
// most one retry after a rate-limit signal before it is dropped.
type Validator struct {
	client          Client
	pacer           *pacer
	logger          *slog.Logger
	acceptThreshold float64
	maxBodyExcerpt  int
	retryOpts       service.RetryOptions
}

// NewValidator creates a semantic validator for the configured provider.
func NewValidator(cfg Config, logger *slog.Logger) (*Validator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var client Client
	var err error
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		client, err = newOpenAIClient(cfg)
	case "anthropic", "":
		client, err = newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	threshold := cfg.AcceptThreshold
	if threshold == 0 {
		threshold = DefaultConfig().AcceptThreshold
	}
	excerpt := cfg.MaxBodyExcerpt
	if excerpt == 0 {
		excerpt = DefaultConfig().MaxBodyExcerpt
	}

	return &Validator{
		client:          client,
		pacer:           newPacer(cfg.MinInterval),
		logger:          logger,
		acceptThreshold: threshold,
		maxBodyExcerpt:  excerpt,
		retryOpts: service.RetryOptions{
			// One retry per candidate, then drop.
			MaxAttempts:  2,
			InitialDelay: 2 * time.Second,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// NewValidatorWithClient wires a pre-built client; used by tests and by
// callers that manage provider construction themselves.
func NewValidatorWithClient(client Client, cfg Config, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	threshold := cfg.AcceptThreshold
	if threshold == 0 {
		threshold = DefaultConfig().AcceptThreshold
	}
	excerpt := cfg.MaxBodyExcerpt
	if excerpt == 0 {
		excerpt = DefaultConfig().MaxBodyExcerpt
	}
	return &Validator{
		client:          client,
		pacer:           newPacer(cfg.MinInterval),
		logger:          logger,
		acceptThreshold: threshold,
		maxBodyExcerpt:  excerpt,
		retryOpts: service.RetryOptions{
			MaxAttempts:  2,
			InitialDelay: 10 * time.Millisecond,
			MaxDelay:     100 * time.Millisecond,
			Multiplier:   2.0,
		},
	}
}

// Validate submits the candidate for semantic classification. It returns a
// verdict only when the provider confirms the receipt with confidence at or
// above the acceptance threshold; rejected, low-confidence and malformed
// results all come back as (nil, nil) and the candidate is dropped. Only
// transport-level failures surface as errors.
func (v *Validator) Validate(ctx context.Context, candidate model.CandidateEmail) (*model.SemanticVerdict, error) {
	if err := v.pacer.wait(ctx); err != nil {
		return nil, err
	}

	prompt := v.buildPrompt(candidate)

	var verdict *model.SemanticVerdict
	err := common.WithRetry(ctx, func() error {
		content, err := v.client.ClassifyReceipt(ctx, prompt)
		if err != nil {
			retryable := errors.Is(err, common.ErrRateLimit)
			if retryable {
				v.logger.Warn("validator rate limited, backing off",
					"message_id", candidate.MessageID)
			}
			return &common.RetryableError{Err: err, Retryable: retryable}
		}

		parsed, parseErr := parseVerdict(content)
		if parseErr != nil {
			// Malformed means no verdict, never false. Not retried: the
			// model already spent its answer.
			v.logger.Warn("dropping candidate with malformed verdict",
				"message_id", candidate.MessageID,
				"error", parseErr)
			return &common.RetryableError{Err: parseErr, Retryable: false}
		}

		verdict = parsed
		return nil
	}, v.retryOpts)

	if err != nil {
		if errors.Is(err, common.ErrMalformedVerdict) {
			return nil, nil
		}
		return nil, fmt.Errorf("semantic validation failed: %w", err)
	}

	if !verdict.Valid || verdict.Confidence < v.acceptThreshold {
		v.logger.Debug("candidate rejected by semantic validator",
			"message_id", candidate.MessageID,
			"valid", verdict.Valid,
			"confidence", verdict.Confidence,
			"reasoning", verdict.Reasoning)
		return nil, nil
	}

	v.logger.Info("candidate confirmed by semantic validator",
		"message_id", candidate.MessageID,
		"service", verdict.ServiceName,
		"confidence", verdict.Confidence)

	return verdict, nil
}

// buildPrompt creates the classification prompt for a candidate.
func (v *Validator) buildPrompt(candidate model.CandidateEmail) string {
	body := candidate.Body
	if len(body) > v.maxBodyExcerpt {
		body = body[:v.maxBodyExcerpt]
	}

	return fmt.Sprintf(`Decide whether this email is a genuine payment receipt for a recurring subscription. Onboarding, marketing, shipping notifications, refunds and trial announcements without a charge are NOT receipts.

Subject: %s
Sender: %s
Body:
%s

Respond with exactly this JSON object:
{
  "is_subscription": <true|false>,
  "service_name": "<canonical service name, empty if unknown>",
  "amount": <numeric amount charged, 0 if none>,
  "currency": "<ISO 4217 code, empty if unknown>",
  "billing_cycle": "<weekly|monthly|yearly>",
  "category": "<one of: Streaming, Music, Software, Storage, Productivity, Design, Books, Gaming, Shopping, Other>",
  "confidence": <0.0-1.0>,
  "reasoning": "<one sentence>"
}`,
		candidate.Subject,
		candidate.Sender,
		body)
}
