package detect

import (
	"log/slog"
	"strings"

	"github.com/recurhq/recur/internal/lexicon"
	"github.com/recurhq/recur/internal/model"
	"github.com/recurhq/recur/internal/service"
)

// Gate names a first-stage rejection point. The gates run in a fixed order
// and every one must pass; partial credit never substitutes for a missing
// gate.
type Gate string

// Rejection gates, in evaluation order.
const (
	GateExclusion    Gate = "exclusion"
	GateReceipt      Gate = "receipt"
	GateFinancial    Gate = "financial"
	GateAmount       Gate = "amount"
	GateService      Gate = "service"
	GateSubscription Gate = "subscription"
	// GatePassed marks a message that cleared every gate.
	GatePassed Gate = ""
)

// Config tunes the classifier's scoring. Strictness lives in the lexicon
// tables and these knobs, not in forked code paths.
type Config struct {
	BaseConfidence        float64
	RegionalCurrencyBoost float64
	ContextBoost          float64
	MaxConfidence         float64
}

// DefaultConfig returns the default classifier configuration.
func DefaultConfig() Config {
	return Config{
		BaseConfidence:        0.50,
		RegionalCurrencyBoost: 0.10,
		ContextBoost:          0.05,
		MaxConfidence:         0.95,
	}
}

// Classifier is the first-stage, pure-function candidate filter. No network
// calls; safe for concurrent use.
type Classifier struct {
	cfg    Config
	logger *slog.Logger
}

// NewClassifier creates a first-stage classifier.
func NewClassifier(cfg Config, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{cfg: cfg, logger: logger}
}

// Evaluate runs the ordered gates over a fetched message. On success it
// returns the candidate with extraction results attached; otherwise the gate
// that rejected it. Rejections are the designed negative output, not errors.
func (c *Classifier) Evaluate(msg *service.Message) (*model.CandidateEmail, Gate) {
	raw := msg.Subject + "\n" + msg.Body
	loc := DetectLocale(raw)
	lower := strings.ToLower(raw)
	subjectLower := strings.ToLower(msg.Subject)
	senderLower := strings.ToLower(msg.Sender)
	bodyLower := strings.ToLower(msg.Body)

	// Exclusions run first: they are cheaper and more specific than any
	// positive signal, and they always win.
	if containsAny(lower, lexicon.Keywords(lexicon.Exclusions, loc.Language)) {
		return nil, GateExclusion
	}

	if !containsAny(lower, lexicon.Keywords(lexicon.ReceiptKeywords, loc.Language)) {
		return nil, GateReceipt
	}

	if !containsAny(lower, lexicon.Keywords(lexicon.FinancialKeywords, loc.Language)) {
		return nil, GateFinancial
	}

	amount, ok := ExtractAmount(lower, loc)
	if !ok {
		return nil, GateAmount
	}

	svc, ok := IdentifyService(subjectLower, senderLower, bodyLower, loc)
	if !ok {
		return nil, GateService
	}

	if !containsAny(lower, lexicon.Keywords(lexicon.SubscriptionKeywords, loc.Language)) {
		return nil, GateSubscription
	}

	confidence := c.score(amount, svc, loc)

	c.logger.Debug("message passed first-stage gates",
		"message_id", msg.ID,
		"service", svc.Name,
		"amount", amount.Value,
		"currency", amount.Currency,
		"language", loc.Language,
		"region", loc.Region,
		"confidence", confidence)

	return &model.CandidateEmail{
		MessageID:  msg.ID,
		Subject:    msg.Subject,
		Body:       msg.Body,
		Sender:     msg.Sender,
		Date:       msg.Date,
		Language:   loc.Language,
		Region:     loc.Region,
		Amount:     amount,
		Service:    svc,
		Confidence: confidence,
	}, GatePassed
}

// score computes the heuristic confidence from the boosting signals. Gate
// passage itself is boolean; the score only orders candidates that already
// passed.
func (c *Classifier) score(amount model.ExtractedAmount, svc model.ServiceMatch, loc Locale) float64 {
	confidence := c.cfg.BaseConfidence
	confidence += svc.Boost
	if amount.HasContext {
		confidence += c.cfg.ContextBoost
	}
	for _, cur := range lexicon.RegionalCurrencies[loc.Region] {
		if cur == amount.Currency {
			confidence += c.cfg.RegionalCurrencyBoost
			break
		}
	}
	if confidence > c.cfg.MaxConfidence {
		confidence = c.cfg.MaxConfidence
	}
	return confidence
}

// DeriveStatus inspects the body for trial or cancellation markers in the
// candidate's language, defaulting to active.
func DeriveStatus(bodyLower, language string) model.SubscriptionStatus {
	if containsAny(bodyLower, lexicon.Keywords(lexicon.CancelKeywords, language)) {
		return model.StatusCancelled
	}
	if containsAny(bodyLower, lexicon.Keywords(lexicon.TrialKeywords, language)) {
		return model.StatusTrial
	}
	return model.StatusActive
}
