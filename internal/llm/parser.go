package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/recurhq/recur/internal/common"
	"github.com/recurhq/recur/internal/model"
)

// verdictPayload mirrors the JSON shape the providers are instructed to
// return. IsSubscription is a pointer so a missing or mistyped mandatory
// field is distinguishable from false.
type verdictPayload struct {
	IsSubscription *bool   `json:"is_subscription"`
	ServiceName    string  `json:"service_name"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	BillingCycle   string  `json:"billing_cycle"`
	Category       string  `json:"category"`
	Confidence     float64 `json:"confidence"`
	Reasoning      string  `json:"reasoning"`
}

// parseVerdict parses a provider reply into a SemanticVerdict. The mandatory
// boolean validity flag must be present and well-typed; everything else gets
// an explicit default. A malformed reply is an error, never a false verdict.
func parseVerdict(content string) (*model.SemanticVerdict, error) {
	content = cleanMarkdownWrapper(content)

	var payload verdictPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedVerdict, err)
	}

	if payload.IsSubscription == nil {
		return nil, fmt.Errorf("%w: missing is_subscription field", common.ErrMalformedVerdict)
	}
	if payload.Confidence < 0 || payload.Confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %.2f outside [0,1]", common.ErrMalformedVerdict, payload.Confidence)
	}

	cycle := model.BillingCycle(strings.ToLower(strings.TrimSpace(payload.BillingCycle)))
	switch cycle {
	case "annual", "annually":
		cycle = model.CycleYearly
	}
	if !cycle.Valid() {
		cycle = model.CycleMonthly
	}

	return &model.SemanticVerdict{
		Valid:        *payload.IsSubscription,
		ServiceName:  strings.TrimSpace(payload.ServiceName),
		Amount:       payload.Amount,
		Currency:     strings.ToUpper(strings.TrimSpace(payload.Currency)),
		BillingCycle: cycle,
		Category:     strings.TrimSpace(payload.Category),
		Confidence:   payload.Confidence,
		Reasoning:    payload.Reasoning,
	}, nil
}

// cleanMarkdownWrapper strips a ```json fenced block if the model wrapped
// its reply in one.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		if idx := strings.Index(content, "\n"); idx >= 0 {
			content = content[idx+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}
	return strings.TrimSpace(content)
}
