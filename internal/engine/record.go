package engine

import (
	"strings"

	"github.com/google/uuid"

	"github.com/recurhq/recur/internal/detect"
	"github.com/recurhq/recur/internal/model"
)

// buildRecord merges the first-stage candidate and the semantic verdict
// into a persistable subscription. Verdict fields win where present; the
// candidate's extraction backfills anything the verdict omitted.
func buildRecord(userID string, year int, candidate *model.CandidateEmail, verdict *model.SemanticVerdict) *model.DetectedSubscription {
	serviceName := strings.TrimSpace(verdict.ServiceName)
	if serviceName == "" {
		serviceName = candidate.Service.Name
	}
	category := strings.TrimSpace(verdict.Category)
	if category == "" {
		category = candidate.Service.Category
	}

	amount := verdict.Amount
	currency := strings.ToUpper(strings.TrimSpace(verdict.Currency))
	if amount <= 0 || currency == "" {
		amount = candidate.Amount.Value
		currency = candidate.Amount.Currency
	}

	cycle := verdict.BillingCycle
	if !cycle.Valid() {
		cycle = model.CycleMonthly
	}

	bodyLower := strings.ToLower(candidate.Subject + "\n" + candidate.Body)
	status := detect.DeriveStatus(bodyLower, candidate.Language)

	sub := &model.DetectedSubscription{
		ID:              uuid.New().String(),
		UserID:          userID,
		ServiceName:     serviceName,
		Category:        category,
		Currency:        currency,
		Amount:          amount,
		BillingCycle:    cycle,
		Status:          status,
		Confidence:      verdict.Confidence,
		SourceMessageID: candidate.MessageID,
		EmailSubject:    candidate.Subject,
		ReceiptType:     receiptType(status),
		Language:        candidate.Language,
		Region:          candidate.Region,
		ProcessingYear:  year,
		LastEmailDate:   candidate.Date,
	}

	// Cancelled subscriptions have no next charge to project.
	if status != model.StatusCancelled && !candidate.Date.IsZero() {
		next := cycle.Next(candidate.Date)
		sub.NextPaymentDate = &next
	}

	return sub
}

func receiptType(status model.SubscriptionStatus) string {
	switch status {
	case model.StatusTrial:
		return "trial"
	case model.StatusCancelled:
		return "cancellation"
	default:
		return "payment"
	}
}

// nearDuplicate reports whether two records describe the same charge: the
// same service billed in the same currency for an amount within a cent.
// Receipt plus reminder for one renewal collapse to a single record.
func nearDuplicate(a, b *model.DetectedSubscription) bool {
	if !strings.EqualFold(a.ServiceName, b.ServiceName) {
		return false
	}
	if a.Currency != b.Currency {
		return false
	}
	diff := a.Amount - b.Amount
	if diff < 0 {
		diff = -diff
	}
	return diff < 0.01
}

// collapseNearDuplicates keeps one record per charge, preferring the higher
// confidence and the most recent email date.
func collapseNearDuplicates(records []*model.DetectedSubscription) []*model.DetectedSubscription {
	var kept []*model.DetectedSubscription
	for _, rec := range records {
		merged := false
		for i, existing := range kept {
			if !nearDuplicate(existing, rec) {
				continue
			}
			if rec.Confidence > existing.Confidence {
				kept[i] = rec
			} else if rec.LastEmailDate.After(existing.LastEmailDate) {
				kept[i].LastEmailDate = rec.LastEmailDate
			}
			merged = true
			break
		}
		if !merged {
			kept = append(kept, rec)
		}
	}
	return kept
}
