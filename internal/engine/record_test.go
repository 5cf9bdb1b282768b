package engine

import (
	"testing"
	"time"

	"github.com/recurhq/recur/internal/model"
)

func testCandidate() *model.CandidateEmail {
	return &model.CandidateEmail{
		Date:      time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		MessageID: "msg-1",
		Subject:   "Your Netflix receipt",
		Body:      "Thank you for your payment of $15.99 for your subscription.",
		Sender:    "info@netflix.com",
		Language:  "en",
		Region:    "US",
		Amount:    model.ExtractedAmount{Currency: "USD", Value: 15.99, HasContext: true},
		Service:   model.ServiceMatch{Name: "Netflix", Category: "Streaming", TrustedDomain: true},
	}
}

func TestBuildRecordVerdictWins(t *testing.T) {
	verdict := &model.SemanticVerdict{
		ServiceName:  "Netflix Premium",
		Category:     "Video",
		Currency:     "usd",
		Amount:       17.99,
		BillingCycle: model.CycleYearly,
		Confidence:   0.9,
		Valid:        true,
	}

	rec := buildRecord("user-1", 2024, testCandidate(), verdict)
	if rec.ServiceName != "Netflix Premium" {
		t.Errorf("ServiceName = %q, want verdict value", rec.ServiceName)
	}
	if rec.Category != "Video" {
		t.Errorf("Category = %q, want verdict value", rec.Category)
	}
	if rec.Amount != 17.99 || rec.Currency != "USD" {
		t.Errorf("amount = %v %s, want 17.99 USD", rec.Amount, rec.Currency)
	}
	if rec.BillingCycle != model.CycleYearly {
		t.Errorf("BillingCycle = %q, want yearly", rec.BillingCycle)
	}
}

func TestBuildRecordBackfillsFromCandidate(t *testing.T) {
	verdict := &model.SemanticVerdict{Confidence: 0.8, Valid: true}

	rec := buildRecord("user-1", 2024, testCandidate(), verdict)
	if rec.ServiceName != "Netflix" {
		t.Errorf("ServiceName = %q, want candidate backfill", rec.ServiceName)
	}
	if rec.Amount != 15.99 || rec.Currency != "USD" {
		t.Errorf("amount = %v %s, want candidate extraction", rec.Amount, rec.Currency)
	}
	if rec.BillingCycle != model.CycleMonthly {
		t.Errorf("BillingCycle = %q, want monthly default", rec.BillingCycle)
	}
	if rec.ID == "" {
		t.Error("expected a generated id")
	}
	if rec.NextPaymentDate == nil || rec.NextPaymentDate.Month() != time.April {
		t.Errorf("NextPaymentDate = %v, want April projection", rec.NextPaymentDate)
	}
}

func TestBuildRecordCancelledHasNoNextPayment(t *testing.T) {
	candidate := testCandidate()
	candidate.Body = "Your subscription has been cancelled. Final charge: $15.99."
	verdict := &model.SemanticVerdict{Confidence: 0.85, Valid: true}

	rec := buildRecord("user-1", 2024, candidate, verdict)
	if rec.Status != model.StatusCancelled {
		t.Fatalf("Status = %q, want cancelled", rec.Status)
	}
	if rec.NextPaymentDate != nil {
		t.Errorf("NextPaymentDate = %v, want nil for cancelled", rec.NextPaymentDate)
	}
	if rec.ReceiptType != "cancellation" {
		t.Errorf("ReceiptType = %q, want cancellation", rec.ReceiptType)
	}
}

func TestCollapseNearDuplicatesKeepsHighestConfidence(t *testing.T) {
	low := buildRecord("user-1", 2024, testCandidate(), &model.SemanticVerdict{Confidence: 0.75, Valid: true})
	high := buildRecord("user-1", 2024, testCandidate(), &model.SemanticVerdict{Confidence: 0.95, Valid: true})
	other := buildRecord("user-1", 2024, testCandidate(), &model.SemanticVerdict{
		ServiceName: "Spotify", Amount: 9.99, Currency: "USD", Confidence: 0.9, Valid: true,
	})

	kept := collapseNearDuplicates([]*model.DetectedSubscription{low, high, other})
	if len(kept) != 2 {
		t.Fatalf("expected 2 records, got %d", len(kept))
	}
	if kept[0].Confidence != 0.95 {
		t.Errorf("kept confidence = %v, want 0.95", kept[0].Confidence)
	}
}

func TestNearDuplicateCurrencyMatters(t *testing.T) {
	usd := buildRecord("user-1", 2024, testCandidate(), &model.SemanticVerdict{Confidence: 0.9, Valid: true})
	eur := buildRecord("user-1", 2024, testCandidate(), &model.SemanticVerdict{
		Currency: "EUR", Amount: 15.99, Confidence: 0.9, Valid: true,
	})

	if nearDuplicate(usd, eur) {
		t.Error("same amount in different currencies must not collapse")
	}
}
