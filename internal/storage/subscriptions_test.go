package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/recurhq/recur/internal/common"
	"github.com/recurhq/recur/internal/model"
)

func createTestStore(t *testing.T) (*SQLiteStore, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func testSubscription(messageID string) *model.DetectedSubscription {
	return &model.DetectedSubscription{
		ID:              uuid.New().String(),
		UserID:          "user-1",
		ServiceName:     "Netflix",
		Category:        "Streaming",
		Amount:          15.99,
		Currency:        "USD",
		BillingCycle:    model.CycleMonthly,
		Status:          model.StatusActive,
		Confidence:      0.92,
		SourceMessageID: messageID,
		EmailSubject:    "Your Netflix receipt",
		ReceiptType:     "payment",
		Language:        "en",
		Region:          "US",
		ProcessingYear:  2024,
		LastEmailDate:   time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestUpsertAndFind(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	sub := testSubscription("msg-100")
	if err := store.Upsert(ctx, sub); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	found, err := store.FindBySourceMessage(ctx, "user-1", "msg-100", 2024)
	if err != nil {
		t.Fatalf("Failed to find: %v", err)
	}
	if found.ServiceName != "Netflix" {
		t.Errorf("ServiceName = %q, want Netflix", found.ServiceName)
	}
	if found.Amount != 15.99 {
		t.Errorf("Amount = %v, want 15.99", found.Amount)
	}
	if found.BillingCycle != model.CycleMonthly {
		t.Errorf("BillingCycle = %q, want monthly", found.BillingCycle)
	}
}

func TestFindNotFound(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()

	_, err := store.FindBySourceMessage(context.Background(), "user-1", "missing", 2024)
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// Re-processing the same message must update the existing record in place,
// never create a second row.
func TestUpsertIdempotent(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	first := testSubscription("msg-200")
	if err := store.Upsert(ctx, first); err != nil {
		t.Fatalf("Failed to upsert first: %v", err)
	}

	// Same key, refreshed fields and a new candidate ID.
	second := testSubscription("msg-200")
	second.Amount = 17.99
	second.Confidence = 0.95
	if err := store.Upsert(ctx, second); err != nil {
		t.Fatalf("Failed to upsert second: %v", err)
	}

	subs, err := store.List(ctx, "user-1", 2024)
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 subscription after re-upsert, got %d", len(subs))
	}
	if subs[0].Amount != 17.99 {
		t.Errorf("Amount = %v, want updated 17.99", subs[0].Amount)
	}
	if subs[0].ID != first.ID {
		t.Errorf("ID changed on update: %q != %q", subs[0].ID, first.ID)
	}
	if !subs[0].DetectedAt.Equal(first.DetectedAt) {
		t.Errorf("DetectedAt changed on update")
	}
}

func TestUpsertDistinctYearsAreSeparate(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	sub2023 := testSubscription("msg-300")
	sub2023.ProcessingYear = 2023
	sub2024 := testSubscription("msg-300")

	if err := store.Upsert(ctx, sub2023); err != nil {
		t.Fatalf("Failed to upsert 2023: %v", err)
	}
	if err := store.Upsert(ctx, sub2024); err != nil {
		t.Fatalf("Failed to upsert 2024: %v", err)
	}

	all, err := store.List(ctx, "user-1", 0)
	if err != nil {
		t.Fatalf("Failed to list all years: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 records across years, got %d", len(all))
	}

	only2024, err := store.List(ctx, "user-1", 2024)
	if err != nil {
		t.Fatalf("Failed to list 2024: %v", err)
	}
	if len(only2024) != 1 {
		t.Errorf("expected 1 record for 2024, got %d", len(only2024))
	}
}

func TestListOrdering(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	older := testSubscription("msg-old")
	older.ServiceName = "Spotify"
	older.LastEmailDate = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	newer := testSubscription("msg-new")
	newer.LastEmailDate = time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)

	if err := store.Upsert(ctx, older); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}
	if err := store.Upsert(ctx, newer); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	subs, err := store.List(ctx, "user-1", 2024)
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 subscriptions, got %d", len(subs))
	}
	if subs[0].SourceMessageID != "msg-new" {
		t.Errorf("expected most recent first, got %q", subs[0].SourceMessageID)
	}
}

func TestNextPaymentDateRoundTrip(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	next := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	sub := testSubscription("msg-400")
	sub.NextPaymentDate = &next
	if err := store.Upsert(ctx, sub); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	found, err := store.FindBySourceMessage(ctx, "user-1", "msg-400", 2024)
	if err != nil {
		t.Fatalf("Failed to find: %v", err)
	}
	if found.NextPaymentDate == nil {
		t.Fatal("NextPaymentDate is nil after round trip")
	}
	if !found.NextPaymentDate.Equal(next) {
		t.Errorf("NextPaymentDate = %v, want %v", found.NextPaymentDate, next)
	}

	// Absent dates stay nil.
	plain := testSubscription("msg-401")
	if err := store.Upsert(ctx, plain); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}
	foundPlain, err := store.FindBySourceMessage(ctx, "user-1", "msg-401", 2024)
	if err != nil {
		t.Fatalf("Failed to find: %v", err)
	}
	if foundPlain.NextPaymentDate != nil {
		t.Errorf("NextPaymentDate = %v, want nil", foundPlain.NextPaymentDate)
	}
}

func TestUpsertValidation(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		mutate func(*model.DetectedSubscription)
		name   string
	}{
		{name: "missing user", mutate: func(s *model.DetectedSubscription) { s.UserID = "" }},
		{name: "missing message id", mutate: func(s *model.DetectedSubscription) { s.SourceMessageID = "" }},
		{name: "zero amount", mutate: func(s *model.DetectedSubscription) { s.Amount = 0 }},
		{name: "bad cycle", mutate: func(s *model.DetectedSubscription) { s.BillingCycle = "daily" }},
		{name: "confidence out of range", mutate: func(s *model.DetectedSubscription) { s.Confidence = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := testSubscription("msg-bad")
			tt.mutate(sub)
			if err := store.Upsert(ctx, sub); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
