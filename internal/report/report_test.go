package report

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recurhq/recur/internal/model"
)

// fixedRates converts with a static table and fails on unknown currencies.
type fixedRates struct{}

func (fixedRates) ConvertToUSD(_ context.Context, amount float64, currency string) (float64, error) {
	switch currency {
	case "USD":
		return amount, nil
	case "EUR":
		return amount / 0.5, nil
	case "MAD":
		return amount / 10.0, nil
	default:
		return 0, fmt.Errorf("no rate for %s", currency)
	}
}

// memStore serves a fixed subscription list.
type memStore struct {
	subs []model.DetectedSubscription
}

func (m *memStore) FindBySourceMessage(_ context.Context, _, _ string, _ int) (*model.DetectedSubscription, error) {
	return nil, nil
}
func (m *memStore) Upsert(_ context.Context, _ *model.DetectedSubscription) error { return nil }
func (m *memStore) List(_ context.Context, _ string, _ int) ([]model.DetectedSubscription, error) {
	return m.subs, nil
}
func (m *memStore) Migrate(_ context.Context) error { return nil }
func (m *memStore) Close() error                    { return nil }

func sub(name, category, currency string, amount float64, cycle model.BillingCycle, status model.SubscriptionStatus) model.DetectedSubscription {
	return model.DetectedSubscription{
		ID:              name,
		UserID:          "user-1",
		ServiceName:     name,
		Category:        category,
		Currency:        currency,
		Amount:          amount,
		BillingCycle:    cycle,
		Status:          status,
		SourceMessageID: "msg-" + name,
		ProcessingYear:  2024,
		LastEmailDate:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildMonthlyAndYearlyTotals(t *testing.T) {
	store := &memStore{subs: []model.DetectedSubscription{
		sub("Netflix", "Streaming", "USD", 15.99, model.CycleMonthly, model.StatusActive),
		sub("Adobe", "Software", "USD", 120.0, model.CycleYearly, model.StatusActive),
	}}
	b := NewBuilder(store, fixedRates{}, nil)

	summary, err := b.Build(context.Background(), "user-1", 2024, 0)
	require.NoError(t, err)

	// 15.99 monthly + 120/12 yearly share.
	assert.InDelta(t, 25.99, summary.MonthlyTotal, 0.001)
	assert.InDelta(t, 311.88, summary.YearlyTotal, 0.01)
	assert.Equal(t, 2, summary.ActiveCount)
}

func TestBuildNormalizesCurrencies(t *testing.T) {
	store := &memStore{subs: []model.DetectedSubscription{
		sub("Deezer", "Streaming", "EUR", 5.0, model.CycleMonthly, model.StatusActive),
		sub("Shahid VIP", "Streaming", "MAD", 150.0, model.CycleMonthly, model.StatusActive),
	}}
	b := NewBuilder(store, fixedRates{}, nil)

	summary, err := b.Build(context.Background(), "user-1", 2024, 0)
	require.NoError(t, err)

	// EUR 5 -> $10, MAD 150 -> $15.
	assert.InDelta(t, 25.0, summary.MonthlyTotal, 0.001)
	assert.InDelta(t, 25.0, summary.CategoryTotals["Streaming"], 0.001)
}

func TestBuildCancelledExcludedFromTotals(t *testing.T) {
	store := &memStore{subs: []model.DetectedSubscription{
		sub("Netflix", "Streaming", "USD", 15.99, model.CycleMonthly, model.StatusActive),
		sub("Spotify", "Music", "USD", 9.99, model.CycleMonthly, model.StatusCancelled),
	}}
	b := NewBuilder(store, fixedRates{}, nil)

	summary, err := b.Build(context.Background(), "user-1", 2024, 0)
	require.NoError(t, err)

	assert.InDelta(t, 15.99, summary.MonthlyTotal, 0.001)
	assert.Equal(t, 1, summary.CancelledCount)
	assert.Len(t, summary.Subscriptions, 2, "cancelled subscriptions still listed")
}

func TestBuildUnknownCurrencySkippedFromTotals(t *testing.T) {
	store := &memStore{subs: []model.DetectedSubscription{
		sub("Netflix", "Streaming", "USD", 15.99, model.CycleMonthly, model.StatusActive),
		sub("Mystery", "Other", "XXX", 42.0, model.CycleMonthly, model.StatusActive),
	}}
	b := NewBuilder(store, fixedRates{}, nil)

	summary, err := b.Build(context.Background(), "user-1", 2024, 0)
	require.NoError(t, err)

	assert.InDelta(t, 15.99, summary.MonthlyTotal, 0.001)
	assert.Len(t, summary.Subscriptions, 2)
}

func TestBuildUpcomingWindow(t *testing.T) {
	soon := time.Now().UTC().Add(5 * 24 * time.Hour)
	far := time.Now().UTC().Add(90 * 24 * time.Hour)

	inWindow := sub("Netflix", "Streaming", "USD", 15.99, model.CycleMonthly, model.StatusActive)
	inWindow.NextPaymentDate = &soon
	outOfWindow := sub("Adobe", "Software", "USD", 120.0, model.CycleYearly, model.StatusActive)
	outOfWindow.NextPaymentDate = &far
	cancelled := sub("Spotify", "Music", "USD", 9.99, model.CycleMonthly, model.StatusCancelled)
	cancelled.NextPaymentDate = &soon

	store := &memStore{subs: []model.DetectedSubscription{inWindow, outOfWindow, cancelled}}
	b := NewBuilder(store, fixedRates{}, nil)

	summary, err := b.Build(context.Background(), "user-1", 2024, 30*24*time.Hour)
	require.NoError(t, err)

	require.Len(t, summary.Upcoming, 1)
	assert.Equal(t, "Netflix", summary.Upcoming[0].ServiceName)
}

func TestBuildMonthlyTrendSorted(t *testing.T) {
	jan := sub("Netflix", "Streaming", "USD", 15.99, model.CycleMonthly, model.StatusActive)
	jan.LastEmailDate = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	mar := sub("Spotify", "Music", "USD", 9.99, model.CycleMonthly, model.StatusActive)
	mar.LastEmailDate = time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	store := &memStore{subs: []model.DetectedSubscription{mar, jan}}
	b := NewBuilder(store, fixedRates{}, nil)

	summary, err := b.Build(context.Background(), "user-1", 2024, 0)
	require.NoError(t, err)

	require.Len(t, summary.MonthlyTrend, 2)
	assert.Equal(t, time.January, summary.MonthlyTrend[0].Month.Month())
	assert.InDelta(t, 15.99, summary.MonthlyTrend[0].Total, 0.001)
	assert.Equal(t, time.March, summary.MonthlyTrend[1].Month.Month())
}
