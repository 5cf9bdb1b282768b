// Package report aggregates detected subscriptions into spending summaries.
// All monetary totals are normalized to USD through a RateSource.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/recurhq/recur/internal/model"
	"github.com/recurhq/recur/internal/service"
)

// Summary is an aggregated view of a user's detected subscriptions.
type Summary struct {
	CategoryTotals map[string]float64
	UserID         string
	Subscriptions  []Line
	Upcoming       []Line
	MonthlyTrend   []MonthTotal
	Year           int
	MonthlyTotal   float64
	YearlyTotal    float64
	ActiveCount    int
	TrialCount     int
	CancelledCount int
}

// Line is one subscription with its USD-normalized amounts.
type Line struct {
	NextPaymentDate *time.Time
	ServiceName     string
	Category        string
	Currency        string
	BillingCycle    model.BillingCycle
	Status          model.SubscriptionStatus
	Amount          float64
	AmountUSD       float64
	MonthlyUSD      float64
}

// MonthTotal is the USD total charged in one calendar month.
type MonthTotal struct {
	Month time.Time
	Total float64
}

// Builder computes summaries from the store.
type Builder struct {
	store  service.Store
	rates  service.RateSource
	logger *slog.Logger
}

// NewBuilder creates a report builder.
func NewBuilder(store service.Store, rates service.RateSource, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{store: store, rates: rates, logger: logger}
}

// Build aggregates the user's subscriptions for a processing year.
// upcomingWindow bounds the renewal lookahead from now; zero disables it.
func (b *Builder) Build(ctx context.Context, userID string, year int, upcomingWindow time.Duration) (*Summary, error) {
	subs, err := b.store.List(ctx, userID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	summary := &Summary{
		UserID:         userID,
		Year:           year,
		CategoryTotals: make(map[string]float64),
	}

	monthly := make(map[time.Time]float64)
	now := time.Now().UTC()

	for i := range subs {
		sub := &subs[i]

		amountUSD, convErr := b.rates.ConvertToUSD(ctx, sub.Amount, sub.Currency)
		if convErr != nil {
			// A currency we cannot convert still counts as a detection;
			// it just drops out of the USD totals.
			b.logger.Warn("Skipping unconvertible amount in totals",
				"service", sub.ServiceName,
				"currency", sub.Currency,
				"error", convErr)
			amountUSD = 0
		}

		line := Line{
			ServiceName:     sub.ServiceName,
			Category:        sub.Category,
			Currency:        sub.Currency,
			BillingCycle:    sub.BillingCycle,
			Status:          sub.Status,
			Amount:          sub.Amount,
			AmountUSD:       amountUSD,
			NextPaymentDate: sub.NextPaymentDate,
		}

		switch sub.Status {
		case model.StatusActive:
			summary.ActiveCount++
		case model.StatusTrial:
			summary.TrialCount++
		case model.StatusCancelled:
			summary.CancelledCount++
		}

		// Cancelled subscriptions appear in the listing but not in the
		// forward-looking spend totals.
		if sub.Status != model.StatusCancelled && amountUSD > 0 {
			monthlyUSD, monthlyErr := b.rates.ConvertToUSD(ctx, sub.MonthlyAmount(), sub.Currency)
			if monthlyErr == nil {
				line.MonthlyUSD = monthlyUSD
				summary.MonthlyTotal += monthlyUSD
				summary.CategoryTotals[categoryOrOther(sub.Category)] += monthlyUSD
			}
		}

		if !sub.LastEmailDate.IsZero() && amountUSD > 0 {
			bucket := time.Date(sub.LastEmailDate.Year(), sub.LastEmailDate.Month(), 1, 0, 0, 0, 0, time.UTC)
			monthly[bucket] += amountUSD
		}

		if upcomingWindow > 0 && sub.NextPaymentDate != nil && sub.Status != model.StatusCancelled {
			if sub.NextPaymentDate.After(now) && sub.NextPaymentDate.Before(now.Add(upcomingWindow)) {
				summary.Upcoming = append(summary.Upcoming, line)
			}
		}

		summary.Subscriptions = append(summary.Subscriptions, line)
	}

	summary.YearlyTotal = summary.MonthlyTotal * 12

	for month, total := range monthly {
		summary.MonthlyTrend = append(summary.MonthlyTrend, MonthTotal{Month: month, Total: total})
	}
	sort.Slice(summary.MonthlyTrend, func(i, j int) bool {
		return summary.MonthlyTrend[i].Month.Before(summary.MonthlyTrend[j].Month)
	})
	sort.Slice(summary.Upcoming, func(i, j int) bool {
		return summary.Upcoming[i].NextPaymentDate.Before(*summary.Upcoming[j].NextPaymentDate)
	})
	sort.Slice(summary.Subscriptions, func(i, j int) bool {
		return summary.Subscriptions[i].MonthlyUSD > summary.Subscriptions[j].MonthlyUSD
	})

	return summary, nil
}

func categoryOrOther(category string) string {
	if category == "" {
		return "Other"
	}
	return category
}
