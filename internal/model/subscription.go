// Package model defines the core domain types shared across the application.
package model

import (
	"fmt"
	"time"
)

// BillingCycle describes how often a subscription renews.
type BillingCycle string

const (
	// CycleWeekly renews every seven days.
	CycleWeekly BillingCycle = "weekly"
	// CycleMonthly renews every calendar month.
	CycleMonthly BillingCycle = "monthly"
	// CycleYearly renews every calendar year.
	CycleYearly BillingCycle = "yearly"
)

// Valid reports whether the cycle is one of the known values.
func (c BillingCycle) Valid() bool {
	switch c {
	case CycleWeekly, CycleMonthly, CycleYearly:
		return true
	}
	return false
}

// Next returns the renewal date one cycle after from.
func (c BillingCycle) Next(from time.Time) time.Time {
	switch c {
	case CycleWeekly:
		return from.AddDate(0, 0, 7)
	case CycleYearly:
		return from.AddDate(1, 0, 0)
	default:
		return from.AddDate(0, 1, 0)
	}
}

// SubscriptionStatus describes the lifecycle state of a detected subscription.
type SubscriptionStatus string

const (
	// StatusActive is a subscription with a confirmed charge.
	StatusActive SubscriptionStatus = "active"
	// StatusTrial is a subscription still inside a trial period with a pending charge.
	StatusTrial SubscriptionStatus = "trial"
	// StatusCancelled is a subscription whose cancellation was confirmed.
	StatusCancelled SubscriptionStatus = "cancelled"
)

// DetectedSubscription is the durable record produced by a scan.
// It is unique per (UserID, SourceMessageID, ProcessingYear); re-processing
// the same message updates the existing record instead of inserting a new one.
type DetectedSubscription struct {
	// NextPaymentDate is the projected renewal; nil when the subscription
	// is cancelled or the source date is unknown.
	NextPaymentDate *time.Time
	LastEmailDate   time.Time
	DetectedAt      time.Time
	UpdatedAt       time.Time
	ID              string
	UserID          string
	ServiceName     string
	Category        string
	Currency        string
	BillingCycle    BillingCycle
	Status          SubscriptionStatus
	SourceMessageID string
	EmailSubject    string
	ReceiptType     string
	Language        string
	Region          string
	Amount          float64
	Confidence      float64
	ProcessingYear  int
}

// Validate checks the invariants every persisted record must satisfy.
func (s *DetectedSubscription) Validate() error {
	if s.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if s.SourceMessageID == "" {
		return fmt.Errorf("source message id is required")
	}
	if s.ServiceName == "" {
		return fmt.Errorf("service name is required")
	}
	if s.Amount <= 0 {
		return fmt.Errorf("amount must be positive, got %.2f", s.Amount)
	}
	if !s.BillingCycle.Valid() {
		return fmt.Errorf("invalid billing cycle: %q", s.BillingCycle)
	}
	if s.Confidence < 0 || s.Confidence > 1 {
		return fmt.Errorf("confidence must be in [0,1], got %.2f", s.Confidence)
	}
	return nil
}

// MonthlyAmount normalizes the subscription cost to a per-month figure.
func (s *DetectedSubscription) MonthlyAmount() float64 {
	switch s.BillingCycle {
	case CycleWeekly:
		return s.Amount * 52 / 12
	case CycleYearly:
		return s.Amount / 12
	default:
		return s.Amount
	}
}
