// Package service defines the boundary contracts between the detection
// pipeline and its external collaborators.
package service

import (
	"context"
	"time"

	"github.com/recurhq/recur/internal/model"
)

// CredentialProvider supplies a valid bearer credential for a user's mailbox.
// Refresh-on-expiry is the provider's responsibility; callers only see a
// usable token or an error.
type CredentialProvider interface {
	IsAuthorized(ctx context.Context, userID string) (bool, error)
	AccessToken(ctx context.Context, userID string) (string, error)
}

// Mailbox is the search + fetch capability of the user's mail provider.
type Mailbox interface {
	// Search returns message ids matching the query inside [after, before).
	Search(ctx context.Context, query string, after, before time.Time) ([]string, error)
	// Fetch retrieves a single message with its body decoded to plain text.
	Fetch(ctx context.Context, messageID string) (*Message, error)
}

// Message is a fetched mailbox message with the longest decoded text part.
type Message struct {
	Date    time.Time
	ID      string
	Subject string
	Sender  string
	Body    string
}

// Validator is the external semantic classification capability. A nil verdict
// with a nil error means the candidate was rejected or the response was
// malformed; the candidate is dropped either way.
type Validator interface {
	Validate(ctx context.Context, candidate model.CandidateEmail) (*model.SemanticVerdict, error)
}

// Store is the key-addressable persistence layer for detected subscriptions.
type Store interface {
	FindBySourceMessage(ctx context.Context, userID, messageID string, year int) (*model.DetectedSubscription, error)
	Upsert(ctx context.Context, sub *model.DetectedSubscription) error
	List(ctx context.Context, userID string, year int) ([]model.DetectedSubscription, error)
	Migrate(ctx context.Context) error
	Close() error
}

// RateSource converts an amount in a foreign currency to the base currency.
type RateSource interface {
	ConvertToUSD(ctx context.Context, amount float64, currency string) (float64, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// ScanStats summarizes what a scan did, for logging and CLI output.
type ScanStats struct {
	Duration        time.Duration
	QueriesRun      int
	QueriesFailed   int
	MessagesSeen    int
	MessagesFetched int
	StageOnePassed  int
	StageTwoPassed  int
	Persisted       int
}
