package model

import "time"

// CandidateEmail is a message that survived every first-stage gate and is
// eligible for semantic validation. It is transient: consumed by the second
// stage and never persisted.
type CandidateEmail struct {
	Date      time.Time
	MessageID string
	Subject   string
	Body      string
	Sender    string
	Language  string
	Region    string
	// Stage-1 extraction results carried forward for record building.
	Amount     ExtractedAmount
	Service    ServiceMatch
	Confidence float64
}

// ExtractedAmount is a monetary value pulled out of message text.
type ExtractedAmount struct {
	Currency string
	Value    float64
	// HasContext reports whether the amount co-occurred with an explicit
	// financial phrase such as "total" or "charged".
	HasContext bool
}

// ServiceMatch is the result of identifying a known service in a message.
type ServiceMatch struct {
	Name     string
	Category string
	// TrustedDomain reports whether the sender domain matched the catalog
	// entry's trusted domains rather than just a keyword.
	TrustedDomain bool
	// Boost is this match's contribution to the heuristic confidence score.
	Boost float64
}

// SemanticVerdict is the parsed result of the external semantic validator.
// Merged into a DetectedSubscription, never stored on its own.
type SemanticVerdict struct {
	ServiceName  string
	Currency     string
	Category     string
	Reasoning    string
	BillingCycle BillingCycle
	Amount       float64
	Confidence   float64
	Valid        bool
}
