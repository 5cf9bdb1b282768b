package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/recurhq/recur/internal/model"
)

// Validation errors.
var (
	ErrNilContext          = errors.New("context cannot be nil")
	ErrEmptyString         = errors.New("string parameter cannot be empty")
	ErrNilParameter        = errors.New("parameter cannot be nil")
	ErrInvalidSubscription = errors.New("invalid subscription")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateSubscription validates a subscription before persistence.
func validateSubscription(sub *model.DetectedSubscription) error {
	if sub == nil {
		return fmt.Errorf("%w: subscription", ErrNilParameter)
	}
	if sub.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidSubscription)
	}
	if sub.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidSubscription)
	}
	if sub.SourceMessageID == "" {
		return fmt.Errorf("%w: missing source message ID", ErrInvalidSubscription)
	}
	if sub.ProcessingYear == 0 {
		return fmt.Errorf("%w: missing processing year", ErrInvalidSubscription)
	}
	if err := sub.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSubscription, err)
	}
	return nil
}
