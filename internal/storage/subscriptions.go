package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/recurhq/recur/internal/common"
	"github.com/recurhq/recur/internal/model"
)

const subscriptionColumns = `id, user_id, service_name, category, amount, currency,
	billing_cycle, status, confidence, source_message_id, email_subject,
	receipt_type, language, region, processing_year, next_payment_date,
	last_email_date, detected_at, updated_at`

// FindBySourceMessage looks up the subscription recorded for a specific
// source message in a processing year. Returns common.ErrNotFound when no
// record exists.
func (s *SQLiteStore) FindBySourceMessage(ctx context.Context, userID, messageID string, year int) (*model.DetectedSubscription, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(messageID, "messageID"); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM subscriptions
		WHERE user_id = ? AND source_message_id = ? AND processing_year = ?`, subscriptionColumns)

	row := s.db.QueryRowContext(ctx, query, userID, messageID, year)
	sub, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: subscription for message %s", common.ErrNotFound, messageID)
		}
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}
	return sub, nil
}

// Upsert inserts a subscription or, when a record already exists for the
// same (user, source message, year) key, updates it in place. The original
// id and detected_at are preserved across updates so re-scans stay
// idempotent.
func (s *SQLiteStore) Upsert(ctx context.Context, sub *model.DetectedSubscription) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSubscription(sub); err != nil {
		return err
	}

	existing, err := s.FindBySourceMessage(ctx, sub.UserID, sub.SourceMessageID, sub.ProcessingYear)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}

	now := time.Now().UTC()
	if existing != nil {
		sub.ID = existing.ID
		sub.DetectedAt = existing.DetectedAt
		sub.UpdatedAt = now

		_, err = s.db.ExecContext(ctx, `UPDATE subscriptions SET
			service_name = ?, category = ?, amount = ?, currency = ?,
			billing_cycle = ?, status = ?, confidence = ?, email_subject = ?,
			receipt_type = ?, language = ?, region = ?, next_payment_date = ?,
			last_email_date = ?, updated_at = ?
			WHERE id = ?`,
			sub.ServiceName, sub.Category, sub.Amount, sub.Currency,
			string(sub.BillingCycle), string(sub.Status), sub.Confidence, sub.EmailSubject,
			sub.ReceiptType, sub.Language, sub.Region, nullableTime(sub.NextPaymentDate),
			sub.LastEmailDate, sub.UpdatedAt, sub.ID)
		if err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}
		return nil
	}

	if sub.DetectedAt.IsZero() {
		sub.DetectedAt = now
	}
	sub.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, fmt.Sprintf(`INSERT INTO subscriptions (%s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, subscriptionColumns),
		sub.ID, sub.UserID, sub.ServiceName, sub.Category, sub.Amount, sub.Currency,
		string(sub.BillingCycle), string(sub.Status), sub.Confidence, sub.SourceMessageID,
		sub.EmailSubject, sub.ReceiptType, sub.Language, sub.Region, sub.ProcessingYear,
		nullableTime(sub.NextPaymentDate), sub.LastEmailDate, sub.DetectedAt, sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert subscription: %w", err)
	}
	return nil
}

// List returns all subscriptions detected for a user in a processing year,
// most recently billed first. A year of 0 returns every year.
func (s *SQLiteStore) List(ctx context.Context, userID string, year int) ([]model.DetectedSubscription, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM subscriptions WHERE user_id = ?`, subscriptionColumns)
	args := []any{userID}
	if year != 0 {
		query += ` AND processing_year = ?`
		args = append(args, year)
	}
	query += ` ORDER BY last_email_date DESC, service_name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var subs []model.DetectedSubscription
	for rows.Next() {
		sub, scanErr := scanSubscription(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", scanErr)
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscriptions: %w", err)
	}
	return subs, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row scanner) (*model.DetectedSubscription, error) {
	var sub model.DetectedSubscription
	var cycle, status string
	var nextPayment sql.NullTime

	err := row.Scan(&sub.ID, &sub.UserID, &sub.ServiceName, &sub.Category, &sub.Amount,
		&sub.Currency, &cycle, &status, &sub.Confidence, &sub.SourceMessageID,
		&sub.EmailSubject, &sub.ReceiptType, &sub.Language, &sub.Region,
		&sub.ProcessingYear, &nextPayment, &sub.LastEmailDate, &sub.DetectedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, err
	}

	sub.BillingCycle = model.BillingCycle(cycle)
	sub.Status = model.SubscriptionStatus(status)
	if nextPayment.Valid {
		sub.NextPaymentDate = &nextPayment.Time
	}
	return &sub, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
