// Package engine orchestrates the two-stage subscription detection scan:
// gather candidate messages, run the heuristic gates, semantically validate
// survivors, and persist the resulting records.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/recurhq/recur/internal/common"
	"github.com/recurhq/recur/internal/detect"
	"github.com/recurhq/recur/internal/model"
	"github.com/recurhq/recur/internal/service"
)

// StageOne is the heuristic gate evaluator. Satisfied by detect.Classifier.
type StageOne interface {
	Evaluate(msg *service.Message) (*model.CandidateEmail, detect.Gate)
}

// ScanEngine runs detection scans against a user's mailbox.
type ScanEngine struct {
	creds      service.CredentialProvider
	mailbox    service.Mailbox
	stageOne   StageOne
	validator  service.Validator
	store      service.Store
	logger     *slog.Logger
	onProgress func(done, total int)
}

// New creates a scan engine with the given collaborators.
func New(creds service.CredentialProvider, mailbox service.Mailbox, stageOne StageOne, validator service.Validator, store service.Store, logger *slog.Logger) *ScanEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScanEngine{
		creds:     creds,
		mailbox:   mailbox,
		stageOne:  stageOne,
		validator: validator,
		store:     store,
		logger:    logger,
	}
}

// SetProgressFunc registers a callback invoked after each fetched message,
// for CLI progress rendering.
func (e *ScanEngine) SetProgressFunc(fn func(done, total int)) {
	e.onProgress = fn
}

// Scan detects subscriptions in the user's mailbox for one processing
// year. Authorization failure is fatal; every other per-message or
// per-query failure is logged and skipped, so a scan returns whatever it
// could detect.
func (e *ScanEngine) Scan(ctx context.Context, userID string, year int) ([]model.DetectedSubscription, *service.ScanStats, error) {
	start := time.Now()
	stats := &service.ScanStats{}

	if e.creds != nil {
		authorized, err := e.creds.IsAuthorized(ctx, userID)
		if err != nil {
			return nil, stats, fmt.Errorf("authorization check failed: %w", err)
		}
		if !authorized {
			return nil, stats, fmt.Errorf("%w: user %s has no mailbox credential", common.ErrNotAuthorized, userID)
		}
	}

	e.logger.Info("Starting scan", "user", userID, "year", year)

	gathered, err := gather(ctx, e.mailbox, year, e.logger)
	if err != nil {
		return nil, stats, err
	}
	stats.QueriesRun = gathered.queriesRun
	stats.QueriesFailed = gathered.queriesFailed
	stats.MessagesSeen = len(gathered.ids)

	var records []*model.DetectedSubscription
	for i, id := range gathered.ids {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		msg, fetchErr := e.mailbox.Fetch(ctx, id)
		if fetchErr != nil {
			e.logger.Warn("Failed to fetch message, skipping",
				"message_id", id,
				"error", fetchErr)
			continue
		}
		stats.MessagesFetched++
		if e.onProgress != nil {
			e.onProgress(i+1, len(gathered.ids))
		}

		candidate, gate := e.stageOne.Evaluate(msg)
		if candidate == nil {
			e.logger.Debug("Message rejected by first stage",
				"message_id", id,
				"gate", string(gate))
			continue
		}
		stats.StageOnePassed++

		verdict, valErr := e.validator.Validate(ctx, *candidate)
		if valErr != nil {
			e.logger.Warn("Semantic validation failed, skipping candidate",
				"message_id", id,
				"error", valErr)
			continue
		}
		if verdict == nil {
			// Rejected or unusable response; the candidate is dropped.
			continue
		}
		stats.StageTwoPassed++

		records = append(records, buildRecord(userID, year, candidate, verdict))
	}

	records = collapseNearDuplicates(records)

	var persisted []model.DetectedSubscription
	for _, rec := range records {
		if upsertErr := e.store.Upsert(ctx, rec); upsertErr != nil {
			e.logger.Warn("Failed to persist subscription, skipping",
				"service", rec.ServiceName,
				"message_id", rec.SourceMessageID,
				"error", upsertErr)
			continue
		}
		stats.Persisted++
		persisted = append(persisted, *rec)
	}

	stats.Duration = time.Since(start)
	e.logger.Info("Scan complete",
		"user", userID,
		"year", year,
		"messages", stats.MessagesFetched,
		"stage_one", stats.StageOnePassed,
		"stage_two", stats.StageTwoPassed,
		"persisted", stats.Persisted,
		"duration", stats.Duration)

	return persisted, stats, nil
}
