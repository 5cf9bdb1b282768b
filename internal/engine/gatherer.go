package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/recurhq/recur/internal/lexicon"
	"github.com/recurhq/recur/internal/service"
)

// gatherResult is the deduplicated candidate message set for one scan.
type gatherResult struct {
	ids           []string
	queriesRun    int
	queriesFailed int
}

// gather runs every search query against the mailbox for the processing
// year and returns unique message ids in first-seen order. A failed query
// is logged and skipped; one broken query must not sink the scan.
func gather(ctx context.Context, mailbox service.Mailbox, year int, logger *slog.Logger) (*gatherResult, error) {
	after := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	before := after.AddDate(1, 0, 0)

	result := &gatherResult{}
	seen := make(map[string]struct{})

	for _, query := range lexicon.SearchQueries() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result.queriesRun++
		ids, err := mailbox.Search(ctx, query, after, before)
		if err != nil {
			result.queriesFailed++
			logger.Warn("Search query failed, skipping",
				"query", query,
				"error", err)
			continue
		}

		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			result.ids = append(result.ids, id)
		}
	}

	logger.Info("Candidate gathering complete",
		"queries", result.queriesRun,
		"failed", result.queriesFailed,
		"unique_messages", len(result.ids))
	return result, nil
}
