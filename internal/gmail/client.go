package gmail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/recurhq/recur/internal/service"
)

const (
	// defaultPageSize bounds a single list call; Search pages through
	// results until Gmail stops returning a next page token.
	defaultPageSize = 100

	// maxResultsPerQuery caps how many messages a single query may yield
	// so one overly broad query cannot dominate a scan.
	maxResultsPerQuery = 500
)

// Client talks to the Gmail API for a single mailbox. It implements
// service.Mailbox.
type Client struct {
	svc    *gmailapi.Service
	logger *slog.Logger
}

// NewClient creates a Gmail client using the given token source.
func NewClient(ctx context.Context, ts oauth2.TokenSource, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	svc, err := gmailapi.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return &Client{svc: svc, logger: logger}, nil
}

// Search returns the IDs of messages matching the query within the given
// date window. Dates are appended as Gmail after:/before: operators.
func (c *Client) Search(ctx context.Context, query string, after, before time.Time) ([]string, error) {
	full := fmt.Sprintf("%s after:%s before:%s",
		query, after.Format("2006/01/02"), before.Format("2006/01/02"))

	var ids []string
	pageToken := ""
	for {
		call := c.svc.Users.Messages.List("me").
			Q(full).
			MaxResults(defaultPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("gmail search failed: %w", err)
		}

		for _, m := range resp.Messages {
			ids = append(ids, m.Id)
		}

		pageToken = resp.NextPageToken
		if pageToken == "" || len(ids) >= maxResultsPerQuery {
			break
		}
	}

	c.logger.Debug("Gmail search complete", "query", query, "matches", len(ids))
	return ids, nil
}

// Fetch retrieves a full message and reduces it to the fields the
// detection pipeline reads.
func (c *Client) Fetch(ctx context.Context, id string) (*service.Message, error) {
	raw, err := c.svc.Users.Messages.Get("me", id).
		Format("full").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("gmail fetch failed for %s: %w", id, err)
	}
	return decodeMessage(raw)
}
