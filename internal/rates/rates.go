// Package rates converts detected subscription amounts into USD using a
// cached exchange-rate feed with a static fallback table.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultFeedURL is the exchange-rate feed queried for live USD rates.
const DefaultFeedURL = "https://open.er-api.com/v6/latest/USD"

// defaultTTL is how long a fetched rate table stays fresh.
const defaultTTL = time.Hour

// staticRates is the fallback table used when the feed is unreachable.
// Values are units of the currency per 1 USD.
var staticRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 150.0,
	"MAD": 10.0,
	"SAR": 3.75,
	"CHF": 0.88,
	"CAD": 1.36,
	"AUD": 1.52,
}

// Converter implements service.RateSource with an in-memory TTL cache.
type Converter struct {
	httpClient *http.Client
	logger     *slog.Logger
	feedURL    string
	rates      map[string]float64
	fetchedAt  time.Time
	ttl        time.Duration
	mu         sync.Mutex
}

// Option configures a Converter.
type Option func(*Converter)

// WithFeedURL overrides the exchange-rate feed URL.
func WithFeedURL(url string) Option {
	return func(c *Converter) { c.feedURL = url }
}

// WithTTL overrides how long fetched rates stay fresh.
func WithTTL(ttl time.Duration) Option {
	return func(c *Converter) { c.ttl = ttl }
}

// WithHTTPClient overrides the HTTP client used for feed requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Converter) { c.httpClient = client }
}

// NewConverter creates a currency converter.
func NewConverter(logger *slog.Logger, opts ...Option) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Converter{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
		feedURL:    DefaultFeedURL,
		ttl:        defaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConvertToUSD converts an amount in the given currency to USD. Live rates
// are used when fresh, then the feed is refreshed, then the static table
// covers feed outages. Unknown currencies are an error.
func (c *Converter) ConvertToUSD(ctx context.Context, amount float64, currency string) (float64, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return 0, fmt.Errorf("currency is required")
	}
	if currency == "USD" {
		return amount, nil
	}

	rate, err := c.rateFor(ctx, currency)
	if err != nil {
		return 0, err
	}
	return amount / rate, nil
}

func (c *Converter) rateFor(ctx context.Context, currency string) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rates == nil || time.Since(c.fetchedAt) > c.ttl {
		fetched, err := c.fetch(ctx)
		if err != nil {
			c.logger.Warn("Exchange-rate feed unavailable, using static table",
				"error", err)
		} else {
			c.rates = fetched
			c.fetchedAt = time.Now()
		}
	}

	if c.rates != nil {
		if rate, ok := c.rates[currency]; ok && rate > 0 {
			return rate, nil
		}
	}
	if rate, ok := staticRates[currency]; ok {
		return rate, nil
	}
	return 0, fmt.Errorf("no exchange rate available for %s", currency)
}

// feedResponse matches the er-api JSON shape.
type feedResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

func (c *Converter) fetch(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate feed response: %w", err)
	}

	var feed feedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to parse rate feed response: %w", err)
	}
	if feed.Result != "success" || len(feed.Rates) == 0 {
		return nil, fmt.Errorf("rate feed returned no usable rates")
	}

	c.logger.Debug("Refreshed exchange rates", "currencies", len(feed.Rates))
	return feed.Rates, nil
}
