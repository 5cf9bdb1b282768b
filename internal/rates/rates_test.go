package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedServer(t *testing.T, hits *atomic.Int32, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestConvertUSDPassthrough(t *testing.T) {
	c := NewConverter(nil, WithFeedURL("http://127.0.0.1:1/unreachable"))
	got, err := c.ConvertToUSD(context.Background(), 15.99, "usd")
	require.NoError(t, err)
	assert.Equal(t, 15.99, got)
}

func TestConvertUsesLiveRates(t *testing.T) {
	var hits atomic.Int32
	server := feedServer(t, &hits, `{"result":"success","rates":{"EUR":0.5,"MAD":10.0}}`)

	c := NewConverter(nil, WithFeedURL(server.URL))
	got, err := c.ConvertToUSD(context.Background(), 10.0, "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 20.0, got, 0.001)

	got, err = c.ConvertToUSD(context.Background(), 150.0, "MAD")
	require.NoError(t, err)
	assert.InDelta(t, 15.0, got, 0.001)
}

func TestConvertCachesWithinTTL(t *testing.T) {
	var hits atomic.Int32
	server := feedServer(t, &hits, `{"result":"success","rates":{"EUR":0.5}}`)

	c := NewConverter(nil, WithFeedURL(server.URL), WithTTL(time.Hour))
	for i := 0; i < 5; i++ {
		_, err := c.ConvertToUSD(context.Background(), 1.0, "EUR")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), hits.Load(), "fresh cache should serve repeat conversions")
}

func TestConvertRefreshesAfterTTL(t *testing.T) {
	var hits atomic.Int32
	server := feedServer(t, &hits, `{"result":"success","rates":{"EUR":0.5}}`)

	c := NewConverter(nil, WithFeedURL(server.URL), WithTTL(time.Nanosecond))
	_, err := c.ConvertToUSD(context.Background(), 1.0, "EUR")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = c.ConvertToUSD(context.Background(), 1.0, "EUR")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, hits.Load(), int32(2))
}

func TestConvertStaticFallbackOnFeedOutage(t *testing.T) {
	c := NewConverter(nil, WithFeedURL("http://127.0.0.1:1/unreachable"))

	got, err := c.ConvertToUSD(context.Background(), 150.0, "MAD")
	require.NoError(t, err)
	assert.InDelta(t, 15.0, got, 0.001)

	got, err = c.ConvertToUSD(context.Background(), 9.2, "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got, 0.001)
}

func TestConvertUnknownCurrency(t *testing.T) {
	c := NewConverter(nil, WithFeedURL("http://127.0.0.1:1/unreachable"))
	_, err := c.ConvertToUSD(context.Background(), 5.0, "XXX")
	assert.Error(t, err)
}

func TestConvertMalformedFeedFallsBack(t *testing.T) {
	var hits atomic.Int32
	server := feedServer(t, &hits, `{"result":"error"}`)

	c := NewConverter(nil, WithFeedURL(server.URL))
	got, err := c.ConvertToUSD(context.Background(), 79.0, "GBP")
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got, 0.001)
}
