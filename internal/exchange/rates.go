// Package exchange resolves the USD-BRL multiplier used to normalize
// foreign-currency records. Rates come from the AwesomeAPI quote endpoint
// and are cached; when the source is unavailable the provider degrades to
// the fixed fallback instead of failing, since the aggregation core must
// always receive some rate.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"patrimonio/internal/core"
)

// FallbackRate is the fixed USD-BRL multiplier applied when no live quote
// is available. It must match the core default so every call path
// normalizes identically.
const FallbackRate = core.DefaultRate

const (
	defaultQuoteURL = "https://economia.awesomeapi.com.br/json/last/USD-BRL"
	cacheKey        = "usd-brl"
)

type Provider struct {
	client   *http.Client
	rates    *cache.Cache
	quoteURL string
}

// NewProvider builds a provider with a one-hour quote cache.
func NewProvider() *Provider {
	return &Provider{
		client:   &http.Client{Timeout: 10 * time.Second},
		rates:    cache.New(1*time.Hour, 2*time.Hour),
		quoteURL: defaultQuoteURL,
	}
}

// NewProviderWithURL is used by tests to point at a fake quote server.
func NewProviderWithURL(url string) *Provider {
	p := NewProvider()
	p.quoteURL = url
	return p
}

// NewProviderWithConfig builds a provider with an explicit quote endpoint
// and cache TTL. Expired entries linger for one extra TTL before sweep.
func NewProviderWithConfig(url string, ttl time.Duration) *Provider {
	p := NewProvider()
	if url != "" {
		p.quoteURL = url
	}
	if ttl > 0 {
		p.rates = cache.New(ttl, 2*ttl)
	}
	return p
}

// USDToBRL returns the current multiplier. It never fails: cache first,
// then a live fetch, then FallbackRate.
func (p *Provider) USDToBRL(ctx context.Context) float64 {
	if v, found := p.rates.Get(cacheKey); found {
		return v.(float64)
	}

	rate, err := p.fetch(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Exchange rate fetch failed, using fallback",
			"error", err, "fallback", FallbackRate)
		return FallbackRate
	}

	p.rates.Set(cacheKey, rate, cache.DefaultExpiration)
	return rate
}

func (p *Provider) fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.quoteURL, nil)
	if err != nil {
		return 0, fmt.Errorf("build quote request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("quote endpoint returned %s", resp.Status)
	}

	// AwesomeAPI shape: {"USDBRL": {"bid": "5.43", ...}}
	var payload map[string]struct {
		Bid string `json:"bid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode quote response: %w", err)
	}

	quote, ok := payload["USDBRL"]
	if !ok {
		return 0, fmt.Errorf("quote response missing USDBRL pair")
	}

	rate, err := strconv.ParseFloat(quote.Bid, 64)
	if err != nil {
		return 0, fmt.Errorf("parse bid %q: %w", quote.Bid, err)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("non-positive rate %v", rate)
	}
	return rate, nil
}
