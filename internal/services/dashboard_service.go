package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"patrimonio/internal/cache"
	"patrimonio/internal/core"
	"patrimonio/internal/records"
	"patrimonio/internal/records/memory"
)

// RateSource resolves the USD-BRL multiplier for one dashboard request.
type RateSource interface {
	USDToBRL(ctx context.Context) float64
}

// DashboardData is the record half of the dashboard payload. JSON names are
// a wire contract with the presentation layer.
type DashboardData struct {
	Incomes     []core.Income     `json:"receitas"`
	Costs       []core.Cost       `json:"custos"`
	Investments []core.Investment `json:"investimentos"`
	Assets      []core.Asset      `json:"ativos"`
	Liabilities []core.Liability  `json:"passivos"`
}

// DashboardPayload is the full dashboard response body.
type DashboardPayload struct {
	Data       DashboardData   `json:"dados"`
	Indicators core.Indicators `json:"indicadores"`
}

// DashboardService serves one period's records plus the composed indicator
// set. The primary store is fetched concurrently; when it fails the service
// degrades to the in-memory mirror, which holds the last snapshot it saw.
type DashboardService struct {
	primary records.Source
	mirror  *memory.Mirror
	rates   RateSource
	cache   *cache.DashboardCache[DashboardPayload]
	opts    core.Options
}

func NewDashboardService(primary records.Source, mirror *memory.Mirror, rates RateSource, c *cache.DashboardCache[DashboardPayload], opts core.Options) *DashboardService {
	return &DashboardService{
		primary: primary,
		mirror:  mirror,
		rates:   rates,
		cache:   c,
		opts:    opts,
	}
}

// Dashboard computes the payload for a period. rateOverride, when positive,
// replaces the live quote; the presentation layer passes it through from the
// cotacao query parameter.
func (s *DashboardService) Dashboard(ctx context.Context, period core.Period, rateOverride float64) (DashboardPayload, error) {
	if err := period.Validate(); err != nil {
		return DashboardPayload{}, err
	}

	rate := rateOverride
	if rate <= 0 {
		rate = s.rates.USDToBRL(ctx)
	}

	if s.cache != nil {
		if payload, ok := s.cache.Get(period.String(), rate); ok {
			return payload, nil
		}
	}

	collections, err := fetchCollections(ctx, s.primary, period)
	degraded := false
	if err != nil {
		if s.mirror == nil {
			return DashboardPayload{}, fmt.Errorf("fetch records: %w", err)
		}
		slog.WarnContext(ctx, "Primary store unavailable, serving mirror",
			"period", period.String(), "error", err)
		degraded = true
		collections, err = fetchCollections(ctx, s.mirror, period)
		if err != nil {
			return DashboardPayload{}, fmt.Errorf("fetch mirror records: %w", err)
		}
	} else if s.mirror != nil {
		s.mirror.Warm(period, collections)
	}

	payload := DashboardPayload{
		Data: DashboardData{
			Incomes:     collections.Incomes,
			Costs:       collections.Costs,
			Investments: collections.Investments,
			Assets:      collections.Assets,
			Liabilities: collections.Liabilities,
		},
		Indicators: core.Compute(collections, rate, s.opts),
	}

	// A degraded payload reflects a possibly stale snapshot; caching it
	// would keep serving the mirror after the primary recovers.
	if s.cache != nil && !degraded {
		s.cache.Set(period.String(), rate, payload)
	}

	return payload, nil
}

// fetchCollections pulls the five collections concurrently. Each goroutine
// writes a distinct field, so no locking is needed beyond the errgroup.
func fetchCollections(ctx context.Context, src records.Source, period core.Period) (core.Collections, error) {
	var c core.Collections
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		c.Incomes, err = src.Incomes(ctx, period)
		return err
	})
	g.Go(func() error {
		var err error
		c.Costs, err = src.Costs(ctx, period)
		return err
	})
	g.Go(func() error {
		var err error
		c.Investments, err = src.Investments(ctx, period)
		return err
	})
	g.Go(func() error {
		var err error
		c.Assets, err = src.Assets(ctx, period)
		return err
	})
	g.Go(func() error {
		var err error
		c.Liabilities, err = src.Liabilities(ctx, period)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Collections{}, err
	}
	return c, nil
}
