package collector

import (
	"context"

	"MarketPulse/internal/model"
)

// Fetcher defines the interface for fetching market data.
//
// FetchDailySeries returns roughly one year of daily closes, oldest first.
// A symbol the provider knows nothing about yields an empty series rather
// than an error.
type Fetcher interface {
	FetchDailySeries(ctx context.Context, symbol string) (model.PriceSeries, error)
	Name() string
}
