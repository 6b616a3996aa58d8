package collector

import (
	"context"
	"time"

	"MarketPulse/internal/model"
)

// StaticFetcher serves fixed series, for tests and offline runs.
type StaticFetcher struct {
	Series map[string]model.PriceSeries
	Errors map[string]error
	Calls  map[string]int
}

// NewStaticFetcher creates an empty StaticFetcher.
func NewStaticFetcher() *StaticFetcher {
	return &StaticFetcher{
		Series: map[string]model.PriceSeries{},
		Errors: map[string]error{},
		Calls:  map[string]int{},
	}
}

func (f *StaticFetcher) Name() string { return "static" }

// Set registers closes for a symbol as consecutive daily bars ending at end.
func (f *StaticFetcher) Set(symbol string, closes []float64, end time.Time) {
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{Time: end.AddDate(0, 0, i-len(closes)+1), Close: c}
	}
	f.Series[symbol] = model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: end}
}

func (f *StaticFetcher) FetchDailySeries(ctx context.Context, symbol string) (model.PriceSeries, error) {
	f.Calls[symbol]++
	if err := ctx.Err(); err != nil {
		return model.PriceSeries{Symbol: symbol}, err
	}
	if err, ok := f.Errors[symbol]; ok {
		return model.PriceSeries{Symbol: symbol}, err
	}
	s, ok := f.Series[symbol]
	if !ok {
		return model.PriceSeries{Symbol: symbol}, nil
	}
	return s, nil
}

// NewSyntheticFetcher fills a StaticFetcher with deterministic drifting
// series for every symbol in the universe.
func NewSyntheticFetcher(u model.Universe, days int, end time.Time) *StaticFetcher {
	f := NewStaticFetcher()
	symbols := make([]string, 0, len(u.Indices)+len(u.Watchlist))
	for _, idx := range u.Indices {
		symbols = append(symbols, idx.Symbol)
	}
	symbols = append(symbols, u.Watchlist...)

	for n, sym := range symbols {
		f.Set(sym, generateCloses(sym, n, days), end)
	}
	return f
}

func generateCloses(symbol string, seed, count int) []float64 {
	base := 20.0
	for _, r := range symbol {
		base += float64(r % 17)
	}
	// Alternate drift direction and scale so some symbols qualify as movers.
	drift := float64(seed%7-3) * 0.002
	closes := make([]float64, count)
	p := base
	for i := 0; i < count; i++ {
		p *= 1 + drift
		closes[i] = p
	}
	if count > 1 && seed%5 == 0 {
		closes[count-1] = closes[count-2] * (1 + float64(seed%3+3)/100)
	}
	return closes
}

