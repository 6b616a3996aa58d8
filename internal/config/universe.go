package config

import "MarketPulse/internal/model"

// DefaultIndices returns the benchmark symbols shown in the indices bar.
func DefaultIndices() []model.IndexSpec {
	return []model.IndexSpec{
		{Symbol: "^GSPC", Name: "S&P 500"},
		{Symbol: "^DJI", Name: "Dow Jones"},
		{Symbol: "^IXIC", Name: "Nasdaq"},
		{Symbol: "BTC-USD", Name: "Bitcoin"},
	}
}

// DefaultSectors returns the AI-infrastructure sector groups.
func DefaultSectors() []model.Sector {
	return []model.Sector{
		{Name: "HYPERSCALERS", Tickers: []string{"AMZN", "GOOGL", "META", "MSFT", "ORCL"}},
		{Name: "CHIPS", Tickers: []string{"AMD", "ARM", "AVGO", "INTC", "MRVL", "NVDA"}},
		{Name: "MEMORY", Tickers: []string{"MU", "SNDK", "STX", "WDC"}},
		{Name: "NETWORKING", Tickers: []string{"ALAB", "CRDO"}},
		{Name: "OPTICAL", Tickers: []string{"AAOI", "CIEN", "COHR", "GLW", "LITE", "LUMN"}},
		{Name: "NEOCLOUDS", Tickers: []string{"APLD", "CIFR", "CRWV", "IREN", "NBIS"}},
		{Name: "SERVERS", Tickers: []string{"DELL", "SMCI"}},
		{Name: "POWER", Tickers: []string{"BE", "CEG", "IESC", "OKLO", "PSIX", "SMR", "VRT", "VST"}},
	}
}

// DefaultWatchlist is the sector tickers flattened in sector order.
func DefaultWatchlist() []string {
	var out []string
	for _, s := range DefaultSectors() {
		out = append(out, s.Tickers...)
	}
	return out
}
