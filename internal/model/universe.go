package model

// IndexSpec is a provider symbol for a market index and its display name.
type IndexSpec struct {
	Symbol string `yaml:"symbol"`
	Name   string `yaml:"name"`
}

// Sector groups watchlist tickers for the sector summary.
type Sector struct {
	Name    string   `yaml:"name"`
	Tickers []string `yaml:"tickers"`
}

// Universe is the ordered set of symbols a snapshot covers.
type Universe struct {
	Indices   []IndexSpec `yaml:"indices"`
	Watchlist []string    `yaml:"watchlist"`
	Sectors   []Sector    `yaml:"sectors"`
}
