package model

import "time"

// Direction of a mover's daily change.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Mover is a watchlist symbol with a large daily move.
type Mover struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	ChangePct float64   `json:"change_pct"`
	Direction Direction `json:"direction"`
}

// SectorPerformance summarizes the daily change of one sector's members.
type SectorPerformance struct {
	Name           string  `json:"name"`
	AvgChangePct   float64 `json:"avg_change_pct"`
	BestName       string  `json:"best_name"`
	BestChangePct  float64 `json:"best_change_pct"`
	WorstName      string  `json:"worst_name"`
	WorstChangePct float64 `json:"worst_change_pct"`
}

// MarketSnapshot is one immutable capture of the dashboard state.
type MarketSnapshot struct {
	Timestamp         time.Time              `json:"timestamp"`
	Indices           map[string]SymbolQuote `json:"indices"`
	Watchlist         map[string]SymbolQuote `json:"watchlist"`
	Movers            []Mover                `json:"movers"`
	SectorPerformance []SectorPerformance    `json:"sector_performance"`
}

// NewSnapshot returns an empty snapshot stamped with ts. Collections are
// non-nil so they encode as {} and [] rather than null.
func NewSnapshot(ts time.Time) *MarketSnapshot {
	return &MarketSnapshot{
		Timestamp:         ts,
		Indices:           map[string]SymbolQuote{},
		Watchlist:         map[string]SymbolQuote{},
		Movers:            []Mover{},
		SectorPerformance: []SectorPerformance{},
	}
}
