package model

import "strconv"

// SMAWindows are the moving-average windows reported for every symbol.
var SMAWindows = []int{5, 10, 20, 50, 100, 200}

// SMAKey returns the IndicatorSet key for a window, e.g. "SMA50".
func SMAKey(window int) string { return "SMA" + strconv.Itoa(window) }

// IndicatorSet maps SMA keys to rounded averages. A nil value means the
// series was shorter than the window.
type IndicatorSet map[string]*float64

// Get returns the average for the given window.
func (s IndicatorSet) Get(window int) *float64 {
	return s[SMAKey(window)]
}

// PeriodReturns are percentage returns over fixed lookbacks.
type PeriodReturns struct {
	Ret1W  float64 `json:"ret_1w"`
	Ret1M  float64 `json:"ret_1m"`
	RetYTD float64 `json:"ret_ytd"`
}

// SymbolQuote is the derived view of one symbol. Name is set for indices
// only; PeriodReturns for watchlist symbols only.
type SymbolQuote struct {
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
	*PeriodReturns
	SMAs IndicatorSet `json:"smas"`
}
