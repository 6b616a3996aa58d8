package calculator

import (
	"time"

	"MarketPulse/internal/model"
)

// Lookbacks in trading sessions.
const (
	WeekSessions  = 5
	MonthSessions = 21
)

// CalculateChange returns the day-over-day change of the last close and its
// percentage. With a single observation the previous close is the latest one.
func CalculateChange(prices []float64) (change, changePct float64) {
	if len(prices) == 0 {
		return 0, 0
	}
	latest := prices[len(prices)-1]
	prev := latest
	if len(prices) > 1 {
		prev = prices[len(prices)-2]
	}
	change = latest - prev
	if prev != 0 {
		changePct = change / prev * 100
	}
	return change, changePct
}

// CalculateReturn returns the percentage move from reference to latest.
// A zero reference has no defined return and yields 0.
func CalculateReturn(latest, reference float64) float64 {
	if reference == 0 {
		return 0
	}
	return (latest - reference) / reference * 100
}

// LookbackClose returns the close `sessions` trading sessions before the
// latest one. Short histories fall back to the earliest close, so the
// result degrades to a since-inception reference.
func LookbackClose(prices []float64, sessions int) float64 {
	if len(prices) == 0 {
		return 0
	}
	idx := len(prices) - 1 - sessions
	if idx < 0 {
		idx = 0
	}
	return prices[idx]
}

// YTDReferenceClose returns the close of the first session on or after
// January 1 (UTC) of now's year, or the earliest close if the series has no
// such session.
func YTDReferenceClose(bars []model.Bar, now time.Time) float64 {
	if len(bars) == 0 {
		return 0
	}
	startOfYear := time.Date(now.UTC().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	for _, b := range bars {
		if !b.Time.Before(startOfYear) {
			return b.Close
		}
	}
	return bars[0].Close
}
