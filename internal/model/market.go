package model

import "time"

// Bar is a single daily observation.
type Bar struct {
	Time  time.Time
	Close float64
}

// PriceSeries holds the daily closes of one symbol, oldest first.
type PriceSeries struct {
	Symbol    string
	Bars      []Bar
	FetchedAt time.Time
}

// Len returns the number of observations.
func (s PriceSeries) Len() int { return len(s.Bars) }

// Closes returns the closing prices in chronological order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}
