package calculator

import (
	"errors"

	"MarketPulse/internal/model"
)

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateSMAs returns the rounded SMA for every window in model.SMAWindows.
// Windows longer than the series are present with a nil value.
func CalculateSMAs(prices []float64) model.IndicatorSet {
	smas := make(model.IndicatorSet, len(model.SMAWindows))
	for _, w := range model.SMAWindows {
		sma, err := CalculateSMA(prices, w)
		if err != nil {
			smas[model.SMAKey(w)] = nil
			continue
		}
		v := Round2(sma)
		smas[model.SMAKey(w)] = &v
	}
	return smas
}
