package calculator

import (
	"errors"
	"time"

	"MarketPulse/internal/model"
)

// ErrNoData is returned when a quote is requested for an empty series.
var ErrNoData = errors.New("no price data")

// CalculateQuote derives the rounded quote for a series. Period returns are
// only computed when withReturns is set.
func CalculateQuote(series model.PriceSeries, now time.Time, withReturns bool) (model.SymbolQuote, error) {
	if series.Len() == 0 {
		return model.SymbolQuote{}, ErrNoData
	}
	prices := series.Closes()
	latest := prices[len(prices)-1]
	change, changePct := CalculateChange(prices)

	q := model.SymbolQuote{
		Price:     Round2(latest),
		Change:    Round2(change),
		ChangePct: Round2(changePct),
		SMAs:      CalculateSMAs(prices),
	}
	if withReturns {
		q.PeriodReturns = &model.PeriodReturns{
			Ret1W:  Round2(CalculateReturn(latest, LookbackClose(prices, WeekSessions))),
			Ret1M:  Round2(CalculateReturn(latest, LookbackClose(prices, MonthSessions))),
			RetYTD: Round2(CalculateReturn(latest, YTDReferenceClose(series.Bars, now))),
		}
	}
	return q, nil
}
