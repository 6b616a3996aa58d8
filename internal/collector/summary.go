package collector

import (
	"math"
	"sort"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/model"
)

// MoverThreshold is the minimum absolute daily change, in percent, for a mover.
const MoverThreshold = 3.0

// IsMover reports whether a rounded daily change qualifies as a mover.
func IsMover(changePct float64) bool {
	return math.Abs(changePct) >= MoverThreshold
}

// NewMover builds the mover entry for a quote.
func NewMover(symbol string, q model.SymbolQuote) model.Mover {
	dir := model.DirectionDown
	if q.ChangePct > 0 {
		dir = model.DirectionUp
	}
	return model.Mover{
		Symbol:    symbol,
		Price:     q.Price,
		ChangePct: q.ChangePct,
		Direction: dir,
	}
}

// SortMovers orders movers by descending magnitude, keeping watchlist order on ties.
func SortMovers(movers []model.Mover) {
	sort.SliceStable(movers, func(i, j int) bool {
		return math.Abs(movers[i].ChangePct) > math.Abs(movers[j].ChangePct)
	})
}

// SectorPerformance summarizes each sector from the quotes present in the
// watchlist, best average first. Sectors with no quoted members report zeros.
func SectorPerformance(sectors []model.Sector, watchlist map[string]model.SymbolQuote) []model.SectorPerformance {
	out := make([]model.SectorPerformance, 0, len(sectors))
	for _, sector := range sectors {
		perf := model.SectorPerformance{Name: sector.Name}
		var sum float64
		n := 0
		for _, sym := range sector.Tickers {
			q, ok := watchlist[sym]
			if !ok {
				continue
			}
			if n == 0 || q.ChangePct > perf.BestChangePct {
				perf.BestName, perf.BestChangePct = sym, q.ChangePct
			}
			if n == 0 || q.ChangePct <= perf.WorstChangePct {
				perf.WorstName, perf.WorstChangePct = sym, q.ChangePct
			}
			sum += q.ChangePct
			n++
		}
		if n > 0 {
			perf.AvgChangePct = calculator.Round2(sum / float64(n))
		}
		out = append(out, perf)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgChangePct > out[j].AvgChangePct })
	return out
}
