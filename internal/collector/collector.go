package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/metrics"
	"MarketPulse/internal/model"
	"MarketPulse/internal/recorder"
)

// ErrEmptySeries is reported for symbols the provider returned no data for.
var ErrEmptySeries = errors.New("empty price series")

// SymbolResult is the outcome of quoting one symbol.
type SymbolResult struct {
	Symbol string
	Quote  model.SymbolQuote
	Err    error
}

// BuildReport describes one Collect run.
type BuildReport struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Succeeded int
	Failed    map[string]string // symbol -> reason
}

// FailedSymbols returns the failed symbols in sorted order.
func (r *BuildReport) FailedSymbols() []string {
	syms := make([]string, 0, len(r.Failed))
	for s := range r.Failed {
		syms = append(syms, s)
	}
	sort.Strings(syms)
	return syms
}

// Collector orchestrates data fetching and indicator computation across the universe.
type Collector struct {
	Fetcher  Fetcher
	Universe model.Universe
	Now      func() time.Time
	Recorder recorder.Recorder
	Metrics  *metrics.Metrics
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, universe model.Universe) *Collector {
	return &Collector{
		Fetcher:  fetcher,
		Universe: universe,
		Now:      time.Now,
		Recorder: recorder.NewNoopRecorder(),
	}
}

// DisplaySymbol strips provider index notation, e.g. "^GSPC" -> "GSPC".
func DisplaySymbol(symbol string) string {
	return strings.ReplaceAll(symbol, "^", "")
}

// Collect fetches every symbol and assembles a snapshot. Symbols that fail
// are omitted and listed in the report; Collect itself never fails.
func (c *Collector) Collect(ctx context.Context) (*model.MarketSnapshot, *BuildReport) {
	start := c.Now()
	report := &BuildReport{
		ID:        uuid.NewString(),
		StartedAt: start,
		Failed:    map[string]string{},
	}
	snap := model.NewSnapshot(start)

	for _, idx := range c.Universe.Indices {
		res := c.quote(ctx, idx.Symbol, start, false)
		if res.Err != nil {
			report.fail(res)
			continue
		}
		q := res.Quote
		q.Name = idx.Name
		snap.Indices[DisplaySymbol(idx.Symbol)] = q
		report.Succeeded++
	}

	for _, sym := range c.Universe.Watchlist {
		res := c.quote(ctx, sym, start, true)
		if res.Err != nil {
			report.fail(res)
			continue
		}
		display := DisplaySymbol(sym)
		snap.Watchlist[display] = res.Quote
		report.Succeeded++

		if IsMover(res.Quote.ChangePct) {
			snap.Movers = append(snap.Movers, NewMover(display, res.Quote))
		}
	}

	SortMovers(snap.Movers)
	snap.SectorPerformance = SectorPerformance(c.Universe.Sectors, snap.Watchlist)

	report.Duration = c.Now().Sub(start)
	return snap, report
}

// Build runs Collect, logs and records the outcome. It only fails when ctx
// is done, so an aborted build is never cached.
func (c *Collector) Build(ctx context.Context) (*model.MarketSnapshot, error) {
	snap, report := c.Collect(ctx)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build %s aborted: %w", report.ID, err)
	}

	failed := report.FailedSymbols()
	log.Printf("[INFO] build %s: %d symbols in %v, %d failed, %d movers",
		report.ID, report.Succeeded, report.Duration.Round(time.Millisecond), len(failed), len(snap.Movers))

	c.Metrics.ObserveBuild(report.Duration, report.Succeeded, failed)
	if c.Recorder != nil {
		if err := c.Recorder.RecordBuild(&recorder.BuildRecord{
			ID:        report.ID,
			StartedAt: report.StartedAt,
			Duration:  report.Duration,
			Indices:   len(snap.Indices),
			Watchlist: len(snap.Watchlist),
			Movers:    len(snap.Movers),
			Failed:    failed,
		}); err != nil {
			log.Printf("[ERROR] record build: %v", err)
		}
	}
	return snap, nil
}

func (c *Collector) quote(ctx context.Context, symbol string, now time.Time, withReturns bool) SymbolResult {
	res := SymbolResult{Symbol: symbol}
	series, err := c.Fetcher.FetchDailySeries(ctx, symbol)
	if err != nil {
		res.Err = fmt.Errorf("fetch: %w", err)
		return res
	}
	if series.Len() == 0 {
		res.Err = ErrEmptySeries
		return res
	}
	q, err := calculator.CalculateQuote(series, now, withReturns)
	if err != nil {
		res.Err = fmt.Errorf("compute: %w", err)
		return res
	}
	res.Quote = q
	return res
}

func (r *BuildReport) fail(res SymbolResult) {
	log.Printf("[WARN] skipping %s: %v", res.Symbol, res.Err)
	r.Failed[res.Symbol] = res.Err.Error()
}
