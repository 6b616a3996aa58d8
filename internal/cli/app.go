package cli

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"MarketPulse/internal/cache"
	"MarketPulse/internal/collector"
	"MarketPulse/internal/config"
	"MarketPulse/internal/metrics"
	"MarketPulse/internal/recorder"
)

// offlineCacheDir keeps synthetic snapshots apart from live ones.
const offlineCacheDir = "offline"

// syntheticDays covers the longest SMA window with room for the 1M lookback.
const syntheticDays = 260

// App wires the components shared by every command.
type App struct {
	Config    *config.Config
	Metrics   *metrics.Metrics
	Recorder  recorder.Recorder
	Collector *collector.Collector
	Cache     *cache.Cache
}

// NewApp builds the component graph from cfg. With offline set the
// collector reads deterministic synthetic series instead of Yahoo.
func NewApp(cfg *config.Config, offline bool) (*App, error) {
	m := metrics.NewMetrics()

	var fetcher collector.Fetcher
	if offline {
		fetcher = collector.NewSyntheticFetcher(cfg.Universe, syntheticDays, time.Now())
	} else {
		fetcher = collector.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.Proxy,
			cfg.DataSource.Timeout.Std(), cfg.DataSource.Range)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	col := collector.NewCollector(fetcher, cfg.Universe)
	col.Recorder = rec
	col.Metrics = m

	cacheDir := cfg.Cache.Dir
	if offline {
		cacheDir = filepath.Join(cacheDir, offlineCacheDir)
	}
	c, err := cache.New(cacheDir, col,
		cache.WithRetention(cfg.Cache.Retention.Std()),
		cache.WithMetrics(m),
	)
	if err != nil {
		rec.Close()
		return nil, fmt.Errorf("init cache: %w", err)
	}

	return &App{
		Config:    cfg,
		Metrics:   m,
		Recorder:  rec,
		Collector: col,
		Cache:     c,
	}, nil
}

func (a *App) Close() error {
	return a.Recorder.Close()
}

// openCache opens the live cache for maintenance commands. It has no
// builder, so only listing and eviction may be used.
func openCache(cfg *config.Config) (*cache.Cache, error) {
	c, err := cache.New(cfg.Cache.Dir, nil, cache.WithRetention(cfg.Cache.Retention.Std()))
	if err != nil {
		return nil, fmt.Errorf("init cache: %w", err)
	}
	return c, nil
}
