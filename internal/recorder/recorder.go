package recorder

import "time"

// BuildRecord summarizes one snapshot build.
type BuildRecord struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Indices   int           `json:"indices"`
	Watchlist int           `json:"watchlist"`
	Movers    int           `json:"movers"`
	Failed    []string      `json:"failed"`
}

// Recorder keeps a short-lived log of snapshot builds.
type Recorder interface {
	RecordBuild(rec *BuildRecord) error
	RecentBuilds(limit int) ([]BuildRecord, error)
	// Prune deletes records that started before the cutoff.
	Prune(before time.Time) (int64, error)
	Close() error
}
