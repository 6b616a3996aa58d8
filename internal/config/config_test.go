package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "CACHE_DIR", "HTTPS_PROXY", "SQLITE_PATH", "WARM_CRON"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Cache.Dir != DefaultCacheDir {
		t.Errorf("cache dir = %q", cfg.Cache.Dir)
	}
	if cfg.Cache.Retention.Std() != time.Hour {
		t.Errorf("retention = %v", cfg.Cache.Retention.Std())
	}
	if cfg.DataSource.Timeout.Std() != 10*time.Second {
		t.Errorf("timeout = %v", cfg.DataSource.Timeout.Std())
	}
	if cfg.DataSource.Range != "1y" {
		t.Errorf("range = %q", cfg.DataSource.Range)
	}
	if cfg.Schedule.SweepCron != DefaultSweepCron || cfg.Schedule.WarmCron != "" {
		t.Errorf("schedule = %+v", cfg.Schedule)
	}
	if cfg.Database.SQLitePath != "" {
		t.Errorf("sqlite path should default to disabled, got %q", cfg.Database.SQLitePath)
	}
	if len(cfg.Universe.Indices) != 4 || cfg.Universe.Indices[0].Symbol != "^GSPC" {
		t.Errorf("indices = %+v", cfg.Universe.Indices)
	}
	if len(cfg.Universe.Watchlist) != 38 {
		t.Errorf("watchlist has %d symbols, want 38", len(cfg.Universe.Watchlist))
	}
	if len(cfg.Universe.Sectors) != 8 {
		t.Errorf("sectors = %d, want 8", len(cfg.Universe.Sectors))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadYAMLAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
server:
  port: 9000
cache:
  dir: /tmp/snapshots
  retention: 30m
data_source:
  timeout: 3s
schedule:
  warm_cron: "0 * * * * *"
universe:
  indices:
    - symbol: "^GSPC"
      name: "S&P 500"
  watchlist: [NVDA, AMD]
  sectors:
    - name: CHIPS
      tickers: [NVDA, AMD]
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "9100")
	t.Setenv("SQLITE_PATH", "data/builds.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("PORT override not applied: %d", cfg.Server.Port)
	}
	if cfg.Cache.Dir != "/tmp/snapshots" || cfg.Cache.Retention.Std() != 30*time.Minute {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.DataSource.Timeout.Std() != 3*time.Second {
		t.Errorf("timeout = %v", cfg.DataSource.Timeout.Std())
	}
	if cfg.Database.SQLitePath != "data/builds.db" {
		t.Errorf("sqlite path = %q", cfg.Database.SQLitePath)
	}
	if cfg.Schedule.WarmCron != "0 * * * * *" {
		t.Errorf("warm cron = %q", cfg.Schedule.WarmCron)
	}
	if got := strings.Join(cfg.Universe.Watchlist, ","); got != "NVDA,AMD" {
		t.Errorf("watchlist = %s", got)
	}
	if len(cfg.Universe.Sectors) != 1 || cfg.Universe.Sectors[0].Name != "CHIPS" {
		t.Errorf("sectors = %+v", cfg.Universe.Sectors)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("cache:\n  retention: soon\n"), 0o644)
	if _, err := Load(bad); err == nil {
		t.Error("expected error for invalid duration")
	}

	t.Setenv("PORT", "eighty")
	if _, err := Load(filepath.Join(dir, "none.yaml")); err == nil {
		t.Error("expected error for non-numeric PORT")
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"sweep cron", func(c *Config) { c.Schedule.SweepCron = "every minute" }, "schedule.sweep_cron"},
		{"warm cron", func(c *Config) { c.Schedule.WarmCron = "* * *" }, "schedule.warm_cron"},
		{"dup watchlist", func(c *Config) { c.Universe.Watchlist = []string{"NVDA", "NVDA"} }, "duplicate"},
		{"empty index", func(c *Config) { c.Universe.Indices[0].Symbol = "" }, "universe.indices"},
		{"sector name", func(c *Config) { c.Universe.Sectors[0].Name = "" }, "universe.sectors"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestDefaultWatchlistMatchesSectors(t *testing.T) {
	wl := DefaultWatchlist()
	if wl[0] != "AMZN" || wl[len(wl)-1] != "VST" {
		t.Errorf("unexpected order: first %s last %s", wl[0], wl[len(wl)-1])
	}
	seen := map[string]bool{}
	for _, s := range wl {
		if seen[s] {
			t.Errorf("duplicate %s", s)
		}
		seen[s] = true
	}
}
