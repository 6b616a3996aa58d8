package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"MarketPulse/internal/model"
)

const (
	DefaultPath      = "configs/config.yaml"
	DefaultPort      = 8771
	DefaultCacheDir  = "cache"
	DefaultSweepCron = "0 */5 * * * *"

	defaultBaseURL = "https://query1.finance.yahoo.com"
	defaultRange   = "1y"
)

// Duration is a time.Duration that reads from YAML strings like "10s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Cache struct {
		Dir       string   `yaml:"dir"`
		Retention Duration `yaml:"retention"`
	} `yaml:"cache"`
	DataSource struct {
		BaseURL string   `yaml:"base_url"`
		Timeout Duration `yaml:"timeout"`
		Range   string   `yaml:"range"`
	} `yaml:"data_source"`
	Schedule struct {
		SweepCron string `yaml:"sweep_cron"`
		WarmCron  string `yaml:"warm_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy    string         `yaml:"proxy"`
	Universe model.Universe `yaml:"universe"`
}

// PathFromEnv returns CONFIG_PATH or the default config location.
func PathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("WARM_CRON"); v != "" {
		cfg.Schedule.WarmCron = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = DefaultCacheDir
	}
	if c.Cache.Retention == 0 {
		c.Cache.Retention = Duration(time.Hour)
	}
	if c.DataSource.BaseURL == "" {
		c.DataSource.BaseURL = defaultBaseURL
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = Duration(10 * time.Second)
	}
	if c.DataSource.Range == "" {
		c.DataSource.Range = defaultRange
	}
	if c.Schedule.SweepCron == "" {
		c.Schedule.SweepCron = DefaultSweepCron
	}
	if len(c.Universe.Indices) == 0 {
		c.Universe.Indices = DefaultIndices()
	}
	if len(c.Universe.Watchlist) == 0 {
		c.Universe.Watchlist = DefaultWatchlist()
	}
	if c.Universe.Sectors == nil {
		c.Universe.Sectors = DefaultSectors()
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Cache.Retention <= 0 {
		return fmt.Errorf("cache.retention must be positive")
	}
	if c.DataSource.Timeout <= 0 {
		return fmt.Errorf("data_source.timeout must be positive")
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	for name, spec := range map[string]string{
		"schedule.sweep_cron": c.Schedule.SweepCron,
		"schedule.warm_cron":  c.Schedule.WarmCron,
	} {
		if spec == "" {
			continue
		}
		if _, err := parser.Parse(spec); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	seen := make(map[string]bool)
	for _, idx := range c.Universe.Indices {
		if idx.Symbol == "" {
			return fmt.Errorf("universe.indices: empty symbol")
		}
		if seen[idx.Symbol] {
			return fmt.Errorf("universe.indices: duplicate symbol %s", idx.Symbol)
		}
		seen[idx.Symbol] = true
	}
	seen = make(map[string]bool)
	for _, sym := range c.Universe.Watchlist {
		if sym == "" {
			return fmt.Errorf("universe.watchlist: empty symbol")
		}
		if seen[sym] {
			return fmt.Errorf("universe.watchlist: duplicate symbol %s", sym)
		}
		seen[sym] = true
	}
	for _, s := range c.Universe.Sectors {
		if s.Name == "" {
			return fmt.Errorf("universe.sectors: empty name")
		}
	}
	return nil
}
