// Package cache stores one market snapshot per wall-clock minute as a JSON
// file and rebuilds it on a miss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"MarketPulse/internal/metrics"
	"MarketPulse/internal/model"
)

const (
	DefaultRetention = time.Hour

	keyLayout  = "20060102_1504"
	filePrefix = "market_data_"
	fileSuffix = ".json"
	tempPrefix = ".tmp-" + filePrefix
)

// Builder produces a fresh snapshot on a cache miss.
type Builder interface {
	Build(ctx context.Context) (*model.MarketSnapshot, error)
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(ctx context.Context) (*model.MarketSnapshot, error)

func (f BuilderFunc) Build(ctx context.Context) (*model.MarketSnapshot, error) { return f(ctx) }

// MinuteKey returns the cache key for the local-time minute containing t.
func MinuteKey(t time.Time) string {
	return t.Local().Format(keyLayout)
}

// Cache is a directory of per-minute snapshot files.
type Cache struct {
	dir       string
	builder   Builder
	now       func() time.Time
	retention time.Duration
	metrics   *metrics.Metrics
	group     singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the clock used for keys and eviction.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithRetention sets how old an entry may get before eviction.
func WithRetention(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.retention = d
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// New creates a Cache rooted at dir, creating the directory if needed.
func New(dir string, builder Builder, opts ...Option) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	c := &Cache{
		dir:       dir,
		builder:   builder,
		now:       time.Now,
		retention: DefaultRetention,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Dir returns the storage root.
func (c *Cache) Dir() string { return c.dir }

// Retention returns the eviction horizon.
func (c *Cache) Retention() time.Duration { return c.retention }

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, filePrefix+key+fileSuffix)
}

// GetOrBuild returns the snapshot for the current minute, building and
// storing it on a miss. It never fails: unreadable entries count as misses
// and a failed build yields an empty snapshot that is not stored.
func (c *Cache) GetOrBuild(ctx context.Context) *model.MarketSnapshot {
	key := MinuteKey(c.now())

	snap, err := c.Load(key)
	if err == nil {
		c.metrics.CacheHit()
		return snap
	}
	if !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[WARN] cache entry %s unreadable, rebuilding: %v", key, err)
	}
	c.metrics.CacheMiss()

	// Shared by every waiter on key; detached from the caller's cancellation.
	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		if snap, err := c.Load(key); err == nil {
			return snap, nil
		}
		return c.build(context.WithoutCancel(ctx), key), nil
	})
	return v.(*model.MarketSnapshot)
}

func (c *Cache) build(ctx context.Context, key string) *model.MarketSnapshot {
	snap, err := c.builder.Build(ctx)
	if err != nil || snap == nil {
		log.Printf("[ERROR] build snapshot for %s: %v", key, err)
		return model.NewSnapshot(c.now())
	}

	if err := c.Store(key, snap); err != nil {
		c.metrics.WriteFailed()
		log.Printf("[WARN] store cache entry %s: %v", key, err)
	}
	if n, err := c.Evict(); err != nil {
		log.Printf("[WARN] cache eviction: %v", err)
	} else if n > 0 {
		log.Printf("[INFO] evicted %d cache entries", n)
	}
	return snap
}

// Load reads the entry stored under key.
func (c *Cache) Load(key string) (*model.MarketSnapshot, error) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, err
	}
	var snap model.MarketSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &snap, nil
}

// Store writes snap under key. The file is written to a temporary name and
// renamed so readers never observe a partial entry.
func (c *Cache) Store(key string, snap *model.MarketSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp, err := os.CreateTemp(c.dir, tempPrefix+"*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.path(key))
}

// Evict deletes entries whose modification time is older than the
// retention window, along with stale temp files left by interrupted
// writes. Only entries are counted. Failures on individual files are skipped.
func (c *Cache) Evict() (int, error) {
	entries, err := c.Entries()
	if err != nil {
		return 0, err
	}
	cutoff := c.now().Add(-c.retention)
	removed := 0
	for _, e := range entries {
		if !e.ModTime.Before(cutoff) {
			continue
		}
		if err := os.Remove(e.Path); err != nil {
			continue
		}
		removed++
	}
	c.metrics.Evicted(removed)
	c.removeStaleTemp(cutoff)
	return removed, nil
}

func (c *Cache) removeStaleTemp(cutoff time.Time) {
	paths, err := filepath.Glob(filepath.Join(c.dir, tempPrefix+"*"))
	if err != nil {
		return
	}
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil || !fi.ModTime().Before(cutoff) {
			continue
		}
		os.Remove(p)
	}
}

// EntryInfo describes one stored snapshot file.
type EntryInfo struct {
	Key     string
	Path    string
	Size    int64
	ModTime time.Time
}

// Entries lists stored entries ordered by key.
func (c *Cache) Entries() ([]EntryInfo, error) {
	paths, err := filepath.Glob(filepath.Join(c.dir, filePrefix+"*"+fileSuffix))
	if err != nil {
		return nil, err
	}
	out := make([]EntryInfo, 0, len(paths))
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		name := filepath.Base(p)
		out = append(out, EntryInfo{
			Key:     strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix),
			Path:    p,
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
