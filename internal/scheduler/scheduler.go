package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"MarketPulse/internal/model"
	"MarketPulse/internal/recorder"
)

// SnapshotCache is the part of the snapshot cache the scheduler drives.
type SnapshotCache interface {
	GetOrBuild(ctx context.Context) *model.MarketSnapshot
	Evict() (int, error)
}

// Scheduler manages housekeeping cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Cache     SnapshotCache
	Recorder  recorder.Recorder
	Retention time.Duration
	Now       func() time.Time
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, c SnapshotCache, rec recorder.Recorder, retention time.Duration) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Cache:     c,
		Recorder:  rec,
		Retention: retention,
		Now:       time.Now,
		Ctx:       ctx,
	}
}

// RegisterAll registers the sweep task and, when warmCron is set, the
// warm-up task that builds the current minute ahead of requests.
func (s *Scheduler) RegisterAll(sweepCron, warmCron string) error {
	if _, err := s.Cron.AddFunc(sweepCron, s.sweepTask); err != nil {
		return fmt.Errorf("register sweep task: %w", err)
	}
	if warmCron == "" {
		return nil
	}
	if _, err := s.Cron.AddFunc(warmCron, s.warmTask); err != nil {
		return fmt.Errorf("register warm task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunSweepNow executes the sweep task immediately.
func (s *Scheduler) RunSweepNow() {
	s.sweepTask()
}

func (s *Scheduler) sweepTask() {
	removed, err := s.Cache.Evict()
	if err != nil {
		log.Printf("[ERROR] cache sweep: %v", err)
	} else if removed > 0 {
		log.Printf("[INFO] cache sweep removed %d entries", removed)
	}

	if s.Recorder == nil {
		return
	}
	pruned, err := s.Recorder.Prune(s.Now().Add(-s.Retention))
	if err != nil {
		log.Printf("[ERROR] prune build log: %v", err)
		return
	}
	if pruned > 0 {
		log.Printf("[INFO] pruned %d build log rows", pruned)
	}
}

func (s *Scheduler) warmTask() {
	if s.Ctx.Err() != nil {
		return
	}
	snap := s.Cache.GetOrBuild(s.Ctx)
	log.Printf("[INFO] warmed snapshot %s (%d indices, %d watchlist)",
		snap.Timestamp.Format(time.RFC3339), len(snap.Indices), len(snap.Watchlist))
}
