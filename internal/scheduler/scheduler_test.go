package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"MarketPulse/internal/model"
	"MarketPulse/internal/recorder"
)

type fakeCache struct {
	builds    atomic.Int32
	evictions atomic.Int32
	evictErr  error
}

func (f *fakeCache) GetOrBuild(ctx context.Context) *model.MarketSnapshot {
	f.builds.Add(1)
	return model.NewSnapshot(time.Now())
}

func (f *fakeCache) Evict() (int, error) {
	f.evictions.Add(1)
	return 2, f.evictErr
}

type pruneRecorder struct {
	recorder.NoopRecorder
	before time.Time
	calls  int
	err    error
}

func (p *pruneRecorder) Prune(before time.Time) (int64, error) {
	p.calls++
	p.before = before
	return 1, p.err
}

func TestRunSweepNow(t *testing.T) {
	fc := &fakeCache{}
	rec := &pruneRecorder{}
	now := time.Date(2024, 3, 4, 15, 30, 0, 0, time.UTC)

	s := NewScheduler(context.Background(), fc, rec, time.Hour)
	s.Now = func() time.Time { return now }
	s.RunSweepNow()

	if fc.evictions.Load() != 1 {
		t.Errorf("evictions = %d, want 1", fc.evictions.Load())
	}
	if rec.calls != 1 {
		t.Fatalf("prune calls = %d, want 1", rec.calls)
	}
	if want := now.Add(-time.Hour); !rec.before.Equal(want) {
		t.Errorf("prune before = %v, want %v", rec.before, want)
	}
}

func TestSweepContinuesAfterEvictError(t *testing.T) {
	fc := &fakeCache{evictErr: errors.New("disk gone")}
	rec := &pruneRecorder{}
	s := NewScheduler(context.Background(), fc, rec, time.Hour)
	s.RunSweepNow()
	if rec.calls != 1 {
		t.Errorf("prune should still run, calls = %d", rec.calls)
	}
}

func TestSweepWithoutRecorder(t *testing.T) {
	fc := &fakeCache{}
	s := NewScheduler(context.Background(), fc, nil, time.Hour)
	s.RunSweepNow()
	if fc.evictions.Load() != 1 {
		t.Errorf("evictions = %d", fc.evictions.Load())
	}
}

func TestRegisterAll(t *testing.T) {
	s := NewScheduler(context.Background(), &fakeCache{}, recorder.NewNoopRecorder(), time.Hour)
	if err := s.RegisterAll("0 */5 * * * *", ""); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	if n := len(s.Cron.Entries()); n != 1 {
		t.Errorf("entries = %d, want 1 without warm cron", n)
	}

	s = NewScheduler(context.Background(), &fakeCache{}, recorder.NewNoopRecorder(), time.Hour)
	if err := s.RegisterAll("0 */5 * * * *", "30 * * * * *"); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	if n := len(s.Cron.Entries()); n != 2 {
		t.Errorf("entries = %d, want 2", n)
	}

	if err := s.RegisterAll("bogus", ""); err == nil {
		t.Error("expected error for invalid sweep spec")
	}
}

func TestWarmTask(t *testing.T) {
	fc := &fakeCache{}
	s := NewScheduler(context.Background(), fc, nil, time.Hour)
	s.warmTask()
	if fc.builds.Load() != 1 {
		t.Errorf("builds = %d, want 1", fc.builds.Load())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s = NewScheduler(ctx, fc, nil, time.Hour)
	s.warmTask()
	if fc.builds.Load() != 1 {
		t.Errorf("warm task ran after shutdown")
	}
}

func TestStartStop(t *testing.T) {
	fc := &fakeCache{}
	s := NewScheduler(context.Background(), fc, nil, time.Hour)
	if err := s.RegisterAll("* * * * * *", ""); err != nil {
		t.Fatal(err)
	}
	s.Start()
	deadline := time.Now().Add(3 * time.Second)
	for fc.evictions.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	s.Stop()
	if fc.evictions.Load() == 0 {
		t.Error("sweep did not run within 3s")
	}
}
