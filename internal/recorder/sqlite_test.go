package recorder

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "builds.db"))
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_RecordAndList(t *testing.T) {
	r := openTestRecorder(t)
	base := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)

	records := []*BuildRecord{
		{ID: "a", StartedAt: base, Duration: 3 * time.Second, Indices: 4, Watchlist: 38, Movers: 2},
		{ID: "b", StartedAt: base.Add(time.Minute), Duration: 2 * time.Second, Indices: 3, Watchlist: 37, Failed: []string{"^DJI", "SNDK"}},
	}
	for _, rec := range records {
		if err := r.RecordBuild(rec); err != nil {
			t.Fatalf("record %s: %v", rec.ID, err)
		}
	}

	got, err := r.RecentBuilds(10)
	if err != nil {
		t.Fatalf("recent builds: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("expected newest first, got %s, %s", got[0].ID, got[1].ID)
	}
	if len(got[0].Failed) != 2 || got[0].Failed[1] != "SNDK" {
		t.Errorf("failed symbols not round-tripped: %v", got[0].Failed)
	}
	if len(got[1].Failed) != 0 {
		t.Errorf("expected no failures, got %v", got[1].Failed)
	}
	if got[1].Duration != 3*time.Second || !got[1].StartedAt.Equal(base) {
		t.Errorf("unexpected timing: %+v", got[1])
	}

	limited, err := r.RecentBuilds(1)
	if err != nil {
		t.Fatalf("recent builds: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected limit to apply, got %d", len(limited))
	}
}

func TestSQLiteRecorder_Prune(t *testing.T) {
	r := openTestRecorder(t)
	now := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)

	for i, age := range []time.Duration{90 * time.Minute, 61 * time.Minute, 30 * time.Minute} {
		rec := &BuildRecord{ID: string(rune('a' + i)), StartedAt: now.Add(-age)}
		if err := r.RecordBuild(rec); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	n, err := r.Prune(now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 pruned, got %d", n)
	}
	left, _ := r.RecentBuilds(10)
	if len(left) != 1 || left[0].ID != "c" {
		t.Errorf("expected only the recent record to survive, got %+v", left)
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	if err := r.RecordBuild(&BuildRecord{ID: "x"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	got, err := r.RecentBuilds(5)
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %v, %v", got, err)
	}
}
