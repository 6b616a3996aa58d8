package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveBuild(time.Second, 3, []string{"AAPL"})
	m.CacheHit()
	m.CacheMiss()
	m.Evicted(2)
	m.WriteFailed()
}

func TestObserveBuild(t *testing.T) {
	m := NewMetrics()
	m.ObserveBuild(1500*time.Millisecond, 40, []string{"SNDK", "SNDK", "IESC"})

	if got := testutil.ToFloat64(m.BuildsTotal); got != 1 {
		t.Errorf("expected 1 build, got %v", got)
	}
	if got := testutil.ToFloat64(m.SymbolsBuilt); got != 40 {
		t.Errorf("expected 40 symbols, got %v", got)
	}
	if got := testutil.ToFloat64(m.SymbolFailures.WithLabelValues("SNDK")); got != 2 {
		t.Errorf("expected 2 SNDK failures, got %v", got)
	}
}

func TestCacheCounters(t *testing.T) {
	m := NewMetrics()
	m.CacheHit()
	m.CacheHit()
	m.CacheMiss()
	m.Evicted(0)
	m.Evicted(3)

	if got := testutil.ToFloat64(m.CacheRequests.WithLabelValues("hit")); got != 2 {
		t.Errorf("expected 2 hits, got %v", got)
	}
	if got := testutil.ToFloat64(m.CacheRequests.WithLabelValues("miss")); got != 1 {
		t.Errorf("expected 1 miss, got %v", got)
	}
	if got := testutil.ToFloat64(m.CacheEvictions); got != 3 {
		t.Errorf("expected 3 evictions, got %v", got)
	}
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	m.CacheMiss()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `marketpulse_cache_requests_total{result="miss"} 1`) {
		t.Errorf("miss counter not exposed:\n%s", rec.Body.String())
	}
}
