package telemetry

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/planetexplorer/planetexplorer/internal/swapi"
)

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest("planets", 20*time.Millisecond, nil)
	m.ObserveRequest("planets", 30*time.Millisecond, nil)
	m.ObserveRequest("planet", time.Millisecond, &swapi.HTTPError{StatusCode: 404})
	m.ObserveRequest("planet", time.Millisecond, errors.New("connection refused"))

	tests := []struct {
		endpoint, status string
		want             float64
	}{
		{"planets", "ok", 2},
		{"planet", "404", 1},
		{"planet", "error", 1},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(m.upstreamRequests.WithLabelValues(tt.endpoint, tt.status))
		if got != tt.want {
			t.Errorf("upstream_requests_total{%s,%s} = %v, want %v", tt.endpoint, tt.status, got, tt.want)
		}
	}
	if n := testutil.CollectAndCount(m.upstreamDuration); n != 2 {
		t.Errorf("duration series = %d, want 2", n)
	}
}

func TestObserveStateAndSubscribers(t *testing.T) {
	m := New()

	m.ObserveState("planet_list", "loading")
	m.ObserveState("planet_list", "success")
	m.ObserveState("planet_list", "success")
	m.SetSubscribers("planet_list", 3)
	m.SetSubscribers("planet_list", 1)

	if got := testutil.ToFloat64(m.stateTransitions.WithLabelValues("planet_list", "success")); got != 2 {
		t.Errorf("success transitions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.subscribers.WithLabelValues("planet_list")); got != 1 {
		t.Errorf("subscribers = %v, want 1", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveHTTP("/api/v1/planets", http.MethodGet, 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`planetexplorer_http_requests_total{code="200",method="GET",route="/api/v1/planets"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("planets", time.Second, nil)
	m.ObserveHTTP("/", http.MethodGet, 200, time.Second)
	m.ObserveState("planet_list", "loading")
	m.SetSubscribers("planet_list", 1)
	if m.Registry() != nil {
		t.Error("nil Metrics should have no registry")
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
