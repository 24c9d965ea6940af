package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe(http.MethodPost, "/snacks/{id}/vote", http.StatusOK, 20*time.Millisecond)
	m.Observe(http.MethodPost, "/snacks/{id}/vote", http.StatusOK, 10*time.Millisecond)
	m.Observe(http.MethodPost, "/snacks/{id}/vote", http.StatusForbidden, time.Millisecond)

	families := gather(t, reg)
	vote := map[string]string{"method": "POST", "route": "/snacks/{id}/vote"}

	vote["status"] = "200"
	if got := sample(families, "snackcycle_http_requests_total", vote); got == nil || got.GetCounter().GetValue() != 2 {
		t.Fatalf("expected 2 ok votes, got %v", got)
	}
	vote["status"] = "403"
	if got := sample(families, "snackcycle_http_requests_total", vote); got == nil || got.GetCounter().GetValue() != 1 {
		t.Fatalf("expected 1 forbidden vote, got %v", got)
	}

	hist := sample(families, "snackcycle_http_request_duration_seconds", map[string]string{"route": "/snacks/{id}/vote"})
	if hist == nil || hist.GetHistogram().GetSampleSum() <= 0 {
		t.Fatalf("expected a positive duration sum, got %v", hist)
	}
}
