package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddleware(t *testing.T) {
	httpRequestsTotal.Reset()
	httpRequestDuration.Reset()

	r := chi.NewRouter()
	r.Use(MetricsMiddleware())
	r.Get("/groups/{groupID}/members/{memberID}/statement", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	for _, path := range []string{"/groups/g1/members/m1/statement", "/groups/g2/members/m9/statement"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected status code %d, got %d", http.StatusOK, rec.Code)
		}
	}

	expectedTotal := `
		# HELP chitfund_http_requests_total Total number of HTTP requests.
		# TYPE chitfund_http_requests_total counter
		chitfund_http_requests_total{method="GET",path="/groups/{groupID}/members/{memberID}/statement",status_code="200"} 2
	`
	if err := testutil.CollectAndCompare(httpRequestsTotal, strings.NewReader(expectedTotal)); err != nil {
		t.Errorf("unexpected metrics for chitfund_http_requests_total: %v", err)
	}
}
