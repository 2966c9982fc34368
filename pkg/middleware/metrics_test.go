package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dennisdiepolder/callboard/internal/metrics"
	"github.com/go-chi/chi/v5"
)

func TestMetricsUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/api/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/abc", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	metrics.Get().Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	want := `callboard_http_requests_total{endpoint="/api/sessions/{id}",status="418"} 1`
	if !strings.Contains(rec.Body.String(), want) {
		t.Errorf("expected %q in metrics output:\n%s", want, rec.Body.String())
	}
}
