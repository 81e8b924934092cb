package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRecordDispatch_Scrape(t *testing.T) {
	m := New()
	m.RecordDispatch("proxy", 200)
	m.RecordDispatch("proxy", 200)
	m.RecordDispatch("health", 200)
	m.ProxyErrs.Inc()

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	body := rr.Body.String()
	for _, want := range []string{
		`edge_dispatches_total{action="proxy",status="200"} 2`,
		`edge_dispatches_total{action="health",status="200"} 1`,
		`edge_proxy_errors_total 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape output missing %q", want)
		}
	}
}
