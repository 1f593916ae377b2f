package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveHTTPCountsByStatus(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodPost, "200"))

	ObserveHTTP(http.MethodPost, http.StatusOK, 5*time.Millisecond)
	ObserveHTTP(http.MethodPost, http.StatusOK, 7*time.Millisecond)

	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodPost, "200"))
	if after-before != 2 {
		t.Fatalf("expected 2 additional requests, got %v", after-before)
	}
}

func TestObserveHTTPFoldsUnknownMethods(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues(methodOther, "405"))
	series := testutil.CollectAndCount(httpRequests)

	for i := 0; i < 20; i++ {
		ObserveHTTP(fmt.Sprintf("JUNK%d", i), http.StatusMethodNotAllowed, time.Millisecond)
	}

	if got := testutil.ToFloat64(httpRequests.WithLabelValues(methodOther, "405")) - before; got != 20 {
		t.Fatalf("expected 20 requests in the other series, got %v", got)
	}
	if got := testutil.CollectAndCount(httpRequests); got > series+1 {
		t.Fatalf("expected at most one new series, went from %d to %d", series, got)
	}
	if got := methodLabel(http.MethodPatch); got != http.MethodPatch {
		t.Fatalf("expected standard methods to keep their label, got %q", got)
	}
}

func TestIncRateLimited(t *testing.T) {
	before := testutil.ToFloat64(rateLimited)
	IncRateLimited()
	if got := testutil.ToFloat64(rateLimited) - before; got != 1 {
		t.Fatalf("expected rate limited counter to grow by 1, got %v", got)
	}
}

func TestHandlerExposesResolverMetrics(t *testing.T) {
	ObserveResolver("createUser", "ok", time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `usergraph_resolver_duration_seconds_count{outcome="ok",resolver="createUser"}`) {
		t.Fatalf("expected resolver histogram in exposition, got:\n%s", rec.Body.String())
	}
}
