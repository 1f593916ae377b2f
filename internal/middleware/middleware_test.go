package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/usergraph/backend/internal/logging"
	"github.com/usergraph/backend/internal/metrics"
)

func TestRequestLoggerPropagatesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	var seen string
	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "req-123" {
		t.Fatalf("expected request id on context, got %q", seen)
	}
	if got := rec.Header().Get(RequestIDHeader); got != "req-123" {
		t.Fatalf("expected request id header, got %q", got)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status %d got %d", http.StatusAccepted, rec.Code)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"request_id":"req-123"`)) {
		t.Fatalf("expected request id in logs, got %s", buf.String())
	}
}

func TestRequestLoggerRecoversPanics(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	handler := RequestLogger(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500 got %d", rec.Code)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Fatal("expected a generated request id")
	}
}

func TestRequestLoggerKeepsStatusWrittenBeforePanic(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("partial"))
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	if rec.Body.String() != "partial" {
		t.Fatalf("expected body to be left alone, got %q", rec.Body.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"status":200`)) {
		t.Fatalf("expected logged status 200, got %s", buf.String())
	}
}

func TestRequestLoggerLabelsUnknownMethodsAsOther(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	for _, method := range []string{"BREW", "WHEN", "JUNK7"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(method, "/healthz", nil))
	}

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	if !strings.Contains(body, `usergraph_http_requests_total{method="other",status="418"}`) {
		t.Fatalf("expected requests under the other method label, got:\n%s", body)
	}
	for _, method := range []string{"BREW", "WHEN", "JUNK7"} {
		if strings.Contains(body, `method="`+method+`"`) {
			t.Fatalf("expected no series for method %s", method)
		}
	}
}

func TestClientLimiterAllowsBurstThenBlocks(t *testing.T) {
	limiter := NewClientLimiter(LimiterOptions{Requests: 1, Window: time.Minute, Burst: 2, IdleTTL: time.Minute})

	if !limiter.Allow("a") || !limiter.Allow("a") {
		t.Fatal("expected burst requests to be allowed")
	}
	if limiter.Allow("a") {
		t.Fatal("expected request beyond burst to be blocked")
	}
	if !limiter.Allow("b") {
		t.Fatal("expected other keys to have their own budget")
	}
}

func TestClientLimiterSweepsIdleClientsOncePerTTL(t *testing.T) {
	limiter := NewClientLimiter(LimiterOptions{Requests: 1, Window: time.Hour, Burst: 1, IdleTTL: time.Minute})
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	now := start
	limiter.WithNowFunc(func() time.Time { return now })

	// The first call sweeps and schedules the next sweep one TTL later.
	if !limiter.Allow("x") {
		t.Fatal("expected first request to be allowed")
	}
	if limiter.Allow("x") {
		t.Fatal("expected second request to be blocked")
	}

	now = start.Add(59 * time.Second)
	limiter.Allow("a")

	now = start.Add(60 * time.Second)
	limiter.Allow("b")
	if got := limiter.Tracked(); got != 3 {
		t.Fatalf("expected 3 tracked clients after a sweep with nothing idle, got %d", got)
	}

	// "x" and "a" are now idle past the TTL but the next sweep is not due.
	now = start.Add(119*time.Second + 500*time.Millisecond)
	limiter.Allow("b")
	if got := limiter.Tracked(); got != 3 {
		t.Fatalf("expected no sweep before the interval, got %d tracked", got)
	}

	now = start.Add(120 * time.Second)
	limiter.Allow("b")
	if got := limiter.Tracked(); got != 1 {
		t.Fatalf("expected idle clients to be evicted, got %d tracked", got)
	}
}

func TestNewClientLimiterDefaults(t *testing.T) {
	limiter := NewClientLimiter(LimiterOptions{})
	if limiter.idleTTL != defaultIdleTTL || limiter.burst != 1 {
		t.Fatalf("unexpected defaults: ttl=%v burst=%d", limiter.idleTTL, limiter.burst)
	}
}
