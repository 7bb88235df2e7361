package rest

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	applog "storedash/internal/log"
)

// tracedTransport wraps a RoundTripper with per-request IDs, debug logging
// and rolling request metrics.
type tracedTransport struct {
	next http.RoundTripper
	log  *applog.Logger

	totalRequests  atomic.Int64
	totalLatencyUS atomic.Int64
}

func newTracedTransport(next http.RoundTripper, logger *applog.Logger) *tracedTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &tracedTransport{next: next, log: logger}
}

func (t *tracedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	requestID := generateRequestID()

	t.log.DebugContext(req.Context(), "Request started",
		"request_id", requestID,
		"method", req.Method,
		applog.FieldPath, req.URL.Path)

	resp, err := t.next.RoundTrip(req)

	duration := time.Since(start)
	t.totalRequests.Add(1)
	t.totalLatencyUS.Add(duration.Microseconds())

	if err != nil {
		t.log.DebugContext(req.Context(), "Request failed",
			"request_id", requestID,
			"method", req.Method,
			applog.FieldPath, req.URL.Path,
			applog.FieldDuration, duration,
			applog.FieldError, err)
		return nil, err
	}

	t.log.DebugContext(req.Context(), "Request completed",
		"request_id", requestID,
		"method", req.Method,
		applog.FieldPath, req.URL.Path,
		applog.FieldStatusCode, resp.StatusCode,
		applog.FieldDuration, duration)
	return resp, nil
}

// Stats reports the request count and average latency seen so far.
func (t *tracedTransport) Stats() (requests int64, avgLatency time.Duration) {
	requests = t.totalRequests.Load()
	if requests == 0 {
		return 0, 0
	}
	avg := t.totalLatencyUS.Load() / requests
	return requests, time.Duration(avg) * time.Microsecond
}

// generateRequestID returns a random hex ID, falling back to a timestamp
// when the random source is unavailable.
func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("req-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
