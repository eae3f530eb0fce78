package http

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

// serverMetrics tracks request counters exposed at /metrics.
type serverMetrics struct {
	requestsTotal   atomic.Int64
	responses4xx    atomic.Int64
	responses5xx    atomic.Int64
	rateLimitHits   atomic.Int64
	advisorSessions atomic.Int64
}

func (m *serverMetrics) observe(statusCode int) {
	m.requestsTotal.Add(1)
	switch {
	case statusCode >= 500:
		m.responses5xx.Add(1)
	case statusCode >= 400:
		m.responses4xx.Add(1)
	}
}

func (m *serverMetrics) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "cashcraft_http_requests_total %d\n", m.requestsTotal.Load())
	fmt.Fprintf(w, "cashcraft_http_responses_4xx_total %d\n", m.responses4xx.Load())
	fmt.Fprintf(w, "cashcraft_http_responses_5xx_total %d\n", m.responses5xx.Load())
	fmt.Fprintf(w, "cashcraft_http_rate_limit_hits_total %d\n", m.rateLimitHits.Load())
	fmt.Fprintf(w, "cashcraft_advisor_sessions_total %d\n", m.advisorSessions.Load())
}
