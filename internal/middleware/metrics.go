package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/kiwari-pos/floor/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedPath labels requests no route matched.
const unmatchedPath = "unmatched"

// Metrics records request counts and latency. Paths are labelled with the
// matched route pattern so ids don't explode label cardinality.
func Metrics(c *metrics.Collectors) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			path := unmatchedPath
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			labels := prometheus.Labels{
				"method": r.Method,
				"path":   path,
				"status": strconv.Itoa(status),
			}
			c.HTTPRequests.With(labels).Inc()
			c.HTTPDuration.With(labels).Observe(time.Since(start).Seconds())
		})
	}
}
