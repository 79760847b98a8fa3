package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"gigcity/internal/monitoring"
)

// responseWriter wraps http.ResponseWriter to capture status code and bytes written.
type responseWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (n int, err error) {
	n, err = w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

// LoggingMiddleware logs each request with method, path, status, and duration,
// and records the request counter. It does not log request or response bodies.
func LoggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", duration.Milliseconds(),
		)
		// Label by route pattern, not raw path, so ticket and event IDs do
		// not blow up metric cardinality.
		pattern := r.Pattern
		if pattern == "" {
			pattern = "unmatched"
		}
		monitoring.HTTPRequests.WithLabelValues(r.Method, pattern, strconv.Itoa(wrapped.status)).Inc()
	})
}
