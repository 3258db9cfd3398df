// Package middleware provides HTTP middleware shared across handlers.
package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// RequestLogger returns middleware that logs every request with method, path,
// status and latency. Server errors are logged at WARN so a misbehaving
// upload or ask pipeline stands out without raising the log level; everything
// else stays at DEBUG. Pass nil logger to disable logging.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logger == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", wrapped.status),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", r.RemoteAddr),
			}
			if wrapped.status >= http.StatusInternalServerError {
				logger.Warn("HTTP request failed", fields...)
				return
			}
			logger.Debug("HTTP request", fields...)
		})
	}
}

// statusRecorder captures the status code written by the handler chain.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}
