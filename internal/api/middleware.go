// internal/api/middleware.go
package api

import (
	"net/http"
	"time"

	"github.com/valpere/mediasniff/internal/utils"
	publicapi "github.com/valpere/mediasniff/pkg/api"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(logger utils.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start).String(),
			}).Info("request")
		})
	}
}

func recoveryMiddleware(logger utils.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					logger.Errorf("panic serving %s %s: %v", r.Method, r.URL.Path, p)
					writeError(w, http.StatusInternalServerError, publicapi.MessageParseFailed)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// rateLimitMiddleware applies one shared token bucket to next
func rateLimitMiddleware(limit float64, burst int, recorder Recorder, next http.Handler) http.Handler {
	limiter := utils.NewRateLimiter(limit, burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			recorder.RecordRateLimitHit()
			writeError(w, http.StatusTooManyRequests, publicapi.MessageRateLimitExceeded)
			return
		}
		next.ServeHTTP(w, r)
	})
}
