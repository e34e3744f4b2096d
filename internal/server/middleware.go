package server

import (
	"net/http"
	"time"

	"github.com/azhaanglitch/smart-accident-detector/internal/log"
)

// MiddlewareFunc wraps an http.Handler with additional behavior
type MiddlewareFunc func(http.Handler) http.Handler

// ChainMiddleware chains multiple middleware functions
func ChainMiddleware(h http.Handler, middlewares ...MiddlewareFunc) http.Handler {
	for _, mw := range middlewares {
		h = mw(h)
	}
	return h
}

// statusRecorder captures the response status for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// NewLoggingMiddleware logs one line per request. Query strings are
// omitted: callback URLs carry codes and state tokens.
func NewLoggingMiddleware() MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rec, r)

			log.LogInfoWithFields("http", "Request handled", map[string]any{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start).String(),
			})
		})
	}
}

// NewRecoveryMiddleware converts panics into a generic 500. Nothing from
// the panic value reaches the response body.
func NewRecoveryMiddleware() MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					log.LogErrorWithFields("http", "Panic while handling request", map[string]any{
						"method": r.Method,
						"path":   r.URL.Path,
						"panic":  v,
					})
					http.Error(w, "internal error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
