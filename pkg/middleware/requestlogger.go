package middleware

import (
	"log/slog"
	"net/http"

	"github.com/moviereviews/backend/pkg/logger"
)

// RequestLogger stores a request-scoped logger in context, enriched with
// correlation_id, caller_id, trace_id and span_id when present. Handlers
// retrieve it with logger.FromContext.
//
// Mount after RequestLogging and Tracing. Authentication middleware that runs
// later re-enriches the logger itself via logger.WithCallerID.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
