package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	apperrors "github.com/moviereviews/backend/pkg/errors"
	"github.com/moviereviews/backend/pkg/httputil"
	"github.com/moviereviews/backend/pkg/logger"
	"github.com/moviereviews/backend/pkg/middleware"
	"github.com/moviereviews/backend/services/review/internal/auth"
	"github.com/moviereviews/backend/services/review/internal/domain"
)

// Identity verifies the bearer token, when one is sent, and stores the
// caller in the request context. Requests without an Authorization header
// pass through anonymously; a malformed or unverifiable token is rejected
// with 401.
func Identity(source auth.IdentitySource, fallback *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := middleware.BearerToken(r)
			if errors.Is(err, middleware.ErrNoCredentials) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				httputil.WriteError(w, r, apperrors.Unauthorized(err.Error()), fallback)
				return
			}

			caller, err := source.Verify(r.Context(), token)
			if err != nil {
				logger.FromContext(r.Context()).DebugContext(r.Context(), "token rejected",
					slog.String("error", err.Error()),
				)
				httputil.WriteError(w, r, apperrors.Unauthorized("invalid or expired token"), fallback)
				return
			}

			ctx := domain.WithCaller(r.Context(), caller)
			ctx = logger.WithCallerID(ctx, caller.ID)
			ctx = logger.NewContext(ctx, logger.FromContext(ctx).With(slog.String("caller_id", caller.ID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireIdentity rejects requests that carry no verified caller.
func RequireIdentity(fallback *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := domain.CallerFromContext(r.Context()); !ok {
				httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), fallback)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut {
			if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "UNSUPPORTED_MEDIA_TYPE",
						Message: "Content-Type must be application/json",
					},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
