package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/moviereviews/backend/pkg/health"
	"github.com/moviereviews/backend/pkg/middleware"
	"github.com/moviereviews/backend/services/review/internal/auth"
	"github.com/moviereviews/backend/services/review/internal/service"
)

const serviceName = "review"

// translationMaxAge lets clients reuse a translation without asking again.
const translationMaxAge = 5 * time.Minute

// RouterConfig holds the transport settings of the router.
type RouterConfig struct {
	CORS              middleware.CORSConfig
	RequestTimeout    time.Duration
	TranslationRPS    float64
	TranslationBurst  int
	PprofAllowedCIDRs []string
}

// NewRouter creates a chi router with all review service routes registered.
// ctx bounds background work owned by the router, such as rate-limiter
// cleanup.
func NewRouter(
	ctx context.Context,
	reviewService *service.ReviewService,
	translationService *service.TranslationService,
	identity auth.IdentitySource,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.RequestLogger(logger))
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	reviewHandler := NewReviewHandler(reviewService, logger)
	translationHandler := NewTranslationHandler(translationService, logger)

	r.Group(func(r chi.Router) {
		r.Use(Identity(identity, logger))

		r.Get("/movies/reviews/{movieId}", reviewHandler.ListReviews)

		// Mutations require a verified caller.
		r.Group(func(r chi.Router) {
			r.Use(RequireIdentity(logger))
			r.Use(ContentTypeJSON)

			r.Post("/movies/reviews", reviewHandler.CreateReview)
			r.Put("/movies/{movieId}/reviews/{reviewId}", reviewHandler.UpdateReview)
			r.Delete("/movies/{movieId}/reviews/{reviewId}", reviewHandler.DeleteReview)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(ctx, cfg.TranslationRPS, cfg.TranslationBurst, logger))
		r.Use(middleware.CacheControl(translationMaxAge))

		r.Get("/reviews/{reviewId}/{movieId}/translation", translationHandler.GetTranslation)
	})

	return r
}
