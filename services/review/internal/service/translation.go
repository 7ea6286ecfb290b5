package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/moviereviews/backend/pkg/errors"
	"github.com/moviereviews/backend/services/review/internal/domain"
	"github.com/moviereviews/backend/services/review/internal/repository"
	"github.com/moviereviews/backend/services/review/internal/translate"
)

const engineDependency = "translation engine"

var translationLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "translation_cache_lookups_total",
		Help: "Translation cache lookups by result (hit, miss)",
	},
	[]string{"result"},
)

// TranslationService serves review translations cache-aside: a stored
// translation is returned as is, otherwise the engine is called once and the
// result stored for every later request.
type TranslationService struct {
	reviews repository.ReviewRepository
	cache   repository.TranslationRepository
	engine  translate.Engine
	events  EventPublisher
	logger  *slog.Logger
	now     func() time.Time
}

// NewTranslationService creates a new translation service.
func NewTranslationService(
	reviews repository.ReviewRepository,
	cache repository.TranslationRepository,
	engine translate.Engine,
	events EventPublisher,
	logger *slog.Logger,
) *TranslationService {
	return &TranslationService{
		reviews: reviews,
		cache:   cache,
		engine:  engine,
		events:  events,
		logger:  logger,
		now:     time.Now,
	}
}

// GetOrTranslate returns the review translated into language. The language
// is validated before any lookup. An engine failure caches nothing.
func (s *TranslationService) GetOrTranslate(ctx context.Context, reviewID, movieID int64, language string) (*domain.Translation, error) {
	lang, err := translate.NormalizeLanguage(language)
	if err != nil {
		return nil, err
	}

	cached, err := s.cache.Get(ctx, reviewID, lang)
	switch {
	case err == nil:
		translationLookups.WithLabelValues("hit").Inc()
		return cached, nil
	case !errors.Is(err, apperrors.ErrNotFound):
		s.logger.WarnContext(ctx, "translation cache lookup failed, translating anyway",
			slog.Int64("review_id", reviewID),
			slog.String("language", lang),
			slog.String("error", err.Error()),
		)
	}
	translationLookups.WithLabelValues("miss").Inc()

	review, err := s.reviews.Get(ctx, movieID, reviewID)
	if err != nil {
		return nil, fmt.Errorf("get source review: %w", err)
	}

	text, err := s.engine.Translate(ctx, review.Content, lang)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Upstream(engineDependency, err)
	}

	t := &domain.Translation{
		ReviewID:          reviewID,
		Language:          lang,
		MovieID:           movieID,
		TranslatedContent: text,
		CreatedAt:         s.now().UTC(),
	}

	if err := s.cache.Put(ctx, t); err != nil {
		s.logger.ErrorContext(ctx, "failed to cache translation",
			slog.Int64("review_id", reviewID),
			slog.String("language", lang),
			slog.String("error", err.Error()),
		)
		return t, nil
	}

	if err := s.events.PublishReviewTranslated(ctx, t); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.translated event",
			slog.Int64("review_id", reviewID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review translated",
		slog.Int64("review_id", reviewID),
		slog.String("language", lang),
	)

	return t, nil
}
