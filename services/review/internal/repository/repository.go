package repository

import (
	"context"

	"github.com/moviereviews/backend/services/review/internal/domain"
)

// Counter names used with SequenceGenerator.
const (
	CounterReview = "review"
	CounterMovie  = "movie"
)

// ReviewFilter narrows a movie's review listing. Zero values match everything.
type ReviewFilter struct {
	ReviewID     int64
	ReviewerName string
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	// Put writes the review unconditionally.
	Put(ctx context.Context, review *domain.Review) error

	// Get returns the review or an error matching apperrors.ErrNotFound.
	Get(ctx context.Context, movieID, reviewID int64) (*domain.Review, error)

	// ListByMovie returns the movie's reviews in store order.
	ListByMovie(ctx context.Context, movieID int64, filter ReviewFilter) ([]domain.Review, error)

	// UpdateContent replaces the content of an existing review owned by
	// reviewerID and returns the stored record. It fails with
	// apperrors.ErrNotFound or apperrors.ErrForbidden without writing when the
	// review vanished or changed owner since it was read.
	UpdateContent(ctx context.Context, movieID, reviewID int64, reviewerID, content string) (*domain.Review, error)

	// Delete removes the review. Deleting an absent review succeeds.
	Delete(ctx context.Context, movieID, reviewID int64) error
}

// SequenceGenerator hands out strictly increasing identifiers per counter.
type SequenceGenerator interface {
	Next(ctx context.Context, name string) (int64, error)
}

// TranslationRepository persists translations keyed by (reviewID, language).
type TranslationRepository interface {
	// Get returns the cached translation or an error matching
	// apperrors.ErrNotFound.
	Get(ctx context.Context, reviewID int64, language string) (*domain.Translation, error)

	// Put writes the translation unconditionally; the last writer wins.
	Put(ctx context.Context, translation *domain.Translation) error
}
