package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/moviereviews/backend/pkg/errors"
	"github.com/moviereviews/backend/services/review/internal/domain"
	"github.com/moviereviews/backend/services/review/internal/repository"
)

var contentLengthMessage = fmt.Sprintf("content must be between 1 and %d characters", domain.MaxContentLength)

// CreateReviewInput holds the parameters for creating a review.
type CreateReviewInput struct {
	// MovieID is optional; zero allocates one from the movie counter.
	MovieID    int64
	ReviewerID string
	Content    string
}

// ReviewService implements the business logic for review operations.
type ReviewService struct {
	repo   repository.ReviewRepository
	seq    repository.SequenceGenerator
	events EventPublisher
	logger *slog.Logger
	now    func() time.Time
}

// NewReviewService creates a new review service.
func NewReviewService(repo repository.ReviewRepository, seq repository.SequenceGenerator, events EventPublisher, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		repo:   repo,
		seq:    seq,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// ListByMovie returns the movie's reviews, narrowed by filter. A movie
// without reviews yields an empty slice.
func (s *ReviewService) ListByMovie(ctx context.Context, movieID int64, filter repository.ReviewFilter) ([]domain.Review, error) {
	reviews, err := s.repo.ListByMovie(ctx, movieID, filter)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// Get retrieves a single review.
func (s *ReviewService) Get(ctx context.Context, movieID, reviewID int64) (*domain.Review, error) {
	review, err := s.repo.Get(ctx, movieID, reviewID)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

// Create validates the input, allocates identifiers and stores the review.
func (s *ReviewService) Create(ctx context.Context, input *CreateReviewInput) (*domain.Review, error) {
	if input.ReviewerID == "" {
		return nil, apperrors.InvalidInput("reviewer id is required")
	}
	if !domain.ValidContent(input.Content) {
		return nil, apperrors.InvalidInput(contentLengthMessage)
	}
	if input.MovieID < 0 {
		return nil, apperrors.InvalidInput("movieId must be a positive integer")
	}

	reviewID, err := s.seq.Next(ctx, repository.CounterReview)
	if err != nil {
		return nil, fmt.Errorf("allocate review id: %w", err)
	}

	movieID := input.MovieID
	if movieID == 0 {
		movieID, err = s.seq.Next(ctx, repository.CounterMovie)
		if err != nil {
			return nil, fmt.Errorf("allocate movie id: %w", err)
		}
		s.logger.WarnContext(ctx, "movieId not supplied, allocated from movie counter",
			slog.Int64("movie_id", movieID),
			slog.Int64("review_id", reviewID),
		)
	}

	review := &domain.Review{
		MovieID:    movieID,
		ReviewID:   reviewID,
		ReviewerID: input.ReviewerID,
		Content:    input.Content,
		ReviewDate: s.now().UTC(),
	}

	if err := s.repo.Put(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.events.PublishReviewCreated(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.Int64("review_id", review.ReviewID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review created",
		slog.Int64("movie_id", review.MovieID),
		slog.Int64("review_id", review.ReviewID),
	)

	return review, nil
}

// Update replaces the content of a review owned by callerID. Only the
// content changes; the reviewer and date are preserved.
func (s *ReviewService) Update(ctx context.Context, movieID, reviewID int64, newContent, callerID string) (*domain.Review, error) {
	if callerID == "" {
		return nil, apperrors.Unauthorized("caller identity is required")
	}

	existing, err := s.repo.Get(ctx, movieID, reviewID)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	if !existing.OwnedBy(callerID) {
		s.logger.WarnContext(ctx, "review update rejected, caller is not the reviewer",
			slog.Int64("movie_id", movieID),
			slog.Int64("review_id", reviewID),
		)
		return nil, apperrors.Forbidden("only the reviewer may edit this review")
	}
	if !domain.ValidContent(newContent) {
		return nil, apperrors.InvalidInput(contentLengthMessage)
	}

	updated, err := s.repo.UpdateContent(ctx, movieID, reviewID, callerID, newContent)
	if err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	if err := s.events.PublishReviewUpdated(ctx, updated); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.updated event",
			slog.Int64("review_id", updated.ReviewID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review updated",
		slog.Int64("movie_id", movieID),
		slog.Int64("review_id", reviewID),
	)

	return updated, nil
}

// Delete removes a review. Deleting a review that does not exist succeeds.
// callerID is only recorded on the emitted event.
func (s *ReviewService) Delete(ctx context.Context, movieID, reviewID int64, callerID string) error {
	if err := s.repo.Delete(ctx, movieID, reviewID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if err := s.events.PublishReviewDeleted(ctx, movieID, reviewID, callerID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.deleted event",
			slog.Int64("review_id", reviewID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.Int64("movie_id", movieID),
		slog.Int64("review_id", reviewID),
	)

	return nil
}
