// Package service holds the review and translation business logic.
package service

import (
	"context"

	"github.com/moviereviews/backend/services/review/internal/domain"
)

// EventPublisher publishes review domain events. Failures are logged by the
// services and never fail the request.
type EventPublisher interface {
	PublishReviewCreated(ctx context.Context, review *domain.Review) error
	PublishReviewUpdated(ctx context.Context, review *domain.Review) error
	PublishReviewDeleted(ctx context.Context, movieID, reviewID int64, deletedBy string) error
	PublishReviewTranslated(ctx context.Context, t *domain.Translation) error
}
