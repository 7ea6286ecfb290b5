package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	pkgkafka "github.com/moviereviews/backend/pkg/kafka"
	"github.com/moviereviews/backend/services/review/internal/domain"
)

// Event types, also used as the Kafka topic suffix.
const (
	TypeReviewCreated    = "review.created"
	TypeReviewUpdated    = "review.updated"
	TypeReviewDeleted    = "review.deleted"
	TypeReviewTranslated = "review.translated"
)

// Kafka topic constants for review domain events.
var (
	TopicReviewCreated    = pkgkafka.Topic("review", "created")
	TopicReviewUpdated    = pkgkafka.Topic("review", "updated")
	TopicReviewDeleted    = pkgkafka.Topic("review", "deleted")
	TopicReviewTranslated = pkgkafka.Topic("review", "translated")
)

// Aggregate type constant.
const AggregateTypeReview = "review"

// Source identifier for events originating from the review service.
const SourceReviewService = "review-service"

// ReviewData is the payload for review.created and review.updated events.
type ReviewData struct {
	MovieID    int64     `json:"movieId"`
	ReviewID   int64     `json:"reviewId"`
	ReviewerID string    `json:"reviewerId"`
	Content    string    `json:"content"`
	ReviewDate time.Time `json:"reviewDate"`
}

// ReviewDeletedData is the payload for a review.deleted event.
type ReviewDeletedData struct {
	MovieID   int64  `json:"movieId"`
	ReviewID  int64  `json:"reviewId"`
	DeletedBy string `json:"deletedBy,omitempty"`
}

// ReviewTranslatedData is the payload for a review.translated event. The
// translated text itself is not included.
type ReviewTranslatedData struct {
	MovieID  int64  `json:"movieId"`
	ReviewID int64  `json:"reviewId"`
	Language string `json:"language"`
}

// Publisher sends an event envelope to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes review domain events. A Producer built with a nil
// Publisher drops every event, which is how Kafka is disabled.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates a new event producer for the review service.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	return p.publish(ctx, TopicReviewCreated, TypeReviewCreated, review.ReviewID, reviewData(review))
}

// PublishReviewUpdated publishes a review.updated event.
func (p *Producer) PublishReviewUpdated(ctx context.Context, review *domain.Review) error {
	return p.publish(ctx, TopicReviewUpdated, TypeReviewUpdated, review.ReviewID, reviewData(review))
}

// PublishReviewDeleted publishes a review.deleted event.
func (p *Producer) PublishReviewDeleted(ctx context.Context, movieID, reviewID int64, deletedBy string) error {
	data := ReviewDeletedData{MovieID: movieID, ReviewID: reviewID, DeletedBy: deletedBy}
	return p.publish(ctx, TopicReviewDeleted, TypeReviewDeleted, reviewID, data)
}

// PublishReviewTranslated publishes a review.translated event after a fresh
// engine translation was cached.
func (p *Producer) PublishReviewTranslated(ctx context.Context, t *domain.Translation) error {
	data := ReviewTranslatedData{MovieID: t.MovieID, ReviewID: t.ReviewID, Language: t.Language}
	return p.publish(ctx, TopicReviewTranslated, TypeReviewTranslated, t.ReviewID, data)
}

func (p *Producer) publish(ctx context.Context, topic, eventType string, reviewID int64, data any) error {
	if p.publisher == nil {
		return nil
	}

	aggregateID := strconv.FormatInt(reviewID, 10)
	event, err := pkgkafka.NewEvent(ctx, eventType, aggregateID, AggregateTypeReview, SourceReviewService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}

	if err := p.publisher.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	p.logger.DebugContext(ctx, "published "+eventType+" event",
		slog.String("review_id", aggregateID),
		slog.String("event_id", event.EventID),
	)

	return nil
}

func reviewData(r *domain.Review) ReviewData {
	return ReviewData{
		MovieID:    r.MovieID,
		ReviewID:   r.ReviewID,
		ReviewerID: r.ReviewerID,
		Content:    r.Content,
		ReviewDate: r.ReviewDate,
	}
}
