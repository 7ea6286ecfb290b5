package service

import (
	"context"
	"log/slog"
	"os"

	"github.com/stretchr/testify/mock"

	"github.com/moviereviews/backend/services/review/internal/domain"
	"github.com/moviereviews/backend/services/review/internal/repository"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// --- Mock Review Repository ---

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Put(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) Get(ctx context.Context, movieID, reviewID int64) (*domain.Review, error) {
	args := m.Called(ctx, movieID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) ListByMovie(ctx context.Context, movieID int64, filter repository.ReviewFilter) ([]domain.Review, error) {
	args := m.Called(ctx, movieID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepository) UpdateContent(ctx context.Context, movieID, reviewID int64, reviewerID, content string) (*domain.Review, error) {
	args := m.Called(ctx, movieID, reviewID, reviewerID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) Delete(ctx context.Context, movieID, reviewID int64) error {
	args := m.Called(ctx, movieID, reviewID)
	return args.Error(0)
}

// --- Mock Sequence Generator ---

type mockSequence struct {
	mock.Mock
}

func (m *mockSequence) Next(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock Translation Repository ---

type mockTranslationRepository struct {
	mock.Mock
}

func (m *mockTranslationRepository) Get(ctx context.Context, reviewID int64, language string) (*domain.Translation, error) {
	args := m.Called(ctx, reviewID, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Translation), args.Error(1)
}

func (m *mockTranslationRepository) Put(ctx context.Context, t *domain.Translation) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

// --- Mock Translation Engine ---

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	args := m.Called(ctx, text, targetLanguage)
	return args.String(0), args.Error(1)
}

// --- Mock Event Publisher ---

type mockEvents struct {
	mock.Mock
}

func (m *mockEvents) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockEvents) PublishReviewUpdated(ctx context.Context, review *domain.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockEvents) PublishReviewDeleted(ctx context.Context, movieID, reviewID int64, deletedBy string) error {
	return m.Called(ctx, movieID, reviewID, deletedBy).Error(0)
}

func (m *mockEvents) PublishReviewTranslated(ctx context.Context, t *domain.Translation) error {
	return m.Called(ctx, t).Error(0)
}

// quietEvents accepts every event.
func quietEvents() *mockEvents {
	e := new(mockEvents)
	e.On("PublishReviewCreated", mock.Anything, mock.Anything).Return(nil).Maybe()
	e.On("PublishReviewUpdated", mock.Anything, mock.Anything).Return(nil).Maybe()
	e.On("PublishReviewDeleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	e.On("PublishReviewTranslated", mock.Anything, mock.Anything).Return(nil).Maybe()
	return e
}
