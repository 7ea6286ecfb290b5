package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/moviereviews/backend/pkg/errors"
	"github.com/moviereviews/backend/pkg/health"
	"github.com/moviereviews/backend/pkg/httputil"
	"github.com/moviereviews/backend/pkg/middleware"
	"github.com/moviereviews/backend/services/review/internal/auth"
	"github.com/moviereviews/backend/services/review/internal/domain"
	"github.com/moviereviews/backend/services/review/internal/event"
	"github.com/moviereviews/backend/services/review/internal/repository"
	"github.com/moviereviews/backend/services/review/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- In-memory review store ---

type reviewKey struct{ movieID, reviewID int64 }

type memoryReviews struct {
	mu    sync.Mutex
	items map[reviewKey]domain.Review
	// err, when set, is returned by every operation.
	err error
}

func newMemoryReviews() *memoryReviews {
	return &memoryReviews{items: make(map[reviewKey]domain.Review)}
}

func (m *memoryReviews) Put(_ context.Context, r *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.items[reviewKey{r.MovieID, r.ReviewID}] = *r
	return nil
}

func (m *memoryReviews) Get(_ context.Context, movieID, reviewID int64) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.items[reviewKey{movieID, reviewID}]
	if !ok {
		return nil, apperrors.NotFound("review", fmt.Sprint(reviewID))
	}
	return &r, nil
}

func (m *memoryReviews) ListByMovie(_ context.Context, movieID int64, filter repository.ReviewFilter) ([]domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.Review{}
	for k, r := range m.items {
		if k.movieID != movieID {
			continue
		}
		if filter.ReviewID != 0 && r.ReviewID != filter.ReviewID {
			continue
		}
		if filter.ReviewerName != "" && r.ReviewerID != filter.ReviewerName {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReviewID < out[j].ReviewID })
	return out, nil
}

func (m *memoryReviews) UpdateContent(_ context.Context, movieID, reviewID int64, reviewerID, content string) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	k := reviewKey{movieID, reviewID}
	r, ok := m.items[k]
	if !ok {
		return nil, apperrors.NotFound("review", fmt.Sprint(reviewID))
	}
	if r.ReviewerID != reviewerID {
		return nil, apperrors.Forbidden("only the reviewer may edit this review")
	}
	r.Content = content
	m.items[k] = r
	return &r, nil
}

func (m *memoryReviews) Delete(_ context.Context, movieID, reviewID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.items, reviewKey{movieID, reviewID})
	return nil
}

type memorySequence struct {
	mu       sync.Mutex
	counters map[string]int64
}

func (s *memorySequence) Next(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[name]++
	return s.counters[name], nil
}

// --- In-memory translation store ---

type memoryTranslations struct {
	mu    sync.Mutex
	items map[string]domain.Translation
}

func translationKey(reviewID int64, language string) string {
	return fmt.Sprintf("%d/%s", reviewID, language)
}

func (m *memoryTranslations) Get(_ context.Context, reviewID int64, language string) (*domain.Translation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.items[translationKey(reviewID, language)]
	if !ok {
		return nil, apperrors.NotFound("translation", translationKey(reviewID, language))
	}
	return &t, nil
}

func (m *memoryTranslations) Put(_ context.Context, t *domain.Translation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[translationKey(t.ReviewID, t.Language)] = *t
	return nil
}

// countingEngine prefixes the text with the target language.
type countingEngine struct {
	calls atomic.Int32
	err   error
}

func (e *countingEngine) Translate(_ context.Context, text, target string) (string, error) {
	e.calls.Add(1)
	if e.err != nil {
		return "", e.err
	}
	return "[" + target + "] " + text, nil
}

// staticIdentities maps bearer tokens to callers.
type staticIdentities map[string]string

func (s staticIdentities) Verify(_ context.Context, token string) (domain.CallerIdentity, error) {
	id, ok := s[token]
	if !ok {
		return domain.CallerIdentity{}, auth.ErrInvalidToken
	}
	return domain.CallerIdentity{ID: id, Email: id}, nil
}

// --- Test server ---

type testServer struct {
	handler      http.Handler
	reviews      *memoryReviews
	translations *memoryTranslations
	engine       *countingEngine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := testLogger()

	ts := &testServer{
		reviews:      newMemoryReviews(),
		translations: &memoryTranslations{items: make(map[string]domain.Translation)},
		engine:       &countingEngine{},
	}
	seq := &memorySequence{counters: make(map[string]int64)}
	events := event.NewProducer(nil, logger)

	reviewSvc := service.NewReviewService(ts.reviews, seq, events, logger)
	translationSvc := service.NewTranslationService(ts.reviews, ts.translations, ts.engine, events, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ts.handler = NewRouter(ctx, reviewSvc, translationSvc,
		staticIdentities{"token-a": "a@x.com", "token-b": "b@x.com"},
		health.NewHandler(), logger,
		RouterConfig{
			CORS:             middleware.DefaultCORSConfig(),
			TranslationRPS:   1000,
			TranslationBurst: 1000,
		},
	)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decodeBody[httputil.Response](t, rec)
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}
