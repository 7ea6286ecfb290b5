package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/moviereviews/backend/pkg/httputil"
	"github.com/moviereviews/backend/pkg/validator"
	"github.com/moviereviews/backend/services/review/internal/domain"
	"github.com/moviereviews/backend/services/review/internal/repository"
	"github.com/moviereviews/backend/services/review/internal/service"
)

const maxBodyBytes = 1 << 20

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateReviewRequest is the JSON request body for creating a review. The
// reviewer is always the authenticated caller.
type CreateReviewRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
	MovieID int64  `json:"movieId,omitempty" validate:"gte=0"`
}

// UpdateReviewRequest is the JSON request body for editing a review.
// Content rules are checked by the service after the ownership check.
type UpdateReviewRequest struct {
	NewContent string `json:"newContent"`
}

// DeleteReviewResponse is returned after a delete.
type DeleteReviewResponse struct {
	Message string `json:"message"`
}

// --- Handlers ---

// ListReviews handles GET /movies/reviews/{movieId}
// Optional query parameters reviewId and reviewerName narrow the result.
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	movieID, ok := httputil.ParseInt64(w, "movieId", chi.URLParam(r, "movieId"))
	if !ok {
		return
	}

	var filter repository.ReviewFilter
	q := r.URL.Query()
	if v := q.Get("reviewId"); v != "" {
		if filter.ReviewID, ok = httputil.ParseInt64(w, "reviewId", v); !ok {
			return
		}
	}
	filter.ReviewerName = q.Get("reviewerName")

	reviews, err := h.service.ListByMovie(r.Context(), movieID, filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, reviews)
}

// CreateReview handles POST /movies/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	caller, _ := domain.CallerFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req CreateReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.service.Create(r.Context(), &service.CreateReviewInput{
		MovieID:    req.MovieID,
		ReviewerID: caller.ID,
		Content:    req.Content,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, review)
}

// UpdateReview handles PUT /movies/{movieId}/reviews/{reviewId}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	movieID, ok := httputil.ParseInt64(w, "movieId", chi.URLParam(r, "movieId"))
	if !ok {
		return
	}
	reviewID, ok := httputil.ParseInt64(w, "reviewId", chi.URLParam(r, "reviewId"))
	if !ok {
		return
	}

	caller, _ := domain.CallerFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req UpdateReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.service.Update(r.Context(), movieID, reviewID, req.NewContent, caller.ID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, review)
}

// DeleteReview handles DELETE /movies/{movieId}/reviews/{reviewId}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	movieID, ok := httputil.ParseInt64(w, "movieId", chi.URLParam(r, "movieId"))
	if !ok {
		return
	}
	reviewID, ok := httputil.ParseInt64(w, "reviewId", chi.URLParam(r, "reviewId"))
	if !ok {
		return
	}

	caller, _ := domain.CallerFromContext(r.Context())

	if err := h.service.Delete(r.Context(), movieID, reviewID, caller.ID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, DeleteReviewResponse{Message: "review deleted"})
}
