package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/moviereviews/backend/pkg/httputil"
	"github.com/moviereviews/backend/services/review/internal/service"
)

// TranslationHandler serves review translations.
type TranslationHandler struct {
	service *service.TranslationService
	logger  *slog.Logger
}

// NewTranslationHandler creates a new translation HTTP handler.
func NewTranslationHandler(svc *service.TranslationService, logger *slog.Logger) *TranslationHandler {
	return &TranslationHandler{
		service: svc,
		logger:  logger,
	}
}

// GetTranslation handles GET /reviews/{reviewId}/{movieId}/translation?language=code
func (h *TranslationHandler) GetTranslation(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := httputil.ParseInt64(w, "reviewId", chi.URLParam(r, "reviewId"))
	if !ok {
		return
	}
	movieID, ok := httputil.ParseInt64(w, "movieId", chi.URLParam(r, "movieId"))
	if !ok {
		return
	}

	t, err := h.service.GetOrTranslate(r.Context(), reviewID, movieID, r.URL.Query().Get("language"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, t)
}
