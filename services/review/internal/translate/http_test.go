package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/moviereviews/backend/pkg/errors"
	"github.com/moviereviews/backend/pkg/httpclient"
	"github.com/moviereviews/backend/pkg/logger"
)

func newTestHTTPEngine(t *testing.T, handler http.HandlerFunc) *HTTPEngine {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	cfg.Timeout = 2 * time.Second
	cb := httpclient.NewCircuitBreakerClient(
		httpclient.New(cfg),
		httpclient.DefaultCircuitBreakerConfig("translate-test-"+t.Name()),
		logger.Discard(),
	)
	return NewHTTPEngine(cb, srv.URL+"/translate")
}

func TestHTTPEngine_Translate(t *testing.T) {
	var got translateRequest
	engine := newTestHTTPEngine(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/translate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(translateResponse{TranslatedText: "Hallo Welt"})
	})

	out, err := engine.Translate(context.Background(), "Hello world", "de")
	require.NoError(t, err)
	assert.Equal(t, "Hallo Welt", out)
	assert.Equal(t, translateRequest{Q: "Hello world", Source: "auto", Target: "de", Format: "text"}, got)
}

func TestHTTPEngine_RejectedLanguage(t *testing.T) {
	engine := newTestHTTPEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"xx is not supported"}`))
	})

	_, err := engine.Translate(context.Background(), "Hello", "xx")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Contains(t, err.Error(), "xx is not supported")
}

func TestHTTPEngine_ServerError(t *testing.T) {
	engine := newTestHTTPEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := engine.Translate(context.Background(), "Hello", "de")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUpstream))
}

func TestHTTPEngine_EmptyTranslation(t *testing.T) {
	engine := newTestHTTPEngine(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := engine.Translate(context.Background(), "Hello", "de")
	assert.True(t, errors.Is(err, apperrors.ErrUpstream))
}

func TestHTTPEngine_MalformedBody(t *testing.T) {
	engine := newTestHTTPEngine(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := engine.Translate(context.Background(), "Hello", "de")
	assert.True(t, errors.Is(err, apperrors.ErrUpstream))
}
