package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/moviereviews/backend/pkg/errors"
	"github.com/moviereviews/backend/pkg/httpclient"
)

const httpDependency = "translation engine"

// translateRequest follows the LibreTranslate /translate contract.
type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// HTTPEngine calls a LibreTranslate-compatible HTTP endpoint through a
// circuit breaker.
type HTTPEngine struct {
	client   *httpclient.CircuitBreakerClient
	endpoint string
}

// NewHTTPEngine creates an engine posting to endpoint.
func NewHTTPEngine(client *httpclient.CircuitBreakerClient, endpoint string) *HTTPEngine {
	return &HTTPEngine{client: client, endpoint: endpoint}
}

// Translate posts text to the engine with the source language left to
// auto-detection and returns the translated text.
func (e *HTTPEngine) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	body, err := json.Marshal(translateRequest{
		Q:      text,
		Source: SourceAuto,
		Target: targetLanguage,
		Format: "text",
	})
	if err != nil {
		return "", fmt.Errorf("marshal translate request: %w", err)
	}

	resp, err := e.client.Post(ctx, e.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", apperrors.Upstream(httpDependency, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", httpclient.ParseResponseError(resp, httpDependency)
	}
	defer func() { _ = resp.Body.Close() }()

	var out translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperrors.Upstream(httpDependency, fmt.Errorf("decode response: %w", err))
	}
	if out.TranslatedText == "" {
		return "", apperrors.Upstream(httpDependency, errors.New("empty translation"))
	}
	return out.TranslatedText, nil
}
