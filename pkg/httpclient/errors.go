package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/moviereviews/backend/pkg/errors"
)

// remoteError covers the two error body shapes seen from JSON APIs:
// {"error":{"code","message"}} and {"message": "..."}.
type remoteError struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// ParseResponseError consumes and closes the body of a non-2xx response and
// maps it to an AppError. 400 and 422 become InvalidInput because the request
// content was rejected; every other status is an upstream failure whose detail
// stays out of the client-facing message.
func ParseResponseError(resp *http.Response, dependency string) error {
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperrors.Upstream(dependency, fmt.Errorf("status %d (read body: %w)", resp.StatusCode, err))
	}

	message := strings.TrimSpace(string(raw))
	var body remoteError
	if json.Unmarshal(raw, &body) == nil {
		switch {
		case body.Error != nil && body.Error.Message != "":
			message = body.Error.Message
		case body.Message != "":
			message = body.Message
		}
	}

	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.InvalidInput(fmt.Sprintf("%s rejected the request: %s", dependency, message))
	default:
		return apperrors.Upstream(dependency, fmt.Errorf("status %d: %s", resp.StatusCode, message))
	}
}
