// Package http implements the stream controller: it sends one request
// described by a [trickle.RequestDescriptor], decodes the streamed response
// body into frames, and reports them as [trickle.Event] values while
// tracking idle, loading and error state.
package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/trickle"
)

// maxErrorBody bounds how much of a non-2xx body is read for its message.
const maxErrorBody = 64 << 10

// apiErrorResponse is the common shape of an error body:
// {"error":{"type":"...","message":"..."}}.
type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &trickle.HTTPStatusError{Code: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", err)}
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return &trickle.HTTPStatusError{Code: resp.StatusCode, Message: apiErr.Error.Message}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &trickle.HTTPStatusError{Code: resp.StatusCode, Message: msg}
}
