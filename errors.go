package trickle

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a configuration or request failed validation.
	ErrValidation = errors.New("validation error")

	// ErrMalformedPayload indicates a frame was delivered but did not hold
	// well-formed application data.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrUnknownModel indicates a model name is not in the registry.
	ErrUnknownModel = errors.New("unknown model")
)

// HTTPStatusError is returned when the endpoint answers with a non-2xx status.
type HTTPStatusError struct {
	Code    int
	Message string
}

func (e *HTTPStatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.Code)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Message)
}

// UpstreamError is an error object streamed by the endpoint mid-response.
type UpstreamError struct {
	Type    string
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Type == "" {
		return "upstream: " + e.Message
	}
	return fmt.Sprintf("upstream: %s: %s", e.Type, e.Message)
}
