package trickle

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// RequestDescriptor describes one outgoing HTTP request. A descriptor used as
// a template is never mutated; WithBody returns an independent copy.
type RequestDescriptor struct {
	URL    string
	Method string
	Header http.Header
	Body   []byte
}

// WithBody returns a copy of d carrying v serialized as JSON. A nil v yields
// an empty body. A []byte or json.RawMessage is used verbatim.
func (d RequestDescriptor) WithBody(v any) (RequestDescriptor, error) {
	out := RequestDescriptor{
		URL:    d.URL,
		Method: d.Method,
		Header: d.Header.Clone(),
	}
	if out.Header == nil {
		out.Header = make(http.Header)
	}
	switch b := v.(type) {
	case nil:
		return out, nil
	case []byte:
		out.Body = append([]byte(nil), b...)
	case json.RawMessage:
		out.Body = append([]byte(nil), b...)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return RequestDescriptor{}, fmt.Errorf("encode body: %w", err)
		}
		out.Body = data
	}
	return out, nil
}

// Validate checks that the descriptor can be sent.
func (d RequestDescriptor) Validate() error {
	if d.URL == "" {
		return fmt.Errorf("request URL is required: %w", ErrValidation)
	}
	switch d.Method {
	case "", http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return fmt.Errorf("unsupported method %q: %w", d.Method, ErrValidation)
	}
	return nil
}
