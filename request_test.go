package trickle_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/fwojciec/trickle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestDescriptor_WithBody(t *testing.T) {
	t.Parallel()

	t.Run("encodes value as JSON", func(t *testing.T) {
		t.Parallel()
		d := trickle.RequestDescriptor{URL: "http://x", Method: http.MethodPost}
		out, err := d.WithBody(map[string]any{"stream": true})
		require.NoError(t, err)
		assert.JSONEq(t, `{"stream":true}`, string(out.Body))
		assert.NotNil(t, out.Header)
	})

	t.Run("raw bytes are used verbatim", func(t *testing.T) {
		t.Parallel()
		d := trickle.RequestDescriptor{URL: "http://x"}
		out, err := d.WithBody([]byte("hello"))
		require.NoError(t, err)
		assert.Equal(t, "hello", string(out.Body))

		out, err = d.WithBody(json.RawMessage(`{"a":1}`))
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, string(out.Body))
	})

	t.Run("nil body stays empty", func(t *testing.T) {
		t.Parallel()
		out, err := trickle.RequestDescriptor{URL: "http://x"}.WithBody(nil)
		require.NoError(t, err)
		assert.Empty(t, out.Body)
	})

	t.Run("template header is not shared", func(t *testing.T) {
		t.Parallel()
		d := trickle.RequestDescriptor{URL: "http://x", Header: http.Header{"Accept": {"text/event-stream"}}}
		out, err := d.WithBody(nil)
		require.NoError(t, err)
		out.Header.Set("Accept", "changed")
		assert.Equal(t, "text/event-stream", d.Header.Get("Accept"))
	})

	t.Run("unencodable value", func(t *testing.T) {
		t.Parallel()
		_, err := trickle.RequestDescriptor{URL: "http://x"}.WithBody(make(chan int))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "encode body")
	})
}

func TestRequestDescriptor_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, trickle.RequestDescriptor{URL: "http://x"}.Validate())
	assert.NoError(t, trickle.RequestDescriptor{URL: "http://x", Method: http.MethodPost}.Validate())
	assert.ErrorIs(t, trickle.RequestDescriptor{}.Validate(), trickle.ErrValidation)
	assert.ErrorIs(t, trickle.RequestDescriptor{URL: "http://x", Method: http.MethodDelete}.Validate(), trickle.ErrValidation)
}

func TestHTTPStatusError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "HTTP 429: slow down", (&trickle.HTTPStatusError{Code: 429, Message: "slow down"}).Error())
	assert.Equal(t, "HTTP 502", (&trickle.HTTPStatusError{Code: 502}).Error())
	assert.Equal(t, "upstream: overloaded: busy", (&trickle.UpstreamError{Type: "overloaded", Message: "busy"}).Error())
	assert.Equal(t, "upstream: busy", (&trickle.UpstreamError{Message: "busy"}).Error())
}
