package sse_test

import (
	"bufio"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/fwojciec/trickle"
	"github.com/fwojciec/trickle/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkReader returns its chunks one Read at a time.
type chunkReader struct {
	chunks [][]byte
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	r.chunks[0] = r.chunks[0][n:]
	if len(r.chunks[0]) == 0 {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

func collect(t *testing.T, d *sse.Decoder) []trickle.Frame {
	t.Helper()
	var frames []trickle.Frame
	for {
		f, err := d.Next()
		if err == io.EOF {
			return frames
		}
		require.NoError(t, err)
		frames = append(frames, f)
	}
}

func event(text string) trickle.Frame { return trickle.Frame{Text: text, Kind: trickle.FrameEvent} }
func plain(text string) trickle.Frame { return trickle.Frame{Text: text, Kind: trickle.FramePlain} }

const sampleBody = "data: {\"choices\":[{\"delta\":{\"content\":\"héllo 世界\"}}]}\n" +
	"\n" +
	": keep-alive\r\n" +
	"data: 🙂 wave\n" +
	"   \n" +
	"plain line\n" +
	"data: [DONE]\n"

func TestDecoder_Classification(t *testing.T) {
	t.Parallel()

	frames := collect(t, sse.NewDecoder(strings.NewReader(sampleBody)))
	assert.Equal(t, []trickle.Frame{
		event(`{"choices":[{"delta":{"content":"héllo 世界"}}]}`),
		plain(": keep-alive"),
		event("🙂 wave"),
		plain("plain line"),
		event("[DONE]"),
	}, frames)
}

func TestDecoder_ChunkBoundaryInvariance(t *testing.T) {
	t.Parallel()

	want := collect(t, sse.NewDecoder(strings.NewReader(sampleBody)))

	t.Run("one byte at a time", func(t *testing.T) {
		t.Parallel()
		got := collect(t, sse.NewDecoder(iotest.OneByteReader(strings.NewReader(sampleBody))))
		assert.Equal(t, want, got)
	})

	t.Run("every two-way split", func(t *testing.T) {
		t.Parallel()
		b := []byte(sampleBody)
		for i := 1; i < len(b); i++ {
			r := &chunkReader{chunks: [][]byte{append([]byte(nil), b[:i]...), append([]byte(nil), b[i:]...)}}
			got := collect(t, sse.NewDecoder(r))
			require.Equal(t, want, got, "split at byte %d", i)
		}
	})

	t.Run("half reader", func(t *testing.T) {
		t.Parallel()
		got := collect(t, sse.NewDecoder(iotest.HalfReader(strings.NewReader(sampleBody))))
		assert.Equal(t, want, got)
	})
}

func TestDecoder_MultiByteAcrossChunks(t *testing.T) {
	t.Parallel()

	// "é" is 0xC3 0xA9; "🙂" is four bytes. Split inside both.
	r := &chunkReader{chunks: [][]byte{
		[]byte("data: caf\xc3"),
		[]byte("\xa9 \xf0\x9f"),
		[]byte("\x99\x82\n"),
	}}
	frames := collect(t, sse.NewDecoder(r))
	require.Len(t, frames, 1)
	assert.Equal(t, "café 🙂", frames[0].Text)
	assert.NotContains(t, frames[0].Text, "�")
}

func TestDecoder_InvalidBytesReplaced(t *testing.T) {
	t.Parallel()

	frames := collect(t, sse.NewDecoder(strings.NewReader("data: a\xffb\n")))
	require.Len(t, frames, 1)
	assert.Equal(t, "a�b", frames[0].Text)
}

func TestDecoder_TrailingLineFlushedAtEOF(t *testing.T) {
	t.Parallel()

	frames := collect(t, sse.NewDecoder(strings.NewReader("data: Hel\ndata: lo")))
	assert.Equal(t, []trickle.Frame{event("Hel"), event("lo")}, frames)
}

func TestDecoder_CRLF(t *testing.T) {
	t.Parallel()

	frames := collect(t, sse.NewDecoder(strings.NewReader("data: one\r\n\r\ndata: two\r\n")))
	assert.Equal(t, []trickle.Frame{event("one"), event("two")}, frames)
}

func TestDecoder_EmptyBody(t *testing.T) {
	t.Parallel()

	d := sse.NewDecoder(strings.NewReader("\n \n\t\n"))
	_, err := d.Next()
	assert.Equal(t, io.EOF, err)
	_, err = d.Next()
	assert.Equal(t, io.EOF, err)
}

func TestDecoder_MaxFrameSize(t *testing.T) {
	t.Parallel()

	body := "data: ok\ndata: " + strings.Repeat("x", 64) + "\n"
	d := sse.NewDecoder(strings.NewReader(body), sse.WithMaxFrameSize(32))

	f, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, event("ok"), f)

	_, err = d.Next()
	assert.ErrorIs(t, err, bufio.ErrTooLong)
}

func TestDecoder_ReadErrorIsSticky(t *testing.T) {
	t.Parallel()

	r := io.MultiReader(strings.NewReader("data: Hi\n"), iotest.ErrReader(io.ErrUnexpectedEOF))
	d := sse.NewDecoder(r)

	f, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, event("Hi"), f)

	_, err = d.Next()
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	_, err = d.Next()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDecoder_Frames(t *testing.T) {
	t.Parallel()

	var got []string
	for f, err := range sse.NewDecoder(strings.NewReader("data: a\nb\n")).Frames() {
		require.NoError(t, err)
		got = append(got, f.Text)
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, event("x"), sse.Classify("data: x"))
	assert.Equal(t, event(""), sse.Classify("data: "))
	assert.Equal(t, plain("data:x"), sse.Classify("data:x"))
	assert.Equal(t, plain("event: ping"), sse.Classify("event: ping"))
}
