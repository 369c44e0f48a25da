// Package sse decodes a streamed response body into frames.
//
// A body is a sequence of newline-delimited lines. Lines prefixed with
// "data: " are event frames; any other non-blank line is passed through as a
// plain frame. Network chunk boundaries are invisible to callers: a line or a
// multi-byte character split across reads is reassembled before it is
// emitted.
package sse

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/fwojciec/trickle"
	"golang.org/x/text/encoding/unicode"
)

// DefaultMaxFrameSize bounds a single line of the body.
const DefaultMaxFrameSize = 1 << 20

// Option configures a Decoder.
type Option func(*Decoder)

// WithMaxFrameSize sets the largest line the decoder accepts. Longer lines
// fail with bufio.ErrTooLong.
func WithMaxFrameSize(n int) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.maxFrameSize = n
		}
	}
}

// Decoder is a pull iterator over the frames of one body. It is not
// resumable: after io.EOF or an error, decoding restarts only with a new
// Decoder over a fresh stream.
type Decoder struct {
	scanner      *bufio.Scanner
	maxFrameSize int
	err          error
}

// NewDecoder returns a Decoder reading from r. Bytes are decoded as UTF-8
// with incomplete trailing sequences carried into the next read; invalid
// bytes are replaced with U+FFFD.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	d := &Decoder{maxFrameSize: DefaultMaxFrameSize}
	for _, o := range opts {
		o(d)
	}
	d.scanner = bufio.NewScanner(unicode.UTF8.NewDecoder().Reader(r))
	d.scanner.Buffer(make([]byte, 0, min(64*1024, d.maxFrameSize)), d.maxFrameSize)
	d.scanner.Split(bufio.ScanLines)
	return d
}

// Next returns the next non-blank frame. It returns io.EOF after the last
// frame; a final line without a terminator is still emitted.
func (d *Decoder) Next() (trickle.Frame, error) {
	if d.err != nil {
		return trickle.Frame{}, d.err
	}
	for d.scanner.Scan() {
		line := d.scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		return Classify(line), nil
	}
	if err := d.scanner.Err(); err != nil {
		d.err = fmt.Errorf("sse: read: %w", err)
	} else {
		d.err = io.EOF
	}
	return trickle.Frame{}, d.err
}

// Frames returns the remaining frames as a range-over-func sequence. A read
// error is yielded once as the final element; io.EOF is not yielded.
func (d *Decoder) Frames() iter.Seq2[trickle.Frame, error] {
	return func(yield func(trickle.Frame, error) bool) {
		for {
			f, err := d.Next()
			if err == io.EOF {
				return
			}
			if !yield(f, err) || err != nil {
				return
			}
		}
	}
}

// Classify turns one line into a frame. A line starting with the event
// prefix has it removed; anything else passes through unchanged.
func Classify(line string) trickle.Frame {
	if rest, ok := strings.CutPrefix(line, trickle.EventPrefix); ok {
		return trickle.Frame{Text: rest, Kind: trickle.FrameEvent}
	}
	return trickle.Frame{Text: line, Kind: trickle.FramePlain}
}
