// Package mock provides test doubles for trickle interfaces using function
// fields.
package mock

import (
	"context"

	"github.com/fwojciec/trickle"
	"github.com/fwojciec/trickle/bubbletea"
)

// Interface compliance checks.
var (
	_ trickle.Extractor   = (*Extractor)(nil)
	_ bubbletea.Streamer = (*Streamer)(nil)
)

// Extractor is a test double for trickle.Extractor.
// Set ExtractFn before calling Extract.
type Extractor struct {
	ExtractFn func(frame trickle.Frame) (trickle.Payload, error)
}

// Extract delegates to ExtractFn.
func (e *Extractor) Extract(frame trickle.Frame) (trickle.Payload, error) {
	return e.ExtractFn(frame)
}

// Streamer is a test double for bubbletea.Streamer.
// Set the function fields for the methods you need. A nil AbortFn makes
// Abort a no-op.
type Streamer struct {
	StreamFn func(ctx context.Context, body any) <-chan trickle.Event
	AbortFn  func()
}

// Stream delegates to StreamFn.
func (s *Streamer) Stream(ctx context.Context, body any) <-chan trickle.Event {
	return s.StreamFn(ctx, body)
}

// Abort delegates to AbortFn.
func (s *Streamer) Abort() {
	if s.AbortFn != nil {
		s.AbortFn()
	}
}

// Events returns a closed channel holding evts, as a finished request
// would deliver them.
func Events(evts ...trickle.Event) <-chan trickle.Event {
	ch := make(chan trickle.Event, len(evts))
	for _, e := range evts {
		ch <- e
	}
	close(ch)
	return ch
}
