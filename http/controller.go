package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/fwojciec/trickle"
	"github.com/fwojciec/trickle/sse"
	"github.com/google/uuid"
)

// streamBuffer is the capacity of the channel returned by Stream.
const streamBuffer = 64

// Controller runs streaming requests one at a time. Starting a request while
// another is in flight aborts the earlier one. All methods are safe for
// concurrent use.
type Controller struct {
	desc         trickle.RequestDescriptor
	client       *http.Client
	extractor    trickle.Extractor
	validation   trickle.ValidationMode
	onData       func(string)
	onEvent      func(trickle.Event)
	logger       *slog.Logger
	maxFrameSize int

	mu     sync.Mutex
	state  trickle.StreamState
	last   trickle.Payload
	cancel context.CancelFunc // non-nil while a request owns the stream
	seq    uint64
	owner  uint64 // request whose events reach the shared handlers, 0 when none
}

// Option configures a [Controller].
type Option func(*Controller)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Controller) { c.client = hc }
}

// WithExtractor sets the payload extractor. The default treats every frame
// as text and the bare end marker as the end of the turn.
func WithExtractor(e trickle.Extractor) Option {
	return func(c *Controller) { c.extractor = e }
}

// WithValidation sets how malformed payload is handled.
func WithValidation(m trickle.ValidationMode) Option {
	return func(c *Controller) { c.validation = m }
}

// WithDataHandler registers a callback invoked with the text of every
// decoded frame, in order, before the frame is interpreted. Only the most
// recently started request reaches it, and only until it is aborted.
func WithDataHandler(fn func(text string)) Option {
	return func(c *Controller) { c.onData = fn }
}

// WithEventHandler registers a callback invoked with every event. A request
// that was aborted or superseded stops reaching the handler; its terminal
// event is still delivered on the channel returned by Stream.
func WithEventHandler(fn func(trickle.Event)) Option {
	return func(c *Controller) { c.onEvent = fn }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithMaxFrameSize bounds a single line of the response body.
func WithMaxFrameSize(n int) Option {
	return func(c *Controller) { c.maxFrameSize = n }
}

// New creates a [Controller] sending requests described by desc. The
// descriptor is a template: each request gets its own copy with the body
// attached.
func New(desc trickle.RequestDescriptor, opts ...Option) *Controller {
	c := &Controller{
		desc:         desc,
		client:       http.DefaultClient,
		extractor:    trickle.PassThroughExtractor,
		validation:   trickle.ValidationLenient,
		maxFrameSize: sse.DefaultMaxFrameSize,
	}
	for _, o := range opts {
		o(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// request is the per-request ownership token.
type request struct {
	ctx    context.Context
	cancel context.CancelFunc
	seq    uint64
	log    *slog.Logger
}

// Execute sends the request with body encoded as JSON and blocks until it
// settles. It returns nil when the stream completes or is aborted, and the
// fatal error otherwise.
func (c *Controller) Execute(ctx context.Context, body any) error {
	r := c.begin(ctx)
	return c.run(r, body, c.emitter(r, nil))
}

// Stream is like Execute but runs the request in a goroutine. Events are
// delivered on the returned channel, which is closed after the terminal
// EventDone or EventError. The controller is already loading when Stream
// returns. The caller must drain the channel.
func (c *Controller) Stream(ctx context.Context, body any) <-chan trickle.Event {
	r := c.begin(ctx)
	ch := make(chan trickle.Event, streamBuffer)
	go func() {
		defer close(ch)
		_ = c.run(r, body, c.emitter(r, ch))
	}()
	return ch
}

// Abort cancels the in-flight request and sets the state to idle. It is a
// no-op when nothing is in flight.
func (c *Controller) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel == nil {
		return
	}
	c.cancel()
	c.cancel = nil
	c.owner = 0
	c.state = trickle.StreamState{Status: trickle.StatusIdle}
}

// Reset clears the state to idle and forgets the last payload. It does not
// cancel an in-flight request.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = trickle.StreamState{Status: trickle.StatusIdle}
	c.last = trickle.Payload{}
}

// State returns a snapshot of the controller state.
func (c *Controller) State() trickle.StreamState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastPayload returns the most recent payload of the current request.
func (c *Controller) LastPayload() trickle.Payload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *Controller) begin(ctx context.Context) *request {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	rctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.seq++
	c.owner = c.seq
	c.state = trickle.StreamState{Status: trickle.StatusLoading}
	c.last = trickle.Payload{}
	return &request{
		ctx:    rctx,
		cancel: cancel,
		seq:    c.seq,
		log:    c.logger.With("request_id", uuid.NewString()),
	}
}

// owns reports whether r still owns the cancellation handle.
func (c *Controller) owns(r *request) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return r.seq == c.seq && c.cancel != nil && r.ctx.Err() == nil
}

// settle moves a still-owning request to its terminal state and releases the
// handle. It reports false if the request was aborted or superseded.
func (c *Controller) settle(r *request, status trickle.Status, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r.seq != c.seq || c.cancel == nil {
		return false
	}
	c.cancel()
	c.cancel = nil
	c.state = trickle.StreamState{Status: status, Err: err}
	return true
}

// attached reports whether r may still call the shared handlers.
func (c *Controller) attached(r *request) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return r.seq == c.owner
}

func (c *Controller) setLast(r *request, p trickle.Payload) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r.seq != c.seq || c.cancel == nil {
		return false
	}
	c.last = p
	return true
}

func (c *Controller) emitter(r *request, ch chan<- trickle.Event) func(trickle.Event) {
	return func(e trickle.Event) {
		if c.onEvent != nil && c.attached(r) {
			c.onEvent(e)
		}
		if ch != nil {
			ch <- e
		}
	}
}

func (c *Controller) run(r *request, body any, emit func(trickle.Event)) error {
	defer r.cancel()

	desc, err := c.desc.WithBody(body)
	if err == nil {
		err = desc.Validate()
	}
	if err != nil {
		return c.fail(r, emit, fmt.Errorf("http: %w", err))
	}
	method := desc.Method
	if method == "" {
		method = http.MethodPost
	}
	req, err := http.NewRequestWithContext(r.ctx, method, desc.URL, bytes.NewReader(desc.Body))
	if err != nil {
		return c.fail(r, emit, fmt.Errorf("http: %w", err))
	}
	req.Header = desc.Header

	r.log.Debug("stream started", "method", method, "url", desc.URL)
	resp, err := c.client.Do(req)
	if err != nil {
		if r.ctx.Err() != nil {
			return c.aborted(r, emit, 0)
		}
		return c.fail(r, emit, fmt.Errorf("http: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(r, emit, fmt.Errorf("http: %w", parseHTTPError(resp)))
	}

	dec := sse.NewDecoder(resp.Body, sse.WithMaxFrameSize(c.maxFrameSize))
	frames := 0
	for {
		if !c.owns(r) {
			return c.aborted(r, emit, frames)
		}
		frame, err := dec.Next()
		if err == io.EOF {
			return c.complete(r, emit, trickle.StopComplete, frames)
		}
		if err != nil {
			if r.ctx.Err() != nil {
				return c.aborted(r, emit, frames)
			}
			return c.fail(r, emit, fmt.Errorf("http: %w", err))
		}
		if !c.owns(r) {
			return c.aborted(r, emit, frames)
		}
		frames++

		if c.onData != nil && c.attached(r) {
			c.onData(frame.Text)
		}
		emit(trickle.EventFrame{Frame: frame})

		p, err := c.extractor.Extract(frame)
		if err != nil {
			if errors.Is(err, trickle.ErrMalformedPayload) && c.validation != trickle.ValidationStrict {
				r.log.Warn("malformed payload", "frame", frame.Text, "error", err)
				continue
			}
			return c.fail(r, emit, err)
		}
		if !c.setLast(r, p) {
			return c.aborted(r, emit, frames)
		}
		if p.Text != "" {
			emit(trickle.EventPayload{Text: p.Text})
		}
		if p.Done {
			return c.complete(r, emit, trickle.StopEndMarker, frames)
		}
	}
}

func (c *Controller) complete(r *request, emit func(trickle.Event), reason trickle.StopReason, frames int) error {
	if !c.settle(r, trickle.StatusIdle, nil) {
		return c.aborted(r, emit, frames)
	}
	r.log.Debug("stream completed", "reason", reason, "frames", frames)
	emit(trickle.EventDone{Reason: reason})
	return nil
}

func (c *Controller) fail(r *request, emit func(trickle.Event), err error) error {
	if !c.settle(r, trickle.StatusError, err) {
		return c.aborted(r, emit, 0)
	}
	r.log.Error("stream failed", "error", err)
	emit(trickle.EventError{Err: err})
	return err
}

// aborted reports a cancelled request. A request cancelled through its
// parent context still owns the handle and settles to idle; one that was
// aborted or superseded leaves the state to its new owner.
func (c *Controller) aborted(r *request, emit func(trickle.Event), frames int) error {
	c.settle(r, trickle.StatusIdle, nil)
	r.log.Info("stream aborted", "frames", frames)
	emit(trickle.EventDone{Reason: trickle.StopAborted})
	return nil
}
