package main

import (
	"context"
	"sync"

	"github.com/fwojciec/trickle"
	bt "github.com/fwojciec/trickle/bubbletea"
	tricklehttp "github.com/fwojciec/trickle/http"
	"github.com/fwojciec/trickle/openai"
)

var _ bt.Streamer = (*router)(nil)

// router sends each request through the controller of the model it names.
// Models without their own endpoint share one controller. Starting a
// request aborts one still running on another controller, so at most one
// stream is in flight.
type router struct {
	shared  *tricklehttp.Controller
	byModel map[string]*tricklehttp.Controller

	mu     sync.Mutex
	active *tricklehttp.Controller
}

func newRouter(cfg trickle.Config, opts ...tricklehttp.Option) *router {
	r := &router{
		shared:  newController(cfg.Endpoint, cfg.Validation, opts...),
		byModel: make(map[string]*tricklehttp.Controller),
	}
	for _, m := range cfg.Models {
		if m.HasEndpoint() {
			r.byModel[m.Name] = newController(m.Endpoint(cfg.Endpoint), cfg.Validation, opts...)
		}
	}
	return r
}

// Stream implements [bt.Streamer].
func (r *router) Stream(ctx context.Context, body any) <-chan trickle.Event {
	return r.route(body).Stream(ctx, body)
}

// Execute runs the request on the routed controller and blocks until it
// settles.
func (r *router) Execute(ctx context.Context, body any) error {
	return r.route(body).Execute(ctx, body)
}

// Abort implements [bt.Streamer].
func (r *router) Abort() {
	r.mu.Lock()
	active := r.active
	r.mu.Unlock()
	if active != nil {
		active.Abort()
	}
}

func (r *router) route(body any) *tricklehttp.Controller {
	c := r.shared
	if req, ok := body.(openai.Request); ok {
		if own, ok := r.byModel[req.Model]; ok {
			c = own
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != nil && r.active != c {
		r.active.Abort()
	}
	r.active = c
	return c
}
