package invoke

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/joeydtaylor/steeze-dispatch/pkg/action"
	"github.com/joeydtaylor/steeze-dispatch/pkg/codec"
	"go.uber.org/zap"
)

// Invoker runs one resolved invocation to completion.
type Invoker interface {
	Invoke(ctx context.Context) error
}

// InvokerFunc adapts a function to Invoker.
type InvokerFunc func(ctx context.Context) error

func (f InvokerFunc) Invoke(ctx context.Context) error { return f(ctx) }

// Factory builds an Invoker for a context.
type Factory interface {
	CreateInvoker(ic *Context) (Invoker, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(ic *Context) (Invoker, error)

func (f FactoryFunc) CreateInvoker(ic *Context) (Invoker, error) { return f(ic) }

// Pipeline is the default Factory: the action's filters, sorted with
// action.SortFilters, wrap the named handler.
type Pipeline struct {
	handlers *Handlers
	filters  *Filters
	log      *zap.Logger
}

type Option func(*Pipeline)

func WithHandlers(h *Handlers) Option { return func(p *Pipeline) { p.handlers = h } }
func WithFilters(f *Filters) Option   { return func(p *Pipeline) { p.filters = f } }
func WithLogger(l *zap.Logger) Option { return func(p *Pipeline) { p.log = l } }

func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		handlers: DefaultHandlers,
		filters:  DefaultFilters,
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Pipeline) CreateInvoker(ic *Context) (Invoker, error) {
	if ic == nil || ic.Action == nil {
		return nil, ErrNoAction
	}
	a := ic.Action
	h, ok := p.handlers.Lookup(a.Handler)
	if !ok {
		return nil, fmt.Errorf("%w: %q (action %s)", ErrHandlerNotFound, a.Handler, a)
	}
	c, ok := codec.Lookup(a.Codec)
	if !ok {
		return nil, fmt.Errorf("%w: %q (action %s)", ErrUnknownCodec, a.Codec, a)
	}
	sorted := action.SortFilters(a.Filters)
	fns, err := p.filters.Resolve(sorted)
	if err != nil {
		return nil, fmt.Errorf("action %s: %w", a, err)
	}
	return &invoker{ic: ic, handler: h, codec: c, filters: sorted, fns: fns, log: p.log}, nil
}

type invoker struct {
	ic      *Context
	handler Handler
	codec   codec.Codec
	filters []action.Filter
	fns     []FilterFunc
	log     *zap.Logger
}

func (iv *invoker) Invoke(ctx context.Context) error {
	next := Next(iv.runHandler)
	for i := len(iv.fns) - 1; i >= 0; i-- {
		fn, f, inner := iv.fns[i], iv.filters[i], next
		next = func(ctx context.Context) error { return fn(ctx, iv.ic, f, inner) }
	}
	return next(ctx)
}

func (iv *invoker) runHandler(ctx context.Context) error {
	ic := iv.ic
	var body []byte
	if ic.Request != nil && ic.Request.Body != nil {
		b, err := io.ReadAll(ic.Request.Body)
		if err != nil {
			return &StatusError{Status: http.StatusBadRequest, Err: err}
		}
		body = b
	}

	req := &Request{
		HTTP:   ic.Request,
		Body:   body,
		Action: ic.Action,
		Items:  ic.Items,
	}
	if ic.RouteData != nil {
		req.Values = ic.RouteData.Values
	}

	out, status, err := iv.handler(ctx, req)
	if err != nil {
		if status > 0 {
			return &StatusError{Status: status, Err: err}
		}
		return err
	}

	var payload []byte
	switch v := out.(type) {
	case nil:
	case []byte:
		payload = v
	default:
		payload, err = iv.codec.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s output: %w", ic.Action, err)
		}
	}
	if ic.Writer != nil {
		writeBody(ic.Writer, iv.codec.ContentType(), payload, statusIf(status, http.StatusOK))
	}
	iv.log.Debug("action invoked",
		zap.String("action", ic.Action.String()),
		zap.Int("status", statusIf(status, http.StatusOK)),
	)
	return nil
}

func writeBody(w http.ResponseWriter, contentType string, payload []byte, status int) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if len(payload) > 0 {
		_, _ = w.Write(payload)
		return
	}
	_, _ = w.Write([]byte(`{}`))
}

func statusIf(s, def int) int {
	if s > 0 {
		return s
	}
	return def
}
