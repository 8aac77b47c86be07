// Package invoke is the invocation pipeline: it turns a resolved action and its
// route data into an Invoker that runs the action's filters and handler.
package invoke

import (
	"net/http"

	"github.com/joeydtaylor/steeze-dispatch/pkg/action"
	"github.com/joeydtaylor/steeze-dispatch/pkg/route"
)

// Context is everything one invocation needs. It is allocated per request and
// owned by that request.
type Context struct {
	Request   *http.Request
	Writer    http.ResponseWriter
	RouteData *route.Data
	Action    *action.Descriptor

	// Items is scratch space filters use to hand data to the handler.
	Items map[string]any
}

func NewContext(w http.ResponseWriter, r *http.Request, rd *route.Data, a *action.Descriptor) *Context {
	return &Context{
		Request:   r,
		Writer:    w,
		RouteData: rd,
		Action:    a,
		Items:     map[string]any{},
	}
}

// Sink receives every invocation context before it runs. It exists for legacy
// consumers that cannot take the context as an argument.
type Sink interface {
	Publish(ic *Context)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ic *Context)

func (f SinkFunc) Publish(ic *Context) { f(ic) }
