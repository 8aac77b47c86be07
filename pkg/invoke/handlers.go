// pkg/invoke/handlers.go
package invoke

import (
	"context"
	"net/http"
	"sync"

	"github.com/joeydtaylor/steeze-dispatch/pkg/action"
	"github.com/joeydtaylor/steeze-dispatch/pkg/route"
)

// Request is what a handler sees: the raw body plus the matched route values.
type Request struct {
	HTTP   *http.Request
	Values route.Values
	Body   []byte
	Action *action.Descriptor
	Items  map[string]any
}

// Handler is the signature for in-process handlers. A nil out writes "{}"; a
// []byte out is written verbatim; anything else goes through the action's codec.
// status 0 means 200 on success and 500 on error.
type Handler func(ctx context.Context, req *Request) (out any, status int, err error)

// Handlers maps handler names referenced by action descriptors to functions.
type Handlers struct {
	mu sync.RWMutex
	m  map[string]Handler
}

func NewHandlers() *Handlers { return &Handlers{m: map[string]Handler{}} }

// Register makes h available under name, replacing any earlier binding.
func (hs *Handlers) Register(name string, h Handler) {
	if name == "" || h == nil {
		panic("invoke: handler name and func required")
	}
	hs.mu.Lock()
	hs.m[name] = h
	hs.mu.Unlock()
}

// Lookup retrieves a registered handler by name.
func (hs *Handlers) Lookup(name string) (Handler, bool) {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	h, ok := hs.m[name]
	return h, ok
}

// DefaultHandlers backs the package-level Register and Lookup.
var DefaultHandlers = NewHandlers()

// Register binds h in DefaultHandlers.
func Register(name string, h Handler) { DefaultHandlers.Register(name, h) }

// Lookup reads DefaultHandlers.
func Lookup(name string) (Handler, bool) { return DefaultHandlers.Lookup(name) }
