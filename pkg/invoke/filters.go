package invoke

import (
	"context"
	"fmt"
	"sync"

	"github.com/joeydtaylor/steeze-dispatch/pkg/action"
)

// Next continues the chain.
type Next func(ctx context.Context) error

// FilterFunc runs around the rest of the chain. Returning without calling next
// short-circuits the handler; f carries the declaring descriptor's arguments.
type FilterFunc func(ctx context.Context, ic *Context, f action.Filter, next Next) error

// Filters maps filter names to implementations.
type Filters struct {
	mu sync.RWMutex
	m  map[string]FilterFunc
}

func NewFilters() *Filters { return &Filters{m: map[string]FilterFunc{}} }

// Register binds fn under name. Duplicate names panic.
func (fs *Filters) Register(name string, fn FilterFunc) {
	if name == "" || fn == nil {
		panic("invoke: filter name and func required")
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, dup := fs.m[name]; dup {
		panic("invoke: duplicate filter " + name)
	}
	fs.m[name] = fn
}

// Resolve returns implementations for fl in the same order.
func (fs *Filters) Resolve(fl []action.Filter) ([]FilterFunc, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := make([]FilterFunc, 0, len(fl))
	for _, f := range fl {
		fn, ok := fs.m[f.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrFilterNotFound, f.Name)
		}
		out = append(out, fn)
	}
	return out, nil
}

// DefaultFilters backs RegisterFilter.
var DefaultFilters = NewFilters()

// RegisterFilter binds fn in DefaultFilters.
func RegisterFilter(name string, fn FilterFunc) { DefaultFilters.Register(name, fn) }
