package action

import (
	"sync"

	"github.com/google/uuid"
	"github.com/joeydtaylor/steeze-dispatch/pkg/changetoken"
)

// Provider owns the current set of action descriptors.
type Provider interface {
	// CurrentSnapshot returns the descriptors as of now. Callers must not mutate them.
	CurrentSnapshot() []*Descriptor
	// ChangeProviders returns the sources whose tokens fire when the set changes.
	// A nil result means the provider is misconfigured; an empty one means it never changes.
	ChangeProviders() []changetoken.Provider
}

// Registry is an in-memory Provider. Every mutation fires the outstanding
// change token and issues a fresh one.
type Registry struct {
	mu      sync.RWMutex
	actions []*Descriptor
	version int
	signal  *changetoken.Signal
}

// NewRegistry seeds a registry; descriptors without an ID get a random one.
func NewRegistry(ds ...*Descriptor) *Registry {
	r := &Registry{signal: changetoken.NewSignal()}
	for _, d := range ds {
		r.actions = append(r.actions, withID(d))
	}
	return r
}

func withID(d *Descriptor) *Descriptor {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return d
}

// Add appends descriptors.
func (r *Registry) Add(ds ...*Descriptor) {
	if len(ds) == 0 {
		return
	}
	r.mutate(func(cur []*Descriptor) []*Descriptor {
		for _, d := range ds {
			cur = append(cur, withID(d))
		}
		return cur
	})
}

// Remove drops the descriptor with id and reports whether it was present.
func (r *Registry) Remove(id string) bool {
	removed := false
	r.mutate(func(cur []*Descriptor) []*Descriptor {
		out := cur[:0:0]
		for _, d := range cur {
			if d.ID == id {
				removed = true
				continue
			}
			out = append(out, d)
		}
		return out
	})
	return removed
}

// Replace swaps the whole set.
func (r *Registry) Replace(ds []*Descriptor) {
	r.mutate(func([]*Descriptor) []*Descriptor {
		out := make([]*Descriptor, 0, len(ds))
		for _, d := range ds {
			out = append(out, withID(d))
		}
		return out
	})
}

func (r *Registry) mutate(fn func([]*Descriptor) []*Descriptor) {
	r.mu.Lock()
	// copy-on-write so snapshots already handed out stay stable
	cur := append([]*Descriptor(nil), r.actions...)
	r.actions = fn(cur)
	r.version++
	old := r.signal
	r.signal = changetoken.NewSignal()
	r.mu.Unlock()

	old.Fire()
}

func (r *Registry) CurrentSnapshot() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Descriptor(nil), r.actions...)
}

// Version counts mutations since construction.
func (r *Registry) Version() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

func (r *Registry) GetChangeToken() changetoken.Token {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.signal
}

func (r *Registry) ChangeProviders() []changetoken.Provider {
	return []changetoken.Provider{r}
}
