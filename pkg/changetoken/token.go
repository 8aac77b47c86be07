package changetoken

import "sync"

// Token reports whether an upstream data set changed since the token was issued.
// A token fires at most once; owners hand out a fresh token after it fires.
type Token interface {
	HasChanged() bool
	// RegisterChangeCallback runs fn once when the token fires. If the token has
	// already fired, fn runs immediately on the calling goroutine.
	RegisterChangeCallback(fn func()) (unregister func())
}

// Provider hands out the current token of one upstream source.
type Provider interface {
	GetChangeToken() Token
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func() Token

func (f ProviderFunc) GetChangeToken() Token { return f() }

type never struct{}

// Never is a token that never fires.
var Never Token = never{}

func (never) HasChanged() bool                     { return false }
func (never) RegisterChangeCallback(func()) func() { return func() {} }

// Signal is a token fired explicitly by its owner.
type Signal struct {
	once sync.Once
	done chan struct{}

	mu   sync.Mutex
	next uint64
	cbs  map[uint64]func() // nil once fired
}

// NewSignal returns an unfired Signal.
func NewSignal() *Signal {
	return &Signal{
		done: make(chan struct{}),
		cbs:  make(map[uint64]func()),
	}
}

func (s *Signal) HasChanged() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Done is closed when the signal fires.
func (s *Signal) Done() <-chan struct{} { return s.done }

// Fire marks the signal changed and runs registered callbacks. Repeated calls are no-ops.
func (s *Signal) Fire() {
	s.once.Do(func() {
		s.mu.Lock()
		close(s.done)
		cbs := s.cbs
		s.cbs = nil
		s.mu.Unlock()

		for _, fn := range cbs {
			fn()
		}
	})
}

func (s *Signal) RegisterChangeCallback(fn func()) func() {
	s.mu.Lock()
	if s.cbs == nil {
		s.mu.Unlock()
		fn()
		return func() {}
	}
	id := s.next
	s.next++
	s.cbs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		if s.cbs != nil {
			delete(s.cbs, id)
		}
		s.mu.Unlock()
	}
}
