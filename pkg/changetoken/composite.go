package changetoken

import "sync"

// Composite fires when any of its constituent tokens fires.
type Composite struct {
	tokens []Token
}

// NewComposite wraps tokens into one OR-token.
func NewComposite(tokens ...Token) *Composite {
	return &Composite{tokens: append([]Token(nil), tokens...)}
}

func (c *Composite) HasChanged() bool {
	for _, t := range c.tokens {
		if t.HasChanged() {
			return true
		}
	}
	return false
}

// RegisterChangeCallback runs fn once, on the first constituent to fire.
func (c *Composite) RegisterChangeCallback(fn func()) func() {
	var once sync.Once
	fire := func() { once.Do(fn) }

	unregs := make([]func(), 0, len(c.tokens))
	for _, t := range c.tokens {
		unregs = append(unregs, t.RegisterChangeCallback(fire))
	}
	return func() {
		for _, u := range unregs {
			u()
		}
	}
}

// Tokens returns a copy of the constituent tokens.
func (c *Composite) Tokens() []Token { return append([]Token(nil), c.tokens...) }

// Aggregate folds the current tokens of providers into one token.
// One provider: its token is returned as-is. None: Never. Otherwise a Composite.
// Aggregate is pure; calling it twice over the same providers is harmless.
func Aggregate(providers []Provider) Token {
	switch len(providers) {
	case 0:
		return Never
	case 1:
		return providers[0].GetChangeToken()
	}
	tokens := make([]Token, 0, len(providers))
	for _, p := range providers {
		tokens = append(tokens, p.GetChangeToken())
	}
	return &Composite{tokens: tokens}
}
