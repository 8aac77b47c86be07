package routing

import (
	"context"

	"github.com/joeydtaylor/steeze-dispatch/pkg/route"
)

// Match is the match result the matcher attaches to a request.
type Match struct {
	Endpoint *Endpoint
	Values   route.Values
}

type matchKey struct{}

// WithMatch records the matched endpoint and route values on ctx.
func WithMatch(ctx context.Context, ep *Endpoint, values route.Values) context.Context {
	return context.WithValue(ctx, matchKey{}, &Match{Endpoint: ep, Values: values})
}

// MatchFrom returns the match recorded by WithMatch.
func MatchFrom(ctx context.Context) (*Match, bool) {
	m, ok := ctx.Value(matchKey{}).(*Match)
	return m, ok
}

func matchedValues(ctx context.Context) route.Values {
	if m, ok := MatchFrom(ctx); ok {
		return m.Values
	}
	return nil
}
