package routing

import (
	"net/http"

	"github.com/joeydtaylor/steeze-dispatch/pkg/action"
	"github.com/joeydtaylor/steeze-dispatch/pkg/route"
)

// Kind distinguishes where an endpoint's action comes from.
type Kind int

const (
	// KindBound endpoints know their action at build time.
	KindBound Kind = iota + 1
	// KindResolved endpoints pick their action per request.
	KindResolved
)

func (k Kind) String() string {
	switch k {
	case KindBound:
		return "bound"
	case KindResolved:
		return "resolved"
	}
	return "unknown"
}

// Resolver picks the action for a request, or nil when nothing applies.
type Resolver func(rc *action.RouteContext) *action.Descriptor

// Target is the dispatch target of an endpoint: Action for KindBound, Resolve
// for KindResolved.
type Target struct {
	Kind    Kind
	Action  *action.Descriptor
	Resolve Resolver
}

// Outcome is what a dispatch did.
type Outcome int

const (
	// OutcomeInvoked: an action ran (its error, if any, is returned alongside).
	OutcomeInvoked Outcome = iota + 1
	// OutcomeNoAction: the request was handled and nothing needed doing. Callers
	// layering several sources may fall through to the next one.
	OutcomeNoAction
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInvoked:
		return "invoked"
	case OutcomeNoAction:
		return "no_action"
	}
	return "unknown"
}

// DispatchFunc runs once the matcher has matched a request to an endpoint and
// stored the route values with WithMatch.
type DispatchFunc func(w http.ResponseWriter, r *http.Request) (Outcome, error)

// Address names an endpoint for link generation.
type Address struct {
	Name string
}

// Metadata is an immutable list of endpoint metadata items.
type Metadata struct {
	items []any
}

// NewMetadata copies items, so later changes to the caller's slice do not
// reach the endpoint.
func NewMetadata(items ...any) Metadata {
	return Metadata{items: append([]any(nil), items...)}
}

// Len reports the number of items.
func (m Metadata) Len() int { return len(m.items) }

// Items returns a copy of the items.
func (m Metadata) Items() []any { return append([]any(nil), m.items...) }

// Filters returns the action.Filter items in order.
func (m Metadata) Filters() []action.Filter {
	var out []action.Filter
	for _, it := range m.items {
		if f, ok := it.(action.Filter); ok {
			out = append(out, f)
		}
	}
	return out
}

// Endpoint is one matchable route entry. Endpoints are shared by every request
// and must not be modified after the table is built.
type Endpoint struct {
	Template    string
	Defaults    route.Values
	Order       int // lower wins
	Metadata    Metadata
	DisplayName string
	Address     *Address // nil: not addressable by name
	Target      Target
	Dispatch    DispatchFunc
}

// Kind is shorthand for e.Target.Kind.
func (e *Endpoint) Kind() Kind { return e.Target.Kind }

// Name is the address name, "" when there is none.
func (e *Endpoint) Name() string {
	if e.Address == nil {
		return ""
	}
	return e.Address.Name
}

// Methods are the HTTP methods a bound endpoint's action accepts; nil for any.
func (e *Endpoint) Methods() []string {
	if e.Target.Kind == KindBound && e.Target.Action != nil {
		return e.Target.Action.Methods
	}
	return nil
}

func (e *Endpoint) String() string {
	if e.DisplayName != "" {
		return e.DisplayName
	}
	return e.Template
}
