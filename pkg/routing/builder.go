package routing

import (
	"github.com/joeydtaylor/steeze-dispatch/pkg/action"
	"github.com/joeydtaylor/steeze-dispatch/pkg/route"
)

// DynamicRoute is a configured template whose action is chosen per request.
type DynamicRoute struct {
	Template string
	Name     string
	Defaults route.Values
}

// source is one kind of endpoint input. The set is closed: attribute-routed
// actions and dynamic routes.
type source interface {
	endpoints(d *dispatcher) []*Endpoint
}

type attributeSource []*action.Descriptor

// Actions without a template are skipped; something else may reach them.
func (s attributeSource) endpoints(d *dispatcher) []*Endpoint {
	out := make([]*Endpoint, 0, len(s))
	for _, a := range s {
		if !a.AttributeRouted() {
			continue
		}
		defaults := make(route.Values, len(a.RouteValues))
		for k, v := range a.RouteValues {
			defaults[k] = v
		}
		filters := action.SortFilters(a.Filters)
		items := make([]any, len(filters))
		for i, f := range filters {
			items[i] = f
		}
		// no address for an unnamed route, so empty names never resolve
		var addr *Address
		if a.Route.Name != "" {
			addr = &Address{Name: a.Route.Name}
		}
		ep := &Endpoint{
			Template:    a.Route.Template,
			Defaults:    defaults,
			Order:       a.Route.Order,
			Metadata:    NewMetadata(items...),
			DisplayName: a.DisplayName,
			Address:     addr,
			Target:      Target{Kind: KindBound, Action: a},
		}
		ep.Dispatch = d.dispatchFor(ep)
		out = append(out, ep)
	}
	return out
}

type dynamicSource []DynamicRoute

// Dynamic endpoints always get an address, even with an empty name; link
// generation looks them up by name. Order is fixed at 0.
func (s dynamicSource) endpoints(d *dispatcher) []*Endpoint {
	out := make([]*Endpoint, 0, len(s))
	for _, r := range s {
		ep := &Endpoint{
			Template: r.Template,
			Defaults: r.Defaults.Clone(),
			Order:    0,
			Address:  &Address{Name: r.Name},
			Target:   Target{Kind: KindResolved, Resolve: d.resolverFor(r.Template)},
		}
		ep.Dispatch = d.dispatchFor(ep)
		out = append(out, ep)
	}
	return out
}

// build projects the action snapshot and the dynamic routes into endpoints:
// attribute-routed first, in snapshot order, then dynamic routes in config order.
// Templates are passed through unvalidated.
func (d *dispatcher) build(actions []*action.Descriptor, routes []DynamicRoute) []*Endpoint {
	var out []*Endpoint
	for _, s := range []source{attributeSource(actions), dynamicSource(routes)} {
		out = append(out, s.endpoints(d)...)
	}
	return out
}
