package action

import (
	"net/http"
	"strings"

	"github.com/joeydtaylor/steeze-dispatch/pkg/route"
	"go.uber.org/zap"
)

// RouteContext carries what a selector needs to pick an action for one request.
type RouteContext struct {
	Request   *http.Request
	RouteData *route.Data
}

func (rc *RouteContext) method() string {
	if rc == nil || rc.Request == nil {
		return ""
	}
	return rc.Request.Method
}

func (rc *RouteContext) values() route.Values {
	if rc == nil || rc.RouteData == nil {
		return nil
	}
	return rc.RouteData.Values
}

// Selector narrows the action set for a request, then disambiguates.
type Selector interface {
	// SelectCandidates returns every action consistent with the route values.
	SelectCandidates(rc *RouteContext) []*Descriptor
	// SelectBest picks one of candidates, or nil when none or several remain.
	SelectBest(rc *RouteContext, candidates []*Descriptor) *Descriptor
}

// RouteValueSelector matches conventionally routed actions by their declared
// route values and disambiguates with the HTTP method constraint.
type RouteValueSelector struct {
	actions Provider
	log     *zap.Logger
}

func NewRouteValueSelector(p Provider, log *zap.Logger) *RouteValueSelector {
	if log == nil {
		log = zap.NewNop()
	}
	return &RouteValueSelector{actions: p, log: log}
}

// SelectCandidates skips attribute-routed actions; they are reachable only
// through their own template.
func (s *RouteValueSelector) SelectCandidates(rc *RouteContext) []*Descriptor {
	vals := rc.values()
	var out []*Descriptor
	for _, d := range s.actions.CurrentSnapshot() {
		if d.AttributeRouted() || len(d.RouteValues) == 0 {
			continue
		}
		if matchesValues(d, vals) {
			out = append(out, d)
		}
	}
	return out
}

// matchesValues: every declared value must equal the request value
// case-insensitively; a declared "" requires the key to be absent or empty.
func matchesValues(d *Descriptor, vals route.Values) bool {
	for k, want := range d.RouteValues {
		if !strings.EqualFold(vals.String(k), want) {
			return false
		}
	}
	return true
}

// SelectBest keeps candidates whose method constraint admits the request. When
// more than one survives, an action with an explicit constraint beats one
// without; a remaining tie is ambiguous and yields nil.
func (s *RouteValueSelector) SelectBest(rc *RouteContext, candidates []*Descriptor) *Descriptor {
	method := rc.method()
	var allowed []*Descriptor
	for _, d := range candidates {
		if method == "" || d.AllowsMethod(method) {
			allowed = append(allowed, d)
		}
	}
	switch len(allowed) {
	case 0:
		return nil
	case 1:
		return allowed[0]
	}

	var constrained []*Descriptor
	for _, d := range allowed {
		if len(d.Methods) > 0 {
			constrained = append(constrained, d)
		}
	}
	if len(constrained) == 1 {
		return constrained[0]
	}

	names := make([]string, 0, len(allowed))
	for _, d := range allowed {
		names = append(names, d.String())
	}
	s.log.Warn("action selection ambiguous",
		zap.String("method", method),
		zap.Any("routeValues", rc.values()),
		zap.Strings("candidates", names),
	)
	return nil
}
