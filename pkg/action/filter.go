package action

import (
	"cmp"
	"slices"
)

// Scope is where a filter was declared. Narrower scopes run later.
type Scope int

const (
	ScopeGlobal     Scope = 10
	ScopeController Scope = 20
	ScopeAction     Scope = 30
)

// Filter is a named step the invocation pipeline runs around the handler.
type Filter struct {
	Name  string
	Order int
	Scope Scope
	Args  map[string]string
}

// CompareFilters orders filters by Order, then Scope, then Name.
// The invocation pipeline and the endpoint builder share this rule.
func CompareFilters(a, b Filter) int {
	if c := cmp.Compare(a.Order, b.Order); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Scope, b.Scope); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}

// SortFilters returns a sorted copy of in; in is left untouched.
func SortFilters(in []Filter) []Filter {
	out := slices.Clone(in)
	slices.SortStableFunc(out, CompareFilters)
	return out
}
