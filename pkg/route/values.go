// Package route holds the per-request route values shared by the routing,
// action and invoke packages.
package route

import (
	"fmt"
	"sort"
	"strings"
)

// Values maps route parameter names to parsed segment values. Keys compare
// case-insensitively on lookup.
type Values map[string]any

// Get looks key up exactly first, then case-insensitively.
func (v Values) Get(key string) (any, bool) {
	if x, ok := v[key]; ok {
		return x, true
	}
	for k, x := range v {
		if strings.EqualFold(k, key) {
			return x, true
		}
	}
	return nil, false
}

// String returns the value under key formatted as a string, "" when absent or nil.
func (v Values) String(key string) string {
	x, ok := v.Get(key)
	if !ok || x == nil {
		return ""
	}
	if s, ok := x.(string); ok {
		return s
	}
	return fmt.Sprint(x)
}

// Clone returns a shallow copy. Cloning nil yields an empty map.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, x := range v {
		out[k] = x
	}
	return out
}

// WithDefaults returns a copy of v with every key of defaults that v lacks filled in.
func (v Values) WithDefaults(defaults Values) Values {
	out := v.Clone()
	for k, x := range defaults {
		if _, ok := out.Get(k); !ok {
			out[k] = x
		}
	}
	return out
}

// Keys returns the keys in sorted order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Data is the route data handed to the invocation pipeline for one request.
type Data struct {
	Values   Values
	Template string
}

// NewData copies values into fresh route data.
func NewData(template string, values Values) *Data {
	return &Data{Values: values.Clone(), Template: template}
}
