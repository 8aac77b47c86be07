package manifest

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/joeydtaylor/steeze-dispatch/pkg/action"
	"github.com/joeydtaylor/steeze-dispatch/pkg/route"
	"github.com/joeydtaylor/steeze-dispatch/pkg/routing"
)

// Config is the top-level manifest.
type Config struct {
	Server  Server       `toml:"server" yaml:"server"`
	Filters []FilterSpec `toml:"filter" yaml:"filters"`
	Actions []ActionSpec `toml:"action" yaml:"actions"`
	Routes  []RouteSpec  `toml:"route" yaml:"routes"`
}

// Validate normalizes in place and checks every entry. Route templates are
// only checked for presence; their syntax is the matcher's business.
func (c *Config) Validate() error {
	if err := c.validateFilters(); err != nil {
		return err
	}
	if err := c.validateActions(); err != nil {
		return err
	}
	return c.validateRoutes()
}

// Descriptors converts [[action]] entries into action descriptors. Global
// filters are appended to every action.
//
// IDs are derived from each entry's identity, so reloading an unchanged
// manifest yields the same IDs.
func (c *Config) Descriptors() []*action.Descriptor {
	out := make([]*action.Descriptor, 0, len(c.Actions))
	seen := make(map[string]int, len(c.Actions))
	for _, a := range c.Actions {
		key := a.identity()
		if n := seen[key]; n > 0 {
			seen[key] = n + 1
			key = fmt.Sprintf("%s#%d", key, n)
		} else {
			seen[key] = 1
		}
		d := &action.Descriptor{
			ID:          uuid.NewSHA1(actionNamespace, []byte(key)).String(),
			DisplayName: a.Name,
			Handler:     a.Handler,
			Methods:     action.NormalizeMethods(a.Methods),
			Codec:       a.Codec,
		}
		if a.Template != "" {
			d.Route = &action.AttributeRoute{Template: a.Template, Name: a.RouteName, Order: a.Order}
		}
		if len(a.Values) > 0 {
			d.RouteValues = make(map[string]string, len(a.Values))
			for k, v := range a.Values {
				d.RouteValues[k] = v
			}
		}
		for _, f := range c.Filters {
			d.Filters = append(d.Filters, f.filter(action.ScopeGlobal))
		}
		for _, f := range a.Filters {
			d.Filters = append(d.Filters, f.filter(action.ScopeAction))
		}
		out = append(out, d)
	}
	return out
}

var actionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("steeze-dispatch:action"))

// identity is the display name when set, otherwise handler, template and
// route values.
func (a ActionSpec) identity() string {
	if a.Name != "" {
		return "name:" + a.Name
	}
	keys := make([]string, 0, len(a.Values))
	for k := range a.Values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	var b strings.Builder
	b.WriteString("handler:" + a.Handler + " template:" + a.Template)
	for _, k := range keys {
		b.WriteString(" " + k + "=" + a.Values[k])
	}
	return b.String()
}

// DynamicRoutes converts [[route]] entries.
func (c *Config) DynamicRoutes() []routing.DynamicRoute {
	out := make([]routing.DynamicRoute, 0, len(c.Routes))
	for _, r := range c.Routes {
		out = append(out, routing.DynamicRoute{
			Template: r.Template,
			Name:     r.Name,
			Defaults: route.Values(r.Defaults).Clone(),
		})
	}
	return out
}

func (f FilterSpec) filter(def action.Scope) action.Filter {
	return action.Filter{
		Name:  f.Name,
		Order: f.Order,
		Scope: parseScope(f.Scope, def),
		Args:  f.Args,
	}
}

func parseScope(s string, def action.Scope) action.Scope {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ScopeGlobal:
		return action.ScopeGlobal
	case ScopeController:
		return action.ScopeController
	case ScopeAction:
		return action.ScopeAction
	}
	return def
}
