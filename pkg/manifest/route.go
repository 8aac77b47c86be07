package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// normalize trims and upper-cases what the manifest author may have written loosely.
func (a *ActionSpec) normalize() {
	a.Name = strings.TrimSpace(a.Name)
	a.Handler = strings.TrimSpace(a.Handler)
	a.Template = strings.TrimSpace(a.Template)
	a.RouteName = strings.TrimSpace(a.RouteName)
	a.Codec = strings.ToLower(strings.TrimSpace(a.Codec))
	for i := range a.Methods {
		a.Methods[i] = strings.ToUpper(strings.TrimSpace(a.Methods[i]))
	}
	for i := range a.Filters {
		a.Filters[i].normalize()
	}
}

func (a *ActionSpec) validate() error {
	if a.Handler == "" {
		return errors.New("handler is required")
	}
	if a.Template == "" && len(a.Values) == 0 {
		return errors.New("template or values required (action is unreachable)")
	}
	if a.Template == "" && a.RouteName != "" {
		return errors.New("route_name requires template")
	}
	switch a.Codec {
	case "", "json", "json-strict", "json_strict":
	default:
		return fmt.Errorf("codec %q unsupported", a.Codec)
	}
	for i, f := range a.Filters {
		if err := f.validate(); err != nil {
			return fmt.Errorf("filter %d: %w", i, err)
		}
	}
	return nil
}

func (f *FilterSpec) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Scope = strings.ToLower(strings.TrimSpace(f.Scope))
}

func (f *FilterSpec) validate() error {
	if f.Name == "" {
		return errors.New("name is required")
	}
	switch f.Scope {
	case "", ScopeGlobal, ScopeController, ScopeAction:
	default:
		return fmt.Errorf("scope %q invalid", f.Scope)
	}
	return nil
}

func (r *RouteSpec) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Template = strings.TrimSpace(r.Template)
}

func (r *RouteSpec) validate() error {
	if r.Template == "" {
		return errors.New("template is required")
	}
	return nil
}
