// Package action describes invocable request handlers (action descriptors), the
// providers that own the current set of them, and the selectors that pick one
// for a set of route values.
package action

import (
	"net/http"
	"strings"
)

// AttributeRoute is the static route an action declares for itself.
type AttributeRoute struct {
	Template string
	Name     string
	Order    int
}

// Descriptor identifies one invocable handler.
type Descriptor struct {
	ID          string
	DisplayName string

	// Route is nil (or has an empty template) for conventionally routed actions.
	Route *AttributeRoute

	// RouteValues are the values a request must carry to reach this action
	// through a dynamic route, e.g. controller=orders, action=get.
	RouteValues map[string]string

	// Methods restricts the HTTP methods; empty allows any.
	Methods []string

	Filters []Filter

	// Handler names the registered handler the pipeline runs.
	Handler string
	// Codec names the output codec; empty means JSON.
	Codec string
}

// AttributeRouted reports whether the action declares a static template.
func (d *Descriptor) AttributeRouted() bool {
	return d.Route != nil && d.Route.Template != ""
}

// RouteValue looks up a declared route value case-insensitively.
func (d *Descriptor) RouteValue(key string) (string, bool) {
	if v, ok := d.RouteValues[key]; ok {
		return v, true
	}
	for k, v := range d.RouteValues {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// AllowsMethod reports whether method satisfies the action's method constraint.
func (d *Descriptor) AllowsMethod(method string) bool {
	if len(d.Methods) == 0 {
		return true
	}
	for _, m := range d.Methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// String is the display name, falling back to the handler and then the ID.
func (d *Descriptor) String() string {
	switch {
	case d.DisplayName != "":
		return d.DisplayName
	case d.Handler != "":
		return d.Handler
	default:
		return d.ID
	}
}

// NormalizeMethods upper-cases and de-duplicates methods; an empty input stays empty.
func NormalizeMethods(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, m := range in {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// DefaultMethod is used by adapters when an action declares no method constraint.
const DefaultMethod = http.MethodGet
