package manifest

import (
	"fmt"
	"strings"
)

func (c *Config) validateFilters() error {
	for i := range c.Filters {
		c.Filters[i].normalize()
		if err := c.Filters[i].validate(); err != nil {
			return fmt.Errorf("filter %d: %w", i, err)
		}
	}
	return nil
}

func (c *Config) validateActions() error {
	for i := range c.Actions {
		c.Actions[i].normalize()
		if err := c.Actions[i].validate(); err != nil {
			return fmt.Errorf("action %d (%s): %w", i, c.Actions[i].Handler, err)
		}
	}
	return nil
}

// validateRoutes also rejects duplicate route names across actions and routes;
// link generation resolves the first match only.
func (c *Config) validateRoutes() error {
	names := map[string]string{}
	for _, a := range c.Actions {
		if a.RouteName != "" {
			key := strings.ToLower(a.RouteName)
			if prev, dup := names[key]; dup {
				return fmt.Errorf("route name %q used by %s and %s", a.RouteName, prev, a.Handler)
			}
			names[key] = a.Handler
		}
	}
	for i := range c.Routes {
		c.Routes[i].normalize()
		if err := c.Routes[i].validate(); err != nil {
			return fmt.Errorf("route %d (%s): %w", i, c.Routes[i].Name, err)
		}
		if n := c.Routes[i].Name; n != "" {
			key := strings.ToLower(n)
			if prev, dup := names[key]; dup {
				return fmt.Errorf("route name %q used by %s and route %d", n, prev, i)
			}
			names[key] = fmt.Sprintf("route %d", i)
		}
	}
	return nil
}
