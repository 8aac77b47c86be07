package manifest

// Scope names accepted by [[action.filter]].scope and [[filter]].scope.
const (
	ScopeGlobal     = "global"
	ScopeController = "controller"
	ScopeAction     = "action"
)

// FilterSpec declares one filter on an action, or globally under [[filter]].
type FilterSpec struct {
	Name  string            `toml:"name" yaml:"name"`
	Order int               `toml:"order" yaml:"order"`
	Scope string            `toml:"scope" yaml:"scope"`
	Args  map[string]string `toml:"args" yaml:"args"`
}

// ActionSpec declares one action. Template makes it attribute-routed; without
// one it is reachable only through a [[route]] whose values match Values.
type ActionSpec struct {
	Name      string            `toml:"name" yaml:"name"` // display name
	Handler   string            `toml:"handler" yaml:"handler"`
	Template  string            `toml:"template" yaml:"template"`
	RouteName string            `toml:"route_name" yaml:"route_name"`
	Order     int               `toml:"order" yaml:"order"`
	Methods   []string          `toml:"methods" yaml:"methods"`
	Values    map[string]string `toml:"values" yaml:"values"`
	Codec     string            `toml:"codec" yaml:"codec"`
	Filters   []FilterSpec      `toml:"filter" yaml:"filters"`
}

// RouteSpec is a dynamic route: a template whose action is picked per request.
type RouteSpec struct {
	Name     string         `toml:"name" yaml:"name"`
	Template string         `toml:"template" yaml:"template"`
	Defaults map[string]any `toml:"defaults" yaml:"defaults"`
}

// Server holds listener settings; env vars override them (see serverfx).
type Server struct {
	Listen    string `toml:"listen" yaml:"listen"`
	TimeoutMS int    `toml:"timeout_ms" yaml:"timeout_ms"`
}
