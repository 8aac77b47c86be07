package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joeydtaylor/steeze-dispatch/pkg/action"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const sampleTOML = `
[server]
listen = ":4100"

[[filter]]
name = "log"
order = -100

[[action]]
name = "Orders.Get"
handler = "orders.get"
template = "/orders/{id}"
route_name = "getOrder"
methods = ["get"]

  [[action.filter]]
  name = "jwt"
  scope = "Action"
  [action.filter.args]
  role = "reader"

[[action]]
name = "Home.Index"
handler = "home.index"
  [action.values]
  controller = "home"
  action = "index"

[[route]]
name = "default"
template = "/{controller}/{action}/{id?}"
  [route.defaults]
  controller = "home"
  action = "index"
`

const sampleYAML = `
server:
  listen: ":4200"
actions:
  - name: Orders.Get
    handler: orders.get
    template: /orders/{id}
    route_name: getOrder
routes:
  - name: default
    template: /{controller}/{action}
    defaults:
      controller: home
`

func TestParse_TOML(t *testing.T) {
	cfg, err := Parse([]byte(sampleTOML), ".toml")
	require.NoError(t, err)

	assert.Equal(t, ":4100", cfg.Server.Listen)
	require.Len(t, cfg.Actions, 2)
	assert.Equal(t, []string{"GET"}, cfg.Actions[0].Methods)
	assert.Equal(t, "action", cfg.Actions[0].Filters[0].Scope)
	require.Len(t, cfg.Routes, 1)
	assert.Equal(t, "home", cfg.Routes[0].Defaults["controller"])
}

func TestParse_YAML(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML), ".yml")
	require.NoError(t, err)

	assert.Equal(t, ":4200", cfg.Server.Listen)
	require.Len(t, cfg.Actions, 1)
	assert.Equal(t, "getOrder", cfg.Actions[0].RouteName)
	assert.Equal(t, "/{controller}/{action}", cfg.Routes[0].Template)
}

func TestConfig_Descriptors(t *testing.T) {
	cfg, err := Parse([]byte(sampleTOML), ".toml")
	require.NoError(t, err)

	ds := cfg.Descriptors()
	require.Len(t, ds, 2)

	get := ds[0]
	require.True(t, get.AttributeRouted())
	assert.Equal(t, "/orders/{id}", get.Route.Template)
	assert.Equal(t, "getOrder", get.Route.Name)
	assert.Equal(t, "Orders.Get", get.DisplayName)
	assert.Equal(t, []string{"GET"}, get.Methods)
	require.Len(t, get.Filters, 2)
	assert.Equal(t, action.Filter{Name: "log", Order: -100, Scope: action.ScopeGlobal}, get.Filters[0])
	assert.Equal(t, action.ScopeAction, get.Filters[1].Scope)
	assert.Equal(t, "reader", get.Filters[1].Args["role"])

	idx := ds[1]
	assert.False(t, idx.AttributeRouted())
	assert.Equal(t, map[string]string{"controller": "home", "action": "index"}, idx.RouteValues)

	routes := cfg.DynamicRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, "default", routes[0].Name)
	assert.Equal(t, "index", routes[0].Defaults.String("action"))
}

func TestConfig_DescriptorIDsAreStable(t *testing.T) {
	parse := func() []*action.Descriptor {
		cfg, err := Parse([]byte(sampleTOML), ".toml")
		require.NoError(t, err)
		return cfg.Descriptors()
	}
	first, second := parse(), parse()
	require.Len(t, first, 2)
	for i := range first {
		assert.NotEmpty(t, first[i].ID)
		assert.Equal(t, first[i].ID, second[i].ID)
	}
	assert.NotEqual(t, first[0].ID, first[1].ID)
}

func TestConfig_DuplicateActionsGetDistinctIDs(t *testing.T) {
	cfg := Config{Actions: []ActionSpec{
		{Handler: "h", Template: "/a"},
		{Handler: "h", Template: "/a"},
		{Handler: "h", Template: "/b"},
	}}
	ds := cfg.Descriptors()
	require.Len(t, ds, 3)
	assert.NotEqual(t, ds[0].ID, ds[1].ID)
	assert.NotEqual(t, ds[0].ID, ds[2].ID)
	assert.Equal(t, ds[1].ID, cfg.Descriptors()[1].ID)
}

func TestValidate_Errors(t *testing.T) {
	cases := map[string]string{
		"missing handler": `
[[action]]
template = "/x"`,
		"unreachable": `
[[action]]
handler = "h"`,
		"route name without template": `
[[action]]
handler = "h"
route_name = "n"
values = { controller = "c" }`,
		"bad codec": `
[[action]]
handler = "h"
template = "/x"
codec = "xml"`,
		"bad filter scope": `
[[action]]
handler = "h"
template = "/x"
  [[action.filter]]
  name = "f"
  scope = "planet"`,
		"route without template": `
[[route]]
name = "r"`,
		"duplicate names": `
[[action]]
handler = "h"
template = "/x"
route_name = "dup"

[[route]]
name = "DUP"
template = "/{controller}"`,
		"unnamed global filter": `
[[filter]]
order = 1`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src), ".toml")
			assert.Error(t, err)
		})
	}
}

func TestValidate_TemplateSyntaxNotChecked(t *testing.T) {
	cfg, err := Parse([]byte(`
[[action]]
handler = "h"
template = "/{unclosed"
`), ".toml")
	require.NoError(t, err)
	assert.Equal(t, "/{unclosed", cfg.Actions[0].Template)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "none.toml"))
	assert.Error(t, err)
}

func TestFileProvider_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0o644))

	p, err := OpenFile(path, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer p.Close()

	require.Len(t, p.CurrentSnapshot(), 2)
	assert.Equal(t, ":4100", p.Config().Server.Listen)
	tok := p.ChangeProviders()[0].GetChangeToken()

	next := `
[[action]]
handler = "only"
template = "/only"
`
	require.NoError(t, os.WriteFile(path, []byte(next), 0o644))

	require.Eventually(t, tok.HasChanged, 5*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		snap := p.CurrentSnapshot()
		return len(snap) == 1 && snap[0].Handler == "only"
	}, 5*time.Second, 10*time.Millisecond)
	assert.Len(t, p.Config().Routes, 1, "routes are read once")
}

func TestFileProvider_ReloadKeepsActionIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0o644))

	p, err := OpenFile(path, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer p.Close()

	before := p.CurrentSnapshot()
	require.Len(t, before, 2)

	next := sampleTOML + `
[[action]]
handler = "extra"
template = "/extra"
`
	require.NoError(t, os.WriteFile(path, []byte(next), 0o644))
	require.Eventually(t, func() bool { return len(p.CurrentSnapshot()) == 3 }, 5*time.Second, 10*time.Millisecond)

	after := p.CurrentSnapshot()
	assert.Equal(t, before[0].ID, after[0].ID)
	assert.Equal(t, before[1].ID, after[1].ID)
	assert.NotSame(t, before[0], after[0])
}

func TestFileProvider_KeepsActionsOnBadReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0o644))

	p, err := OpenFile(path, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, os.WriteFile(path, []byte("[[action]\nbroken"), 0o644))
	time.Sleep(200 * time.Millisecond)

	assert.Len(t, p.CurrentSnapshot(), 2)
}
