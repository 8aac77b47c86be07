package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joeydtaylor/steeze-dispatch/pkg/action"
	"github.com/joeydtaylor/steeze-dispatch/pkg/invoke"
	"github.com/joeydtaylor/steeze-dispatch/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// One static GET /orders/{id} named getOrder plus one dynamic default route.
func TestScenario_StaticAndDynamic(t *testing.T) {
	handlers := invoke.NewHandlers()
	var ran []string
	handlers.Register("orders.get", func(_ context.Context, req *invoke.Request) (any, int, error) {
		ran = append(ran, "orders.get:"+req.Values.String("id"))
		return map[string]string{"id": req.Values.String("id")}, 0, nil
	})
	handlers.Register("home.index", func(context.Context, *invoke.Request) (any, int, error) {
		ran = append(ran, "home.index")
		return nil, 0, nil
	})

	reg := action.NewRegistry(
		&action.Descriptor{
			DisplayName: "Orders.Get",
			Route:       &action.AttributeRoute{Template: "/orders/{id}", Name: "getOrder"},
			Methods:     []string{http.MethodGet},
			Handler:     "orders.get",
		},
		&action.Descriptor{
			DisplayName: "Home.Index",
			RouteValues: map[string]string{"controller": "home", "action": "index"},
			Handler:     "home.index",
		},
		&action.Descriptor{
			DisplayName: "Home.About",
			RouteValues: map[string]string{"controller": "home", "action": "about"},
			Handler:     "home.about",
		},
	)
	log := zaptest.NewLogger(t)
	ds := newSource(t, Config{
		Actions:  reg,
		Invokers: invoke.NewPipeline(invoke.WithHandlers(handlers), invoke.WithLogger(log)),
		Selector: action.NewRouteValueSelector(reg, log),
		Routes: []DynamicRoute{{
			Template: "/{controller}/{action}",
			Name:     "default",
			Defaults: route.Values{"controller": "home", "action": "index"},
		}},
		Logger: log,
	})

	eps := ds.Endpoints()
	require.Len(t, eps, 2)
	assert.Equal(t, "getOrder", eps[0].Address.Name)
	assert.Equal(t, "default", eps[1].Address.Name)

	byName, ok := ds.EndpointByName("getOrder")
	require.True(t, ok)
	assert.Same(t, eps[0], byName)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders/7", nil)
	req = req.WithContext(WithMatch(req.Context(), eps[0], route.Values{"id": "7"}))
	out, err := eps[0].Dispatch(rec, req)
	require.NoError(t, err)
	assert.Equal(t, OutcomeInvoked, out)
	assert.JSONEq(t, `{"id":"7"}`, rec.Body.String())

	out, err = dispatch(t, eps[1], http.MethodGet, route.Values{"controller": "home", "action": "index"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeInvoked, out)

	assert.Equal(t, []string{"orders.get:7", "home.index"}, ran)
}
