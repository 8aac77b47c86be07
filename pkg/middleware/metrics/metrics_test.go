package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/joeydtaylor/steeze-dispatch/pkg/routing"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollect_UsesRoutePattern(t *testing.T) {
	SetPathNormalizer(RoutePattern)

	r := chi.NewRouter()
	r.Use(Collect())
	r.Get("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {})

	before := testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("200", "/orders/{id}", "GET"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders/7", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders/8", nil))
	after := testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("200", "/orders/{id}", "GET"))

	assert.Equal(t, 2.0, after-before)
}

func TestCollect_SkipsMetricsPath(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Collect())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {})

	before := testutil.ToFloat64(totalHttpRequests.WithLabelValues("200", "GET"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, before, testutil.ToFloat64(totalHttpRequests.WithLabelValues("200", "GET")))
}

func TestRoutePattern_Unmatched(t *testing.T) {
	assert.Equal(t, "unmatched", RoutePattern(httptest.NewRequest(http.MethodGet, "/x", nil)))
}

func TestObserveDispatch(t *testing.T) {
	ep := &routing.Endpoint{Target: routing.Target{Kind: routing.KindResolved}}
	c := dispatchTotal.WithLabelValues("resolved", "no_action", "false")
	before := testutil.ToFloat64(c)
	ObserveDispatch(ep, routing.OutcomeNoAction, nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(c)-before)

	e := dispatchTotal.WithLabelValues("resolved", "invoked", "true")
	before = testutil.ToFloat64(e)
	ObserveDispatch(ep, routing.OutcomeInvoked, errors.New("boom"))
	assert.Equal(t, 1.0, testutil.ToFloat64(e)-before)
}

func TestRebuilt(t *testing.T) {
	ok := testutil.ToFloat64(endpointTableRebuilds.WithLabelValues("ok"))
	bad := testutil.ToFloat64(endpointTableRebuilds.WithLabelValues("error"))
	Rebuilt(nil)
	Rebuilt(errors.New("bad manifest"))
	assert.Equal(t, ok+1, testutil.ToFloat64(endpointTableRebuilds.WithLabelValues("ok")))
	assert.Equal(t, bad+1, testutil.ToFloat64(endpointTableRebuilds.WithLabelValues("error")))
}
