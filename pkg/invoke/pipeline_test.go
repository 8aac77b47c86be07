package invoke

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joeydtaylor/steeze-dispatch/pkg/action"
	"github.com/joeydtaylor/steeze-dispatch/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestPipeline(t *testing.T) (*Pipeline, *Handlers, *Filters) {
	t.Helper()
	hs, fs := NewHandlers(), NewFilters()
	return NewPipeline(WithHandlers(hs), WithFilters(fs), WithLogger(zaptest.NewLogger(t))), hs, fs
}

func newContext(a *action.Descriptor, body string, vals route.Values) (*Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
	return NewContext(rec, req, route.NewData("/x", vals), a), rec
}

func TestPipeline_RunsHandlerWithRouteValues(t *testing.T) {
	p, hs, _ := newTestPipeline(t)
	hs.Register("orders.get", func(_ context.Context, req *Request) (any, int, error) {
		return map[string]string{"id": req.Values.String("id"), "body": string(req.Body)}, 0, nil
	})

	ic, rec := newContext(&action.Descriptor{Handler: "orders.get"}, "hi", route.Values{"id": "42"})
	inv, err := p.CreateInvoker(ic)
	require.NoError(t, err)
	require.NoError(t, inv.Invoke(context.Background()))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"42","body":"hi"}`, rec.Body.String())
}

func TestPipeline_RawAndEmptyOutput(t *testing.T) {
	p, hs, _ := newTestPipeline(t)
	hs.Register("raw", func(context.Context, *Request) (any, int, error) { return []byte(`[1]`), http.StatusCreated, nil })
	hs.Register("empty", func(context.Context, *Request) (any, int, error) { return nil, 0, nil })

	ic, rec := newContext(&action.Descriptor{Handler: "raw"}, "", nil)
	inv, err := p.CreateInvoker(ic)
	require.NoError(t, err)
	require.NoError(t, inv.Invoke(context.Background()))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, `[1]`, rec.Body.String())

	ic, rec = newContext(&action.Descriptor{Handler: "empty"}, "", nil)
	inv, err = p.CreateInvoker(ic)
	require.NoError(t, err)
	require.NoError(t, inv.Invoke(context.Background()))
	assert.Equal(t, `{}`, rec.Body.String())
}

func TestPipeline_HandlerErrorsPropagate(t *testing.T) {
	p, hs, _ := newTestPipeline(t)
	boom := errors.New("boom")
	hs.Register("plain", func(context.Context, *Request) (any, int, error) { return nil, 0, boom })
	hs.Register("teapot", func(context.Context, *Request) (any, int, error) { return nil, http.StatusTeapot, boom })

	ic, rec := newContext(&action.Descriptor{Handler: "plain"}, "", nil)
	inv, err := p.CreateInvoker(ic)
	require.NoError(t, err)
	err = inv.Invoke(context.Background())
	assert.Same(t, boom, err, "errors without a status pass through untouched")
	assert.Equal(t, 0, rec.Body.Len())

	ic, _ = newContext(&action.Descriptor{Handler: "teapot"}, "", nil)
	inv, err = p.CreateInvoker(ic)
	require.NoError(t, err)
	err = inv.Invoke(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, http.StatusTeapot, StatusOf(err, 500))
	assert.Equal(t, 500, StatusOf(boom, 500))
}

func TestPipeline_FiltersRunInSortedOrder(t *testing.T) {
	p, hs, fs := newTestPipeline(t)
	var trace []string
	hs.Register("h", func(context.Context, *Request) (any, int, error) {
		trace = append(trace, "handler")
		return nil, 0, nil
	})
	record := func(ctx context.Context, _ *Context, f action.Filter, next Next) error {
		trace = append(trace, f.Name)
		return next(ctx)
	}
	fs.Register("late", record)
	fs.Register("early", record)
	fs.Register("global", record)

	a := &action.Descriptor{
		Handler: "h",
		Filters: []action.Filter{
			{Name: "late", Order: 5, Scope: action.ScopeAction},
			{Name: "early", Order: -1, Scope: action.ScopeAction},
			{Name: "global", Order: 0, Scope: action.ScopeGlobal},
		},
	}
	ic, _ := newContext(a, "", nil)
	inv, err := p.CreateInvoker(ic)
	require.NoError(t, err)
	require.NoError(t, inv.Invoke(context.Background()))

	assert.Equal(t, []string{"early", "global", "late", "handler"}, trace)
	assert.Equal(t, "late", a.Filters[0].Name, "descriptor filters are not reordered in place")
}

func TestPipeline_FilterShortCircuits(t *testing.T) {
	p, hs, fs := newTestPipeline(t)
	called := false
	hs.Register("h", func(context.Context, *Request) (any, int, error) { called = true; return nil, 0, nil })
	fs.Register("deny", func(_ context.Context, ic *Context, _ action.Filter, _ Next) error {
		http.Error(ic.Writer, "Forbidden", http.StatusForbidden)
		return nil
	})

	ic, rec := newContext(&action.Descriptor{Handler: "h", Filters: []action.Filter{{Name: "deny"}}}, "", nil)
	inv, err := p.CreateInvoker(ic)
	require.NoError(t, err)
	require.NoError(t, inv.Invoke(context.Background()))

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPipeline_CreateInvokerErrors(t *testing.T) {
	p, hs, _ := newTestPipeline(t)
	hs.Register("h", func(context.Context, *Request) (any, int, error) { return nil, 0, nil })

	_, err := p.CreateInvoker(nil)
	assert.ErrorIs(t, err, ErrNoAction)

	ic, _ := newContext(&action.Descriptor{Handler: "missing"}, "", nil)
	_, err = p.CreateInvoker(ic)
	assert.ErrorIs(t, err, ErrHandlerNotFound)

	ic, _ = newContext(&action.Descriptor{Handler: "h", Filters: []action.Filter{{Name: "nope"}}}, "", nil)
	_, err = p.CreateInvoker(ic)
	assert.ErrorIs(t, err, ErrFilterNotFound)

	ic, _ = newContext(&action.Descriptor{Handler: "h", Codec: "xml"}, "", nil)
	_, err = p.CreateInvoker(ic)
	assert.ErrorIs(t, err, ErrUnknownCodec)
}

func TestFilters_DuplicatePanics(t *testing.T) {
	fs := NewFilters()
	noop := func(ctx context.Context, _ *Context, _ action.Filter, next Next) error { return next(ctx) }
	fs.Register("a", noop)
	assert.Panics(t, func() { fs.Register("a", noop) })
}

func TestSinkFunc(t *testing.T) {
	var got *Context
	ic := &Context{}
	SinkFunc(func(c *Context) { got = c }).Publish(ic)
	assert.Same(t, ic, got)
}
