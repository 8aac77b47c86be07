package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/joeydtaylor/steeze-dispatch/pkg/action"
	"github.com/joeydtaylor/steeze-dispatch/pkg/changetoken"
	"github.com/joeydtaylor/steeze-dispatch/pkg/invoke"
	"github.com/joeydtaylor/steeze-dispatch/pkg/route"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// recordingFactory records each context it builds an invoker for.
type recordingFactory struct {
	mu    sync.Mutex
	calls []*invoke.Context
	runs  int
	err   error
}

func (f *recordingFactory) CreateInvoker(ic *invoke.Context) (invoke.Invoker, error) {
	f.mu.Lock()
	f.calls = append(f.calls, ic)
	f.mu.Unlock()
	return invoke.InvokerFunc(func(context.Context) error {
		f.mu.Lock()
		f.runs++
		f.mu.Unlock()
		return f.err
	}), nil
}

// staticProvider is an action.Provider with a fixed snapshot and providers.
type staticProvider struct {
	actions   []*action.Descriptor
	providers []changetoken.Provider
}

func (p staticProvider) CurrentSnapshot() []*action.Descriptor   { return p.actions }
func (p staticProvider) ChangeProviders() []changetoken.Provider { return p.providers }

func signalProvider(s *changetoken.Signal) changetoken.Provider {
	return changetoken.ProviderFunc(func() changetoken.Token { return s })
}

func newSource(t *testing.T, cfg Config) *DataSource {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = zaptest.NewLogger(t)
	}
	ds, err := New(cfg)
	require.NoError(t, err)
	return ds
}

func dispatch(t *testing.T, ep *Endpoint, method string, vals route.Values) (Outcome, error) {
	t.Helper()
	req := httptest.NewRequest(method, "/", nil)
	req = req.WithContext(WithMatch(req.Context(), ep, vals))
	return ep.Dispatch(httptest.NewRecorder(), req)
}

var get = http.MethodGet
