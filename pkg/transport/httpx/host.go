package httpx

import (
	"errors"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/joeydtaylor/steeze-dispatch/pkg/action"
	"github.com/joeydtaylor/steeze-dispatch/pkg/changetoken"
	"github.com/joeydtaylor/steeze-dispatch/pkg/routing"
	"go.uber.org/zap"
)

// ErrHostClosed is returned by Rebuild after Close.
var ErrHostClosed = errors.New("httpx: host closed")

// SourceFunc builds a fresh data source from the current action set.
type SourceFunc func() (*routing.DataSource, error)

// HandlerFunc turns a data source into a servable handler, typically by
// calling BuildRouter on a new Router.
type HandlerFunc func(ds *routing.DataSource) http.Handler

// HostOptions tune a Host.
type HostOptions struct {
	// OnBuild sees every successfully built data source.
	OnBuild func(ds *routing.DataSource)
	// OnRebuild sees the result of every token-triggered rebuild.
	OnRebuild func(err error)
	Log       *zap.Logger
}

type generation struct {
	ds      *routing.DataSource
	handler http.Handler
}

// Host owns the live endpoint table. It serves the current generation and,
// when that generation's change token fires, builds a new data source and
// handler and swaps them in. In-flight requests finish on the generation they
// started with. A failed rebuild keeps serving the previous table and stops
// watching until the next successful Rebuild.
type Host struct {
	actions action.Provider
	source  SourceFunc
	handler HandlerFunc
	opts    HostOptions
	log     *zap.Logger

	cur atomic.Pointer[generation]

	mu         sync.Mutex
	closed     bool
	unregister func()
}

// NewHost builds the first generation. An error here is fatal to the caller.
// actions is the provider source builds from; its tokens are taken before
// every build so a change that lands mid-build still triggers a rebuild. A
// nil actions watches only the built data source's token.
func NewHost(actions action.Provider, source SourceFunc, handler HandlerFunc, opts HostOptions) (*Host, error) {
	h := &Host{actions: actions, source: source, handler: handler, opts: opts, log: opts.Log}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.swapLocked(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Host) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.cur.Load().handler.ServeHTTP(w, r)
}

// DataSource is the data source currently served.
func (h *Host) DataSource() *routing.DataSource { return h.cur.Load().ds }

// Rebuild builds and swaps in a new generation now.
func (h *Host) Rebuild() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHostClosed
	}
	return h.swapLocked()
}

// Close stops watching for changes. The current table keeps serving.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	if h.unregister != nil {
		h.unregister()
		h.unregister = nil
	}
}

func (h *Host) swapLocked() error {
	// Taken before the snapshot: a mutation between here and the end of
	// source() fires this token even though the data source's own token is
	// fetched later.
	var upstream changetoken.Token
	if h.actions != nil {
		upstream = changetoken.Aggregate(h.actions.ChangeProviders())
	}
	ds, err := h.source()
	if err != nil {
		return err
	}
	token := ds.ChangeToken()
	if upstream != nil {
		token = changetoken.NewComposite(upstream, token)
	}
	h.cur.Store(&generation{ds: ds, handler: h.handler(ds)})
	if h.opts.OnBuild != nil {
		h.opts.OnBuild(ds)
	}
	if h.unregister != nil {
		h.unregister()
	}
	// A token that already fired runs the callback synchronously, so the
	// rebuild happens on its own goroutine.
	h.unregister = token.RegisterChangeCallback(func() { go h.changed() })
	h.log.Info("endpoint table swapped", zap.Int("endpoints", len(ds.Endpoints())))
	return nil
}

func (h *Host) changed() {
	err := h.Rebuild()
	if errors.Is(err, ErrHostClosed) {
		return
	}
	if err != nil {
		h.log.Error("endpoint table rebuild failed; keeping previous table", zap.Error(err))
	}
	if h.opts.OnRebuild != nil {
		h.opts.OnRebuild(err)
	}
}
