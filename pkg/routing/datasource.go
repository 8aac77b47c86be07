package routing

import (
	"errors"
	"strings"

	"github.com/joeydtaylor/steeze-dispatch/pkg/action"
	"github.com/joeydtaylor/steeze-dispatch/pkg/changetoken"
	"github.com/joeydtaylor/steeze-dispatch/pkg/invoke"
	"go.uber.org/zap"
)

var (
	ErrNoActionProvider  = errors.New("routing: action provider required")
	ErrNoInvokerFactory  = errors.New("routing: invoker factory required")
	ErrNoChangeProviders = errors.New("routing: action provider returned no change providers")
	ErrNoSelector        = errors.New("routing: dynamic routes configured without an action selector")
)

// Config wires a DataSource.
type Config struct {
	Actions  action.Provider
	Invokers invoke.Factory
	// Selector is required only when Routes is non-empty.
	Selector action.Selector
	Routes   []DynamicRoute

	// Sink, when set, receives each invocation context before it runs.
	Sink     invoke.Sink
	Observer Observer
	Logger   *zap.Logger
}

// DataSource is a frozen endpoint table plus the change token of the action set
// it was built from.
type DataSource struct {
	endpoints       []*Endpoint
	changeProviders []changetoken.Provider
	token           changetoken.Cell[changetoken.Token]
}

// New builds the table from the provider's current snapshot. Missing
// collaborators are configuration errors and are never retried.
func New(cfg Config) (*DataSource, error) {
	if cfg.Actions == nil {
		return nil, ErrNoActionProvider
	}
	if cfg.Invokers == nil {
		return nil, ErrNoInvokerFactory
	}
	cps := cfg.Actions.ChangeProviders()
	if cps == nil {
		return nil, ErrNoChangeProviders
	}
	if len(cfg.Routes) > 0 && cfg.Selector == nil {
		return nil, ErrNoSelector
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	d := &dispatcher{
		invokers: cfg.Invokers,
		selector: cfg.Selector,
		sink:     cfg.Sink,
		observe:  cfg.Observer,
		log:      log,
	}
	snapshot := cfg.Actions.CurrentSnapshot()
	eps := d.build(snapshot, cfg.Routes)

	bound := 0
	for _, ep := range eps {
		if ep.Kind() == KindBound {
			bound++
		}
		log.Debug("endpoint",
			zap.String("template", ep.Template),
			zap.String("kind", ep.Kind().String()),
			zap.String("name", ep.Name()),
			zap.Int("order", ep.Order),
			zap.String("display", ep.DisplayName),
		)
	}
	log.Info("endpoint table built",
		zap.Int("actions", len(snapshot)),
		zap.Int("bound", bound),
		zap.Int("dynamic", len(eps)-bound),
		zap.Int("changeProviders", len(cps)),
	)

	return &DataSource{
		endpoints:       eps,
		changeProviders: append([]changetoken.Provider{}, cps...),
	}, nil
}

// Endpoints returns the table. The slice is a copy; the endpoints are shared.
func (ds *DataSource) Endpoints() []*Endpoint {
	return append([]*Endpoint(nil), ds.endpoints...)
}

// ChangeToken aggregates the action provider's change tokens on first use and
// returns the same token for the lifetime of ds. Once it fires, ds is stale.
func (ds *DataSource) ChangeToken() changetoken.Token {
	return ds.token.Get(func() changetoken.Token {
		return changetoken.Aggregate(ds.changeProviders)
	})
}

// EndpointByName returns the first endpoint whose address name matches
// case-insensitively. Dynamic routes configured without a name answer to "".
func (ds *DataSource) EndpointByName(name string) (*Endpoint, bool) {
	for _, ep := range ds.endpoints {
		if ep.Address != nil && strings.EqualFold(ep.Address.Name, name) {
			return ep, true
		}
	}
	return nil, false
}
