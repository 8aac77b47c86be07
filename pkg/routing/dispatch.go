package routing

import (
	"net/http"

	"github.com/joeydtaylor/steeze-dispatch/pkg/action"
	"github.com/joeydtaylor/steeze-dispatch/pkg/invoke"
	"github.com/joeydtaylor/steeze-dispatch/pkg/route"
	"go.uber.org/zap"
)

// Observer sees every dispatch result. Metrics hook in here.
type Observer func(ep *Endpoint, o Outcome, err error)

// dispatcher builds the per-endpoint dispatch functions. It holds collaborators
// only; per-request state lives in the closures' locals.
type dispatcher struct {
	invokers invoke.Factory
	selector action.Selector
	sink     invoke.Sink
	observe  Observer
	log      *zap.Logger
}

// dispatchFor returns ep's dispatch function. ep.Target must already be set.
func (d *dispatcher) dispatchFor(ep *Endpoint) DispatchFunc {
	return func(w http.ResponseWriter, r *http.Request) (Outcome, error) {
		rd := route.NewData(ep.Template, matchedValues(r.Context()))

		a := ep.Target.Action
		if ep.Target.Kind == KindResolved {
			a = ep.Target.Resolve(&action.RouteContext{Request: r, RouteData: rd})
			if a == nil {
				d.done(ep, OutcomeNoAction, nil)
				return OutcomeNoAction, nil
			}
		}

		err := d.invoke(w, r, rd, a)
		d.done(ep, OutcomeInvoked, err)
		return OutcomeInvoked, err
	}
}

func (d *dispatcher) invoke(w http.ResponseWriter, r *http.Request, rd *route.Data, a *action.Descriptor) error {
	ic := invoke.NewContext(w, r, rd, a)
	if d.sink != nil {
		d.sink.Publish(ic)
	}
	inv, err := d.invokers.CreateInvoker(ic)
	if err != nil {
		return err
	}
	return inv.Invoke(r.Context())
}

// resolverFor defers action selection for a dynamic template to request time.
func (d *dispatcher) resolverFor(template string) Resolver {
	return func(rc *action.RouteContext) *action.Descriptor {
		candidates := d.selector.SelectCandidates(rc)
		if len(candidates) == 0 {
			d.log.Debug("no candidate actions",
				zap.String("template", template),
				zap.Any("routeValues", rc.RouteData.Values),
			)
			return nil
		}
		best := d.selector.SelectBest(rc, candidates)
		if best == nil {
			d.log.Debug("no best action",
				zap.String("template", template),
				zap.Int("candidates", len(candidates)),
			)
		}
		return best
	}
}

func (d *dispatcher) done(ep *Endpoint, o Outcome, err error) {
	if d.observe != nil {
		d.observe(ep, o, err)
	}
}
