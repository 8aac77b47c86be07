package metrics

import (
	"strconv"

	"github.com/joeydtaylor/steeze-dispatch/pkg/routing"
)

// ObserveDispatch counts one dispatch. It satisfies routing.Observer.
func ObserveDispatch(ep *routing.Endpoint, o routing.Outcome, err error) {
	dispatchTotal.WithLabelValues(ep.Kind().String(), o.String(), strconv.FormatBool(err != nil)).Inc()
}

var _ routing.Observer = ObserveDispatch

// TableBuilt records the size of a freshly built table.
func TableBuilt(ds *routing.DataSource) {
	counts := map[routing.Kind]int{routing.KindBound: 0, routing.KindResolved: 0}
	for _, ep := range ds.Endpoints() {
		counts[ep.Kind()]++
	}
	for k, n := range counts {
		endpointTableSize.WithLabelValues(k.String()).Set(float64(n))
	}
}

// Rebuilt counts a table rebuild triggered by a change token.
func Rebuilt(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	endpointTableRebuilds.WithLabelValues(result).Inc()
}
