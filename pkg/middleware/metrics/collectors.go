package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	responseTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "response_time",
			Help:    "http response time.",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60},
		},
	)

	totalHttpRequestsToUri = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_to_uri", Help: "http requests to uri"},
		[]string{"code", "uri", "method"},
	)

	totalHttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests", Help: "http requests by code, and method"},
		[]string{"code", "method"},
	)

	dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "endpoint_dispatch_total", Help: "endpoint dispatches by kind, outcome and error"},
		[]string{"kind", "outcome", "error"},
	)

	endpointTableSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "endpoint_table_size", Help: "endpoints in the live table by kind"},
		[]string{"kind"},
	)

	endpointTableRebuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "endpoint_table_rebuilds_total", Help: "endpoint table rebuilds by result"},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		responseTime,
		totalHttpRequestsToUri,
		totalHttpRequests,
		dispatchTotal,
		endpointTableSize,
		endpointTableRebuilds,
	)
}
