package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// UpstreamRequests counts outbound provider calls by provider and outcome.
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trader_intel_upstream_requests_total",
			Help: "Number of upstream provider requests by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)

	// AnalysesRun counts completed batch token analyses.
	AnalysesRun = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trader_intel_analyses_total",
			Help: "Number of batch token analyses performed.",
		},
	)

	// QualifyingTraders observes how many qualifying traders each analysis found.
	QualifyingTraders = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trader_intel_qualifying_traders",
			Help:    "Qualifying traders found per batch analysis.",
			Buckets: prometheus.LinearBuckets(0, 10, 6),
		},
	)

	// GatewayRelays counts relayed gateway requests by provider and status class.
	GatewayRelays = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trader_intel_gateway_relays_total",
			Help: "Number of gateway relay requests by provider and status class.",
		},
		[]string{"provider", "status"},
	)
)

// MustRegisterMetrics registers all collectors with the default registry.
func MustRegisterMetrics() {
	prometheus.MustRegister(UpstreamRequests, AnalysesRun, QualifyingTraders, GatewayRelays)
}
