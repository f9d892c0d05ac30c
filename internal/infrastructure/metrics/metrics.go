package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "order_adapter"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests handled, by route, method and status class.",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by route and method.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		},
		[]string{"route", "method"},
	)

	ProviderCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "Calls to the payment provider, by provider, operation and outcome.",
		},
		[]string{"provider", "operation", "outcome"},
	)

	// provider latency is dominated by the network round trip, so buckets go higher
	ProviderCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_call_duration_seconds",
			Help:      "Payment provider call latency, by provider and operation.",
			Buckets:   []float64{0.05, 0.1, 0.2, 0.3, 0.5, 0.8, 1.2, 2, 3, 5, 10, 15, 30},
		},
		[]string{"provider", "operation"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration, ProviderCallsTotal, ProviderCallDuration)
}

func IncHTTPRequest(route, method, status string) {
	HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
}

func ObserveHTTPDuration(route, method string, seconds float64) {
	HTTPRequestDuration.WithLabelValues(route, method).Observe(seconds)
}

func IncProviderCall(provider, operation, outcome string) {
	ProviderCallsTotal.WithLabelValues(provider, operation, outcome).Inc()
}

func ObserveProviderDuration(provider, operation string, seconds float64) {
	ProviderCallDuration.WithLabelValues(provider, operation).Observe(seconds)
}
