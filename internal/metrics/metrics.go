// Package metrics holds the Prometheus collectors recorded by the API access layer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPAttempts counts individual network attempts. outcome is "response"
	// when the server answered (any status) and "transport_error" otherwise.
	HTTPAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dreamboard_http_attempts_total",
			Help: "Total number of HTTP attempts issued by the API client",
		},
		[]string{"resource", "method", "outcome"},
	)

	// APIErrors counts classified failures per resource and error kind.
	APIErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dreamboard_api_errors_total",
			Help: "Total number of classified API errors",
		},
		[]string{"resource", "kind"},
	)

	// Degradations counts calls answered with fallback content.
	Degradations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dreamboard_degraded_total",
			Help: "Total number of calls answered with fallback content",
		},
		[]string{"resource", "policy"},
	)
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
