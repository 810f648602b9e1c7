package httphandler

import (
	// Packages
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

///////////////////////////////////////////////////////////////////////////////
// HANDLER FUNCTIONS

// Path: /metrics
// GET returns sampler and process metrics in the Prometheus text format.
func MetricsHandler() (string, httprequest.PathItem) {
	return "metrics", httprequest.NewPathItem(
		"Metrics",
		"Sampler and process metrics in the Prometheus text format",
		tag,
	).Get(promhttp.Handler().ServeHTTP, "Prometheus metrics")
}
