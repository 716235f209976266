// Package metrics holds the Prometheus collectors of the campaign workflow API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "campaign_workflow"

var (
	// stageTransitionsTotal counts committed stage changes.
	stageTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_transitions_total",
			Help:      "Total number of committed workflow stage transitions",
		},
		[]string{"from", "to"},
	)

	// operationFailuresTotal counts rejected or failed workflow and campaign operations.
	operationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failures_total",
			Help:      "Total number of failed operations by error type",
		},
		[]string{"operation", "type"},
	)

	// bulkItemsTotal counts bulk advance items by outcome.
	bulkItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_advance_items_total",
			Help:      "Total number of bulk advance items processed",
		},
		[]string{"status"}, // status: success, error
	)

	// campaignsCreatedTotal counts created campaigns by type.
	campaignsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "campaigns_created_total",
			Help:      "Total number of campaigns created",
		},
		[]string{"campaign_type"},
	)

	// httpRequestDuration is a histogram of HTTP request latency.
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	allMetrics = []prometheus.Collector{
		stageTransitionsTotal,
		operationFailuresTotal,
		bulkItemsTotal,
		campaignsCreatedTotal,
		httpRequestDuration,
	}
)

// NewRegistry returns a registry holding every API collector plus Go runtime metrics
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	for _, collector := range allMetrics {
		reg.MustRegister(collector)
	}
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler serves the metrics of reg in the Prometheus exposition format
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// RecordTransition records a committed stage change.
func RecordTransition(from, to string) {
	stageTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordFailure records a failed operation.
func RecordFailure(operation, errType string) {
	operationFailuresTotal.WithLabelValues(operation, errType).Inc()
}

// RecordBulkItem records the outcome of one bulk advance item.
func RecordBulkItem(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	bulkItemsTotal.WithLabelValues(status).Inc()
}

// RecordCampaignCreated records a created campaign.
func RecordCampaignCreated(campaignType string) {
	campaignsCreatedTotal.WithLabelValues(campaignType).Inc()
}

// RecordHTTPRequest records the latency of a served request.
func RecordHTTPRequest(method, route, status string, durationSeconds float64) {
	httpRequestDuration.WithLabelValues(method, route, status).Observe(durationSeconds)
}
