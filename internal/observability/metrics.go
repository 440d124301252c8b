// Package observability provides metrics and tracing instrumentation.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersCreated counts orders by creation flow and initial status.
	OrdersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vendio_orders_created_total",
		Help: "Total number of orders created by flow and initial status",
	}, []string{"flow", "status"})

	// PurchasesCreated counts payment-link purchases.
	PurchasesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vendio_purchases_created_total",
		Help: "Total number of payment-link purchases created",
	})

	// OrderStatusTransitions counts reconciliation and lifecycle transitions.
	OrderStatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vendio_order_status_transitions_total",
		Help: "Total number of order status transitions",
	}, []string{"from", "to"})

	// EmailsSent counts notification email attempts by template and outcome.
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vendio_emails_sent_total",
		Help: "Total number of notification emails by template and outcome",
	}, []string{"template", "outcome"})

	// SlugRetries counts slug allocations that needed a numeric suffix.
	SlugRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vendio_slug_retries_total",
		Help: "Total number of slug allocations that probed past the bare candidate",
	}, []string{"entity"})

	// WebSocketBackpressureDrops counts feed messages dropped because a
	// client's send buffer was full or closed.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vendio_websocket_backpressure_drops_total",
		Help: "Total number of websocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vendio_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}
