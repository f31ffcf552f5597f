// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by method, route and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "invoicer",
		Name:      "http_requests_total",
		Help:      "HTTP requests handled, by method, route and status code.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency by method and route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "invoicer",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// InvoicesCreated counts successfully stored invoices.
	InvoicesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "invoicer",
		Name:      "invoices_created_total",
		Help:      "Invoices created.",
	})

	// PaymentsRecorded counts payments appended to invoices.
	PaymentsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "invoicer",
		Name:      "payments_recorded_total",
		Help:      "Payments recorded against invoices.",
	})

	// StockReservationFailures counts invoice creations rejected by stock,
	// by error code.
	StockReservationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "invoicer",
		Name:      "stock_reservation_failures_total",
		Help:      "Invoice creations rejected for missing or insufficient stock.",
	}, []string{"code"})
)
