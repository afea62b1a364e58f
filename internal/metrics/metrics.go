// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BillsRecorded counts meter-reading bills recorded, by connection
	// type.
	BillsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waterworks_bills_recorded_total",
		Help: "Number of meter-reading bills recorded.",
	}, []string{"connection"})

	// BilledAmount accumulates the peso value of recorded bills.
	BilledAmount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waterworks_billed_amount_total",
		Help: "Total amount billed across all recorded bills.",
	})

	// PaymentsSettled counts payment transactions.
	PaymentsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waterworks_payments_settled_total",
		Help: "Number of payment transactions recorded.",
	})

	// CollectedAmount accumulates the peso value of settled bills.
	CollectedAmount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waterworks_collected_amount_total",
		Help: "Total amount collected across all payments.",
	})

	// CustomersRegistered counts new service accounts.
	CustomersRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waterworks_customers_registered_total",
		Help: "Number of customer accounts registered.",
	})
)
