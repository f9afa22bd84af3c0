package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	httpRequestsTotal    *prometheus.CounterVec
	httpLatencySeconds   *prometheus.HistogramVec
	httpErrorsTotal      *prometheus.CounterVec
	ledgerMutationsTotal *prometheus.CounterVec
	paymentsTotal        *prometheus.CounterVec
	paymentAmountTotal   *prometheus.CounterVec
	promotionsTotal      *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledger_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		ledgerMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_mutations_total",
			Help: "Student ledger mutations by operation and result.",
		}, []string{"operation", "result"})

		paymentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_gateway_payments_total",
			Help: "Gateway payments processed by payment type and outcome.",
		}, []string{"payment_type", "outcome"})

		paymentAmountTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_gateway_payment_amount_total",
			Help: "Sum of accepted gateway payment amounts by payment type.",
		}, []string{"payment_type"})

		promotionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_promotion_outcomes_total",
			Help: "Promotion attempts by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			ledgerMutationsTotal,
			paymentsTotal,
			paymentAmountTotal,
			promotionsTotal,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the error response counter.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// LedgerMutations counts ledger writes per operation.
func LedgerMutations() *prometheus.CounterVec {
	RegisterMetrics()
	return ledgerMutationsTotal
}

// GatewayPayments counts gateway payments.
func GatewayPayments() *prometheus.CounterVec {
	RegisterMetrics()
	return paymentsTotal
}

// GatewayPaymentAmount sums accepted payment amounts.
func GatewayPaymentAmount() *prometheus.CounterVec {
	RegisterMetrics()
	return paymentAmountTotal
}

// PromotionOutcomes counts promotion attempts.
func PromotionOutcomes() *prometheus.CounterVec {
	RegisterMetrics()
	return promotionsTotal
}
