package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Metrics captures billing-core health signals.
type Metrics struct {
	paymentsApplied  *prometheus.CounterVec
	paymentAmount    prometheus.Counter
	usageBilled      prometheus.Counter
	usageRecorded    prometheus.Counter
	priceUnresolved  *prometheus.CounterVec
	balanceDriftSeen prometheus.Counter
}

func New() *Metrics {
	return newMetrics(prometheus.DefaultRegisterer)
}

func newMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		paymentsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carehome_payments_applied_total",
			Help: "Payments applied, by outcome.",
		}, []string{"outcome"}),
		paymentAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carehome_payment_amount_minor_units_total",
			Help: "Total payment volume in minor units.",
		}),
		usageBilled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carehome_usage_records_billed_total",
			Help: "Usage records transitioned to Billed.",
		}),
		usageRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carehome_usage_records_recorded_total",
			Help: "Usage records created.",
		}),
		priceUnresolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carehome_price_unresolved_total",
			Help: "Catalog lookups that exhausted the fallback chain.",
		}, []string{"category"}),
		balanceDriftSeen: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carehome_balance_drift_detected_total",
			Help: "Statements where the cached balance disagreed with the ledger sum.",
		}),
	}

	if registerer != nil {
		registerer.MustRegister(
			m.paymentsApplied,
			m.paymentAmount,
			m.usageBilled,
			m.usageRecorded,
			m.priceUnresolved,
			m.balanceDriftSeen,
		)
	}
	return m
}

func (m *Metrics) RecordPayment(outcome string, amount int64, billed int64) {
	if m == nil {
		return
	}
	m.paymentsApplied.WithLabelValues(outcome).Inc()
	if amount > 0 {
		m.paymentAmount.Add(float64(amount))
	}
	if billed > 0 {
		m.usageBilled.Add(float64(billed))
	}
}

func (m *Metrics) RecordUsage() {
	if m == nil {
		return
	}
	m.usageRecorded.Inc()
}

func (m *Metrics) RecordPriceUnresolved(category string) {
	if m == nil {
		return
	}
	m.priceUnresolved.WithLabelValues(category).Inc()
}

func (m *Metrics) RecordBalanceDrift() {
	if m == nil {
		return
	}
	m.balanceDriftSeen.Inc()
}

// Module wires the billing metrics instruments.
var Module = fx.Module("observability.metrics",
	fx.Provide(New),
)
