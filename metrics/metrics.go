package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "settlement"

// Metrics are the settlement counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Settlements           *prometheus.CounterVec
	SettlementDuration    *prometheus.HistogramVec
	SoloTaxCollected      prometheus.Counter
	RepeatTaxCollected    prometheus.Counter
	Redistributions       *prometheus.CounterVec
	SoloTaxPoolIncrements prometheus.Counter
}

// New registers the settlement metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Settlement runs by mode (preview, commit) and outcome.",
		}, []string{"mode", "outcome"}),
		SettlementDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "duration_seconds",
			Help:      "Time spent computing and committing a settlement.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		SoloTaxCollected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solo_tax_collected_total",
			Help:      "Solo tax collected by committed settlements.",
		}),
		RepeatTaxCollected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repeat_winner_tax_collected_total",
			Help:      "Repeat-winner tax collected by committed settlements.",
		}),
		Redistributions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redistributions_total",
			Help:      "Redistribution task attempts by outcome.",
		}, []string{"outcome"}),
		SoloTaxPoolIncrements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solo_tax_pool_credited_total",
			Help:      "Amount credited to season solo tax pools.",
		}),
	}
	reg.MustRegister(
		m.Settlements,
		m.SettlementDuration,
		m.SoloTaxCollected,
		m.RepeatTaxCollected,
		m.Redistributions,
		m.SoloTaxPoolIncrements,
	)
	return m
}

func (m *Metrics) ObserveSettlement(mode, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.Settlements.WithLabelValues(mode, outcome).Inc()
	m.SettlementDuration.WithLabelValues(mode).Observe(seconds)
}

func (m *Metrics) AddTaxes(repeat, solo int64) {
	if m == nil {
		return
	}
	m.RepeatTaxCollected.Add(float64(repeat))
	m.SoloTaxCollected.Add(float64(solo))
}

func (m *Metrics) ObserveRedistribution(outcome string, poolCredit int64) {
	if m == nil {
		return
	}
	m.Redistributions.WithLabelValues(outcome).Inc()
	if poolCredit > 0 {
		m.SoloTaxPoolIncrements.Add(float64(poolCredit))
	}
}
