package metrics

import "github.com/prometheus/client_golang/prometheus"

// ScreeningMetrics exposes counters/histograms for the screening turn flow.
type ScreeningMetrics struct {
	turnsTotal       *prometheus.CounterVec
	oracleTotal      *prometheus.CounterVec
	predictionsTotal *prometheus.CounterVec
	turnLatency      *prometheus.HistogramVec
}

func NewScreeningMetrics(reg prometheus.Registerer) *ScreeningMetrics {
	m := &ScreeningMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "screening",
			Subsystem: "turn",
			Name:      "total",
			Help:      "Total screening turns by outcome",
		}, []string{"outcome"}),
		oracleTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "screening",
			Subsystem: "oracle",
			Name:      "requests_total",
			Help:      "Total outbound oracle invocations",
		}, []string{"oracle", "status"}),
		predictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "screening",
			Subsystem: "prediction",
			Name:      "total",
			Help:      "Completed screenings by predicted label",
		}, []string{"label"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "screening",
			Subsystem: "turn",
			Name:      "latency_seconds",
			Help:      "Latency of full screening turns",
			// Turns usually carry one or two LLM round trips.
			Buckets: []float64{0.25, 0.5, 1, 2, 3, 4, 5, 6, 8, 10, 15, 20, 30},
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.oracleTotal, m.predictionsTotal, m.turnLatency)
	return m
}

func (m *ScreeningMetrics) ObserveTurn(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(outcome).Inc()
	m.turnLatency.WithLabelValues(outcome).Observe(seconds)
}

func (m *ScreeningMetrics) ObserveOracle(oracle, status string) {
	if m == nil {
		return
	}
	m.oracleTotal.WithLabelValues(oracle, status).Inc()
}

func (m *ScreeningMetrics) ObservePrediction(label string) {
	if m == nil {
		return
	}
	m.predictionsTotal.WithLabelValues(label).Inc()
}
