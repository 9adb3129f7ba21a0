package container

import "github.com/prometheus/client_golang/prometheus"

// Resolution outcomes used as the "result" label.
const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

type metrics struct {
	resolutions *prometheus.CounterVec
	boots       prometheus.Counter
	promotions  prometheus.Counter
}

// newMetrics builds the container collectors. A nil registerer leaves them
// unregistered, which keeps the counters usable without exporting them.
func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "simpla",
				Subsystem: "container",
				Name:      "resolutions_total",
				Help:      "Service lookups through Get, by result.",
			},
			[]string{"result"},
		),
		boots: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "simpla",
				Subsystem: "container",
				Name:      "provider_boots_total",
				Help:      "Service providers registered and booted.",
			},
		),
		promotions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "simpla",
				Subsystem: "container",
				Name:      "deferred_promotions_total",
				Help:      "Deferred providers promoted on first request.",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.resolutions, m.boots, m.promotions)
	}
	return m
}

func (m *metrics) resolved(result string) {
	m.resolutions.WithLabelValues(result).Inc()
}
