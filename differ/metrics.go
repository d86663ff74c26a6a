package differ

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the instruments published by a StateDiffer.
type Metrics struct {
	diffDuration *prometheus.HistogramVec
}

func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		diffDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fusionamm",
				Subsystem: "differ",
				Name:      "diff_duration_seconds",
				Help:      "Time spent computing a full state diff.",
				Buckets:   prometheus.DefBuckets,
			},
			nil,
		),
	}
	registry.MustRegister(m.diffDuration)
	return m
}
