package ops

import (
	"github.com/luno/weighted"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	appends = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "weighted",
		Subsystem: "distribution",
		Name:      "appends_total",
		Help:      "Keys added to a distribution",
	}, []string{"distribution"})
	updates = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "weighted",
		Subsystem: "distribution",
		Name:      "updates_total",
		Help:      "Weight changes of existing keys",
	}, []string{"distribution"})
	samples = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "weighted",
		Subsystem: "distribution",
		Name:      "samples_total",
		Help:      "Keys drawn from a distribution",
	}, []string{"distribution"})
	rejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "weighted",
		Subsystem: "distribution",
		Name:      "rejected_total",
		Help:      "Weights rejected as negative or overflowing",
	}, []string{"distribution"})
)

func init() {
	prometheus.MustRegister(appends, updates, samples, rejected)
}

func distributionMetrics(name string) weighted.Metrics {
	return weighted.Metrics{
		Appends:  appends.WithLabelValues(name),
		Updates:  updates.WithLabelValues(name),
		Samples:  samples.WithLabelValues(name),
		Rejected: rejected.WithLabelValues(name),
	}
}
