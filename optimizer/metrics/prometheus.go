package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder emits optimizer metrics through prometheus collectors.
type PrometheusRecorder struct {
	counters  *prometheus.CounterVec
	gauges    *prometheus.GaugeVec
	histogram *prometheus.HistogramVec
}

// NewPrometheusRecorder registers the optimizer collectors on the given
// registerer (use prometheus.DefaultRegisterer for the default registry).
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	counters := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bridge_optimizer",
			Name:      "events_total",
			Help:      "Optimizer event counters",
		},
		[]string{"event"},
	)

	gauges := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "bridge_optimizer",
			Name:      "observed_value",
			Help:      "Last observed value per metric, e.g. training loss",
		},
		[]string{"metric"},
	)

	histogram := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bridge_optimizer",
			Name:      "operation_seconds",
			Help:      "Optimizer operation latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	reg.MustRegister(counters, gauges, histogram)

	return &PrometheusRecorder{
		counters:  counters,
		gauges:    gauges,
		histogram: histogram,
	}
}

func (p *PrometheusRecorder) IncCounter(name string, _ map[string]string) {
	p.counters.With(prometheus.Labels{"event": name}).Inc()
}

func (p *PrometheusRecorder) SetGauge(name string, value float64, _ map[string]string) {
	p.gauges.With(prometheus.Labels{"metric": name}).Set(value)
}

func (p *PrometheusRecorder) ObserveDuration(name string, d time.Duration, _ map[string]string) {
	p.histogram.With(prometheus.Labels{"operation": name}).Observe(d.Seconds())
}
