package ontology

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for ontology queries. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	queryTotal    *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	triples       prometheus.Gauge
	classes       prometheus.Gauge
}

// NewMetrics creates query metrics and registers them with registerer.
// It returns nil when registerer is nil.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		return nil
	}

	m := &Metrics{
		queryTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brickshape_query_total",
				Help: "Total number of ontology queries",
			},
			[]string{"operation", "status"},
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brickshape_query_duration_seconds",
				Help:    "Ontology query latency",
				Buckets: prometheus.ExponentialBuckets(0.00005, 4, 10),
			},
			[]string{"operation"},
		),
		triples: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "brickshape_loaded_triples",
			Help: "Number of distinct triples in the current ontology",
		}),
		classes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "brickshape_loaded_classes",
			Help: "Number of owl:Class subjects in the current ontology",
		}),
	}

	registerer.MustRegister(m.queryTotal, m.queryDuration, m.triples, m.classes)
	return m
}

func (m *Metrics) recordQuery(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.queryTotal.WithLabelValues(operation, status).Inc()
	m.queryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) recordLoad(triples, classes int) {
	if m == nil {
		return
	}
	m.triples.Set(float64(triples))
	m.classes.Set(float64(classes))
}
