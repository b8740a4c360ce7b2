package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the portal.
type Metrics struct {
	Lookups        *prometheus.CounterVec
	SlipsRendered  prometheus.Counter
	Exports        *prometheus.CounterVec
	ExportDuration prometheus.Histogram
	BeaconEvents   *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics against the given
// registerer. Pass prometheus.DefaultRegisterer in main and a fresh registry
// in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Lookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_lookups_total",
			Help: "Reference lookups by outcome",
		}, []string{"outcome"}),
		SlipsRendered: f.NewCounter(prometheus.CounterOpts{
			Name: "portal_slips_rendered_total",
			Help: "Slip documents rendered",
		}),
		Exports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_exports_total",
			Help: "Slip exports by mode and outcome",
		}, []string{"mode", "outcome"}),
		ExportDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "portal_export_duration_seconds",
			Help:    "Wall time of PDF export including raster capture",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		BeaconEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_beacon_events_total",
			Help: "Telemetry beacon emissions by outcome",
		}, []string{"outcome"}),
	}
}
