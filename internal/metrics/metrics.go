// Package metrics exports Prometheus collectors fed by search step reports.
package metrics

import (
	"github.com/pdrpinto/gridastar"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the search collectors. Observe is safe for concurrent use.
type Recorder struct {
	steps    prometheus.Counter
	searches *prometheus.CounterVec
	expanded prometheus.Histogram
	pathLen  prometheus.Histogram
	sessions prometheus.Gauge
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer
// to expose them through promhttp.Handler.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		steps: factory.NewCounter(prometheus.CounterOpts{
			Name: "gridastar_steps_total",
			Help: "Total search steps taken",
		}),
		// Labels: "found", "unreachable"
		searches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gridastar_searches_total",
			Help: "Finished searches by outcome",
		}, []string{"outcome"}),
		expanded: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gridastar_expanded_cells",
			Help:    "Cells expanded per finished search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		pathLen: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gridastar_path_length",
			Help:    "Moves in found paths",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gridastar_server_sessions",
			Help: "Searches currently held by the web server",
		}),
	}
}

// Observe records one step report. A nil Recorder ignores everything.
func (r *Recorder) Observe(report gridastar.StepReport) {
	if r == nil {
		return
	}
	r.steps.Inc()
	if !report.Done() {
		return
	}
	r.expanded.Observe(float64(len(report.Visited)))
	if report.Found() {
		r.searches.WithLabelValues("found").Inc()
		r.pathLen.Observe(float64(len(report.Path) - 1))
		return
	}
	r.searches.WithLabelValues("unreachable").Inc()
}

// ObserveResult records a search run to completion with gridastar.Solve.
func (r *Recorder) ObserveResult(res gridastar.Result) {
	if r == nil {
		return
	}
	r.steps.Add(float64(res.Steps))
	r.expanded.Observe(float64(res.ExpandedNodes))
	if res.Found {
		r.searches.WithLabelValues("found").Inc()
		r.pathLen.Observe(float64(res.Cost))
		return
	}
	r.searches.WithLabelValues("unreachable").Inc()
}

// SetSessions reports how many searches the server holds.
func (r *Recorder) SetSessions(n int) {
	if r == nil {
		return
	}
	r.sessions.Set(float64(n))
}
