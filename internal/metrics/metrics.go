// Package metrics exports planning progress as Prometheus metrics.
//
// A Recorder is a stage.Observer: it is updated from the planning loop after
// every computation and owns a private registry, so several tasks in one
// process never collide.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/specialistvlad/stagegraph/internal/stage"
	"github.com/specialistvlad/stagegraph/internal/stageid"
)

const namespace = "stagegraph"

// Recorder collects per-stage planning metrics. Stages are labelled with
// their address.
type Recorder struct {
	registry *prometheus.Registry

	Computations    *prometheus.CounterVec
	ComputeErrors   *prometheus.CounterVec
	ComputeDuration *prometheus.HistogramVec
	Solutions       *prometheus.GaugeVec
	Failures        *prometheus.GaugeVec
}

// New creates a recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		Computations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "computations_total",
				Help:      "Number of compute calls per stage",
			},
			[]string{"stage"},
		),
		ComputeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compute_errors_total",
				Help:      "Number of compute calls per stage that returned an error",
			},
			[]string{"stage"},
		),
		ComputeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "compute_duration_seconds",
				Help:      "Duration of single compute calls in seconds",
				Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 1, 10},
			},
			[]string{"stage"},
		),
		Solutions: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "solutions",
				Help:      "Number of successful solutions currently stored per stage",
			},
			[]string{"stage"},
		),
		Failures: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "failures",
				Help:      "Number of failed or rejected solutions per stage",
			},
			[]string{"stage"},
		),
	}
}

// ObserveCompute implements stage.Observer.
func (r *Recorder) ObserveCompute(v stage.View, elapsed time.Duration, err error) {
	label := stageid.Of(v).String()
	r.Computations.WithLabelValues(label).Inc()
	r.ComputeDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	if err != nil {
		r.ComputeErrors.WithLabelValues(label).Inc()
	}
	r.Solutions.WithLabelValues(label).Set(float64(v.NumSolutions()))
	r.Failures.WithLabelValues(label).Set(float64(len(v.Failures())))
}

// Refresh sets the solution gauges of every stage below root. It must be
// called from the goroutine that drives planning.
func (r *Recorder) Refresh(root stage.Stage) {
	set := func(v stage.View) {
		label := stageid.Of(v).String()
		r.Solutions.WithLabelValues(label).Set(float64(v.NumSolutions()))
		r.Failures.WithLabelValues(label).Set(float64(len(v.Failures())))
	}
	c, ok := root.(stage.Container)
	if !ok {
		set(root)
		return
	}
	c.TraverseStages(func(v stage.View, _ int) bool {
		set(v)
		return true
	}, 0, 1<<16)
}

// Registry returns the registry all metrics are registered with.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
