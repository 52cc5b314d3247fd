// SPDX-License-Identifier: MIT

// Package metrics records Prometheus metrics for eigentrust computations.
//
// A Recorder owns a private registry, so several recorders (one per run or
// per test) never collide. Batch runs persist the registry with
// WriteTextfile in the node_exporter textfile-collector format.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/eigentrust/propagate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eigentrust"

// Status label values of the computations counter.
const (
	StatusOK             = "ok"
	StatusNonTermination = "non_termination"
	StatusCanceled       = "canceled"
	StatusInvalid        = "invalid"
	StatusError          = "error"
)

// Recorder collects the metrics of one or more computations.
// It is safe for concurrent use.
type Recorder struct {
	registry *prometheus.Registry

	computations  *prometheus.CounterVec
	iterations    *prometheus.HistogramVec
	duration      *prometheus.HistogramVec
	lastDelta     *prometheus.GaugeVec
	peers         prometheus.Gauge
	fallbackPeers prometheus.Gauge
}

// NewRecorder returns a Recorder backed by a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		// computations counts finished computations.
		// Labels: variant, status (ok, non_termination, canceled, invalid, error)
		computations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "computations_total",
			Help:      "Total trust computations by variant and outcome",
		}, []string{"variant", "status"}),
		iterations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "iterations",
			Help:      "Iterations (or matrix power depth) per successful computation",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000},
		}, []string{"variant"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "duration_seconds",
			Help:      "Wall time of trust computations in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"variant"}),
		lastDelta: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_delta",
			Help:      "L2 delta of the final iteration of the latest successful computation",
		}, []string{"variant"}),
		peers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "peers",
			Help:      "Peer count M of the latest local trust matrix",
		}),
		fallbackPeers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fallback_peers",
			Help:      "Peers whose local trust row came from the fallback policy",
		}),
	}
}

// Registry exposes the underlying registry, e.g. for promhttp or tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveLocalTrust records the size of C and how many rows fell back.
func (r *Recorder) ObserveLocalTrust(peers int, fallbackPeers []int) {
	r.peers.Set(float64(peers))
	r.fallbackPeers.Set(float64(len(fallbackPeers)))
}

// ObserveResult records one successful computation.
func (r *Recorder) ObserveResult(res *propagate.Result, elapsed time.Duration) {
	v := res.Variant.String()
	r.computations.WithLabelValues(v, StatusOK).Inc()
	r.iterations.WithLabelValues(v).Observe(float64(res.Iterations))
	r.duration.WithLabelValues(v).Observe(elapsed.Seconds())
	r.lastDelta.WithLabelValues(v).Set(res.Delta)
}

// ObserveFailure records one failed computation, classified by Status.
func (r *Recorder) ObserveFailure(v propagate.Variant, err error, elapsed time.Duration) {
	r.computations.WithLabelValues(v.String(), Status(err)).Inc()
	r.duration.WithLabelValues(v.String()).Observe(elapsed.Seconds())
}

// Status maps a computation error onto a status label value.
func Status(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, propagate.ErrNonTermination):
		return StatusNonTermination
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCanceled
	case errors.Is(err, propagate.ErrInvalidConfiguration), errors.Is(err, propagate.ErrDimensionMismatch):
		return StatusInvalid
	default:
		return StatusError
	}
}

// WriteTextfile atomically writes every collected metric to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}

	return nil
}
