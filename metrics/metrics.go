package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder collects benchmark measurements in a dedicated Prometheus registry
// so they can be written as a node_exporter textfile. A nil *Recorder ignores
// every observation.
type Recorder struct {
	registry   *prometheus.Registry
	duration   *prometheus.HistogramVec
	nsPerOp    *prometheus.GaugeVec
	iterations *prometheus.CounterVec
}

// NewRecorder creates a Recorder with its metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "find_odd",
			Name:      "duration_seconds",
			Help:      "Wall time of one measurement loop per method and input size.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"method", "size"}),
		nsPerOp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "find_odd",
			Name:      "ns_per_op",
			Help:      "Average nanoseconds per call of the last measurement.",
		}, []string{"method", "size"}),
		iterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "find_odd",
			Name:      "iterations_total",
			Help:      "Calls made while measuring.",
		}, []string{"method", "size"}),
	}
	r.registry.MustRegister(r.duration, r.nsPerOp, r.iterations)
	return r
}

// Observe records one measurement loop.
func (r *Recorder) Observe(method string, size int, elapsed time.Duration, iterations int) {
	if r == nil || iterations <= 0 {
		return
	}
	sizeLabel := strconv.Itoa(size)
	r.duration.WithLabelValues(method, sizeLabel).Observe(elapsed.Seconds())
	r.nsPerOp.WithLabelValues(method, sizeLabel).Set(float64(elapsed.Nanoseconds()) / float64(iterations))
	r.iterations.WithLabelValues(method, sizeLabel).Add(float64(iterations))
}

// Gatherer exposes the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes every metric in the Prometheus text format to path.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
