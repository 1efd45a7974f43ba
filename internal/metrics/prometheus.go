package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"
)

const namespace = "rangecalc"

// Operation statuses used as label values.
const (
	StatusSuccess  = "success"
	StatusFailure  = "failure"
	StatusOverflow = "overflow"
	StatusInvalid  = "invalid_argument"
	StatusCanceled = "canceled"
)

// Recorder collects per-run operation metrics in its own registry, so
// recorders in tests never collide.
type Recorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
	chunks     *prometheus.CounterVec
	workers    prometheus.Gauge
}

// NewRecorder builds a Recorder. With runtime set, Go runtime and process
// collectors are registered too.
func NewRecorder(runtime bool) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Reductions run, by variant and status.",
		}, []string{"variant", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Wall-clock duration of successful reductions.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 9),
		}, []string{"variant"}),
		chunks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_completed_total",
			Help:      "Chunks completed by parallel workers, by operation.",
		}, []string{"op"}),
		workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers",
			Help:      "Configured worker count.",
		}),
	}
	r.registry.MustRegister(r.operations, r.durations, r.chunks, r.workers)
	if runtime {
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveOperation records one finished reduction.
func (r *Recorder) ObserveOperation(variant, status string, d time.Duration) {
	r.operations.WithLabelValues(variant, status).Inc()
	if status == StatusSuccess {
		r.durations.WithLabelValues(variant).Observe(d.Seconds())
	}
}

// SetWorkers records the configured worker count.
func (r *Recorder) SetWorkers(n int) { r.workers.Set(float64(n)) }

// ChunkDone counts one completed chunk. It satisfies reducer.Observer.
func (r *Recorder) ChunkDone(op string, _, _ int) {
	r.chunks.WithLabelValues(op).Inc()
}

// WriteText writes every gathered metric family in the Prometheus text
// exposition format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
